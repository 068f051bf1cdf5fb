package services

import (
	"testing"

	"github.com/classpoint/classroom-service/internal/models"
)

func TestCanDeleteChannel(t *testing.T) {
	cases := map[models.ChannelRole]bool{
		models.RoleCreator:   true,
		models.RoleAdmin:     true,
		models.RoleModerator: false,
		models.RoleNewbie:    false,
	}
	for role, want := range cases {
		if got := CanDeleteChannel(role); got != want {
			t.Errorf("CanDeleteChannel(%s) = %v, want %v", role, got, want)
		}
	}
}

func TestCanViewSubchannel(t *testing.T) {
	tests := []struct {
		role     models.ChannelRole
		isMember bool
		want     bool
	}{
		{models.RoleCreator, false, true},
		{models.RoleAdmin, false, true},
		{models.RoleModerator, false, true},
		{models.RoleNewbie, false, false},
		{models.RoleNewbie, true, true},
	}
	for _, tt := range tests {
		if got := CanViewSubchannel(tt.role, tt.isMember); got != tt.want {
			t.Errorf("CanViewSubchannel(%s, member=%v) = %v, want %v", tt.role, tt.isMember, got, tt.want)
		}
	}
}

func TestCanChangeRole(t *testing.T) {
	tests := []struct {
		name    string
		actor   models.ChannelRole
		target  models.ChannelRole
		newRole models.ChannelRole
		allowed bool
	}{
		{"nobody assigns creator", models.RoleCreator, models.RoleNewbie, models.RoleCreator, false},
		{"nobody touches creator row", models.RoleAdmin, models.RoleCreator, models.RoleNewbie, false},
		{"creator promotes newbie to admin", models.RoleCreator, models.RoleNewbie, models.RoleAdmin, true},
		{"admin demotes moderator", models.RoleAdmin, models.RoleModerator, models.RoleNewbie, true},
		{"admin promotes newbie to admin", models.RoleAdmin, models.RoleNewbie, models.RoleAdmin, true},
		{"moderator cannot promote newbie", models.RoleModerator, models.RoleNewbie, models.RoleModerator, false},
		{"moderator keeps newbie as newbie", models.RoleModerator, models.RoleNewbie, models.RoleNewbie, true},
		{"moderator cannot touch admin", models.RoleModerator, models.RoleAdmin, models.RoleNewbie, false},
		{"newbie cannot change anyone", models.RoleNewbie, models.RoleNewbie, models.RoleNewbie, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, reason := CanChangeRole(tt.actor, tt.target, tt.newRole)
			if allowed != tt.allowed {
				t.Errorf("CanChangeRole(%s, %s, %s) = %v (%s), want %v",
					tt.actor, tt.target, tt.newRole, allowed, reason, tt.allowed)
			}
			if !allowed && reason == "" {
				t.Error("denial must carry a reason")
			}
		})
	}
}

func TestCanRemoveMember(t *testing.T) {
	tests := []struct {
		name          string
		actor         models.ChannelRole
		target        models.ChannelRole
		actorIsTarget bool
		allowed       bool
	}{
		{"creator cannot leave", models.RoleCreator, models.RoleCreator, true, false},
		{"admin may leave", models.RoleAdmin, models.RoleAdmin, true, true},
		{"newbie may leave", models.RoleNewbie, models.RoleNewbie, true, true},
		{"creator removes admin", models.RoleCreator, models.RoleAdmin, false, true},
		{"admin removes moderator", models.RoleAdmin, models.RoleModerator, false, true},
		{"admin cannot remove creator", models.RoleAdmin, models.RoleCreator, false, false},
		{"admin cannot remove admin", models.RoleAdmin, models.RoleAdmin, false, false},
		{"moderator removes newbie", models.RoleModerator, models.RoleNewbie, false, true},
		{"moderator cannot remove moderator", models.RoleModerator, models.RoleModerator, false, false},
		{"newbie cannot remove others", models.RoleNewbie, models.RoleNewbie, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, reason := CanRemoveMember(tt.actor, tt.target, tt.actorIsTarget)
			if allowed != tt.allowed {
				t.Errorf("CanRemoveMember(%s, %s, self=%v) = %v (%s), want %v",
					tt.actor, tt.target, tt.actorIsTarget, allowed, reason, tt.allowed)
			}
		})
	}
}
