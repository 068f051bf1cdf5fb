package services

import "github.com/classpoint/classroom-service/internal/models"

// Pure role-permission rules, kept free of I/O so the full
// (actor, action, target) cross-product is testable directly.

// CanDeleteChannel: creator and admin only.
func CanDeleteChannel(role models.ChannelRole) bool {
	return role == models.RoleCreator || role == models.RoleAdmin
}

// CanManageSubchannels covers creating subchannels, deleting them, adding
// subchannel members and uploading files.
func CanManageSubchannels(role models.ChannelRole) bool {
	return role.Privileged()
}

// CanViewSubchannel: any privileged channel member sees every subchannel;
// newbies only the subchannels they were explicitly added to.
func CanViewSubchannel(channelRole models.ChannelRole, isSubchannelMember bool) bool {
	return channelRole.Privileged() || isSubchannelMember
}

// CanChangeRole decides whether actor may move target to newRole.
//
// Nobody may assign the creator role or touch the creator's row: a channel
// has exactly one creator for its lifetime.
func CanChangeRole(actorRole, targetRole, newRole models.ChannelRole) (bool, string) {
	if newRole == models.RoleCreator {
		return false, "creator role cannot be assigned"
	}
	if targetRole == models.RoleCreator {
		return false, "creator role cannot be changed"
	}

	switch actorRole {
	case models.RoleCreator:
		return true, ""
	case models.RoleAdmin:
		return true, ""
	case models.RoleModerator:
		if targetRole == models.RoleNewbie && newRole == models.RoleNewbie {
			return true, ""
		}
		return false, "moderators may only manage newbie members"
	default:
		return false, "newbie members cannot change roles"
	}
}

// CanRemoveMember decides whether actor may remove target from the channel.
func CanRemoveMember(actorRole, targetRole models.ChannelRole, actorIsTarget bool) (bool, string) {
	if actorIsTarget {
		if actorRole == models.RoleCreator {
			return false, "creator cannot remove itself"
		}
		// Leaving is always allowed for non-creators.
		return true, ""
	}

	switch actorRole {
	case models.RoleCreator:
		return true, ""
	case models.RoleAdmin:
		if targetRole == models.RoleCreator || targetRole == models.RoleAdmin {
			return false, "admins cannot remove the creator or other admins"
		}
		return true, ""
	case models.RoleModerator:
		if targetRole == models.RoleNewbie {
			return true, ""
		}
		return false, "moderators may only remove newbie members"
	default:
		return false, "newbie members cannot remove others"
	}
}
