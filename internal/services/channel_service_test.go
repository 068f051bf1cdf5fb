package services

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/classpoint/classroom-service/internal/events"
	"github.com/classpoint/classroom-service/internal/models"
	"github.com/classpoint/classroom-service/internal/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newChannelTestService(t *testing.T) (ChannelService, *fakeRepository, *events.MockEventPublisher) {
	t.Helper()
	repo := newFakeRepository()
	logger := testLogger()
	publisher := events.NewMockEventPublisher(logger)
	return NewChannelService(repo, publisher, logger, validator.New()), repo, publisher
}

func createTestChannel(t *testing.T, svc ChannelService, creatorID string) *models.Channel {
	t.Helper()
	channel, err := svc.Create(context.Background(), creatorID, &validator.ChannelCreateRequest{Name: "Algorithms"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return channel
}

func TestChannelCreateSeedsCreatorMembership(t *testing.T) {
	svc, repo, _ := newChannelTestService(t)
	repo.seedUser("u1", "Alice", "alice@example.com")

	channel := createTestChannel(t, svc, "u1")
	if channel.InviteCode == "" {
		t.Error("expected a generated invite code")
	}

	role, ok, err := svc.RoleAt(context.Background(), channel.ID, "u1")
	if err != nil || !ok {
		t.Fatalf("RoleAt: ok=%v err=%v", ok, err)
	}
	if role != models.RoleCreator {
		t.Errorf("creator role = %s, want creator", role)
	}
}

func TestChannelJoinIsIdempotent(t *testing.T) {
	svc, repo, publisher := newChannelTestService(t)
	repo.seedUser("u1", "Alice", "alice@example.com")
	repo.seedUser("u2", "Bob", "bob@example.com")
	channel := createTestChannel(t, svc, "u1")

	_, joined, err := svc.Join(context.Background(), "u2", channel.InviteCode)
	if err != nil {
		t.Fatalf("first join: %v", err)
	}
	if !joined {
		t.Error("first join should report joined=true")
	}

	publisher.ClearEvents()
	_, joined, err = svc.Join(context.Background(), "u2", channel.InviteCode)
	if err != nil {
		t.Fatalf("second join: %v", err)
	}
	if joined {
		t.Error("second join should report joined=false")
	}
	if n := len(publisher.GetPublishedEvents()); n != 0 {
		t.Errorf("duplicate join published %d events, want 0", n)
	}
}

func TestChannelJoinUnknownInviteCode(t *testing.T) {
	svc, repo, _ := newChannelTestService(t)
	repo.seedUser("u1", "Alice", "alice@example.com")

	if _, _, err := svc.Join(context.Background(), "u1", "no-such-code"); err != ErrInvalidInviteCode {
		t.Errorf("Join with bad code = %v, want ErrInvalidInviteCode", err)
	}
}

func TestAddMemberDuplicateConverges(t *testing.T) {
	svc, repo, _ := newChannelTestService(t)
	repo.seedUser("u1", "Alice", "alice@example.com")
	repo.seedUser("u2", "Bob", "bob@example.com")
	channel := createTestChannel(t, svc, "u1")

	first, added, err := svc.AddMember(context.Background(), "u1", channel.ID, &validator.MemberAddRequest{UserID: "u2"})
	if err != nil || !added {
		t.Fatalf("first add: added=%v err=%v", added, err)
	}

	second, added, err := svc.AddMember(context.Background(), "u1", channel.ID, &validator.MemberAddRequest{UserID: "u2", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("duplicate add: %v", err)
	}
	if added {
		t.Error("duplicate add should report added=false")
	}
	if second.ID != first.ID {
		t.Errorf("duplicate add returned row %d, want existing row %d", second.ID, first.ID)
	}
	if second.Role != models.RoleNewbie {
		t.Errorf("duplicate add changed role to %s", second.Role)
	}
}

func TestAddMemberRejectsCreatorRole(t *testing.T) {
	svc, repo, _ := newChannelTestService(t)
	repo.seedUser("u1", "Alice", "alice@example.com")
	channel := createTestChannel(t, svc, "u1")

	_, _, err := svc.AddMember(context.Background(), "u1", channel.ID, &validator.MemberAddRequest{UserID: "u2", Role: models.RoleCreator})
	if err == nil {
		t.Fatal("assigning the creator role should fail")
	}
}

func TestAddMemberRequiresPrivilegedRole(t *testing.T) {
	svc, repo, _ := newChannelTestService(t)
	repo.seedUser("u1", "Alice", "alice@example.com")
	repo.seedUser("u2", "Bob", "bob@example.com")
	channel := createTestChannel(t, svc, "u1")

	if _, _, err := svc.Join(context.Background(), "u2", channel.InviteCode); err != nil {
		t.Fatalf("join: %v", err)
	}

	_, _, err := svc.AddMember(context.Background(), "u2", channel.ID, &validator.MemberAddRequest{UserID: "u3"})
	if _, ok := err.(*PermissionError); !ok {
		t.Errorf("newbie add member = %v, want PermissionError", err)
	}
}

func TestReplaceMembersKeepsCreatorAndDedups(t *testing.T) {
	svc, repo, _ := newChannelTestService(t)
	repo.seedUser("u1", "Alice", "alice@example.com")
	repo.seedUser("u2", "Bob", "bob@example.com")
	repo.seedUser("u3", "Cara", "cara@example.com")
	channel := createTestChannel(t, svc, "u1")

	count, err := svc.ReplaceMembers(context.Background(), "u1", channel.ID, &validator.MemberBulkReplaceRequest{
		Members: []validator.MemberAddRequest{
			{UserID: "u2", Role: models.RoleModerator},
			{UserID: "u2", Role: models.RoleNewbie}, // duplicate, first wins
			{UserID: "u3"},
			{UserID: "u1", Role: models.RoleNewbie}, // creator listed again, creator row wins
		},
	})
	if err != nil {
		t.Fatalf("ReplaceMembers: %v", err)
	}
	if count != 3 {
		t.Errorf("roster size = %d, want 3", count)
	}

	role, ok, _ := svc.RoleAt(context.Background(), channel.ID, "u1")
	if !ok || role != models.RoleCreator {
		t.Errorf("creator row after replace = (%s, %v), want (creator, true)", role, ok)
	}
	role, ok, _ = svc.RoleAt(context.Background(), channel.ID, "u2")
	if !ok || role != models.RoleModerator {
		t.Errorf("u2 role after replace = (%s, %v), want (moderator, true)", role, ok)
	}
}

func TestCreateSubchannelSeedsPrivilegedAndExplicitMembers(t *testing.T) {
	svc, repo, _ := newChannelTestService(t)
	repo.seedUser("u1", "Alice", "alice@example.com")
	repo.seedUser("u2", "Bob", "bob@example.com")
	repo.seedUser("u3", "Cara", "cara@example.com")
	repo.seedUser("u4", "Dan", "dan@example.com")
	channel := createTestChannel(t, svc, "u1")

	for user, role := range map[string]models.ChannelRole{
		"u2": models.RoleModerator,
		"u3": models.RoleNewbie,
		"u4": models.RoleNewbie,
	} {
		if _, _, err := svc.AddMember(context.Background(), "u1", channel.ID, &validator.MemberAddRequest{UserID: user, Role: role}); err != nil {
			t.Fatalf("AddMember(%s): %v", user, err)
		}
	}

	sub, err := svc.CreateSubchannel(context.Background(), "u1", channel.ID, &validator.SubchannelCreateRequest{
		Name:      "Group A",
		MemberIDs: []string{"u3"},
	})
	if err != nil {
		t.Fatalf("CreateSubchannel: %v", err)
	}

	members, err := repo.Channel().ListSubchannelMembers(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("ListSubchannelMembers: %v", err)
	}
	got := map[string]bool{}
	for _, m := range members {
		got[m.UserID] = true
	}
	for _, want := range []string{"u1", "u2", "u3"} {
		if !got[want] {
			t.Errorf("subchannel roster missing %s", want)
		}
	}
	if got["u4"] {
		t.Error("u4 was not invited and is not privileged, should not be seeded")
	}
}

func TestCreateSubchannelRejectsNonMemberSeed(t *testing.T) {
	svc, repo, _ := newChannelTestService(t)
	repo.seedUser("u1", "Alice", "alice@example.com")
	channel := createTestChannel(t, svc, "u1")

	_, err := svc.CreateSubchannel(context.Background(), "u1", channel.ID, &validator.SubchannelCreateRequest{
		Name:      "Group A",
		MemberIDs: []string{"stranger"},
	})
	if err == nil {
		t.Fatal("seeding a non-member should fail")
	}
}

func TestGetSubchannelVisibility(t *testing.T) {
	svc, repo, _ := newChannelTestService(t)
	repo.seedUser("u1", "Alice", "alice@example.com")
	repo.seedUser("u2", "Bob", "bob@example.com")
	repo.seedUser("u3", "Cara", "cara@example.com")
	channel := createTestChannel(t, svc, "u1")

	for _, user := range []string{"u2", "u3"} {
		if _, _, err := svc.Join(context.Background(), user, channel.InviteCode); err != nil {
			t.Fatalf("join %s: %v", user, err)
		}
	}

	sub, err := svc.CreateSubchannel(context.Background(), "u1", channel.ID, &validator.SubchannelCreateRequest{
		Name:      "Group A",
		MemberIDs: []string{"u2"},
	})
	if err != nil {
		t.Fatalf("CreateSubchannel: %v", err)
	}

	if _, err := svc.GetSubchannel(context.Background(), "u2", channel.ID, sub.ID); err != nil {
		t.Errorf("subchannel member should see the subchannel: %v", err)
	}
	if _, err := svc.GetSubchannel(context.Background(), "u3", channel.ID, sub.ID); err == nil {
		t.Error("uninvited newbie should not see the subchannel")
	}
	if _, err := svc.GetSubchannel(context.Background(), "u1", channel.ID, sub.ID); err != nil {
		t.Errorf("creator should see every subchannel: %v", err)
	}
}

func TestLeaveChannel(t *testing.T) {
	svc, repo, _ := newChannelTestService(t)
	repo.seedUser("u1", "Alice", "alice@example.com")
	repo.seedUser("u2", "Bob", "bob@example.com")
	channel := createTestChannel(t, svc, "u1")

	if _, _, err := svc.Join(context.Background(), "u2", channel.InviteCode); err != nil {
		t.Fatalf("join: %v", err)
	}

	if err := svc.Leave(context.Background(), "u2", channel.ID); err != nil {
		t.Errorf("member leave: %v", err)
	}
	if err := svc.Leave(context.Background(), "u1", channel.ID); err == nil {
		t.Error("creator leave should be rejected")
	}
}

func TestRemoveMemberByRowIDAndUserID(t *testing.T) {
	svc, repo, _ := newChannelTestService(t)
	repo.seedUser("u1", "Alice", "alice@example.com")
	repo.seedUser("u2", "Bob", "bob@example.com")
	repo.seedUser("u3", "Cara", "cara@example.com")
	channel := createTestChannel(t, svc, "u1")

	member, _, err := svc.AddMember(context.Background(), "u1", channel.ID, &validator.MemberAddRequest{UserID: "u2"})
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if _, _, err := svc.AddMember(context.Background(), "u1", channel.ID, &validator.MemberAddRequest{UserID: "u3"}); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	// By membership-row id.
	if err := svc.RemoveMember(context.Background(), "u1", channel.ID, strconv.Itoa(int(member.ID))); err != nil {
		t.Errorf("remove by row id: %v", err)
	}
	// By user id.
	if err := svc.RemoveMember(context.Background(), "u1", channel.ID, "u3"); err != nil {
		t.Errorf("remove by user id: %v", err)
	}
}
