package services

import (
	"context"
	"testing"

	"github.com/classpoint/classroom-service/internal/events"
	"github.com/classpoint/classroom-service/internal/validator"
)

type distributionFixture struct {
	*evaluationFixture
	distribution DistributionService
}

func newDistributionFixture(t *testing.T) *distributionFixture {
	t.Helper()
	fx := newEvaluationFixture(t)
	return &distributionFixture{
		evaluationFixture: fx,
		distribution:      NewDistributionService(fx.repo, fx.channels, fx.publisher, testLogger(), validator.New()),
	}
}

func TestDistributionSend(t *testing.T) {
	fx := newDistributionFixture(t)
	channel := fx.seedRoster(t)
	assessment := seedQuizAssessment(t, fx.repo, "alice@example.com")

	alice := Actor{ID: "u1", Email: "alice@example.com"}
	fx.publisher.ClearEvents()
	dist, err := fx.distribution.Send(context.Background(), alice, &validator.DistributeRequest{
		AssessmentID: assessment.ID,
		Kind:         assessment.Kind,
		ChannelID:    channel.ID,
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !dist.Active {
		t.Error("new distribution should be active")
	}
	if dist.SentBy != "alice@example.com" {
		t.Errorf("sent_by = %s", dist.SentBy)
	}

	published := fx.publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Event.Type != events.EventAssessmentDistributed {
		t.Errorf("published = %+v", published)
	}
	if published[0].Topic != events.RoomTopic(channel.ID, nil) {
		t.Errorf("topic = %s", published[0].Topic)
	}
}

func TestDistributionSendRequiresPrivilegedRole(t *testing.T) {
	fx := newDistributionFixture(t)
	channel := fx.seedRoster(t)
	assessment := seedQuizAssessment(t, fx.repo, "alice@example.com")

	bob := Actor{ID: "u2", Email: "bob@example.com"}
	_, err := fx.distribution.Send(context.Background(), bob, &validator.DistributeRequest{
		AssessmentID: assessment.ID,
		Kind:         assessment.Kind,
		ChannelID:    channel.ID,
	})
	if _, ok := err.(*PermissionError); !ok {
		t.Errorf("newbie send = %v, want PermissionError", err)
	}
}

func TestDistributionVisibilityFollowsMemberships(t *testing.T) {
	fx := newDistributionFixture(t)
	channel := fx.seedRoster(t)
	assessment := seedQuizAssessment(t, fx.repo, "alice@example.com")

	// One channel-wide send, one scoped to a subchannel bob is not in.
	sub, err := fx.channels.CreateSubchannel(context.Background(), "u1", channel.ID, &validator.SubchannelCreateRequest{Name: "Group A"})
	if err != nil {
		t.Fatalf("CreateSubchannel: %v", err)
	}

	alice := Actor{ID: "u1", Email: "alice@example.com"}
	if _, err := fx.distribution.Send(context.Background(), alice, &validator.DistributeRequest{
		AssessmentID: assessment.ID, Kind: assessment.Kind, ChannelID: channel.ID,
	}); err != nil {
		t.Fatalf("Send channel-wide: %v", err)
	}
	if _, err := fx.distribution.Send(context.Background(), alice, &validator.DistributeRequest{
		AssessmentID: assessment.ID, Kind: assessment.Kind, ChannelID: channel.ID, SubchannelID: &sub.ID,
	}); err != nil {
		t.Fatalf("Send subchannel: %v", err)
	}

	bobSees, err := fx.distribution.ListVisible(context.Background(), "u2")
	if err != nil {
		t.Fatalf("ListVisible bob: %v", err)
	}
	if len(bobSees) != 1 {
		t.Errorf("bob sees %d distributions, want 1 (channel-wide only)", len(bobSees))
	}

	aliceSees, err := fx.distribution.ListVisible(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListVisible alice: %v", err)
	}
	if len(aliceSees) != 2 {
		t.Errorf("alice sees %d distributions, want 2", len(aliceSees))
	}
	for _, v := range aliceSees {
		if v.AssessmentTitle != "Sorting Basics" {
			t.Errorf("title = %q", v.AssessmentTitle)
		}
	}
}

func TestDistributionDeactivate(t *testing.T) {
	fx := newDistributionFixture(t)
	channel := fx.seedRoster(t)
	assessment := seedQuizAssessment(t, fx.repo, "alice@example.com")

	alice := Actor{ID: "u1", Email: "alice@example.com"}
	dist, err := fx.distribution.Send(context.Background(), alice, &validator.DistributeRequest{
		AssessmentID: assessment.ID, Kind: assessment.Kind, ChannelID: channel.ID,
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	// A plain member is neither sender nor privileged.
	bob := Actor{ID: "u2", Email: "bob@example.com"}
	if err := fx.distribution.Deactivate(context.Background(), bob, dist.ID); err == nil {
		t.Error("newbie deactivate should be denied")
	}

	if err := fx.distribution.Deactivate(context.Background(), alice, dist.ID); err != nil {
		t.Fatalf("sender deactivate: %v", err)
	}

	visible, err := fx.distribution.ListVisible(context.Background(), "u2")
	if err != nil {
		t.Fatalf("ListVisible: %v", err)
	}
	if len(visible) != 0 {
		t.Errorf("deactivated distribution still visible: %d", len(visible))
	}
}
