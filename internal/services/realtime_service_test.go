package services

import (
	"context"
	"testing"

	"github.com/classpoint/classroom-service/internal/events"
	"github.com/classpoint/classroom-service/internal/models"
	"github.com/classpoint/classroom-service/internal/validator"
)

type realtimeFixture struct {
	*evaluationFixture
	realtime RealtimeService
}

func newRealtimeFixture(t *testing.T) *realtimeFixture {
	t.Helper()
	fx := newEvaluationFixture(t)
	presence := events.NewPresenceTracker(nil)
	return &realtimeFixture{
		evaluationFixture: fx,
		realtime:          NewRealtimeService(fx.repo, fx.channels, fx.publisher, nil, presence, testLogger(), validator.New()),
	}
}

func TestSendMessage(t *testing.T) {
	fx := newRealtimeFixture(t)
	channel := fx.seedRoster(t)

	bob := Actor{ID: "u2", Name: "Bob", Email: "bob@example.com"}
	fx.publisher.ClearEvents()
	msg, err := fx.realtime.SendMessage(context.Background(), bob, channel.ID, nil, &validator.MessageSendRequest{Body: "hello"})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if msg.SenderName != "Bob" {
		t.Errorf("sender name = %q", msg.SenderName)
	}

	published := fx.publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Event.Type != events.EventMessageSent {
		t.Fatalf("published = %+v", published)
	}
	if published[0].Topic != events.RoomTopic(channel.ID, nil) {
		t.Errorf("topic = %s", published[0].Topic)
	}

	messages, err := fx.realtime.ListMessages(context.Background(), "u3", channel.ID, nil, 0)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(messages) != 1 || messages[0].Body != "hello" {
		t.Errorf("messages = %+v", messages)
	}
}

func TestSendMessageRequiresMembership(t *testing.T) {
	fx := newRealtimeFixture(t)
	channel := fx.seedRoster(t)
	fx.repo.seedUser("u9", "Eve", "eve@example.com")

	eve := Actor{ID: "u9", Name: "Eve", Email: "eve@example.com"}
	_, err := fx.realtime.SendMessage(context.Background(), eve, channel.ID, nil, &validator.MessageSendRequest{Body: "hi"})
	if _, ok := err.(*PermissionError); !ok {
		t.Errorf("non-member send = %v, want PermissionError", err)
	}
}

func TestSubchannelMessagesAreScoped(t *testing.T) {
	fx := newRealtimeFixture(t)
	channel := fx.seedRoster(t)

	sub, err := fx.channels.CreateSubchannel(context.Background(), "u1", channel.ID, &validator.SubchannelCreateRequest{
		Name:      "Group A",
		MemberIDs: []string{"u2"},
	})
	if err != nil {
		t.Fatalf("CreateSubchannel: %v", err)
	}

	bob := Actor{ID: "u2", Name: "Bob", Email: "bob@example.com"}
	if _, err := fx.realtime.SendMessage(context.Background(), bob, channel.ID, &sub.ID, &validator.MessageSendRequest{Body: "group only"}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	// A newbie outside the subchannel can neither read nor write it.
	if _, err := fx.realtime.ListMessages(context.Background(), "u3", channel.ID, &sub.ID, 0); err == nil {
		t.Error("outsider read of subchannel messages should be denied")
	}

	// Channel-level history stays clean of subchannel traffic.
	channelMsgs, err := fx.realtime.ListMessages(context.Background(), "u3", channel.ID, nil, 0)
	if err != nil {
		t.Fatalf("ListMessages channel: %v", err)
	}
	if len(channelMsgs) != 0 {
		t.Errorf("subchannel message leaked to channel history: %d", len(channelMsgs))
	}

	subMsgs, err := fx.realtime.ListMessages(context.Background(), "u2", channel.ID, &sub.ID, 0)
	if err != nil {
		t.Fatalf("ListMessages subchannel: %v", err)
	}
	if len(subMsgs) != 1 {
		t.Errorf("subchannel messages = %d, want 1", len(subMsgs))
	}
}

func TestPresenceDefaultsOffline(t *testing.T) {
	fx := newRealtimeFixture(t)
	channel := fx.seedRoster(t)

	// No Redis backend wired, so everyone reads offline.
	statuses, err := fx.realtime.Presence(context.Background(), "u2", channel.ID)
	if err != nil {
		t.Fatalf("Presence: %v", err)
	}
	if len(statuses) != 3 {
		t.Errorf("statuses = %d, want 3", len(statuses))
	}
	for id, status := range statuses {
		if status != models.PresenceOffline {
			t.Errorf("status[%s] = %s, want offline", id, status)
		}
	}

	if _, err := fx.realtime.Presence(context.Background(), "stranger", channel.ID); err == nil {
		t.Error("non-member presence read should be denied")
	}
}

func TestSetOnlineBroadcastsAndPersists(t *testing.T) {
	fx := newRealtimeFixture(t)
	fx.repo.seedUser("u1", "Alice", "alice@example.com")

	fx.publisher.ClearEvents()
	if err := fx.realtime.SetOnline(context.Background(), "u1"); err != nil {
		t.Fatalf("SetOnline: %v", err)
	}

	user, err := fx.repo.User().GetByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.Status != models.PresenceOnline {
		t.Errorf("stored status = %s, want online", user.Status)
	}

	published := fx.publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Topic != events.PresenceTopic {
		t.Fatalf("published = %+v", published)
	}
	if published[0].Event.Type != events.EventPresenceChanged {
		t.Errorf("type = %s", published[0].Event.Type)
	}

	if err := fx.realtime.SetOffline(context.Background(), "u1"); err != nil {
		t.Fatalf("SetOffline: %v", err)
	}
	user, _ = fx.repo.User().GetByID(context.Background(), "u1")
	if user.Status != models.PresenceOffline {
		t.Errorf("stored status = %s, want offline", user.Status)
	}
}

func TestSubscribeWithoutInProcessBus(t *testing.T) {
	fx := newRealtimeFixture(t)
	channel := fx.seedRoster(t)

	if _, err := fx.realtime.Subscribe(context.Background(), "u2", channel.ID, nil); err != ErrStreamingUnavailable {
		t.Errorf("Subscribe = %v, want ErrStreamingUnavailable", err)
	}
}

func TestSubscribeOnInProcessBus(t *testing.T) {
	fx := newEvaluationFixture(t)
	bus := events.NewGoChannelEventPublisher(testLogger())
	defer bus.Close()

	realtime := NewRealtimeService(fx.repo, fx.channels, bus, bus, events.NewPresenceTracker(nil), testLogger(), validator.New())

	fx.repo.seedUser("u1", "Alice", "alice@example.com")
	channel, err := fx.channels.Create(context.Background(), "u1", &validator.ChannelCreateRequest{Name: "Algorithms"})
	if err != nil {
		t.Fatalf("create channel: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := realtime.Subscribe(ctx, "u1", channel.ID, nil)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	alice := Actor{ID: "u1", Name: "Alice", Email: "alice@example.com"}
	if _, err := realtime.SendMessage(ctx, alice, channel.ID, nil, &validator.MessageSendRequest{Body: "live"}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	msg := <-messages
	if msg.Metadata.Get("event_type") != events.EventMessageSent {
		t.Errorf("event_type = %q", msg.Metadata.Get("event_type"))
	}
	msg.Ack()
}
