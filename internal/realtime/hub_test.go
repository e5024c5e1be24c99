package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub()
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h, cancel
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case msg := <-c.Send:
		var ev Event
		require.NoError(t, json.Unmarshal(msg, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
	return Event{}
}

func TestHub_SendToUser(t *testing.T) {
	h, _ := startHub(t)
	alice := NewClient(uuid.New())
	bob := NewClient(uuid.New())
	require.True(t, h.RegisterClient(alice))
	require.True(t, h.RegisterClient(bob))

	assert.Eventually(t, func() bool { return h.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	h.SendToUser(alice.UserID, Event{Type: EventAccountStatus, Data: map[string]string{"status": "active"}})

	ev := receive(t, alice)
	assert.Equal(t, EventAccountStatus, ev.Type)
	assert.Empty(t, bob.Send)
}

func TestHub_BroadcastAndUnregister(t *testing.T) {
	h, _ := startHub(t)
	a := NewClient(uuid.New())
	b := NewClient(uuid.New())
	h.RegisterClient(a)
	h.RegisterClient(b)

	h.Broadcast(Event{Type: EventAnnouncement, Data: "hello"})
	assert.Equal(t, EventAnnouncement, receive(t, a).Type)
	assert.Equal(t, EventAnnouncement, receive(t, b).Type)

	h.UnregisterClient(a)
	assert.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	_, open := <-a.Send
	assert.False(t, open)
}

func TestHub_StopClosesClients(t *testing.T) {
	h, cancel := startHub(t)
	c := NewClient(uuid.New())
	h.RegisterClient(c)
	cancel()

	select {
	case _, open := <-c.Send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("client not closed")
	}
	assert.False(t, h.RegisterClient(NewClient(uuid.New())))
}

func TestPublisher_Publish(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	uid := uuid.New()
	sub := rdb.Subscribe(ctx, NotificationChannel(uid))
	t.Cleanup(func() { _ = sub.Close() })
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	p := &Publisher{RDB: rdb}
	require.NoError(t, p.Publish(ctx, uid, Event{Type: EventAccountStatus, Data: "banned"}))

	select {
	case msg := <-sub.Channel():
		assert.Equal(t, "notifications:"+uid.String(), msg.Channel)
		assert.Contains(t, msg.Payload, `"account_status"`)
	case <-time.After(2 * time.Second):
		t.Fatal("no pubsub message")
	}
}

func TestPublisher_NilIsNoop(t *testing.T) {
	var p *Publisher
	assert.NoError(t, p.Publish(context.Background(), uuid.New(), Event{}))
}
