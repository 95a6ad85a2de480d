package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"hoofix/services/session"

	"github.com/golang-jwt/jwt"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type connRecorder struct {
	mu           sync.Mutex
	connected    int
	disconnected int
}

func (c *connRecorder) Connected() {
	c.mu.Lock()
	c.connected++
	c.mu.Unlock()
}

func (c *connRecorder) Disconnected(error) {
	c.mu.Lock()
	c.disconnected++
	c.mu.Unlock()
}

func testToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test"))
	require.NoError(t, err)
	return tok
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestClientJoinsAndRoutesEvents(t *testing.T) {
	joins := make(chan Envelope, 4)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var join Envelope
		if err := conn.ReadJSON(&join); err != nil {
			return
		}
		joins <- join

		batch := `{"event":"booking_status","data":{"id":"b1","status":"Accepted"}}` + "\n" +
			`{"event":"notification","data":{"message":"hi"}}`
		conn.WriteMessage(websocket.TextMessage, []byte(batch))

		// Hold the connection until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	creds := session.NewMemoryStore()
	require.NoError(t, creds.Set(context.Background(), testToken(t, jwt.MapClaims{"sub": map[string]interface{}{"id": "p1", "role": "provider"}})))

	rec := &recorder{}
	listener := &connRecorder{}
	client := NewClient(Config{URL: wsURL(srv), Room: RoomProvider, Mode: JoinByID}, creds, NewRouter(rec, nil), listener, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- client.Listen(ctx) }()

	select {
	case join := <-joins:
		assert.Equal(t, string(RoomProvider), join.Event)
		var payload map[string]string
		require.NoError(t, json.Unmarshal(join.Data, &payload))
		assert.Equal(t, map[string]string{"provider_id": "p1"}, payload)
	case <-time.After(2 * time.Second):
		t.Fatal("no join received")
	}

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, 2*time.Second, 10*time.Millisecond)
	events := rec.snapshot()
	assert.Equal(t, KindBookingStatus, events[0].Kind())
	assert.Equal(t, KindNotification, events[1].Kind())
	assert.True(t, client.Connected())

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not stop")
	}
	listener.mu.Lock()
	assert.Equal(t, 1, listener.connected)
	listener.mu.Unlock()
}

func TestClientReconnectsWithoutBackfill(t *testing.T) {
	var conns int32
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		n := atomic.AddInt32(&conns, 1)
		var join Envelope
		conn.ReadJSON(&join)
		if n == 1 {
			// Drop the first connection straight away.
			conn.Close()
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	creds := session.NewMemoryStore()
	require.NoError(t, creds.Set(context.Background(), testToken(t, jwt.MapClaims{"id": "u1"})))

	listener := &connRecorder{}
	client := NewClient(Config{URL: wsURL(srv), Room: RoomUser, ReconnectDelay: 20 * time.Millisecond}, creds, NewRouter(&recorder{}, nil), listener, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Listen(ctx)

	require.Eventually(t, func() bool { return atomic.LoadInt32(&conns) >= 2 }, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		listener.mu.Lock()
		defer listener.mu.Unlock()
		return listener.disconnected >= 1 && listener.connected >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestClientStopsWithoutIdentity(t *testing.T) {
	client := NewClient(Config{URL: "ws://127.0.0.1:1"}, session.NewMemoryStore(), NewRouter(&recorder{}, nil), nil, nil)
	err := client.Listen(context.Background())
	assert.Error(t, err)
}

func TestJoinEnvelopeModes(t *testing.T) {
	raw, err := joinEnvelope(RoomUser, JoinByToken, "u1", "tok")
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"join_user_room","data":{"token":"tok"}}`, string(raw))

	raw, err = joinEnvelope(RoomUser, JoinByID, "u1", "tok")
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"join_user_room","data":{"user_id":"u1"}}`, string(raw))
}
