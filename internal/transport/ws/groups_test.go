package ws

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindmeld/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSender struct {
	id  string
	err error

	mu       sync.Mutex
	received [][]byte
}

func (f *fakeSender) ConnID() string { return f.id }

func (f *fakeSender) Send(data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.received = append(f.received, data)
	return nil
}

func (f *fakeSender) messages(t *testing.T) []ServerMessage {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]ServerMessage, 0, len(f.received))
	for _, data := range f.received {
		var msg ServerMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		out = append(out, msg)
	}
	return out
}

func TestGroups_SendToRoom(t *testing.T) {
	g := NewGroups(discardLogger())
	a := &fakeSender{id: "a"}
	b := &fakeSender{id: "b"}
	other := &fakeSender{id: "other"}
	g.Register(a)
	g.Register(b)
	g.Register(other)

	require.NoError(t, g.AddConnectionToGroup("a", "ROOM"))
	require.NoError(t, g.AddConnectionToGroup("b", "ROOM"))
	require.NoError(t, g.AddConnectionToGroup("other", "ELSE"))

	err := g.SendToRoom("ROOM", domain.EventPlayerLeft, &domain.PlayerLeftPayload{PlayerID: "p1"})
	require.NoError(t, err)

	for _, s := range []*fakeSender{a, b} {
		msgs := s.messages(t)
		require.Len(t, msgs, 1)
		assert.Equal(t, MessageType("PlayerLeft"), msgs[0].Type)
		assert.Equal(t, map[string]any{"playerId": "p1"}, msgs[0].Payload)
		assert.NotEmpty(t, msgs[0].Timestamp)
	}
	assert.Empty(t, other.messages(t))
}

func TestGroups_SendToRoom_JoinsFailures(t *testing.T) {
	g := NewGroups(discardLogger())
	good := &fakeSender{id: "good"}
	bad := &fakeSender{id: "bad", err: ErrSendBufferFull}
	g.Register(good)
	g.Register(bad)
	require.NoError(t, g.AddConnectionToGroup("good", "ROOM"))
	require.NoError(t, g.AddConnectionToGroup("bad", "ROOM"))

	err := g.SendToRoom("ROOM", domain.EventRoundTimerUpdate, &domain.RoundTimerPayload{SecondsRemaining: 3})

	assert.ErrorIs(t, err, ErrSendBufferFull)
	assert.Len(t, good.messages(t), 1)
}

func TestGroups_SendToCaller(t *testing.T) {
	g := NewGroups(discardLogger())
	a := &fakeSender{id: "a"}
	g.Register(a)

	require.NoError(t, g.SendToCaller("a", domain.EventGameStateUpdate, &domain.GameStatePayload{State: domain.StateWaiting}))
	msgs := a.messages(t)
	require.Len(t, msgs, 1)
	assert.Equal(t, MessageType("GameStateUpdate"), msgs[0].Type)

	err := g.SendToCaller("missing", domain.EventGameStateUpdate, nil)
	assert.ErrorIs(t, err, ErrConnectionNotFound)
}

func TestGroups_Membership(t *testing.T) {
	g := NewGroups(discardLogger())
	g.Register(&fakeSender{id: "a"})
	g.Register(&fakeSender{id: "b"})

	assert.ErrorIs(t, g.AddConnectionToGroup("ghost", "ROOM"), ErrConnectionNotFound)

	require.NoError(t, g.AddConnectionToGroup("a", "ROOM"))
	require.NoError(t, g.AddConnectionToGroup("b", "ROOM"))
	assert.Equal(t, 2, g.GroupSize("ROOM"))

	require.NoError(t, g.RemoveConnectionFromGroup("a", "ROOM"))
	assert.Equal(t, 1, g.GroupSize("ROOM"))

	err := g.RemoveConnectionFromGroup("a", "ROOM")
	assert.True(t, errors.Is(err, ErrConnectionNotFound))

	g.Unregister("b")
	assert.Equal(t, 0, g.GroupSize("ROOM"))
	assert.Equal(t, 1, g.ClientCount())
	assert.ErrorIs(t, g.RemoveConnectionFromGroup("b", "ROOM"), ErrConnectionNotFound)
}
