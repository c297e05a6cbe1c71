package domain

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)

func newTestRoom(playerIDs ...string) *Room {
	room := NewRoom("ABCD", DefaultRoomSettings(), testNow)
	for _, id := range playerIDs {
		room.AddPlayer(NewPlayer(id, "name-"+id, testNow))
	}
	return room
}

func TestNewRoom_Defaults(t *testing.T) {
	room := NewRoom("ABCD", RoomSettings{}, testNow)

	assert.Equal(t, StateWaiting, room.State)
	assert.Nil(t, room.CurrentRound)
	assert.Nil(t, room.Host)
	assert.Equal(t, DefaultMaxRounds, room.Settings.MaxRounds)
	assert.Equal(t, DefaultRoundDuration, room.Settings.RoundDuration)
	assert.Empty(t, room.CompletedRounds)
}

func TestRoom_AddPlayer_FirstBecomesHost(t *testing.T) {
	room := newTestRoom("p1", "p2")

	require.NotNil(t, room.Host)
	assert.Equal(t, "p1", room.HostID())
	assert.True(t, room.IsHost("p1"))
	assert.False(t, room.IsHost("p2"))
	assert.Equal(t, 2, room.PlayerCount())
}

func TestRoom_AddPlayer_DuplicateIgnored(t *testing.T) {
	room := newTestRoom("p1")
	room.AddPlayer(NewPlayer("p1", "again", testNow))

	assert.Equal(t, 1, room.PlayerCount())
	assert.Equal(t, "name-p1", room.Players[0].Name)
}

func TestRoom_RemovePlayer_ReassignsHost(t *testing.T) {
	room := newTestRoom("p1", "p2", "p3")

	assert.True(t, room.RemovePlayer("p1"))
	assert.Equal(t, "p2", room.HostID())

	assert.True(t, room.RemovePlayer("p3"))
	assert.Equal(t, "p2", room.HostID())

	assert.True(t, room.RemovePlayer("p2"))
	assert.Nil(t, room.Host)
	assert.Equal(t, 0, room.PlayerCount())

	assert.False(t, room.RemovePlayer("p2"))
}

func TestRoom_HostAlwaysInRoster(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ids := []string{"a", "b", "c", "d", "e"}
	room := newTestRoom()

	for i := 0; i < 500; i++ {
		id := ids[rng.Intn(len(ids))]
		if rng.Intn(2) == 0 {
			room.AddPlayer(NewPlayer(id, id, testNow))
		} else {
			room.RemovePlayer(id)
		}

		if room.PlayerCount() == 0 {
			require.Nil(t, room.Host, "step %d", i)
			continue
		}
		require.NotNil(t, room.Host, "step %d", i)
		require.True(t, room.HasPlayer(room.Host.ID), "step %d", i)
	}
}

func TestRoom_StartNewRound(t *testing.T) {
	room := newTestRoom("p1")

	round := room.StartNewRound(testNow)

	assert.Equal(t, StateInProgress, room.State)
	assert.Equal(t, 1, round.Number)
	assert.Equal(t, testNow, round.CreatedAt)
	assert.Equal(t, DefaultRoundDuration, round.Duration)
	assert.Same(t, round, room.CurrentRound)
}

func TestRoom_SubmitWord_Normalizes(t *testing.T) {
	room := newTestRoom("p1")
	room.StartNewRound(testNow)

	assert.True(t, room.SubmitWord("p1", "  ApPle \n", testNow.Add(time.Second)))
	assert.Equal(t, "apple", room.CurrentRound.Submissions["p1"])

	assert.True(t, room.SubmitWord("p1", "Pear", testNow.Add(2*time.Second)))
	assert.Equal(t, "pear", room.CurrentRound.Submissions["p1"])
	assert.Equal(t, 1, room.CurrentRound.SubmissionCount())
}

func TestRoom_SubmitWord_NoRound(t *testing.T) {
	room := newTestRoom("p1")

	assert.False(t, room.SubmitWord("p1", "apple", testNow))
}

func TestRoom_SubmitWord_AfterExpiryIsRejected(t *testing.T) {
	room := newTestRoom("p1", "p2")
	room.StartNewRound(testNow)
	require.True(t, room.SubmitWord("p1", "cat", testNow))

	before := room.CurrentRound.SubmissionsCopy()

	late := testNow.Add(DefaultRoundDuration)
	assert.False(t, room.SubmitWord("p2", "dog", late))
	assert.False(t, room.SubmitWord("p1", "dog", late.Add(time.Hour)))

	assert.Equal(t, before, room.CurrentRound.Submissions)
}

func TestRoom_CheckWinCondition(t *testing.T) {
	tests := []struct {
		name  string
		words map[string]string
		want  bool
	}{
		{name: "no submissions", words: map[string]string{}, want: false},
		{name: "same word", words: map[string]string{"a": "cat", "b": "cat"}, want: true},
		{name: "different words", words: map[string]string{"a": "cat", "b": "dog"}, want: false},
		{name: "case and space folded", words: map[string]string{"a": " CAT", "b": "cat "}, want: true},
		{name: "single submitter", words: map[string]string{"a": "cat"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room := newTestRoom("a", "b")
			room.StartNewRound(testNow)
			for id, word := range tt.words {
				room.SubmitWord(id, word, testNow)
			}
			assert.Equal(t, tt.want, room.CheckWinCondition())
		})
	}
}

func TestRoom_FillMissingSubmissions(t *testing.T) {
	room := newTestRoom("a", "b")
	room.StartNewRound(testNow)
	room.SubmitWord("a", "cat", testNow)

	filled := room.FillMissingSubmissions()

	assert.Equal(t, []string{"b"}, filled)
	if diff := cmp.Diff(map[string]string{"a": "cat", "b": ""}, room.CurrentRound.Submissions); diff != "" {
		t.Errorf("submissions mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"cat", ""}, room.CurrentRound.Words())
	assert.True(t, room.AllSubmitted())
}

func TestRoom_EndRound_NoRound(t *testing.T) {
	room := newTestRoom("a")

	_, err := room.EndRound()
	assert.ErrorIs(t, err, ErrNoActiveRound)
}

func TestRoom_EndRound_WrongState(t *testing.T) {
	room := newTestRoom("a")
	room.StartNewRound(testNow)
	room.State = StateWaiting

	_, err := room.EndRound()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NotNil(t, room.CurrentRound)
}

func TestRoom_EndRound_Outcomes(t *testing.T) {
	t.Run("win ends game", func(t *testing.T) {
		room := newTestRoom("a", "b")
		room.StartNewRound(testNow)
		room.SubmitWord("a", "apple", testNow)
		room.SubmitWord("b", "Apple", testNow)

		ended, err := room.EndRound()
		require.NoError(t, err)

		assert.Equal(t, 1, ended.Number)
		assert.True(t, room.GameWon)
		assert.Equal(t, StateGameEnd, room.State)
		assert.Nil(t, room.CurrentRound)
		assert.Len(t, room.CompletedRounds, 1)
	})

	t.Run("mismatch goes to round end", func(t *testing.T) {
		room := newTestRoom("a", "b")
		room.StartNewRound(testNow)
		room.SubmitWord("a", "apple", testNow)
		room.SubmitWord("b", "pear", testNow)

		_, err := room.EndRound()
		require.NoError(t, err)

		assert.False(t, room.GameWon)
		assert.Equal(t, StateRoundEnd, room.State)
		assert.Nil(t, room.CurrentRound)
		assert.Len(t, room.CompletedRounds, 1)
	})

	t.Run("empty round goes to round end", func(t *testing.T) {
		room := newTestRoom("a", "b")
		room.StartNewRound(testNow)

		_, err := room.EndRound()
		require.NoError(t, err)

		assert.Equal(t, StateRoundEnd, room.State)
		assert.Len(t, room.CompletedRounds, 1)
	})
}

func TestRoom_EndRound_MaxRoundsReached(t *testing.T) {
	room := NewRoom("ABCD", RoomSettings{MaxRounds: 2, RoundDuration: DefaultRoundDuration}, testNow)
	room.AddPlayer(NewPlayer("a", "A", testNow))
	room.AddPlayer(NewPlayer("b", "B", testNow))

	for round := 1; round <= 2; round++ {
		r := room.StartNewRound(testNow)
		require.Equal(t, round, r.Number)
		room.SubmitWord("a", "apple", testNow)
		room.SubmitWord("b", "pear", testNow)

		_, err := room.EndRound()
		require.NoError(t, err)
		assert.Len(t, room.CompletedRounds, round)
	}

	assert.Equal(t, StateGameEnd, room.State)
	assert.False(t, room.GameWon)
}

func TestRoom_IsExpired(t *testing.T) {
	room := newTestRoom("a")

	assert.False(t, room.IsExpired(testNow.Add(DefaultRoomTTL), DefaultRoomTTL))
	assert.True(t, room.IsExpired(testNow.Add(DefaultRoomTTL+time.Second), DefaultRoomTTL))
}

func TestRoom_StateSnapshot(t *testing.T) {
	room := newTestRoom("a", "b")
	room.StartNewRound(testNow)
	room.SubmitWord("b", "cat", testNow)

	want := &GameStatePayload{
		Players: []PlayerInfo{
			{ID: "a", Name: "name-a", HasSubmitted: false},
			{ID: "b", Name: "name-b", HasSubmitted: true},
		},
		PlayerCount:        2,
		State:              StateInProgress,
		CurrentRoundNumber: 1,
		HostID:             "a",
		GameWon:            false,
	}

	if diff := cmp.Diff(want, room.StateSnapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestGameState_CanTransitionTo(t *testing.T) {
	assert.True(t, StateWaiting.CanTransitionTo(StateInProgress))
	assert.True(t, StateInProgress.CanTransitionTo(StateRoundEnd))
	assert.True(t, StateInProgress.CanTransitionTo(StateGameEnd))
	assert.True(t, StateRoundEnd.CanTransitionTo(StateInProgress))

	assert.False(t, StateWaiting.CanTransitionTo(StateGameEnd))
	assert.False(t, StateRoundEnd.CanTransitionTo(StateGameEnd))
	assert.False(t, StateGameEnd.CanTransitionTo(StateInProgress))
	assert.True(t, StateGameEnd.IsTerminal())
}

func TestValidatePlayerName(t *testing.T) {
	name, err := ValidatePlayerName("  Alice ")
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)

	_, err = ValidatePlayerName("   ")
	assert.ErrorIs(t, err, ErrEmptyPlayerName)

	_, err = ValidatePlayerName(string(make([]rune, MaxPlayerNameLength+1)))
	assert.ErrorIs(t, err, ErrPlayerNameTooLong)
}
