package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/lol-randomizer/internal/engine"
	"github.com/DoyleJ11/lol-randomizer/internal/lobby"
)

type noRoster struct{}

func (noRoster) RegisteredIn(context.Context, []string) ([]engine.Participant, error) {
	return nil, nil
}

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewHub(ctx, lobby.Deps{Roster: noRoster{}})
}

func TestHub_Create_Get_SamePointer(t *testing.T) {
	h := newTestHub(t)
	reply := make(chan *lobby.Lobby, 1)

	h.Inbox() <- CreateLobby{Code: "ZED123", Reply: reply}
	lb1 := <-reply

	h.Inbox() <- GetLobby{Code: "ZED123", Reply: reply}
	lb2 := <-reply

	if lb1 == nil || lb2 == nil || lb1 != lb2 {
		t.Fatalf("expected same lobby pointer")
	}
	assert.Same(t, lb1, h.Get("ZED123"))
}

func TestHub_GetUnknownIsNil(t *testing.T) {
	h := newTestHub(t)
	assert.Nil(t, h.Get("NOPE00"))
}

func TestHub_EnsureIsIdempotent(t *testing.T) {
	h := newTestHub(t)
	reply := make(chan *lobby.Lobby, 1)

	h.Inbox() <- EnsureLobby{Code: "AHRI01", Reply: reply}
	lb1 := <-reply
	h.Inbox() <- EnsureLobby{Code: "AHRI01", Reply: reply}
	lb2 := <-reply

	require.NotNil(t, lb1)
	assert.Same(t, lb1, lb2)
}

func TestHub_RemoveLobbyShutsItDown(t *testing.T) {
	h := newTestHub(t)
	reply := make(chan *lobby.Lobby, 1)
	h.Inbox() <- CreateLobby{Code: "JINX77", Reply: reply}
	lb := <-reply

	out := make(chan lobby.Snapshot, 1)
	lb.Inbox() <- lobby.Join{ClientID: "c1", Outbox: out}
	<-out

	h.Inbox() <- RemoveLobby{Code: "JINX77"}

	select {
	case _, ok := <-out:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("lobby not shut down")
	}
	assert.Nil(t, h.Get("JINX77"))
}

func TestHub_ListLobbies(t *testing.T) {
	h := newTestHub(t)
	reply := make(chan *lobby.Lobby, 1)
	for _, code := range []string{"BBBBBB", "AAAAAA"} {
		h.Inbox() <- CreateLobby{Code: code, Reply: reply}
		<-reply
	}

	codes := make(chan []string, 1)
	h.Inbox() <- ListLobbies{Reply: codes}
	assert.Equal(t, []string{"AAAAAA", "BBBBBB"}, <-codes)
}

func TestHub_RoundTripsReturnAfterContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(ctx, lobby.Deps{Roster: noRoster{}})
	require.NotNil(t, h.Ensure("VI0001"))

	cancel()
	<-h.Done()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Get("VI0001")
		h.Ensure("VI0002")
		h.Shutdown()
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("hub round trip blocked after the hub stopped")
	}
}

func TestHub_ShutdownStopsLobbies(t *testing.T) {
	h := newTestHub(t)
	lb := h.Ensure("EKKO00")
	require.NotNil(t, lb)

	h.Shutdown()

	select {
	case <-lb.Done():
	case <-time.After(time.Second):
		t.Fatal("lobby still running after hub shutdown")
	}
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("hub still running after shutdown")
	}
	assert.Nil(t, h.Get("EKKO00"))
}
