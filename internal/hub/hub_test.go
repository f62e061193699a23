package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/squad-randomizer/internal/catalog"
	"github.com/DoyleJ11/squad-randomizer/internal/lobby"
	"github.com/DoyleJ11/squad-randomizer/internal/sample"
	"github.com/DoyleJ11/squad-randomizer/internal/store"
)

func testConfig(st store.Store) Config {
	return Config{
		Lobby: lobby.Deps{
			Catalog:      catalog.Default(),
			Store:        st,
			HistoryLimit: 5,
		},
		NewSource: func() sample.Source { return sample.NewSource(11) },
	}
}

func TestHub_Create_Get_SamePointer(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx, testConfig(nil))
	reply := make(chan *lobby.Lobby, 1)

	h.Inbox() <- CreateLobby{Code: "ZED123", Reply: reply}
	lb1 := <-reply

	h.Inbox() <- GetLobby{Code: "ZED123", Reply: reply}
	lb2 := <-reply

	if lb1 == nil || lb2 == nil || lb1 != lb2 {
		t.Fatalf("expected same lobby pointer")
	}
	h.Inbox() <- ShutdownHub{}
}

func TestHub_LookupMissingIsNil(t *testing.T) {
	h := NewHub(context.Background(), testConfig(nil))
	defer func() { h.Inbox() <- ShutdownHub{} }()

	lb, err := h.Lookup(context.Background(), "NOPE00")
	require.NoError(t, err)
	assert.Nil(t, lb)
}

func TestHub_EnsureRestoresPersistedLobby(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	first := NewHub(ctx, testConfig(st))
	lb, err := first.Ensure(ctx, "KEEP01")
	require.NoError(t, err)
	_, err = lb.Send(ctx, lobby.Command{Type: lobby.CmdAddParticipant, Name: "Sam"})
	require.NoError(t, err)
	first.Inbox() <- ShutdownHub{}
	<-first.Done()

	second := NewHub(ctx, testConfig(st))
	defer func() { second.Inbox() <- ShutdownHub{} }()
	lb, err = second.Ensure(ctx, "KEEP01")
	require.NoError(t, err)

	v, err := lb.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Version)
	assert.Equal(t, []string{"Sam"}, v.State.Participants)
}

func TestHub_EnsureWithCorruptStoreStartsEmpty(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	require.NoError(t, st.Set(ctx, store.LobbyKey("BAD000"), []byte("not json")))

	h := NewHub(ctx, testConfig(st))
	defer func() { h.Inbox() <- ShutdownHub{} }()
	lb, err := h.Ensure(ctx, "BAD000")
	require.NoError(t, err)

	v, err := lb.View(ctx)
	require.NoError(t, err)
	assert.Zero(t, v.Version)
	assert.Empty(t, v.State.Participants)
}

func TestHub_ShutdownStopsLobbies(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx, testConfig(nil))
	lb, err := h.Ensure(ctx, "STOP01")
	require.NoError(t, err)

	h.Inbox() <- ShutdownHub{}

	select {
	case <-lb.Done():
	case <-time.After(time.Second):
		t.Fatal("lobby still running after hub shutdown")
	}
	_, err = h.Lookup(ctx, "STOP01")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestHub_RemoveLobby(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx, testConfig(nil))
	defer func() { h.Inbox() <- ShutdownHub{} }()

	lb, err := h.Ensure(ctx, "GONE01")
	require.NoError(t, err)
	h.Inbox() <- RemoveLobby{Code: "GONE01"}

	select {
	case <-lb.Done():
	case <-time.After(time.Second):
		t.Fatal("removed lobby still running")
	}
	got, err := h.Lookup(ctx, "GONE01")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestHub_ResumeOnlyKnownCodes(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	require.NoError(t, st.Set(ctx, store.LobbyKey("SAVED1"), []byte(`{"version":7,"state":{"participants":["Ana"]}}`)))

	h := NewHub(ctx, testConfig(st))
	defer func() { h.Inbox() <- ShutdownHub{} }()

	lb, err := h.Resume(ctx, "UNSEEN")
	require.NoError(t, err)
	assert.Nil(t, lb)

	lb, err = h.Resume(ctx, "SAVED1")
	require.NoError(t, err)
	require.NotNil(t, lb)
	v, err := lb.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, v.Version)
	assert.Equal(t, []string{"Ana"}, v.State.Participants)
	assert.Equal(t, "role", string(v.State.AssignmentMode), "missing fields are repaired")
}

func TestHub_EvictsIdleLobbyAndRestoresIt(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx, testConfig(store.NewMemory()))
	defer func() { h.Inbox() <- ShutdownHub{} }()

	lb, err := h.Create(ctx, "IDLE01")
	require.NoError(t, err)
	out := make(chan lobby.Snapshot, 4)
	lb.Inbox() <- lobby.Join{ClientID: "c1", Outbox: out}
	_, err = lb.Send(ctx, lobby.Command{Type: lobby.CmdAddParticipant, Name: "Sam"})
	require.NoError(t, err)
	lb.Inbox() <- lobby.Leave{ClientID: "c1"}

	select {
	case <-lb.Done():
	case <-time.After(time.Second):
		t.Fatal("idle lobby still running")
	}
	got, err := h.Lookup(ctx, "IDLE01")
	require.NoError(t, err)
	assert.Nil(t, got)

	again, err := h.Resume(ctx, "IDLE01")
	require.NoError(t, err)
	require.NotNil(t, again)
	v, err := again.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Version)
	assert.Equal(t, []string{"Sam"}, v.State.Participants)
}

func TestHub_RemoveLobbyIgnoresStaleInstance(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx, testConfig(nil))
	defer func() { h.Inbox() <- ShutdownHub{} }()

	lb, err := h.Ensure(ctx, "KEEP02")
	require.NoError(t, err)
	other := lobby.NewLobby(ctx, "KEEP02", lobby.Snapshot{State: lobby.NewState()}, lobby.Deps{Catalog: catalog.Default()})
	defer func() { other.Inbox() <- lobby.Shutdown{} }()

	h.Inbox() <- RemoveLobby{Code: "KEEP02", Lobby: other}
	got, err := h.Lookup(ctx, "KEEP02")
	require.NoError(t, err)
	assert.Same(t, lb, got)
}
