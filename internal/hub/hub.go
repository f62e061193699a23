// Package hub maps lobby codes to running lobbies.
package hub

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/squad-randomizer/internal/lobby"
	"github.com/DoyleJ11/squad-randomizer/internal/metrics"
	"github.com/DoyleJ11/squad-randomizer/internal/sample"
)

var ErrClosed = errors.New("hub closed")

type HubMsg interface{ isHubMsg() }

// CreateLobby starts a fresh lobby, or returns the running one for Code.
type CreateLobby struct {
	Code  string
	Reply chan *lobby.Lobby
}

type GetLobby struct {
	Code  string
	Reply chan *lobby.Lobby
}

// EnsureLobby returns the running lobby for Code, restoring it from the store
// or starting it empty when none is running. With Existing set, a code that
// is neither running nor stored gets nil instead of a new lobby.
type EnsureLobby struct {
	Code     string
	Existing bool
	Reply    chan *lobby.Lobby
}

// RemoveLobby stops the lobby for Code. With Lobby set, only that instance is
// removed, so a stale request cannot stop a newer lobby under the same code.
type RemoveLobby struct {
	Code  string
	Lobby *lobby.Lobby
}

type ShutdownHub struct{}

func (CreateLobby) isHubMsg() {}
func (GetLobby) isHubMsg()    {}
func (EnsureLobby) isHubMsg() {}
func (RemoveLobby) isHubMsg() {}
func (ShutdownHub) isHubMsg() {}

// Config is handed to every lobby the hub starts. NewSource gives each lobby
// its own random source since sources are not safe for concurrent use.
type Config struct {
	Lobby     lobby.Deps
	NewSource func() sample.Source
}

type Hub struct {
	inbox   chan HubMsg
	lobbies map[string]*lobby.Lobby
	cfg     Config
	log     *zap.Logger
	metrics metrics.Recorder
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewHub(parent context.Context, cfg Config) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if cfg.Lobby.Logger == nil {
		cfg.Lobby.Logger = zap.NewNop()
	}
	if cfg.Lobby.Metrics == nil {
		cfg.Lobby.Metrics = metrics.Nop{}
	}
	if cfg.NewSource == nil {
		cfg.NewSource = func() sample.Source { return sample.NewSource(uint64(time.Now().UnixNano())) }
	}
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		lobbies: make(map[string]*lobby.Lobby),
		cfg:     cfg,
		log:     cfg.Lobby.Logger.Named("hub"),
		metrics: cfg.Lobby.Metrics,
		ctx:     ctx,
		cancel:  cancel,
	}
	h.cfg.Lobby.OnIdle = h.evict
	go h.loop()
	return h
}

// evict runs on a lobby goroutine once its last client left. The lobby's state
// is stored, so the next lookup restores it.
func (h *Hub) evict(lb *lobby.Lobby) {
	select {
	case h.inbox <- RemoveLobby{Code: lb.Code(), Lobby: lb}:
	default:
	}
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Done is closed once the hub has shut down.
func (h *Hub) Done() <-chan struct{} { return h.ctx.Done() }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateLobby:
				if lb := h.lobbies[msg.Code]; lb != nil {
					msg.Reply <- lb
					break
				}
				msg.Reply <- h.start(msg.Code, lobby.Snapshot{State: lobby.NewState()})

			case GetLobby:
				msg.Reply <- h.lobbies[msg.Code] // May be nil

			case EnsureLobby:
				if lb := h.lobbies[msg.Code]; lb != nil {
					msg.Reply <- lb
					break
				}
				snap, ok := h.restore(msg.Code)
				if !ok && msg.Existing {
					msg.Reply <- nil
					break
				}
				msg.Reply <- h.start(msg.Code, snap)

			case RemoveLobby:
				lb := h.lobbies[msg.Code]
				if lb == nil || (msg.Lobby != nil && msg.Lobby != lb) {
					break
				}
				stop(lb)
				delete(h.lobbies, msg.Code)
				h.metrics.LobbiesOpen(len(h.lobbies))
				h.log.Info("lobby stopped", zap.String("lobby", msg.Code))

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) start(code string, initial lobby.Snapshot) *lobby.Lobby {
	deps := h.cfg.Lobby
	deps.Source = h.cfg.NewSource()
	lb := lobby.NewLobby(h.ctx, code, initial, deps)
	h.lobbies[code] = lb
	h.metrics.LobbiesOpen(len(h.lobbies))
	h.log.Info("lobby started", zap.String("lobby", code), zap.Int("version", initial.Version))
	return lb
}

// restore falls back to an empty state, reporting false, when nothing usable
// is stored.
func (h *Hub) restore(code string) (lobby.Snapshot, bool) {
	empty := lobby.Snapshot{State: lobby.NewState()}
	if h.cfg.Lobby.Store == nil {
		return empty, false
	}
	ctx, cancel := context.WithTimeout(h.ctx, h.cfg.Lobby.PersistTimeout+time.Second)
	defer cancel()
	snap, ok, err := lobby.Restore(ctx, h.cfg.Lobby.Store, code, h.cfg.Lobby.Catalog)
	if err != nil {
		h.log.Warn("restore lobby", zap.String("lobby", code), zap.Error(err))
		return empty, false
	}
	if !ok {
		return empty, false
	}
	return snap, true
}

func (h *Hub) shutdown() {
	for _, lb := range h.lobbies {
		stop(lb)
	}
	clear(h.lobbies)
	h.metrics.LobbiesOpen(0)
	h.cancel()
}

// stop never blocks; a lobby whose inbox is full still stops with the hub
// context.
func stop(lb *lobby.Lobby) {
	select {
	case lb.Inbox() <- lobby.Shutdown{}:
	default:
	}
}

// Lookup asks the hub for a running lobby; nil when there is none.
func (h *Hub) Lookup(ctx context.Context, code string) (*lobby.Lobby, error) {
	return h.ask(ctx, GetLobby{Code: code, Reply: make(chan *lobby.Lobby, 1)})
}

// Create starts a fresh lobby for code unless one is already running.
func (h *Hub) Create(ctx context.Context, code string) (*lobby.Lobby, error) {
	return h.ask(ctx, CreateLobby{Code: code, Reply: make(chan *lobby.Lobby, 1)})
}

// Ensure returns a running lobby for code, restoring or creating it.
func (h *Hub) Ensure(ctx context.Context, code string) (*lobby.Lobby, error) {
	return h.ask(ctx, EnsureLobby{Code: code, Reply: make(chan *lobby.Lobby, 1)})
}

// Resume returns the running lobby for code, or restores it from the store.
// It is nil when the code is unknown.
func (h *Hub) Resume(ctx context.Context, code string) (*lobby.Lobby, error) {
	return h.ask(ctx, EnsureLobby{Code: code, Existing: true, Reply: make(chan *lobby.Lobby, 1)})
}

func (h *Hub) ask(ctx context.Context, msg HubMsg) (*lobby.Lobby, error) {
	var reply chan *lobby.Lobby
	switch m := msg.(type) {
	case GetLobby:
		reply = m.Reply
	case EnsureLobby:
		reply = m.Reply
	case CreateLobby:
		reply = m.Reply
	}
	select {
	case h.inbox <- msg:
	case <-h.Done():
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case lb := <-reply:
		return lb, nil
	case <-h.Done():
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
