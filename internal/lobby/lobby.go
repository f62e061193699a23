// Package lobby owns the canonical state of one randomizer session. A single
// goroutine applies commands in order, persists the result and fans out
// snapshots to joined clients.
package lobby

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/squad-randomizer/internal/catalog"
	"github.com/DoyleJ11/squad-randomizer/internal/metrics"
	"github.com/DoyleJ11/squad-randomizer/internal/sample"
	"github.com/DoyleJ11/squad-randomizer/internal/store"
)

var ErrClosed = errors.New("lobby closed")

type Msg interface{ isLobbyMsg() }

// FromClient asks the lobby to apply Cmd. Reply, when set, must be buffered.
type FromClient struct {
	Cmd   Command
	Reply chan Result
}

func (FromClient) isLobbyMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isLobbyMsg() {}

type Leave struct{ ClientID string }

func (Leave) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

type Snapshot struct {
	Version int   `json:"version"`
	State   State `json:"state"`
}

type View struct {
	Code       string
	Version    int
	NumClients int
	State      State
}

// Result answers a FromClient. Snapshot is zero when Err is set.
type Result struct {
	Snapshot Snapshot
	Err      error
}

// Deps are shared by every lobby of a hub, except Source which must be
// private to the lobby.
type Deps struct {
	Catalog        *catalog.Catalog
	Store          store.Store
	Logger         *zap.Logger
	Metrics        metrics.Recorder
	Source         sample.Source
	HistoryLimit   int
	PersistTimeout time.Duration
	Now            func() time.Time

	// OnIdle is called from the lobby goroutine when the last client leaves
	// and the current state is safely stored. It must not block.
	OnIdle func(*Lobby)
}

type Lobby struct {
	code    string
	inbox   chan Msg
	state   State
	version int
	saved   bool // store holds the current version
	clients map[string]chan Snapshot
	deps    Deps
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewLobby(parent context.Context, code string, initial Snapshot, deps Deps) *Lobby {
	ctx, cancel := context.WithCancel(parent)
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop{}
	}
	if deps.PersistTimeout <= 0 {
		deps.PersistTimeout = 3 * time.Second
	}

	l := &Lobby{
		code:    code,
		inbox:   make(chan Msg, 64), // Small buffer
		state:   initial.State,
		version: initial.Version,
		saved:   initial.Version > 0 && deps.Store != nil,
		clients: make(map[string]chan Snapshot),
		deps:    deps,
		log:     deps.Logger.With(zap.String("lobby", code)),
		ctx:     ctx,
		cancel:  cancel,
	}

	go l.loop()
	return l
}

func (l *Lobby) loop() {
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				// Register client + send current snapshot immediately
				l.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- l.snapshot()

			case Leave:
				delete(l.clients, msg.ClientID)
				if len(l.clients) == 0 && l.saved && l.deps.OnIdle != nil {
					l.deps.OnIdle(l)
				}

			case FromClient:
				l.handle(msg)

			case GetState:
				msg.Reply <- View{
					Code:       l.code,
					Version:    l.version,
					NumClients: len(l.clients),
					State:      l.state,
				}

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

func (l *Lobby) handle(msg FromClient) {
	next, err := Apply(l.state, msg.Cmd, l.env())
	if err != nil {
		l.deps.Metrics.Rejected(Reason(err))
		l.log.Debug("command rejected", zap.String("type", string(msg.Cmd.Type)), zap.Error(err))
		if msg.Reply != nil {
			msg.Reply <- Result{Err: err}
		}
		return
	}

	l.state = next
	l.version++
	snap := l.snapshot()
	l.observe(msg.Cmd)
	l.persist(snap)

	if msg.Reply != nil {
		msg.Reply <- Result{Snapshot: snap}
	}
	l.broadcast(snap)
}

func (l *Lobby) env() Env {
	return Env{
		Catalog:      l.deps.Catalog,
		Source:       l.deps.Source,
		HistoryLimit: l.deps.HistoryLimit,
		Now:          l.deps.Now,
	}
}

func (l *Lobby) observe(cmd Command) {
	switch cmd.Type {
	case CmdRandomize:
		r := l.state.Result
		l.deps.Metrics.Randomized(string(r.Settings.AssignmentMode), string(r.Settings.TeamMode), r.Fallbacks)
		l.log.Info("randomized",
			zap.Int("version", l.version),
			zap.String("assignmentMode", string(r.Settings.AssignmentMode)),
			zap.String("map", r.Map),
			zap.Int("fallbacks", r.Fallbacks))
	case CmdRandomizeWeapon:
		l.deps.Metrics.WeaponDrawn(l.state.DeathmatchConfig().ActiveGroups() != nil)
	default:
		l.log.Debug("command applied", zap.String("type", string(cmd.Type)), zap.Int("version", l.version))
	}
}

// persist writes the snapshot. A failed write is logged and the lobby keeps
// going; the next accepted command retries with newer state.
func (l *Lobby) persist(snap Snapshot) {
	if l.deps.Store == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		l.log.Error("encode state", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(l.ctx, l.deps.PersistTimeout)
	defer cancel()
	if err := l.deps.Store.Set(ctx, store.LobbyKey(l.code), data); err != nil {
		l.saved = false
		l.log.Warn("persist state", zap.Int("version", snap.Version), zap.Error(err))
		return
	}
	l.saved = true
}

func (l *Lobby) snapshot() Snapshot {
	return Snapshot{Version: l.version, State: l.state}
}

func (l *Lobby) shutdown() {
	for id, ch := range l.clients {
		close(ch) // Tell client no more snapshots
		delete(l.clients, id)
	}
	l.cancel()
}

func (l *Lobby) broadcast(snap Snapshot) {
	for id, ch := range l.clients {
		select {
		case ch <- snap:
			//ok
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(l.clients, id)
		}
	}
}

// Expose the inbox so the hub, HTTP and WS layers can send messages.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }

func (l *Lobby) Code() string { return l.code }

// Done is closed once the lobby stops.
func (l *Lobby) Done() <-chan struct{} { return l.ctx.Done() }

// Send applies cmd and waits for the outcome. A rejected command comes back
// as the error.
func (l *Lobby) Send(ctx context.Context, cmd Command) (Snapshot, error) {
	reply := make(chan Result, 1)
	select {
	case l.inbox <- FromClient{Cmd: cmd, Reply: reply}:
	case <-l.Done():
		return Snapshot{}, ErrClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
	select {
	case res := <-reply:
		return res.Snapshot, res.Err
	case <-l.Done():
		return Snapshot{}, ErrClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// View returns the current state without changing it.
func (l *Lobby) View(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	select {
	case l.inbox <- GetState{Reply: reply}:
	case <-l.Done():
		return View{}, ErrClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
	select {
	case v := <-reply:
		return v, nil
	case <-l.Done():
		return View{}, ErrClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

// Restore reads a persisted snapshot and repairs it against cat.
func Restore(ctx context.Context, st store.Store, code string, cat *catalog.Catalog) (Snapshot, bool, error) {
	data, ok, err := st.Get(ctx, store.LobbyKey(code))
	if err != nil || !ok {
		return Snapshot{}, false, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("decode lobby %s: %w", code, err)
	}
	snap.State = snap.State.Repair(cat)
	return snap, true, nil
}
