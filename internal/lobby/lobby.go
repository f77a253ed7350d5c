package lobby

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-randomizer/internal/engine"
	"github.com/DoyleJ11/lol-randomizer/internal/random"
	"github.com/DoyleJ11/lol-randomizer/internal/render"
)

var ErrNoParticipants = errors.New("no registered players in the lobby")
var ErrNoPreviousRoll = errors.New("no previous roll to re-roll")

const IncompleteWarning = "some champion assignments could not be made, the catalog ran out of champions"

// Roster turns participant ids into registered participants.
type Roster interface {
	RegisteredIn(ctx context.Context, ids []string) ([]engine.Participant, error)
}

type Deps struct {
	Catalog  engine.Catalog
	Roster   Roster
	NewRand  func() engine.Rand // one source per roll; defaults to random.New
	Portrait render.PortraitFunc
	Logger   *zap.Logger
	Timeout  time.Duration // bound on roster lookups
}

func (d Deps) withDefaults() Deps {
	if d.NewRand == nil {
		d.NewRand = func() engine.Rand { return random.New() }
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Timeout <= 0 {
		d.Timeout = 10 * time.Second
	}
	return d
}

type Msg interface{ isLobbyMsg() }

// Join subscribes a client. ParticipantID marks the client's player as
// present; spectators leave it empty.
type Join struct {
	ClientID      string
	ParticipantID string
	Outbox        chan Snapshot // where this client wants to receive snapshots
}

func (Join) isLobbyMsg() {}

type Leave struct{ ClientID string }

func (Leave) isLobbyMsg() {}

// Randomize rolls new teams. With no ParticipantIDs the present players are
// used.
type Randomize struct {
	ParticipantIDs []string
	WithChampions  bool
	Reply          chan RollReply
}

func (Randomize) isLobbyMsg() {}

// Reroll repeats the last successful Randomize with the same roster.
type Reroll struct {
	Reply chan RollReply
}

func (Reroll) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

type Roll struct {
	ID      string
	Result  engine.Result
	Board   render.Board
	Warning string
}

type RollReply struct {
	Roll Roll
	Err  error
}

type Snapshot struct {
	Version int
	Roll    *Roll
}

type View struct {
	Version    int
	NumClients int
	Present    []string
	Roll       *Roll
	HasRoster  bool
}

type client struct {
	participantID string
	outbox        chan Snapshot
	seq           int
}

type Lobby struct {
	inbox   chan Msg
	deps    Deps
	version int
	clients map[string]client
	joins   int

	lastRoll          *Roll
	lastRoster        []engine.Participant
	lastWithChampions bool

	ctx    context.Context
	cancel context.CancelFunc
}

func NewLobby(parent context.Context, deps Deps) *Lobby {
	ctx, cancel := context.WithCancel(parent)

	l := &Lobby{
		inbox:   make(chan Msg, 64), // Small buffer
		deps:    deps.withDefaults(),
		clients: make(map[string]client),
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
				l.joins++
				l.clients[msg.ClientID] = client{participantID: msg.ParticipantID, outbox: msg.Outbox, seq: l.joins}
				msg.Outbox <- Snapshot{Version: l.version, Roll: l.lastRoll}

			case Leave:
				delete(l.clients, msg.ClientID)

			case Randomize:
				roll, err := l.randomize(msg)
				reply(msg.Reply, RollReply{Roll: roll, Err: err})

			case Reroll:
				roll, err := l.reroll()
				reply(msg.Reply, RollReply{Roll: roll, Err: err})

			case GetState:
				msg.Reply <- View{
					Version:    l.version,
					NumClients: len(l.clients),
					Present:    l.present(),
					Roll:       l.lastRoll,
					HasRoster:  l.lastRoster != nil,
				}

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

func reply(ch chan RollReply, r RollReply) {
	if ch != nil {
		ch <- r
	}
}

func (l *Lobby) randomize(msg Randomize) (Roll, error) {
	ids := msg.ParticipantIDs
	if len(ids) == 0 {
		ids = l.present()
	}

	ctx, cancel := context.WithTimeout(l.ctx, l.deps.Timeout)
	defer cancel()

	pool, err := l.deps.Roster.RegisteredIn(ctx, ids)
	if err != nil {
		return Roll{}, fmt.Errorf("load roster: %w", err)
	}
	if len(pool) == 0 {
		return Roll{}, ErrNoParticipants
	}

	roll, err := l.roll(pool, msg.WithChampions)
	if err != nil {
		return Roll{}, err
	}

	// Store for re-roll
	l.lastRoster = pool
	l.lastWithChampions = msg.WithChampions
	return roll, nil
}

func (l *Lobby) reroll() (Roll, error) {
	if l.lastRoster == nil {
		return Roll{}, ErrNoPreviousRoll
	}
	return l.roll(l.lastRoster, l.lastWithChampions)
}

func (l *Lobby) roll(pool []engine.Participant, withChampions bool) (Roll, error) {
	res, err := engine.Roll(l.deps.NewRand(), l.deps.Catalog, pool, withChampions)
	if err != nil {
		return Roll{}, err
	}

	roll := Roll{
		ID:     uuid.NewString(),
		Result: res,
		Board:  render.Layout(res, l.deps.Portrait),
	}
	if !res.Success {
		roll.Warning = IncompleteWarning
		l.deps.Logger.Warn("champion assignment incomplete",
			zap.String("roll_id", roll.ID), zap.Int("players", len(pool)))
	}

	l.lastRoll = &roll
	l.version++
	l.broadcast(Snapshot{Version: l.version, Roll: l.lastRoll})
	l.deps.Logger.Info("teams rolled",
		zap.String("roll_id", roll.ID),
		zap.String("mode", res.Mode.Name),
		zap.Bool("champions", withChampions),
		zap.Int("version", l.version))
	return roll, nil
}

// present lists the participant ids of connected clients in join order.
func (l *Lobby) present() []string {
	cs := make([]client, 0, len(l.clients))
	for _, c := range l.clients {
		if c.participantID != "" {
			cs = append(cs, c)
		}
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i].seq < cs[j].seq })

	seen := make(map[string]bool, len(cs))
	ids := make([]string, 0, len(cs))
	for _, c := range cs {
		if !seen[c.participantID] {
			seen[c.participantID] = true
			ids = append(ids, c.participantID)
		}
	}
	return ids
}

func (l *Lobby) shutdown() {
	for id, c := range l.clients {
		close(c.outbox) // Tell client no more snapshots
		delete(l.clients, id)
	}
	l.cancel()
}

func (l *Lobby) broadcast(snap Snapshot) {
	for id, c := range l.clients {
		select {
		case c.outbox <- snap:
			//ok
		default:
			// Client is slow/full - drop them.
			close(c.outbox)
			delete(l.clients, id)
		}
	}
}

// Expose the inbox so tests or WS layer can send messages.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }

// Done is closed once the lobby has stopped. Nothing reads the inbox after
// that, so callers waiting on a reply should select on it.
func (l *Lobby) Done() <-chan struct{} { return l.ctx.Done() }

// Send delivers msg unless the lobby has stopped.
func (l *Lobby) Send(msg Msg) bool {
	if l.ctx.Err() != nil {
		return false
	}
	select {
	case l.inbox <- msg:
		return true
	case <-l.ctx.Done():
		return false
	}
}
