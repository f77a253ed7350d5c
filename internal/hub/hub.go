package hub

import (
	"context"
	"sort"

	"github.com/DoyleJ11/lol-randomizer/internal/lobby"
)

type HubMsg interface{ isHubMsg() }

type CreateLobby struct {
	Code  string
	Reply chan *lobby.Lobby
}

type GetLobby struct {
	Code  string
	Reply chan *lobby.Lobby
}

type EnsureLobby struct {
	Code  string
	Reply chan *lobby.Lobby
}

type RemoveLobby struct {
	Code string
}

type ListLobbies struct {
	Reply chan []string
}

type Hub struct {
	inbox   chan HubMsg
	lobbies map[string]*lobby.Lobby
	deps    lobby.Deps // handed to every lobby the hub creates
	ctx     context.Context
	cancel  context.CancelFunc
}

type ShutdownHub struct{}

func (CreateLobby) isHubMsg() {}
func (GetLobby) isHubMsg()    {}
func (EnsureLobby) isHubMsg() {}
func (RemoveLobby) isHubMsg() {}
func (ListLobbies) isHubMsg() {}
func (ShutdownHub) isHubMsg() {}

func NewHub(parent context.Context, deps lobby.Deps) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		lobbies: make(map[string]*lobby.Lobby),
		deps:    deps,
		ctx:     ctx,
		cancel:  cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Done is closed once the hub has stopped.
func (h *Hub) Done() <-chan struct{} { return h.ctx.Done() }

// Get is a GetLobby round trip. It returns nil for unknown codes and once the
// hub has stopped.
func (h *Hub) Get(code string) *lobby.Lobby {
	reply := make(chan *lobby.Lobby, 1)
	return h.ask(GetLobby{Code: code, Reply: reply}, reply)
}

// Ensure is an EnsureLobby round trip. It returns nil once the hub has stopped.
func (h *Hub) Ensure(code string) *lobby.Lobby {
	reply := make(chan *lobby.Lobby, 1)
	return h.ask(EnsureLobby{Code: code, Reply: reply}, reply)
}

// Shutdown stops every lobby and then the hub. It is a no-op on a stopped hub.
func (h *Hub) Shutdown() {
	if h.ctx.Err() != nil {
		return
	}
	select {
	case h.inbox <- ShutdownHub{}:
	case <-h.ctx.Done():
	}
}

func (h *Hub) ask(msg HubMsg, reply chan *lobby.Lobby) *lobby.Lobby {
	if h.ctx.Err() != nil {
		return nil
	}
	select {
	case h.inbox <- msg:
	case <-h.ctx.Done():
		return nil
	}
	select {
	case lb := <-reply:
		return lb
	case <-h.ctx.Done():
		return nil
	}
}

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateLobby:
				msg.Reply <- h.ensure(msg.Code)

			case GetLobby:
				msg.Reply <- h.lobbies[msg.Code] // May be nil

			case EnsureLobby:
				msg.Reply <- h.ensure(msg.Code)

			case RemoveLobby:
				if lb := h.lobbies[msg.Code]; lb != nil {
					lb.Send(lobby.Shutdown{})
					delete(h.lobbies, msg.Code)
				}

			case ListLobbies:
				codes := make([]string, 0, len(h.lobbies))
				for code := range h.lobbies {
					codes = append(codes, code)
				}
				sort.Strings(codes)
				msg.Reply <- codes

			case ShutdownHub:
				for _, lb := range h.lobbies {
					lb.Send(lobby.Shutdown{})
				}
				clear(h.lobbies)
				h.cancel()
			}
		}
	}
}

func (h *Hub) ensure(code string) *lobby.Lobby {
	if lb := h.lobbies[code]; lb != nil {
		return lb
	}
	lb := lobby.NewLobby(h.ctx, h.deps)
	h.lobbies[code] = lb
	return lb
}
