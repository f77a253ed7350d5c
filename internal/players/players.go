// Package players keeps the registry of people who can be put into teams,
// together with their linked Riot account and owned champions.
package players

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-randomizer/internal/engine"
)

var ErrAlreadyRegistered = errors.New("player already registered")
var ErrNotRegistered = errors.New("player not registered")

type Player struct {
	ID             string
	DisplayName    string
	GameName       string
	TagLine        string
	Region         string
	PUUID          string
	OwnedChampions []string
}

// RiotID formats the linked account as GameName#TagLine, or "" when unlinked.
func (p Player) RiotID() string {
	if p.GameName == "" {
		return ""
	}
	return p.GameName + "#" + p.TagLine
}

func (p Player) Participant() engine.Participant {
	return engine.Participant{
		ID:             p.ID,
		DisplayName:    p.DisplayName,
		OwnedChampions: slices.Clone(p.OwnedChampions),
	}
}

// ParseRiotID splits "Name#TAG".
func ParseRiotID(s string) (gameName, tagLine string, err error) {
	name, tag, ok := strings.Cut(s, "#")
	if !ok || name == "" || tag == "" || strings.Contains(tag, "#") {
		return "", "", fmt.Errorf("invalid riot id %q: want GameName#TAG", s)
	}
	return name, tag, nil
}

type Store interface {
	Get(ctx context.Context, id string) (Player, bool, error)
	List(ctx context.Context) ([]Player, error)
	Save(ctx context.Context, p Player) error
	Delete(ctx context.Context, id string) error
}

type Registry struct {
	store  Store
	logger *zap.Logger
	mu     sync.Mutex // serializes read-modify-write against the store
}

func NewRegistry(store Store, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{store: store, logger: logger}
}

func (r *Registry) Register(ctx context.Context, id, displayName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok, err := r.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if ok {
		return ErrAlreadyRegistered
	}
	if err := r.store.Save(ctx, Player{ID: id, DisplayName: displayName}); err != nil {
		return fmt.Errorf("register %s: %w", id, err)
	}
	r.logger.Info("player registered", zap.String("player_id", id), zap.String("name", displayName))
	return nil
}

// Unregister removes the player and returns the display name it had.
func (r *Registry) Unregister(ctx context.Context, id string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok, err := r.store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNotRegistered
	}
	if err := r.store.Delete(ctx, id); err != nil {
		return "", fmt.Errorf("unregister %s: %w", id, err)
	}
	r.logger.Info("player unregistered", zap.String("player_id", id))
	return p.DisplayName, nil
}

func (r *Registry) LinkRiot(ctx context.Context, id, gameName, tagLine, region, puuid string) (Player, error) {
	return r.update(ctx, id, func(p *Player) {
		p.GameName = gameName
		p.TagLine = tagLine
		p.Region = region
		p.PUUID = puuid
	})
}

func (r *Registry) SetOwnedChampions(ctx context.Context, id string, champions []string) (Player, error) {
	return r.update(ctx, id, func(p *Player) {
		p.OwnedChampions = slices.Clone(champions)
	})
}

func (r *Registry) update(ctx context.Context, id string, fn func(*Player)) (Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok, err := r.store.Get(ctx, id)
	if err != nil {
		return Player{}, err
	}
	if !ok {
		return Player{}, ErrNotRegistered
	}
	fn(&p)
	if err := r.store.Save(ctx, p); err != nil {
		return Player{}, fmt.Errorf("update %s: %w", id, err)
	}
	return p, nil
}

func (r *Registry) Get(ctx context.Context, id string) (Player, error) {
	p, ok, err := r.store.Get(ctx, id)
	if err != nil {
		return Player{}, err
	}
	if !ok {
		return Player{}, ErrNotRegistered
	}
	return p, nil
}

func (r *Registry) IsRegistered(ctx context.Context, id string) (bool, error) {
	_, ok, err := r.store.Get(ctx, id)
	return ok, err
}

// List returns every player ordered by display name.
func (r *Registry) List(ctx context.Context) ([]Player, error) {
	ps, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(ps, func(i, j int) bool {
		if ps[i].DisplayName != ps[j].DisplayName {
			return ps[i].DisplayName < ps[j].DisplayName
		}
		return ps[i].ID < ps[j].ID
	})
	return ps, nil
}

// RegisteredIn keeps the registered subset of ids, in input order, as
// participants ready for a roll. Unknown and repeated ids are skipped.
func (r *Registry) RegisteredIn(ctx context.Context, ids []string) ([]engine.Participant, error) {
	seen := make(map[string]bool, len(ids))
	out := make([]engine.Participant, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		p, ok, err := r.store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, p.Participant())
		}
	}
	return out, nil
}
