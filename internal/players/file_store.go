package players

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// filePlayer is the on-disk shape, keyed by player id.
type filePlayer struct {
	DisplayName    string   `json:"discord_name"`
	RiotID         *string  `json:"riot_id"`
	GameName       string   `json:"game_name,omitempty"`
	TagLine        string   `json:"tag_line,omitempty"`
	Region         string   `json:"region,omitempty"`
	PUUID          string   `json:"puuid,omitempty"`
	OwnedChampions []string `json:"owned_champions,omitempty"`
}

// FileStore keeps every player in one JSON file, rewritten on each change.
type FileStore struct {
	path    string
	mu      sync.RWMutex
	players map[string]Player
}

var _ Store = (*FileStore)(nil)

// OpenFileStore loads path, creating its directory when needed. A missing
// file is an empty registry.
func OpenFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create players dir: %w", err)
	}

	s := &FileStore{path: path, players: map[string]Player{}}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read players: %w", err)
	}

	var raw map[string]filePlayer
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode players %s: %w", path, err)
	}
	for id, fp := range raw {
		p := Player{
			ID:             id,
			DisplayName:    fp.DisplayName,
			GameName:       fp.GameName,
			TagLine:        fp.TagLine,
			Region:         fp.Region,
			PUUID:          fp.PUUID,
			OwnedChampions: fp.OwnedChampions,
		}
		// Files written by the bot only carry "riot_id".
		if p.GameName == "" && fp.RiotID != nil {
			if name, tag, err := ParseRiotID(*fp.RiotID); err == nil {
				p.GameName, p.TagLine = name, tag
			}
		}
		s.players[id] = p
	}
	return s, nil
}

func (s *FileStore) Get(_ context.Context, id string) (Player, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	p.OwnedChampions = slices.Clone(p.OwnedChampions)
	return p, ok, nil
}

func (s *FileStore) List(_ context.Context) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Player, 0, len(s.players))
	for _, p := range s.players {
		p.OwnedChampions = slices.Clone(p.OwnedChampions)
		out = append(out, p)
	}
	return out, nil
}

func (s *FileStore) Save(_ context.Context, p Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.players[p.ID]
	p.OwnedChampions = slices.Clone(p.OwnedChampions)
	s.players[p.ID] = p
	if err := s.flush(); err != nil {
		if existed {
			s.players[p.ID] = prev
		} else {
			delete(s.players, p.ID)
		}
		return err
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.players[id]
	if !existed {
		return nil
	}
	delete(s.players, id)
	if err := s.flush(); err != nil {
		s.players[id] = prev
		return err
	}
	return nil
}

// flush writes through a temp file so a crash never leaves half a registry.
func (s *FileStore) flush() error {
	raw := make(map[string]filePlayer, len(s.players))
	for id, p := range s.players {
		fp := filePlayer{
			DisplayName:    p.DisplayName,
			GameName:       p.GameName,
			TagLine:        p.TagLine,
			Region:         p.Region,
			PUUID:          p.PUUID,
			OwnedChampions: p.OwnedChampions,
		}
		if riotID := p.RiotID(); riotID != "" {
			fp.RiotID = &riotID
		}
		raw[id] = fp
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encode players: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".players-*.json")
	if err != nil {
		return fmt.Errorf("write players: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write players: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write players: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write players: %w", err)
	}
	return nil
}
