package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-randomizer/internal/engine"
	"github.com/DoyleJ11/lol-randomizer/internal/hub"
	"github.com/DoyleJ11/lol-randomizer/internal/lobby"
	"github.com/DoyleJ11/lol-randomizer/internal/players"
	"github.com/DoyleJ11/lol-randomizer/internal/riot"
	"github.com/DoyleJ11/lol-randomizer/pkg/types"
)

const defaultRegion = "na1"

// RiotAccounts is the part of the Riot client the API needs.
type RiotAccounts interface {
	PUUID(ctx context.Context, gameName, tagLine, region string) (string, error)
	OwnedChampions(ctx context.Context, gameName, tagLine, region string) ([]string, error)
}

type Server struct {
	hub      *hub.Hub
	registry *players.Registry
	riot     RiotAccounts
	logger   *zap.Logger
}

func NewServer(h *hub.Hub, registry *players.Registry, rc RiotAccounts, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{hub: h, registry: registry, riot: rc, logger: logger}
}

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

func (s *Server) CreateLobby(w http.ResponseWriter, r *http.Request) {
	var code string
	for {
		c, err := GenerateCode()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to generate code")
			return
		}
		if s.hub.Get(c) == nil {
			code = c
			break
		}
		s.logger.Debug("collision on code, regenerating", zap.String("code", c))
	}

	if s.hub.Ensure(code) == nil {
		writeError(w, http.StatusServiceUnavailable, "server is shutting down")
		return
	}

	s.logger.Info("lobby created", zap.String("lobby", code))
	writeJSON(w, http.StatusCreated, struct {
		Code string `json:"code"`
	}{Code: code})
}

func (s *Server) Randomize(w http.ResponseWriter, r *http.Request) {
	var req types.RandomizeRequest
	// An empty body rolls the present players without champions.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	reply := make(chan lobby.RollReply, 1)
	s.sendRoll(w, r, lobby.Randomize{ParticipantIDs: req.ParticipantIDs, WithChampions: req.Champions, Reply: reply}, reply)
}

func (s *Server) Reroll(w http.ResponseWriter, r *http.Request) {
	reply := make(chan lobby.RollReply, 1)
	s.sendRoll(w, r, lobby.Reroll{Reply: reply}, reply)
}

func (s *Server) sendRoll(w http.ResponseWriter, r *http.Request, msg lobby.Msg, reply chan lobby.RollReply) {
	code := chi.URLParam(r, "code")
	lb := s.hub.Get(code)
	if lb == nil {
		writeError(w, http.StatusNotFound, "lobby not found")
		return
	}

	if !lb.Send(msg) {
		writeError(w, http.StatusServiceUnavailable, "lobby closed")
		return
	}

	var res lobby.RollReply
	select {
	case res = <-reply:
	case <-lb.Done():
		// the lobby may have answered just before stopping
		select {
		case res = <-reply:
		default:
			writeError(w, http.StatusServiceUnavailable, "lobby closed")
			return
		}
	case <-r.Context().Done():
		writeError(w, http.StatusServiceUnavailable, "request cancelled")
		return
	}

	if res.Err != nil {
		writeRollError(w, res.Err)
		return
	}
	writeJSON(w, http.StatusOK, types.FromRoll(res.Roll))
}

func writeRollError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidPoolSize):
		writeJSON(w, http.StatusUnprocessableEntity, types.ErrorResponse{
			Error:      err.Error(),
			ValidSizes: engine.ValidPoolSizes(),
		})
	case errors.Is(err, lobby.ErrNoParticipants):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, lobby.ErrNoPreviousRoll):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func GameModes(w http.ResponseWriter, r *http.Request) {
	sizes := engine.ValidPoolSizes()
	out := make([]types.GameMode, 0, len(sizes))
	for _, n := range sizes {
		mode, _ := engine.GameModeFor(n)
		out = append(out, types.FromGameMode(mode))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ps, err := s.registry.List(r.Context())
	if err != nil {
		s.logger.Error("list players", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list players")
		return
	}
	out := make([]types.Player, len(ps))
	for i, p := range ps {
		out[i] = types.FromPlayer(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) RegisterPlayer(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.ID == "" || req.DisplayName == "" {
		writeError(w, http.StatusBadRequest, "id and display_name are required")
		return
	}

	err := s.registry.Register(r.Context(), req.ID, req.DisplayName)
	switch {
	case errors.Is(err, players.ErrAlreadyRegistered):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		s.logger.Error("register player", zap.String("player_id", req.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to register player")
		return
	}
	writeJSON(w, http.StatusCreated, types.Player{ID: req.ID, DisplayName: req.DisplayName})
}

func (s *Server) UnregisterPlayer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	name, err := s.registry.Unregister(r.Context(), id)
	switch {
	case errors.Is(err, players.ErrNotRegistered):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		s.logger.Error("unregister player", zap.String("player_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to unregister player")
		return
	}
	writeJSON(w, http.StatusOK, types.Player{ID: id, DisplayName: name})
}

type linkRiotResponse struct {
	Player  types.Player `json:"player"`
	Warning string       `json:"warning,omitempty"`
}

// LinkRiot stores the account and then loads the player's champions. A
// failed champion fetch keeps the link and leaves the player unrestricted.
func (s *Server) LinkRiot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req types.LinkRiotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	gameName, tagLine, err := players.ParseRiotID(strings.TrimSpace(req.RiotID))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	region := strings.ToLower(strings.TrimSpace(req.Region))
	if region == "" {
		region = defaultRegion
	}

	if ok, err := s.registry.IsRegistered(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load player")
		return
	} else if !ok {
		writeError(w, http.StatusNotFound, players.ErrNotRegistered.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	puuid, err := s.riot.PUUID(ctx, gameName, tagLine, region)
	if err != nil {
		s.logger.Warn("riot account lookup failed", zap.String("player_id", id), zap.Error(err))
		writeRiotError(w, gameName+"#"+tagLine, err)
		return
	}

	p, err := s.registry.LinkRiot(ctx, id, gameName, tagLine, region, puuid)
	if err != nil {
		writeRegistryError(w, err)
		return
	}

	resp := linkRiotResponse{}
	owned, err := s.riot.OwnedChampions(ctx, gameName, tagLine, region)
	if err != nil {
		s.logger.Warn("owned champions unavailable", zap.String("player_id", id), zap.Error(err))
		resp.Warning = "riot account linked but owned champions could not be loaded: " + err.Error()
	} else if p, err = s.registry.SetOwnedChampions(ctx, id, owned); err != nil {
		writeRegistryError(w, err)
		return
	}

	resp.Player = types.FromPlayer(p)
	writeJSON(w, http.StatusOK, resp)
}

func writeRiotError(w http.ResponseWriter, riotID string, err error) {
	switch {
	case errors.Is(err, riot.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "could not find riot account "+riotID)
	case errors.Is(err, riot.ErrNoAPIKey):
		writeError(w, http.StatusServiceUnavailable, "riot account linking is not configured on this server")
	default:
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

func writeRegistryError(w http.ResponseWriter, err error) {
	if errors.Is(err, players.ErrNotRegistered) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg})
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("took", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
