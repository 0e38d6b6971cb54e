// FILE: internal/service/service.go
package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"llmchess/internal/ai"
	"llmchess/internal/core"
	"llmchess/internal/game"
	"llmchess/internal/notation"
	"llmchess/internal/storage"

	"github.com/google/uuid"
)

// Service is the registry of running games with optional persistence. Each
// session serializes its own mutations, so a game has a single turn owner at
// a time; the registry lock only guards the map.
type Service struct {
	mu        sync.RWMutex
	sessions  map[string]*session
	store     *storage.Store // nil if persistence disabled
	completer ai.Completer
	defaults  ai.Config
	waiter    *WaitRegistry
}

type session struct {
	mu      sync.Mutex
	game    *game.Game
	ctrl    *ai.Controller
	players core.PlayersResponse
}

// New creates a service instance with optional storage.
func New(store *storage.Store, completer ai.Completer, defaults ai.Config) *Service {
	return &Service{
		sessions:  make(map[string]*session),
		store:     store,
		completer: completer,
		defaults:  defaults,
		waiter:    NewWaitRegistry(),
	}
}

// CreateGame registers a new game. The human plays playerColor; the model
// drives the other side with the given policy and seed.
func (s *Service) CreateGame(id string, playerColor core.Color, fen, model string, cfg ai.Config, seed int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; exists {
		return fmt.Errorf("game %s already exists", id)
	}

	var g *game.Game
	var err error
	if fen != "" {
		g, err = game.NewFromFEN(fen, playerColor)
		if err != nil {
			return fmt.Errorf("invalid starting position: %w", err)
		}
	} else {
		g = game.New(playerColor)
	}

	rng := rand.New(rand.NewSource(seed))
	ctrl := ai.NewController(s.completer, core.OppositeColor(playerColor), cfg, rng)

	human := core.NewPlayer(core.PlayerHuman, playerColor, "")
	opponent := core.NewPlayer(core.PlayerModel, core.OppositeColor(playerColor), model)
	players := core.PlayersResponse{White: human, Black: opponent}
	if playerColor == core.ColorBlack {
		players = core.PlayersResponse{White: opponent, Black: human}
	}

	s.sessions[id] = &session{game: g, ctrl: ctrl, players: players}

	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:           id,
			InitialFEN:       g.FEN(),
			PlayerColor:      playerColor.String(),
			Model:            model,
			BreakThreshold:   cfg.BreakThreshold,
			BreakProbability: cfg.BreakProbability,
			Seed:             seed,
			StartTimeUTC:     time.Now().UTC(),
		})
	}

	return nil
}

// DefaultPolicy returns the service-wide rule-adherence defaults.
func (s *Service) DefaultPolicy() ai.Config {
	return s.defaults
}

// GenerateGameID creates a new unique game ID
func (s *Service) GenerateGameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Ensure UUID uniqueness (handle potential conflicts)
	for {
		id := uuid.New().String()
		if _, exists := s.sessions[id]; !exists {
			return id
		}
	}
}

func (s *Service) getSession(gameID string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[gameID]
	if !ok {
		return nil, fmt.Errorf("game not found: %s", gameID)
	}
	return sess, nil
}

// Players returns both side descriptors for a game.
func (s *Service) Players(gameID string) (core.PlayersResponse, error) {
	sess, err := s.getSession(gameID)
	if err != nil {
		return core.PlayersResponse{}, err
	}
	return sess.players, nil
}

// GetGame retrieves a game by ID
func (s *Service) GetGame(gameID string) (*game.Game, error) {
	sess, err := s.getSession(gameID)
	if err != nil {
		return nil, err
	}
	return sess.game, nil
}

// MakeHumanMove interprets and applies a human move. Humans are always held
// to standard legality; the permissive parse outcomes are rejected here.
func (s *Service) MakeHumanMove(gameID, text string) (*game.MoveResult, error) {
	sess, err := s.getSession(gameID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	g := sess.game
	if g.Over() {
		return nil, game.ErrGameOver
	}
	if g.Turn() != g.PlayerColor() {
		return nil, game.ErrOutOfTurn
	}

	res, err := notation.Interpret(text, g.PlayerColor(), g.Board())
	if err != nil {
		return nil, err
	}
	if err := notation.Validate(res, g.PlayerColor(), g.Board(), false); err != nil {
		return nil, err
	}

	result, err := g.ApplyMoveWithPromotion(res.Piece, res.To, res.Promotion)
	if err != nil {
		return nil, err
	}

	s.recordMove(gameID, g, result)
	return result, nil
}

// MakeAITurn runs the model's turn. The session lock is held across the
// completion request, so the board cannot change while the call is in
// flight. Returns (nil, nil) when the game is over or it is not the
// model's turn.
func (s *Service) MakeAITurn(ctx context.Context, gameID string) (*game.MoveResult, error) {
	sess, err := s.getSession(gameID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	g := sess.game
	if g.Over() || g.Turn() != sess.ctrl.Color() {
		return nil, nil
	}

	result, err := sess.ctrl.TakeTurn(ctx, g)
	if err != nil {
		return nil, err
	}
	if result != nil {
		s.recordMove(gameID, g, result)
	}
	return result, nil
}

// Reset restores the starting layout and discards conversation state.
func (s *Service) Reset(gameID string) error {
	sess, err := s.getSession(gameID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.game.Reset()
	sess.ctrl.Reset()

	s.waiter.NotifyGame(gameID, 0)
	if s.store != nil {
		s.store.DeleteGameMoves(gameID)
	}
	return nil
}

// LegalMoves returns destination names for the piece on a square, for
// destination highlighting on the client side.
func (s *Service) LegalMoves(gameID, squareName string) ([]string, error) {
	sess, err := s.getSession(gameID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sq, ok := core.SquareFromName(squareName)
	if !ok {
		return nil, fmt.Errorf("invalid square: %q", squareName)
	}
	p := sess.game.Board().PieceAt(sq)
	if p == nil {
		return []string{}, nil
	}

	moves := sess.game.Board().LegalMoves(p)
	names := make([]string, 0, len(moves))
	for _, m := range moves {
		names = append(names, m.Name())
	}
	return names, nil
}

// BoardASCII returns the FEN and ASCII rendering of the current position.
func (s *Service) BoardASCII(gameID string) (string, string, error) {
	sess, err := s.getSession(gameID)
	if err != nil {
		return "", "", err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	return sess.game.FEN(), sess.game.Board().ToASCII(), nil
}

// WaitForChange blocks until the game's move count differs from moveCount,
// the wait times out, or the client disconnects.
func (s *Service) WaitForChange(ctx context.Context, gameID string, moveCount int) {
	g, err := s.GetGame(gameID)
	if err != nil {
		return
	}
	// register before checking the count so a move landing in between
	// still releases the wait
	notify := s.waiter.RegisterWait(gameID, moveCount, ctx)
	if current := g.MoveCount(); current != moveCount {
		s.waiter.NotifyGame(gameID, current)
	}
	<-notify
}

// DeleteGame removes a game from memory
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[gameID]; !ok {
		return fmt.Errorf("game not found: %s", gameID)
	}

	// Notify and remove all waiters before deletion
	s.waiter.RemoveGame(gameID)

	delete(s.sessions, gameID)
	return nil
}

// recordMove persists a move and wakes long-polling clients. Caller holds
// the session lock.
func (s *Service) recordMove(gameID string, g *game.Game, result *game.MoveResult) {
	s.waiter.NotifyGame(gameID, g.MoveCount())

	if s.store != nil {
		s.store.RecordMove(storage.MoveRecord{
			GameID:       gameID,
			MoveNumber:   g.MoveCount(),
			Notation:     result.Move,
			FENAfterMove: g.FEN(),
			PlayerColor:  result.Player.String(),
			Forced:       result.Forced,
			Spawned:      result.Spawned,
			MoveTimeUTC:  time.Now().UTC(),
		})
	}
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// Shutdown cleans up resources
func (s *Service) Shutdown(timeout time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[string]*session)

	if err := s.waiter.Shutdown(timeout); err != nil {
		return err
	}
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
