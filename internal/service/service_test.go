// FILE: internal/service/service_test.go
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"llmchess/internal/ai"
	"llmchess/internal/core"
	"llmchess/internal/game"
)

type scriptedCompleter struct {
	replies []string
}

func (s *scriptedCompleter) Complete(_ context.Context, _ []ai.Message) (string, error) {
	if len(s.replies) == 0 {
		return "", errors.New("script exhausted")
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

func newTestService(replies ...string) *Service {
	return New(nil, &scriptedCompleter{replies: replies}, ai.DefaultConfig())
}

func createTestGame(t *testing.T, svc *Service, playerColor core.Color) string {
	t.Helper()
	id := svc.GenerateGameID()
	if err := svc.CreateGame(id, playerColor, "", "test-model", svc.DefaultPolicy(), 1); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	return id
}

func TestCreateGameDuplicateID(t *testing.T) {
	svc := newTestService()
	id := createTestGame(t, svc, core.ColorWhite)

	if err := svc.CreateGame(id, core.ColorWhite, "", "", svc.DefaultPolicy(), 1); err == nil {
		t.Fatal("duplicate game ID must be rejected")
	}
}

func TestCreateGameInvalidFEN(t *testing.T) {
	svc := newTestService()
	if err := svc.CreateGame("x", core.ColorWhite, "not a position", "", svc.DefaultPolicy(), 1); err == nil {
		t.Fatal("invalid FEN must be rejected")
	}
}

func TestPlayersDescriptors(t *testing.T) {
	svc := newTestService()
	id := svc.GenerateGameID()
	if err := svc.CreateGame(id, core.ColorBlack, "", "test-model", svc.DefaultPolicy(), 1); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	players, err := svc.Players(id)
	if err != nil {
		t.Fatalf("Players: %v", err)
	}
	if players.White == nil || players.Black == nil {
		t.Fatalf("players = %+v", players)
	}
	// human picked black, so the model descriptor holds white
	if players.White.Type != core.PlayerModel || players.White.Model != "test-model" {
		t.Fatalf("white = %+v, want the model side", players.White)
	}
	if players.Black.Type != core.PlayerHuman || players.Black.Model != "" {
		t.Fatalf("black = %+v, want the human side", players.Black)
	}
	if players.White.Color != core.ColorWhite || players.Black.Color != core.ColorBlack {
		t.Fatal("descriptor colors do not match their sides")
	}
	if players.White.ID == "" || players.White.ID == players.Black.ID {
		t.Fatal("player IDs must be distinct and non-empty")
	}

	if _, err := svc.Players("no-such-game"); err == nil {
		t.Fatal("unknown game must be rejected")
	}
}

func TestHumanThenAITurn(t *testing.T) {
	svc := newTestService("e7e5")
	id := createTestGame(t, svc, core.ColorWhite)

	res, err := svc.MakeHumanMove(id, "e2e4")
	if err != nil {
		t.Fatalf("MakeHumanMove: %v", err)
	}
	if res.Move != "e2e4" || res.Player != core.ColorWhite {
		t.Fatalf("result = %+v", res)
	}

	aiRes, err := svc.MakeAITurn(context.Background(), id)
	if err != nil {
		t.Fatalf("MakeAITurn: %v", err)
	}
	if aiRes == nil || aiRes.Move != "e7e5" || aiRes.Player != core.ColorBlack {
		t.Fatalf("AI result = %+v", aiRes)
	}

	g, err := svc.GetGame(id)
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if g.MoveCount() != 2 {
		t.Fatalf("MoveCount = %d, want 2", g.MoveCount())
	}
}

func TestHumanMoveOutOfTurn(t *testing.T) {
	// human plays black: white (the model) must move first
	svc := newTestService()
	id := createTestGame(t, svc, core.ColorBlack)

	_, err := svc.MakeHumanMove(id, "e7e5")
	if !errors.Is(err, game.ErrOutOfTurn) {
		t.Fatalf("err = %v, want ErrOutOfTurn", err)
	}
}

func TestHumanMoveRejectsPermissiveText(t *testing.T) {
	svc := newTestService()
	id := createTestGame(t, svc, core.ColorWhite)

	// e5 is empty: only the model's rule-breaking path may synthesize pieces
	if _, err := svc.MakeHumanMove(id, "e5e6"); err == nil {
		t.Fatal("synthesized source must be rejected for the human")
	}
}

func TestAITurnSkipsWhenNotItsMove(t *testing.T) {
	svc := newTestService("e7e5")
	id := createTestGame(t, svc, core.ColorWhite)

	res, err := svc.MakeAITurn(context.Background(), id)
	if err != nil || res != nil {
		t.Fatalf("MakeAITurn = (%+v, %v), want (nil, nil)", res, err)
	}
}

func TestLegalMoves(t *testing.T) {
	svc := newTestService()
	id := createTestGame(t, svc, core.ColorWhite)

	moves, err := svc.LegalMoves(id, "e2")
	if err != nil {
		t.Fatalf("LegalMoves: %v", err)
	}
	if len(moves) != 2 {
		t.Fatalf("moves = %v, want e3 and e4", moves)
	}

	empty, err := svc.LegalMoves(id, "e5")
	if err != nil {
		t.Fatalf("LegalMoves: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("empty square returned moves: %v", empty)
	}

	if _, err := svc.LegalMoves(id, "z9"); err == nil {
		t.Fatal("invalid square must be rejected")
	}
}

func TestResetRestartsGame(t *testing.T) {
	svc := newTestService("e7e5")
	id := createTestGame(t, svc, core.ColorWhite)

	if _, err := svc.MakeHumanMove(id, "e2e4"); err != nil {
		t.Fatalf("MakeHumanMove: %v", err)
	}
	if _, err := svc.MakeAITurn(context.Background(), id); err != nil {
		t.Fatalf("MakeAITurn: %v", err)
	}

	if err := svc.Reset(id); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	g, _ := svc.GetGame(id)
	if g.MoveCount() != 0 || g.Turn() != core.ColorWhite {
		t.Fatal("reset did not restore the start position")
	}
}

func TestDeleteGame(t *testing.T) {
	svc := newTestService()
	id := createTestGame(t, svc, core.ColorWhite)

	if err := svc.DeleteGame(id); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}
	if _, err := svc.GetGame(id); err == nil {
		t.Fatal("deleted game still reachable")
	}
	if err := svc.DeleteGame(id); err == nil {
		t.Fatal("double delete must fail")
	}
}

func TestBoardASCII(t *testing.T) {
	svc := newTestService()
	id := createTestGame(t, svc, core.ColorWhite)

	fen, ascii, err := svc.BoardASCII(id)
	if err != nil {
		t.Fatalf("BoardASCII: %v", err)
	}
	if fen == "" || ascii == "" {
		t.Fatal("empty board rendering")
	}
}

func TestWaitForChangeReturnsOnMove(t *testing.T) {
	svc := newTestService()
	id := createTestGame(t, svc, core.ColorWhite)

	done := make(chan struct{})
	go func() {
		svc.WaitForChange(context.Background(), id, 0)
		close(done)
	}()

	// give the waiter a moment to register
	time.Sleep(20 * time.Millisecond)
	if _, err := svc.MakeHumanMove(id, "e2e4"); err != nil {
		t.Fatalf("MakeHumanMove: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter not released by the move")
	}
}

func TestWaitForChangeSeesMoveBeforeRegistration(t *testing.T) {
	// a move that lands between the caller's snapshot and the waiter
	// registration must still release the wait immediately
	svc := newTestService()
	id := createTestGame(t, svc, core.ColorWhite)

	if _, err := svc.MakeHumanMove(id, "e2e4"); err != nil {
		t.Fatalf("MakeHumanMove: %v", err)
	}

	done := make(chan struct{})
	go func() {
		svc.WaitForChange(context.Background(), id, 0)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("wait blocked although the game had already advanced")
	}
}

func TestStorageHealthWithoutStore(t *testing.T) {
	svc := newTestService()
	if got := svc.GetStorageHealth(); got != "disabled" {
		t.Fatalf("health = %q, want disabled", got)
	}
}

func TestShutdown(t *testing.T) {
	svc := newTestService()
	createTestGame(t, svc, core.ColorWhite)

	if err := svc.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}
