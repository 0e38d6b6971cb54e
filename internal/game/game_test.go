// FILE: internal/game/game_test.go
package game

import (
	"errors"
	"testing"

	"llmchess/internal/board"
	"llmchess/internal/core"
)

func sq(t *testing.T, name string) core.Square {
	t.Helper()
	s, ok := core.SquareFromName(name)
	if !ok {
		t.Fatalf("invalid square %q", name)
	}
	return s
}

func pieceAt(t *testing.T, g *Game, name string) *board.Piece {
	t.Helper()
	p := g.Board().PieceAt(sq(t, name))
	if p == nil {
		t.Fatalf("no piece at %s", name)
	}
	return p
}

func mustMove(t *testing.T, g *Game, from, to string) *MoveResult {
	t.Helper()
	res, err := g.ApplyMove(pieceAt(t, g, from), sq(t, to))
	if err != nil {
		t.Fatalf("move %s%s: %v", from, to, err)
	}
	return res
}

func TestOpeningSequence(t *testing.T) {
	g := New(core.ColorWhite)

	res := mustMove(t, g, "e2", "e4")
	if res.Move != "e2e4" || res.Player != core.ColorWhite || res.Forced {
		t.Fatalf("unexpected result %+v", res)
	}
	if g.Turn() != core.ColorBlack {
		t.Fatal("turn must alternate")
	}

	mustMove(t, g, "e7", "e5")
	mustMove(t, g, "g1", "f3")

	if g.MoveCount() != 3 {
		t.Fatalf("MoveCount = %d, want 3", g.MoveCount())
	}
	moves := g.Moves()
	want := []string{"e2e4", "e7e5", "g1f3"}
	for i, m := range want {
		if moves[i] != m {
			t.Fatalf("Moves()[%d] = %q, want %q", i, moves[i], m)
		}
	}
	if g.State() != core.StateOngoing || g.Over() {
		t.Fatal("game should be ongoing")
	}
}

func TestOutOfTurnRejected(t *testing.T) {
	g := New(core.ColorWhite)
	_, err := g.ApplyMove(pieceAt(t, g, "e7"), sq(t, "e5"))
	if !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("err = %v, want ErrOutOfTurn", err)
	}
}

func TestIllegalMoveRejected(t *testing.T) {
	g := New(core.ColorWhite)
	_, err := g.ApplyMove(pieceAt(t, g, "e2"), sq(t, "e5"))
	if !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("err = %v, want ErrIllegalMove", err)
	}
	// rejection must not mutate state
	if g.MoveCount() != 0 || g.Turn() != core.ColorWhite {
		t.Fatal("rejected move mutated the game")
	}
}

func TestMovedPawnLosesDoubleAdvance(t *testing.T) {
	g := New(core.ColorWhite)
	mustMove(t, g, "e2", "e3")
	mustMove(t, g, "a7", "a6")

	_, err := g.ApplyMove(pieceAt(t, g, "e3"), sq(t, "e5"))
	if !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("err = %v, want ErrIllegalMove", err)
	}
}

func TestEnPassantLivesOnePly(t *testing.T) {
	g := New(core.ColorWhite)
	mustMove(t, g, "e2", "e4")
	mustMove(t, g, "a7", "a6")
	mustMove(t, g, "e4", "e5")
	mustMove(t, g, "d7", "d5")

	ep := g.Board().EnPassant()
	if ep == nil || ep.Target != sq(t, "d6") || ep.By != core.ColorBlack {
		t.Fatalf("en passant = %+v, want target d6 by black", ep)
	}

	// the white e5 pawn may capture en passant right now
	legal := g.Board().LegalMoves(pieceAt(t, g, "e5"))
	found := false
	for _, m := range legal {
		if m == sq(t, "d6") {
			found = true
		}
	}
	if !found {
		t.Fatal("en passant capture missing from legal moves")
	}

	// declining the capture forfeits it
	mustMove(t, g, "a2", "a3")
	mustMove(t, g, "a6", "a5")
	if g.Board().EnPassant() != nil {
		t.Fatal("en passant opportunity must vanish after one ply")
	}
}

func TestEnPassantCaptureRemovesVictim(t *testing.T) {
	g := New(core.ColorWhite)
	mustMove(t, g, "e2", "e4")
	mustMove(t, g, "a7", "a6")
	mustMove(t, g, "e4", "e5")
	mustMove(t, g, "d7", "d5")

	mustMove(t, g, "e5", "d6")
	if g.Board().PieceAt(sq(t, "d5")) != nil {
		t.Fatal("captured pawn still on the board")
	}
	if p := g.Board().PieceAt(sq(t, "d6")); p == nil || p.Type != core.PiecePawn || p.Color != core.ColorWhite {
		t.Fatal("capturing pawn not on the target square")
	}
}

func TestCastlingMovesRook(t *testing.T) {
	g, err := NewFromFEN("r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1", core.ColorWhite)
	if err != nil {
		t.Fatalf("NewFromFEN: %v", err)
	}

	res := mustMove(t, g, "e1", "g1")
	if res.Move != "e1g1" {
		t.Fatalf("notation = %q", res.Move)
	}
	if p := g.Board().PieceAt(sq(t, "f1")); p == nil || p.Type != core.PieceRook {
		t.Fatal("rook did not relocate on castling")
	}
	if g.Board().PieceAt(sq(t, "h1")) != nil {
		t.Fatal("rook still on its corner")
	}

	// black castles long
	res = mustMove(t, g, "e8", "c8")
	if p := g.Board().PieceAt(sq(t, "d8")); p == nil || p.Type != core.PieceRook {
		t.Fatal("queenside rook did not relocate")
	}
	_ = res
}

func TestPromotionDefaultsToQueen(t *testing.T) {
	g, err := NewFromFEN("4k3/P7/8/8/8/8/8/4K3 w - - 0 1", core.ColorWhite)
	if err != nil {
		t.Fatalf("NewFromFEN: %v", err)
	}

	res := mustMove(t, g, "a7", "a8")
	if res.Move != "a7a8=Q" {
		t.Fatalf("notation = %q, want a7a8=Q", res.Move)
	}
	if p := g.Board().PieceAt(sq(t, "a8")); p == nil || p.Type != core.PieceQueen {
		t.Fatal("pawn did not promote to queen")
	}
}

func TestPromotionExplicitChoice(t *testing.T) {
	g, err := NewFromFEN("4k3/P7/8/8/8/8/8/4K3 w - - 0 1", core.ColorWhite)
	if err != nil {
		t.Fatalf("NewFromFEN: %v", err)
	}

	res, err := g.ApplyMoveWithPromotion(pieceAt(t, g, "a7"), sq(t, "a8"), core.PieceKnight)
	if err != nil {
		t.Fatalf("promotion move: %v", err)
	}
	if res.Move != "a7a8=N" {
		t.Fatalf("notation = %q, want a7a8=N", res.Move)
	}
}

func TestPromotionChooser(t *testing.T) {
	g, err := NewFromFEN("4k3/P7/8/8/8/8/8/4K3 w - - 0 1", core.ColorWhite)
	if err != nil {
		t.Fatalf("NewFromFEN: %v", err)
	}
	g.SetPromotionChooser(func(core.Color) core.PieceType { return core.PieceRook })

	res := mustMove(t, g, "a7", "a8")
	if res.Move != "a7a8=R" {
		t.Fatalf("notation = %q, want a7a8=R", res.Move)
	}
}

func TestForcedMoveSkipsLegality(t *testing.T) {
	g := New(core.ColorWhite)
	knight := pieceAt(t, g, "b1")

	res, err := g.ApplyForcedMove(knight, sq(t, "b5"), core.PieceNone)
	if err != nil {
		t.Fatalf("forced move: %v", err)
	}
	if !res.Forced {
		t.Fatal("result must carry the forced flag")
	}
	if g.Board().PieceAt(sq(t, "b5")) != knight {
		t.Fatal("knight not at forced destination")
	}
	if g.Turn() != core.ColorBlack {
		t.Fatal("forced move must consume the turn")
	}
}

func TestForcedMoveRejectsFriendlyKingCapture(t *testing.T) {
	g := New(core.ColorWhite)
	rook := pieceAt(t, g, "a1")

	_, err := g.ApplyForcedMove(rook, sq(t, "e1"), core.PieceNone)
	if !errors.Is(err, ErrKingCapture) {
		t.Fatalf("err = %v, want ErrKingCapture", err)
	}
}

func TestForcedMoveCanCaptureEnemyKing(t *testing.T) {
	g, err := NewFromFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1", core.ColorWhite)
	if err != nil {
		t.Fatalf("NewFromFEN: %v", err)
	}

	res, err := g.ApplyForcedMove(pieceAt(t, g, "a1"), sq(t, "e8"), core.PieceNone)
	if err != nil {
		t.Fatalf("forced move: %v", err)
	}
	if res.State != core.StateKingCaptured {
		t.Fatalf("state = %s, want king_captured", res.State)
	}
	if !g.Over() {
		t.Fatal("king capture must end the game")
	}
	if g.OverMessage() == "" {
		t.Fatal("terminal message missing")
	}
}

func TestSpawnPiece(t *testing.T) {
	g := New(core.ColorWhite)

	res, err := g.SpawnPiece(core.PieceKnight, core.ColorWhite, sq(t, "e5"))
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if res.Move != "N@e5" {
		t.Fatalf("notation = %q, want N@e5", res.Move)
	}
	if !res.Spawned || !res.Forced {
		t.Fatalf("flags = %+v", res)
	}
	if p := g.Board().PieceAt(sq(t, "e5")); p == nil || p.Type != core.PieceKnight || !p.HasMoved {
		t.Fatal("spawned piece missing or not marked moved")
	}
	if g.Turn() != core.ColorBlack {
		t.Fatal("spawn must consume the turn")
	}
}

func TestSpawnDisplacesOccupant(t *testing.T) {
	g := New(core.ColorWhite)

	res, err := g.SpawnPiece(core.PieceQueen, core.ColorWhite, sq(t, "d7"))
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if p := g.Board().PieceAt(sq(t, "d7")); p == nil || p.Type != core.PieceQueen || p.Color != core.ColorWhite {
		t.Fatal("spawn did not displace the occupant")
	}
	_ = res
}

func TestSpawnOntoKingRejected(t *testing.T) {
	g := New(core.ColorWhite)

	if _, err := g.SpawnPiece(core.PieceQueen, core.ColorWhite, sq(t, "e8")); !errors.Is(err, ErrKingCapture) {
		t.Fatalf("enemy king: err = %v, want ErrKingCapture", err)
	}
	if _, err := g.SpawnPiece(core.PieceQueen, core.ColorWhite, sq(t, "e1")); !errors.Is(err, ErrKingCapture) {
		t.Fatalf("own king: err = %v, want ErrKingCapture", err)
	}
}

func TestFoolsMateSetsCheckmate(t *testing.T) {
	g := New(core.ColorWhite)
	mustMove(t, g, "f2", "f3")
	mustMove(t, g, "e7", "e5")
	mustMove(t, g, "g2", "g4")
	res := mustMove(t, g, "d8", "h4")

	if res.State != core.StateCheckmate {
		t.Fatalf("state = %s, want checkmate", res.State)
	}
	if !g.Over() {
		t.Fatal("checkmate must end the game")
	}

	// further moves are rejected
	if _, err := g.ApplyMove(pieceAt(t, g, "e2"), sq(t, "e3")); !errors.Is(err, ErrGameOver) {
		t.Fatalf("err = %v, want ErrGameOver", err)
	}
}

func TestStalemateEndsGame(t *testing.T) {
	g, err := NewFromFEN("7k/8/5K2/6Q1/8/8/8/8 w - - 0 1", core.ColorWhite)
	if err != nil {
		t.Fatalf("NewFromFEN: %v", err)
	}

	res := mustMove(t, g, "g5", "g6")
	if res.State != core.StateStalemate {
		t.Fatalf("state = %s, want stalemate", res.State)
	}
	if !g.Over() {
		t.Fatal("stalemate must end the game")
	}
}

func TestReset(t *testing.T) {
	g := New(core.ColorWhite)
	mustMove(t, g, "e2", "e4")
	mustMove(t, g, "e7", "e5")

	g.Reset()

	if g.MoveCount() != 0 || len(g.Moves()) != 0 {
		t.Fatal("history survived reset")
	}
	if g.State() != core.StateOngoing || g.Turn() != core.ColorWhite {
		t.Fatal("state not restored")
	}
	if g.FEN() != board.StartingFEN {
		t.Fatalf("FEN = %q, want starting position", g.FEN())
	}
}

func TestFENFullmoveProgression(t *testing.T) {
	g := New(core.ColorWhite)
	mustMove(t, g, "e2", "e4")
	mustMove(t, g, "e7", "e5")
	mustMove(t, g, "g1", "f3")

	// three plies played: fullmove counter shows 2
	want := "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 0 2"
	if got := g.FEN(); got != want {
		t.Fatalf("FEN = %q, want %q", got, want)
	}
}
