// FILE: internal/game/game.go
package game

import (
	"fmt"

	"llmchess/internal/board"
	"llmchess/internal/core"
)

// Snapshot is one position in the game history.
type Snapshot struct {
	FEN          string     // Board state at this point
	PreviousMove string     // Move that created this position (empty for initial)
	NextTurn     core.Color // Whose turn it is at this position
}

// MoveResult tracks the outcome of an applied move.
type MoveResult struct {
	Move    string
	Player  core.Color
	State   core.State
	Forced  bool // applied outside the legality filter
	Spawned bool // piece materialized rather than moved
}

// PromotionChooser supplies the promotion type for a promoting side.
// A nil chooser (or PieceNone result) promotes to Queen.
type PromotionChooser func(c core.Color) core.PieceType

// Game is the turn-tracking state engine on top of a Board.
type Game struct {
	board       *board.Board
	playerColor core.Color
	state       core.State
	overMessage string
	snapshots   []Snapshot
	promote     PromotionChooser
}

// New creates a game from the standard starting layout.
func New(playerColor core.Color) *Game {
	g := &Game{
		board:       board.New(),
		playerColor: playerColor,
		state:       core.StateOngoing,
	}
	g.snapshots = []Snapshot{{
		FEN:      g.board.FEN(1),
		NextTurn: g.board.Turn(),
	}}
	return g
}

// NewFromFEN creates a game from a custom starting position.
func NewFromFEN(fen string, playerColor core.Color) (*Game, error) {
	b, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	g := &Game{
		board:       b,
		playerColor: playerColor,
		state:       core.StateOngoing,
	}
	g.snapshots = []Snapshot{{
		FEN:      b.FEN(1),
		NextTurn: b.Turn(),
	}}
	return g, nil
}

func (g *Game) Board() *board.Board {
	return g.board
}

func (g *Game) Turn() core.Color {
	return g.board.Turn()
}

func (g *Game) PlayerColor() core.Color {
	return g.playerColor
}

func (g *Game) State() core.State {
	return g.state
}

// Over reports the terminal flag. Checked at every suspension point of the
// AI turn cycle.
func (g *Game) Over() bool {
	return g.state.Terminal()
}

func (g *Game) OverMessage() string {
	return g.overMessage
}

func (g *Game) SetPromotionChooser(f PromotionChooser) {
	g.promote = f
}

// Moves returns the notation history in play order.
func (g *Game) Moves() []string {
	moves := []string{}
	for i := 1; i < len(g.snapshots); i++ {
		if g.snapshots[i].PreviousMove != "" {
			moves = append(moves, g.snapshots[i].PreviousMove)
		}
	}
	return moves
}

func (g *Game) MoveCount() int {
	return len(g.snapshots) - 1
}

func (g *Game) CurrentSnapshot() Snapshot {
	return g.snapshots[len(g.snapshots)-1]
}

func (g *Game) FEN() string {
	return g.board.FEN(g.fullmove())
}

func (g *Game) fullmove() int {
	return g.MoveCount()/2 + 1
}

// ApplyMove executes a move that must pass the legality filter.
func (g *Game) ApplyMove(p *board.Piece, to core.Square) (*MoveResult, error) {
	return g.ApplyMoveWithPromotion(p, to, core.PieceNone)
}

// ApplyMoveWithPromotion executes a legal move with an explicit promotion
// choice (PieceNone defers to the chooser, then Queen).
func (g *Game) ApplyMoveWithPromotion(p *board.Piece, to core.Square, promotion core.PieceType) (*MoveResult, error) {
	if g.state.Terminal() {
		return nil, ErrGameOver
	}
	if p.Color != g.board.Turn() {
		return nil, ErrOutOfTurn
	}
	legal := false
	for _, m := range g.board.LegalMoves(p) {
		if m == to {
			legal = true
			break
		}
	}
	if !legal {
		return nil, fmt.Errorf("%w: %s to %s", ErrIllegalMove, p.Type, to.Name())
	}
	return g.execute(p, to, promotion, false)
}

// ApplyForcedMove executes a move with identical mechanics but skips the
// legality filter. The caller is responsible for the rule-breaking safety
// invariants (no own-king capture, check resolution).
func (g *Game) ApplyForcedMove(p *board.Piece, to core.Square, promotion core.PieceType) (*MoveResult, error) {
	if g.state.Terminal() {
		return nil, ErrGameOver
	}
	if p.Color != g.board.Turn() {
		return nil, ErrOutOfTurn
	}
	if !to.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSquare, to)
	}
	if target := g.board.PieceAt(to); target != nil && target.Type == core.PieceKing && target.Color == p.Color {
		return nil, ErrKingCapture
	}
	res, err := g.execute(p, to, promotion, true)
	if err != nil {
		return nil, err
	}
	res.Forced = true
	return res, nil
}

// SpawnPiece creates a new piece at a square, forcibly vacating any occupant
// except a king, and counts as the spawning side's turn. Used only by the
// rule-breaking path.
func (g *Game) SpawnPiece(t core.PieceType, c core.Color, sq core.Square) (*MoveResult, error) {
	if g.state.Terminal() {
		return nil, ErrGameOver
	}
	if c != g.board.Turn() {
		return nil, ErrOutOfTurn
	}
	if !sq.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSquare, sq)
	}
	if target := g.board.PieceAt(sq); target != nil && target.Type == core.PieceKing {
		return nil, ErrKingCapture
	}

	if _, err := g.board.Spawn(t, c, sq); err != nil {
		return nil, err
	}

	if ep := g.board.EnPassant(); ep != nil && ep.By == c {
		g.board.SetEnPassant(nil)
	}
	g.board.FlipTurn()

	notation := fmt.Sprintf("%c@%s", t.Letter(), sq.Name())
	g.record(notation)
	g.checkTerminal()

	return &MoveResult{
		Move:    notation,
		Player:  c,
		State:   g.state,
		Forced:  true,
		Spawned: true,
	}, nil
}

// execute performs the shared move mechanics: castling rook sync, en-passant
// capture, ordinary capture, relocation, promotion, en-passant bookkeeping,
// turn flip and terminal detection.
func (g *Game) execute(p *board.Piece, to core.Square, promotion core.PieceType, forced bool) (*MoveResult, error) {
	b := g.board
	from := p.Square
	dir := board.PawnDirection(p.Color)

	// castling: the rook relocates in the same ply
	if p.Type == core.PieceKing && to.Rank == from.Rank && abs(to.File-from.File) == 2 {
		rookFrom := core.Square{File: 0, Rank: to.Rank}
		rookTo := core.Square{File: 3, Rank: to.Rank}
		if to.File == 6 {
			rookFrom.File = 7
			rookTo.File = 5
		}
		rook := b.PieceAt(rookFrom)
		if rook != nil && rook.Type == core.PieceRook && rook.Color == p.Color && b.PieceAt(rookTo) == nil {
			if err := b.Relocate(rook, rookTo); err != nil {
				return nil, err
			}
			rook.HasMoved = true
		}
	}

	// en-passant capture: the victim sits one rank behind the destination
	if p.Type == core.PiecePawn && to.File != from.File && b.PieceAt(to) == nil {
		if ep := b.EnPassant(); ep != nil && ep.By != p.Color && ep.Target == to {
			b.Remove(core.Square{File: to.File, Rank: to.Rank - dir})
		}
	}

	b.Remove(to)

	if err := b.Relocate(p, to); err != nil {
		return nil, err
	}
	p.HasMoved = true

	promoted := false
	if p.Type == core.PiecePawn && to.Rank == board.PromotionRank(p.Color) {
		p.Type = g.promotionType(p.Color, promotion)
		promoted = true
	}

	switch {
	case p.Type == core.PiecePawn && abs(to.Rank-from.Rank) == 2:
		b.SetEnPassant(&board.EnPassant{
			Target: core.Square{File: to.File, Rank: (to.Rank + from.Rank) / 2},
			By:     p.Color,
		})
	default:
		if ep := b.EnPassant(); ep != nil {
			// cleared when its creator moves again or it was just consumed
			if ep.By == p.Color || ep.Target == to {
				b.SetEnPassant(nil)
			}
		}
	}

	b.FlipTurn()

	notation := from.Name() + to.Name()
	if promoted {
		notation += "=" + string(p.Type.Letter())
	}
	g.record(notation)
	g.checkTerminal()

	return &MoveResult{
		Move:   notation,
		Player: p.Color,
		State:  g.state,
		Forced: forced,
	}, nil
}

func (g *Game) promotionType(c core.Color, explicit core.PieceType) core.PieceType {
	if explicit != core.PieceNone {
		return explicit
	}
	if g.promote != nil {
		if t := g.promote(c); t != core.PieceNone {
			return t
		}
	}
	return core.PieceQueen
}

func (g *Game) record(notation string) {
	g.snapshots = append(g.snapshots, Snapshot{
		FEN:          g.board.FEN(g.fullmove()),
		PreviousMove: notation,
		NextTurn:     g.board.Turn(),
	})
}

// checkTerminal sets the terminal flag for a captured king, checkmate or
// stalemate. Once set it is never reverted except by Reset.
func (g *Game) checkTerminal() {
	if g.state.Terminal() {
		return
	}

	for _, c := range []core.Color{core.ColorWhite, core.ColorBlack} {
		if g.board.King(c) == nil {
			g.state = core.StateKingCaptured
			g.overMessage = fmt.Sprintf("%s king captured - %s wins", c.Name(), core.OppositeColor(c).Name())
			return
		}
	}

	next := g.board.Turn()
	if g.board.IsCheckmate(next) {
		g.state = core.StateCheckmate
		g.overMessage = fmt.Sprintf("Checkmate - %s wins", core.OppositeColor(next).Name())
	} else if g.board.IsStalemate(next) {
		g.state = core.StateStalemate
		g.overMessage = "Stalemate - draw"
	}
}

// Reset restores the standard starting layout and clears all transient state.
func (g *Game) Reset() {
	g.board.Reset()
	g.state = core.StateOngoing
	g.overMessage = ""
	g.snapshots = []Snapshot{{
		FEN:      g.board.FEN(1),
		NextTurn: g.board.Turn(),
	}}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
