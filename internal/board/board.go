// FILE: internal/board/board.go
package board

import (
	"fmt"
	"strings"

	"llmchess/internal/core"
)

// Piece is a chess piece owned by a Board. Identity is stable across moves;
// a captured piece is removed from the board and never reused.
type Piece struct {
	Type     core.PieceType
	Color    core.Color
	Square   core.Square
	HasMoved bool
}

// Letter returns the FEN letter for the piece (uppercase white, lowercase black).
func (p *Piece) Letter() byte {
	b := p.Type.Letter()
	if p.Color == core.ColorBlack {
		b += 'a' - 'A'
	}
	return b
}

// EnPassant records the square a just-moved two-step pawn passed through,
// tagged with the color that created it.
type EnPassant struct {
	Target core.Square
	By     core.Color
}

// Board is the authoritative 8x8 occupancy grid.
type Board struct {
	squares   [8][8]*Piece // [file][rank]
	turn      core.Color
	enPassant *EnPassant
}

// New creates a board with the standard starting layout, White to move.
func New() *Board {
	b := &Board{}
	b.Reset()
	return b
}

// NewEmpty creates a board with no pieces. Used by tests and FEN import.
func NewEmpty() *Board {
	return &Board{turn: core.ColorWhite}
}

// Reset restores the standard starting layout and clears transient state.
func (b *Board) Reset() {
	for f := 0; f < 8; f++ {
		for r := 0; r < 8; r++ {
			b.squares[f][r] = nil
		}
	}
	b.turn = core.ColorWhite
	b.enPassant = nil

	backRank := []core.PieceType{
		core.PieceRook, core.PieceKnight, core.PieceBishop, core.PieceQueen,
		core.PieceKing, core.PieceBishop, core.PieceKnight, core.PieceRook,
	}
	for f := 0; f < 8; f++ {
		b.mustPlace(&Piece{Type: backRank[f], Color: core.ColorWhite, Square: core.Square{File: f, Rank: 0}})
		b.mustPlace(&Piece{Type: core.PiecePawn, Color: core.ColorWhite, Square: core.Square{File: f, Rank: 1}})
		b.mustPlace(&Piece{Type: core.PiecePawn, Color: core.ColorBlack, Square: core.Square{File: f, Rank: 6}})
		b.mustPlace(&Piece{Type: backRank[f], Color: core.ColorBlack, Square: core.Square{File: f, Rank: 7}})
	}
}

// PieceAt returns the occupant of a square, or nil.
func (b *Board) PieceAt(sq core.Square) *Piece {
	if !sq.Valid() {
		return nil
	}
	return b.squares[sq.File][sq.Rank]
}

// Pieces returns all pieces of a color in file-then-rank order.
func (b *Board) Pieces(c core.Color) []*Piece {
	var out []*Piece
	for f := 0; f < 8; f++ {
		for r := 0; r < 8; r++ {
			if p := b.squares[f][r]; p != nil && p.Color == c {
				out = append(out, p)
			}
		}
	}
	return out
}

// King returns the king of a color, or nil if captured.
func (b *Board) King(c core.Color) *Piece {
	for f := 0; f < 8; f++ {
		for r := 0; r < 8; r++ {
			if p := b.squares[f][r]; p != nil && p.Color == c && p.Type == core.PieceKing {
				return p
			}
		}
	}
	return nil
}

func (b *Board) Turn() core.Color {
	return b.turn
}

func (b *Board) SetTurn(c core.Color) {
	b.turn = c
}

func (b *Board) FlipTurn() {
	b.turn = core.OppositeColor(b.turn)
}

func (b *Board) EnPassant() *EnPassant {
	return b.enPassant
}

func (b *Board) SetEnPassant(ep *EnPassant) {
	b.enPassant = ep
}

// Place puts a piece on its square. Fails on invalid or occupied squares;
// at most one piece per square is enforced on every mutation.
func (b *Board) Place(p *Piece) error {
	if !p.Square.Valid() {
		return fmt.Errorf("invalid square %v", p.Square)
	}
	if b.squares[p.Square.File][p.Square.Rank] != nil {
		return fmt.Errorf("square %s occupied", p.Square.Name())
	}
	b.squares[p.Square.File][p.Square.Rank] = p
	return nil
}

func (b *Board) mustPlace(p *Piece) {
	if err := b.Place(p); err != nil {
		panic(err) // starting layout placement cannot fail
	}
}

// Remove takes the occupant off a square and returns it.
func (b *Board) Remove(sq core.Square) *Piece {
	if !sq.Valid() {
		return nil
	}
	p := b.squares[sq.File][sq.Rank]
	b.squares[sq.File][sq.Rank] = nil
	return p
}

// Relocate moves a piece to a destination square. The destination must be
// empty; captures are performed by the caller via Remove first.
func (b *Board) Relocate(p *Piece, to core.Square) error {
	if !to.Valid() {
		return fmt.Errorf("invalid square %v", to)
	}
	if b.squares[to.File][to.Rank] != nil && b.squares[to.File][to.Rank] != p {
		return fmt.Errorf("square %s occupied", to.Name())
	}
	b.squares[p.Square.File][p.Square.Rank] = nil
	b.squares[to.File][to.Rank] = p
	p.Square = to
	return nil
}

// Spawn materializes a new piece at a square, forcibly vacating any
// occupant. The piece is marked already-moved. Used only outside normal play.
func (b *Board) Spawn(t core.PieceType, c core.Color, sq core.Square) (*Piece, error) {
	if !sq.Valid() {
		return nil, fmt.Errorf("invalid square %v", sq)
	}
	b.Remove(sq)
	p := &Piece{Type: t, Color: c, Square: sq, HasMoved: true}
	b.squares[sq.File][sq.Rank] = p
	return p, nil
}

// ToASCII creates an ASCII representation of the board
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 7; r >= 0; r-- {
		sb.WriteString(fmt.Sprintf("%d ", r+1))
		for f := 0; f < 8; f++ {
			p := b.squares[f][r]
			if p == nil {
				sb.WriteString(". ")
			} else {
				sb.WriteString(fmt.Sprintf("%c ", p.Letter()))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", r+1))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}
