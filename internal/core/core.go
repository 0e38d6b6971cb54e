// FILE: internal/core/core.go
package core

// Color identifies a side.
type Color byte

const (
	ColorWhite Color = iota + 1
	ColorBlack
)

func (c Color) String() string {
	if c == ColorWhite {
		return "w"
	} else if c == ColorBlack {
		return "b"
	} else {
		return "-"
	}
}

// Name returns the long form used in prompts and messages.
func (c Color) Name() string {
	if c == ColorWhite {
		return "White"
	} else if c == ColorBlack {
		return "Black"
	}
	return "None"
}

func OppositeColor(c Color) Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

// ColorFromString parses "w" or "b".
func ColorFromString(s string) (Color, bool) {
	switch s {
	case "w":
		return ColorWhite, true
	case "b":
		return ColorBlack, true
	}
	return 0, false
}

// PieceType identifies a chess piece kind.
type PieceType int

const (
	PieceNone PieceType = iota
	PiecePawn
	PieceRook
	PieceKnight
	PieceBishop
	PieceQueen
	PieceKing
)

func (t PieceType) String() string {
	switch t {
	case PiecePawn:
		return "Pawn"
	case PieceRook:
		return "Rook"
	case PieceKnight:
		return "Knight"
	case PieceBishop:
		return "Bishop"
	case PieceQueen:
		return "Queen"
	case PieceKing:
		return "King"
	default:
		return "None"
	}
}

// Letter returns the uppercase algebraic letter ('P', 'R', 'N', 'B', 'Q', 'K').
func (t PieceType) Letter() byte {
	switch t {
	case PiecePawn:
		return 'P'
	case PieceRook:
		return 'R'
	case PieceKnight:
		return 'N'
	case PieceBishop:
		return 'B'
	case PieceQueen:
		return 'Q'
	case PieceKing:
		return 'K'
	default:
		return '?'
	}
}

// PieceTypeFromLetter maps an uppercase algebraic letter to a piece type.
func PieceTypeFromLetter(b byte) (PieceType, bool) {
	switch b {
	case 'P':
		return PiecePawn, true
	case 'R':
		return PieceRook, true
	case 'N':
		return PieceKnight, true
	case 'B':
		return PieceBishop, true
	case 'Q':
		return PieceQueen, true
	case 'K':
		return PieceKing, true
	}
	return PieceNone, false
}

// State is the lifecycle state of a game.
type State int

const (
	StateOngoing State = iota
	StateCheckmate
	StateStalemate
	StateKingCaptured
)

func (s State) String() string {
	switch s {
	case StateCheckmate:
		return "checkmate"
	case StateStalemate:
		return "stalemate"
	case StateKingCaptured:
		return "king_captured"
	default:
		return "ongoing"
	}
}

// Terminal reports whether the state ends the game.
func (s State) Terminal() bool {
	return s != StateOngoing
}
