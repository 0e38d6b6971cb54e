// FILE: internal/board/fen.go
package board

import (
	"fmt"
	"strings"

	"llmchess/internal/core"
)

const (
	StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
)

// FEN serializes the position. The halfmove clock is not tracked and is
// emitted as 0.
func (b *Board) FEN(fullmove int) string {
	var sb strings.Builder

	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			p := b.squares[f][r]
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.Letter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if r > 0 {
			sb.WriteByte('/')
		}
	}

	castling := b.castlingRights()
	// the target is emitted only while the opposing side can still use it
	ep := "-"
	if b.enPassant != nil && b.enPassant.By != b.turn {
		ep = b.enPassant.Target.Name()
	}
	if fullmove < 1 {
		fullmove = 1
	}

	return fmt.Sprintf("%s %s %s %s 0 %d", sb.String(), b.turn, castling, ep, fullmove)
}

func (b *Board) castlingRights() string {
	var sb strings.Builder
	appendSide := func(c core.Color, rank int, kingside, queenside byte) {
		king := b.PieceAt(core.Square{File: 4, Rank: rank})
		if king == nil || king.Type != core.PieceKing || king.Color != c || king.HasMoved {
			return
		}
		if r := b.PieceAt(core.Square{File: 7, Rank: rank}); r != nil && r.Type == core.PieceRook && r.Color == c && !r.HasMoved {
			sb.WriteByte(kingside)
		}
		if r := b.PieceAt(core.Square{File: 0, Rank: rank}); r != nil && r.Type == core.PieceRook && r.Color == c && !r.HasMoved {
			sb.WriteByte(queenside)
		}
	}
	appendSide(core.ColorWhite, 0, 'K', 'Q')
	appendSide(core.ColorBlack, 7, 'k', 'q')
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

// ParseFEN builds a board from a FEN string. HasMoved flags are
// reconstructed: rooks and kings from the castling-rights field, pawns from
// their home rank, everything else marked moved.
func ParseFEN(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) != 6 {
		return nil, fmt.Errorf("invalid FEN: expected 6 parts, got %d", len(parts))
	}

	b := NewEmpty()

	ranks := strings.Split(parts[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("invalid FEN: expected 8 ranks")
	}

	for i, rankStr := range ranks {
		r := 7 - i
		f := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				f += int(ch - '0')
				continue
			}
			if f >= 8 {
				return nil, fmt.Errorf("invalid FEN: too many pieces in rank %d", r+1)
			}
			p, err := pieceFromFENLetter(byte(ch))
			if err != nil {
				return nil, err
			}
			p.Square = core.Square{File: f, Rank: r}
			if err := b.Place(p); err != nil {
				return nil, fmt.Errorf("invalid FEN: %w", err)
			}
			f++
		}
		if f != 8 {
			return nil, fmt.Errorf("invalid FEN: rank %d has %d files", r+1, f)
		}
	}

	switch parts[1] {
	case "w":
		b.turn = core.ColorWhite
	case "b":
		b.turn = core.ColorBlack
	default:
		return nil, fmt.Errorf("invalid FEN: turn must be 'w' or 'b'")
	}

	b.applyCastlingRights(parts[2])

	if parts[3] != "-" {
		target, ok := core.SquareFromName(parts[3])
		if !ok {
			return nil, fmt.Errorf("invalid FEN: bad en passant square %q", parts[3])
		}
		// the target sits behind the pawn that just double-stepped
		by := core.ColorBlack
		if target.Rank == 2 {
			by = core.ColorWhite
		}
		b.enPassant = &EnPassant{Target: target, By: by}
	}

	var halfmove, fullmove int
	if _, err := fmt.Sscanf(parts[4], "%d", &halfmove); err != nil {
		return nil, fmt.Errorf("invalid FEN: halfmove counter")
	}
	if _, err := fmt.Sscanf(parts[5], "%d", &fullmove); err != nil {
		return nil, fmt.Errorf("invalid FEN: fullmove counter")
	}

	return b, nil
}

func pieceFromFENLetter(ch byte) (*Piece, error) {
	color := core.ColorWhite
	upper := ch
	if ch >= 'a' && ch <= 'z' {
		color = core.ColorBlack
		upper = ch - ('a' - 'A')
	}
	t, ok := core.PieceTypeFromLetter(upper)
	if !ok {
		return nil, fmt.Errorf("invalid FEN: unknown piece %q", ch)
	}
	p := &Piece{Type: t, Color: color, HasMoved: true}
	return p, nil
}

// applyCastlingRights clears HasMoved on the pieces the rights field still
// covers, and on pawns sitting on their home rank.
func (b *Board) applyCastlingRights(rights string) {
	clear := func(sq core.Square, t core.PieceType, c core.Color) {
		if p := b.PieceAt(sq); p != nil && p.Type == t && p.Color == c {
			p.HasMoved = false
		}
	}
	for _, ch := range rights {
		switch ch {
		case 'K':
			clear(core.Square{File: 4, Rank: 0}, core.PieceKing, core.ColorWhite)
			clear(core.Square{File: 7, Rank: 0}, core.PieceRook, core.ColorWhite)
		case 'Q':
			clear(core.Square{File: 4, Rank: 0}, core.PieceKing, core.ColorWhite)
			clear(core.Square{File: 0, Rank: 0}, core.PieceRook, core.ColorWhite)
		case 'k':
			clear(core.Square{File: 4, Rank: 7}, core.PieceKing, core.ColorBlack)
			clear(core.Square{File: 7, Rank: 7}, core.PieceRook, core.ColorBlack)
		case 'q':
			clear(core.Square{File: 4, Rank: 7}, core.PieceKing, core.ColorBlack)
			clear(core.Square{File: 0, Rank: 7}, core.PieceRook, core.ColorBlack)
		}
	}
	for f := 0; f < 8; f++ {
		clear(core.Square{File: f, Rank: 1}, core.PiecePawn, core.ColorWhite)
		clear(core.Square{File: f, Rank: 6}, core.PiecePawn, core.ColorBlack)
	}
}
