// FILE: internal/notation/notation.go
package notation

import (
	"strings"

	"llmchess/internal/board"
	"llmchess/internal/core"
)

// Resolved is a candidate move extracted from free-form text and bound to
// board state. Exactly one of the following shapes holds:
//   - Piece != nil, Synthesized == false: a piece on the board moves to To.
//   - Piece != nil, Synthesized == true: the piece does not exist yet; it was
//     manufactured at an empty source square (rule-breaking path only).
//   - SpawnType != PieceNone: no piece could be resolved at all; the text is
//     treated as a request to spawn that type at To.
type Resolved struct {
	Piece       *board.Piece
	To          core.Square
	Promotion   core.PieceType
	Castle      bool
	SpawnType   core.PieceType
	Synthesized bool
}

// Interpret parses opponent-submitted text into a candidate move and binds
// it to the board. Parse strategies are attempted in order: castling marker,
// coordinate pair, piece letter + destination. It never panics past this
// boundary; failures are typed sentinel errors.
func Interpret(text string, mover core.Color, b *board.Board) (*Resolved, error) {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return nil, ErrUnparseable
	}

	if res, ok, err := parseCastling(clean, mover, b); ok {
		return res, err
	}

	tokens := moveTokens(clean)

	for _, tok := range tokens {
		if res, ok := parseCoordinatePair(tok, mover, b); ok {
			return res, nil
		}
	}
	for _, tok := range tokens {
		if res, ok := parsePieceDestination(tok, mover, b); ok {
			return res, nil
		}
	}

	return nil, ErrUnparseable
}

// parseCastling resolves a castling marker anywhere in the text. The long
// marker is checked first so "O-O-O" is not mistaken for "O-O".
func parseCastling(text string, mover core.Color, b *board.Board) (*Resolved, bool, error) {
	upper := strings.ToUpper(text)
	upper = strings.ReplaceAll(upper, "0", "O")

	var destFile int
	switch {
	case strings.Contains(upper, "O-O-O"):
		destFile = 2
	case strings.Contains(upper, "O-O"):
		destFile = 6
	default:
		return nil, false, nil
	}

	king := b.King(mover)
	if king == nil {
		return nil, true, ErrMissingPiece
	}
	return &Resolved{
		Piece:  king,
		To:     core.Square{File: destFile, Rank: king.Square.Rank},
		Castle: true,
	}, true, nil
}

// moveTokens splits free-form response text into candidate move tokens,
// keeping promotion markers attached.
func moveTokens(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return false
		case r == '=':
			return false
		default:
			return true
		}
	})
	var out []string
	for _, f := range fields {
		f = strings.TrimRight(f, "=")
		if len(f) >= 2 && len(f) <= 7 {
			out = append(out, f)
		}
	}
	return out
}

// parseCoordinatePair handles from-to tokens ("e2e4", "e7e8=Q"). An empty
// source square synthesizes a pawn there; the result is flagged so only the
// rule-breaking path may accept it.
func parseCoordinatePair(tok string, mover core.Color, b *board.Board) (*Resolved, bool) {
	if len(tok) < 4 {
		return nil, false
	}
	from, ok := core.SquareFromName(tok[0:2])
	if !ok {
		return nil, false
	}
	to, ok := core.SquareFromName(tok[2:4])
	if !ok {
		return nil, false
	}
	promotion := parsePromotionSuffix(tok[4:])

	res := &Resolved{To: to, Promotion: promotion}
	if p := b.PieceAt(from); p != nil {
		// ownership is checked in Validate; bind the occupant as-is
		res.Piece = p
	} else {
		res.Piece = &board.Piece{
			Type:     core.PiecePawn,
			Color:    mover,
			Square:   from,
			HasMoved: true,
		}
		res.Synthesized = true
	}
	return res, true
}

// parsePieceDestination handles piece-letter + destination tokens ("Nf3",
// "exd5", "e4", "e8=Q"). A missing piece of the named type falls back to any
// piece of the mover's color, then to a spawn request.
func parsePieceDestination(tok string, mover core.Color, b *board.Board) (*Resolved, bool) {
	if len(tok) < 2 || len(tok) > 5 {
		return nil, false
	}

	body := tok
	promotion := core.PieceNone
	if i := strings.IndexByte(body, '='); i >= 0 {
		promotion = parsePromotionSuffix(body[i:])
		body = body[:i]
	}
	body = strings.TrimRight(body, "+#")
	body = strings.ReplaceAll(body, "x", "")
	if len(body) < 2 {
		return nil, false
	}

	to, ok := core.SquareFromName(body[len(body)-2:])
	if !ok {
		return nil, false
	}

	pieceType := core.PiecePawn
	fileHint := -1
	switch len(body) {
	case 2:
		// bare destination: pawn move
	case 3:
		lead := body[0]
		if t, ok := core.PieceTypeFromLetter(lead); ok && lead != 'P' {
			pieceType = t
		} else if lead >= 'a' && lead <= 'h' {
			fileHint = int(lead - 'a')
		} else {
			return nil, false
		}
	default:
		return nil, false
	}

	res := &Resolved{To: to, Promotion: promotion}
	if p := resolvePiece(b, mover, pieceType, fileHint, to); p != nil {
		res.Piece = p
		return res, true
	}
	if p := anyPiece(b, mover, to); p != nil {
		res.Piece = p
		return res, true
	}
	res.SpawnType = pieceType
	return res, true
}

// resolvePiece picks the best-matching piece of a type: first one that can
// legally reach the destination, then one whose raw move set reaches it,
// then any piece of the type.
func resolvePiece(b *board.Board, mover core.Color, t core.PieceType, fileHint int, to core.Square) *board.Piece {
	var typed []*board.Piece
	for _, p := range b.Pieces(mover) {
		if p.Type != t {
			continue
		}
		if fileHint >= 0 && p.Square.File != fileHint {
			continue
		}
		typed = append(typed, p)
	}
	if len(typed) == 0 {
		return nil
	}
	for _, p := range typed {
		if containsSquare(b.LegalMoves(p), to) {
			return p
		}
	}
	for _, p := range typed {
		if containsSquare(b.PseudoMoves(p), to) {
			return p
		}
	}
	return typed[0]
}

// anyPiece is the loose fallback when no piece of the parsed type exists.
func anyPiece(b *board.Board, mover core.Color, to core.Square) *board.Piece {
	pieces := b.Pieces(mover)
	if len(pieces) == 0 {
		return nil
	}
	for _, p := range pieces {
		if containsSquare(b.LegalMoves(p), to) {
			return p
		}
	}
	return pieces[0]
}

func parsePromotionSuffix(s string) core.PieceType {
	s = strings.TrimPrefix(s, "=")
	if len(s) == 0 {
		return core.PieceNone
	}
	lead := s[0]
	if lead >= 'a' && lead <= 'z' {
		lead -= 'a' - 'A'
	}
	if t, ok := core.PieceTypeFromLetter(lead); ok && t != core.PiecePawn && t != core.PieceKing {
		return t
	}
	return core.PieceNone
}

func containsSquare(squares []core.Square, sq core.Square) bool {
	for _, s := range squares {
		if s == sq {
			return true
		}
	}
	return false
}
