// FILE: internal/core/square.go
package core

// Square is a board coordinate. File 0 is the a-file, rank 0 is White's
// home rank.
type Square struct {
	File int
	Rank int
}

// Valid reports whether both components are in [0,8).
func (s Square) Valid() bool {
	return s.File >= 0 && s.File < 8 && s.Rank >= 0 && s.Rank < 8
}

// Name returns the algebraic name ("e4"). Invalid squares return "-".
func (s Square) Name() string {
	if !s.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + s.File), byte('1' + s.Rank)})
}

// SquareFromName parses an algebraic square name ("e4").
func SquareFromName(name string) (Square, bool) {
	if len(name) != 2 {
		return Square{}, false
	}
	f := name[0]
	r := name[1]
	if f >= 'A' && f <= 'H' {
		f += 'a' - 'A'
	}
	if f < 'a' || f > 'h' || r < '1' || r > '8' {
		return Square{}, false
	}
	return Square{File: int(f - 'a'), Rank: int(r - '1')}, true
}
