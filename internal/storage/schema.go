// FILE: internal/storage/schema.go
package storage

import "time"

// GameRecord represents a row in the games table
type GameRecord struct {
	GameID           string    `db:"game_id"`
	InitialFEN       string    `db:"initial_fen"`
	PlayerColor      string    `db:"player_color"` // human side, "w" or "b"
	Model            string    `db:"model"`
	BreakThreshold   int       `db:"break_threshold"`
	BreakProbability float64   `db:"break_probability"`
	Seed             int64     `db:"seed"`
	StartTimeUTC     time.Time `db:"start_time_utc"`
}

// MoveRecord represents a row in the moves table
type MoveRecord struct {
	MoveID       int64     `db:"move_id"`
	GameID       string    `db:"game_id"`
	MoveNumber   int       `db:"move_number"`
	Notation     string    `db:"notation"`
	FENAfterMove string    `db:"fen_after_move"`
	PlayerColor  string    `db:"player_color"` // "w" or "b"
	Forced       bool      `db:"forced"`       // applied outside standard legality
	Spawned      bool      `db:"spawned"`      // piece materialized rather than moved
	MoveTimeUTC  time.Time `db:"move_time_utc"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	initial_fen TEXT NOT NULL,
	player_color TEXT NOT NULL CHECK(player_color IN ('w', 'b')),
	model TEXT NOT NULL DEFAULT '',
	break_threshold INTEGER NOT NULL DEFAULT 6,
	break_probability REAL NOT NULL DEFAULT 0.2,
	seed INTEGER NOT NULL DEFAULT 0,
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	notation TEXT NOT NULL,
	fen_after_move TEXT NOT NULL,
	player_color TEXT NOT NULL CHECK(player_color IN ('w', 'b')),
	forced INTEGER NOT NULL DEFAULT 0,
	spawned INTEGER NOT NULL DEFAULT 0,
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
CREATE INDEX IF NOT EXISTS idx_games_start_time ON games(start_time_utc);
`
