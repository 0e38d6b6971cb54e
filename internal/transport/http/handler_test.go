// FILE: internal/transport/http/handler_test.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"llmchess/internal/ai"
	"llmchess/internal/core"
	"llmchess/internal/service"

	"github.com/gofiber/fiber/v2"
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

func newTestApp(replies ...string) *fiber.App {
	svc := service.New(nil, &scriptedCompleter{replies: replies}, ai.DefaultConfig())
	return NewFiberApp(svc, true)
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	return resp, data
}

func createGame(t *testing.T, app *fiber.App) core.GameResponse {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/api/v1/games", core.CreateGameRequest{PlayerColor: "w"})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create status = %d, body %s", resp.StatusCode, body)
	}
	var game core.GameResponse
	if err := json.Unmarshal(body, &game); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return game
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp()

	resp, body := doJSON(t, app, "GET", "/health", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var health map[string]any
	if err := json.Unmarshal(body, &health); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if health["status"] != "healthy" || health["storage"] != "disabled" {
		t.Fatalf("health = %v", health)
	}
}

func TestCreateGameDefaults(t *testing.T) {
	app := newTestApp()
	game := createGame(t, app)

	if game.GameID == "" {
		t.Fatal("missing gameId")
	}
	if game.PlayerColor != "w" || game.Turn != "w" {
		t.Fatalf("colors = %s/%s, want w/w", game.PlayerColor, game.Turn)
	}
	if game.State != "ongoing" {
		t.Fatalf("state = %s", game.State)
	}
	if game.Players.White == nil || game.Players.Black == nil {
		t.Fatalf("players = %+v", game.Players)
	}
	if game.Players.White.Type != core.PlayerHuman {
		t.Fatalf("white = %+v, want the human side", game.Players.White)
	}
	if game.Players.Black.Type != core.PlayerModel {
		t.Fatalf("black = %+v, want the model side", game.Players.Black)
	}
}

func TestCreateGameRejectsBadColor(t *testing.T) {
	app := newTestApp()

	resp, _ := doJSON(t, app, "POST", "/api/v1/games", map[string]string{"playerColor": "purple"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCreateGameModelOpensAsWhite(t *testing.T) {
	// when the human takes black, the model's opening move is part of
	// the create response
	app := newTestApp("e2e4")

	resp, body := doJSON(t, app, "POST", "/api/v1/games", core.CreateGameRequest{PlayerColor: "b"})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	var game core.GameResponse
	if err := json.Unmarshal(body, &game); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(game.Moves) != 1 || game.Moves[0] != "e2e4" {
		t.Fatalf("moves = %v, want the model's opening", game.Moves)
	}
	if game.Turn != "b" {
		t.Fatalf("turn = %s, want b", game.Turn)
	}
	if game.LastMove == nil || game.LastMove.Move != "e2e4" {
		t.Fatalf("lastMove = %+v", game.LastMove)
	}
}

func TestMakeMoveRoundTrip(t *testing.T) {
	app := newTestApp("e7e5")
	game := createGame(t, app)

	resp, body := doJSON(t, app, "POST", "/api/v1/games/"+game.GameID+"/moves", core.MoveRequest{Move: "e2e4"})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	var after core.GameResponse
	if err := json.Unmarshal(body, &after); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(after.Moves) != 2 {
		t.Fatalf("moves = %v, want the human move and the reply", after.Moves)
	}
	if after.LastMove == nil || after.LastMove.Move != "e7e5" || after.LastMove.PlayerColor != "b" {
		t.Fatalf("lastMove = %+v", after.LastMove)
	}
	if after.Turn != "w" {
		t.Fatalf("turn = %s, want w", after.Turn)
	}
}

func TestMakeMoveIllegal(t *testing.T) {
	app := newTestApp()
	game := createGame(t, app)

	resp, body := doJSON(t, app, "POST", "/api/v1/games/"+game.GameID+"/moves", core.MoveRequest{Move: "e2e5"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var errResp core.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if errResp.Code != ErrInvalidMove {
		t.Fatalf("code = %s, want %s", errResp.Code, ErrInvalidMove)
	}
}

func TestMakeMoveMissingBody(t *testing.T) {
	app := newTestApp()
	game := createGame(t, app)

	resp, _ := doJSON(t, app, "POST", "/api/v1/games/"+game.GameID+"/moves", map[string]string{})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetGameNotFound(t *testing.T) {
	app := newTestApp()

	resp, body := doJSON(t, app, "GET", "/api/v1/games/no-such-game", nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var errResp core.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if errResp.Code != ErrGameNotFound {
		t.Fatalf("code = %s", errResp.Code)
	}
}

func TestGetBoard(t *testing.T) {
	app := newTestApp()
	game := createGame(t, app)

	resp, body := doJSON(t, app, "GET", "/api/v1/games/"+game.GameID+"/board", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var boardResp core.BoardResponse
	if err := json.Unmarshal(body, &boardResp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if boardResp.FEN == "" || boardResp.Board == "" {
		t.Fatalf("board response = %+v", boardResp)
	}
}

func TestLegalMovesEndpoint(t *testing.T) {
	app := newTestApp()
	game := createGame(t, app)

	resp, body := doJSON(t, app, "GET", "/api/v1/games/"+game.GameID+"/legal-moves?square=e2", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var moves core.LegalMovesResponse
	if err := json.Unmarshal(body, &moves); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if moves.Square != "e2" || len(moves.Moves) != 2 {
		t.Fatalf("legal moves = %+v", moves)
	}

	resp, _ = doJSON(t, app, "GET", "/api/v1/games/"+game.GameID+"/legal-moves", nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("missing square param: status = %d", resp.StatusCode)
	}
}

func TestResetGame(t *testing.T) {
	app := newTestApp("e7e5")
	game := createGame(t, app)

	if resp, _ := doJSON(t, app, "POST", "/api/v1/games/"+game.GameID+"/moves", core.MoveRequest{Move: "e2e4"}); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("move status = %d", resp.StatusCode)
	}

	resp, body := doJSON(t, app, "POST", "/api/v1/games/"+game.GameID+"/reset", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("reset status = %d, body %s", resp.StatusCode, body)
	}
	var after core.GameResponse
	if err := json.Unmarshal(body, &after); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(after.Moves) != 0 || after.Turn != "w" {
		t.Fatalf("after reset = %+v", after)
	}
}

func TestDeleteGame(t *testing.T) {
	app := newTestApp()
	game := createGame(t, app)

	resp, _ := doJSON(t, app, "DELETE", "/api/v1/games/"+game.GameID, nil)
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, "GET", "/api/v1/games/"+game.GameID, nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status after delete = %d", resp.StatusCode)
	}
}

func TestContentTypeEnforced(t *testing.T) {
	app := newTestApp()

	req, err := http.NewRequest("POST", "/api/v1/games", bytes.NewReader([]byte(`{}`)))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", resp.StatusCode)
	}
}
