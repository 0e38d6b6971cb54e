// FILE: internal/transport/http/game_handler.go
package http

import (
	"errors"
	"fmt"
	"log"
	"time"

	"llmchess/internal/core"
	"llmchess/internal/game"

	"github.com/gofiber/fiber/v2"
)

// CreateGame creates a new game. The model side moves immediately when the
// human picked Black.
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, ok := c.Locals("validatedBody").(*core.CreateGameRequest)
	if !ok {
		req = &core.CreateGameRequest{}
		if err := c.BodyParser(req); err != nil && len(c.Body()) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
				Error:   "invalid request body",
				Code:    ErrInvalidRequest,
				Details: err.Error(),
			})
		}
	}

	playerColor := core.ColorWhite
	if req.PlayerColor != "" {
		playerColor, _ = core.ColorFromString(req.PlayerColor)
	}

	cfg := h.svc.DefaultPolicy()
	if req.BreakThreshold != nil {
		cfg.BreakThreshold = *req.BreakThreshold
	}
	if req.BreakProbability != nil {
		cfg.BreakProbability = *req.BreakProbability
	}
	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	gameID := h.svc.GenerateGameID()
	if err := h.svc.CreateGame(gameID, playerColor, req.FEN, req.Model, cfg, seed); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "failed to create game",
			Code:    ErrInvalidRequest,
			Details: err.Error(),
		})
	}

	g, _ := h.svc.GetGame(gameID)
	response := h.buildGameResponse(gameID, g)

	// Model opens when it holds White
	if g.Turn() != playerColor && !g.Over() {
		if err := h.executeAITurn(c, gameID, &response); err != nil {
			log.Printf("Warning: failed to execute opening move: %v", err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

// GetGame retrieves current game state. With ?wait=true&moveCount=N the
// request long-polls until the game advances past N or the wait times out.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	g, err := h.svc.GetGame(gameID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "game not found",
			Code:  ErrGameNotFound,
		})
	}

	if c.Query("wait") == "true" {
		moveCount := c.QueryInt("moveCount", g.MoveCount())
		h.svc.WaitForChange(c.UserContext(), gameID, moveCount)
	}

	response := h.buildGameResponse(gameID, g)

	// Catch up a stalled model turn
	if !g.Over() && g.Turn() != g.PlayerColor() {
		if err := h.executeAITurn(c, gameID, &response); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
				Error:   "failed to execute model move",
				Code:    ErrInternalError,
				Details: err.Error(),
			})
		}
	}

	return c.JSON(response)
}

// MakeMove submits a human player move and triggers the model's reply.
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	req, ok := c.Locals("validatedBody").(*core.MoveRequest)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error: "invalid request body",
			Code:  ErrInvalidRequest,
		})
	}

	g, err := h.svc.GetGame(gameID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "game not found",
			Code:  ErrGameNotFound,
		})
	}

	result, err := h.svc.MakeHumanMove(gameID, req.Move)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrGameOver):
			return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
				Error:   "game is over",
				Code:    ErrGameOver,
				Details: fmt.Sprintf("game state: %s", g.State()),
			})
		case errors.Is(err, game.ErrOutOfTurn):
			return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
				Error:   "not your turn",
				Code:    ErrNotPlayerTurn,
				Details: fmt.Sprintf("current turn: %s", g.Turn()),
			})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
				Error:   "invalid move",
				Code:    ErrInvalidMove,
				Details: err.Error(),
			})
		}
	}

	response := h.buildGameResponse(gameID, g)
	response.LastMove = moveInfo(result)

	// Execute model response if the game continues
	if !g.Over() && g.Turn() != g.PlayerColor() {
		if err := h.executeAITurn(c, gameID, &response); err != nil {
			// Model move failed, but human move succeeded
			log.Printf("Warning: model move failed: %v", err)
		}
	}

	return c.JSON(response)
}

// ResetGame restores the starting position while keeping the game ID.
func (h *HTTPHandler) ResetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	if err := h.svc.Reset(gameID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "game not found",
			Code:  ErrGameNotFound,
		})
	}

	g, _ := h.svc.GetGame(gameID)
	response := h.buildGameResponse(gameID, g)

	if !g.Over() && g.Turn() != g.PlayerColor() {
		if err := h.executeAITurn(c, gameID, &response); err != nil {
			log.Printf("Warning: failed to execute opening move: %v", err)
		}
	}

	return c.JSON(response)
}

// DeleteGame ends and cleans up a game
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	if err := h.svc.DeleteGame(gameID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "game not found",
			Code:  ErrGameNotFound,
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetBoard returns FEN plus an ASCII rendering of the board
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	fen, ascii, err := h.svc.BoardASCII(gameID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "game not found",
			Code:  ErrGameNotFound,
		})
	}

	return c.JSON(core.BoardResponse{
		FEN:   fen,
		Board: ascii,
	})
}

// LegalMoves returns destination squares for the piece on ?square=
func (h *HTTPHandler) LegalMoves(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	square := c.Query("square")

	if square == "" {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "missing square parameter",
			Code:    ErrInvalidRequest,
			Details: "use ?square=e2",
		})
	}

	moves, err := h.svc.LegalMoves(gameID, square)
	if err != nil {
		status := fiber.StatusNotFound
		code := ErrGameNotFound
		if _, ok := core.SquareFromName(square); !ok {
			status = fiber.StatusBadRequest
			code = ErrInvalidRequest
		}
		return c.Status(status).JSON(core.ErrorResponse{
			Error: err.Error(),
			Code:  code,
		})
	}

	return c.JSON(core.LegalMovesResponse{
		Square: square,
		Moves:  moves,
	})
}

// Helper: Build standard game response
func (h *HTTPHandler) buildGameResponse(gameID string, g *game.Game) core.GameResponse {
	b := g.Board()
	players, _ := h.svc.Players(gameID)
	return core.GameResponse{
		GameID:      gameID,
		FEN:         g.FEN(),
		Turn:        g.Turn().String(),
		State:       g.State().String(),
		Message:     g.OverMessage(),
		Moves:       g.Moves(),
		PlayerColor: g.PlayerColor().String(),
		Players:     players,
		Check: core.CheckInfo{
			White: b.KingInCheck(core.ColorWhite),
			Black: b.KingInCheck(core.ColorBlack),
		},
	}
}

// Helper: Execute the model's turn and refresh the response
func (h *HTTPHandler) executeAITurn(c *fiber.Ctx, gameID string, response *core.GameResponse) error {
	result, err := h.svc.MakeAITurn(c.UserContext(), gameID)
	if err != nil {
		return err
	}

	// Refresh game state after the model move
	g, err := h.svc.GetGame(gameID)
	if err != nil {
		return err
	}

	*response = h.buildGameResponse(gameID, g)
	if result != nil {
		response.LastMove = moveInfo(result)
	}

	return nil
}

func moveInfo(result *game.MoveResult) *core.MoveInfo {
	if result == nil {
		return nil
	}
	return &core.MoveInfo{
		Move:        result.Move,
		PlayerColor: result.Player.String(),
		Forced:      result.Forced,
		Spawned:     result.Spawned,
	}
}
