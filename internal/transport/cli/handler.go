// FILE: internal/transport/cli/handler.go
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"llmchess/internal/cli"
	"llmchess/internal/core"
	"llmchess/internal/service"
)

// CLIHandler drives local play against the in-process service.
type CLIHandler struct {
	svc    *service.Service
	view   *cli.CLI
	model  string
	gameID string
}

func New(svc *service.Service, view *cli.CLI, model string) *CLIHandler {
	return &CLIHandler{
		svc:   svc,
		view:  view,
		model: model,
	}
}

// Run is the main game loop.
func (h *CLIHandler) Run() {
	h.view.ShowWelcome(h.model)

	for {
		cmd, err := h.view.GetCommand(h.getPrompt())
		if err != nil {
			break
		}

		if !h.ProcessCommand(cmd) {
			break
		}
	}
}

// getPrompt reflects whose turn it is in the active game.
func (h *CLIHandler) getPrompt() string {
	if h.gameID == "" {
		return "> "
	}
	g, err := h.svc.GetGame(h.gameID)
	if err != nil || g.Over() {
		return "> "
	}
	return fmt.Sprintf("[%s]> ", g.Turn())
}

// ProcessCommand handles one command, returning false to exit.
func (h *CLIHandler) ProcessCommand(cmd *cli.Command) bool {
	switch cmd.Type {
	case cli.CmdQuit:
		return false

	case cli.CmdNone:
		return true

	case cli.CmdNew:
		return h.handleNewGame("")

	case cli.CmdResume:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: resume <FEN string>")
			return true
		}
		return h.handleNewGame(strings.Join(cmd.Args, " "))

	case cli.CmdMove:
		h.handleMove(cmd.Args[0])

	case cli.CmdReset:
		if h.gameID == "" {
			h.view.ShowMessage("No active game.")
			return true
		}
		if err := h.svc.Reset(h.gameID); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage("Game reset.")
		h.showBoard()
		h.maybeModelMove()

	case cli.CmdBoard:
		if h.gameID == "" {
			h.view.ShowMessage("No active game.")
			return true
		}
		h.showBoard()

	case cli.CmdLegal:
		if h.gameID == "" {
			h.view.ShowMessage("No active game.")
			return true
		}
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: legal <square>")
			return true
		}
		moves, err := h.svc.LegalMoves(h.gameID, cmd.Args[0])
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		if len(moves) == 0 {
			h.view.ShowMessage("No legal moves from " + cmd.Args[0])
		} else {
			h.view.ShowMessage(strings.Join(moves, " "))
		}

	case cli.CmdColor:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: color <off|brown|green|gray>")
			return true
		}
		theme := cli.ColorTheme(cmd.Args[0])
		if err := h.view.SetTheme(theme); err != nil {
			h.view.ShowError(err)
		} else {
			h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", theme))
			if h.gameID != "" {
				h.showBoard()
			}
		}

	case cli.CmdVerbose:
		verbose := h.view.ToggleVerbose()
		h.view.ShowMessage(fmt.Sprintf("Verbose mode: %t", verbose))

	case cli.CmdHistory:
		if h.gameID == "" {
			h.view.ShowMessage("No active game.")
			return true
		}
		g, _ := h.svc.GetGame(h.gameID)
		h.view.ShowGameHistory(g)

	case cli.CmdHelp:
		h.view.ShowHelp()
	}

	return true
}

func (h *CLIHandler) handleMove(move string) {
	if h.gameID == "" {
		h.view.ShowMessage("No active game. Use 'new' or 'resume <FEN>'.")
		return
	}

	result, err := h.svc.MakeHumanMove(h.gameID, move)
	if err != nil {
		h.view.ShowError(fmt.Errorf("invalid move: %v", err))
		return
	}
	h.view.ShowHumanMove(result.Move)
	h.showBoard()

	g, _ := h.svc.GetGame(h.gameID)
	if g.Over() {
		h.view.ShowGameOver(g)
		h.gameID = ""
		return
	}

	h.maybeModelMove()
}

// maybeModelMove runs the opponent's turn when the game is waiting on it.
func (h *CLIHandler) maybeModelMove() {
	g, err := h.svc.GetGame(h.gameID)
	if err != nil || g.Over() || g.Turn() == g.PlayerColor() {
		return
	}

	h.view.ShowMessage("Thinking...")
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := h.svc.MakeAITurn(ctx, h.gameID)
	if err != nil {
		h.view.ShowError(fmt.Errorf("opponent error: %v", err))
		return
	}
	if result != nil {
		h.view.ShowModelMove(result)
	}
	h.showBoard()

	if g.Over() {
		h.view.ShowGameOver(g)
		h.gameID = ""
	}
}

// handleNewGame starts a game with side selection.
func (h *CLIHandler) handleNewGame(fen string) bool {
	side := h.view.ReadLine("Play as (w/b): ")
	playerColor := core.ColorWhite
	if side == "b" || side == "black" {
		playerColor = core.ColorBlack
	}

	gameID := h.svc.GenerateGameID()
	cfg := h.svc.DefaultPolicy()
	if err := h.svc.CreateGame(gameID, playerColor, fen, h.model, cfg, time.Now().UnixNano()); err != nil {
		h.view.ShowError(fmt.Errorf("could not start the game: %v", err))
		return true
	}
	h.gameID = gameID

	h.view.ShowMessage("Game started.")
	h.showBoard()
	h.maybeModelMove()

	return true
}

func (h *CLIHandler) showBoard() {
	g, err := h.svc.GetGame(h.gameID)
	if err != nil {
		return
	}
	h.view.DisplayBoard(g.Board())
}
