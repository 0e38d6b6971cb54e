// FILE: internal/cli/cli.go
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"llmchess/internal/board"
	"llmchess/internal/core"
	"llmchess/internal/game"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdResume
	CmdMove
	CmdReset
	CmdBoard
	CmdLegal
	CmdColor
	CmdVerbose
	CmdHistory
	CmdHelp
	CmdQuit
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

type themeColors struct {
	lightBg string
	darkBg  string
	white   string
	black   string
	reset   string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg: "\033[48;5;230m", // Beige
		darkBg:  "\033[48;5;94m",  // Brown
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGreen: {
		lightBg: "\033[48;5;157m", // Light green
		darkBg:  "\033[48;5;22m",  // Dark green
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGray: {
		lightBg: "\033[48;5;251m", // Light gray
		darkBg:  "\033[48;5;240m", // Dark gray
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
}

// CLI is the line-oriented view for local play.
type CLI struct {
	rl      *readline.Instance
	output  io.Writer
	theme   ColorTheme
	verbose bool
}

// New sets up readline with history. Color defaults to gray on a terminal
// and off when output is redirected.
func New() (*CLI, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     ".llmchess_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize input: %w", err)
	}

	theme := ThemeOff
	if term.IsTerminal(int(os.Stdout.Fd())) {
		theme = ThemeGray
	}

	return &CLI{
		rl:     rl,
		output: os.Stdout,
		theme:  theme,
	}, nil
}

func (c *CLI) Close() error {
	return c.rl.Close()
}

// GetCommand reads and parses one line, blocking until input arrives.
func (c *CLI) GetCommand(prompt string) (*Command, error) {
	c.rl.SetPrompt(prompt)

	line, err := c.rl.Readline()
	if err == io.EOF || err == readline.ErrInterrupt {
		return &Command{Type: CmdQuit}, nil
	}
	if err != nil {
		return nil, err
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return &Command{Type: CmdNone}, nil
	}

	return c.parseCommand(line), nil
}

func (c *CLI) parseCommand(input string) *Command {
	parts := strings.Fields(input)
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "new":
		return &Command{Type: CmdNew, Args: args}
	case "resume":
		return &Command{Type: CmdResume, Args: args, Raw: input}
	case "reset":
		return &Command{Type: CmdReset}
	case "board":
		return &Command{Type: CmdBoard}
	case "legal":
		return &Command{Type: CmdLegal, Args: args}
	case "color":
		return &Command{Type: CmdColor, Args: args}
	case "verbose":
		return &Command{Type: CmdVerbose}
	case "history":
		return &Command{Type: CmdHistory}
	case "help", "?":
		return &Command{Type: CmdHelp}
	case "quit", "exit":
		return &Command{Type: CmdQuit}
	default:
		// Assume it's a move
		return &Command{Type: CmdMove, Args: []string{input}}
	}
}

func (c *CLI) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	c.theme = theme
	return nil
}

func (c *CLI) ToggleVerbose() bool {
	c.verbose = !c.verbose
	return c.verbose
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(fmt.Sprintf("Error: %v", err))
}

// ReadLine reads one raw line outside command parsing, for sub-prompts.
func (c *CLI) ReadLine(prompt string) string {
	c.rl.SetPrompt(prompt)
	line, err := c.rl.Readline()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func (c *CLI) DisplayBoard(b *board.Board) {
	theme := themes[c.theme]
	var sb strings.Builder

	sb.WriteString("\n  a b c d e f g h\n")

	for r := 7; r >= 0; r-- {
		sb.WriteString(fmt.Sprintf("%d ", r+1))
		for f := 0; f < 8; f++ {
			p := b.PieceAt(core.Square{File: f, Rank: r})

			if c.theme == ThemeOff {
				if p == nil {
					sb.WriteString(". ")
				} else {
					sb.WriteString(fmt.Sprintf("%c ", p.Letter()))
				}
			} else {
				bg := theme.darkBg
				if (r+f)%2 == 1 {
					bg = theme.lightBg
				}

				if p == nil {
					sb.WriteString(fmt.Sprintf("%s  %s", bg, theme.reset))
				} else {
					color := theme.black
					if p.Color == core.ColorWhite {
						color = theme.white
					}
					sb.WriteString(fmt.Sprintf("%s%s%c %s", bg, color, p.Letter(), theme.reset))
				}
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", r+1))
	}
	sb.WriteString("  a b c d e f g h\n")

	c.ShowMessage(sb.String())
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  new              - Start a new game with side selection
  resume <FEN>     - Start from a specific board position
  <move>           - Make a move (e.g., e2e4, Nf3, O-O, e7e8=Q)
  reset            - Restore the starting position
  board            - Redraw the board
  legal <square>   - List legal destinations for the piece on a square
  color <theme>    - Set board color theme (off|brown|green|gray)
  verbose          - Toggle detailed move information
  history          - Show game move history
  quit/exit        - Exit the program
  help/?           - Show this help message`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome(model string) {
	c.ShowMessage("Play chess against a language model.")
	c.ShowMessage(fmt.Sprintf("Opponent model: %s", model))
	c.ShowMessage("Commands: new, resume <FEN>, <move>, reset, history, help/?")
	c.ShowMessage("")
}

func (c *CLI) ShowGameHistory(g *game.Game) {
	moves := g.Moves()
	for i := 0; i < len(moves); i += 2 {
		moveNum := i/2 + 1
		white := moves[i]
		if i+1 < len(moves) {
			c.ShowMessage(fmt.Sprintf("%d. %s | %s", moveNum, white, moves[i+1]))
		} else {
			c.ShowMessage(fmt.Sprintf("%d. %s | ...", moveNum, white))
		}
	}
	c.ShowMessage(fmt.Sprintf("Current FEN: %s", g.FEN()))
	c.ShowMessage(fmt.Sprintf("Game state: %s", g.State()))
}

// ShowModelMove prints the opponent's move, tagging the permissive paths.
func (c *CLI) ShowModelMove(result *game.MoveResult) {
	tag := ""
	switch {
	case result.Spawned:
		tag = " (a new piece appears!)"
	case result.Forced:
		tag = " (the rules bend!)"
	}
	c.ShowMessage(fmt.Sprintf("%s plays: %s%s", result.Player.Name(), result.Move, tag))
}

func (c *CLI) ShowHumanMove(move string) {
	if c.verbose {
		c.ShowMessage(fmt.Sprintf("Your move: %s", move))
	}
}

func (c *CLI) ShowGameOver(g *game.Game) {
	c.ShowMessage(fmt.Sprintf("\nGame Over: %s", g.State()))
	if msg := g.OverMessage(); msg != "" {
		c.ShowMessage(msg)
	}
	c.ShowMessage("Start a new game with 'new' or 'resume'.")
}
