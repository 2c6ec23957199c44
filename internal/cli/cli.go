// Package cli provides the interactive command line for Notation.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"notation/local-app/internal/data"
	"notation/local-app/internal/log"
	"notation/local-app/internal/model"
	"notation/local-app/internal/ui"
)

// CLI reads commands of the form <scope> <operation> [arguments] and runs
// them against the data manager.
type CLI struct {
	Data   *data.Manager
	UI     *ui.UI
	PageUI *ui.PageUI
	Logger *log.Logger

	// current is the selected page, used as the default parent and shown
	// in the prompt.
	current      *model.ID
	currentTitle string
}

// NewCLI creates a CLI writing to out.
func NewCLI(d *data.Manager, logger *log.Logger, out io.Writer, useColor bool) *CLI {
	return &CLI{
		Data:   d,
		UI:     ui.NewUI(out, useColor),
		PageUI: ui.NewPageUI(out, useColor),
		Logger: logger,
	}
}

// Completer returns tab completion for the command grammar.
func Completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("page",
			readline.PcItem("list"),
			readline.PcItem("view"),
			readline.PcItem("select"),
			readline.PcItem("add"),
			readline.PcItem("export"),
			readline.PcItem("import"),
		),
		readline.PcItem("text", readline.PcItem("add")),
		readline.PcItem("help",
			readline.PcItem("page"),
			readline.PcItem("text"),
			readline.PcItem("system"),
		),
		readline.PcItem("exit"),
		readline.PcItem("quit"),
	)
}

// Run reads and executes commands until the user exits or input ends.
func (c *CLI) Run(ctx context.Context, rl *readline.Instance) error {
	for {
		rl.SetPrompt(c.UI.GetPromptString(c.currentTitle))
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return fmt.Errorf("failed to read command: %w", err)
		}

		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		c.Logger.Command(ctx, line)

		if err := c.ExecuteCommand(ctx, c.ParseArgs(line)); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			c.UI.Error(describeError(err))
		}
	}
}

// ParseArgs splits input on spaces, keeping double-quoted text together.
func (c *CLI) ParseArgs(input string) []string {
	var args []string
	var currentArg strings.Builder
	inQuotes := false
	quoted := false

	for _, char := range input {
		switch char {
		case '"':
			inQuotes = !inQuotes
			quoted = true
		case ' ', '\t':
			if !inQuotes {
				if currentArg.Len() > 0 || quoted {
					args = append(args, currentArg.String())
					currentArg.Reset()
					quoted = false
				}
			} else {
				currentArg.WriteRune(char)
			}
		default:
			currentArg.WriteRune(char)
		}
	}

	if currentArg.Len() > 0 || quoted {
		args = append(args, currentArg.String())
	}

	return args
}

// ExecuteCommand routes a parsed command to its scope.
func (c *CLI) ExecuteCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command provided")
	}

	switch args[0] {
	case "page":
		return c.ExecutePageCommand(ctx, args[1:])
	case "text":
		return c.ExecuteTextCommand(ctx, args[1:])
	case "system":
		return c.ExecuteSystemCommand(args[1:])
	case "help":
		return c.HandleHelp(args[1:])
	case "exit", "quit":
		return c.SystemExit()
	default:
		return fmt.Errorf("unknown command: %s. Type 'help' for a list of commands", args[0])
	}
}

// describeError turns classified errors into short messages.
func describeError(err error) string {
	var e *model.Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	switch e.Kind {
	case model.NotFound, model.RootMissing:
		return fmt.Sprintf("page %s not found", e.ID)
	case model.RootNotAPage:
		return fmt.Sprintf("block %s is not a page", e.ID)
	case model.StoreUnavailable:
		return "the database is unavailable: " + err.Error()
	default:
		return err.Error()
	}
}
