package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"notation/local-app/internal/cli"
	"notation/local-app/internal/config"
	"notation/local-app/internal/log"
	"notation/local-app/internal/model"
	"notation/local-app/internal/ui"
)

var (
	showIDs    bool
	showDigest bool

	textDone  bool
	textStart string
	textEnd   string

	logFilter string
	logFollow bool
	logPoll   time.Duration
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive shell (default)",
	Args:  cobra.NoArgs,
	RunE:  runREPL,
}

func runREPL(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          a.cli.UI.GetPromptString(""),
			HistoryFile:     a.cfg.HistoryFile,
			AutoComplete:    cli.Completer(),
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			return fmt.Errorf("failed to initialize readline: %w", err)
		}
		defer rl.Close()

		a.cli.UI.Info("Type 'help' for a list of commands.")
		return a.cli.Run(ctx, rl)
	})
}

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "List all pages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			return a.cli.PageList(ctx, showIDs)
		})
	},
}

var pageCmd = &cobra.Command{
	Use:   "page <id>",
	Short: "Show a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			if !showDigest {
				viewArgs := append([]string{}, args...)
				if showIDs {
					viewArgs = append(viewArgs, "--id")
				}
				return a.cli.PageView(ctx, viewArgs)
			}

			id, err := model.ParseID(args[0])
			if err != nil {
				return err
			}
			page, err := a.cli.Data.PageGet(ctx, id)
			if err != nil {
				return err
			}
			digest, err := model.Digest(page)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), digest)
			return nil
		})
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a page or a text block",
}

var addPageCmd = &cobra.Command{
	Use:   "page <title> [parent]",
	Short: "Add a page",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			return a.cli.PageAdd(ctx, args)
		})
	},
}

var addTextCmd = &cobra.Command{
	Use:   "text <parent> <text>",
	Short: "Add a text block",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		textArgs := append([]string{}, args...)
		if textDone {
			textArgs = append(textArgs, "--done")
		}
		if textStart != "" {
			textArgs = append(textArgs, "--start", textStart)
		}
		if textEnd != "" {
			textArgs = append(textArgs, "--end", textEnd)
		}
		return withApp(func(ctx context.Context, a *app) error {
			return a.cli.TextAdd(ctx, textArgs)
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <id> <filename> [json|xml]",
	Short: "Export a page tree to a file",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			return a.cli.PageExport(ctx, args)
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <filename> [json|xml] [parent]",
	Short: "Import a page tree from a file",
	Args:  cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			return a.cli.PageImport(ctx, args)
		})
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the application logs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.SetPath(configPath)
		if err := config.ConfigLoad(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg := config.ConfigGet()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		return log.NewViewer(cfg.LogFolder, out, log.ViewerOptions{
			Filter: logFilter,
			Follow: logFollow,
			Color:  ui.ColorEnabled(out, cfg.Color),
			Poll:   logPoll,
		}).Run(ctx)
	},
}

func init() {
	pagesCmd.Flags().BoolVar(&showIDs, "id", false, "Show block ids")
	pageCmd.Flags().BoolVar(&showIDs, "id", false, "Show block ids")
	pageCmd.Flags().BoolVar(&showDigest, "digest", false, "Print the BLAKE2b digest of the page tree instead of the tree")
	addTextCmd.Flags().BoolVar(&textDone, "done", false, "Mark the block as done")
	addTextCmd.Flags().StringVar(&textStart, "start", "", "Start time, YYYY-MM-DD or YYYY-MM-DDTHH:MM")
	addTextCmd.Flags().StringVar(&textEnd, "end", "", "End time, YYYY-MM-DD or YYYY-MM-DDTHH:MM")
	addCmd.AddCommand(addPageCmd, addTextCmd)
	logsCmd.Flags().StringVar(&logFilter, "filter", "", "Only show entries containing this text")
	logsCmd.Flags().BoolVarP(&logFollow, "follow", "f", false, "Keep printing new entries until interrupted")
	logsCmd.Flags().DurationVar(&logPoll, "poll", time.Second, "Polling interval when following")
}
