package cli

import (
	"context"
	"fmt"
	"time"

	"notation/local-app/internal/model"
)

// ExecuteTextCommand routes the text command to the appropriate handler
func (c *CLI) ExecuteTextCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: text add <parent|.> <text> [--done] [--start <time>] [--end <time>]")
	}

	switch args[0] {
	case "add":
		return c.TextAdd(ctx, args[1:])
	default:
		return fmt.Errorf("unknown text operation: %s", args[0])
	}
}

// TextAdd adds a text block under a page or another text block.
func (c *CLI) TextAdd(ctx context.Context, args []string) error {
	var positional []string
	info := model.BlockInfo{Kind: model.KindText}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--done":
			info.Done = true
		case "--start", "--end":
			if i+1 >= len(args) {
				return fmt.Errorf("%s needs a time", args[i])
			}
			t, err := parseTime(args[i+1])
			if err != nil {
				return err
			}
			if args[i] == "--start" {
				info.Start = &t
			} else {
				info.End = &t
			}
			i++
		default:
			positional = append(positional, args[i])
		}
	}
	if len(positional) != 2 {
		return fmt.Errorf("usage: text add <parent|.> <text> [--done] [--start <time>] [--end <time>]")
	}

	parent, err := c.resolvePage(positional[0])
	if err != nil {
		return err
	}
	info.ParentID = &parent
	info.Props = model.TextProps{Text: positional[1]}

	id, err := c.Data.BlockAdd(ctx, info)
	if err != nil {
		return err
	}
	c.UI.Success(fmt.Sprintf("Added text %s", id))
	return nil
}

var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q, expected YYYY-MM-DD or YYYY-MM-DDTHH:MM", s)
}
