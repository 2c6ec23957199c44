package cli

import (
	"context"
	"fmt"

	"notation/local-app/internal/model"
	"notation/local-app/internal/storage"
)

// ExecutePageCommand routes the page command to the appropriate handler
func (c *CLI) ExecutePageCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return c.PageList(ctx, false)
	}

	switch args[0] {
	case "list":
		return c.PageList(ctx, hasFlag(args[1:], "--id"))
	case "view":
		return c.PageView(ctx, args[1:])
	case "select":
		return c.PageSelect(ctx, args[1:])
	case "add":
		return c.PageAdd(ctx, args[1:])
	case "export":
		return c.PageExport(ctx, args[1:])
	case "import":
		return c.PageImport(ctx, args[1:])
	default:
		return fmt.Errorf("unknown page operation: %s", args[0])
	}
}

// PageList prints the navigation forest.
func (c *CLI) PageList(ctx context.Context, showID bool) error {
	forest, err := c.Data.PageList(ctx)
	if err != nil {
		return err
	}
	c.PageUI.PageList(forest, showID)
	return nil
}

// PageView prints a page. Without an id it prints the selected page.
func (c *CLI) PageView(ctx context.Context, args []string) error {
	id, err := c.resolvePage(firstArg(args))
	if err != nil {
		return err
	}
	page, err := c.Data.PageGet(ctx, id)
	if err != nil {
		return err
	}
	c.PageUI.PageView(page, hasFlag(args, "--id"))
	return nil
}

// PageSelect makes a page the default parent for new blocks.
func (c *CLI) PageSelect(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: page select <id>")
	}
	if args[0] == "/" {
		c.current, c.currentTitle = nil, ""
		return nil
	}
	id, err := model.ParseID(args[0])
	if err != nil {
		return err
	}
	page, err := c.Data.PageGet(ctx, id)
	if err != nil {
		return err
	}
	c.current, c.currentTitle = &page.ID, page.Props.Title
	c.UI.Success(fmt.Sprintf("Selected page %s", page.Props.Title))
	return nil
}

// PageAdd adds a page under the given parent, the selected page, or at the top level.
func (c *CLI) PageAdd(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: page add <title> [parent]")
	}
	parent, err := c.resolveParent(args[1:])
	if err != nil {
		return err
	}

	id, err := c.Data.BlockAdd(ctx, model.BlockInfo{
		Kind:     model.KindPage,
		ParentID: parent,
		Props:    model.PageProps{Title: args[0]},
	})
	if err != nil {
		return err
	}
	c.UI.Success(fmt.Sprintf("Added page %s", id))
	return nil
}

// PageExport writes a page tree to a file.
func (c *CLI) PageExport(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("usage: page export <id|.> <filename> [json|xml]")
	}
	id, err := c.resolvePage(args[0])
	if err != nil {
		return err
	}
	format, err := storage.ParseFileFormat(firstArg(args[2:]))
	if err != nil {
		return err
	}
	if err := c.Data.PageExport(ctx, id, args[1], format); err != nil {
		return err
	}
	c.UI.Success(fmt.Sprintf("Exported page to %s", args[1]))
	return nil
}

// PageImport reads a page tree from a file.
func (c *CLI) PageImport(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 3 {
		return fmt.Errorf("usage: page import <filename> [json|xml] [parent]")
	}
	format, err := storage.ParseFileFormat(firstArg(args[1:]))
	if err != nil {
		return err
	}
	var parent *model.ID
	if len(args) == 3 {
		if parent, err = c.resolveParent(args[2:]); err != nil {
			return err
		}
	}
	id, err := c.Data.PageImport(ctx, args[0], format, parent)
	if err != nil {
		return err
	}
	c.UI.Success(fmt.Sprintf("Imported page %s", id))
	return nil
}

// resolvePage parses an id argument. "." or an empty argument names the
// selected page.
func (c *CLI) resolvePage(arg string) (model.ID, error) {
	if arg == "" || arg == "." {
		if c.current == nil {
			return model.NilID, fmt.Errorf("no page selected")
		}
		return *c.current, nil
	}
	return model.ParseID(arg)
}

// resolveParent returns the parent named in args, the selected page, or nil.
// "/" forces the top level.
func (c *CLI) resolveParent(args []string) (*model.ID, error) {
	arg := firstArg(args)
	switch arg {
	case "":
		return c.current, nil
	case "/":
		return nil, nil
	}
	id, err := c.resolvePage(arg)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func firstArg(args []string) string {
	for _, a := range args {
		if len(a) < 2 || a[:2] != "--" {
			return a
		}
	}
	return ""
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}
