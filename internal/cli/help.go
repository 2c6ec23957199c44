package cli

import "fmt"

// CommandHelp represents the structure of help information for a specific command.
type CommandHelp struct {
	Scope     string
	Operation string
	ShortDesc string
	LongDesc  string
	Syntax    string
	Arguments []string
	Options   []string
	Examples  []string
}

// HandleHelp processes the help command and displays appropriate help information.
// It can show general help, scope-specific help, or operation-specific help.
func (c *CLI) HandleHelp(args []string) error {
	switch len(args) {
	case 0:
		return c.showGeneralHelp()
	case 1:
		return c.showScopeHelp(args[0])
	case 2:
		return c.showOperationHelp(args[0], args[1])
	default:
		return fmt.Errorf("invalid help command. Use 'help [scope] [operation]'")
	}
}

func (c *CLI) showGeneralHelp() error {
	c.UI.Message("Command syntax: <scope> [operation] [arguments] [options]")
	c.UI.Message("\nAvailable commands:")

	currentScope := ""
	for _, cmd := range commandHelps {
		if cmd.Scope != currentScope {
			c.UI.Message("\n%s:", cmd.Scope)
			currentScope = cmd.Scope
		}
		c.UI.Message("  %-15s %s", cmd.Operation, cmd.ShortDesc)
	}
	return nil
}

func (c *CLI) showScopeHelp(scope string) error {
	found := false
	for _, cmd := range commandHelps {
		if cmd.Scope == scope {
			if !found {
				c.UI.Message("Commands for %s:\n", scope)
				found = true
			}
			c.UI.Message("%-15s %s", cmd.Operation, cmd.ShortDesc)
		}
	}
	if !found {
		return fmt.Errorf("no help found for %s", scope)
	}
	return nil
}

func (c *CLI) showOperationHelp(scope, operation string) error {
	for _, cmd := range commandHelps {
		if cmd.Scope != scope || cmd.Operation != operation {
			continue
		}
		c.UI.Message("Command: %s %s", scope, operation)
		c.UI.Message("Description: %s", cmd.LongDesc)
		c.UI.Message("Syntax: %s", cmd.Syntax)
		if len(cmd.Arguments) > 0 {
			c.UI.Message("Arguments:")
			for _, arg := range cmd.Arguments {
				c.UI.Message("  %s", arg)
			}
		}
		if len(cmd.Options) > 0 {
			c.UI.Message("Options:")
			for _, opt := range cmd.Options {
				c.UI.Message("  %s", opt)
			}
		}
		if len(cmd.Examples) > 0 {
			c.UI.Message("Examples:")
			for _, ex := range cmd.Examples {
				c.UI.Message("  %s", ex)
			}
		}
		return nil
	}
	return fmt.Errorf("no help found for %s %s", scope, operation)
}

// commandHelps holds the help for every command, grouped by scope.
var commandHelps = []CommandHelp{
	{
		Scope:     "page",
		Operation: "list",
		ShortDesc: "List all pages",
		LongDesc:  "Shows every top-level page with the pages nested inside it.",
		Syntax:    "page list [--id]",
		Options:   []string{"--id: Show block ids"},
		Examples:  []string{"page list", "page list --id"},
	},
	{
		Scope:     "page",
		Operation: "view",
		ShortDesc: "Show a page",
		LongDesc:  "Shows a page and the blocks inside it. Nested pages are shown by title only; view them to see their contents.",
		Syntax:    "page view [id|.] [--id]",
		Arguments: []string{"id: (Optional) The page to show. Defaults to the selected page"},
		Options:   []string{"--id: Show block ids"},
		Examples:  []string{"page view 0190a3c4-5b6d-7e8f-9a0b-1c2d3e4f5a6b --id", "page view"},
	},
	{
		Scope:     "page",
		Operation: "select",
		ShortDesc: "Select a page",
		LongDesc:  "Selects a page. New blocks go into the selected page unless told otherwise, and '.' refers to it.",
		Syntax:    "page select <id|/>",
		Arguments: []string{"id: The page to select, or / to clear the selection"},
		Examples:  []string{"page select 0190a3c4-5b6d-7e8f-9a0b-1c2d3e4f5a6b", "page select /"},
	},
	{
		Scope:     "page",
		Operation: "add",
		ShortDesc: "Add a page",
		LongDesc:  "Creates a new page. It is placed in the given parent, or the selected page, or at the top level.",
		Syntax:    "page add <title> [parent|.|/]",
		Arguments: []string{"title: The page title. Use quotes for titles with spaces", "parent: (Optional) The parent block id, '.' for the selected page or '/' for the top level"},
		Examples:  []string{`page add "Reading list"`, `page add Ideas /`},
	},
	{
		Scope:     "page",
		Operation: "export",
		ShortDesc: "Export a page to a file",
		LongDesc:  "Writes a page and everything inside it, nested pages included, to a JSON or XML file.",
		Syntax:    "page export <id|.> <filename> [json|xml]",
		Arguments: []string{"id: The page to export", "filename: The file to write", "format: (Optional) json or xml. Default is json"},
		Examples:  []string{"page export . trip.json", "page export . trip.xml xml"},
	},
	{
		Scope:     "page",
		Operation: "import",
		ShortDesc: "Import a page from a file",
		LongDesc:  "Reads a page tree written by 'page export' and stores it with new ids.",
		Syntax:    "page import <filename> [json|xml] [parent|.|/]",
		Arguments: []string{"filename: The file to read", "format: (Optional) json or xml. Default is json", "parent: (Optional) Where to put the page. Default is the top level"},
		Examples:  []string{"page import trip.json", "page import trip.xml xml ."},
	},
	{
		Scope:     "text",
		Operation: "add",
		ShortDesc: "Add a text block",
		LongDesc:  "Adds a text block under a page or another text block, optionally with a schedule.",
		Syntax:    "text add <parent|.> <text> [--done] [--start <time>] [--end <time>]",
		Arguments: []string{"parent: The parent block id or '.' for the selected page", "text: The text. Use quotes for text with spaces"},
		Options:   []string{"--done: Mark the block as done", "--start <time>: Start time, YYYY-MM-DD or YYYY-MM-DDTHH:MM", "--end <time>: End time, same formats"},
		Examples:  []string{`text add . "buy milk" --end 2024-06-01`},
	},
	{
		Scope:     "system",
		Operation: "exit",
		ShortDesc: "Exit the program",
		LongDesc:  "Exits the program. 'exit' and 'quit' work on their own as well.",
		Syntax:    "system exit",
		Examples:  []string{"system exit", "exit"},
	},
}
