package cli

import (
	"fmt"
	"io"
)

// SystemExit handles the 'system exit' command
func (c *CLI) SystemExit() error {
	c.UI.Println("Exiting...")
	return io.EOF
}

// SystemInfo handles the 'system' command
func (c *CLI) SystemInfo() error {
	c.UI.Println("System Information:")
	if c.current == nil {
		c.UI.Println("Selected page: none")
	} else {
		c.UI.Println(fmt.Sprintf("Selected page: %s [%s]", c.currentTitle, c.current))
	}
	return nil
}

// ExecuteSystemCommand routes the system command to the appropriate handler
func (c *CLI) ExecuteSystemCommand(args []string) error {
	if len(args) == 0 {
		return c.SystemInfo()
	}

	switch args[0] {
	case "exit", "quit":
		return c.SystemExit()
	default:
		return fmt.Errorf("unknown system operation: %s", args[0])
	}
}
