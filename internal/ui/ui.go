// Package ui renders pages and status messages for the terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ColorEnabled reports whether colored output should be written to w:
// it must be wanted and w must be a terminal.
func ColorEnabled(w io.Writer, want bool) bool {
	if !want {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// UI prints status messages and the prompt.
type UI struct {
	writer   io.Writer
	useColor bool
}

func NewUI(w io.Writer, useColor bool) *UI {
	return &UI{writer: w, useColor: useColor}
}

func (u *UI) colorize(message string, color Color) string {
	if !u.useColor || color == ColorDefault {
		return message
	}
	return fmt.Sprintf("%s%s%s", color, message, ColorDefault)
}

// Message prints a formatted line. A trailing newline is added if missing.
func (u *UI) Message(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(u.writer, msg)
}

func (u *UI) Println(message string) {
	fmt.Fprintln(u.writer, message)
}

func (u *UI) PrintlnColored(message string, color Color) {
	fmt.Fprintln(u.writer, u.colorize(message, color))
}

func (u *UI) Error(message string) {
	fmt.Fprintf(u.writer, "%s %s\n", u.colorize("!", ColorRed), u.colorize(message, ColorLightOrange))
}

func (u *UI) Success(message string) {
	u.PrintlnColored(message, ColorLightGreen)
}

func (u *UI) Warning(message string) {
	fmt.Fprintf(u.writer, "%s %s\n", u.colorize("?", ColorLightRed), u.colorize(message, ColorLightYellow))
}

func (u *UI) Info(message string) {
	u.PrintlnColored(message, ColorGray)
}

// GetPromptString builds the prompt, naming the current page if there is one.
func (u *UI) GetPromptString(page string) string {
	var promptBuilder strings.Builder
	promptBuilder.WriteString(u.colorize("notation", ColorLightBlue))
	if page != "" {
		promptBuilder.WriteString(u.colorize(" @ ", ColorWhite))
		promptBuilder.WriteString(u.colorize(page, ColorLightPurple))
	}
	promptBuilder.WriteString(" ")
	promptBuilder.WriteString(u.colorize("> ", ColorGreen))
	return promptBuilder.String()
}
