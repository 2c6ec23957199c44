package log

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
	colorWhite   = "\033[37m"
)

// Entry is one decoded JSON log line.
type Entry map[string]interface{}

// ViewerOptions control how log files are rendered.
type ViewerOptions struct {
	// Filter keeps entries whose rendered text contains it, ignoring case.
	Filter string
	// Follow keeps polling for new lines until the context is cancelled.
	Follow bool
	Color  bool
	Poll   time.Duration
}

// Viewer renders the JSON log files in a folder in a compact form.
type Viewer struct {
	dir       string
	out       io.Writer
	opts      ViewerOptions
	positions map[string]int64
}

// NewViewer creates a viewer for the *.log files in dir.
func NewViewer(dir string, out io.Writer, opts ViewerOptions) *Viewer {
	if opts.Poll <= 0 {
		opts.Poll = time.Second
	}
	return &Viewer{dir: dir, out: out, opts: opts, positions: make(map[string]int64)}
}

// Run prints every entry written so far and, when following, every entry
// appended afterwards.
func (v *Viewer) Run(ctx context.Context) error {
	if _, err := os.Stat(v.dir); err != nil {
		return fmt.Errorf("log directory %s: %w", v.dir, err)
	}
	for {
		if err := v.scan(); err != nil {
			return err
		}
		if !v.opts.Follow {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(v.opts.Poll):
		}
	}
}

func (v *Viewer) scan() error {
	files, err := filepath.Glob(filepath.Join(v.dir, "*.log"))
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}
	sort.Strings(files)
	for _, path := range files {
		if err := v.scanFile(path); err != nil {
			return err
		}
	}
	return nil
}

func (v *Viewer) scanFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", filepath.Base(path), err)
	}
	// Truncated since the last pass.
	if stat.Size() < v.positions[path] {
		v.positions[path] = 0
	}
	if _, err := file.Seek(v.positions[path], io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek in %s: %w", filepath.Base(path), err)
	}

	reader := bufio.NewReader(file)
	pos := v.positions[path]
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			// A partial line is read again on the next pass.
			break
		}
		pos += int64(len(line))

		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			fmt.Fprintf(v.out, "%s: unparsable entry: %s\n", filepath.Base(path), strings.TrimSpace(line))
			continue
		}
		formatted := FormatEntry(entry, v.opts.Color)
		if v.opts.Filter == "" || strings.Contains(strings.ToLower(formatted), strings.ToLower(v.opts.Filter)) {
			fmt.Fprintln(v.out, formatted)
		}
	}
	v.positions[path] = pos
	return nil
}

// FormatEntry renders an entry as a timestamp, level and message line
// followed by one indented line per remaining field.
func FormatEntry(entry Entry, color bool) string {
	paint := func(c, s string) string {
		if !color {
			return s
		}
		return c + s + colorReset
	}

	timestamp, _ := entry["time"].(string)
	level, _ := entry["level"].(string)
	msg, _ := entry["msg"].(string)
	level = strings.ToUpper(level)

	levelColor := colorWhite
	switch level {
	case "DEBUG":
		levelColor = colorBlue
	case "INFO":
		levelColor = colorGreen
	case "WARN":
		levelColor = colorYellow
	case "ERROR":
		levelColor = colorRed
	}

	var b strings.Builder
	b.WriteString(paint(colorMagenta, formatTimestamp(timestamp)))
	b.WriteString(" ")
	b.WriteString(paint(levelColor, fmt.Sprintf("%-5s", level)))
	b.WriteString(" ")
	b.WriteString(msg)

	keys := make([]string, 0, len(entry))
	for k := range entry {
		if k != "time" && k != "level" && k != "msg" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n    %s %v", paint(colorCyan, k+":"), entry[k])
	}
	return b.String()
}

func formatTimestamp(timestamp string) string {
	t, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return timestamp
	}
	return t.Local().Format("06-01-02 15:04:05.000")
}
