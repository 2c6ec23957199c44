package log

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notation/local-app/internal/model"
)

func TestFormatEntry(t *testing.T) {
	entry := Entry{"time": "not a time", "level": "warn", "msg": "page missing", "pageID": "abc", "attempt": 2.0}

	got := FormatEntry(entry, false)
	assert.Equal(t, "not a time WARN  page missing\n    attempt: 2\n    pageID: abc", got)

	colored := FormatEntry(entry, true)
	assert.Contains(t, colored, colorYellow+"WARN "+colorReset)
}

func TestViewer_ReadsAndFilters(t *testing.T) {
	dir := t.TempDir()
	cfg := &model.Config{LogFolder: dir, InfoLog: "info.log", ErrorLog: "errors.log", CommandLog: "commands.log"}
	logger, err := NewLogger(cfg, LevelInfo)
	require.NoError(t, err)
	ctx := context.Background()
	logger.Info(ctx, "page fetched", Fields{"pageID": "abc"})
	logger.Info(ctx, "pages listed", nil)
	logger.Command(ctx, "page list")
	require.NoError(t, logger.Close())

	var out bytes.Buffer
	require.NoError(t, NewViewer(dir, &out, ViewerOptions{}).Run(ctx))
	assert.Contains(t, out.String(), "INFO  page fetched")
	assert.Contains(t, out.String(), "pages listed")
	assert.Contains(t, out.String(), "command: page list")

	out.Reset()
	require.NoError(t, NewViewer(dir, &out, ViewerOptions{Filter: "ABC"}).Run(ctx))
	assert.Equal(t, 1, strings.Count(out.String(), "INFO"))
	assert.Contains(t, out.String(), "pageID: abc")
}

func TestViewer_SkipsPartialLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "info.log")
	require.NoError(t, os.WriteFile(path, []byte(`{"level":"INFO","msg":"one"}`+"\n"+`{"level":"INFO","msg":"tw`), 0644))

	var out bytes.Buffer
	v := NewViewer(dir, &out, ViewerOptions{})
	require.NoError(t, v.scan())
	assert.Contains(t, out.String(), "one")
	assert.NotContains(t, out.String(), "unparsable")

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(`o"}` + "\n" + "garbage\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	out.Reset()
	require.NoError(t, v.scan())
	assert.Contains(t, out.String(), "INFO  two")
	assert.Contains(t, out.String(), "unparsable entry: garbage")
	assert.NotContains(t, out.String(), "one")
}

func TestViewer_MissingDir(t *testing.T) {
	err := NewViewer(filepath.Join(t.TempDir(), "nope"), &bytes.Buffer{}, ViewerOptions{}).Run(context.Background())
	assert.Error(t, err)
}
