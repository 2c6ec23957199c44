package log

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notation/local-app/internal/model"
)

func TestNewLogger_WritesToSeparateFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := &model.Config{LogFolder: dir, InfoLog: "info.log", ErrorLog: "errors.log", CommandLog: "commands.log"}

	logger, err := NewLogger(cfg, LevelInfo)
	require.NoError(t, err)

	ctx := context.Background()
	logger.Info(ctx, "page fetched", Fields{"pageID": "abc"})
	logger.Debug(ctx, "hidden", nil)
	logger.Error(ctx, "page fetch failed", Fields{"error": errors.New("boom")})
	logger.Command(ctx, "page list")
	require.NoError(t, logger.Close())

	info, err := os.ReadFile(filepath.Join(dir, "info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(info), `"msg":"page fetched"`)
	assert.Contains(t, string(info), `"pageID":"abc"`)
	assert.NotContains(t, string(info), "hidden")

	errs, err := os.ReadFile(filepath.Join(dir, "errors.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errs), `"error":"boom"`)
	assert.NotContains(t, string(errs), "page fetched")

	cmds, err := os.ReadFile(filepath.Join(dir, "commands.log"))
	require.NoError(t, err)
	assert.Contains(t, string(cmds), `"command":"page list"`)
}

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, LevelDebug)
	logger.Debug(context.Background(), "debugging", Fields{"n": 3})
	assert.Contains(t, buf.String(), "debugging")
	assert.Contains(t, buf.String(), "n=3")
	assert.NoError(t, logger.Close())
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	logger.Error(context.Background(), "ignored", Fields{"error": errors.New("x")})
	assert.NoError(t, logger.Close())
}

func TestFields_SortedAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, LevelInfo)
	for i := 0; i < 20; i++ {
		logger.Info(context.Background(), "ordered", Fields{"zeta": 1, "alpha": 2, "mid": errors.New("x"), "beta": 3})
	}

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		alpha := strings.Index(line, "alpha=2")
		beta := strings.Index(line, "beta=3")
		mid := strings.Index(line, "mid=x")
		zeta := strings.Index(line, "zeta=1")
		require.True(t, alpha >= 0 && beta >= 0 && mid >= 0 && zeta >= 0, line)
		assert.True(t, alpha < beta && beta < mid && mid < zeta, line)
	}
}
