package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesJSONToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "shoplist.log")
	logger, err := New(Config{Path: path, Level: "debug"})
	require.NoError(t, err)

	logger.Debug("item inserted", zap.Int64("id", 7))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"item inserted"`)
	require.Contains(t, string(data), `"id":7`)
}

func TestNewRespectsLevel(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "shoplist.log")
	logger, err := New(Config{Path: path, Level: "warn"})
	require.NoError(t, err)

	logger.Info("quiet")
	logger.Warn("loud")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "quiet")
	require.Contains(t, string(data), "loud")
}

func TestNewRejectsBadLevel(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Path: filepath.Join(t.TempDir(), "x.log"), Level: "chatty"})
	require.ErrorContains(t, err, "log level")
}

func TestEmptyPathIsNop(t *testing.T) {
	t.Parallel()

	logger, err := New(Config{})
	require.NoError(t, err)
	require.NotNil(t, logger)
	require.NotNil(t, OrNop(nil))
}
