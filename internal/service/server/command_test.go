package server

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/json-persistence/internal/config"
	repo "github.com/oshokin/json-persistence/internal/repository/item"
)

// TestResolveListenAddress covers override, port extraction and invalid input.
func TestResolveListenAddress(t *testing.T) {
	t.Parallel()

	addr, err := resolveListenAddress("example.com:50051", "")
	require.NoError(t, err)
	require.Equal(t, ":50051", addr)

	addr, err = resolveListenAddress("example.com:50051", "127.0.0.1:9090")
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9090", addr)

	_, err = resolveListenAddress("", "")
	require.ErrorIs(t, err, ErrNoServerAddress)

	_, err = resolveListenAddress("no-port", "")
	require.Error(t, err)
}

// TestNewRepository verifies settings select root, write mode and name policy.
func TestNewRepository(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	settings := config.Default()
	settings.RootDir = root
	settings.NamePolicy = "raw"

	r, err := NewRepository(settings)
	require.NoError(t, err)
	require.Equal(t, root, r.Root())

	path, err := r.Path("living/lamp")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "living", "lamp"), path)

	settings.NamePolicy = "lenient"
	_, err = NewRepository(settings)
	require.Error(t, err)

	settings.NamePolicy = ""
	settings.WriteMode = "copy"
	_, err = NewRepository(settings)
	require.Error(t, err)
}

// TestNewRepository_DefaultsAreStrict verifies the default policy rejects nested names.
func TestNewRepository_DefaultsAreStrict(t *testing.T) {
	t.Parallel()

	settings := config.Default()
	settings.RootDir = t.TempDir()

	r, err := NewRepository(settings)
	require.NoError(t, err)

	_, err = r.Path("../escape")
	require.ErrorIs(t, err, repo.ErrInvalidName)
}

// TestRun_InvalidConfig verifies Run fails before listening when settings cannot be read.
func TestRun_InvalidConfig(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), &Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
}

// TestServeMetrics_Disabled verifies an empty address starts nothing.
func TestServeMetrics_Disabled(t *testing.T) {
	t.Parallel()

	stop, err := serveMetrics(context.Background(), "", nil)
	require.NoError(t, err)
	stop()
}
