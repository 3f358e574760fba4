package item

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/json-persistence/internal/codec"
	domain "github.com/oshokin/json-persistence/internal/domain/item"
)

// newTestRepository returns an initialized repository rooted in a temporary directory.
func newTestRepository(t *testing.T, opts ...Option) *FileRepository {
	t.Helper()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "persistence", "json"), opts...)
	require.NoError(t, repo.Init(context.Background()))

	return repo
}

// TestFileRepository_Init verifies the root is created with its parents.
func TestFileRepository_Init(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "a", "b", "c")
	repo := NewFileRepository(root)

	require.NoError(t, repo.Init(context.Background()))

	info, err := os.Stat(root)
	require.NoError(t, err)
	require.True(t, info.IsDir())

	// Second call on an existing directory is a no-op.
	require.NoError(t, repo.Init(context.Background()))
}

// TestFileRepository_InitFailure ensures a blocked root yields a ConfigurationError.
func TestFileRepository_InitFailure(t *testing.T) {
	t.Parallel()

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	repo := NewFileRepository(filepath.Join(blocker, "json"))

	err := repo.Init(context.Background())

	var configErr *ConfigurationError
	require.True(t, errors.As(err, &configErr))

	// The repository stays usable as a value; writes fail at the filesystem level.
	_, err = repo.Save(context.Background(), "Lamp", domain.On)

	var writeErr *WriteError
	require.True(t, errors.As(err, &writeErr))
}

// TestFileRepository_SaveQuery ensures Save followed by Query returns the stored record.
func TestFileRepository_SaveQuery(t *testing.T) {
	t.Parallel()

	before := time.Now().Add(-time.Millisecond)
	repo := newTestRepository(t)

	stored, err := repo.Save(context.Background(), "Kitchen_Temperature", domain.Decimal(21.5))
	require.NoError(t, err)

	got, err := repo.Query(context.Background(), domain.FilterCriteria{ItemName: "Kitchen_Temperature"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Kitchen_Temperature", got[0].Name)
	require.Equal(t, domain.KindDecimal, got[0].State.Kind())
	require.Equal(t, "21.5", got[0].State.String())
	require.True(t, stored.Timestamp.Equal(got[0].Timestamp))
	require.WithinDuration(t, time.Now(), got[0].Timestamp, time.Second)
	require.True(t, got[0].Timestamp.After(before))

	contents, err := os.ReadFile(filepath.Join(repo.Root(), "Kitchen_Temperature"))
	require.NoError(t, err)
	require.Equal(t, byte('\n'), contents[len(contents)-1])
}

// TestFileRepository_QueryMissing ensures a never-stored item yields an empty result.
func TestFileRepository_QueryMissing(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)

	got, err := repo.Query(context.Background(), domain.FilterCriteria{ItemName: "Nothing"})
	require.NoError(t, err)
	require.Empty(t, got)
}

// TestFileRepository_Overwrite ensures only the latest record is retained.
func TestFileRepository_Overwrite(t *testing.T) {
	t.Parallel()

	for _, mode := range []WriteMode{WriteModeAtomic, WriteModeTruncate} {
		repo := newTestRepository(t, WithWriteMode(mode))

		_, err := repo.Save(context.Background(), "Door", domain.Open)
		require.NoError(t, err)

		_, err = repo.Save(context.Background(), "Door", domain.Closed)
		require.NoError(t, err)

		got, err := repo.Query(context.Background(), domain.FilterCriteria{ItemName: "Door"})
		require.NoError(t, err)
		require.Len(t, got, 1, mode)
		require.Equal(t, domain.Closed, got[0].State, mode)
	}
}

// TestFileRepository_Alias ensures aliased records are addressed by the alias only.
func TestFileRepository_Alias(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)

	_, err := repo.Save(context.Background(), "Hall_Light", domain.On, WithAlias("hall"))
	require.NoError(t, err)

	got, err := repo.Query(context.Background(), domain.FilterCriteria{ItemName: "Hall_Light"})
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = repo.Query(context.Background(), domain.FilterCriteria{ItemName: "hall"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Hall_Light", got[0].Name)

	_, err = os.Stat(filepath.Join(repo.Root(), "Hall_Light"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestFileRepository_FixedClock verifies WithClock and WithTimestamp stamp records.
func TestFileRepository_FixedClock(t *testing.T) {
	t.Parallel()

	clock := time.UnixMilli(1_600_000_000_000)
	repo := newTestRepository(t, WithClock(func() time.Time { return clock }))

	record, err := repo.Save(context.Background(), "Lamp", domain.Off)
	require.NoError(t, err)
	require.True(t, clock.Equal(record.Timestamp))

	explicit := time.UnixMilli(42)

	record, err = repo.Save(context.Background(), "Lamp", domain.On, WithTimestamp(explicit))
	require.NoError(t, err)
	require.True(t, explicit.Equal(record.Timestamp))

	got, err := repo.Query(context.Background(), domain.FilterCriteria{ItemName: "Lamp"})
	require.NoError(t, err)
	require.Equal(t, int64(42), got[0].Timestamp.UnixMilli())
}

// TestFileRepository_CorruptFile ensures decode errors propagate to the caller.
func TestFileRepository_CorruptFile(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	require.NoError(t, os.WriteFile(filepath.Join(repo.Root(), "Broken"), []byte(`{"name":`), 0o600))

	got, err := repo.Query(context.Background(), domain.FilterCriteria{ItemName: "Broken"})
	require.ErrorIs(t, err, codec.ErrParse)
	require.Nil(t, got)
}

// TestFileRepository_SaveRejectsNonCanonicalStates ensures unreadable records are never written.
func TestFileRepository_SaveRejectsNonCanonicalStates(t *testing.T) {
	t.Parallel()

	states := []domain.State{
		domain.Percent(150),
		domain.Decimal(math.NaN()),
		domain.HSB{Hue: 400, Saturation: 50, Brightness: 50},
		domain.OnOff("on"),
		domain.NewDateTime(time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	for _, mode := range []WriteMode{WriteModeAtomic, WriteModeTruncate} {
		repo := newTestRepository(t, WithWriteMode(mode))

		for _, state := range states {
			_, err := repo.Save(context.Background(), "Dimmer", state)

			var writeErr *WriteError
			require.True(t, errors.As(err, &writeErr), "%q", state)
			require.ErrorIs(t, err, domain.ErrInvalidState)
		}

		entries, err := os.ReadDir(repo.Root())
		require.NoError(t, err)
		require.Empty(t, entries, mode)
	}
}

// TestFileRepository_StrictNames verifies names that escape the root are rejected.
func TestFileRepository_StrictNames(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)

	names := []string{
		"", ".", "..", "../etc/passwd", "a/b", `a\b`, "nul\x00byte",
		// Reserved for temporary files of atomic writes.
		".Lamp.tmp", ".Lamp.123.tmp",
	}

	for _, name := range names {
		_, err := repo.Save(context.Background(), name, domain.On)
		require.ErrorIs(t, err, ErrInvalidName, name)

		_, err = repo.Query(context.Background(), domain.FilterCriteria{ItemName: name})
		require.ErrorIs(t, err, ErrInvalidName, name)
	}
}

// TestFileRepository_RawNames verifies the raw policy maps separators to nested paths.
func TestFileRepository_RawNames(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("separator semantics differ on Windows")
	}

	repo := newTestRepository(t, WithNamePolicy(NamePolicyRaw))
	require.NoError(t, os.Mkdir(filepath.Join(repo.Root(), "floor1"), 0o755))

	_, err := repo.Save(context.Background(), "floor1/Lamp", domain.On)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(repo.Root(), "floor1", "Lamp"))
	require.NoError(t, err)

	got, err := repo.Query(context.Background(), domain.FilterCriteria{ItemName: "floor1/Lamp"})
	require.NoError(t, err)
	require.Len(t, got, 1)
}

// TestFileRepository_ListSkipsTemporaryFiles ensures List reports item files only
// and atomic writes leave nothing behind.
func TestFileRepository_ListSkipsTemporaryFiles(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)

	for _, name := range []string{"b", "a", "c"} {
		_, err := repo.Save(context.Background(), name, domain.String(name))
		require.NoError(t, err)
	}

	require.NoError(t, os.WriteFile(filepath.Join(repo.Root(), ".a.123.tmp"), nil, 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(repo.Root(), "dir"), 0o755))

	names, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, names)

	entries, err := os.ReadDir(repo.Root())
	require.NoError(t, err)
	require.Len(t, entries, 5)
}

// TestParseOptions checks the configuration parsers for write mode and name policy.
func TestParseOptions(t *testing.T) {
	t.Parallel()

	mode, err := ParseWriteMode("")
	require.NoError(t, err)
	require.Equal(t, WriteModeAtomic, mode)

	mode, err = ParseWriteMode(" Truncate ")
	require.NoError(t, err)
	require.Equal(t, WriteModeTruncate, mode)

	_, err = ParseWriteMode("append")
	require.Error(t, err)

	policy, err := ParseNamePolicy("")
	require.NoError(t, err)
	require.Equal(t, NamePolicyStrict, policy)

	policy, err = ParseNamePolicy("RAW")
	require.NoError(t, err)
	require.Equal(t, NamePolicyRaw, policy)

	_, err = ParseNamePolicy("escape")
	require.Error(t, err)
}
