package item

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oshokin/json-persistence/internal/codec"
	"github.com/oshokin/json-persistence/internal/config"
	domain "github.com/oshokin/json-persistence/internal/domain/item"
)

const (
	// tempPrefix and tempSuffix frame the names of atomic-write temporary files.
	tempPrefix = "."
	tempSuffix = ".tmp"
)

// Repository defines persistence operations for item states.
type Repository interface {
	Init(ctx context.Context) error
	Save(ctx context.Context, name string, state domain.State, opts ...SaveOption) (domain.Record, error)
	Query(ctx context.Context, filter domain.FilterCriteria) ([]domain.HistoricItem, error)
	List(ctx context.Context) ([]string, error)
}

// FileRepository persists one JSON record per item under a root directory.
// It holds no locks: concurrent saves of the same item race and the last
// writer wins, saves of different items touch different files.
type FileRepository struct {
	// root is the directory holding the item files.
	root string
	// writeMode selects in-place or atomic replacement of item files.
	writeMode WriteMode
	// namePolicy selects how item names are checked before use as file names.
	namePolicy NamePolicy
	// now stamps new records.
	now func() time.Time
}

// NewFileRepository creates a repository rooted at root.
// Defaults are WriteModeAtomic and NamePolicyStrict.
func NewFileRepository(root string, opts ...Option) *FileRepository {
	r := &FileRepository{
		root:       filepath.Clean(root),
		writeMode:  WriteModeAtomic,
		namePolicy: NamePolicyStrict,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Root returns the directory holding the item files.
func (r *FileRepository) Root() string {
	return r.root
}

// Init creates the root directory and its parents if they are absent.
// There is no retry; on failure the repository stays uninitialized and
// later calls fail at the filesystem level.
func (r *FileRepository) Init(_ context.Context) error {
	if err := os.MkdirAll(r.root, config.DefaultDirPermissions); err != nil {
		return &ConfigurationError{
			Root:  r.root,
			Cause: err,
		}
	}

	return nil
}

// Path resolves the file holding the record of name.
func (r *FileRepository) Path(name string) (string, error) {
	if err := r.checkName(name); err != nil {
		return "", err
	}

	return filepath.Join(r.root, name), nil
}

// Save writes a fresh record for name, replacing whatever the target file held.
// The file is addressed by the alias when WithAlias is given.
// It returns the record written, or a *WriteError.
func (r *FileRepository) Save(
	_ context.Context,
	name string,
	state domain.State,
	opts ...SaveOption,
) (domain.Record, error) {
	options := saveOptions{
		alias:     name,
		timestamp: r.now(),
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.alias == "" {
		options.alias = name
	}

	path, err := r.Path(options.alias)
	if err != nil {
		return domain.Record{}, &WriteError{
			Item:  options.alias,
			Cause: err,
		}
	}

	record := domain.NewRecord(name, state, options.timestamp)

	data, err := codec.Encode(record)
	if err != nil {
		return domain.Record{}, &WriteError{
			Item:  options.alias,
			Path:  path,
			Cause: fmt.Errorf("encode record: %w", err),
		}
	}

	data = append(data, '\n')

	if r.writeMode == WriteModeTruncate {
		err = os.WriteFile(path, data, config.DefaultFilePermissions)
	} else {
		err = writeAtomic(path, data)
	}

	if err != nil {
		return domain.Record{}, &WriteError{
			Item:  options.alias,
			Path:  path,
			Cause: err,
		}
	}

	return record, nil
}

// Query returns the latest sample of filter.ItemName.
// A missing file yields an empty result and no error; a file that cannot be
// decoded yields the codec's *ParseError. Every other filter field is ignored.
func (r *FileRepository) Query(_ context.Context, filter domain.FilterCriteria) ([]domain.HistoricItem, error) {
	path, err := r.Path(filter.ItemName)
	if err != nil {
		return nil, err
	}

	contents, err := os.ReadFile(path) //nolint:gosec // Path is resolved under the root by the name policy.
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.HistoricItem{}, nil
		}

		return nil, fmt.Errorf("read item file: %w", err)
	}

	record, err := codec.Decode(contents)
	if err != nil {
		return nil, fmt.Errorf("decode item file %s: %w", path, err)
	}

	return []domain.HistoricItem{record.Historic()}, nil
}

// List returns the sorted names of the item files in the root directory.
// Subdirectories and atomic-write temporary files are skipped.
func (r *FileRepository) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, fmt.Errorf("read root directory: %w", err)
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		if !entry.Type().IsRegular() || IsTempFile(entry.Name()) {
			continue
		}

		names = append(names, entry.Name())
	}

	sort.Strings(names)

	return names, nil
}

// IsTempFile reports whether a file name belongs to an in-flight atomic write.
func IsTempFile(name string) bool {
	return strings.HasPrefix(name, tempPrefix) && strings.HasSuffix(name, tempSuffix)
}

// checkName applies the name policy.
func (r *FileRepository) checkName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}

	if r.namePolicy == NamePolicyRaw {
		return nil
	}

	switch {
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	case IsTempFile(name):
		return fmt.Errorf("%w: %q is reserved for temporary files", ErrInvalidName, name)
	}

	return nil
}

// writeAtomic writes data to a temporary sibling of path and renames it into place.
func writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), tempPrefix+filepath.Base(path)+".*"+tempSuffix)
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temporary file: %w", err)
	}

	if err = tmp.Chmod(config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("chmod temporary file: %w", err)
	}

	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temporary file: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temporary file: %w", err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace item file: %w", err)
	}

	return nil
}
