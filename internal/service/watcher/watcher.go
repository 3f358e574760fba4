package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	domain "github.com/oshokin/json-persistence/internal/domain/item"
	"github.com/oshokin/json-persistence/internal/logger"
	repo "github.com/oshokin/json-persistence/internal/repository/item"
)

// Querier loads the latest sample of an item.
type Querier interface {
	Query(ctx context.Context, filter domain.FilterCriteria) ([]domain.HistoricItem, error)
}

// ChangeFunc receives the latest sample of a changed item.
type ChangeFunc func(ctx context.Context, sample domain.HistoricItem)

// Watcher follows one storage directory.
type Watcher struct {
	// root is the watched directory.
	root string
	// querier decodes changed item files.
	querier Querier
	// onChange is called for every decoded change.
	onChange ChangeFunc
	// ready is closed once the directory is being watched.
	ready chan struct{}
	// started is set by the first Run.
	started atomic.Bool
}

var (
	// errNoCallback is returned when no change callback is provided.
	errNoCallback = errors.New("change callback is required")
	// errAlreadyStarted is returned by every Run after the first.
	errAlreadyStarted = errors.New("watcher has already been started")
)

// New creates a watcher of root that reports changes through onChange.
func New(root string, querier Querier, onChange ChangeFunc) (*Watcher, error) {
	if onChange == nil {
		return nil, errNoCallback
	}

	return &Watcher{
		root:     filepath.Clean(root),
		querier:  querier,
		onChange: onChange,
		ready:    make(chan struct{}),
	}, nil
}

// Ready is closed once Run has started watching the directory.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches the directory until ctx is canceled.
// A Watcher runs once; later calls return an error.
// Files that fail to decode are logged and skipped; a write may still be in
// flight when the event arrives, and the next event will carry the final content.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errAlreadyStarted
	}

	ctx = logger.WithKV(ctx, "root", w.root)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	defer func() {
		_ = watcher.Close()
	}()

	if err = watcher.Add(w.root); err != nil {
		return fmt.Errorf("watch %s: %w", w.root, err)
	}

	close(w.ready)
	logger.Info(ctx, "Watching item files")

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			w.handle(ctx, filepath.Base(event.Name))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.WarnKV(ctx, "Watcher error", "error", err)
		}
	}
}

// handle reports the current content of one item file.
func (w *Watcher) handle(ctx context.Context, name string) {
	if repo.IsTempFile(name) {
		return
	}

	samples, err := w.querier.Query(ctx, domain.FilterCriteria{ItemName: name})
	if err != nil {
		logger.DebugKV(ctx, "Skipping unreadable item file", "item", name, "error", err)
		return
	}

	for _, sample := range samples {
		w.onChange(ctx, sample)
	}
}
