package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/mitchellh/go-ps"

	domain "github.com/oshokin/json-persistence/internal/domain/item"
	"github.com/oshokin/json-persistence/internal/logger"
	"github.com/oshokin/json-persistence/internal/metrics"
	repo "github.com/oshokin/json-persistence/internal/repository/item"
)

// Name is the identifier the service registers under with the host.
const Name = "json"

// Service is the JSON persistence service.
type Service struct {
	// repo handles the item files.
	repo repo.Repository
	// recorder receives store and query outcomes.
	recorder metrics.Recorder
	// listProcesses enumerates processes for the peer check; nil disables it.
	listProcesses ProcessLister
	// ready is set once activation created the root directory.
	ready atomic.Bool
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder metrics.Recorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}

// WithProcessLister replaces the process enumeration used to detect other
// instances at activation; nil disables the check.
func WithProcessLister(list ProcessLister) Option {
	return func(s *Service) {
		s.listProcesses = list
	}
}

// errNoRepository is returned by operations on a service without a repository.
var errNoRepository = errors.New("persistence repository is not set")

// New creates a service backed by the provided repository.
func New(repository repo.Repository, opts ...Option) *Service {
	s := &Service{
		repo:          repository,
		recorder:      metrics.NoopRecorder{},
		listProcesses: ps.Processes,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the service identifier.
func (s *Service) Name() string {
	return Name
}

// Ready reports whether the service has been activated successfully.
func (s *Service) Ready() bool {
	return s.ready.Load()
}

// Activate prepares the storage directory.
// A failure is logged and leaves the service non-functional: later stores fail
// and are logged, there is no retry. The error is returned for callers that
// want to act on it.
func (s *Service) Activate(ctx context.Context) error {
	logger.Debug(ctx, "JSON persistence service is being activated")

	if s.repo == nil {
		return errNoRepository
	}

	if err := s.repo.Init(ctx); err != nil {
		logger.ErrorKV(ctx, "Failed to create one or more directories", "error", err)
		logger.Error(ctx, "JSON persistence service activation has failed")

		return err
	}

	s.ready.Store(true)
	s.warnAboutPeers(ctx)

	logger.Debug(ctx, "JSON persistence service is now activated")

	return nil
}

// Deactivate is called by the host on shutdown; the service holds no resources.
func (s *Service) Deactivate(ctx context.Context, reason string) {
	logger.DebugKV(ctx, "JSON persistence service deactivated", "reason", reason)
}

// Store persists the current state of an item under its own name.
// See StoreAlias for the failure semantics.
func (s *Service) Store(ctx context.Context, name string, state domain.State) (domain.Record, error) {
	return s.StoreAlias(ctx, name, "", state)
}

// StoreAlias persists the current state of an item in the file named alias
// (the item name when alias is empty).
// Persistence is best effort: failures are logged and counted and the error is
// returned only so that interested callers can observe it.
func (s *Service) StoreAlias(ctx context.Context, name, alias string, state domain.State) (domain.Record, error) {
	if alias == "" {
		alias = name
	}

	if s.repo == nil {
		return domain.Record{}, errNoRepository
	}

	started := time.Now()

	record, err := s.repo.Save(ctx, name, state, repo.WithAlias(alias))
	if err != nil {
		s.recorder.Observe(metrics.OperationStore, metrics.ResultFailure, time.Since(started))
		logger.ErrorKV(ctx, "Failed persisting", "item", alias, "error", err)

		return domain.Record{}, fmt.Errorf("store %q: %w", alias, err)
	}

	s.recorder.Observe(metrics.OperationStore, metrics.ResultSuccess, time.Since(started))
	logger.DebugKV(ctx, "Stored", "item", alias, "state", state.String())

	return record, nil
}

// Query returns the latest sample for filter.ItemName: an empty slice when the
// item was never stored, one sample otherwise.
// Decode failures are returned to the caller.
func (s *Service) Query(ctx context.Context, filter domain.FilterCriteria) ([]domain.HistoricItem, error) {
	if s.repo == nil {
		return nil, errNoRepository
	}

	started := time.Now()

	samples, err := s.repo.Query(ctx, filter)
	if err != nil {
		s.recorder.Observe(metrics.OperationQuery, metrics.ResultFailure, time.Since(started))
		logger.ErrorKV(ctx, "Failed loading state", "item", filter.ItemName, "error", err)

		return nil, fmt.Errorf("query %q: %w", filter.ItemName, err)
	}

	if len(samples) == 0 {
		s.recorder.Observe(metrics.OperationQuery, metrics.ResultMissing, time.Since(started))
		logger.DebugKV(ctx, "No state available", "item", filter.ItemName)

		return samples, nil
	}

	s.recorder.Observe(metrics.OperationQuery, metrics.ResultSuccess, time.Since(started))
	logger.DebugKV(ctx, "Loaded state", "item", filter.ItemName, "state", samples[0].State.String())

	return samples, nil
}

// Items returns the names of all stored items.
func (s *Service) Items(ctx context.Context) ([]string, error) {
	if s.repo == nil {
		return nil, errNoRepository
	}

	names, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	return names, nil
}

// warnAboutPeers logs other running instances: they may write the same item
// files and the last writer wins.
func (s *Service) warnAboutPeers(ctx context.Context) {
	if s.listProcesses == nil {
		return
	}

	peers, err := findPeers(s.listProcesses)
	if err != nil {
		logger.DebugKV(ctx, "Unable to list processes", "error", err)
		return
	}

	if len(peers) > 0 {
		logger.WarnKV(ctx, "Other instances are running; writes to shared items race", "pids", peers)
	}
}
