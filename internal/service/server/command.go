package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"google.golang.org/grpc"

	api "github.com/oshokin/json-persistence/internal/api/grpc/persistence"
	"github.com/oshokin/json-persistence/internal/config"
	"github.com/oshokin/json-persistence/internal/logger"
	"github.com/oshokin/json-persistence/internal/metrics"
	repo "github.com/oshokin/json-persistence/internal/repository/item"
	"github.com/oshokin/json-persistence/internal/service/persistence"
)

// Options controls the json-persistence server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file; empty uses defaults.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// RootDir overrides the directory holding the item files.
	RootDir string
	// MetricsAddress overrides the metrics HTTP listen address.
	MetricsAddress string
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// metricsShutdownTimeout bounds the metrics HTTP server shutdown.
const metricsShutdownTimeout = 5 * time.Second

// Run starts the gRPC server and blocks until context is canceled or server stops.
// Loads configuration first, then determines listen address from config or override.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "json-persistence")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if opts.RootDir != "" {
		settings.RootDir = opts.RootDir
	}

	if opts.MetricsAddress != "" {
		settings.MetricsAddress = opts.MetricsAddress
	}

	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	repository, err := NewRepository(settings)
	if err != nil {
		return err
	}

	registry := metrics.NewRegistry()
	svc := persistence.New(repository, persistence.WithRecorder(metrics.NewPrometheusRecorder(registry)))

	// A failed activation leaves the service unusable but the process keeps serving,
	// so clients observe the failures as statuses instead of refused connections.
	_ = svc.Activate(ctx) //nolint:errcheck // Activation failures are logged by the service.

	defer svc.Deactivate(ctx, "server stopped")

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer()
	api.RegisterPersistenceServer(grpcServer, api.NewServer(svc))

	logger.InfoKV(
		ctx,
		"Persistence server listening",
		"listen_address", listenAddress,
		"root", repository.Root(),
		"ready", svc.Ready(),
	)

	stopMetrics, err := serveMetrics(ctx, settings.MetricsAddress, metrics.HTTPHandler(registry))
	if err != nil {
		_ = lis.Close()

		return err
	}

	defer stopMetrics()

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		grpcServer.GracefulStop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "GRPC server stopped")

	return nil
}

// NewRepository builds the item file repository described by settings.
func NewRepository(settings *config.Config) (*repo.FileRepository, error) {
	writeMode, err := repo.ParseWriteMode(settings.WriteMode)
	if err != nil {
		return nil, fmt.Errorf("resolve write mode: %w", err)
	}

	namePolicy, err := repo.ParseNamePolicy(settings.NamePolicy)
	if err != nil {
		return nil, fmt.Errorf("resolve name policy: %w", err)
	}

	return repo.NewFileRepository(
		config.ResolveRootDir(settings),
		repo.WithWriteMode(writeMode),
		repo.WithNamePolicy(namePolicy),
	), nil
}

// serveMetrics exposes the Prometheus handler on address until the returned stop is called.
// An empty address disables the endpoint.
func serveMetrics(ctx context.Context, address string, handler http.Handler) (func(), error) {
	if address == "" {
		return func() {}, nil
	}

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("listen metrics on %s: %w", address, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: metricsShutdownTimeout,
	}

	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorKV(ctx, "Metrics server failed", "error", err)
		}
	}()

	logger.InfoKV(ctx, "Metrics endpoint listening", "address", address)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}, nil
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
// Returns appropriate listen address (e.g., ":8080" for port-only binding).
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	return ":" + port, nil
}
