package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	api "github.com/oshokin/json-persistence/internal/api/grpc/persistence"
	"github.com/oshokin/json-persistence/internal/config"
	"github.com/oshokin/json-persistence/internal/logger"
	repo "github.com/oshokin/json-persistence/internal/repository/item"
	"github.com/oshokin/json-persistence/internal/service/persistence"
	"github.com/oshokin/json-persistence/internal/service/server"
	"github.com/oshokin/json-persistence/internal/version"
)

// rootOptions holds the persistent flags and the settings resolved from them.
type rootOptions struct {
	// configPath to the configuration YAML file.
	configPath string
	// envFile is the dotenv file providing SMARTHOME_USERDATA.
	envFile string
	// rootDir overrides the directory holding item files.
	rootDir string
	// serverAddress switches store and query to a running server.
	serverAddress string
	// logLevel overrides the configured log level.
	logLevel string
	// logFormat selects console or JSON log output.
	logFormat string

	// settings is loaded before any subcommand runs.
	settings *config.Config
}

// errLocalOnly is returned by commands that cannot run against a remote server.
var errLocalOnly = errors.New("command works on the local storage directory only")

// Execute runs the json-persistence CLI and exits with non-zero status on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1) //nolint:gocritic // stop is called explicitly above.
	}
}

// newRootCommand builds the command tree.
func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "json-persistence",
		Short: "Store the latest state of home-automation items as JSON files.",
		Long: `Keeps one JSON file per item holding its latest state.

Files live in the root directory: --root, else root_dir from the configuration,
else <SMARTHOME_USERDATA>/persistence/json, else etc/json.
Store and query work on the directory directly, or through a running server
when --server is given.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return opts.load()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to configuration file (defaults are used when empty)")
	flags.StringVar(&opts.envFile, "env-file", "", "dotenv file to load (default .env when present)")
	flags.StringVarP(&opts.rootDir, "root", "r", "", "directory holding item files")
	flags.StringVarP(&opts.serverAddress, "server", "s", "", "address of a running server to store and query through")
	flags.StringVar(&opts.logLevel, "log-level", "", "minimum log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", string(logger.FormatConsole), "log format (console or json)")

	rootCmd.AddCommand(
		newServeCommand(opts),
		newStoreCommand(opts),
		newQueryCommand(opts),
		newListCommand(opts),
		newWatchCommand(opts),
	)

	version.AttachCobraVersionCommand(rootCmd)

	return rootCmd
}

// load reads the environment and settings and configures logging.
func (o *rootOptions) load() error {
	if err := config.LoadEnv(o.envFile); err != nil {
		return err
	}

	settings, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if o.rootDir != "" {
		settings.RootDir = o.rootDir
	}

	if o.logLevel != "" {
		settings.LogLevel = o.logLevel
	}

	format, ok := logger.ParseFormat(o.logFormat)
	if !ok {
		return fmt.Errorf("unknown log format %q", o.logFormat)
	}

	if err := logger.Setup(settings.LogLevel, format); err != nil {
		return err
	}

	o.settings = settings

	return nil
}

// remote reports whether commands should go through a running server.
func (o *rootOptions) remote() bool {
	return o.serverAddress != ""
}

// dial connects to the server given by --server.
func (o *rootOptions) dial(ctx context.Context) (*api.Client, error) {
	clientOptions := []api.Option{api.WithCallTimeout(o.settings.Timeout)}

	actor, err := api.DetectActor()
	if err != nil {
		logger.WarnKV(ctx, "Calling the server anonymously", "error", err)
	} else {
		clientOptions = append(clientOptions, api.WithActor(actor))
	}

	return api.Dial(ctx, o.serverAddress, clientOptions...)
}

// openLocal builds and activates a persistence service over the local root directory.
func (o *rootOptions) openLocal(ctx context.Context) (*persistence.Service, *repo.FileRepository, error) {
	repository, err := server.NewRepository(o.settings)
	if err != nil {
		return nil, nil, err
	}

	svc := persistence.New(repository)
	if err := svc.Activate(ctx); err != nil {
		return nil, nil, err
	}

	return svc, repository, nil
}
