// Package cli provides the cobra command tree for docbase.
//
// Commands are registered on rootCmd in each file's init. Services are
// injected with SetServices, or built lazily by the Bootstrap passed to
// Execute so that --data-dir and --config-dir are honoured.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docbase/internal/core/ports/driving"
	"github.com/custodia-labs/docbase/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Global flags.
var (
	verbose   bool
	dataDir   string
	configDir string
)

// Injected services.
var (
	repository      driving.Repository
	settingsService driving.SettingsService
	bootstrap       Bootstrap
	closeServices   func() error
)

// Options carries the global flags a Bootstrap needs.
type Options struct {
	// DataDir holds metadata.db and the per-base vector databases.
	DataDir string

	// ConfigDir holds config.toml.
	ConfigDir string
}

// Services are the driving ports used by the commands.
type Services struct {
	Repository driving.Repository
	Settings   driving.SettingsService

	// Close releases the resources behind the services. Optional.
	Close func() error
}

// Bootstrap builds the services on first use.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var rootCmd = &cobra.Command{
	Use:   "docbase",
	Short: "Local document bases for retrieval-augmented generation",
	Long: `docbase ingests files, folders and web pages into named document bases.
Each base splits documents into chunks, embeds them and stores the vectors
so that similar passages can be retrieved later.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.docbase/data)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.docbase)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServices injects ready-made services.
func SetServices(repo driving.Repository, settings driving.SettingsService) {
	repository = repo
	settingsService = settings
}

// Execute runs the command tree. boot may be nil when services were
// injected with SetServices.
func Execute(ctx context.Context, boot Bootstrap) error {
	bootstrap = boot
	defer func() {
		if closeServices != nil {
			if err := closeServices(); err != nil {
				logger.Warn("Failed to close services: %v", err)
			}
			closeServices = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

// ensureServices runs the bootstrap once if no services were injected.
func ensureServices(ctx context.Context) error {
	if repository != nil && settingsService != nil {
		return nil
	}
	if bootstrap == nil {
		return nil
	}

	svc, err := bootstrap(ctx, Options{DataDir: dataDir, ConfigDir: configDir})
	if err != nil {
		return err
	}
	repository = svc.Repository
	settingsService = svc.Settings
	closeServices = svc.Close
	return nil
}

func getRepository(ctx context.Context) (driving.Repository, error) {
	if err := ensureServices(ctx); err != nil {
		return nil, err
	}
	if repository == nil {
		return nil, errors.New("repository not configured")
	}
	return repository, nil
}

func getSettingsService(ctx context.Context) (driving.SettingsService, error) {
	if err := ensureServices(ctx); err != nil {
		return nil, err
	}
	if settingsService == nil {
		return nil, errors.New("settings service not configured")
	}
	return settingsService, nil
}
