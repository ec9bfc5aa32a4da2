package main

import (
	"fmt"

	"github.com/iwvelando/milkminder/internal/config"
	"github.com/iwvelando/milkminder/internal/server"
	"github.com/iwvelando/milkminder/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveOptions are the command line overrides for the server config file.
type serveOptions struct {
	configPath    string
	address       string
	maxUploadSize string
}

func serveCmd(a *app) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the workbook upload page and report API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadServerConfig(opts, a.conf.Workbook)
			if err != nil {
				return err
			}

			// A logging block in the server config replaces the CLI logger.
			logger := a.logger
			if cfg.Logging != (config.LoggingConfig{}) {
				logger, err = initializeLogger(cfg.Logging, a.logLevel)
				if err != nil {
					return fmt.Errorf("failed to initialize server logger: %w", err)
				}
				defer func() { _ = logger.Sync() }()
			}

			logger.Info("starting milkminder server",
				zap.String("op", "main.serve"),
				zap.String("version", version),
			)
			return server.Run(cmd.Context(), logger, cfg, version)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&opts.address, "address", "", "listen address override (e.g. :8080)")
	cmd.Flags().StringVar(&opts.maxUploadSize, "max-upload-size", "", "upload size limit override (e.g. 256K, 10M)")

	return cmd
}

// loadServerConfig reads the server config file and applies flag overrides.
// The report config's sheet is used when the server config names none.
func loadServerConfig(opts serveOptions, workbook config.WorkbookConfig) (*server.Config, error) {
	cfg, err := server.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	if opts.address != "" {
		cfg.Address = opts.address
	}
	if opts.maxUploadSize != "" {
		size, err := server.ParseSize(opts.maxUploadSize)
		if err != nil {
			return nil, fmt.Errorf("invalid --max-upload-size: %w", err)
		}
		if size <= 0 {
			return nil, fmt.Errorf("invalid --max-upload-size: %s", opts.maxUploadSize)
		}
		cfg.SetUploadSizeBytes(size)
	}
	if cfg.Workbook.Sheet == "" {
		cfg.Workbook.Sheet = workbook.Sheet
	}

	return cfg, nil
}
