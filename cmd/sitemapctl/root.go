package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	infralogger "github.com/zescabedo/globalpayments-poc-sub001/infrastructure/logger"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/bootstrap"
)

// version is set at build time with -ldflags.
var version = "dev"

type rootOptions struct {
	configPath string
	debug      bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "sitemapctl",
		Short:         "Generate sitemaps and resolve site URLs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"config file (default is $CONFIG_PATH or ./config.yml)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newGenerateCommand(opts),
		newResolveCommand(opts),
		newSiteCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sitemapctl version %s\n", version)
		},
	}
}

// environment is what every command needs to talk to the backends.
type environment struct {
	services *bootstrap.Services
	close    func()
}

// connect loads configuration and wires the pipeline. Logs go to stderr so
// command output stays clean.
func (o *rootOptions) connect(ctx context.Context) (*environment, error) {
	cfg, err := bootstrap.LoadConfig(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.debug {
		cfg.Service.Debug = true
		cfg.Logging.Level = "debug"
	}

	log, err := infralogger.New(infralogger.Config{
		Level:       cfg.Logging.Level,
		Format:      "console",
		Development: cfg.Service.Debug,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	backend, err := bootstrap.SetupElasticsearch(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	redisClient, err := bootstrap.SetupRedis(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return &environment{
		services: bootstrap.SetupServices(cfg, backend, redisClient, log),
		close: func() {
			if redisClient != nil {
				_ = redisClient.Close()
			}
			_ = log.Sync()
		},
	}, nil
}
