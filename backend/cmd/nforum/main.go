package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/nforum-dev/nforum/backend/internal/setup"
	"github.com/nforum-dev/nforum/shared/config"
	"github.com/nforum-dev/nforum/shared/logger"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

type app struct {
	configFolder string
	token        string
	printMetrics bool

	deps     *setup.Dependencies
	services setup.Services
}

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	a := &app{}
	root := &cobra.Command{
		Use:           "nforum",
		Short:         "Administer forum categories, forums and topics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().StringVar(&a.configFolder, "config_folder", envOr("NFORUM_CONFIG_FOLDER", "backend/config"), "path to folder with configs")
	root.PersistentFlags().StringVar(&a.token, "token", os.Getenv("NFORUM_TOKEN"), "token of the acting forum user (env NFORUM_TOKEN)")
	root.PersistentFlags().BoolVar(&a.printMetrics, "print-metrics", false, "write service metrics to stderr on exit")

	root.AddCommand(
		a.migrateCmd(),
		a.userCmd(),
		a.categoryCmd(),
		a.forumCmd(),
		a.topicCmd(),
		a.demoCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := root.ExecuteContext(ctx)
	if closeErr := a.close(); closeErr != nil {
		logger.Log.Error("failed to shut down cleanly", "error", closeErr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		stop()
		os.Exit(1)
	}
}

func (a *app) init() error {
	cfg := config.MustLoad(a.configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	deps, err := setup.SetupDependencies(cfg)
	if err != nil {
		return err
	}
	a.deps = deps
	a.services = deps.Services(deps.TokenUsers(a.token))
	return nil
}

func (a *app) close() error {
	if a.deps == nil {
		return nil
	}
	if a.printMetrics {
		families, err := a.deps.Registry.Gather()
		if err != nil {
			return err
		}
		for _, family := range families {
			if _, err := expfmt.MetricFamilyToText(os.Stderr, family); err != nil {
				return err
			}
		}
	}
	return a.deps.Cleanup()
}

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the forum tables if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.deps.Migrate(cmd.Context()); err != nil {
				return err
			}
			logger.Log.Info("schema is up to date")
			return nil
		},
	}
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
