package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mf-rl/bot-name-generator/internal/app"
	"github.com/mf-rl/bot-name-generator/internal/config"
	"github.com/mf-rl/bot-name-generator/internal/namegen"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "namegen",
		Short:        "Serve generated bot display names over HTTP",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.json (default: next to the executable, then the working directory)")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	})
	root.AddCommand(newGenerateCmd(&configPath))
	return root
}

func newGenerateCmd(configPath *string) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print generated names using the configured provider",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			svc := namegen.NewServiceFromConfig(cfg.NameGenerator)
			for i := 0; i < count; i++ {
				result := svc.Generate(cmd.Context())
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", result.Name, result.Provider)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of names to print")
	return cmd
}

func loadConfig(path string) (config.Config, error) {
	envPath, loaded, err := loadEnvFile()
	if err != nil {
		log.Printf("load env file %s failed: %v", envPath, err)
	} else if loaded > 0 {
		log.Printf("loaded %d variables from %s", loaded, envPath)
	}

	if path == "" {
		path = config.DefaultPath()
	}
	return config.Load(path)
}

func runServe(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	srv, err := app.NewServer(cfg)
	if err != nil {
		log.Fatalf("init server failed: %v", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx); err != nil {
		log.Fatalf("listen failed: %v", err)
	}
	log.Printf("server stopped")
	return nil
}
