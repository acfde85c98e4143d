// Command threadctl drives the thread API from the terminal.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/olafwrieden/azurechat-v3/interfaces/client"
)

var (
	version = "dev"
	commit  = "unknown"
)

// cliConfig is read from the environment; flags override it
type cliConfig struct {
	APIURL    string        `env:"THREADCTL_API_URL" envDefault:"http://localhost:8080"`
	Token     string        `env:"THREADCTL_TOKEN"`
	Timeout   time.Duration `env:"THREADCTL_TIMEOUT" envDefault:"30s"`
	StaleTime time.Duration `env:"THREADCTL_STALE_TIME" envDefault:"30s"`
	JWTSecret string        `env:"JWT_SECRET"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"azurechat"`
	Verbose   bool
}

func loadConfig() (*cliConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg := &cliConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func newRootCmd(cfg *cliConfig, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "threadctl",
		Short:         "Manage agent threads through the thread API",
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "thread API base URL")
	flags.StringVar(&cfg.Token, "token", cfg.Token, "bearer token")
	flags.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "request timeout")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "enable verbose output")

	root.AddCommand(
		newCreateCmd(cfg),
		newListCmd(cfg),
		newGetCmd(cfg),
		newBookmarkCmd(cfg),
		newRenameCmd(cfg),
		newDeleteCmd(cfg),
		newBrowseCmd(cfg),
		newTokenCmd(cfg),
	)
	return root
}

func newLogger(cfg *cliConfig) *zap.Logger {
	if !cfg.Verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func newClient(cfg *cliConfig, logger *zap.Logger) (*client.Client, error) {
	return client.New(client.Config{
		BaseURL:   cfg.APIURL,
		Token:     cfg.Token,
		Timeout:   cfg.Timeout,
		StaleTime: cfg.StaleTime,
	}, client.WithLogger(logger))
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(cfg, os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
