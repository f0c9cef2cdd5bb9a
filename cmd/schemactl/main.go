// Package main is schemactl, a small CLI for building and clearing schema
// graphs from a terminal, mainly for debugging an instance without the
// extension UI.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/schemalens/core/internal/cache"
	"github.com/schemalens/core/internal/config"
	"github.com/schemalens/core/internal/fetch"
	"github.com/schemalens/core/internal/service"
)

var (
	flagInstance string
	flagRoot     string
	flagToken    string
	flagForce    bool
	flagMemory   bool
)

func main() {
	root := &cobra.Command{
		Use:           "schemactl",
		Short:         "Build and manage CRM schema graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagInstance, "instance", "", "instance host or URL (required)")
	root.PersistentFlags().BoolVar(&flagMemory, "memory", false, "use an in-memory cache instead of redis")

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Build or expand the graph and print it as JSON",
		RunE:  runBuild,
	}
	buildCmd.Flags().StringVar(&flagRoot, "root", "", "object to expand around (omit for the object catalog)")
	buildCmd.Flags().StringVarP(&flagToken, "token", "t", "", "session token (or SCHEMALENS_TOKEN)")
	buildCmd.Flags().BoolVar(&flagForce, "force", false, "bypass the cached fast path")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the persisted graph for an instance",
		RunE:  runClear,
	}

	root.AddCommand(buildCmd, clearCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newService() (*service.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}

	var store cache.Store
	if flagMemory {
		store = cache.NewMemoryStore()
	} else {
		redisStore, err := cache.NewRedisStore(cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Cache.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Redis.Addr, err)
		}
		store = redisStore
	}

	return service.New(
		cache.NewGraphCache(store, cfg.Cache.TTL, logger),
		service.APIClientFactory(cfg.API.Version, cfg.Fetch.MaxRetries, logger),
		fetch.Options{BatchSize: cfg.Fetch.BatchSize, PacingDelay: cfg.Fetch.PacingDelay},
		logger,
	), nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	if flagInstance == "" {
		return fmt.Errorf("--instance is required")
	}
	token := flagToken
	if token == "" {
		token = os.Getenv("SCHEMALENS_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("a session token is required (--token or SCHEMALENS_TOKEN)")
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	result, err := svc.EnsureGraph(cmd.Context(), service.EnsureRequest{
		Instance:     flagInstance,
		Root:         flagRoot,
		Token:        token,
		ForceRefresh: flagForce,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func runClear(cmd *cobra.Command, args []string) error {
	if flagInstance == "" {
		return fmt.Errorf("--instance is required")
	}
	svc, err := newService()
	if err != nil {
		return err
	}
	if err := svc.ClearGraph(cmd.Context(), flagInstance); err != nil {
		return err
	}
	fmt.Println("cleared", flagInstance)
	return nil
}
