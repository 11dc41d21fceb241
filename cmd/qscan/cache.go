package main

import (
	"fmt"
	"os"

	"github.com/ludo-technologies/qscan/internal/cache"
	"github.com/ludo-technologies/qscan/internal/config"
	"github.com/spf13/cobra"
)

var cacheConfigPath string

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the persisted result cache",
	}

	cmd.PersistentFlags().StringVarP(&cacheConfigPath, "config", "c", "",
		"Path to config file")

	cmd.AddCommand(cacheStatsCmd())
	cmd.AddCommand(cacheClearCmd())
	return cmd
}

func cacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cached entry count",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cacheConfigPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			c := cache.NewResultCache(
				cache.WithMaxEntries(cfg.Cache.MaxEntries),
				cache.WithPersistence(cfg.Cache.Path),
			)
			stats := c.Stats()
			fmt.Printf("Cache file: %s\n", cfg.Cache.Path)
			fmt.Printf("Entries:    %d\n", stats.Size)
			return nil
		},
	}
}

func cacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cacheConfigPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			if err := os.Remove(cfg.Cache.Path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove cache file: %w", err)
			}
			fmt.Printf("Cleared %s\n", cfg.Cache.Path)
			return nil
		},
	}
}
