package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/fieldex/internal/config"
	dbRedis "github.com/kailas-cloud/fieldex/internal/db/redis"
)

const purgeChunk = 500

// keyStore is what purge needs from the database.
type keyStore interface {
	Scan(ctx context.Context, pattern string) ([]string, error)
	Del(ctx context.Context, keys ...string) error
}

func newPurgeCmd() *cobra.Command {
	var configPath string
	var yes bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every index key stored in Redis",
		Long: `Delete every key under the configured database.key_prefix. Indexes of
the memory driver live in the server process and are not affected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes && !dryRun {
				return errors.New("refusing to purge without --yes")
			}

			cfg, err := loadConfig(config.GetEnv(), configPath)
			if err != nil {
				return err
			}
			if len(cfg.Database.Addrs) == 0 {
				return errors.New("database.addrs is not configured")
			}

			store, err := dbRedis.NewStore(dbRedis.Config{
				Addrs:    cfg.Database.Addrs,
				Username: cfg.Database.Username,
				Password: cfg.Database.Password,
				DB:       cfg.Database.DB,
			})
			if err != nil {
				return err
			}
			defer store.Close()

			timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
			if err := store.WaitForReady(cmd.Context(), timeout); err != nil {
				return err
			}

			n, err := purgeKeys(cmd.Context(), store, cfg.Database.KeyPrefix, dryRun)
			if err != nil {
				return err
			}
			verb := "deleted"
			if dryRun {
				verb = "would delete"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %d keys under %q\n", verb, n, cfg.Database.KeyPrefix)
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Count the keys without deleting them")

	return cmd
}

// purgeKeys deletes every key under prefix in chunks and returns how many
// matched.
func purgeKeys(ctx context.Context, s keyStore, prefix string, dryRun bool) (int, error) {
	if prefix == "" {
		return 0, errors.New("empty key prefix would match every key")
	}
	keys, err := s.Scan(ctx, prefix+"*")
	if err != nil {
		return 0, err
	}
	if dryRun {
		return len(keys), nil
	}
	for start := 0; start < len(keys); start += purgeChunk {
		end := min(start+purgeChunk, len(keys))
		if err := s.Del(ctx, keys[start:end]...); err != nil {
			return start, err
		}
	}
	return len(keys), nil
}
