package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/meridianlabs/purchase-engine/internal/common"
	"github.com/meridianlabs/purchase-engine/internal/config"
	"github.com/meridianlabs/purchase-engine/internal/purchase"
	"github.com/meridianlabs/purchase-engine/internal/service"
	"github.com/meridianlabs/purchase-engine/internal/session"
	"github.com/meridianlabs/purchase-engine/internal/storage"
)

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect and maintain stored purchase sessions",
	}

	cmd.AddCommand(sessionGetCmd())
	cmd.AddCommand(sessionMigrateCmd())
	cmd.AddCommand(sessionPurgeCmd())
	cmd.AddCommand(sessionStatsCmd())

	return cmd
}

// openStore builds the configured session store. The returned close func is
// always safe to call.
func openStore() (service.SessionStore, func(), error) {
	cfg, err := config.LoadStorageConfig()
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Backend {
	case "redis":
		store, err := storage.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		store, err := storage.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Migrate(context.Background()); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
}

// openSQLiteStore is for subcommands that need the sqlite-only surface.
func openSQLiteStore() (*storage.SQLiteStore, func(), error) {
	cfg, err := config.LoadStorageConfig()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Backend != "sqlite" {
		return nil, nil, fmt.Errorf("this command requires the sqlite storage backend, configured backend is %q", cfg.Backend)
	}

	store, err := storage.NewSQLiteStore(cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

func sessionGetCmd() *cobra.Command {
	var rawOutput bool

	cmd := &cobra.Command{
		Use:   "get <session-id>",
		Short: "Fetch a session, upgrade it to the latest schema, and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			payload, err := store.Load(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, common.ErrSessionNotFound) {
					return common.NewUserError(fmt.Sprintf("no session with id %s in the store", args[0]), err)
				}
				return err
			}

			if !rawOutput {
				payload, err = session.Convert(payload)
				if err != nil {
					return err
				}
				// Restore validates the payload end to end before display.
				if _, err := purchase.Restore(payload); err != nil {
					return fmt.Errorf("payload does not restore cleanly: %w", err)
				}
			}

			out, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().BoolVar(&rawOutput, "raw", false, "print the stored payload without migrating it")
	return cmd
}

func sessionMigrateCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Upgrade every stored session payload to the latest schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := openSQLiteStore()
			if err != nil {
				return err
			}
			defer closeStore()

			ids, err := store.SessionIDs(cmd.Context())
			if err != nil {
				return err
			}

			migrated := 0
			failed := 0
			for _, id := range ids {
				payload, err := store.Load(cmd.Context(), id)
				if err != nil {
					common.LogError(err, "Failed to load session", common.Fields{"session_id": id})
					failed++
					continue
				}
				if payload.Int("version") == session.LatestVersion {
					continue
				}

				upgraded, err := session.Convert(payload)
				if err != nil {
					common.LogError(err, "Failed to convert session", common.Fields{"session_id": id})
					failed++
					continue
				}

				if dryRun {
					migrated++
					continue
				}
				if err := store.Save(cmd.Context(), id, upgraded); err != nil {
					common.LogError(err, "Failed to save migrated session", common.Fields{"session_id": id})
					failed++
					continue
				}
				migrated++
			}

			common.LogInfo("Session migration finished", common.Fields{
				"migrated": migrated,
				"failed":   failed,
				"total":    len(ids),
				"dry_run":  dryRun,
			})
			fmt.Printf("Sessions migrated: %d (failed: %d, total: %d)\n", migrated, failed, len(ids))
			if dryRun {
				fmt.Println("Dry run: nothing was written.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "convert without writing back")
	return cmd
}

func sessionPurgeCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete sessions not updated within the retention window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := openSQLiteStore()
			if err != nil {
				return err
			}
			defer closeStore()

			cutoff := time.Now().Add(-olderThan)
			n, err := store.PurgeOlderThan(cmd.Context(), cutoff)
			if err != nil {
				return err
			}

			fmt.Printf("Purged %d sessions older than %s\n", n, olderThan)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 24*time.Hour, "retention window")
	return cmd
}

func sessionStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Report stored session counts by state and stale payload versions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := openSQLiteStore()
			if err != nil {
				return err
			}
			defer closeStore()

			counts, err := store.StateCounts(cmd.Context())
			if err != nil {
				return err
			}
			stale, err := store.StaleVersionCount(cmd.Context())
			if err != nil {
				return err
			}

			total := 0
			for state, count := range counts {
				fmt.Printf("%-25s %d\n", state, count)
				total += count
			}
			fmt.Printf("%-25s %d\n", "total", total)
			fmt.Printf("%-25s %d (below schema version %d)\n", "stale payloads", stale, session.LatestVersion)
			return nil
		},
	}
}
