// Package backup periodically exports the whole board as a timestamped
// JSON file. It exports rather than prunes: messages have no automatic
// expiry, so the scheduled job must never mutate the board.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adhocore/gronx"

	"calcboard/pkg/config"
	"calcboard/pkg/logger"
	"calcboard/pkg/store"
)

const defaultCron = "0 2 * * *"

// Start launches the backup scheduler if enabled in cfg and returns a
// cancel func. Disabled config yields a no-op cancel.
func Start(ctx context.Context, cfg *config.Config, adapter store.Adapter) (context.CancelFunc, error) {
	if !cfg.Backup.Enabled {
		logger.Info("backup_disabled")
		return func() {}, nil
	}

	dir := cfg.Backup.Dir
	if dir == "" {
		dir = "./backups"
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		logger.Error("backup_dir_create_failed", "dir", dir, "error", err)
		return nil, err
	}

	cronExpr := cfg.Backup.Cron
	if cronExpr == "" {
		cronExpr = defaultCron
	}
	if !gronx.IsValid(cronExpr) {
		logger.Error("backup_invalid_cron", "cron", cronExpr)
		return nil, fmt.Errorf("invalid backup cron expression: %s", cronExpr)
	}

	logger.Info("backup_enabled", "cron", cronExpr, "dir", dir)
	ctx2, cancel := context.WithCancel(ctx)
	go runScheduler(ctx2, adapter, dir, cronExpr)
	return cancel, nil
}

// runScheduler computes the next tick for the cron expression with gronx
// and sleeps until then, exporting once per tick.
func runScheduler(ctx context.Context, adapter store.Adapter, dir, cronExpr string) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("backup_scheduler_stopping")
			return
		default:
		}

		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Error("backup_nexttick_failed", "cron", cronExpr, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
		case <-ctx.Done():
			logger.Info("backup_scheduler_stopping")
			return
		}

		if err := RunOnce(adapter, dir); err != nil {
			logger.Error("backup_run_error", "error", err)
		}
	}
}

// RunOnce exports the current board to a timestamped file in dir. The
// file is written to a temp name and renamed so a crash never leaves a
// truncated export.
func RunOnce(adapter store.Adapter, dir string) error {
	b, err := adapter.Load()
	if err != nil {
		return fmt.Errorf("backup load failed: %w", err)
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("backup marshal failed: %w", err)
	}
	name := "board-" + time.Now().UTC().Format("20060102T150405Z") + ".json"
	final := filepath.Join(dir, name)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("backup write failed: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("backup rename failed: %w", err)
	}
	logger.Info("backup_written", "path", final, "messages", len(b.Messages))
	return nil
}
