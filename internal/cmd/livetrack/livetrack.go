// Package livetrack parses livetrack command flags and hosts the match
// engine runtime: local snapshot and tracking storage, the sheet of
// record, and the lifecycle service the presentation layer drives.
package livetrack

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/patrickkiley-hue/Commander-Sphere/internal/match/service"
	entrypoint "github.com/patrickkiley-hue/Commander-Sphere/internal/platform/cmd"
	"github.com/patrickkiley-hue/Commander-Sphere/internal/storage/bbolt"
	"github.com/patrickkiley-hue/Commander-Sphere/internal/storage/sqlite"
	"github.com/patrickkiley-hue/Commander-Sphere/internal/telemetry"
)

// Config holds livetrack command configuration.
type Config struct {
	DataDir string `env:"COMMANDER_SPHERE_DATA_DIR" envDefault:"data"`
	GroupID string `env:"COMMANDER_SPHERE_GROUP_ID" envDefault:"default"`
}

// ParseConfig parses environment and flags into a Config. A .env file in
// the working directory is loaded first when present.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory for local and sheet databases")
	fs.StringVar(&cfg.GroupID, "group-id", cfg.GroupID, "Playgroup identifier for sheet rows")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run opens the stores, wires the match service, and blocks until the
// context is cancelled.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceLivetrack, func(ctx context.Context) error {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}

		local, err := bbolt.Open(filepath.Join(cfg.DataDir, "livetrack.db"))
		if err != nil {
			return fmt.Errorf("open local store: %w", err)
		}
		defer local.Close()

		sheet, err := sqlite.Open(filepath.Join(cfg.DataDir, "sheet.db"))
		if err != nil {
			return fmt.Errorf("open sheet store: %w", err)
		}
		defer sheet.Close()

		svc := service.New(
			service.Stores{Snapshot: local, Tracking: local, Rows: sheet},
			service.WithTelemetry(telemetry.NewEmitter(sheet)),
		)

		if pending, ok := svc.PendingSnapshot(ctx); ok {
			log.Printf("resumable session %s (%s, %d players) in snapshot slot",
				pending.ID, pending.Phase, len(pending.Players))
		}

		log.Printf("match engine ready (group %s, data %s)", cfg.GroupID, cfg.DataDir)
		<-ctx.Done()
		return nil
	})
}
