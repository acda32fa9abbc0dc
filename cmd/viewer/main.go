package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"

	"github.com/Garsondee/Gridiron-Sense/internal/config"
	"github.com/Garsondee/Gridiron-Sense/internal/dataset"
	"github.com/Garsondee/Gridiron-Sense/internal/eventlog"
	"github.com/Garsondee/Gridiron-Sense/internal/explore"
	"github.com/Garsondee/Gridiron-Sense/internal/view"
)

func main() {
	// A missing .env is normal; it only supplies flag defaults.
	_ = godotenv.Load()

	var cfgPath, dataDir, sqlitePath string
	var seed int64
	var season bool
	flag.StringVar(&cfgPath, "config", os.Getenv("GRIDIRON_CONFIG"), "YAML config file")
	flag.StringVar(&dataDir, "data", os.Getenv("GRIDIRON_DATA"), "directory holding weekly_player_data.csv and yearly_player_data.csv")
	flag.StringVar(&sqlitePath, "sqlite", os.Getenv("GRIDIRON_SQLITE"), "read player data from this SQLite file instead of CSV")
	flag.Int64Var(&seed, "seed", 0, "layout seed (0 = config or time-based)")
	flag.BoolVar(&season, "season", false, "start on season totals instead of weekly data")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if sqlitePath != "" {
		cfg.SQLitePath = sqlitePath
	}

	logger := eventlog.NewLogger(cfg.LogLevel)
	events := eventlog.New(eventlog.WithLogger(logger), eventlog.WithVerbose(cfg.Verbose))

	var src dataset.Source = dataset.CSVSource{Dir: cfg.DataDir}
	if cfg.SQLitePath != "" {
		src = dataset.SQLiteSource{Path: cfg.SQLitePath}
	}
	opts := []explore.Option{explore.WithLog(events)}
	if seed != 0 {
		opts = append(opts, explore.WithSeed(seed))
	}
	if season {
		opts = append(opts, explore.WithTimeframe(dataset.Season))
	}

	ex := explore.New(context.Background(), src, cfg, opts...)
	defer ex.Close()
	logger.WithField("source", cfg.DataDir).Info("viewer starting")

	ebiten.SetWindowTitle("Gridiron Sense")
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	if err := ebiten.RunGame(view.New(ex, cfg)); err != nil {
		log.Fatal(err)
	}
}
