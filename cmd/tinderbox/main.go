//go:build ebiten

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"tinderbox/internal/app"
	"tinderbox/internal/config"
	"tinderbox/internal/logging"
	"tinderbox/internal/perf"
	"tinderbox/internal/script"
	"tinderbox/internal/sim"
)

const hudWidth = 160

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tinderbox:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to the TOML config (defaults to $"+config.EnvPath+" or "+config.DefaultPath+")")
	scene := flag.String("scene", "", "built-in scene to load at startup")
	scriptPath := flag.String("script", "", "Lua script to run at startup")
	snapshotPath := flag.String("snapshot", "snapshots/tinderbox.snap", "file used by the save and load keys")
	flag.Parse()

	cfg, source, err := config.Resolve(*configPath)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()
	log.Info("configuration loaded", zap.String("source", source))

	simCfg, err := cfg.SimConfig()
	if err != nil {
		return err
	}
	s := sim.New(simCfg, log)
	s.SetDebug(cfg.DebugToggles())

	if *scene != "" || *scriptPath != "" {
		eng := script.NewEngine(s, log)
		if *scene != "" {
			err = eng.RunScene(*scene)
		} else {
			err = eng.RunFile(*scriptPath)
		}
		eng.Close()
		if err != nil {
			return err
		}
	}

	var reporter *perf.Reporter
	if cfg.Report.Enabled {
		reporter, err = perf.OpenReporter(cfg.Report.Path, cfg.Report.SampleEvery)
		if err != nil {
			return err
		}
		defer reporter.Close()
	}

	game := app.New(s, app.Options{
		Scale:        cfg.Window.Scale,
		HUDWidth:     hudWidth,
		SnapshotPath: *snapshotPath,
		Reporter:     reporter,
		Log:          log,
	})
	size := s.Size()
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(ebiten.SyncWithFPS)
	ebiten.SetWindowSize(size.W*cfg.Window.Scale+hudWidth, size.H*cfg.Window.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
