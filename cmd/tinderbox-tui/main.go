package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"tinderbox/internal/config"
	"tinderbox/internal/logging"
	"tinderbox/internal/script"
	"tinderbox/internal/sim"
	"tinderbox/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tinderbox-tui:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to the TOML config")
	scene := flag.String("scene", "", "built-in scene to load at startup")
	logPath := flag.String("log", "tinderbox-tui.log", "log file; the terminal is owned by the viewer")
	flag.Parse()

	cfg, source, err := config.Resolve(*configPath)
	if err != nil {
		return err
	}
	log, err := logging.ToFile(cfg.Logging, *logPath)
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
	if *scene != "" {
		eng := script.NewEngine(s, log)
		err := eng.RunScene(*scene)
		eng.Close()
		if err != nil {
			return err
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.Clear()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	viewer := tui.NewViewer(screen, s, tui.Options{FrameRate: cfg.Terminal.FrameRate, Log: log})
	if err := viewer.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
