// Command tinderbox-bench runs the simulation headless for a fixed number of
// ticks and reports timing, optionally comparing serial and parallel runs.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tinderbox/internal/config"
	"tinderbox/internal/logging"
	"tinderbox/internal/perf"
	"tinderbox/internal/render"
	"tinderbox/internal/script"
	"tinderbox/internal/sim"
	"tinderbox/internal/snapshot"
)

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

type options struct {
	ticks    int
	scene    string
	script   string
	restore  string
	report   string
	sample   int
	snapshot string
	compare  bool
}

type result struct {
	label   string
	elapsed time.Duration
	stats   sim.Stats
	records []sim.Record
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tinderbox-bench:", err)
		os.Exit(1)
	}
}

func run() error {
	var opts options
	configPath := flag.String("config", "", "path to the TOML config")
	flag.IntVar(&opts.ticks, "ticks", 600, "number of ticks to simulate")
	flag.StringVar(&opts.scene, "scene", "volcano", "built-in scene to load ("+strings.Join(script.Scenes(), ", ")+")")
	flag.StringVar(&opts.script, "script", "", "Lua script to run instead of a scene")
	flag.StringVar(&opts.restore, "restore", "", "snapshot to load instead of a scene")
	flag.StringVar(&opts.report, "report", "", "append sampled stats to this CSV file")
	flag.IntVar(&opts.sample, "sample", 30, "ticks between report rows")
	flag.StringVar(&opts.snapshot, "snapshot", "", "save the final state to this file")
	flag.BoolVar(&opts.compare, "compare", false, "run serial and parallel schedulers and compare final states")
	var overrides kvList
	flag.Var(&overrides, "set", "simulation override in key=value form (repeatable)")
	flag.Parse()

	cfg, _, err := config.Resolve(*configPath)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	simCfg, err := cfg.SimConfig()
	if err != nil {
		return err
	}
	for _, kv := range overrides {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("override %q: want key=value", kv)
		}
		if err := simCfg.Apply(key, value); err != nil {
			return err
		}
	}

	if !opts.compare {
		res, err := bench("run", simCfg, opts, log)
		if err != nil {
			return err
		}
		printResult(res)
		return finish(res, opts)
	}

	serialCfg, parallelCfg := simCfg, simCfg
	serialCfg.Parallel = false
	parallelCfg.Parallel = true
	results := make([]result, 2)
	g, _ := errgroup.WithContext(context.Background())
	g.Go(func() error {
		var err error
		results[0], err = bench("serial", serialCfg, opts, log)
		return err
	})
	g.Go(func() error {
		quiet := opts
		quiet.report = ""
		var err error
		results[1], err = bench("parallel", parallelCfg, quiet, log)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	for _, res := range results {
		printResult(res)
	}
	if slices.Equal(results[0].records, results[1].records) {
		fmt.Printf("Final states match (%d particles).\n", len(results[0].records))
	} else {
		fmt.Println("Final states DIFFER between serial and parallel runs.")
	}
	return finish(results[0], opts)
}

func bench(label string, cfg sim.Config, opts options, log *zap.Logger) (result, error) {
	s := sim.New(cfg, log.Named(label))
	if err := setup(s, opts, log); err != nil {
		return result{}, err
	}

	var reporter *perf.Reporter
	if opts.report != "" {
		r, err := perf.OpenReporter(opts.report, opts.sample)
		if err != nil {
			return result{}, err
		}
		defer r.Close()
		reporter = r
	}

	size := s.Size()
	surface := render.NewSurface(size.W, size.H)
	start := time.Now()
	for i := 0; i < opts.ticks; i++ {
		s.Step(surface)
		if reporter != nil {
			if _, err := reporter.Observe(s.Stats()); err != nil {
				return result{}, err
			}
		}
	}
	return result{
		label:   label,
		elapsed: time.Since(start),
		stats:   s.Stats(),
		records: s.CreateSnapshot(),
	}, nil
}

func setup(s *sim.Simulation, opts options, log *zap.Logger) error {
	if opts.restore != "" {
		_, err := snapshot.Restore(s, opts.restore)
		return err
	}
	if opts.scene == "" && opts.script == "" {
		return nil
	}
	eng := script.NewEngine(s, log)
	defer eng.Close()
	if opts.script != "" {
		return eng.RunFile(opts.script)
	}
	return eng.RunScene(opts.scene)
}

func printResult(res result) {
	perTick := time.Duration(0)
	if res.stats.Ticks > 0 {
		perTick = res.elapsed / time.Duration(res.stats.Ticks)
	}
	fmt.Printf("%-8s ticks %d in %v (%v/tick), particles %d, active %d, burning %d, last tick cells %d chunks %d\n",
		res.label, res.stats.Ticks, res.elapsed.Round(time.Millisecond), perTick,
		res.stats.Particles, res.stats.Active, res.stats.Burning, res.stats.PixelVisits(), res.stats.ChunkVisits)
}

func finish(res result, opts options) error {
	if opts.snapshot != "" {
		if err := snapshot.Save(opts.snapshot, res.records); err != nil {
			return err
		}
		fmt.Printf("Saved %d records to %s\n", len(res.records), opts.snapshot)
	}
	if opts.report == "" {
		return nil
	}
	rows, err := perf.ReadFile(opts.report)
	if err != nil {
		return err
	}
	fmt.Printf("\nReport %s:\n", opts.report)
	return perf.Summarize(rows).WriteTable(os.Stdout)
}
