package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/shared-ptr/shared"
)

// Scenario configures one stress run. A YAML scenario file overrides the
// flag values field by field.
type Scenario struct {
	Workers   int    `yaml:"workers"`
	Groups    int    `yaml:"groups"`
	Duration  string `yaml:"duration"`
	CloneBias int    `yaml:"clone_bias"`

	duration time.Duration
}

func (s *Scenario) validate() error {
	if s.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", s.Workers)
	}
	if s.Groups < 1 {
		return fmt.Errorf("groups must be >= 1, got %d", s.Groups)
	}
	if s.CloneBias < 0 || s.CloneBias > 100 {
		return fmt.Errorf("clone_bias must be 0-100, got %d", s.CloneBias)
	}
	d, err := time.ParseDuration(s.Duration)
	if err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %s", d)
	}
	s.duration = d
	return nil
}

func main() {
	var (
		workers     = flag.Int("workers", 8, "Concurrent worker goroutines")
		groups      = flag.Int("groups", 16, "Shared ownership groups under contention")
		duration    = flag.String("duration", "5s", "Run duration")
		cloneBias   = flag.Int("clone-bias", 30, "Percent of iterations that deepen the clone chain")
		configPath  = flag.String("config", "", "YAML scenario file (overrides flags)")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	sc := Scenario{
		Workers:   *workers,
		Groups:    *groups,
		Duration:  *duration,
		CloneBias: *cloneBias,
	}
	if *configPath != "" {
		if err := loadScenario(*configPath, &sc); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if err := sc.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		shared.SetLogger(logger)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(sc); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(sc); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadScenario(path string, sc *Scenario) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scenario: %w", err)
	}
	if err := yaml.Unmarshal(data, sc); err != nil {
		return fmt.Errorf("parse scenario: %w", err)
	}
	return nil
}

func run(sc Scenario) error {
	fmt.Printf("Scenario: workers=%d groups=%d duration=%s clone-bias=%d%%\n",
		sc.Workers, sc.Groups, sc.Duration, sc.CloneBias)

	r := newRunner(sc)
	r.start()
	<-r.done

	elapsed := time.Since(r.started)
	clones := r.stats.cloned.Load()

	fmt.Printf("Elapsed:     %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("Clones:      %d (%.0f/s)\n", clones, float64(clones)/elapsed.Seconds())
	fmt.Printf("Releases:    %d\n", r.stats.released.Load())
	fmt.Printf("Groups:      %d adopted, %d destroyed\n",
		r.stats.adopted.Load(), r.stats.destroyed.Load())
	fmt.Printf("Destructors: %d\n", r.stats.drops.Load())

	if r.err != nil {
		return r.err
	}
	fmt.Println("Heap: clean")
	return nil
}
