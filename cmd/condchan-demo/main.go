// Command condchan-demo runs producers and consumers over channels declared by
// a YAML config, forwarding "jobs" into "results" through a pipe.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/joeycumines/stumpy"
	"github.com/qjpcpu/condchan"
	"github.com/qjpcpu/condchan/registry"
	"golang.org/x/sync/errgroup"
)

const defaultConfig = `
log_level: info
channels:
  - name: jobs
    type: int
    capacity: 4
  - name: results
    type: int
    capacity: 0
`

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML channel config (defaults to a built-in one)")
		producers  = flag.Int("producers", 4, "number of producer goroutines")
		consumers  = flag.Int("consumers", 2, "number of consumer goroutines")
		items      = flag.Int("items", 100, "values sent by each producer")
	)
	flag.Parse()

	if err := run(*configPath, *producers, *consumers, *items); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, producers, consumers, items int) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(os.Stderr)),
		stumpy.L.WithLevel(level),
	).Logger()

	reg, err := registry.FromConfig(cfg, registry.WithLogger(logger))
	if err != nil {
		return err
	}
	defer reg.DestroyAll()

	jobs, err := registry.Typed[int](reg, "jobs")
	if err != nil {
		return err
	}
	results, err := registry.Typed[int](reg, "results")
	if err != nil {
		return err
	}

	pipe := condchan.NewPipe(jobs, results, condchan.WithLogger(logger))
	defer pipe.Break()

	sum, count, err := exchange(jobs, results, producers, consumers, items)
	if err != nil {
		return err
	}
	<-pipe.Done()
	if err := pipe.Err(); err != nil {
		return err
	}

	logger.Info().
		Int(`producers`, producers).
		Int(`consumers`, consumers).
		Int64(`received`, count).
		Int64(`sum`, sum).
		Log(`exchange complete`)

	if want := int64(producers * items); count != want {
		return fmt.Errorf("received %d values, want %d", count, want)
	}
	return nil
}

func loadConfig(path string) (*registry.Config, error) {
	if path == "" {
		return registry.ParseConfig([]byte(defaultConfig))
	}
	return registry.LoadConfig(path)
}

// exchange sends 1..items from each producer into in, closing it once every
// producer is done, and sums everything received from out until it is
// drained.
func exchange(in condchan.Channel[int], out condchan.Channel[int], producers, consumers, items int) (sum, count int64, err error) {
	var pg errgroup.Group
	for p := 0; p < producers; p++ {
		pg.Go(func() error {
			for i := 1; i <= items; i++ {
				if err := in.Send(i); err != nil {
					if errors.Is(err, condchan.ErrClosed) {
						// shutdown, not a failure
						return nil
					}
					return err
				}
			}
			return nil
		})
	}

	var cg errgroup.Group
	for c := 0; c < consumers; c++ {
		cg.Go(func() error {
			for {
				v, ok := out.Receive()
				if !ok {
					return nil
				}
				atomic.AddInt64(&sum, int64(v))
				atomic.AddInt64(&count, 1)
			}
		})
	}

	err = pg.Wait()
	in.Close()
	if cerr := cg.Wait(); err == nil {
		err = cerr
	}
	return sum, count, err
}
