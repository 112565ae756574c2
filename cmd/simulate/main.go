package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/saeidalz13/battleship-solo/models/match"
)

func main() {
	games := flag.Int("games", 1000, "number of games to simulate")
	seed := flag.Uint64("seed", 0, "first seed, game i uses seed+i; 0 picks one from the clock")
	verbose := flag.Bool("v", false, "log every engine decision")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, TimeFormat: time.TimeOnly})
	engineLogger := log.New(os.Stderr)
	engineLogger.SetLevel(log.WarnLevel)
	if *verbose {
		engineLogger.SetLevel(log.DebugLevel)
	}

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}

	results := make([]match.SimulationResult, *games)

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range results {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			res, err := match.Simulate(*seed+uint64(i), engineLogger)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Fatal("simulation failed", "err", err)
	}

	if len(results) == 0 {
		return
	}

	best, worst, total := results[0], results[0], 0
	for _, res := range results {
		total += res.Shots
		if res.Shots < best.Shots {
			best = res
		}
		if res.Shots > worst.Shots {
			worst = res
		}
	}

	logger.Info("simulation finished",
		"games", len(results),
		"average", fmt.Sprintf("%.2f", float64(total)/float64(len(results))),
		"best", best.Shots,
		"best_seed", best.Seed,
		"worst", worst.Shots,
		"worst_seed", worst.Seed,
	)
}
