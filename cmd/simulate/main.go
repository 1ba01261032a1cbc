// Command simulate plays seeded City Explorer games headlessly and reports
// how long games run, how often each seat wins and how the bus behaves when
// teams run out of coins.
//
// Usage:
//
//	go run ./cmd/simulate --config configs/little_town.json --games 200 --strategy ride
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"syscall"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/city-explorer-game/game/engine"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "Play seeded games headlessly and summarize the results",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "Board config file (classic board when empty)"},
			&cli.IntFlag{Name: "games", Value: 100, Usage: "Number of games to play"},
			&cli.IntFlag{Name: "teams", Value: 2, Usage: "Teams per game"},
			&cli.IntFlag{Name: "seed", Value: 1, Usage: "Seed of the first game; game i uses seed+i"},
			&cli.IntFlag{Name: "workers", Value: runtime.NumCPU(), Usage: "Games played in parallel"},
			&cli.IntFlag{Name: "max-turns", Value: 500, Usage: "Give up on a game after this many turns"},
			&cli.StringFlag{Name: "strategy", Value: string(StrategySmart), Usage: "Bus strategy: walk, smart or ride"},
			&cli.FloatFlag{Name: "accuracy", Value: 0.7, Usage: "Chance a trivia answer is correct"},
			&cli.BoolFlag{Name: "debug", Usage: "Log every engine command"},
		},
		Action: simulateAction,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "simulate: %v\n", err)
		os.Exit(1)
	}
}

func simulateAction(ctx context.Context, cmd *cli.Command) error {
	strategy, err := ParseStrategy(cmd.String("strategy"))
	if err != nil {
		return err
	}

	config := engine.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		if config, err = engine.LoadGameConfig(path); err != nil {
			return err
		}
	}

	logger := zap.NewNop()
	if cmd.Bool("debug") {
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
		defer logger.Sync()
	}

	opts := Options{
		Teams:    cmd.Int("teams"),
		Strategy: strategy,
		Accuracy: cmd.Float("accuracy"),
		MaxTurns: cmd.Int("max-turns"),
		Logger:   logger,
	}
	results, err := runGames(ctx, config, int64(cmd.Int("seed")), cmd.Int("games"), cmd.Int("workers"), opts)
	if err != nil {
		return err
	}

	fmt.Printf("=== %s: %d games, %d teams, %s strategy ===\n", config.Name, len(results), opts.Teams, strategy)
	printSummary(summarize(results, opts.Teams))
	return nil
}

// runGames plays games seeded seed, seed+1, ... with at most workers in flight
func runGames(ctx context.Context, config *engine.GameConfig, seed int64, games, workers int, opts Options) ([]GameResult, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]GameResult, games)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < games; i++ {
		i := i
		g.Go(func() error {
			result, err := playGame(gctx, config, seed+int64(i), opts)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Summary aggregates a batch of games
type Summary struct {
	Games    int
	Finished int

	MinTurns, MaxTurns, MedianTurns int
	AvgTurns                        float64

	// WinsBySeat[i] counts wins by the team that started at Homes[i]
	WinsBySeat []int

	BusBoardings int
	BusLegs      int
	ForcedExits  int
	// Oscillating counts games with at least one forced exit
	Oscillating int

	Questions int
	RedLights int
}

func summarize(results []GameResult, teams int) Summary {
	s := Summary{Games: len(results), WinsBySeat: make([]int, teams)}

	var turns []int
	total := 0
	for _, r := range results {
		s.BusBoardings += r.BusBoardings
		s.BusLegs += r.BusLegs
		s.ForcedExits += r.ForcedExits
		s.Questions += r.Questions
		s.RedLights += r.RedLights
		if r.ForcedExits > 0 {
			s.Oscillating++
		}
		if !r.Finished {
			continue
		}
		s.Finished++
		if r.WinnerID >= 1 && r.WinnerID <= teams {
			s.WinsBySeat[r.WinnerID-1]++
		}
		turns = append(turns, r.Turns)
		total += r.Turns
	}

	if len(turns) > 0 {
		sort.Ints(turns)
		s.MinTurns = turns[0]
		s.MaxTurns = turns[len(turns)-1]
		s.MedianTurns = turns[len(turns)/2]
		s.AvgTurns = float64(total) / float64(len(turns))
	}
	return s
}

func printSummary(s Summary) {
	fmt.Printf("Finished: %d/%d\n", s.Finished, s.Games)
	if s.Finished > 0 {
		fmt.Printf("Turns: min %d, median %d, avg %.1f, max %d\n", s.MinTurns, s.MedianTurns, s.AvgTurns, s.MaxTurns)
	}
	for i, wins := range s.WinsBySeat {
		fmt.Printf("   Team %d wins: %d\n", i+1, wins)
	}
	fmt.Printf("Questions: %d, red lights placed: %d\n", s.Questions, s.RedLights)
	fmt.Printf("Bus: %d boardings, %d legs\n", s.BusBoardings, s.BusLegs)
	if s.ForcedExits > 0 {
		fmt.Printf("⚠️  %d forced exits for lack of fare in %d games\n", s.ForcedExits, s.Oscillating)
	} else {
		fmt.Println("✅ No team was forced off the bus")
	}
	if s.Finished < s.Games {
		fmt.Printf("⚠️  %d games hit the turn limit\n", s.Games-s.Finished)
	}
}
