// Command simulate plays headless games against the engine and reports
// aggregate statistics. It is useful for sanity-checking scoring and pacing
// changes: run a few hundred games and compare the score and line
// distributions before and after.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/MikeQin/tetris-game/game/engine"
)

// gameResult captures the outcome of one simulated game.
type gameResult struct {
	Score    int
	Lines    int
	Level    int
	Pieces   int
	Commands int
}

func main() {
	cmd := &cli.Command{
		Name:  "simulate",
		Usage: "play headless games and report score statistics",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "games",
				Usage: "number of games to play",
				Value: 100,
			},
			&cli.IntFlag{
				Name:  "seed",
				Usage: "base random seed; game i uses seed+i",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "level",
				Usage: "starting level",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "max-commands",
				Usage: "command budget per game before the run is cut off",
				Value: 10000,
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "print a line per game",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	games := int(cmd.Int("games"))
	baseSeed := int64(cmd.Int("seed"))
	level := int(cmd.Int("level"))
	maxCommands := int(cmd.Int("max-commands"))
	verbose := cmd.Bool("verbose")

	if games <= 0 {
		return fmt.Errorf("games must be positive, got %d", games)
	}
	if level < engine.MinStartingLevel || level > engine.MaxStartingLevel {
		return fmt.Errorf("level must be between %d and %d, got %d",
			engine.MinStartingLevel, engine.MaxStartingLevel, level)
	}

	results := make([]gameResult, 0, games)
	for i := 0; i < games; i++ {
		result, err := playGame(baseSeed+int64(i), level, maxCommands)
		if err != nil {
			return fmt.Errorf("game %d: %w", i+1, err)
		}
		results = append(results, result)

		if verbose {
			fmt.Printf("game %3d: score=%6d lines=%3d level=%2d pieces=%3d commands=%5d\n",
				i+1, result.Score, result.Lines, result.Level, result.Pieces, result.Commands)
		}
	}

	printSummary(results)
	return nil
}

// playGame runs one game to completion (or the command budget) with a simple
// random-placement policy: pick a rotation and a column, then hard drop.
func playGame(seed int64, level, maxCommands int) (gameResult, error) {
	config := engine.DefaultConfig()
	config.StartingLevel = level
	config.Seed = seed

	eng, err := engine.NewEngine(config)
	if err != nil {
		return gameResult{}, err
	}

	policy := rand.New(rand.NewSource(seed))
	eng.Apply(engine.CmdStart)

	commands := 0
	pieces := 0
	for !eng.IsGameOver() && commands < maxCommands {
		// Random orientation
		for spins := policy.Intn(4); spins > 0; spins-- {
			eng.Apply(engine.CmdRotateCW)
			commands++
		}

		// Random horizontal offset; rejected shifts at the wall are no-ops
		shift := policy.Intn(engine.BoardWidth) - engine.BoardWidth/2
		dir := engine.CmdMoveRight
		if shift < 0 {
			dir = engine.CmdMoveLeft
			shift = -shift
		}
		for ; shift > 0; shift-- {
			eng.Apply(dir)
			commands++
		}

		eng.Apply(engine.CmdHardDrop)
		commands++
		pieces++
	}

	state := eng.GetState()
	return gameResult{
		Score:    state.Score,
		Lines:    state.LinesCleared,
		Level:    state.Level,
		Pieces:   pieces,
		Commands: commands,
	}, nil
}

func printSummary(results []gameResult) {
	if len(results) == 0 {
		return
	}

	scores := make([]int, len(results))
	totalScore, totalLines, totalPieces := 0, 0, 0
	maxLines, maxLevel := 0, 0
	for i, r := range results {
		scores[i] = r.Score
		totalScore += r.Score
		totalLines += r.Lines
		totalPieces += r.Pieces
		if r.Lines > maxLines {
			maxLines = r.Lines
		}
		if r.Level > maxLevel {
			maxLevel = r.Level
		}
	}
	sort.Ints(scores)

	n := len(results)
	fmt.Printf("\nSimulated %d games\n", n)
	fmt.Printf("Score:  min=%d median=%d max=%d avg=%.1f\n",
		scores[0], scores[n/2], scores[n-1], float64(totalScore)/float64(n))
	fmt.Printf("Lines:  total=%d max=%d avg=%.2f\n",
		totalLines, maxLines, float64(totalLines)/float64(n))
	fmt.Printf("Pieces: avg=%.1f per game\n", float64(totalPieces)/float64(n))
	fmt.Printf("Level:  highest reached=%d\n", maxLevel)
}
