// Command analyze prints quick, human-readable heuristics about configuration
// files in the project's configs directory. It summarizes starting level and
// pacing, the score value of each clear size at that level, and how many
// lines separate the preset from the fastest drop cadence.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/MikeQin/tetris-game/game/engine"
)

// AnalysisConfig is a light struct for reading config files used by analysis.
type AnalysisConfig struct {
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	StartingLevel int               `json:"starting_level"`
	Seed          int64             `json:"seed"`
	GhostEnabled  bool              `json:"ghost_enabled"`
	Messages      map[string]string `json:"messages"`
}

func main() {
	configDir := "configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil || len(files) == 0 {
		fmt.Printf("No config files found in %s\n", configDir)
		os.Exit(1)
	}
	sort.Strings(files)

	for _, configFile := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(configFile))
		analyzeConfig(configFile)
	}
}

func analyzeConfig(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		return
	}

	var config AnalysisConfig
	if err := json.Unmarshal(data, &config); err != nil {
		fmt.Printf("Error parsing JSON: %v\n", err)
		return
	}

	level := config.StartingLevel
	if level < 1 {
		level = 1
	}

	fmt.Printf("Name: %s\n", config.Name)
	fmt.Printf("Starting Level: %d\n", level)
	if config.Seed != 0 {
		fmt.Printf("Seed: %d (deterministic bag sequence)\n", config.Seed)
	} else {
		fmt.Printf("Seed: time-seeded\n")
	}
	if config.GhostEnabled {
		fmt.Printf("Ghost Piece: enabled\n")
	} else {
		fmt.Printf("Ghost Piece: disabled\n")
	}

	// Pacing
	interval := engine.DropInterval(level)
	fmt.Printf("Drop Interval at start: %v (%.1f rows/sec)\n",
		interval, float64(1000)/float64(interval.Milliseconds()))

	// Score table at the starting level
	fmt.Printf("Clear values at level %d: single=%d double=%d triple=%d tetris=%d\n",
		level,
		engine.LineScore(1, level), engine.LineScore(2, level),
		engine.LineScore(3, level), engine.LineScore(4, level))

	// Distance to the speed floor: level 10.5s and up all share the 50ms cadence
	floorLevel := level
	for engine.DropInterval(floorLevel) > engine.DropInterval(floorLevel+1) {
		floorLevel++
	}
	if floorLevel == level {
		fmt.Printf("⚠️  Starts at the %v speed floor - immediate maximum pace\n", interval)
	} else {
		// Levels rise one per 10 lines above the starting level's threshold
		linesToFloor := (floorLevel - level) * 10
		fmt.Printf("Speed floor (%v) reached at level %d, roughly %d lines away\n",
			engine.DropInterval(floorLevel), floorLevel, linesToFloor)
	}

	// Pressure classification from the starting cadence
	switch {
	case interval.Milliseconds() <= 100:
		fmt.Printf("Difficulty: EXPERT - sub-100ms drops from the first piece\n")
	case interval.Milliseconds() <= 400:
		fmt.Printf("Difficulty: HARD - fast drops demand pre-planned placements\n")
	case interval.Milliseconds() <= 700:
		fmt.Printf("Difficulty: MEDIUM - steady pressure with room to plan\n")
	default:
		fmt.Printf("Difficulty: RELAXED - ample time per placement\n")
	}
}
