// Command validate provides a small CLI that validates game configuration JSON
// files in the ../configs directory and, when present, the persisted session
// snapshots in ../sessions. For configs it checks:
//   - JSON structure and required fields
//   - Starting level bounds (1-20)
//   - Seed sanity (non-negative)
//   - Presence of all required message keys
//   - Format verbs: each message template carries the exact %d placeholders
//     the service layer will feed it
//
// For snapshots it runs the engine's state validation, the same check the
// session loader applies before restoring a game.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MikeQin/tetris-game/game/engine"
)

// Config mirrors the JSON schema for a game configuration.
type Config struct {
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	StartingLevel int               `json:"starting_level"`
	Seed          int64             `json:"seed"`
	GhostEnabled  bool              `json:"ghost_enabled"`
	Messages      map[string]string `json:"messages"`
}

// Starting level bounds, mirroring the engine's config validation.
const (
	minStartingLevel = 1
	maxStartingLevel = 20
)

// requiredMessages maps each message key to the number of %d placeholders
// the service layer substitutes when emitting the event.
var requiredMessages = map[string]int{
	"welcome":      0,
	"lines_clear":  2, // lines, score
	"level_up":     1, // level
	"game_over":    1, // final score
	"paused":       0,
	"resumed":      0,
	"hold_used":    0,
	"score_status": 3, // score, lines, level
}

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateConfig loads and validates a single configuration JSON file.
// It performs structural checks, level and seed bounds, message presence,
// and format-verb analysis for the message templates.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	// Validate identity fields
	if config.Name == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "name is required")
	}
	if config.Description == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "description is required")
	}

	// Validate level and seed settings
	if config.StartingLevel < minStartingLevel || config.StartingLevel > maxStartingLevel {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("starting_level must be between %d and %d, got %d",
			minStartingLevel, maxStartingLevel, config.StartingLevel))
	}

	if config.Seed < 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("seed must be non-negative, got %d", config.Seed))
	}

	// Validate messages
	for msg := range requiredMessages {
		if _, exists := config.Messages[msg]; !exists {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Missing required message: %s", msg))
		}
	}

	// Format-verb validation: a template with the wrong number of %d verbs
	// would render garbage (or %!d(MISSING)) at event time.
	if result.Valid {
		verbResult := validateMessageVerbs(config.Messages)
		if !verbResult.Valid {
			result.Valid = false
		}
		result.Errors = append(result.Errors, verbResult.Errors...)
	}

	// Add informational data
	if result.Valid {
		ghost := "off"
		if config.GhostEnabled {
			ghost = "on"
		}
		seed := "time-seeded"
		if config.Seed != 0 {
			seed = fmt.Sprintf("%d", config.Seed)
		}
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Starting level: %d", config.StartingLevel))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Ghost piece: %s", ghost))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Seed: %s", seed))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Messages: %d/%d", len(config.Messages), len(requiredMessages)))
	}

	return result
}

// validateMessageVerbs checks that every message template carries exactly the
// number of %d placeholders its event expects, and no other verbs.
func validateMessageVerbs(messages map[string]string) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	badTemplates := 0
	for key, wantVerbs := range requiredMessages {
		template, exists := messages[key]
		if !exists {
			continue // presence already validated
		}

		got := countVerbs(template, 'd')
		if got != wantVerbs {
			result.Valid = false
			badTemplates++
			result.Errors = append(result.Errors, fmt.Sprintf(
				"Message %q must contain %d %%d placeholder(s), found %d", key, wantVerbs, got))
		}

		if other := countOtherVerbs(template); other > 0 {
			result.Valid = false
			badTemplates++
			result.Errors = append(result.Errors, fmt.Sprintf(
				"Message %q contains %d unsupported format verb(s); only %%d is substituted", key, other))
		}
	}

	if badTemplates == 0 {
		result.Errors = append(result.Errors, "✓ Format verbs: all message templates well-formed")
	}

	return result
}

// countVerbs counts occurrences of the %<verb> placeholder, treating %% as a
// literal percent sign.
func countVerbs(template string, verb byte) int {
	count := 0
	for i := 0; i+1 < len(template); i++ {
		if template[i] != '%' {
			continue
		}
		if template[i+1] == '%' {
			i++ // literal percent
			continue
		}
		if template[i+1] == verb {
			count++
		}
	}
	return count
}

// countOtherVerbs counts format verbs that are not %d and not the %% escape.
func countOtherVerbs(template string) int {
	count := 0
	for i := 0; i+1 < len(template); i++ {
		if template[i] != '%' {
			continue
		}
		if template[i+1] == '%' {
			i++
			continue
		}
		if template[i+1] != 'd' {
			count++
		}
	}
	return count
}

// persistedSnapshot is the part of a session file the snapshot check needs.
type persistedSnapshot struct {
	ID         string            `json:"id"`
	ConfigName string            `json:"config_name"`
	GameState  *engine.GameState `json:"game_state"`
}

// validateSnapshot loads a persisted session file and runs the engine's
// state validation on its game state.
func validateSnapshot(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var snapshot persistedSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if snapshot.ID == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "id is required")
	}
	if snapshot.ConfigName == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "config_name is required")
	}

	if err := engine.ValidateState(snapshot.GameState); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Session: %s (config %s)", snapshot.ID, snapshot.ConfigName))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Score: %d, Lines: %d, Level: %d",
			snapshot.GameState.Score, snapshot.GameState.LinesCleared, snapshot.GameState.Level))
	}

	return result
}

// main scans ../configs for *.json files and validates each one, then does
// the same for any session snapshots in ../sessions, printing a concise
// report and exiting with non-zero status if anything is invalid.
func main() {
	configDir := "../configs"
	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	snapshots, _ := filepath.Glob(filepath.Join("../sessions", "*.json"))

	allValid := true
	results := make([]ValidationResult, 0, len(files)+len(snapshots))
	for _, file := range files {
		results = append(results, validateConfig(file))
	}
	for _, file := range snapshots {
		results = append(results, validateSnapshot(file))
	}

	for _, result := range results {
		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
