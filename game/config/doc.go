// Package config provides configuration management for the Tetris game.
//
// The config package handles:
//   - Loading game presets from JSON files
//   - Configuration validation and verification
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Game presets are stored as JSON files in the configs directory.
// Each preset defines:
//   - Starting level (which sets the initial gravity speed)
//   - An optional fixed bag-shuffle seed for reproducible games
//   - Whether the ghost piece projection is enabled
//   - Message templates for game events
//
// Available Configurations:
//
// The package ships with several presets:
//   - classic: Standard marathon game starting at level 1
//   - marathon: Faster start at level 5 for experienced players
//   - zen: Relaxed game that stays at level 1 with ghost enabled
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load specific configuration
//	gameConfig, err := manager.LoadConfig("marathon")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Get default configuration
//	defaultConfig := manager.GetDefault()
//
//	// List available configurations
//	configs, err := manager.ListConfigs()
//
// Validation:
//
// All configurations are validated for:
//   - Non-empty name and description
//   - Starting level within the supported range
//   - Required message templates
package config
