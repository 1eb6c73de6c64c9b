// Package config provides the TOML configuration file for punchdrop.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ayusman/punchdrop/internal/game"
)

// FileConfig represents the TOML configuration file. Every field is a
// pointer so an absent key falls through to the built-in default.
type FileConfig struct {
	Server ServerConfig `toml:"server"`
	Camera CameraConfig `toml:"camera"`
	Game   GameConfig   `toml:"game"`
}

// ServerConfig maps HTTP server settings.
type ServerConfig struct {
	Addr      *string `toml:"addr"`
	StaticDir *string `toml:"static-dir"`
	DBPath    *string `toml:"db-path"`
}

// CameraConfig maps capture settings.
type CameraConfig struct {
	Device       *int     `toml:"device"`
	MotionThresh *float64 `toml:"motion-threshold"`
}

// GameConfig maps the gameplay tuning knobs worth exposing to players.
type GameConfig struct {
	RoundSeconds      *float64 `toml:"round-seconds"`
	VelocityThreshold *float64 `toml:"velocity-threshold"`
	PunchCooldownMs   *int64   `toml:"punch-cooldown-ms"`
	SpawnInterval     *float64 `toml:"spawn-interval"`
	GameSpeedCeiling  *float64 `toml:"game-speed-ceiling"`
	MaxTargets        *int     `toml:"max-targets"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// ApplyTuning overlays the file's game settings onto a tuning struct.
func (c *FileConfig) ApplyTuning(t game.Tuning) game.Tuning {
	if c.Game.RoundSeconds != nil {
		t.RoundSeconds = *c.Game.RoundSeconds
	}
	if c.Game.VelocityThreshold != nil {
		t.VelocityThreshold = *c.Game.VelocityThreshold
	}
	if c.Game.PunchCooldownMs != nil {
		t.PunchCooldownMs = *c.Game.PunchCooldownMs
	}
	if c.Game.SpawnInterval != nil {
		t.BaseSpawnInterval = *c.Game.SpawnInterval
	}
	if c.Game.GameSpeedCeiling != nil {
		t.GameSpeedCeiling = *c.Game.GameSpeedCeiling
	}
	if c.Game.MaxTargets != nil {
		t.MaxTargets = *c.Game.MaxTargets
	}
	return t
}
