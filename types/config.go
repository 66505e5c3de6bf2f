/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose bool          `mapstructure:"verbose"`
	Config  string        `mapstructure:"config"`
	Project ProjectConfig `mapstructure:"project" validate:"required"`
	Data    DataConfig    `mapstructure:"data" validate:"required"`
	History HistoryConfig `mapstructure:"history"`
	Ops     OpsConfig     `mapstructure:"ops"`
}

// ProjectConfig holds project-related settings
type ProjectConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	RootDir string `mapstructure:"rootDir" validate:"required"`
}

// DataConfig holds data storage configuration
type DataConfig struct {
	File        string `mapstructure:"file"`
	Format      string `mapstructure:"format" validate:"required,oneof=json yaml toml"`
	AutoPersist bool   `mapstructure:"autoPersist"`
	KeepBackups int    `mapstructure:"keepBackups" validate:"min=0,max=50"`
}

// HistoryConfig controls the optional sqlite change journal.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// OpsConfig holds settings for the background operation tracker.
type OpsConfig struct {
	// HistoryLimit bounds how many completed operations stay queryable.
	HistoryLimit int `mapstructure:"historyLimit" validate:"omitempty,min=1"`
}
