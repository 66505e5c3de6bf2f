/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/josephgoksu/taskledger/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configName = ".taskledger"
	envPrefix  = "TASKLEDGER"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single validator instance; it caches struct info.
var validate = validator.New()

// validateAppConfig performs validation on the AppConfig struct.
func validateAppConfig(config *types.AppConfig) error {
	return validate.Struct(config)
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	// Environment variable handling must be set up BEFORE reading the config
	// file so env vars can influence where the file is looked up.
	viper.SetEnvPrefix(envPrefix) // e.g., TASKLEDGER_VERBOSE
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfgFileFlag := viper.GetString("config") // Value from --config flag

	// The project config dir has to be known before the full unmarshal, so a
	// bare default is used just to locate the file.
	projectConfigDir := viper.GetString("project.rootDir")
	if projectConfigDir == "" {
		projectConfigDir = ".taskledger"
	}

	if cfgFileFlag != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFileFlag)
	} else {
		if _, err := os.Stat(projectConfigDir); !os.IsNotExist(err) {
			// Project-specific config directory exists. Prioritize it.
			viper.AddConfigPath(projectConfigDir) // e.g., ./.taskledger/.taskledger.yaml
			viper.SetConfigName(configName)
		} else {
			// Fall back to home and current directory.
			home, err := os.UserHomeDir()
			cobra.CheckErr(err)
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigName(configName)
		}
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFileFlag != "" {
				fmt.Fprintln(os.Stderr, "Error: Specified config file not found:", cfgFileFlag)
			} else if viper.GetBool("verbose") {
				fmt.Fprintln(os.Stderr, "No config file found. Using defaults and environment variables.")
			}
		} else {
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
	}

	// Set default values
	viper.SetDefault("project.name", "taskledger")
	viper.SetDefault("project.rootDir", ".taskledger")
	viper.SetDefault("data.file", "")
	viper.SetDefault("data.format", "json")
	viper.SetDefault("data.autoPersist", true)
	viper.SetDefault("data.keepBackups", 5)
	viper.SetDefault("history.enabled", false)
	viper.SetDefault("history.path", "")
	viper.SetDefault("ops.historyLimit", 100)

	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshaling config: %s\n", err)
		os.Exit(1)
	}

	// Fill nested keys a partial config file may have left empty.
	if GlobalAppConfig.Project.Name == "" {
		GlobalAppConfig.Project.Name = viper.GetString("project.name")
	}
	if GlobalAppConfig.Project.RootDir == "" {
		GlobalAppConfig.Project.RootDir = viper.GetString("project.rootDir")
	}
	if GlobalAppConfig.Data.Format == "" {
		GlobalAppConfig.Data.Format = viper.GetString("data.format")
	}
	if GlobalAppConfig.Data.File == "" {
		GlobalAppConfig.Data.File = filepath.Join(GlobalAppConfig.Project.RootDir, "tasks."+GlobalAppConfig.Data.Format)
	}
	if GlobalAppConfig.History.Path == "" {
		GlobalAppConfig.History.Path = filepath.Join(GlobalAppConfig.Project.RootDir, "history.db")
	}

	if err := validateAppConfig(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation error: %s\n", err)
		os.Exit(1)
	}
}

// GetConfig returns a pointer to the global types.AppConfig instance.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}

// GetTaskFilePath returns the full path to the tasks file.
func GetTaskFilePath() string {
	return GetConfig().Data.File
}
