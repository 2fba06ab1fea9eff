// Package config handles configuration loading for lpe-reminder.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from LPE_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/lpe-reminder/config.yaml
//  3. ~/.config/lpe-reminder/config.yaml
//
// A missing file is not an error for LoadOrDefault; the platform defaults
// are used. Files ending in .toml are parsed as TOML.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	database:
//	  path: "${HOME}/timers.db"
//
// LPE_DATABASE_PATH and LPE_LOG_LEVEL override the file.
//
// # Configuration Sections
//
//	database:
//	  path: "~/.local/share/lpe-reminder/lpe_reminder.db"
//
//	device:
//	  id_file: "~/.local/share/lpe-reminder/device_id"
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json, color
//
//	history:
//	  default_limit: 100   # records loaded by the history view
//	  export_limit: 1000   # records written to a backup file
package config
