// Package config handles configuration loading for campus-api.
//
// # Overview
//
// Configuration is loaded from YAML files (or TOML when the file ends in
// .toml) with environment variable expansion. Load applies defaults and then
// validates.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from CAMPUS_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/campus/api.yaml
//  3. ~/.config/campus/api.yaml
//
// CAMPUS_DB_PATH overrides database.path.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${CAMPUS_JWT_SECRET}"
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	server:
//	  shutdown_timeout: "10s"
//	auth:
//	  token_ttl: "24h"
//
// # Example
//
//	server:
//	  http_addr: ":8080"
//	  rate_limit: 50
//	database:
//	  driver: sqlite
//	  path: ~/.local/share/campus/campus.db
//	auth:
//	  jwt_secret: "${CAMPUS_JWT_SECRET}"
//	logging:
//	  level: info
//	  format: text
//	metrics:
//	  enabled: true
package config
