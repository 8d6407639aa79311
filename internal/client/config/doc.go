// Package config loads runtime configuration for the ScholarScout CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are read as YAML, others as JSON.
//  3. Optional dotenv file: -e / -env-file, or ./.env when present. It never
//     overrides variables already set in the environment.
//  4. Environment variables.
//  5. Command-line flags.
//
// Later sources override earlier ones.
//
// Environment
//
//	API_BASE_URL      API base URL
//	TOKEN_DB_PATH     local token database path
//	LOG_LEVEL         debug, info, warn or error
//	REQUEST_TIMEOUT   Go duration, e.g. "10s"
//
// Flags
//
//	-a string   API base URL
//	-d string   local token database path
//	-l string   log level
//	-t int      request timeout in seconds (0 = none)
//
// # File schema
//
// Intervals use timex.Duration, so values can be strings like "10s" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.scholarscout.example/api/v1",
//	  "token_db_path": "/home/me/.scholarscout.db",
//	  "log_level": "debug",
//	  "request_timeout": "10s"
//	}
package config
