// Package config loads runtime configuration for the Orbiter CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, if present.
//  3. Optional JSON or YAML file selected via flags: -c or -config.
//  4. ORBITER_* environment variables.
//  5. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string          base URL of the server, e.g. http://127.0.0.1:8080
//	-prefix string     API path prefix the server was started with
//	-db string         path of the local SQLite session cache
//	-timeout duration  per-request timeout
//
// # File schema
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "api_prefix": "/api",
//	  "db_path": "orbiter.db",
//	  "request_timeout": 5000000000
//	}
//
// JSON files take request_timeout in nanoseconds; YAML and the environment
// accept duration strings such as "5s".
package config
