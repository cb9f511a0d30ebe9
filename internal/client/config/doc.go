// Package config loads runtime configuration for the stockkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-t int      request timeout (seconds)
//	-o string   export directory
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8084",
//	  "request_timeout": "10s",
//	  "export_dir": "exports"
//	}
package config
