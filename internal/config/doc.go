// Package config loads groupkit configuration.
//
// Configuration is read from groupkit.toml with viper. Every scalar key can
// be overridden from the environment with the GROUPKIT_ prefix, dots
// replaced by underscores (GROUPKIT_SERVER_ADDR, GROUPKIT_STORE_DRIVER).
// GROUPKIT_CONFIG points at an explicit file.
//
// # Configuration File Structure
//
//	[server]
//	addr = ":8080"
//	advertise = false
//	read_timeout = "10s"
//
//	[metrics]
//	enabled = true
//	namespace = "groupkit"
//
//	[tracing]
//	enabled = false
//	tracer_name = "groupkit"
//
//	[store]
//	driver = "sqlite"
//	path = "groupkit.db"
//
//	[log]
//	level = "info"
//	format = "text"
//
//	[[groups]]
//	name = "tabs"
//	mandatory = true
//	items = ["home", "search", "settings"]
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
