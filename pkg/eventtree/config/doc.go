/*
Package config provides type-safe configuration extraction from map[string]any.

# Overview

config wraps a map[string]any and provides typed accessor methods that handle
missing keys and type mismatches gracefully by returning default values.
A Config can be attached to a Session with eventtree.WithConfig and read
back through Session.Config; the Session itself reads no setting from it.

# Basic Usage

	cfg, err := config.FromFile("session.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	tracing := cfg.Bool("tracing.enabled", false)
	retry := cfg.Section("retry")
	maxAttempts := retry.Int("max_attempts", 3)
	backoff := retry.Duration("initial_backoff", 100*time.Millisecond)

# Type Coercion

Duration handles multiple input types:
  - string: parsed with time.ParseDuration ("30s", "1h30m")
  - int/float64: interpreted as seconds
  - time.Duration: used directly

Numeric types handle reasonable conversions:
  - int from float64 (truncated)
  - float64 from int

All methods return the default value if:
  - The key is missing
  - The value cannot be converted to the requested type
  - The conversion would lose precision (e.g., float to int with fraction)

# File Loading

	cfg, err := config.FromFile("config.yaml")
	cfg, err = config.FromYAML(yamlBytes)
	cfg, err = config.FromJSON(jsonBytes)

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation. However, if the original map is modified
externally, behavior is undefined.
*/
package config
