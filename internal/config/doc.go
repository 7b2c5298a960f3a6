// Package config manages user-level settings stored at ~/.opset/config.yaml.
// Values can be overridden with OPSET_* environment variables and command
// line flags bound to the same keys.
package config
