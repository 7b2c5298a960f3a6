// Package cli defines the Cobra command tree for the opset CLI. Each file
// registers one top-level command with the root command. Commands delegate
// to internal packages and only handle flags, configuration and output.
package cli
