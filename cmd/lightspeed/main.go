// Lightspeed configuration engine: loads, validates and resolves the
// service configuration for the lightspeed LLM gateway.
//
// Usage:
//
//	# Validate a configuration file
//	lightspeed validate --config olsconfig.yaml
//
//	# Validate without touching the filesystem references
//	lightspeed validate --config olsconfig.yaml --skip-resolution
//
//	# Show version information
//	lightspeed version
package main

func main() {
	Execute()
}
