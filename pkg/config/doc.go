// Package config loads, validates and resolves the service configuration
// for the lightspeed gateway.
//
// The configuration is a single YAML document describing the LLM providers
// the service talks to, the service-level policy (authentication,
// conversation cache, quota handling, TLS, query filters, reference
// content) and the optional user data collector sidecar.
//
// # Loading Pipeline
//
// A document moves through four ordered stages:
//
//  1. Build (Load): strict YAML decoding into the typed schema graph.
//     Unknown keys, wrong node kinds and duplicate names inside named
//     collections abort immediately with a *SchemaError.
//  2. Defaults (ApplyDefaults): omitted optional fields are filled with
//     the documented defaults. Applying defaults twice is a no-op.
//  3. Validation (Validate): three ordered passes check local field
//     invariants, discriminated-union consistency and whole-graph
//     cross-references. Every violation within the failing pass is
//     aggregated into a *ValidationError.
//  4. Resolution (Resolve): the only stage that touches the filesystem.
//     Credential and password files are read into memory, CA certificates
//     are parsed, and derived values such as the response token budget are
//     filled. Failures are aggregated into a *ResolutionError.
//
// LoadAndValidate runs all four stages:
//
//	cfg, err := config.LoadAndValidate("olsconfig.yaml")
//	if err != nil {
//	    fmt.Println(config.NewReport(err))
//	    os.Exit(1)
//	}
//
// # Validation
//
// Each validation pass collects every violation before failing, so
// operators see all problems of a stage in one run. A failing pass blocks
// the later passes, which assume its invariants hold. Checks include:
//
//   - Enum membership (provider types, cache types, transports, auth
//     modules, log levels, TLS profiles)
//   - Range validation (ports, context windows, timeouts, quotas)
//   - Discriminated unions (the provider-specific block must match the
//     provider type; the cache backend block must match the cache type)
//   - Collection uniqueness (MCP server names, query filter names)
//   - Cross-references (default_provider/default_model must resolve,
//     quota limiters require backing storage)
//
// # Diagnostics
//
// NewReport flattens any pipeline error into a Report of
// {severity, field, rule, message} entries with stable ordering, suitable
// for CLI output and for asserting on specific violations in tests.
//
// # Concurrency
//
// A Config returned by LoadAndValidate is never mutated afterwards and is
// safe for concurrent reads. The package holds no global state.
package config
