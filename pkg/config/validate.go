package config

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	securitytls "github.com/JoaoFula/lightspeed-service/pkg/security/tls"
)

// FieldError represents a single violated invariant, naming the field path,
// the rule identifier and a human-readable message.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g. "ols_config.conversation_cache.type").
	Field string

	// Rule identifies the violated rule (e.g. "limiters_require_storage").
	Rule string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s [%s]", e.Field, e.Message, e.Rule)
}

// ValidationError aggregates every invariant violation found within one
// validation pass. All violations of the failing pass are reported together
// so operators see every problem in one run.
type ValidationError struct {
	// Errors contains all violations found, in deterministic order.
	Errors []FieldError
}

// Error returns a formatted string containing all violations.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// Validate runs the three validation passes over a built configuration
// graph: local field invariants, subtree invariants (discriminated unions,
// collection uniqueness), then whole-graph cross-references. Within a pass
// every violation is collected; a pass with any violation stops the
// pipeline, since later passes assume the earlier ones hold.
func Validate(cfg *Config) error {
	passes := []func(*Config) []FieldError{
		validateLocal,
		validateStructure,
		validateReferences,
	}
	for _, pass := range passes {
		if errs := pass(cfg); len(errs) > 0 {
			return &ValidationError{Errors: errs}
		}
	}
	return nil
}

// providerNames returns provider names in sorted order so that validation
// output is deterministic for a given document.
func providerNames(p LLMProviders) []string {
	names := make([]string, 0, len(p.Providers))
	for name := range p.Providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// modelNames returns model names in sorted order.
func modelNames(m ModelMap) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var validProviderTypes = map[string]bool{
	ProviderAzureOpenAI: true,
	ProviderBAM:         true,
	ProviderOpenAI:      true,
	ProviderWatsonx:     true,
	ProviderRHELAIVLLM:  true,
	ProviderRHOAIVLLM:   true,
	ProviderFake:        true,
}

var validLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warning": true,
	"error":   true,
}

var validAuthModules = map[string]bool{
	AuthModuleK8s:           true,
	AuthModuleNoop:          true,
	AuthModuleNoopWithToken: true,
}

var validSSLModes = map[string]bool{
	"disable":     true,
	"allow":       true,
	"prefer":      true,
	"require":     true,
	"verify-ca":   true,
	"verify-full": true,
}

var validLimiterTypes = map[string]bool{
	LimiterTypeUser:    true,
	LimiterTypeCluster: true,
}

// validateLocal is pass 1: constraints expressible from a single entity's
// own fields.
func validateLocal(cfg *Config) []FieldError {
	var errs []FieldError

	if len(cfg.LLMProviders.Providers) == 0 {
		errs = append(errs, FieldError{
			Field:   "llm_providers",
			Rule:    "no_providers",
			Message: "at least one provider must be configured",
		})
	}

	for _, name := range providerNames(cfg.LLMProviders) {
		provider := cfg.LLMProviders.Providers[name]
		prefix := fmt.Sprintf("llm_providers.%s", name)

		if provider.Type == "" {
			errs = append(errs, FieldError{
				Field:   prefix + ".type",
				Rule:    "missing_provider_type",
				Message: "provider type is required",
			})
		} else if !validProviderTypes[provider.Type] {
			errs = append(errs, FieldError{
				Field:   prefix + ".type",
				Rule:    "unknown_provider_type",
				Message: fmt.Sprintf("unknown provider type %q", provider.Type),
			})
		}

		errs = append(errs, validateURLField(prefix+".url", provider.URL)...)

		if len(provider.Models) == 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".models",
				Rule:    "no_models",
				Message: "at least one model must be configured",
			})
		}
		for _, modelName := range modelNames(provider.Models) {
			model := provider.Models[modelName]
			errs = append(errs, validateModel(fmt.Sprintf("%s.models.%s", prefix, modelName), model)...)
		}

		if provider.TLSSecurityProfile != nil {
			errs = append(errs, validateTLSProfile(prefix+".tls_security_profile", provider.TLSSecurityProfile)...)
		}

		errs = append(errs, validateProviderBlockURLs(prefix, provider)...)

		if fake := provider.FakeConfig; fake != nil {
			if fake.Chunks < 0 {
				errs = append(errs, FieldError{
					Field:   prefix + ".fake_provider_config.chunks",
					Rule:    "negative_value",
					Message: "chunks must be non-negative",
				})
			}
			if fake.SleepTime < 0 {
				errs = append(errs, FieldError{
					Field:   prefix + ".fake_provider_config.sleep_time",
					Rule:    "negative_value",
					Message: "sleep time must be non-negative",
				})
			}
		}
	}

	errs = append(errs, validateOLSLocal(&cfg.OLSConfig)...)
	errs = append(errs, validateMCPLocal(cfg.MCPServers)...)

	if collector := cfg.UserDataCollectorConfig; collector != nil {
		errs = append(errs, validateCollector(collector)...)
	}

	return errs
}

// validateProviderBlockURLs runs the endpoint URLs inside the
// provider-specific blocks through the same check as the provider-level
// URL.
func validateProviderBlockURLs(prefix string, provider *ProviderConfig) []FieldError {
	var errs []FieldError

	if c := provider.AzureConfig; c != nil {
		errs = append(errs, validateURLField(prefix+".azure_config.url", c.URL)...)
	}
	if c := provider.BAMConfig; c != nil {
		errs = append(errs, validateURLField(prefix+".bam_config.url", c.URL)...)
	}
	if c := provider.OpenAIConfig; c != nil {
		errs = append(errs, validateURLField(prefix+".openai_config.url", c.URL)...)
	}
	if c := provider.WatsonxConfig; c != nil {
		errs = append(errs, validateURLField(prefix+".watsonx_config.url", c.URL)...)
	}
	if c := provider.RHELAIVLLMConfig; c != nil {
		errs = append(errs, validateURLField(prefix+".rhelai_vllm_config.url", c.URL)...)
	}
	if c := provider.RHOAIVLLMConfig; c != nil {
		errs = append(errs, validateURLField(prefix+".rhoai_vllm_config.url", c.URL)...)
	}

	return errs
}

// validateModel checks one model's own fields.
func validateModel(prefix string, model *ModelConfig) []FieldError {
	var errs []FieldError

	errs = append(errs, validateURLField(prefix+".url", model.URL)...)

	if model.ContextWindowSize <= 0 {
		errs = append(errs, FieldError{
			Field:   prefix + ".context_window_size",
			Rule:    "invalid_context_window",
			Message: fmt.Sprintf("context window size must be positive, got %d", model.ContextWindowSize),
		})
	}

	if params := model.Parameters; params != nil && params.MaxTokensForResponse != 0 {
		if params.MaxTokensForResponse < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".parameters.max_tokens_for_response",
				Rule:    "invalid_max_tokens",
				Message: fmt.Sprintf("max tokens for response must be positive, got %d", params.MaxTokensForResponse),
			})
		} else if model.ContextWindowSize > 0 && params.MaxTokensForResponse > model.ContextWindowSize {
			errs = append(errs, FieldError{
				Field:   prefix + ".parameters.max_tokens_for_response",
				Rule:    "max_tokens_over_context_window",
				Message: fmt.Sprintf("response token budget %d exceeds context window %d",
					params.MaxTokensForResponse, model.ContextWindowSize),
			})
		}
	}

	return errs
}

// validateTLSProfile checks a TLS security profile. MinTLSVersion and
// Ciphers are only meaningful with the Custom profile.
func validateTLSProfile(prefix string, profile *TLSSecurityProfile) []FieldError {
	var errs []FieldError

	if profile.ProfileType != "" && !securitytls.KnownProfileType(profile.ProfileType) {
		errs = append(errs, FieldError{
			Field:   prefix + ".type",
			Rule:    "unknown_tls_profile",
			Message: fmt.Sprintf("unknown TLS security profile %q", profile.ProfileType),
		})
	}

	custom := profile.ProfileType == securitytls.ProfileCustomType

	if profile.MinTLSVersion != "" {
		if !custom {
			errs = append(errs, FieldError{
				Field:   prefix + ".minTLSVersion",
				Rule:    "custom_profile_only",
				Message: "minimum TLS version may only be set with the Custom profile",
			})
		} else if !securitytls.KnownVersion(profile.MinTLSVersion) {
			errs = append(errs, FieldError{
				Field:   prefix + ".minTLSVersion",
				Rule:    "unknown_tls_version",
				Message: fmt.Sprintf("unknown TLS version %q", profile.MinTLSVersion),
			})
		}
	}

	if len(profile.Ciphers) > 0 && !custom {
		errs = append(errs, FieldError{
			Field:   prefix + ".ciphers",
			Rule:    "custom_profile_only",
			Message: "ciphers may only be set with the Custom profile",
		})
	} else if custom {
		for i, cipher := range profile.Ciphers {
			if !securitytls.KnownCipher(cipher) {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("%s.ciphers[%d]", prefix, i),
					Rule:    "unknown_cipher",
					Message: fmt.Sprintf("unsupported cipher suite %q", cipher),
				})
			}
		}
	}

	return errs
}

// validateOLSLocal checks the service-level policy section field by field.
func validateOLSLocal(ols *OLSConfig) []FieldError {
	var errs []FieldError

	if cache := ols.ConversationCache; cache != nil {
		prefix := "ols_config.conversation_cache"
		switch cache.Type {
		case CacheTypeMemory, CacheTypePostgres:
		case "":
			errs = append(errs, FieldError{
				Field:   prefix + ".type",
				Rule:    "missing_cache_type",
				Message: "conversation cache type is required",
			})
		default:
			errs = append(errs, FieldError{
				Field:   prefix + ".type",
				Rule:    "unknown_cache_type",
				Message: fmt.Sprintf("unknown conversation cache type %q", cache.Type),
			})
		}
		if cache.Memory != nil && cache.Memory.MaxEntries <= 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".memory.max_entries",
				Rule:    "invalid_max_entries",
				Message: fmt.Sprintf("max entries must be positive, got %d", cache.Memory.MaxEntries),
			})
		}
		if cache.Postgres != nil {
			errs = append(errs, validatePostgres(prefix+".postgres", cache.Postgres)...)
		}
	}

	if quota := ols.QuotaHandlers; quota != nil {
		prefix := "ols_config.quota_handlers"
		if quota.Storage != nil {
			errs = append(errs, validatePostgres(prefix+".storage", quota.Storage)...)
		}
		if quota.Scheduler.Period <= 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".scheduler.period",
				Rule:    "invalid_scheduler_period",
				Message: fmt.Sprintf("scheduler period must be positive, got %d", quota.Scheduler.Period),
			})
		}
		for _, name := range limiterNames(quota.Limiters) {
			limiter := quota.Limiters.Limiters[name]
			lp := fmt.Sprintf("%s.limiters.%s", prefix, name)
			if !validLimiterTypes[limiter.Type] {
				errs = append(errs, FieldError{
					Field:   lp + ".type",
					Rule:    "unknown_limiter_type",
					Message: fmt.Sprintf("unknown limiter type %q", limiter.Type),
				})
			}
			if limiter.InitialQuota < 0 {
				errs = append(errs, FieldError{
					Field:   lp + ".initial_quota",
					Rule:    "negative_value",
					Message: "initial quota must be non-negative",
				})
			}
			if limiter.QuotaIncrease < 0 {
				errs = append(errs, FieldError{
					Field:   lp + ".quota_increase",
					Rule:    "negative_value",
					Message: "quota increase must be non-negative",
				})
			}
			if limiter.Period == "" {
				errs = append(errs, FieldError{
					Field:   lp + ".period",
					Rule:    "missing_period",
					Message: "limiter period is required",
				})
			}
		}
	}

	if module := ols.AuthenticationConfig.Module; module != "" && !validAuthModules[module] {
		errs = append(errs, FieldError{
			Field:   "ols_config.authentication_config.module",
			Rule:    "unknown_auth_module",
			Message: fmt.Sprintf("unknown authentication module %q", module),
		})
	}
	errs = append(errs, validateURLField("ols_config.authentication_config.k8s_cluster_api",
		ols.AuthenticationConfig.K8sClusterAPI)...)

	if ols.TLSSecurityProfile != nil {
		errs = append(errs, validateTLSProfile("ols_config.tls_security_profile", ols.TLSSecurityProfile)...)
	}

	if level := ols.LoggingConfig.AppLogLevel; level != "" && !validLogLevels[level] {
		errs = append(errs, FieldError{
			Field:   "ols_config.logging_config.app_log_level",
			Rule:    "unknown_log_level",
			Message: fmt.Sprintf("unknown log level %q", level),
		})
	}
	if level := ols.LoggingConfig.LibLogLevel; level != "" && !validLogLevels[level] {
		errs = append(errs, FieldError{
			Field:   "ols_config.logging_config.lib_log_level",
			Rule:    "unknown_log_level",
			Message: fmt.Sprintf("unknown log level %q", level),
		})
	}

	for i, filter := range ols.QueryFilters {
		fp := fmt.Sprintf("ols_config.query_filters[%d]", i)
		if filter.Name == "" {
			errs = append(errs, FieldError{
				Field:   fp + ".name",
				Rule:    "missing_field",
				Message: "filter name is required",
			})
		}
		if filter.Pattern == "" {
			errs = append(errs, FieldError{
				Field:   fp + ".pattern",
				Rule:    "missing_field",
				Message: "filter pattern is required",
			})
		} else if _, err := regexp.Compile(filter.Pattern); err != nil {
			errs = append(errs, FieldError{
				Field:   fp + ".pattern",
				Rule:    "invalid_pattern",
				Message: fmt.Sprintf("pattern does not compile: %v", err),
			})
		}
	}

	if rc := ols.ReferenceContent; rc != nil {
		for i, index := range rc.Indexes {
			if index.ProductDocsIndexPath == "" {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("ols_config.reference_content.indexes[%d].product_docs_index_path", i),
					Rule:    "missing_field",
					Message: "index path is required",
				})
			}
			if index.ProductDocsIndexID == "" {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("ols_config.reference_content.indexes[%d].product_docs_index_id", i),
					Rule:    "missing_field",
					Message: "index id is required",
				})
			}
		}
	}

	return errs
}

// validatePostgres checks one PostgreSQL block.
func validatePostgres(prefix string, pg *PostgresConfig) []FieldError {
	var errs []FieldError

	if pg.Port < 1 || pg.Port > 65535 {
		errs = append(errs, FieldError{
			Field:   prefix + ".port",
			Rule:    "invalid_port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", pg.Port),
		})
	}
	if !validSSLModes[pg.SSLMode] {
		errs = append(errs, FieldError{
			Field:   prefix + ".ssl_mode",
			Rule:    "invalid_ssl_mode",
			Message: fmt.Sprintf("unknown SSL mode %q", pg.SSLMode),
		})
	}
	if pg.MaxEntries <= 0 {
		errs = append(errs, FieldError{
			Field:   prefix + ".max_entries",
			Rule:    "invalid_max_entries",
			Message: fmt.Sprintf("max entries must be positive, got %d", pg.MaxEntries),
		})
	}

	return errs
}

// validateMCPLocal checks each MCP server's own fields.
func validateMCPLocal(servers []MCPServerConfig) []FieldError {
	var errs []FieldError

	for i, server := range servers {
		prefix := fmt.Sprintf("mcp_servers[%d]", i)

		if server.Name == "" {
			errs = append(errs, FieldError{
				Field:   prefix + ".name",
				Rule:    "missing_field",
				Message: "server name is required",
			})
		}

		switch server.Transport {
		case TransportStdio, TransportSSE:
		case "":
			errs = append(errs, FieldError{
				Field:   prefix + ".transport",
				Rule:    "missing_transport",
				Message: "transport is required",
			})
		default:
			errs = append(errs, FieldError{
				Field:   prefix + ".transport",
				Rule:    "unknown_transport",
				Message: fmt.Sprintf("unknown transport %q", server.Transport),
			})
		}

		if stdio := server.Stdio; stdio != nil && stdio.Command == "" {
			errs = append(errs, FieldError{
				Field:   prefix + ".stdio.command",
				Rule:    "missing_field",
				Message: "command is required for the stdio transport",
			})
		}

		if sse := server.SSE; sse != nil {
			if sse.URL == "" {
				errs = append(errs, FieldError{
					Field:   prefix + ".sse.url",
					Rule:    "missing_field",
					Message: "url is required for the sse transport",
				})
			} else {
				errs = append(errs, validateURLField(prefix+".sse.url", sse.URL)...)
			}
			if sse.Timeout <= 0 {
				errs = append(errs, FieldError{
					Field:   prefix + ".sse.timeout",
					Rule:    "invalid_timeout",
					Message: fmt.Sprintf("timeout must be positive, got %d", sse.Timeout),
				})
			}
			if sse.SSEReadTimeout <= 0 {
				errs = append(errs, FieldError{
					Field:   prefix + ".sse.sse_read_timeout",
					Rule:    "invalid_timeout",
					Message: fmt.Sprintf("read timeout must be positive, got %d", sse.SSEReadTimeout),
				})
			}
		}
	}

	return errs
}

// validateCollector checks the user data collector section.
func validateCollector(collector *UserDataCollectorConfig) []FieldError {
	var errs []FieldError
	prefix := "user_data_collector_config"

	if collector.CollectionInterval <= 0 {
		errs = append(errs, FieldError{
			Field:   prefix + ".collection_interval",
			Rule:    "invalid_interval",
			Message: fmt.Sprintf("collection interval must be positive, got %d", collector.CollectionInterval),
		})
	}
	if collector.IngressEnv != IngressEnvProd && collector.IngressEnv != IngressEnvStage {
		errs = append(errs, FieldError{
			Field:   prefix + ".ingress_env",
			Rule:    "unknown_ingress_env",
			Message: fmt.Sprintf("ingress environment must be %q or %q, got %q",
				IngressEnvProd, IngressEnvStage, collector.IngressEnv),
		})
	}
	if level := collector.LogLevel; level != "" && !validLogLevels[level] {
		errs = append(errs, FieldError{
			Field:   prefix + ".log_level",
			Rule:    "unknown_log_level",
			Message: fmt.Sprintf("unknown log level %q", level),
		})
	}

	return errs
}

// validateStructure is pass 2: discriminated-union consistency and
// intra-collection uniqueness. It assumes pass 1 held, so discriminator
// values are known to be members of their enums.
func validateStructure(cfg *Config) []FieldError {
	var errs []FieldError

	for _, name := range providerNames(cfg.LLMProviders) {
		errs = append(errs, validateProviderUnion(cfg.LLMProviders.Providers[name])...)
	}

	if cache := cfg.OLSConfig.ConversationCache; cache != nil {
		errs = append(errs, validateCacheUnion(cache)...)
	}

	for i := range cfg.MCPServers {
		errs = append(errs, validateTransportUnion(i, &cfg.MCPServers[i])...)
	}

	errs = append(errs, validateMCPNameUniqueness(cfg.MCPServers)...)
	errs = append(errs, validateFilterNameUniqueness(cfg.OLSConfig.QueryFilters)...)

	return errs
}

// providerBlocks lists the provider-specific blocks of one provider, keyed
// by the provider type each block belongs to.
func providerBlocks(p *ProviderConfig) map[string]bool {
	populated := map[string]bool{}
	if p.AzureConfig != nil {
		populated[ProviderAzureOpenAI] = true
	}
	if p.BAMConfig != nil {
		populated[ProviderBAM] = true
	}
	if p.OpenAIConfig != nil {
		populated[ProviderOpenAI] = true
	}
	if p.WatsonxConfig != nil {
		populated[ProviderWatsonx] = true
	}
	if p.RHELAIVLLMConfig != nil {
		populated[ProviderRHELAIVLLM] = true
	}
	if p.RHOAIVLLMConfig != nil {
		populated[ProviderRHOAIVLLM] = true
	}
	if p.FakeConfig != nil {
		populated[ProviderFake] = true
	}
	return populated
}

// blockFieldNames maps a provider type to the name of its block field.
var blockFieldNames = map[string]string{
	ProviderAzureOpenAI: "azure_config",
	ProviderBAM:         "bam_config",
	ProviderOpenAI:      "openai_config",
	ProviderWatsonx:     "watsonx_config",
	ProviderRHELAIVLLM:  "rhelai_vllm_config",
	ProviderRHOAIVLLM:   "rhoai_vllm_config",
	ProviderFake:        "fake_provider_config",
}

// validateProviderUnion enforces that at most one provider-specific block
// is populated and that it matches the provider type.
func validateProviderUnion(provider *ProviderConfig) []FieldError {
	var errs []FieldError
	prefix := fmt.Sprintf("llm_providers.%s", provider.Name)

	populated := providerBlocks(provider)

	if len(populated) > 1 {
		errs = append(errs, FieldError{
			Field:   prefix,
			Rule:    "discriminator_mismatch",
			Message: fmt.Sprintf("provider %q populates %d provider-specific blocks, at most one is allowed",
				provider.Name, len(populated)),
		})
		return errs
	}

	for blockType := range populated {
		if blockType != provider.Type {
			errs = append(errs, FieldError{
				Field:   prefix + "." + blockFieldNames[blockType],
				Rule:    "discriminator_mismatch",
				Message: fmt.Sprintf("provider %q has type %q but populates %s",
					provider.Name, provider.Type, blockFieldNames[blockType]),
			})
		}
	}

	return errs
}

// validateCacheUnion enforces that the cache backend block matches the cache
// type and that the selected backend is present.
func validateCacheUnion(cache *ConversationCacheConfig) []FieldError {
	var errs []FieldError
	prefix := "ols_config.conversation_cache"

	switch cache.Type {
	case CacheTypeMemory:
		if cache.Memory == nil {
			errs = append(errs, FieldError{
				Field:   prefix + ".memory",
				Rule:    "missing_backend",
				Message: "cache type is \"memory\" but the memory block is missing",
			})
		}
		if cache.Postgres != nil {
			errs = append(errs, FieldError{
				Field:   prefix + ".postgres",
				Rule:    "discriminator_mismatch",
				Message: "cache type is \"memory\" but the postgres block is populated",
			})
		}
	case CacheTypePostgres:
		if cache.Postgres == nil {
			errs = append(errs, FieldError{
				Field:   prefix + ".postgres",
				Rule:    "missing_backend",
				Message: "cache type is \"postgres\" but the postgres block is missing",
			})
		}
		if cache.Memory != nil {
			errs = append(errs, FieldError{
				Field:   prefix + ".memory",
				Rule:    "discriminator_mismatch",
				Message: "cache type is \"postgres\" but the memory block is populated",
			})
		}
	}

	return errs
}

// validateTransportUnion enforces that the transport block matches the
// transport discriminator and that the selected transport is present.
func validateTransportUnion(index int, server *MCPServerConfig) []FieldError {
	var errs []FieldError
	prefix := fmt.Sprintf("mcp_servers[%d]", index)

	switch server.Transport {
	case TransportStdio:
		if server.Stdio == nil {
			errs = append(errs, FieldError{
				Field:   prefix + ".stdio",
				Rule:    "missing_backend",
				Message: fmt.Sprintf("server %q uses the stdio transport but the stdio block is missing", server.Name),
			})
		}
		if server.SSE != nil {
			errs = append(errs, FieldError{
				Field:   prefix + ".sse",
				Rule:    "discriminator_mismatch",
				Message: fmt.Sprintf("server %q uses the stdio transport but populates the sse block", server.Name),
			})
		}
	case TransportSSE:
		if server.SSE == nil {
			errs = append(errs, FieldError{
				Field:   prefix + ".sse",
				Rule:    "missing_backend",
				Message: fmt.Sprintf("server %q uses the sse transport but the sse block is missing", server.Name),
			})
		}
		if server.Stdio != nil {
			errs = append(errs, FieldError{
				Field:   prefix + ".stdio",
				Rule:    "discriminator_mismatch",
				Message: fmt.Sprintf("server %q uses the sse transport but populates the stdio block", server.Name),
			})
		}
	}

	return errs
}

// validateMCPNameUniqueness rejects duplicate MCP server names, listing the
// indices of both colliding entries.
func validateMCPNameUniqueness(servers []MCPServerConfig) []FieldError {
	var errs []FieldError
	seen := map[string]int{}

	for i, server := range servers {
		if server.Name == "" {
			continue
		}
		if first, ok := seen[server.Name]; ok {
			errs = append(errs, FieldError{
				Field: fmt.Sprintf("mcp_servers[%d].name", i),
				Rule:  "duplicate_name",
				Message: fmt.Sprintf("server name %q at index %d duplicates index %d",
					server.Name, i, first),
			})
			continue
		}
		seen[server.Name] = i
	}

	return errs
}

// validateFilterNameUniqueness rejects duplicate query filter names.
func validateFilterNameUniqueness(filters []QueryFilter) []FieldError {
	var errs []FieldError
	seen := map[string]int{}

	for i, filter := range filters {
		if filter.Name == "" {
			continue
		}
		if first, ok := seen[filter.Name]; ok {
			errs = append(errs, FieldError{
				Field: fmt.Sprintf("ols_config.query_filters[%d].name", i),
				Rule:  "duplicate_name",
				Message: fmt.Sprintf("filter name %q at index %d duplicates index %d",
					filter.Name, i, first),
			})
			continue
		}
		seen[filter.Name] = i
	}

	return errs
}

// validateReferences is pass 3: whole-graph cross-reference invariants. It
// assumes passes 1 and 2 held.
func validateReferences(cfg *Config) []FieldError {
	var errs []FieldError
	ols := &cfg.OLSConfig

	if ols.DefaultProvider != "" {
		provider, ok := cfg.LLMProviders.Providers[ols.DefaultProvider]
		if !ok {
			errs = append(errs, FieldError{
				Field:   "ols_config.default_provider",
				Rule:    "unknown_default_provider",
				Message: fmt.Sprintf("default provider %q is not configured in llm_providers", ols.DefaultProvider),
			})
		} else if ols.DefaultModel != "" {
			if _, ok := provider.Models[ols.DefaultModel]; !ok {
				errs = append(errs, FieldError{
					Field: "ols_config.default_model",
					Rule:  "unknown_default_model",
					Message: fmt.Sprintf("default model %q is not configured for provider %q",
						ols.DefaultModel, ols.DefaultProvider),
				})
			}
		}
	} else if ols.DefaultModel != "" {
		errs = append(errs, FieldError{
			Field:   "ols_config.default_model",
			Rule:    "default_model_without_provider",
			Message: "default model is set but default provider is not",
		})
	}

	if quota := ols.QuotaHandlers; quota != nil {
		if len(quota.Limiters.Limiters) > 0 && quota.Storage == nil {
			errs = append(errs, FieldError{
				Field:   "ols_config.quota_handlers.storage",
				Rule:    "limiters_require_storage",
				Message: "quota limiters are configured but no backing storage is set",
			})
		}
	}

	udc := &ols.UserDataCollection
	if !udc.FeedbackDisabled && udc.FeedbackStorage == "" {
		errs = append(errs, FieldError{
			Field:   "ols_config.user_data_collection.feedback_storage",
			Rule:    "missing_storage",
			Message: "feedback collection is enabled but no storage location is set",
		})
	}
	if !udc.TranscriptsDisabled && udc.TranscriptsStorage == "" {
		errs = append(errs, FieldError{
			Field:   "ols_config.user_data_collection.transcripts_storage",
			Rule:    "missing_storage",
			Message: "transcript collection is enabled but no storage location is set",
		})
	}

	if collector := cfg.UserDataCollectorConfig; collector != nil {
		if collector.IngressEnv == IngressEnvStage && collector.CPOfflineToken == "" {
			errs = append(errs, FieldError{
				Field:   "user_data_collector_config.cp_offline_token",
				Rule:    "missing_token",
				Message: "the stage ingress environment requires an offline token",
			})
		}
	}

	// Certificate and key come as a pair. A document without either serves
	// plain HTTP; a document with only one of them is broken.
	if !cfg.DevConfig.DisableTLS {
		tlsCfg := &ols.TLSConfig
		if tlsCfg.TLSCertificatePath != "" && tlsCfg.TLSKeyPath == "" {
			errs = append(errs, FieldError{
				Field:   "ols_config.tls_config.tls_key_path",
				Rule:    "missing_tls_files",
				Message: "a TLS certificate is configured but the key path is not set",
			})
		}
		if tlsCfg.TLSKeyPath != "" && tlsCfg.TLSCertificatePath == "" {
			errs = append(errs, FieldError{
				Field:   "ols_config.tls_config.tls_certificate_path",
				Rule:    "missing_tls_files",
				Message: "a TLS key is configured but the certificate path is not set",
			})
		}
	}

	return errs
}

// limiterNames returns limiter names in sorted order.
func limiterNames(l LimitersConfig) []string {
	names := make([]string, 0, len(l.Limiters))
	for name := range l.Limiters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// validateURLField checks that an optional URL field parses as an absolute
// http(s) URL when set.
func validateURLField(field, value string) []FieldError {
	if value == "" {
		return nil
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return []FieldError{{
			Field:   field,
			Rule:    "invalid_url",
			Message: fmt.Sprintf("invalid URL: %v", err),
		}}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return []FieldError{{
			Field:   field,
			Rule:    "invalid_url",
			Message: fmt.Sprintf("URL scheme must be http or https, got %q", value),
		}}
	}
	return nil
}
