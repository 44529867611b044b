package config

import (
	"errors"
	"strings"
	"testing"
)

// minimalConfig builds a valid watsonx-only configuration with defaults
// applied.
func minimalConfig() *Config {
	cfg := &Config{
		LLMProviders: LLMProviders{
			Providers: map[string]*ProviderConfig{
				"my_watsonx": {
					Name: "my_watsonx",
					Type: ProviderWatsonx,
					URL:  "https://us-south.ml.cloud.ibm.com",
					Models: ModelMap{
						"granite-13b": {
							Name:              "granite-13b",
							ContextWindowSize: 8192,
						},
					},
					WatsonxConfig: &WatsonxConfig{
						ProjectID: "project-1",
					},
				},
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// fieldErrors extracts the aggregated errors or fails the test.
func fieldErrors(t *testing.T, err error) []FieldError {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation to fail")
	}
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	return validationErr.Errors
}

// hasViolation reports whether any aggregated error carries the given rule
// on the given field.
func hasViolation(errs []FieldError, field, rule string) bool {
	for _, fe := range errs {
		if fe.Field == field && fe.Rule == rule {
			return true
		}
	}
	return false
}

func TestValidate_MinimalConfig(t *testing.T) {
	cfg := minimalConfig()

	if err := Validate(cfg); err != nil {
		t.Errorf("expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_ProviderType(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Config)
		errorField string
		errorRule  string
	}{
		{
			name: "missing type",
			mutate: func(cfg *Config) {
				cfg.LLMProviders.Providers["my_watsonx"].Type = ""
			},
			errorField: "llm_providers.my_watsonx.type",
			errorRule:  "missing_provider_type",
		},
		{
			name: "unknown type",
			mutate: func(cfg *Config) {
				cfg.LLMProviders.Providers["my_watsonx"].Type = "bedrock"
			},
			errorField: "llm_providers.my_watsonx.type",
			errorRule:  "unknown_provider_type",
		},
		{
			name: "bad url scheme",
			mutate: func(cfg *Config) {
				cfg.LLMProviders.Providers["my_watsonx"].URL = "ftp://example.com"
			},
			errorField: "llm_providers.my_watsonx.url",
			errorRule:  "invalid_url",
		},
		{
			name: "no models",
			mutate: func(cfg *Config) {
				cfg.LLMProviders.Providers["my_watsonx"].Models = ModelMap{}
			},
			errorField: "llm_providers.my_watsonx.models",
			errorRule:  "no_models",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := minimalConfig()
			tt.mutate(cfg)

			errs := fieldErrors(t, Validate(cfg))
			if !hasViolation(errs, tt.errorField, tt.errorRule) {
				t.Errorf("expected violation %q on %q, got %v", tt.errorRule, tt.errorField, errs)
			}
		})
	}
}

func TestValidate_ProviderBlockURL(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		errorField string
	}{
		{
			name: "valid block url",
			url:  "https://us-south.ml.cloud.ibm.com",
		},
		{
			name:       "bad block url scheme",
			url:        "ftp://us-south.ml.cloud.ibm.com",
			errorField: "llm_providers.my_watsonx.watsonx_config.url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := minimalConfig()
			cfg.LLMProviders.Providers["my_watsonx"].WatsonxConfig.URL = tt.url

			err := Validate(cfg)
			if tt.errorField == "" {
				if err != nil {
					t.Errorf("expected config to pass, got %v", err)
				}
				return
			}
			errs := fieldErrors(t, err)
			if !hasViolation(errs, tt.errorField, "invalid_url") {
				t.Errorf("expected invalid URL violation on %q, got %v", tt.errorField, errs)
			}
		})
	}
}

func TestValidate_TokenBudgetExceedsContextWindow(t *testing.T) {
	cfg := minimalConfig()
	model := cfg.LLMProviders.Providers["my_watsonx"].Models["granite-13b"]
	model.ContextWindowSize = 100
	model.Parameters = &ModelParameters{MaxTokensForResponse: 200}

	errs := fieldErrors(t, Validate(cfg))
	field := "llm_providers.my_watsonx.models.granite-13b.parameters.max_tokens_for_response"
	if !hasViolation(errs, field, "max_tokens_over_context_window") {
		t.Errorf("expected token budget violation on %q, got %v", field, errs)
	}
}

func TestValidate_DiscriminatorMismatch(t *testing.T) {
	cfg := minimalConfig()
	provider := cfg.LLMProviders.Providers["my_watsonx"]
	provider.WatsonxConfig = nil
	provider.BAMConfig = &BAMConfig{URL: "https://bam.res.ibm.com"}

	errs := fieldErrors(t, Validate(cfg))
	if !hasViolation(errs, "llm_providers.my_watsonx.bam_config", "discriminator_mismatch") {
		t.Errorf("expected discriminator mismatch on bam_config, got %v", errs)
	}
	for _, fe := range errs {
		if fe.Rule == "discriminator_mismatch" && !strings.Contains(fe.Message, "my_watsonx") {
			t.Errorf("mismatch message should name the provider: %s", fe.Message)
		}
	}
}

func TestValidate_MultipleProviderBlocks(t *testing.T) {
	cfg := minimalConfig()
	provider := cfg.LLMProviders.Providers["my_watsonx"]
	provider.BAMConfig = &BAMConfig{URL: "https://bam.res.ibm.com"}

	errs := fieldErrors(t, Validate(cfg))
	if !hasViolation(errs, "llm_providers.my_watsonx", "discriminator_mismatch") {
		t.Errorf("expected violation for multiple provider blocks, got %v", errs)
	}
}

func TestValidate_CacheUnion(t *testing.T) {
	tests := []struct {
		name       string
		cache      *ConversationCacheConfig
		errorField string
		errorRule  string
	}{
		{
			name: "postgres type without postgres block",
			cache: &ConversationCacheConfig{
				Type: CacheTypePostgres,
			},
			errorField: "ols_config.conversation_cache.postgres",
			errorRule:  "missing_backend",
		},
		{
			name: "memory type without memory block",
			cache: &ConversationCacheConfig{
				Type: CacheTypeMemory,
			},
			errorField: "ols_config.conversation_cache.memory",
			errorRule:  "missing_backend",
		},
		{
			name: "memory type with postgres block",
			cache: &ConversationCacheConfig{
				Type:   CacheTypeMemory,
				Memory: &InMemoryCacheConfig{MaxEntries: 100},
				Postgres: &PostgresConfig{
					Host: "localhost", Port: 5432, DBName: "cache",
					User: "postgres", SSLMode: "prefer", MaxEntries: 100,
				},
			},
			errorField: "ols_config.conversation_cache.postgres",
			errorRule:  "discriminator_mismatch",
		},
		{
			name: "unknown cache type",
			cache: &ConversationCacheConfig{
				Type: "redis",
			},
			errorField: "ols_config.conversation_cache.type",
			errorRule:  "unknown_cache_type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := minimalConfig()
			cfg.OLSConfig.ConversationCache = tt.cache
			ApplyDefaults(cfg)

			errs := fieldErrors(t, Validate(cfg))
			if !hasViolation(errs, tt.errorField, tt.errorRule) {
				t.Errorf("expected violation %q on %q, got %v", tt.errorRule, tt.errorField, errs)
			}
		})
	}
}

func TestValidate_DuplicateMCPServerNames(t *testing.T) {
	cfg := minimalConfig()
	cfg.MCPServers = []MCPServerConfig{
		{Name: "openshift", Transport: TransportStdio, Stdio: &StdioTransportConfig{Command: "oc"}},
		{Name: "openshift", Transport: TransportStdio, Stdio: &StdioTransportConfig{Command: "oc"}},
	}
	ApplyDefaults(cfg)

	errs := fieldErrors(t, Validate(cfg))
	if !hasViolation(errs, "mcp_servers[1].name", "duplicate_name") {
		t.Fatalf("expected duplicate name violation, got %v", errs)
	}
	for _, fe := range errs {
		if fe.Rule != "duplicate_name" {
			continue
		}
		if !strings.Contains(fe.Message, "index 1") || !strings.Contains(fe.Message, "index 0") {
			t.Errorf("duplicate message should list both indices: %s", fe.Message)
		}
	}
}

func TestValidate_TransportUnion(t *testing.T) {
	tests := []struct {
		name       string
		server     MCPServerConfig
		errorField string
		errorRule  string
	}{
		{
			name: "stdio transport without stdio block",
			server: MCPServerConfig{
				Name:      "tools",
				Transport: TransportStdio,
			},
			errorField: "mcp_servers[0].stdio",
			errorRule:  "missing_backend",
		},
		{
			name: "sse transport with stdio block",
			server: MCPServerConfig{
				Name:      "tools",
				Transport: TransportSSE,
				SSE:       &SSETransportConfig{URL: "https://tools.example.com", Timeout: 5, SSEReadTimeout: 10},
				Stdio:     &StdioTransportConfig{Command: "oc"},
			},
			errorField: "mcp_servers[0].stdio",
			errorRule:  "discriminator_mismatch",
		},
		{
			name: "unknown transport",
			server: MCPServerConfig{
				Name:      "tools",
				Transport: "websocket",
			},
			errorField: "mcp_servers[0].transport",
			errorRule:  "unknown_transport",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := minimalConfig()
			cfg.MCPServers = []MCPServerConfig{tt.server}

			errs := fieldErrors(t, Validate(cfg))
			if !hasViolation(errs, tt.errorField, tt.errorRule) {
				t.Errorf("expected violation %q on %q, got %v", tt.errorRule, tt.errorField, errs)
			}
		})
	}
}

func TestValidate_DefaultProviderAndModel(t *testing.T) {
	tests := []struct {
		name            string
		defaultProvider string
		defaultModel    string
		errorField      string
		errorRule       string
	}{
		{
			name:            "both resolve",
			defaultProvider: "my_watsonx",
			defaultModel:    "granite-13b",
		},
		{
			name:            "unknown provider",
			defaultProvider: "missing",
			defaultModel:    "granite-13b",
			errorField:      "ols_config.default_provider",
			errorRule:       "unknown_default_provider",
		},
		{
			name:            "unknown model",
			defaultProvider: "my_watsonx",
			defaultModel:    "missing",
			errorField:      "ols_config.default_model",
			errorRule:       "unknown_default_model",
		},
		{
			name:         "model without provider",
			defaultModel: "granite-13b",
			errorField:   "ols_config.default_model",
			errorRule:    "default_model_without_provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := minimalConfig()
			cfg.OLSConfig.DefaultProvider = tt.defaultProvider
			cfg.OLSConfig.DefaultModel = tt.defaultModel

			err := Validate(cfg)
			if tt.errorRule == "" {
				if err != nil {
					t.Errorf("expected config to pass, got %v", err)
				}
				return
			}
			errs := fieldErrors(t, err)
			if !hasViolation(errs, tt.errorField, tt.errorRule) {
				t.Errorf("expected violation %q on %q, got %v", tt.errorRule, tt.errorField, errs)
			}
		})
	}
}

func TestValidate_LimitersRequireStorage(t *testing.T) {
	cfg := minimalConfig()
	cfg.OLSConfig.QuotaHandlers = &QuotaHandlersConfig{
		Limiters: LimitersConfig{
			Limiters: map[string]*LimiterConfig{
				"user_monthly": {
					Name:          "user_monthly",
					Type:          LimiterTypeUser,
					InitialQuota:  100000,
					QuotaIncrease: 1000,
					Period:        "30 days",
				},
			},
		},
	}
	ApplyDefaults(cfg)

	errs := fieldErrors(t, Validate(cfg))
	if !hasViolation(errs, "ols_config.quota_handlers.storage", "limiters_require_storage") {
		t.Errorf("expected limiters-require-storage violation, got %v", errs)
	}
}

func TestValidate_TLSProfile(t *testing.T) {
	tests := []struct {
		name       string
		profile    *TLSSecurityProfile
		errorField string
		errorRule  string
	}{
		{
			name:    "modern profile",
			profile: &TLSSecurityProfile{ProfileType: "ModernType"},
		},
		{
			name: "custom profile with version and ciphers",
			profile: &TLSSecurityProfile{
				ProfileType:   "Custom",
				MinTLSVersion: "VersionTLS12",
				Ciphers:       []string{"TLS_AES_128_GCM_SHA256"},
			},
		},
		{
			name:       "unknown profile type",
			profile:    &TLSSecurityProfile{ProfileType: "Paranoid"},
			errorField: "ols_config.tls_security_profile.type",
			errorRule:  "unknown_tls_profile",
		},
		{
			name: "version on non-custom profile",
			profile: &TLSSecurityProfile{
				ProfileType:   "ModernType",
				MinTLSVersion: "VersionTLS12",
			},
			errorField: "ols_config.tls_security_profile.minTLSVersion",
			errorRule:  "custom_profile_only",
		},
		{
			name: "ciphers on non-custom profile",
			profile: &TLSSecurityProfile{
				ProfileType: "IntermediateType",
				Ciphers:     []string{"TLS_AES_128_GCM_SHA256"},
			},
			errorField: "ols_config.tls_security_profile.ciphers",
			errorRule:  "custom_profile_only",
		},
		{
			name: "unknown cipher",
			profile: &TLSSecurityProfile{
				ProfileType: "Custom",
				Ciphers:     []string{"TLS_ROT13_MD5"},
			},
			errorField: "ols_config.tls_security_profile.ciphers[0]",
			errorRule:  "unknown_cipher",
		},
		{
			name: "unknown version",
			profile: &TLSSecurityProfile{
				ProfileType:   "Custom",
				MinTLSVersion: "VersionTLS09",
			},
			errorField: "ols_config.tls_security_profile.minTLSVersion",
			errorRule:  "unknown_tls_version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := minimalConfig()
			cfg.OLSConfig.TLSSecurityProfile = tt.profile

			err := Validate(cfg)
			if tt.errorRule == "" {
				if err != nil {
					t.Errorf("expected config to pass, got %v", err)
				}
				return
			}
			errs := fieldErrors(t, err)
			if !hasViolation(errs, tt.errorField, tt.errorRule) {
				t.Errorf("expected violation %q on %q, got %v", tt.errorRule, tt.errorField, errs)
			}
		})
	}
}

func TestValidate_QueryFilters(t *testing.T) {
	cfg := minimalConfig()
	cfg.OLSConfig.QueryFilters = []QueryFilter{
		{Name: "ip", Pattern: `\d+\.\d+\.\d+\.\d+`, ReplaceWith: "<IP>"},
		{Name: "broken", Pattern: `[unclosed`, ReplaceWith: "x"},
		{Name: "ip", Pattern: `\d+`, ReplaceWith: "<N>"},
	}

	errs := fieldErrors(t, Validate(cfg))
	if !hasViolation(errs, "ols_config.query_filters[1].pattern", "invalid_pattern") {
		t.Errorf("expected invalid pattern violation, got %v", errs)
	}
	// Uniqueness is a later pass; the bad pattern must block it.
	if hasViolation(errs, "ols_config.query_filters[2].name", "duplicate_name") {
		t.Errorf("pass 2 should not run while pass 1 fails: %v", errs)
	}

	cfg.OLSConfig.QueryFilters[1].Pattern = `[a-z]+`
	errs = fieldErrors(t, Validate(cfg))
	if !hasViolation(errs, "ols_config.query_filters[2].name", "duplicate_name") {
		t.Errorf("expected duplicate filter name violation, got %v", errs)
	}
}

func TestValidate_StageIngressRequiresToken(t *testing.T) {
	cfg := minimalConfig()
	cfg.UserDataCollectorConfig = &UserDataCollectorConfig{
		DataStorage: "/var/lib/collector",
		IngressEnv:  IngressEnvStage,
	}
	ApplyDefaults(cfg)

	errs := fieldErrors(t, Validate(cfg))
	if !hasViolation(errs, "user_data_collector_config.cp_offline_token", "missing_token") {
		t.Errorf("expected missing token violation, got %v", errs)
	}

	cfg.UserDataCollectorConfig.CPOfflineToken = "token"
	if err := Validate(cfg); err != nil {
		t.Errorf("expected config with token to pass, got %v", err)
	}
}

func TestValidate_TLSFilePair(t *testing.T) {
	cfg := minimalConfig()
	cfg.OLSConfig.TLSConfig.TLSCertificatePath = "/etc/certs/tls.crt"

	errs := fieldErrors(t, Validate(cfg))
	if !hasViolation(errs, "ols_config.tls_config.tls_key_path", "missing_tls_files") {
		t.Errorf("expected missing key violation, got %v", errs)
	}

	cfg.OLSConfig.TLSConfig.TLSKeyPath = "/etc/certs/tls.key"
	if err := Validate(cfg); err != nil {
		t.Errorf("expected complete pair to pass, got %v", err)
	}

	// Disabling TLS quiets the pair check.
	cfg.OLSConfig.TLSConfig.TLSKeyPath = ""
	cfg.DevConfig.DisableTLS = true
	if err := Validate(cfg); err != nil {
		t.Errorf("expected disabled TLS to pass, got %v", err)
	}
}

func TestValidate_AggregatesAllErrorsOfAPass(t *testing.T) {
	cfg := minimalConfig()
	provider := cfg.LLMProviders.Providers["my_watsonx"]
	provider.Type = "bedrock"
	provider.URL = "not a url at all://"
	provider.Models["granite-13b"].ContextWindowSize = -1

	errs := fieldErrors(t, Validate(cfg))
	if len(errs) < 3 {
		t.Errorf("expected at least 3 aggregated errors, got %d: %v", len(errs), errs)
	}
}

func TestValidate_PassOrderBlocksLaterPasses(t *testing.T) {
	cfg := minimalConfig()
	provider := cfg.LLMProviders.Providers["my_watsonx"]
	// Pass 1 violation.
	provider.Type = "bedrock"
	// Pass 3 violation that must not be reported yet.
	cfg.OLSConfig.DefaultProvider = "missing"

	errs := fieldErrors(t, Validate(cfg))
	if hasViolation(errs, "ols_config.default_provider", "unknown_default_provider") {
		t.Errorf("cross-reference pass should not run while local pass fails: %v", errs)
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "a", Rule: "r1", Message: "m1"},
		{Field: "b", Rule: "r2", Message: "m2"},
	}}
	msg := err.Error()
	if !strings.Contains(msg, "2 errors") {
		t.Errorf("error message should mention the error count: %s", msg)
	}
	if !strings.Contains(msg, "a: m1 [r1]") {
		t.Errorf("error message should include each violation: %s", msg)
	}
}
