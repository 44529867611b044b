package config

import (
	"fmt"
	"strings"

	"github.com/JoaoFula/lightspeed-service/pkg/security/secrets"
	securitytls "github.com/JoaoFula/lightspeed-service/pkg/security/tls"
)

// ResolutionError aggregates every filesystem or derivation failure found
// while resolving a validated configuration. Like validation, resolution
// collects all failures in one run instead of stopping at the first.
type ResolutionError struct {
	// Errors contains all resolution failures, in deterministic order.
	Errors []FieldError
}

// Error returns a formatted string containing all failures.
func (e *ResolutionError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration resolution failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration resolution failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration resolution failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// resolver accumulates resolution failures while walking the graph.
type resolver struct {
	errs []FieldError
}

func (r *resolver) fail(field, rule string, err error) {
	r.errs = append(r.errs, FieldError{Field: field, Rule: rule, Message: err.Error()})
}

// secret reads a secret file and records a failure on error. Returns the
// empty string when the read fails.
func (r *resolver) secret(field, path string) string {
	value, err := secrets.Read(path)
	if err != nil {
		r.fail(field, "unreadable_secret", err)
		return ""
	}
	return value
}

// caCertificate reads a PEM file and checks it parses as at least one
// certificate.
func (r *resolver) caCertificate(field, path string) {
	data, err := secrets.ReadPEM(path)
	if err != nil {
		r.fail(field, "unreadable_certificate", err)
		return
	}
	if err := securitytls.ValidateCACertificate(data); err != nil {
		r.fail(field, "invalid_certificate", err)
	}
}

// Resolve performs the filesystem dereferences and derived-value
// computations a validated configuration still needs before use: secret
// files become in-memory values, certificate files are parsed, and derived
// defaults are filled in. All failures are aggregated into a
// *ResolutionError. Resolve is idempotent; running it twice over the same
// graph yields the same values.
func Resolve(cfg *Config) error {
	r := &resolver{}

	r.resolveProviders(&cfg.LLMProviders)
	r.resolveOLS(&cfg.OLSConfig)

	if len(r.errs) > 0 {
		return &ResolutionError{Errors: r.errs}
	}
	return nil
}

func (r *resolver) resolveProviders(providers *LLMProviders) {
	for _, name := range providerNames(*providers) {
		provider := providers.Providers[name]
		prefix := fmt.Sprintf("llm_providers.%s", name)

		if provider.CredentialsPath != "" {
			provider.APIKey = r.secret(prefix+".credentials_path", provider.CredentialsPath)
		}

		for _, modelName := range modelNames(provider.Models) {
			model := provider.Models[modelName]
			if model.CredentialsPath != "" {
				model.APIKey = r.secret(
					fmt.Sprintf("%s.models.%s.credentials_path", prefix, modelName),
					model.CredentialsPath)
			}
			resolveModelDefaults(model)
		}

		r.resolveProviderBlock(prefix, provider)
	}
}

// resolveModelDefaults fills the derived response token budget: half the
// context window when the document does not set one.
func resolveModelDefaults(model *ModelConfig) {
	if model.Parameters == nil {
		model.Parameters = &ModelParameters{}
	}
	if model.Parameters.MaxTokensForResponse == 0 {
		model.Parameters.MaxTokensForResponse = model.ContextWindowSize / 2
	}
}

// resolveProviderBlock dereferences the secrets of one provider-specific
// block. Azure additionally supports Entra ID credentials, where a client
// secret stands in for the API key.
func (r *resolver) resolveProviderBlock(prefix string, provider *ProviderConfig) {
	switch {
	case provider.AzureConfig != nil:
		azure := provider.AzureConfig
		if azure.CredentialsPath != "" {
			azure.APIKey = r.secret(prefix+".azure_config.credentials_path", azure.CredentialsPath)
		}
		if azure.ClientSecretPath != "" {
			azure.ClientSecret = r.secret(prefix+".azure_config.client_secret_path", azure.ClientSecretPath)
		}
	case provider.BAMConfig != nil:
		if path := provider.BAMConfig.CredentialsPath; path != "" {
			provider.BAMConfig.APIKey = r.secret(prefix+".bam_config.credentials_path", path)
		}
	case provider.OpenAIConfig != nil:
		if path := provider.OpenAIConfig.CredentialsPath; path != "" {
			provider.OpenAIConfig.APIKey = r.secret(prefix+".openai_config.credentials_path", path)
		}
	case provider.WatsonxConfig != nil:
		if path := provider.WatsonxConfig.CredentialsPath; path != "" {
			provider.WatsonxConfig.APIKey = r.secret(prefix+".watsonx_config.credentials_path", path)
		}
	case provider.RHELAIVLLMConfig != nil:
		if path := provider.RHELAIVLLMConfig.CredentialsPath; path != "" {
			provider.RHELAIVLLMConfig.APIKey = r.secret(prefix+".rhelai_vllm_config.credentials_path", path)
		}
	case provider.RHOAIVLLMConfig != nil:
		if path := provider.RHOAIVLLMConfig.CredentialsPath; path != "" {
			provider.RHOAIVLLMConfig.APIKey = r.secret(prefix+".rhoai_vllm_config.credentials_path", path)
		}
	}
}

func (r *resolver) resolveOLS(ols *OLSConfig) {
	if cache := ols.ConversationCache; cache != nil && cache.Postgres != nil {
		r.resolvePostgres("ols_config.conversation_cache.postgres", cache.Postgres)
	}
	if quota := ols.QuotaHandlers; quota != nil && quota.Storage != nil {
		r.resolvePostgres("ols_config.quota_handlers.storage", quota.Storage)
	}

	tlsCfg := &ols.TLSConfig
	if tlsCfg.TLSCertificatePath != "" {
		if err := secrets.CheckExists(tlsCfg.TLSCertificatePath); err != nil {
			r.fail("ols_config.tls_config.tls_certificate_path", "unreadable_certificate", err)
		}
	}
	if tlsCfg.TLSKeyPath != "" {
		if err := secrets.CheckExists(tlsCfg.TLSKeyPath); err != nil {
			r.fail("ols_config.tls_config.tls_key_path", "unreadable_key", err)
		}
	}
	if tlsCfg.TLSKeyPasswordPath != "" {
		tlsCfg.TLSKeyPassword = r.secret("ols_config.tls_config.tls_key_password_path", tlsCfg.TLSKeyPasswordPath)
	}

	if ols.AuthenticationConfig.K8sCACertPath != "" {
		r.caCertificate("ols_config.authentication_config.k8s_ca_cert_path",
			ols.AuthenticationConfig.K8sCACertPath)
	}

	for i, path := range ols.ExtraCAs {
		r.caCertificate(fmt.Sprintf("ols_config.extra_ca[%d]", i), path)
	}

	if ols.SystemPromptPath != "" {
		prompt, err := secrets.ReadFile(ols.SystemPromptPath)
		if err != nil {
			r.fail("ols_config.system_prompt_path", "unreadable_file", err)
		} else {
			ols.SystemPrompt = strings.TrimSpace(string(prompt))
		}
	}

	if rc := ols.ReferenceContent; rc != nil {
		if rc.EmbeddingsModelPath != "" {
			if err := secrets.CheckExists(rc.EmbeddingsModelPath); err != nil {
				r.fail("ols_config.reference_content.embeddings_model_path", "unreadable_path", err)
			}
		}
		for i := range rc.Indexes {
			if path := rc.Indexes[i].ProductDocsIndexPath; path != "" {
				if err := secrets.CheckExists(path); err != nil {
					r.fail(fmt.Sprintf("ols_config.reference_content.indexes[%d].product_docs_index_path", i),
						"unreadable_path", err)
				}
			}
		}
	}
}

// resolvePostgres dereferences the password file of one PostgreSQL block.
// An inline password wins over a password file.
func (r *resolver) resolvePostgres(prefix string, pg *PostgresConfig) {
	if pg.Password == "" && pg.PasswordPath != "" {
		pg.Password = r.secret(prefix+".password_path", pg.PasswordPath)
	}
	if pg.CACertPath != "" {
		r.caCertificate(prefix+".ca_cert_path", pg.CACertPath)
	}
}
