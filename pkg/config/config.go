package config

// Config is the root of the validated configuration graph. It is built once
// from the operator-supplied YAML document at service startup, validated and
// resolved by the pipeline in this package, and treated as immutable for the
// lifetime of the process. The consuming service must not start handling
// requests until it holds a fully validated Config.
type Config struct {
	// LLMProviders maps provider names to their configuration. At least
	// one provider must be configured.
	LLMProviders LLMProviders `yaml:"llm_providers"`

	// OLSConfig contains service-level policy: defaults, conversation
	// cache, quota handling, TLS and authentication posture.
	OLSConfig OLSConfig `yaml:"ols_config"`

	// DevConfig contains development-only switches. All of them default
	// to off; production documents normally omit this section entirely.
	DevConfig DevConfig `yaml:"dev_config"`

	// MCPServers is the list of auxiliary tool-calling servers. Names
	// must be unique across the list.
	MCPServers []MCPServerConfig `yaml:"mcp_servers"`

	// UserDataCollectorConfig configures the sidecar that ships collected
	// feedback and transcripts to remote ingestion. Optional.
	UserDataCollectorConfig *UserDataCollectorConfig `yaml:"user_data_collector_config"`
}

// Provider type discriminator values. These are part of the wire contract
// and must match existing configuration documents exactly.
const (
	ProviderAzureOpenAI = "azure_openai"
	ProviderBAM         = "bam"
	ProviderOpenAI      = "openai"
	ProviderWatsonx     = "watsonx"
	ProviderRHELAIVLLM  = "rhelai_vllm"
	ProviderRHOAIVLLM   = "rhoai_vllm"
	ProviderFake        = "fake"
)

// Conversation cache type discriminator values.
const (
	CacheTypeMemory   = "memory"
	CacheTypePostgres = "postgres"
)

// MCP transport discriminator values.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// Authentication module names.
const (
	AuthModuleK8s           = "k8s"
	AuthModuleNoop          = "noop"
	AuthModuleNoopWithToken = "noop-with-token"
)

// Quota limiter types.
const (
	LimiterTypeUser    = "user_limiter"
	LimiterTypeCluster = "cluster_limiter"
)

// Ingress environments accepted by the user data collector.
const (
	IngressEnvProd  = "prod"
	IngressEnvStage = "stage"
)

// LLMProviders holds the configured providers keyed by name. The wire format
// is a sequence of named entries; the loader builds the map and rejects
// duplicate names, so keys are unique by construction.
type LLMProviders struct {
	Providers map[string]*ProviderConfig
}

// ProviderConfig describes a single upstream LLM backend. The Type field
// selects which provider-specific block must be populated; populating a
// block that does not match Type, or more than one block, is a validation
// error.
type ProviderConfig struct {
	// Name is the provider name used as the map key and referenced by
	// ols_config.default_provider.
	Name string `yaml:"name"`

	// Type selects the provider implementation. One of "azure_openai",
	// "bam", "openai", "watsonx", "rhelai_vllm", "rhoai_vllm", "fake".
	Type string `yaml:"type"`

	// URL is the provider API endpoint. Optional; each provider
	// implementation has its own default.
	URL string `yaml:"url"`

	// CredentialsPath is the path to a file containing the API key for
	// this provider. Read at resolution time.
	CredentialsPath string `yaml:"credentials_path"`

	// Models maps model names to their configuration. At least one model
	// must be configured per provider.
	Models ModelMap `yaml:"models"`

	// TLSSecurityProfile optionally restricts the TLS posture of the
	// outbound connection to this provider.
	TLSSecurityProfile *TLSSecurityProfile `yaml:"tls_security_profile"`

	// Provider-specific blocks. Exactly the one matching Type may be set.
	AzureConfig      *AzureOpenAIConfig  `yaml:"azure_config"`
	BAMConfig        *BAMConfig          `yaml:"bam_config"`
	OpenAIConfig     *OpenAIConfig       `yaml:"openai_config"`
	WatsonxConfig    *WatsonxConfig      `yaml:"watsonx_config"`
	RHELAIVLLMConfig *RHELAIVLLMConfig   `yaml:"rhelai_vllm_config"`
	RHOAIVLLMConfig  *RHOAIVLLMConfig    `yaml:"rhoai_vllm_config"`
	FakeConfig       *FakeProviderConfig `yaml:"fake_provider_config"`

	// APIKey holds the credential read from CredentialsPath. Filled by
	// the resolver, never present in the document itself.
	APIKey string `yaml:"-"`
}

// ModelMap holds the models of one provider keyed by name. Like providers,
// the wire format is a sequence of named entries.
type ModelMap map[string]*ModelConfig

// ModelConfig describes a single model offered by a provider.
type ModelConfig struct {
	// Name is the model name as known to the provider.
	Name string `yaml:"name"`

	// URL optionally overrides the provider endpoint for this model.
	URL string `yaml:"url"`

	// CredentialsPath optionally overrides the provider credentials for
	// this model. Read at resolution time.
	CredentialsPath string `yaml:"credentials_path"`

	// ContextWindowSize is the model context window in tokens.
	// Default: 128000
	ContextWindowSize int `yaml:"context_window_size"`

	// Parameters tunes per-request token budgets.
	Parameters *ModelParameters `yaml:"parameters"`

	// APIKey holds the credential read from CredentialsPath. Filled by
	// the resolver.
	APIKey string `yaml:"-"`
}

// ModelParameters contains tunable per-model request parameters.
type ModelParameters struct {
	// MaxTokensForResponse is the token budget reserved for the model
	// response. Must not exceed the model context window. When unset it
	// is derived from the context window at resolution time.
	MaxTokensForResponse int `yaml:"max_tokens_for_response"`
}

// AzureOpenAIConfig is the azure_openai provider block. Authentication is
// either an API key (credentials_path) or an Azure AD service principal
// (tenant_id, client_id, client_secret_path).
type AzureOpenAIConfig struct {
	URL              string `yaml:"url"`
	DeploymentName   string `yaml:"deployment_name"`
	APIVersion       string `yaml:"api_version"`
	CredentialsPath  string `yaml:"credentials_path"`
	TenantID         string `yaml:"tenant_id"`
	ClientID         string `yaml:"client_id"`
	ClientSecretPath string `yaml:"client_secret_path"`

	// Resolved secrets.
	APIKey       string `yaml:"-"`
	ClientSecret string `yaml:"-"`
}

// BAMConfig is the bam provider block.
type BAMConfig struct {
	URL             string `yaml:"url"`
	CredentialsPath string `yaml:"credentials_path"`

	APIKey string `yaml:"-"`
}

// OpenAIConfig is the openai provider block.
type OpenAIConfig struct {
	URL             string `yaml:"url"`
	CredentialsPath string `yaml:"credentials_path"`

	APIKey string `yaml:"-"`
}

// WatsonxConfig is the watsonx provider block.
type WatsonxConfig struct {
	URL             string `yaml:"url"`
	ProjectID       string `yaml:"project_id"`
	CredentialsPath string `yaml:"credentials_path"`

	APIKey string `yaml:"-"`
}

// RHELAIVLLMConfig is the rhelai_vllm provider block.
type RHELAIVLLMConfig struct {
	URL             string `yaml:"url"`
	CredentialsPath string `yaml:"credentials_path"`

	APIKey string `yaml:"-"`
}

// RHOAIVLLMConfig is the rhoai_vllm provider block.
type RHOAIVLLMConfig struct {
	URL             string `yaml:"url"`
	CredentialsPath string `yaml:"credentials_path"`

	APIKey string `yaml:"-"`
}

// FakeProviderConfig is the fake provider block, used by test rigs. It needs
// no credentials.
type FakeProviderConfig struct {
	// Stream makes the fake provider emit a chunked streaming response.
	Stream bool `yaml:"stream"`

	// Response is the canned response body.
	Response string `yaml:"response"`

	// Chunks is the number of chunks emitted when streaming.
	Chunks int `yaml:"chunks"`

	// SleepTime is the delay between chunks in seconds.
	SleepTime float64 `yaml:"sleep_time"`
}

// OLSConfig contains service-level policy.
type OLSConfig struct {
	// DefaultProvider is the provider used when a request does not name
	// one. Must be a key of llm_providers when set.
	DefaultProvider string `yaml:"default_provider"`

	// DefaultModel is the model used when a request does not name one.
	// Must exist under DefaultProvider when set.
	DefaultModel string `yaml:"default_model"`

	// ConversationCache selects and configures the conversation history
	// backing store.
	ConversationCache *ConversationCacheConfig `yaml:"conversation_cache"`

	// QuotaHandlers configures quota limiting and its backing store.
	QuotaHandlers *QuotaHandlersConfig `yaml:"quota_handlers"`

	// AuthenticationConfig selects the authentication module.
	AuthenticationConfig AuthenticationConfig `yaml:"authentication_config"`

	// TLSConfig carries the server certificate and key paths.
	TLSConfig TLSConfig `yaml:"tls_config"`

	// TLSSecurityProfile optionally tightens the accepted TLS versions
	// and ciphers of the server listener.
	TLSSecurityProfile *TLSSecurityProfile `yaml:"tls_security_profile"`

	// LoggingConfig sets log levels for the application and libraries.
	LoggingConfig LoggingConfig `yaml:"logging_config"`

	// QueryFilters is an ordered list of redaction filters applied to
	// incoming queries. Filter names must be unique.
	QueryFilters []QueryFilter `yaml:"query_filters"`

	// ReferenceContent points at the RAG indexes and embeddings model.
	ReferenceContent *ReferenceContent `yaml:"reference_content"`

	// UserDataCollection toggles local capture of feedback/transcripts.
	UserDataCollection UserDataCollection `yaml:"user_data_collection"`

	// ExtraCAs lists additional CA certificate files appended to the
	// trust store for outbound connections.
	ExtraCAs []string `yaml:"extra_ca"`

	// SystemPromptPath optionally overrides the built-in system prompt
	// with the contents of a file. Read at resolution time.
	SystemPromptPath string `yaml:"system_prompt_path"`

	// SystemPrompt holds the resolved system prompt override.
	SystemPrompt string `yaml:"-"`
}

// ConversationCacheConfig selects the conversation cache backend. Exactly
// the block matching Type must be present.
type ConversationCacheConfig struct {
	// Type is "memory" or "postgres".
	Type string `yaml:"type"`

	Memory   *InMemoryCacheConfig `yaml:"memory"`
	Postgres *PostgresConfig      `yaml:"postgres"`
}

// InMemoryCacheConfig configures the in-process conversation cache.
type InMemoryCacheConfig struct {
	// MaxEntries caps the number of cached conversations.
	// Default: 1000
	MaxEntries int `yaml:"max_entries"`
}

// PostgresConfig describes a PostgreSQL connection. It backs both the
// conversation cache and the quota handler storage.
type PostgresConfig struct {
	// Host is the PostgreSQL server hostname.
	// Default: "localhost"
	Host string `yaml:"host"`

	// Port is the PostgreSQL server port.
	// Default: 5432
	Port int `yaml:"port"`

	// DBName is the database name.
	// Default: "cache"
	DBName string `yaml:"dbname"`

	// User is the database user.
	// Default: "postgres"
	User string `yaml:"user"`

	// Password is the inline database password. Prefer PasswordPath.
	Password string `yaml:"password"`

	// PasswordPath is the path to a file containing the password. Read
	// at resolution time when Password is empty.
	PasswordPath string `yaml:"password_path"`

	// SSLMode controls the connection SSL mode.
	// One of "disable", "allow", "prefer", "require", "verify-ca",
	// "verify-full". Default: "prefer"
	SSLMode string `yaml:"ssl_mode"`

	// CACertPath is the path to the CA certificate used to verify the
	// server. Checked (and parsed) at resolution time.
	CACertPath string `yaml:"ca_cert_path"`

	// MaxEntries caps stored conversations when backing the cache.
	// Default: 1000
	MaxEntries int `yaml:"max_entries"`
}

// QuotaHandlersConfig configures quota limiting. Limiters require Storage:
// quota state is persistent by design, so a document that configures
// limiters without a backing store is rejected.
type QuotaHandlersConfig struct {
	// Storage is the PostgreSQL store holding quota state.
	Storage *PostgresConfig `yaml:"storage"`

	// Limiters maps limiter names to their configuration. The wire
	// format is a sequence of named entries.
	Limiters LimitersConfig `yaml:"limiters"`

	// Scheduler drives periodic quota revocation.
	Scheduler SchedulerConfig `yaml:"scheduler"`

	// EnableTokenHistory records per-request token usage.
	EnableTokenHistory bool `yaml:"enable_token_history"`
}

// LimitersConfig holds the quota limiters keyed by name.
type LimitersConfig struct {
	Limiters map[string]*LimiterConfig
}

// LimiterConfig describes one quota limiter.
type LimiterConfig struct {
	// Name identifies the limiter.
	Name string `yaml:"name"`

	// Type is "user_limiter" or "cluster_limiter".
	Type string `yaml:"type"`

	// InitialQuota is the number of tokens granted to a new subject.
	InitialQuota int `yaml:"initial_quota"`

	// QuotaIncrease is the number of tokens added on each revocation.
	QuotaIncrease int `yaml:"quota_increase"`

	// Period is the revocation period as a PostgreSQL interval string,
	// for example "30 days".
	Period string `yaml:"period"`
}

// SchedulerConfig drives the quota scheduler.
type SchedulerConfig struct {
	// Period is the scheduler poll period in seconds.
	// Default: 300
	Period int `yaml:"period"`
}

// MCPServerConfig describes one auxiliary tool-calling server. Exactly the
// transport block matching Transport must be present.
type MCPServerConfig struct {
	// Name identifies the server. Unique across mcp_servers.
	Name string `yaml:"name"`

	// Transport is "stdio" or "sse".
	Transport string `yaml:"transport"`

	Stdio *StdioTransportConfig `yaml:"stdio"`
	SSE   *SSETransportConfig   `yaml:"sse"`
}

// StdioTransportConfig runs an MCP server as a subprocess speaking over
// standard input/output.
type StdioTransportConfig struct {
	// Command is the executable to spawn.
	Command string `yaml:"command"`

	// Args are the command arguments.
	Args []string `yaml:"args"`

	// Env is the subprocess environment.
	Env map[string]string `yaml:"env"`

	// Cwd is the subprocess working directory.
	Cwd string `yaml:"cwd"`
}

// SSETransportConfig reaches an MCP server over streamed HTTP.
type SSETransportConfig struct {
	// URL is the server endpoint.
	URL string `yaml:"url"`

	// Timeout is the request timeout in seconds.
	// Default: 5
	Timeout int `yaml:"timeout"`

	// SSEReadTimeout is the stream read timeout in seconds.
	// Default: 10
	SSEReadTimeout int `yaml:"sse_read_timeout"`
}

// AuthenticationConfig selects the authentication module.
type AuthenticationConfig struct {
	// Module is "k8s", "noop" or "noop-with-token".
	// Default: "k8s"
	Module string `yaml:"module"`

	// SkipTLSVerification disables TLS verification of the cluster API.
	SkipTLSVerification bool `yaml:"skip_tls_verification"`

	// K8sClusterAPI optionally overrides the cluster API endpoint.
	K8sClusterAPI string `yaml:"k8s_cluster_api"`

	// K8sCACertPath is the CA certificate used to verify the cluster
	// API. Checked at resolution time.
	K8sCACertPath string `yaml:"k8s_ca_cert_path"`
}

// TLSConfig carries the server certificate and key. The paths come as a
// pair: setting one without the other is a validation error unless TLS is
// disabled through dev_config.disable_tls.
type TLSConfig struct {
	// TLSCertificatePath is the path to the PEM certificate.
	TLSCertificatePath string `yaml:"tls_certificate_path"`

	// TLSKeyPath is the path to the PEM private key.
	TLSKeyPath string `yaml:"tls_key_path"`

	// TLSKeyPasswordPath is the path to a file holding the key
	// passphrase. Read at resolution time.
	TLSKeyPasswordPath string `yaml:"tls_key_password_path"`

	// TLSKeyPassword holds the resolved key passphrase.
	TLSKeyPassword string `yaml:"-"`
}

// TLSSecurityProfile pins the TLS versions and ciphers of a listener or an
// outbound connection. MinTLSVersion and Ciphers may only be set when
// ProfileType is "Custom"; the named profiles carry their own values.
type TLSSecurityProfile struct {
	// ProfileType is "OldType", "IntermediateType", "ModernType" or
	// "Custom".
	ProfileType string `yaml:"type"`

	// MinTLSVersion is one of "VersionTLS10" through "VersionTLS13".
	// Only valid with the Custom profile.
	MinTLSVersion string `yaml:"minTLSVersion"`

	// Ciphers lists the permitted cipher suites. Only valid with the
	// Custom profile.
	Ciphers []string `yaml:"ciphers"`
}

// LoggingConfig sets log levels.
type LoggingConfig struct {
	// AppLogLevel is the application log level.
	// One of "debug", "info", "warning", "error". Default: "info"
	AppLogLevel string `yaml:"app_log_level"`

	// LibLogLevel is the log level for third-party libraries.
	// Default: "warning"
	LibLogLevel string `yaml:"lib_log_level"`
}

// QueryFilter rewrites matching query fragments before they reach a
// provider or any persisted transcript.
type QueryFilter struct {
	// Name identifies the filter. Unique across query_filters.
	Name string `yaml:"name"`

	// Pattern is a regular expression matched against the query.
	Pattern string `yaml:"pattern"`

	// ReplaceWith substitutes matched fragments.
	ReplaceWith string `yaml:"replace_with"`
}

// ReferenceContent points at the retrieval indexes used for grounding.
type ReferenceContent struct {
	// EmbeddingsModelPath is the local path of the embeddings model.
	// Checked at resolution time.
	EmbeddingsModelPath string `yaml:"embeddings_model_path"`

	// Indexes lists the document indexes to load.
	Indexes []ReferenceContentIndex `yaml:"indexes"`
}

// ReferenceContentIndex is one retrievable document index.
type ReferenceContentIndex struct {
	// ProductDocsIndexPath is the index directory. Checked at
	// resolution time.
	ProductDocsIndexPath string `yaml:"product_docs_index_path"`

	// ProductDocsIndexID is the index identifier.
	ProductDocsIndexID string `yaml:"product_docs_index_id"`
}

// UserDataCollection toggles local capture of user feedback and request
// transcripts. A toggle that is on requires its storage location.
type UserDataCollection struct {
	// FeedbackDisabled turns feedback capture off.
	FeedbackDisabled bool `yaml:"feedback_disabled"`

	// FeedbackStorage is the directory feedback is written to. Required
	// when feedback is enabled.
	// Default: "/tmp/data/feedback"
	FeedbackStorage string `yaml:"feedback_storage"`

	// TranscriptsDisabled turns transcript capture off.
	TranscriptsDisabled bool `yaml:"transcripts_disabled"`

	// TranscriptsStorage is the directory transcripts are written to.
	// Required when transcripts are enabled.
	// Default: "/tmp/data/transcripts"
	TranscriptsStorage string `yaml:"transcripts_storage"`
}

// UserDataCollectorConfig configures the sidecar shipping collected data to
// remote ingestion.
type UserDataCollectorConfig struct {
	// DataStorage is the directory watched for collected data.
	DataStorage string `yaml:"data_storage"`

	// LogLevel is the collector log level.
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// CollectionInterval is the upload interval in seconds.
	// Default: 7200
	CollectionInterval int `yaml:"collection_interval"`

	// IngressEnv is "prod" or "stage". The stage environment requires
	// CPOfflineToken for authentication.
	// Default: "prod"
	IngressEnv string `yaml:"ingress_env"`

	// CPOfflineToken authenticates against the stage ingress.
	CPOfflineToken string `yaml:"cp_offline_token"`

	// RunWithoutInitialWait skips the initial backoff before the first
	// upload.
	RunWithoutInitialWait bool `yaml:"run_without_initial_wait"`
}

// DevConfig contains development-only switches.
type DevConfig struct {
	// EnableDevUI serves the developer UI.
	EnableDevUI bool `yaml:"enable_dev_ui"`

	// DisableAuth turns authentication off.
	DisableAuth bool `yaml:"disable_auth"`

	// DisableTLS runs the listener in plaintext and silences the
	// certificate/key pair check on tls_config.
	DisableTLS bool `yaml:"disable_tls"`

	// LLMParams is passed through verbatim to the provider client,
	// overriding any computed parameters. Development only.
	LLMParams map[string]interface{} `yaml:"llm_params"`

	// RunOnLocalhost binds the listener to localhost only.
	RunOnLocalhost bool `yaml:"run_on_localhost"`
}
