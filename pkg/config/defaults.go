package config

// Default values for configuration fields.
const (
	// Model defaults
	DefaultContextWindowSize = 128000

	// Conversation cache defaults
	DefaultCacheMaxEntries = 1000

	// PostgreSQL defaults
	DefaultPostgresHost    = "localhost"
	DefaultPostgresPort    = 5432
	DefaultPostgresDBName  = "cache"
	DefaultPostgresUser    = "postgres"
	DefaultPostgresSSLMode = "prefer"

	// Quota scheduler defaults
	DefaultSchedulerPeriod = 300 // seconds

	// MCP SSE transport defaults
	DefaultSSETimeout     = 5  // seconds
	DefaultSSEReadTimeout = 10 // seconds

	// Authentication defaults
	DefaultAuthModule = AuthModuleK8s

	// Logging defaults
	DefaultAppLogLevel = "info"
	DefaultLibLogLevel = "warning"

	// User data collection defaults
	DefaultFeedbackStorage    = "/tmp/data/feedback"
	DefaultTranscriptsStorage = "/tmp/data/transcripts"

	// User data collector defaults
	DefaultCollectorLogLevel   = "info"
	DefaultCollectionInterval  = 7200 // seconds
	DefaultCollectorIngressEnv = IngressEnvProd
)

// ApplyDefaults fills in default values for omitted optional fields. It is
// idempotent and safe to call multiple times. Boolean toggles keep their
// zero value; data collection is on by default and gets default storage
// locations so that a minimal document still validates.
func ApplyDefaults(cfg *Config) {
	for _, provider := range cfg.LLMProviders.Providers {
		for _, model := range provider.Models {
			if model.ContextWindowSize == 0 {
				model.ContextWindowSize = DefaultContextWindowSize
			}
		}
	}

	ols := &cfg.OLSConfig

	if cache := ols.ConversationCache; cache != nil {
		if cache.Memory != nil && cache.Memory.MaxEntries == 0 {
			cache.Memory.MaxEntries = DefaultCacheMaxEntries
		}
		if cache.Postgres != nil {
			applyPostgresDefaults(cache.Postgres)
		}
	}

	if quota := ols.QuotaHandlers; quota != nil {
		if quota.Storage != nil {
			applyPostgresDefaults(quota.Storage)
		}
		if quota.Scheduler.Period == 0 {
			quota.Scheduler.Period = DefaultSchedulerPeriod
		}
	}

	if ols.AuthenticationConfig.Module == "" {
		ols.AuthenticationConfig.Module = DefaultAuthModule
	}

	if ols.LoggingConfig.AppLogLevel == "" {
		ols.LoggingConfig.AppLogLevel = DefaultAppLogLevel
	}
	if ols.LoggingConfig.LibLogLevel == "" {
		ols.LoggingConfig.LibLogLevel = DefaultLibLogLevel
	}

	if ols.UserDataCollection.FeedbackStorage == "" {
		ols.UserDataCollection.FeedbackStorage = DefaultFeedbackStorage
	}
	if ols.UserDataCollection.TranscriptsStorage == "" {
		ols.UserDataCollection.TranscriptsStorage = DefaultTranscriptsStorage
	}

	for i := range cfg.MCPServers {
		if sse := cfg.MCPServers[i].SSE; sse != nil {
			if sse.Timeout == 0 {
				sse.Timeout = DefaultSSETimeout
			}
			if sse.SSEReadTimeout == 0 {
				sse.SSEReadTimeout = DefaultSSEReadTimeout
			}
		}
	}

	if collector := cfg.UserDataCollectorConfig; collector != nil {
		if collector.LogLevel == "" {
			collector.LogLevel = DefaultCollectorLogLevel
		}
		if collector.CollectionInterval == 0 {
			collector.CollectionInterval = DefaultCollectionInterval
		}
		if collector.IngressEnv == "" {
			collector.IngressEnv = DefaultCollectorIngressEnv
		}
	}
}

// applyPostgresDefaults fills in connection defaults for one PostgreSQL
// block.
func applyPostgresDefaults(pg *PostgresConfig) {
	if pg.Host == "" {
		pg.Host = DefaultPostgresHost
	}
	if pg.Port == 0 {
		pg.Port = DefaultPostgresPort
	}
	if pg.DBName == "" {
		pg.DBName = DefaultPostgresDBName
	}
	if pg.User == "" {
		pg.User = DefaultPostgresUser
	}
	if pg.SSLMode == "" {
		pg.SSLMode = DefaultPostgresSSLMode
	}
	if pg.MaxEntries == 0 {
		pg.MaxEntries = DefaultCacheMaxEntries
	}
}
