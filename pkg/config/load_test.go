package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const minimalDocument = `
llm_providers:
  - name: my_watsonx
    type: watsonx
    url: https://us-south.ml.cloud.ibm.com
    models:
      - name: granite-13b
        context_window_size: 8192
    watsonx_config:
      project_id: project-1
`

func schemaError(t *testing.T, err error) *SchemaError {
	t.Helper()
	if err == nil {
		t.Fatal("expected build to fail")
	}
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %T: %v", err, err)
	}
	return schemaErr
}

func TestBuild_MinimalDocument(t *testing.T) {
	cfg, err := Build([]byte(minimalDocument))
	if err != nil {
		t.Fatalf("expected document to build, got %v", err)
	}

	provider, ok := cfg.LLMProviders.Providers["my_watsonx"]
	if !ok {
		t.Fatal("expected provider my_watsonx in the graph")
	}
	if provider.Type != ProviderWatsonx {
		t.Errorf("expected provider type %q, got %q", ProviderWatsonx, provider.Type)
	}
	model, ok := provider.Models["granite-13b"]
	if !ok {
		t.Fatal("expected model granite-13b under my_watsonx")
	}
	if model.ContextWindowSize != 8192 {
		t.Errorf("expected context window 8192, got %d", model.ContextWindowSize)
	}
	if provider.WatsonxConfig == nil || provider.WatsonxConfig.ProjectID != "project-1" {
		t.Errorf("expected watsonx_config.project_id to decode, got %+v", provider.WatsonxConfig)
	}
}

func TestBuild_EmptyDocument(t *testing.T) {
	_, err := Build([]byte(""))
	schemaErr := schemaError(t, err)
	if !strings.Contains(schemaErr.Message, "empty") {
		t.Errorf("expected empty-document message, got %q", schemaErr.Message)
	}
}

func TestBuild_UnknownTopLevelKey(t *testing.T) {
	doc := minimalDocument + "\nolsconfig: {}\n"
	_, err := Build([]byte(doc))
	schemaError(t, err)
}

func TestBuild_UnknownNestedKey(t *testing.T) {
	doc := `
llm_providers:
  - name: my_watsonx
    type: watsonx
    url: https://us-south.ml.cloud.ibm.com
    modles:
      - name: granite-13b
`
	_, err := Build([]byte(doc))
	schemaErr := schemaError(t, err)
	if !strings.HasPrefix(schemaErr.Field, "llm_providers[0]") {
		t.Errorf("expected field path rooted at llm_providers[0], got %q", schemaErr.Field)
	}
}

func TestBuild_DuplicateProviderNames(t *testing.T) {
	doc := `
llm_providers:
  - name: p
    type: openai
    models:
      - name: m
  - name: p
    type: openai
    models:
      - name: m
`
	_, err := Build([]byte(doc))
	schemaErr := schemaError(t, err)
	if schemaErr.Field != "llm_providers[1].name" {
		t.Errorf("expected field llm_providers[1].name, got %q", schemaErr.Field)
	}
	if !strings.Contains(schemaErr.Message, "duplicate") {
		t.Errorf("expected duplicate-name message, got %q", schemaErr.Message)
	}
}

func TestBuild_DuplicateModelNames(t *testing.T) {
	doc := `
llm_providers:
  - name: p
    type: openai
    models:
      - name: m
      - name: m
`
	_, err := Build([]byte(doc))
	schemaErr := schemaError(t, err)
	if !strings.Contains(schemaErr.Field, "models[1].name") {
		t.Errorf("expected field path naming models[1].name, got %q", schemaErr.Field)
	}
}

func TestBuild_ProviderNameRequired(t *testing.T) {
	doc := `
llm_providers:
  - type: openai
    models:
      - name: m
`
	_, err := Build([]byte(doc))
	schemaErr := schemaError(t, err)
	if schemaErr.Field != "llm_providers[0].name" {
		t.Errorf("expected field llm_providers[0].name, got %q", schemaErr.Field)
	}
}

func TestBuild_ProvidersMustBeSequence(t *testing.T) {
	doc := `
llm_providers:
  my_watsonx:
    type: watsonx
`
	_, err := Build([]byte(doc))
	schemaErr := schemaError(t, err)
	if schemaErr.Field != "llm_providers" {
		t.Errorf("expected field llm_providers, got %q", schemaErr.Field)
	}
}

func TestBuild_LimiterSequence(t *testing.T) {
	doc := minimalDocument + `
ols_config:
  quota_handlers:
    storage:
      host: db.example.com
    limiters:
      - name: user_monthly
        type: user_limiter
        initial_quota: 100000
        quota_increase: 1000
        period: 30 days
`
	cfg, err := Build([]byte(doc))
	if err != nil {
		t.Fatalf("expected document to build, got %v", err)
	}
	quota := cfg.OLSConfig.QuotaHandlers
	if quota == nil {
		t.Fatal("expected quota_handlers to decode")
	}
	limiter, ok := quota.Limiters.Limiters["user_monthly"]
	if !ok {
		t.Fatal("expected limiter user_monthly in the map")
	}
	if limiter.Type != LimiterTypeUser || limiter.Period != "30 days" {
		t.Errorf("unexpected limiter values: %+v", limiter)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected load of a missing file to fail")
	}
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		t.Fatalf("a read failure is not a schema error: %v", err)
	}
}

func TestLoadAndValidate_MinimalDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "olsconfig.yaml")
	if err := os.WriteFile(path, []byte(minimalDocument), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("expected minimal document to pass the pipeline, got %v", err)
	}

	// Defaults and derivations are in place.
	if cfg.OLSConfig.AuthenticationConfig.Module != AuthModuleK8s {
		t.Errorf("expected default auth module %q, got %q", AuthModuleK8s, cfg.OLSConfig.AuthenticationConfig.Module)
	}
	model := cfg.LLMProviders.Providers["my_watsonx"].Models["granite-13b"]
	if model.Parameters == nil || model.Parameters.MaxTokensForResponse != 4096 {
		t.Errorf("expected derived response budget 4096, got %+v", model.Parameters)
	}
}

func TestLoadAndValidate_RoundTripsToSameValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "olsconfig.yaml")
	if err := os.WriteFile(path, []byte(minimalDocument), 0o600); err != nil {
		t.Fatal(err)
	}

	first, err := LoadAndValidate(path)
	if err != nil {
		t.Fatal(err)
	}
	second, err := LoadAndValidate(path)
	if err != nil {
		t.Fatal(err)
	}

	p1 := first.LLMProviders.Providers["my_watsonx"]
	p2 := second.LLMProviders.Providers["my_watsonx"]
	if p1.Type != p2.Type || p1.URL != p2.URL {
		t.Error("expected identical provider values across loads")
	}
	m1 := p1.Models["granite-13b"]
	m2 := p2.Models["granite-13b"]
	if *m1.Parameters != *m2.Parameters || m1.ContextWindowSize != m2.ContextWindowSize {
		t.Error("expected identical model values across loads")
	}
}
