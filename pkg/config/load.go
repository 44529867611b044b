package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// SchemaError reports a structural problem in the configuration document:
// a wrong type or shape, an unknown field, or a missing required field.
// Schema errors abort the pipeline immediately since later checks cannot
// run against a malformed tree.
type SchemaError struct {
	// Field is the dotted path to the offending field, when known
	// (e.g. "llm_providers[0].models[1].name").
	Field string

	// Message describes the problem.
	Message string
}

// Error returns the error message for this schema error.
func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid configuration document: %s", e.Message)
	}
	return fmt.Sprintf("invalid configuration document: %s: %s", e.Field, e.Message)
}

// Load reads and builds the typed configuration graph from a YAML file.
// It performs strict decoding only; the result has not been validated or
// resolved. Most callers want LoadAndValidate instead.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}
	return Build(data)
}

// Build decodes a raw YAML document into the typed configuration graph.
// Unknown fields are an error: a misspelled key silently ignored at startup
// would surface much later as missing behavior, so the schema is strict.
func Build(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SchemaError{Message: "document is empty"}
		}
		var schemaErr *SchemaError
		if errors.As(err, &schemaErr) {
			return nil, schemaErr
		}
		return nil, &SchemaError{Message: err.Error()}
	}
	return &cfg, nil
}

// LoadAndValidate runs the whole pipeline: build the graph from the file at
// path, apply defaults, run the three validation passes, then resolve
// external references. It returns a single immutable Config, or the error
// of exactly one failing stage (*SchemaError, *ValidationError or
// *ResolutionError). No partially valid Config is ever returned.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	if err := Resolve(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// nestSchemaError rebases a decoding error under prefix, composing field
// paths when the inner error is itself a SchemaError (so a bad model inside
// a provider reports "llm_providers[0].models[1]...").
func nestSchemaError(err error, prefix string) *SchemaError {
	var inner *SchemaError
	if errors.As(err, &inner) {
		field := prefix
		if inner.Field != "" {
			field = prefix + "." + inner.Field
		}
		return &SchemaError{Field: field, Message: inner.Message}
	}
	return &SchemaError{Field: prefix, Message: err.Error()}
}

// decodeStrict decodes a YAML subtree into out with unknown-field checking.
// yaml.Node.Decode does not honour KnownFields, so the subtree is re-encoded
// and run through a strict decoder.
func decodeStrict(node *yaml.Node, out interface{}) error {
	raw, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// UnmarshalYAML builds the provider map from the wire format, a sequence of
// named provider entries. Duplicate names are rejected here so that map
// keys are unique by construction.
func (p *LLMProviders) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return &SchemaError{Field: "llm_providers", Message: "expected a sequence of providers"}
	}

	p.Providers = make(map[string]*ProviderConfig, len(node.Content))
	for i, item := range node.Content {
		var provider ProviderConfig
		if err := decodeStrict(item, &provider); err != nil {
			return nestSchemaError(err, fmt.Sprintf("llm_providers[%d]", i))
		}
		if provider.Name == "" {
			return &SchemaError{Field: fmt.Sprintf("llm_providers[%d].name", i), Message: "provider name is required"}
		}
		if _, ok := p.Providers[provider.Name]; ok {
			return &SchemaError{
				Field:   fmt.Sprintf("llm_providers[%d].name", i),
				Message: fmt.Sprintf("duplicate provider name %q", provider.Name),
			}
		}
		p.Providers[provider.Name] = &provider
	}
	return nil
}

// UnmarshalYAML builds the model map from a sequence of named model entries,
// rejecting duplicate names.
func (m *ModelMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return &SchemaError{Field: "models", Message: "expected a sequence of models"}
	}

	models := make(ModelMap, len(node.Content))
	for i, item := range node.Content {
		var model ModelConfig
		if err := decodeStrict(item, &model); err != nil {
			return nestSchemaError(err, fmt.Sprintf("models[%d]", i))
		}
		if model.Name == "" {
			return &SchemaError{Field: fmt.Sprintf("models[%d].name", i), Message: "model name is required"}
		}
		if _, ok := models[model.Name]; ok {
			return &SchemaError{
				Field:   fmt.Sprintf("models[%d].name", i),
				Message: fmt.Sprintf("duplicate model name %q", model.Name),
			}
		}
		models[model.Name] = &model
	}
	*m = models
	return nil
}

// UnmarshalYAML builds the limiter map from a sequence of named limiter
// entries, rejecting duplicate names.
func (l *LimitersConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return &SchemaError{Field: "limiters", Message: "expected a sequence of limiters"}
	}

	l.Limiters = make(map[string]*LimiterConfig, len(node.Content))
	for i, item := range node.Content {
		var limiter LimiterConfig
		if err := decodeStrict(item, &limiter); err != nil {
			return nestSchemaError(err, fmt.Sprintf("limiters[%d]", i))
		}
		if limiter.Name == "" {
			return &SchemaError{Field: fmt.Sprintf("limiters[%d].name", i), Message: "limiter name is required"}
		}
		if _, ok := l.Limiters[limiter.Name]; ok {
			return &SchemaError{
				Field:   fmt.Sprintf("limiters[%d].name", i),
				Message: fmt.Sprintf("duplicate limiter name %q", limiter.Name),
			}
		}
		l.Limiters[limiter.Name] = &limiter
	}
	return nil
}
