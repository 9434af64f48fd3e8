// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Provider identifies the text-generation backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderClaude Provider = "claude"
)

// AIConfig holds shared settings for components that call a
// text-generation API.
type AIConfig struct {
	// Provider selects the backend: openai or claude.
	Provider Provider `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the provider's default endpoint (optional,
	// for OpenAI-compatible gateways).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxTokens caps the length of each generated section (default 500).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature is the sampling temperature. Zero or negative selects
	// the default 0.7; an exact temperature of 0 is not expressible.
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxRevisions is the number of corrective re-prompts allowed per
	// section after the initial draft (default 3).
	MaxRevisions int `json:"max_revisions" yaml:"max_revisions"`
}

// GenerationConfig holds settings for the plan generation stage.
type GenerationConfig struct {
	AIConfig `yaml:",inline"`

	// OutputDir is the directory for generated plans (e.g. "output/plans/").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// SectionsFile optionally overrides the built-in section table
	// with a YAML file of custom sections and criteria.
	SectionsFile string `json:"sections_file,omitempty" yaml:"sections_file,omitempty"`
}

// StoreConfig holds settings for the plan history store.
type StoreConfig struct {
	// StateDir is the directory holding the SQLite database (default "state").
	StateDir string `json:"state_dir" yaml:"state_dir"`

	// MaxResults is the default maximum number of listed plans (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ServerConfig holds settings for the web UI server.
type ServerConfig struct {
	// Addr is the HTTP listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// RequireClientKey forces every generation request to carry its own
	// API key instead of falling back to the server's configured key.
	RequireClientKey bool `json:"require_client_key" yaml:"require_client_key"`
}

// AppConfig groups all stage configurations.
type AppConfig struct {
	Generation GenerationConfig `json:"generation" yaml:"generation"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Server     ServerConfig     `json:"server" yaml:"server"`
}
