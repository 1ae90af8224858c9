package llm

// Provider identifies a generative text provider.
type Provider string

// Supported providers.
const (
	ProviderGemini Provider = "gemini"
	ProviderOllama Provider = "ollama"
)

// Default model names per provider.
const (
	DefaultGeminiModel    = "gemini-2.5-flash"
	DefaultOllamaModel    = "llama3.2:3b"
	DefaultOllamaBaseURL  = "http://localhost:11434"
	DefaultEmbeddingModel = "text-embedding-004"
)

// ProviderConfig configures one provider in the fallback chain.
type ProviderConfig struct {
	Provider Provider `json:"provider"`
	Model    string   `json:"model,omitempty"`
	APIKey   string   `json:"api_key,omitempty"`
	BaseURL  string   `json:"base_url,omitempty"` // Ollama only
}

// Config holds the ordered provider list. Providers are tried in order
// until one succeeds.
type Config struct {
	Providers      []ProviderConfig `json:"providers"`
	EmbeddingModel string           `json:"embedding_model,omitempty"`
}

// DefaultConfig returns a Gemini-primary, Ollama-fallback chain.
func DefaultConfig(apiKey string) *Config {
	return &Config{
		Providers: []ProviderConfig{
			{Provider: ProviderGemini, Model: DefaultGeminiModel, APIKey: apiKey},
			{Provider: ProviderOllama, Model: DefaultOllamaModel, BaseURL: DefaultOllamaBaseURL},
		},
		EmbeddingModel: DefaultEmbeddingModel,
	}
}
