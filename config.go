package claimsight

// Config holds all configuration for the claimsight application.
// Values are loaded once at startup (file + environment); nothing is
// mutated at runtime.
type Config struct {
	// ListenAddr is the HTTP listen address for the web UI.
	ListenAddr string `json:"listen_addr" yaml:"listen_addr" mapstructure:"listen_addr"`

	// KnowledgeBase is the path to a JSON knowledge base file.
	// Empty uses the built-in insurance knowledge base.
	KnowledgeBase string `json:"knowledge_base" yaml:"knowledge_base" mapstructure:"knowledge_base"`

	// GraphData is the path to a JSON graph file ({"nodes": [], "edges": []}).
	// Empty uses the built-in sample insurance graph.
	GraphData string `json:"graph_data" yaml:"graph_data" mapstructure:"graph_data"`

	// ConfidenceThreshold is the minimum similarity score for an answer to
	// be returned as a match. Below it the retriever reports no match with
	// the score attached. Must be in [0,1].
	ConfidenceThreshold float64 `json:"confidence_threshold" yaml:"confidence_threshold" mapstructure:"confidence_threshold"`

	// MaxUploadBytes caps the size of uploaded claim documents.
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`

	// Embedding optionally configures a model-backed embedding provider for
	// semantic retrieval. Empty provider = lexical scoring only, no network.
	Embedding EmbeddingConfig `json:"embedding" yaml:"embedding" mapstructure:"embedding"`

	// EmbeddingDim must match the configured embedding model's output size.
	EmbeddingDim int `json:"embedding_dim" yaml:"embedding_dim" mapstructure:"embedding_dim"`
}

// EmbeddingConfig configures a single embedding provider endpoint.
type EmbeddingConfig struct {
	Provider string `json:"provider" yaml:"provider" mapstructure:"provider"` // openai, ollama, or empty
	Model    string `json:"model" yaml:"model" mapstructure:"model"`
	BaseURL  string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
	APIKey   string `json:"api_key" yaml:"api_key" mapstructure:"api_key"`
}

// DefaultConfig returns a Config that runs fully offline: built-in
// knowledge base and graph, lexical scoring, no embedding provider.
func DefaultConfig() Config {
	return Config{
		ListenAddr:          ":8080",
		ConfidenceThreshold: 0.3,
		MaxUploadBytes:      20 << 20, // 20MB
		EmbeddingDim:        1536,     // text-embedding-3-small
	}
}
