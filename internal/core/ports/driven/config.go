package driven

// ConfigStore provides access to application configuration.
// Implementations handle persistence and type conversion; missing keys
// yield zero values and callers apply their own defaults.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetFloat retrieves a floating-point configuration value.
	// Returns 0 if key doesn't exist or isn't a number.
	GetFloat(key string) float64

	// GetBool retrieves a boolean configuration value.
	// Returns false if key doesn't exist or isn't a boolean.
	GetBool(key string) bool

	// GetStringSlice retrieves a string slice configuration value.
	// Returns nil if key doesn't exist or isn't a slice.
	GetStringSlice(key string) []string

	// Set stores a configuration value.
	// The value is persisted immediately.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}

// Well-known configuration keys. Nested TOML tables are addressed with
// dot notation, e.g. [chunk] size = 1000 becomes "chunk.size".
const (
	// KeyChunkSize is the passage size in characters.
	KeyChunkSize = "chunk.size"

	// KeyChunkProcessors names the post-processors applied to each
	// document, in order.
	KeyChunkProcessors = "chunk.processors"

	// KeyChunkOverlap is the shared character count between adjacent
	// passages.
	KeyChunkOverlap = "chunk.overlap"

	// KeyRetrievalTopK is the number of passages retrieved per query.
	KeyRetrievalTopK = "retrieval.top_k"

	// KeyEmbeddingProvider selects the embedding backend, "openai" or
	// "ollama".
	KeyEmbeddingProvider = "embedding.provider"

	// KeyEmbeddingModel is the embedding model name.
	KeyEmbeddingModel = "embedding.model"

	// KeyEmbeddingBaseURL overrides the embedding API base URL.
	KeyEmbeddingBaseURL = "embedding.base_url"

	// KeyEmbeddingDimensions overrides the embedding vector size.
	KeyEmbeddingDimensions = "embedding.dimensions"

	// KeyLLMProvider selects the chat backend, "groq" or "ollama".
	KeyLLMProvider = "llm.provider"

	// KeyLLMModel is the chat-completion model name.
	KeyLLMModel = "llm.model"

	// KeyLLMBaseURL overrides the chat-completion API base URL.
	KeyLLMBaseURL = "llm.base_url"

	// KeyLLMMaxTokens caps completion length.
	KeyLLMMaxTokens = "llm.max_tokens"

	// KeyLLMTemperature sets sampling temperature.
	KeyLLMTemperature = "llm.temperature"

	// KeyDataDir is the corpus directory holding source PDF files.
	KeyDataDir = "paths.data_dir"

	// KeyIndexDir is the directory persisted indexes live under.
	KeyIndexDir = "paths.index_dir"

	// KeyBoilerplatePrefixes lists extra answer lead-ins to strip, on
	// top of the built-in set.
	KeyBoilerplatePrefixes = "chat.boilerplate_prefixes"

	// KeyRateLimitRPS is the outbound request rate for backend calls.
	KeyRateLimitRPS = "ratelimit.requests_per_second"

	// KeyRateLimitBurst is the outbound request burst size.
	KeyRateLimitBurst = "ratelimit.burst"
)
