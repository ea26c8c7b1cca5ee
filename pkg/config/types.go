package config

// Config represents the persistent inkloom configuration stored as
// config.toml in the .inkloom/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version     int               `mapstructure:"version" toml:"version"`
	VectorStore VectorStoreConfig `mapstructure:"vector_store" toml:"vector_store"`
	Embedding   EmbeddingConfig   `mapstructure:"embedding" toml:"embedding"`
	LLM         LLMConfig         `mapstructure:"llm" toml:"llm"`
	Memory      MemoryConfig      `mapstructure:"memory" toml:"memory"`
	EventStream EventStreamConfig `mapstructure:"eventstream" toml:"eventstream"`
	Story       StoryConfig       `mapstructure:"story" toml:"story"`
	Templates   TemplatesConfig   `mapstructure:"templates" toml:"templates"`
}

// VectorStoreConfig holds memory store backend settings.
type VectorStoreConfig struct {
	// Provider selects the store backend: "qdrant", "sqlite" or "memory".
	Provider string `mapstructure:"provider" toml:"provider,omitempty"`

	// Target is the backend address. For qdrant this is host:port of the
	// gRPC endpoint; unused by the sqlite and memory backends.
	Target string `mapstructure:"target" toml:"target,omitempty"`

	// SQLitePath is the database file path for the sqlite backend.
	SQLitePath string `mapstructure:"sqlite_path" toml:"sqlite_path,omitempty"`

	// Collection is the logical collection name holding memory records.
	Collection string `mapstructure:"collection" toml:"collection,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider" toml:"provider,omitempty"`
	Target     string `mapstructure:"target" toml:"target,omitempty"`
	Model      string `mapstructure:"model" toml:"model,omitempty"`
	APIKey     string `mapstructure:"api_key" toml:"api_key,omitempty"`
	Dimensions uint   `mapstructure:"dimensions" toml:"dimensions,omitempty"`
}

// LLMConfig holds chat completion provider settings.
type LLMConfig struct {
	Provider string `mapstructure:"provider" toml:"provider,omitempty"`
	Target   string `mapstructure:"target" toml:"target,omitempty"`
	Model    string `mapstructure:"model" toml:"model,omitempty"`
	APIKey   string `mapstructure:"api_key" toml:"api_key,omitempty"`
}

// MemoryConfig holds retrieval and persistence tuning for the memory engine.
type MemoryConfig struct {
	// RetrieveLimit is the number of relevant memories pulled per turn.
	RetrieveLimit int `mapstructure:"retrieve_limit" toml:"retrieve_limit,omitempty"`

	// RecentWindow is the number of recent records included for short-term
	// continuity.
	RecentWindow int `mapstructure:"recent_window" toml:"recent_window,omitempty"`

	// Synchronous forces each turn to wait for background persistence to
	// drain before returning, trading latency for read-after-write
	// consistency on the next turn.
	Synchronous bool `mapstructure:"synchronous" toml:"synchronous,omitempty"`
}

// EventStreamConfig holds event stream publisher settings.
type EventStreamConfig struct {
	// Provider selects the publisher: "nop" (default) or "kafka".
	Provider string   `mapstructure:"provider" toml:"provider,omitempty"`
	Brokers  []string `mapstructure:"brokers" toml:"brokers,omitempty"`
	Topic    string   `mapstructure:"topic" toml:"topic,omitempty"`
}

// StoryConfig points at the story configuration bundle.
type StoryConfig struct {
	Path string `mapstructure:"path" toml:"path,omitempty"`
}

// TemplatesConfig points at the prompt template directory.
type TemplatesConfig struct {
	Dir string `mapstructure:"dir" toml:"dir,omitempty"`

	// Watch enables fsnotify hot reload of template files.
	Watch bool `mapstructure:"watch" toml:"watch,omitempty"`
}
