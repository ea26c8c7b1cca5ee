package config

const (
	// v0 is the alpha version of the config
	v0 = 0

	// CurrentV is the currently supported version, points to v0
	CurrentV = v0

	defaultVectorProvider   = "sqlite"
	defaultVectorCollection = "inkloom_memories"
	defaultSQLitePath       = "inkloom.db"

	defaultEmbeddingProvider   = "ollama"
	defaultEmbeddingTarget     = "http://localhost:11434"
	defaultEmbeddingModel      = "nomic-embed-text"
	defaultEmbeddingDimensions = 768

	defaultLLMProvider = "ollama"
	defaultLLMTarget   = "http://localhost:11434"
	defaultLLMModel    = "llama3.2"

	defaultRetrieveLimit = 5
	defaultRecentWindow  = 3

	defaultEventStreamProvider = "nop"
	defaultEventStreamTopic    = "inkloom.memories"

	defaultStoryPath    = "story.toml"
	defaultTemplatesDir = "templates"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		VectorStore: VectorStoreConfig{
			Provider:   defaultVectorProvider,
			SQLitePath: defaultSQLitePath,
			Collection: defaultVectorCollection,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		LLM: LLMConfig{
			Provider: defaultLLMProvider,
			Target:   defaultLLMTarget,
			Model:    defaultLLMModel,
		},
		Memory: MemoryConfig{
			RetrieveLimit: defaultRetrieveLimit,
			RecentWindow:  defaultRecentWindow,
		},
		EventStream: EventStreamConfig{
			Provider: defaultEventStreamProvider,
			Topic:    defaultEventStreamTopic,
		},
		Story: StoryConfig{
			Path: defaultStoryPath,
		},
		Templates: TemplatesConfig{
			Dir: defaultTemplatesDir,
		},
	}
}
