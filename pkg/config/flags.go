package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --story on
// both "inkloom play" and "inkloom search").
type Flag struct {
	// Name is the long flag name (e.g. "model").
	Name string

	// Shorthand is the one-letter short flag (e.g. "m"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "llm.model").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag registry keys to Flag structs.
type FlagSet map[string]Flag

// Flag registry keys.
const (
	FlagStory           = "story"
	FlagTemplatesDir    = "templates-dir"
	FlagModel           = "model"
	FlagLLMTarget       = "llm-target"
	FlagVectorStoreProv = "vector-store-provider"
	FlagVectorStoreTgt  = "vector-store-target"
	FlagSQLitePath      = "sqlite-path"
	FlagCollection      = "collection"
	FlagEmbeddingProv   = "embedding-provider"
	FlagEmbeddingTgt    = "embedding-target"
	FlagEmbeddingModel  = "embedding-model"
	FlagSynchronous     = "synchronous"
)

// DefaultFlagSet returns the shared flag registry for inkloom commands.
func DefaultFlagSet() FlagSet {
	return FlagSet{
		FlagStory: {
			Name: "story", Shorthand: "s", ViperKey: "story.path",
			Description: "Path to the story configuration TOML file",
		},
		FlagTemplatesDir: {
			Name: "templates-dir", ViperKey: "templates.dir",
			Description: "Directory containing prompt templates",
		},
		FlagModel: {
			Name: "model", Shorthand: "m", ViperKey: "llm.model",
			Description: "Chat completion model name",
		},
		FlagLLMTarget: {
			Name: "llm-target", ViperKey: "llm.target",
			Description: "Chat completion provider URL",
		},
		FlagVectorStoreProv: {
			Name: "vector-store-provider", ViperKey: "vector_store.provider",
			Description: "Memory store backend (qdrant, sqlite, memory)",
		},
		FlagVectorStoreTgt: {
			Name: "vector-store-target", ViperKey: "vector_store.target",
			Description: "Memory store backend address",
		},
		FlagSQLitePath: {
			Name: "sqlite-path", ViperKey: "vector_store.sqlite_path",
			Description: "SQLite database path for the sqlite memory store",
		},
		FlagCollection: {
			Name: "collection", ViperKey: "vector_store.collection",
			Description: "Memory store collection name",
		},
		FlagEmbeddingProv: {
			Name: "embedding-provider", ViperKey: "embedding.provider",
			Description: "Embedding provider (ollama, openai)",
		},
		FlagEmbeddingTgt: {
			Name: "embedding-target", ViperKey: "embedding.target",
			Description: "Embedding provider URL",
		},
		FlagEmbeddingModel: {
			Name: "embedding-model", ViperKey: "embedding.model",
			Description: "Embedding model name",
		},
		FlagSynchronous: {
			Name: "synchronous", ViperKey: "memory.synchronous",
			Description: "Wait for memory persistence before accepting the next turn",
		},
	}
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key, defaultValue string) {
	def, ok := fs[key]
	if !ok {
		return
	}
	cmd.Flags().StringP(def.Name, def.Shorthand, defaultValue, def.Description)
}

// AddBoolFlag registers a bool flag on cmd from the given FlagSet.
func AddBoolFlag(cmd *cobra.Command, fs FlagSet, key string, defaultValue bool) {
	def, ok := fs[key]
	if !ok {
		return
	}
	cmd.Flags().BoolP(def.Name, def.Shorthand, defaultValue, def.Description)
}

// BindRegisteredFlags binds every registered flag present on cmd to its viper
// key so flag values take precedence over file and env configuration.
func BindRegisteredFlags(cmd *cobra.Command, fs FlagSet, v *viper.Viper) error {
	for _, def := range fs {
		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(def.ViperKey, f); err != nil {
			return err
		}
	}
	return nil
}
