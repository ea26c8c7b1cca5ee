// Package searchcmder provides the search command for semantic search over
// story memories.
package searchcmder

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inkloomco/inkloom/pkg/config"
	embeddingutils "github.com/inkloomco/inkloom/pkg/embeddings/utils"
	"github.com/inkloomco/inkloom/pkg/logger"
	"github.com/inkloomco/inkloom/pkg/memory"
	memoryutils "github.com/inkloomco/inkloom/pkg/memory/utils"
	"github.com/inkloomco/inkloom/pkg/utils"
)

var (
	rankStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	metaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type searchCommander struct {
	query     string
	topK      int
	character string
	location  string
	quiet     bool

	cfg   *config.Config
	debug bool

	logger *zap.Logger
}

const searchLongDesc string = `Search story memories by meaning.

The query text is embedded and matched against stored memory records,
returning the most similar past turns. Filters restrict results to memories
involving a specific character or location.

Use --quiet to output only memory IDs, one per line.

Examples:
  inkloom search "the forged letter"
  inkloom search "Morgan's confession" --character Morgan
  inkloom search "what happened in the study" --location "the study" --top 10`

const searchShortDesc string = "Search story memories"

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}
	flagSet := config.DefaultFlagSet()

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if err := config.BindRegisteredFlags(cmd, flagSet, v); err != nil {
				return fmt.Errorf("binding flags: %w", err)
			}

			cmder.cfg, err = config.FromViper(v)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.query = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().IntVarP(&cmder.topK, "top", "k", defaults.Memory.RetrieveLimit, "Number of results to return")
	cmd.Flags().StringVar(&cmder.character, "character", "", "Only memories involving this character")
	cmd.Flags().StringVar(&cmder.location, "location", "", "Only memories at this location")
	cmd.Flags().BoolVarP(&cmder.quiet, "quiet", "q", false, "Output only memory IDs, one per line")
	config.AddStringFlag(cmd, flagSet, config.FlagVectorStoreProv, defaults.VectorStore.Provider)
	config.AddStringFlag(cmd, flagSet, config.FlagVectorStoreTgt, defaults.VectorStore.Target)
	config.AddStringFlag(cmd, flagSet, config.FlagSQLitePath, defaults.VectorStore.SQLitePath)
	config.AddStringFlag(cmd, flagSet, config.FlagEmbeddingProv, defaults.Embedding.Provider)
	config.AddStringFlag(cmd, flagSet, config.FlagEmbeddingTgt, defaults.Embedding.Target)
	config.AddStringFlag(cmd, flagSet, config.FlagEmbeddingModel, defaults.Embedding.Model)

	return cmd
}

func (c *searchCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: c.cfg.Embedding.Provider,
		TargetURL:    c.cfg.Embedding.Target,
		Model:        c.cfg.Embedding.Model,
		APIKey:       c.cfg.Embedding.APIKey,
	})
	if err != nil {
		return err
	}

	store, err := memoryutils.NewStore(ctx, c.cfg.VectorStore, c.cfg.Embedding.Dimensions, c.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	retriever := memory.NewRetriever(store, embedder, c.logger)
	results, err := retriever.RetrieveRelevant(ctx, c.query, memory.RetrieveOptions{
		Character: c.character,
		Location:  c.location,
		Limit:     c.topK,
	})
	if err != nil {
		return err
	}

	if c.quiet {
		for _, res := range results {
			fmt.Println(res.Record.ID)
		}
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No memories found.")
		return nil
	}

	fmt.Println()
	for i, res := range results {
		record := res.Record

		fmt.Printf("  %s %s %s\n",
			rankStyle.Render(fmt.Sprintf("%d.", i+1)),
			summaryStyle.Render(utils.Truncate(record.Summary, 100)),
			scoreStyle.Render(fmt.Sprintf("(%.3f)", res.Score)),
		)

		var meta []string
		if len(record.CharactersInvolved) > 0 {
			meta = append(meta, strings.Join(record.CharactersInvolved, ", "))
		}
		if len(record.LocationsInvolved) > 0 {
			meta = append(meta, strings.Join(record.LocationsInvolved, ", "))
		}
		meta = append(meta, record.CreatedAt.Format("2006-01-02 15:04:05"))

		fmt.Printf("     %s\n", metaStyle.Render(strings.Join(meta, " · ")))
	}
	fmt.Println()

	return nil
}
