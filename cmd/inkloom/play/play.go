// Package playcmder provides the play command: the interactive story loop.
package playcmder

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inkloomco/inkloom/pkg/cliui"
	"github.com/inkloomco/inkloom/pkg/config"
	"github.com/inkloomco/inkloom/pkg/embeddings"
	embeddingutils "github.com/inkloomco/inkloom/pkg/embeddings/utils"
	"github.com/inkloomco/inkloom/pkg/engine"
	"github.com/inkloomco/inkloom/pkg/eventstream"
	eventstreamutils "github.com/inkloomco/inkloom/pkg/eventstream/utils"
	"github.com/inkloomco/inkloom/pkg/extract"
	"github.com/inkloomco/inkloom/pkg/llm"
	llmutils "github.com/inkloomco/inkloom/pkg/llm/provider/utils"
	"github.com/inkloomco/inkloom/pkg/logger"
	"github.com/inkloomco/inkloom/pkg/memory"
	memoryutils "github.com/inkloomco/inkloom/pkg/memory/utils"
	"github.com/inkloomco/inkloom/pkg/prompt"
	"github.com/inkloomco/inkloom/pkg/story"
)

var (
	playerPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type playCommander struct {
	cfg   *config.Config
	debug bool

	logger *zap.Logger
}

const playLongDesc string = `Play an interactive story.

Each of your actions is answered by the configured model, grounded in
memories of past turns retrieved from the vector store. Every response is
extracted into a structured record, scored, summarized, embedded, and
persisted in the background.

Examples:
  inkloom play --story story.toml
  inkloom play --story story.toml --model llama3.2 --vector-store-provider qdrant
  inkloom play --synchronous`

const playShortDesc string = "Play an interactive story"

func NewPlayCmd() *cobra.Command {
	cmder := &playCommander{}
	flagSet := config.DefaultFlagSet()

	cmd := &cobra.Command{
		Use:   "play",
		Short: playShortDesc,
		Long:  playLongDesc,
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
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	defaults := config.NewDefaultConfig()
	config.AddStringFlag(cmd, flagSet, config.FlagStory, defaults.Story.Path)
	config.AddStringFlag(cmd, flagSet, config.FlagTemplatesDir, defaults.Templates.Dir)
	config.AddStringFlag(cmd, flagSet, config.FlagModel, defaults.LLM.Model)
	config.AddStringFlag(cmd, flagSet, config.FlagLLMTarget, defaults.LLM.Target)
	config.AddStringFlag(cmd, flagSet, config.FlagVectorStoreProv, defaults.VectorStore.Provider)
	config.AddStringFlag(cmd, flagSet, config.FlagVectorStoreTgt, defaults.VectorStore.Target)
	config.AddStringFlag(cmd, flagSet, config.FlagSQLitePath, defaults.VectorStore.SQLitePath)
	config.AddStringFlag(cmd, flagSet, config.FlagEmbeddingProv, defaults.Embedding.Provider)
	config.AddStringFlag(cmd, flagSet, config.FlagEmbeddingTgt, defaults.Embedding.Target)
	config.AddStringFlag(cmd, flagSet, config.FlagEmbeddingModel, defaults.Embedding.Model)
	config.AddBoolFlag(cmd, flagSet, config.FlagSynchronous, defaults.Memory.Synchronous)

	return cmd
}

func (c *playCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	var storyCfg *story.Config
	err := cliui.Step(os.Stdout, "Loading story", func() error {
		var err error
		storyCfg, err = story.Load(c.cfg.Story.Path)
		return err
	})
	if err != nil {
		return err
	}

	templates := prompt.NewRepository(c.logger)
	if err := templates.LoadDir(c.cfg.Templates.Dir); err != nil {
		return err
	}
	if c.cfg.Templates.Watch {
		if err := templates.Watch(ctx); err != nil {
			return err
		}
	}

	var (
		embedder embeddings.Embedder
		store    memory.Store
		client   llm.Client
	)
	err = cliui.Step(os.Stdout, "Connecting to providers", func() error {
		var err error
		embedder, err = embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
			ProviderType: c.cfg.Embedding.Provider,
			TargetURL:    c.cfg.Embedding.Target,
			Model:        c.cfg.Embedding.Model,
			APIKey:       c.cfg.Embedding.APIKey,
		})
		if err != nil {
			return err
		}

		store, err = memoryutils.NewStore(ctx, c.cfg.VectorStore, c.cfg.Embedding.Dimensions, c.logger)
		if err != nil {
			return err
		}

		client, err = llmutils.NewClient(&llmutils.NewClientOpts{
			ProviderType: c.cfg.LLM.Provider,
			TargetURL:    c.cfg.LLM.Target,
			Model:        c.cfg.LLM.Model,
			APIKey:       c.cfg.LLM.APIKey,
		})
		return err
	})
	if err != nil {
		return err
	}
	defer store.Close()
	defer client.Close()

	publisher, err := eventstreamutils.NewPublisher(c.cfg.EventStream, c.logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	pipeline := memory.NewPipeline(
		store, embedder,
		memory.NewSummarizer(client, c.logger),
		publisher,
		eventstream.EventSource{Story: storyCfg.Title, Provider: c.cfg.LLM.Provider},
		c.logger,
	)

	pool, err := engine.NewPool(&engine.PoolConfig{
		Pipeline: pipeline,
		Logger:   c.logger,
	})
	if err != nil {
		return err
	}

	retriever := memory.NewRetriever(store, embedder, c.logger)
	assembler := engine.NewAssembler(
		retriever, templates, storyCfg,
		c.cfg.Memory.RetrieveLimit, c.cfg.Memory.RecentWindow,
		c.logger,
	)

	eng := engine.New(engine.Config{
		Client:      client,
		Extractor:   extract.NewExtractor(client, c.logger),
		Assembler:   assembler,
		Pool:        pool,
		Synchronous: c.cfg.Memory.Synchronous,
		Logger:      c.logger,
	})
	defer eng.Close()

	fmt.Println()
	fmt.Printf("  %s %s\n", titleStyle.Render(storyCfg.Title), dimStyle.Render("("+storyCfg.Genre+")"))
	fmt.Printf("  %s\n\n", dimStyle.Render("Type your action and press Enter. /exit or Ctrl+D to quit."))

	opening, err := eng.Begin(ctx)
	if err != nil {
		return err
	}
	fmt.Print(cliui.RenderNarrative(opening))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(playerPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}

		narrative, err := eng.Turn(ctx, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
			continue
		}
		fmt.Print(cliui.RenderNarrative(narrative))
	}

	// Drain pending memory writes before the deferred closes run.
	eng.Flush()
	fmt.Printf("\n  %s\n", dimStyle.Render("The story rests here."))

	return nil
}
