// Package llmutils is the llm provider utility package
package llmutils

import (
	"fmt"

	"github.com/inkloomco/inkloom/pkg/llm"
	"github.com/inkloomco/inkloom/pkg/llm/provider/ollama"
	"github.com/inkloomco/inkloom/pkg/llm/provider/openai"
)

type NewClientOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	APIKey       string
}

func NewClient(o *NewClientOpts) (llm.Client, error) {
	switch o.ProviderType {
	case "ollama":
		return ollama.NewClient(ollama.Config{
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	case "openai":
		return openai.NewClient(openai.Config{
			APIKey:  o.APIKey,
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", o.ProviderType)
	}
}
