// Package inkloomcmder
package inkloomcmder

import (
	"github.com/spf13/cobra"

	playcmder "github.com/inkloomco/inkloom/cmd/inkloom/play"
	searchcmder "github.com/inkloomco/inkloom/cmd/inkloom/search"
	versioncmder "github.com/inkloomco/inkloom/cmd/version"
)

const inkloomLongDesc string = `Inkloom is an interactive narrative engine with persistent story memory.

Every turn is scored, summarized, embedded, and stored so the storyteller
stays grounded in what already happened.

  inkloom play     Play an interactive story
  inkloom search   Search past story memories`

const inkloomShortDesc string = "Inkloom - Interactive stories with memory"

func NewInkloomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inkloom",
		Short: inkloomShortDesc,
		Long:  inkloomLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .inkloom config directory")

	// Add subcommands
	cmd.AddCommand(playcmder.NewPlayCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
