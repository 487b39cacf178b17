package system

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tally-app/tally-cli/internal/cli"
	"github.com/tally-app/tally-cli/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	// Seed from the cache so the list renders before the first fetch lands.
	ctx.HydrateFromCache()

	p := tea.NewProgram(tui.NewModel(ctx.Store, ctx.Cache), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
	return nil
}
