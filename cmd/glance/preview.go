package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/glance/internal/preview"
)

// previewCmd renders the configured widget tree in the terminal: same
// construction pipeline and gauge probes as the overlay, no compositor
// required.
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview the configured widgets in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := tea.NewProgram(preview.New(cfg, logger), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("preview failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}
