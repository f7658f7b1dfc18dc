package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

type options struct {
	apiURL  string
	timeout time.Duration
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "inventario-tui",
		Short: "Terminal client for the inventario API",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := NewClient(opts.apiURL, opts.timeout)
			program := tea.NewProgram(NewModel(client), tea.WithAltScreen())
			_, err := program.Run()
			return err
		},
	}
	cmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", "http://localhost:8080", "API base URL")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 60*time.Second, "per-request timeout")
	return cmd
}
