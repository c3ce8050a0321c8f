package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/davronov/qrdesk/cmd/tui/ui"
	"github.com/davronov/qrdesk/internal/apiclient"
)

func main() {
	baseURL := os.Getenv("QRDESK_API")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	client := apiclient.New(baseURL)

	p := tea.NewProgram(
		ui.NewModel(client, baseURL),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
