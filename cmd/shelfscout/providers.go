package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mlehane/shelfscout/internal/cli"
)

func providersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "Show the model provider fallback chain and credential status",
		RunE: func(_ *cobra.Command, _ []string) error {
			orchestrator := createOrchestrator()

			fmt.Println(cli.FormatTitle("Provider chain"))
			available := 0
			for i, status := range orchestrator.Providers() {
				line := fmt.Sprintf("%d. %s", i+1, status.Name)
				if status.Available {
					available++
					fmt.Println("  " + cli.FormatSuccess(line))
				} else {
					fmt.Println("  " + cli.FormatWarning(line+" (no API key)"))
				}
			}

			if available == 0 {
				fmt.Println(cli.FormatError("No providers configured; scans will fall back to rule-based ranking only"))
			}
			return nil
		},
	}
}
