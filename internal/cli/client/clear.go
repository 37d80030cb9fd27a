package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// ClearResult represents the clear API response.
type ClearResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ClearCmd creates the clear command.
func ClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all documents",
		Long:  "Removes every loaded document and its vectors from the server.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runClear(cmd, outputJSON)
		},
	}
}

func runClear(cmd *cobra.Command, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Delete("/documents")
	if err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}

	var result ClearResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse clear result: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Println(result.Message)
	return nil
}
