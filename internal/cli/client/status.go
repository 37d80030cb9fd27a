package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// DocumentInfo represents loaded document metadata.
type DocumentInfo struct {
	DocumentID  string `json:"document_id"`
	Filename    string `json:"filename"`
	ChunksCount int    `json:"chunks_count"`
	FileSize    int64  `json:"file_size"`
	LoadedAt    string `json:"loaded_at"`
}

// StatusResult represents the status API response.
type StatusResult struct {
	SystemReady     bool           `json:"system_ready"`
	State           string         `json:"state"`
	LLMAvailable    bool           `json:"llm_available"`
	DocumentsCount  int            `json:"documents_count"`
	ChunksCount     int            `json:"chunks_count"`
	LoadedDocuments []DocumentInfo `json:"loaded_documents"`
}

// StatusCmd creates the status command.
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show system status",
		Long:  "Shows readiness, model availability and loaded documents.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runStatus(cmd, outputJSON)
		},
	}
}

func runStatus(cmd *cobra.Command, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Get("/status")
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	var result StatusResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse status: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("State:         %s\n", result.State)
	fmt.Printf("System ready:  %v\n", result.SystemReady)
	fmt.Printf("LLM available: %v\n", result.LLMAvailable)
	fmt.Printf("Documents:     %d\n", result.DocumentsCount)
	fmt.Printf("Chunks:        %d\n", result.ChunksCount)

	if len(result.LoadedDocuments) > 0 {
		fmt.Println("\nLoaded documents:")
		for _, doc := range result.LoadedDocuments {
			fmt.Printf("  %s (%d chunks, %d bytes)\n", doc.Filename, doc.ChunksCount, doc.FileSize)
		}
	}
	return nil
}
