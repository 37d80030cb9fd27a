package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// DocumentList represents the documents API response.
type DocumentList struct {
	Documents      []DocumentInfo `json:"documents"`
	TotalDocuments int            `json:"total_documents"`
}

// DocumentsCmd creates the documents command.
func DocumentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "documents",
		Short: "List loaded documents",
		Long:  "Lists the documents currently loaded in the index.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runDocuments(cmd, outputJSON)
		},
	}
}

func runDocuments(cmd *cobra.Command, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Get("/documents")
	if err != nil {
		return fmt.Errorf("documents failed: %w", err)
	}

	var result DocumentList
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse documents: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if result.TotalDocuments == 0 {
		fmt.Println("No documents loaded.")
		return nil
	}

	fmt.Printf("%d document(s):\n", result.TotalDocuments)
	for _, doc := range result.Documents {
		fmt.Printf("  %s (%d chunks, %d bytes, loaded %s)\n",
			doc.Filename, doc.ChunksCount, doc.FileSize, doc.LoadedAt)
		fmt.Printf("    ID: %s\n", doc.DocumentID)
	}
	return nil
}
