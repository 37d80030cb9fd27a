package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// UploadResult represents the upload API response.
type UploadResult struct {
	Success     bool   `json:"success"`
	DocumentID  string `json:"document_id"`
	Filename    string `json:"filename"`
	ChunksCount int    `json:"chunks_count"`
	Message     string `json:"message"`
}

// UploadCmd creates the upload command.
func UploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document",
		Long:  "Uploads a legal document (pdf, docx, doc or txt) for indexing.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runUpload(cmd, args[0], outputJSON)
		},
	}
}

func runUpload(cmd *cobra.Command, filePath string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.UploadFile("/upload", filePath)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	var result UploadResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse upload result: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Uploaded %s\n", result.Filename)
	fmt.Printf("  Document ID: %s\n", result.DocumentID)
	fmt.Printf("  Chunks:      %d\n", result.ChunksCount)
	return nil
}
