package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// AskRequest represents the ask API request.
type AskRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k,omitempty"`
}

// Source represents a cited passage in an answer.
type Source struct {
	ChunkID        string  `json:"chunk_id"`
	RelevanceScore float64 `json:"relevance_score"`
	ContentPreview string  `json:"content_preview"`
}

// Performance represents per-stage timings for an answer.
type Performance struct {
	EmbeddingTimeSeconds  float64 `json:"embedding_time_seconds"`
	SearchTimeSeconds     float64 `json:"search_time_seconds"`
	GenerationTimeSeconds float64 `json:"generation_time_seconds"`
	TotalTimeSeconds      float64 `json:"total_time_seconds"`
}

// AskResult represents the ask API response.
type AskResult struct {
	Answer      string      `json:"answer"`
	Confidence  float64     `json:"confidence"`
	Sources     []Source    `json:"sources"`
	Performance Performance `json:"performance"`
}

// AskCmd creates the ask command.
func AskCmd() *cobra.Command {
	var topK int

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question",
		Long:  "Asks a question against the indexed documents and prints the cited answer.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runAsk(cmd, args[0], topK, outputJSON)
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "Number of passages to retrieve")

	return cmd
}

func runAsk(cmd *cobra.Command, question string, topK int, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/ask", AskRequest{Question: question, TopK: topK})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	var result AskResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse answer: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Println(result.Answer)
	fmt.Printf("\nConfidence: %.2f\n", result.Confidence)

	if len(result.Sources) > 0 {
		fmt.Printf("\nSources:\n")
		for i, src := range result.Sources {
			fmt.Printf("%d. (%.2f) %s\n", i+1, src.RelevanceScore, src.ContentPreview)
			if i < len(result.Sources)-1 {
				fmt.Println(strings.Repeat("-", 40))
			}
		}
	}

	fmt.Printf("\nTook %.2fs (search %.2fs, generation %.2fs)\n",
		result.Performance.TotalTimeSeconds,
		result.Performance.SearchTimeSeconds,
		result.Performance.GenerationTimeSeconds)
	return nil
}
