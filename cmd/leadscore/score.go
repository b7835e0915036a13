package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"naybourhood_backend/internal/leads/service"
	"naybourhood_backend/internal/scoring"

	"github.com/spf13/cobra"
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one buyer record from a JSON file",
		Long: `Score one buyer record. The file holds a JSON object of scalar fields
using the intake field names (full_name, budget, payment_method, ...).

Examples:
  # Full result
  leadscore score --file buyer.json

  # Flat ai_* fields as stored on the lead row
  leadscore score --file buyer.json --legacy

  # Pin the clock used for the lead-age flag
  leadscore score --file buyer.json --now 2025-06-01T00:00:00Z

  # Read from stdin
  cat buyer.json | leadscore score --file -`,
		Args: cobra.NoArgs,
		RunE: runScore,
	}

	f := cmd.Flags()
	f.String("file", "", "path to the buyer JSON file, or - for stdin")
	f.Bool("legacy", false, "print the legacy ai_* fields instead of the full result")
	f.String("now", "", "RFC3339 timestamp used as the current time (default: now)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runScore(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")
	legacy, _ := cmd.Flags().GetBool("legacy")
	nowRaw, _ := cmd.Flags().GetString("now")

	now := time.Now()
	if nowRaw != "" {
		parsed, err := time.Parse(time.RFC3339, nowRaw)
		if err != nil {
			return fmt.Errorf("score: --now must be RFC3339: %w", err)
		}
		now = parsed
	}

	raw, err := readBuyerFile(cmd, path)
	if err != nil {
		return err
	}

	buyer, err := service.ParseBuyer(raw)
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}

	result := scoring.Score(buyer, now)
	if legacy {
		return writeJSON(cmd.OutOrStdout(), scoring.ToLegacy(result))
	}
	return writeJSON(cmd.OutOrStdout(), result)
}

func readBuyerFile(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("score: read stdin: %w", err)
		}
		return raw, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("score: %w", err)
	}
	return raw, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
