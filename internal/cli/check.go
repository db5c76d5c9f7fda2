package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/misinfoguard/sentinel/internal/database"
	"github.com/misinfoguard/sentinel/internal/nlp"
	"github.com/misinfoguard/sentinel/internal/pipeline"
)

var checkTimeout time.Duration

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Check a document for misinformation",
	Long: `Check runs the full analysis pipeline on a document and prints the
verdicts as JSON. Reads from the given file, or from stdin when no file is
given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var data []byte
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
		} else {
			data, err = io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
		}
		if len(data) == 0 {
			return fmt.Errorf("no input text")
		}

		store, err := database.NewSQLiteStore(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer store.Close()

		sentiment, err := nlp.NewSentimentAnalyzer(&cfg.NLP)
		if err != nil {
			return fmt.Errorf("configuring sentiment analyzer: %w", err)
		}

		p := pipeline.New(cfg, newGatherer(cfg), sentiment, store)

		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()

		resp, err := p.Check(ctx, string(data))
		if err != nil {
			return fmt.Errorf("check failed: %w", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	},
}

func init() {
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 5*time.Minute, "overall check timeout")
}
