package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/tonalab/seasonal/internal/analysis"
	"github.com/tonalab/seasonal/internal/image"
)

var (
	// Batch command flags
	batchJSON bool
	batchCSV  string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Analyze every photograph in a directory",
	Long: `Batch runs the season classifier over every supported image in a
directory and prints a per-file summary.

Failed loads and undetected faces are reported per file; they do not stop
the batch.

Examples:
  # Summarise a directory of portraits
  seasonal batch ./photos

  # Export the results as CSV
  seasonal batch --csv results.csv ./photos

  # Full results as JSON
  seasonal batch --json ./photos`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "output full results as JSON")
	batchCmd.Flags().StringVar(&batchCSV, "csv", "", "write a CSV summary to the given file")
}

// batchRecord is one row of the batch summary.
type batchRecord struct {
	Path              string  `csv:"path" json:"path"`
	Outcome           string  `csv:"outcome" json:"outcome"`
	Season            string  `csv:"season,omitempty" json:"season,omitempty"`
	SeasonConfidence  float64 `csv:"season_confidence" json:"season_confidence"`
	OverallConfidence float64 `csv:"overall_confidence" json:"overall_confidence"`
	NeedsConfirmation bool    `csv:"needs_confirmation" json:"needs_confirmation"`
	Undertone         string  `csv:"undertone,omitempty" json:"undertone,omitempty"`
	Depth             string  `csv:"depth,omitempty" json:"depth,omitempty"`
	Clarity           string  `csv:"clarity,omitempty" json:"clarity,omitempty"`
	Hex               string  `csv:"hex,omitempty" json:"hex,omitempty"`
	Error             string  `csv:"error,omitempty" json:"error,omitempty"`
}

// runBatch executes the batch command.
func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	files, err := image.ScanDirectoryForImages(dir)
	if err != nil {
		return fmt.Errorf("failed to scan directory: %w", err)
	}

	logger := newLogger()
	analyzer := analysis.New(logger)
	loader := image.NewFileLoader()

	var bar *progressbar.ProgressBar
	if !quiet && !batchJSON {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription("analysing"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	records := make([]batchRecord, 0, len(files))
	for _, path := range files {
		records = append(records, analyzeOne(analyzer, loader, path))
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if batchCSV != "" {
		if err := writeCSV(batchCSV, records); err != nil {
			return err
		}
		logger.Info("wrote CSV summary", "path", batchCSV, "records", len(records))
	}

	if batchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		return nil
	}

	printBatchSummary(records)
	return nil
}

// analyzeOne loads and classifies a single file, folding any load failure
// into the record rather than aborting the batch.
func analyzeOne(analyzer *analysis.Analyzer, loader *image.FileLoader, path string) batchRecord {
	record := batchRecord{Path: path}

	img, err := loader.Load(path)
	if err != nil {
		record.Outcome = "load_failed"
		record.Error = err.Error()
		return record
	}

	result := analyzer.Analyze(img, nil)
	record.Outcome = string(result.Outcome)
	if !result.Detected() {
		return record
	}

	record.Season = string(result.Season)
	record.SeasonConfidence = result.SeasonConfidence
	record.OverallConfidence = result.OverallConfidence
	record.NeedsConfirmation = result.NeedsConfirmation
	record.Undertone = string(result.Undertone.Undertone)
	record.Depth = string(result.Depth.Depth)
	record.Clarity = string(result.Clarity.Clarity)
	record.Hex = result.DisplayRGB.Hex()
	return record
}

// writeCSV marshals the records and writes them to path.
func writeCSV(path string, records []batchRecord) error {
	data, err := csvutil.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal CSV: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return nil
}

// printBatchSummary renders the terminal table for batch results.
func printBatchSummary(records []batchRecord) {
	table := NewTable([]string{"FILE", "SEASON", "CONFIDENCE", "CONFIRM", "NOTE"})
	for _, r := range records {
		switch r.Outcome {
		case string(analysis.OutcomeClassified):
			table.AddRow(r.Path, r.Season, fmt.Sprintf("%.2f", r.SeasonConfidence),
				fmt.Sprintf("%v", r.NeedsConfirmation), "")
		case "load_failed":
			table.AddRow(r.Path, "-", "-", "-", r.Error)
		default:
			table.AddRow(r.Path, "-", "-", "-", "no face detected")
		}
	}
	fmt.Print(table.Render())
}
