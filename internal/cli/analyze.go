package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tonalab/seasonal/internal/analysis"
	"github.com/tonalab/seasonal/internal/face"
	"github.com/tonalab/seasonal/internal/image"
)

var (
	// Analyze command flags
	analyzeJSON        bool
	analyzeDiagnostics bool
	analyzeFaceBox     string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <image>",
	Short: "Classify the colour season of a face in a photograph",
	Long: `Analyze locates the face in a photograph, samples the skin colour and
classifies it into a colour season.

If you already know where the face is (for example from an upstream
detector), pass --face x,y,w,h to skip the built-in locator.

Supported image formats: JPEG, PNG, GIF, WebP

Examples:
  # Analyze a portrait
  seasonal analyze portrait.jpg

  # Use a known face region and emit JSON
  seasonal analyze --face 120,60,160,180 --json portrait.jpg

  # Include the diagnostics payload in the report
  seasonal analyze --diagnostics portrait.png`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the full result as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeDiagnostics, "diagnostics", false, "include diagnostics in the report")
	analyzeCmd.Flags().StringVar(&analyzeFaceBox, "face", "", "caller-supplied face box as x,y,w,h (skips the locator)")
}

// runAnalyze executes the analyze command.
func runAnalyze(cmd *cobra.Command, args []string) error {
	imagePath := args[0]

	if err := image.ValidateImagePath(imagePath); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}

	var callerBox *face.Box
	if analyzeFaceBox != "" {
		box, err := parseFaceBox(analyzeFaceBox)
		if err != nil {
			return fmt.Errorf("invalid --face value: %w", err)
		}
		callerBox = &box
	}

	logger := newLogger()
	logger.Debug("loading image", "path", imagePath)

	img, err := image.NewFileLoader().Load(imagePath)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	result := analysis.New(logger).Analyze(img, callerBox)

	if analyzeJSON || !term.IsTerminal(int(os.Stdout.Fd())) {
		return writeJSON(os.Stdout, result)
	}
	return writeReport(result)
}

// parseFaceBox parses an "x,y,w,h" flag value.
func parseFaceBox(s string) (face.Box, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return face.Box{}, fmt.Errorf("expected 4 comma-separated integers, got %d", len(parts))
	}

	values := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return face.Box{}, fmt.Errorf("component %d: %w", i+1, err)
		}
		values[i] = v
	}

	box := face.Box{X: values[0], Y: values[1], Width: values[2], Height: values[3]}
	if !box.Valid() {
		return face.Box{}, fmt.Errorf("box %s is not geometrically valid", box)
	}
	return box, nil
}

func writeJSON(w *os.File, result analysis.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

// writeReport prints the human-readable terminal report.
func writeReport(result analysis.Result) error {
	if !result.Detected() {
		fmt.Println("No face detected.")
		fmt.Printf("  scanned zone:  %s\n", orDash(result.Diagnostics.ScanZone))
		fmt.Printf("  scan ratio:    %.2f (pixels: %d)\n", result.Diagnostics.ScanSkinRatio, result.Diagnostics.ScanSkinPixels)
		if result.Diagnostics.SampleCount > 0 {
			fmt.Printf("  skin samples:  %d of %d (%.0f%%)\n",
				result.Diagnostics.SkinSampleCount, result.Diagnostics.SampleCount,
				result.Diagnostics.SkinRatio*100)
		}
		return nil
	}

	fmt.Printf("Season: %s (confidence %.2f)\n", result.Season, result.SeasonConfidence)
	if result.NeedsConfirmation {
		fmt.Println("The classification is uncertain; ask the user to confirm.")
	}
	fmt.Println()

	table := NewTable([]string{"ATTRIBUTE", "VALUE", "CONFIDENCE"})
	table.AddRow("undertone", leanLabel(result.Undertone), fmt.Sprintf("%.2f", result.Undertone.Confidence))
	table.AddRow("depth", string(result.Depth.Depth), fmt.Sprintf("%.2f", result.Depth.Confidence))
	table.AddRow("clarity", string(result.Clarity.Clarity), fmt.Sprintf("%.2f", result.Clarity.Confidence))
	fmt.Print(table.Render())

	fmt.Println()
	fmt.Printf("Skin colour: %s  %s\n", result.DisplayRGB.Hex(), result.Lab)
	fmt.Printf("Overall confidence: %.2f\n", result.OverallConfidence)

	if analyzeDiagnostics {
		fmt.Println()
		d := result.Diagnostics
		diag := NewTable([]string{"DIAGNOSTIC", "VALUE"})
		diag.AddRow("face box", result.FaceBox.String())
		diag.AddRow("scan zone", orDash(d.ScanZone))
		diag.AddRow("skin samples", fmt.Sprintf("%d/%d (%.0f%%)", d.SkinSampleCount, d.SampleCount, d.SkinRatio*100))
		diag.AddRow("gains", fmt.Sprintf("%.2f/%.2f/%.2f clamped=%v", d.Gains.R, d.Gains.G, d.Gains.B, d.Gains.Clamped))
		diag.AddRow("mad", fmt.Sprintf("L=%.1f b=%.1f noisy=%v", d.MADL, d.MADB, d.Noisy))
		diag.AddRow("gamut samples", fmt.Sprintf("%d fallback=%v", d.GamutSamples, d.UsedFallback))
		diag.AddRow("reason", d.Reason)
		fmt.Print(diag.Render())
	}

	return nil
}

// leanLabel renders the undertone with its lean when one is recorded.
func leanLabel(u analysis.UndertoneResult) string {
	if u.Undertone == analysis.UndertoneNeutral && u.Lean != analysis.LeanNone {
		return fmt.Sprintf("%s (leans %s)", u.Undertone, u.Lean)
	}
	return string(u.Undertone)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
