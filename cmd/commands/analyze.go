package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/materials-advisor/internal/app"
	"github.com/yungbote/materials-advisor/internal/domain"
	"github.com/yungbote/materials-advisor/internal/report"
	"github.com/yungbote/materials-advisor/internal/session"
)

var (
	analyzeText  string
	analyzeImage string
	analyzeLang  string
	analyzePDF   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyse a description and/or drawing and print the result as JSON",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeText, "text", "t", "", "component description")
	analyzeCmd.Flags().StringVarP(&analyzeImage, "image", "i", "", "path to a PNG or JPEG drawing")
	analyzeCmd.Flags().StringVarP(&analyzeLang, "lang", "l", "en", "report language (en|ru)")
	analyzeCmd.Flags().StringVarP(&analyzePDF, "pdf", "o", "", "write the PDF report to this path")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if strings.TrimSpace(analyzeText) == "" && analyzeImage == "" {
		return errors.New("provide --text, --image or both")
	}
	lang, ok := domain.LookupLanguage(analyzeLang)
	if !ok {
		return fmt.Errorf("unsupported language %q", analyzeLang)
	}

	ctx := cmd.Context()
	a, err := app.New(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	ocrText := ""
	if analyzeImage != "" {
		ocrText = a.Services.OCR.ExtractText(ctx, analyzeImage)
		if ocrText == "" {
			fmt.Fprintln(cmd.ErrOrStderr(), "no text extracted from image")
		}
	}
	combined := strings.TrimSpace(strings.TrimSpace(analyzeText) + "\n\n" + ocrText)
	if combined == "" {
		return errors.New("no text available for analysis")
	}

	res, err := a.Services.Analysis.Analyze(ctx, combined, lang)
	if err != nil {
		return err
	}
	result := session.NewAnalysis(combined, res, ocrText != "", lang, time.Now())

	if analyzePDF != "" {
		f, err := os.Create(analyzePDF)
		if err != nil {
			return err
		}
		renderErr := a.Services.Reports.Render(ctx, f, report.Input{
			Record:      result.Record,
			InputText:   result.InputText,
			Language:    lang,
			GeneratedAt: result.CreatedAt.Local(),
		})
		closeErr := f.Close()
		if renderErr != nil {
			_ = os.Remove(analyzePDF)
			return renderErr
		}
		if closeErr != nil {
			return closeErr
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "report written to %s\n", analyzePDF)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
