package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"puresearch/sentiment-analyzer/common/sentiment"
)

const emptyReviewWarning = "⚠️ Please enter a review to analyze!"

var predictCmd = &cobra.Command{
	Use:   "predict [review...]",
	Short: "Analyze one review and print the result",
	Long: `predict joins its arguments into one review, or reads the review from
stdin when no arguments are given, and prints the label, confidence and
text statistics.`,
	RunE: runPredict,
}

func runPredict(cmd *cobra.Command, args []string) error {
	review := strings.Join(args, " ")
	if len(args) == 0 {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read review: %w", err)
		}
		review = string(raw)
	}

	// Reject blank input before paying for the artifact load
	if strings.TrimSpace(review) == "" {
		fmt.Fprintln(cmd.ErrOrStderr(), color.Yellow.Sprint(emptyReviewWarning))
		return sentiment.ErrEmptyReview
	}

	analyzer, _, err := loadAnalyzer(cmd.Context(), cfg.ManifestPath)
	if err != nil {
		return err
	}
	return predict(cmd.OutOrStdout(), cmd.ErrOrStderr(), analyzer, review)
}

// predict analyzes a single review and renders the result to out
func predict(out, errOut io.Writer, analyzer reviewAnalyzer, review string) error {
	res, err := analyzer.Analyze(review)
	if errors.Is(err, sentiment.ErrEmptyReview) {
		fmt.Fprintln(errOut, color.Yellow.Sprint(emptyReviewWarning))
		return err
	}
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	renderResult(out, res)
	return nil
}

func renderResult(w io.Writer, res sentiment.Result) {
	labelColor := color.Red
	if res.Label == sentiment.Positive {
		labelColor = color.Green
	}
	fmt.Fprintf(w, "%s %s\n\n", res.Label.Icon(), labelColor.Sprint(string(res.Label)))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	table.Append([]string{"Confidence", fmt.Sprintf("%.1f%%", res.ConfidencePercent())})
	table.Append([]string{"Words", fmt.Sprint(res.Words)})
	table.Append([]string{"Characters", fmt.Sprint(res.Characters)})
	table.Append([]string{"Known tokens", fmt.Sprint(res.KnownTokens)})
	table.Append([]string{"Raw score", fmt.Sprintf("%.3f", res.Score)})
	if res.Language != "" {
		table.Append([]string{"Language", res.Language})
	}
	table.Render()
}
