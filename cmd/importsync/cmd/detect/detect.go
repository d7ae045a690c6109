package detect

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/planstack/importsync/cmd/application"
	"github.com/planstack/importsync/internal/cmd/cmdutil"
	"github.com/planstack/importsync/internal/cmd/globals"
	"github.com/planstack/importsync/pkg/errors"
	"github.com/planstack/importsync/pkg/reconcile"
)

// report is the serializable view of a detection result.
type report struct {
	Summary   summaryView    `json:"summary" yaml:"summary"`
	Conflicts []conflictView `json:"conflicts" yaml:"conflicts"`
	Skipped   []string       `json:"skipped_ranges,omitempty" yaml:"skipped_ranges,omitempty"`
}

type summaryView struct {
	Total    int            `json:"total" yaml:"total"`
	Errors   int            `json:"errors" yaml:"errors"`
	Warnings int            `json:"warnings" yaml:"warnings"`
	ByType   map[string]int `json:"by_type" yaml:"by_type"`
}

type conflictView struct {
	ID         string `json:"id" yaml:"id"`
	Type       string `json:"type" yaml:"type"`
	Severity   string `json:"severity" yaml:"severity"`
	Message    string `json:"message" yaml:"message"`
	Suggestion string `json:"suggestion" yaml:"suggestion"`
}

// Run executes conflict detection and renders the report.
func Run(cmd *cobra.Command, app application.Application, flags *Flags) error {
	logger := app.Logger()

	existing, err := cmdutil.LoadSnapshotFile(flags.Existing)
	if err != nil {
		return err
	}
	incoming, err := cmdutil.LoadSnapshotFile(flags.Incoming)
	if err != nil {
		return err
	}

	logger.Debug().
		Str("existing", flags.Existing).
		Str("incoming", flags.Incoming).
		Msg("Detecting conflicts")

	detector := reconcile.NewDetector(reconcile.WithDetectorLogger(logger))
	result := detector.Detect(existing, incoming)

	format := app.OutputFormat()
	if g, err := globals.Parse(cmd); err == nil && g.Output != "" {
		format = g.Output
	}

	if err := cmdutil.Render(cmd.OutOrStdout(), format, newReport(result),
		func(w io.Writer) error {
			_, err := io.WriteString(w, result.Report())
			return err
		}); err != nil {
		return err
	}

	if flags.Strict && result.HasErrors() {
		return errors.New("error-severity conflicts found")
	}
	return nil
}

// newReport converts a detection result into its serializable view.
func newReport(result *reconcile.Result) report {
	r := report{
		Summary: summaryView{
			Total:    result.Summary.Total,
			Errors:   result.Summary.BySeverity[reconcile.SeverityError],
			Warnings: result.Summary.BySeverity[reconcile.SeverityWarning],
			ByType:   make(map[string]int),
		},
	}
	for t, n := range result.Summary.ByType {
		r.Summary.ByType[string(t)] = n
	}

	for _, c := range result.Conflicts {
		r.Conflicts = append(r.Conflicts, conflictView{
			ID:         c.ID(),
			Type:       string(c.EntityType()),
			Severity:   c.Severity().String(),
			Message:    c.Message(),
			Suggestion: c.SuggestedResolution(),
		})
	}

	for _, err := range result.RangeErrors {
		r.Skipped = append(r.Skipped, err.Error())
	}

	return r
}
