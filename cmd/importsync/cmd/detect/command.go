// Package detect implements the detect command: it pairs an incoming
// import with existing project data and reports every conflict without
// modifying anything.
package detect

import (
	"github.com/spf13/cobra"

	"github.com/planstack/importsync/cmd/application"
)

// Flags holds the detect command's flags.
type Flags struct {
	Existing string
	Incoming string
	Strict   bool
}

// NewCommand creates the detect command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Report conflicts between existing data and an import",
		Args:  cobra.NoArgs,
		Long: `Detect pairs the incoming import with existing project data by entity
type and normalized name, then reports every conflict:

• resources committed on both sides during overlapping dates, escalated
  to an error when the combined allocation exceeds 100%
• phases and tasks reusing a name over overlapping dates
• duplicate names within the import itself

Detection is read-only and deterministic: rerunning it on the same files
produces the same report.`,
		Example: `  importsync detect --existing project.yaml --incoming import.yaml
  importsync detect --existing project.yaml --incoming import.yaml -o json
  importsync detect --existing project.yaml --incoming import.yaml --strict`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(cmd, app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Existing, "existing", "", "YAML snapshot of the existing project data (required)")
	cmd.Flags().StringVar(&flags.Incoming, "incoming", "", "YAML snapshot of the incoming import (required)")
	cmd.Flags().BoolVar(&flags.Strict, "strict", false, "exit non-zero when any error-severity conflict is found")
	_ = cmd.MarkFlagRequired("existing")
	_ = cmd.MarkFlagRequired("incoming")

	return cmd
}
