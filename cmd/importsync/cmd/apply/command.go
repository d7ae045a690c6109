// Package apply implements the apply command: it resolves detected
// conflicts with the chosen strategy and commits the result atomically.
package apply

import (
	"github.com/spf13/cobra"

	"github.com/planstack/importsync/cmd/application"
)

// Flags holds the apply command's flags.
type Flags struct {
	Existing string
	Incoming string
	Strategy string
	Renames  string
	Out      string
	DryRun   bool
}

// NewCommand creates the apply command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Resolve conflicts and commit the import",
		Args:  cobra.NoArgs,
		Long: `Apply resolves the import with the chosen strategy and commits the
result in one atomic step:

• refresh discards all existing phases, tasks, and resources and
  replaces them with the incoming set
• merge keeps everything and renames imported entities that collide,
  "Implementation" becoming "Implementation (2)" and so on

Custom replacement names can be supplied per conflict with --renames; a
name that is empty or already taken is rejected and the deterministic
default is used instead. Either the whole import lands or nothing
changes.`,
		Example: `  importsync apply --existing project.yaml --incoming import.yaml --strategy merge
  importsync apply --existing project.yaml --incoming import.yaml --strategy refresh --out merged.yaml
  importsync apply --existing project.yaml --incoming import.yaml --renames names.yaml --dry-run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(cmd, app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Existing, "existing", "", "YAML snapshot of the existing project data (required)")
	cmd.Flags().StringVar(&flags.Incoming, "incoming", "", "YAML snapshot of the incoming import (required)")
	cmd.Flags().StringVar(&flags.Strategy, "strategy", "merge", "resolution strategy: refresh or merge")
	cmd.Flags().StringVar(&flags.Renames, "renames", "", "YAML file mapping conflict IDs to replacement names")
	cmd.Flags().StringVar(&flags.Out, "out", "", "write the result here instead of overwriting --existing")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "show the mutation plan without committing")
	_ = cmd.MarkFlagRequired("existing")
	_ = cmd.MarkFlagRequired("incoming")

	return cmd
}
