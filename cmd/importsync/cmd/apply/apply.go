package apply

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/planstack/importsync/cmd/application"
	"github.com/planstack/importsync/internal/cmd/cmdutil"
	"github.com/planstack/importsync/internal/cmd/globals"
	"github.com/planstack/importsync/pkg/project"
	"github.com/planstack/importsync/pkg/reconcile"
)

// planView is the serializable view of a mutation plan, used for dry runs.
type planView struct {
	Strategy string         `json:"strategy" yaml:"strategy"`
	Deletes  map[string]int `json:"deletes" yaml:"deletes"`
	Inserts  map[string]int `json:"inserts" yaml:"inserts"`
	Renames  []renameView   `json:"renames,omitempty" yaml:"renames,omitempty"`
	Rejected []rejectedView `json:"rejected_names,omitempty" yaml:"rejected_names,omitempty"`
}

type renameView struct {
	Type     string `json:"type" yaml:"type"`
	EntityID string `json:"entity_id" yaml:"entity_id"`
	From     string `json:"from" yaml:"from"`
	To       string `json:"to" yaml:"to"`
	Custom   bool   `json:"custom" yaml:"custom"`
}

type rejectedView struct {
	ConflictID string `json:"conflict_id" yaml:"conflict_id"`
	Name       string `json:"name" yaml:"name"`
	Reason     string `json:"reason" yaml:"reason"`
}

// Run resolves the import and commits it, or shows the plan on a dry run.
func Run(cmd *cobra.Command, app application.Application, flags *Flags) error {
	logger := app.Logger()
	ctx := cmd.Context()

	strategy, err := reconcile.ParseStrategy(flags.Strategy)
	if err != nil {
		return err
	}

	existing, err := cmdutil.LoadSnapshotFile(flags.Existing)
	if err != nil {
		return err
	}
	incoming, err := cmdutil.LoadSnapshotFile(flags.Incoming)
	if err != nil {
		return err
	}
	customNames, err := cmdutil.LoadRenames(flags.Renames)
	if err != nil {
		return err
	}

	detector := reconcile.NewDetector(reconcile.WithDetectorLogger(logger))
	result := detector.Detect(existing, incoming)

	planner := reconcile.NewPlanner(reconcile.WithPlannerLogger(logger))
	plan := planner.BuildPlan(result, existing, incoming, reconcile.Resolution{
		Strategy:    strategy,
		CustomNames: customNames,
	})

	for _, rejected := range plan.RejectedNames {
		logger.Warn().
			Str("conflict", rejected.ConflictID).
			Str("name", rejected.Name).
			Str("reason", rejected.Reason).
			Msg("Custom name rejected, using default")
	}

	format := app.OutputFormat()
	quiet := app.Quiet()
	if g, err := globals.Parse(cmd); err == nil {
		if g.Output != "" {
			format = g.Output
		}
		quiet = quiet || g.Quiet
	}

	if flags.DryRun {
		return cmdutil.Render(cmd.OutOrStdout(), format, newPlanView(plan),
			func(w io.Writer) error {
				_, err := fmt.Fprintln(w, plan.String())
				return err
			})
	}

	proj, err := project.New(project.WithSnapshot(existing))
	if err != nil {
		return err
	}

	gate := reconcile.NewGate(reconcile.WithGateLogger(logger))
	applied, err := gate.Apply(ctx, proj, plan)
	if err != nil {
		return err
	}

	out := flags.Out
	if out == "" {
		out = flags.Existing
	}
	if err := cmdutil.WriteSnapshotFile(out, proj.Snapshot()); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), applied.String())
	}
	return nil
}

// newPlanView converts a plan into its serializable view.
func newPlanView(plan *reconcile.Plan) planView {
	v := planView{
		Strategy: plan.Strategy.String(),
		Deletes:  make(map[string]int),
		Inserts:  make(map[string]int),
	}
	for t, n := range plan.Deletes() {
		v.Deletes[string(t)] = n
	}
	for t, n := range plan.Inserts() {
		v.Inserts[string(t)] = n
	}

	for _, r := range plan.Renames {
		v.Renames = append(v.Renames, renameView{
			Type:     string(r.Type),
			EntityID: r.EntityID,
			From:     r.From,
			To:       r.To,
			Custom:   r.Custom,
		})
	}
	for _, r := range plan.RejectedNames {
		v.Rejected = append(v.Rejected, rejectedView{
			ConflictID: r.ConflictID,
			Name:       r.Name,
			Reason:     r.Reason,
		})
	}

	return v
}
