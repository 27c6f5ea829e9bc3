package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/purestate/internal/optimizer"
	"github.com/roach88/purestate/internal/store"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	List bool // list runs instead of showing one
}

// RunReport is one run with its decisions.
type RunReport struct {
	Run       store.Run              `json:"run"`
	Stats     optimizer.Stats        `json:"stats"`
	Decisions []store.DecisionRecord `json:"decisions"`
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report <db> [run-id]",
		Short: "Show recorded SWAP decisions",
		Long: `Read the decision log written by optimize.

Shows the given run, or the most recent one, with every SWAP decision in
walk order. With --list, shows one line per recorded run.

Examples:
  purestate report runs.db
  purestate report runs.db 0190a1b2-...
  purestate report runs.db --list --format json`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) == 2 {
				runID = args[1]
			}
			return runReport(opts, args[0], runID, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.List, "list", false, "list all runs")

	return cmd
}

func runReport(opts *ReportOptions, dbPath, runID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	// Open creates missing databases, which would hide a mistyped path.
	if _, err := os.Stat(dbPath); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Errorf("database not found: %s", dbPath))
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.List {
		runs, err := st.ReadRuns(ctx)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err)
		}
		return formatter.Runs(runs)
	}

	report, err := loadRunReport(ctx, st, runID)
	if errors.Is(err, sql.ErrNoRows) {
		err = errors.New("no runs recorded")
		if runID != "" {
			err = fmt.Errorf("run not found: %s", runID)
		}
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, err)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err)
	}
	return formatter.Run(report)
}

func loadRunReport(ctx context.Context, st *store.Store, runID string) (RunReport, error) {
	var run store.Run
	var err error
	if runID == "" {
		run, err = st.ReadLatestRun(ctx)
	} else {
		run, err = st.ReadRun(ctx, runID)
	}
	if err != nil {
		return RunReport{}, err
	}

	stats, err := st.OutcomeCounts(ctx, run.ID)
	if err != nil {
		return RunReport{}, err
	}
	decisions, err := st.ReadDecisions(ctx, run.ID)
	if err != nil {
		return RunReport{}, err
	}
	return RunReport{Run: run, Stats: stats, Decisions: decisions}, nil
}
