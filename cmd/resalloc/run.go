package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/rpkitools/resalloc/cmd/resalloc/internal/plan"
	"github.com/rpkitools/resalloc/respool"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

type runOptions struct {
	planPath string
	json     bool
	detailed bool
	logLevel logLevelValue
}

func newRunCommand() *cobra.Command {
	options := &runOptions{logLevel: logLevelValue{level: slog.LevelWarn}}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an allocation plan",
		Long: "Seed the root of an allocation plan, sub-allocate every child from its parent in plan order " +
			"and print the resulting resource lines of each holder.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return options.run(cmd)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&options.planPath, "plan", "p", "", "The YAML plan file to run")
	flags.BoolVar(&options.json, "json", false, "Print pool statistics as JSON instead of resource lines")
	flags.BoolVar(&options.detailed, "detailed", false, "Include every free entry and issued block in the JSON output")
	flags.Var(&options.logLevel, "log-level", "The minimum level of log messages written to stderr")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func (o *runOptions) run(cmd *cobra.Command) error {
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: o.logLevel.level}))

	file, err := os.Open(o.planPath)
	if err != nil {
		return errors.Wrapf(err, "failed to open plan %s", o.planPath)
	}
	defer file.Close()

	allocationPlan, err := plan.Load(file)
	if err != nil {
		return err
	}

	logger.Debug("running plan", slog.String("Plan", o.planPath), slog.Int("Children", len(allocationPlan.Children)))

	// every child is sub-allocated all or nothing, so no partial batch options apply here
	pools, err := allocationPlan.Execute(logger, respool.CreateOptions{})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if o.json {
		_, err = fmt.Fprintln(out, poolsJSON(pools, o.detailed))
		return err
	}

	for _, pool := range pools {
		_, err = fmt.Fprintf(out, "# %s\n", pool.Name())
		if err != nil {
			return err
		}
		for _, line := range pool.ConfigLines() {
			_, err = fmt.Fprintln(out, line)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func poolsJSON(pools []*respool.Pool, detailed bool) string {
	writer := jwriter.NewWriter()
	array := writer.Array()
	for _, pool := range pools {
		obj := array.Object()
		pool.WriteJSON(obj, detailed)
		obj.End()
	}
	array.End()

	return string(writer.Bytes())
}
