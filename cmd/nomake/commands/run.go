package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"go.nomake.dev/nomake/internal/app"
	"go.nomake.dev/nomake/internal/engine"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [targets...]",
		Short: "Build the given targets",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}

			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			jobs, err := cmd.Flags().GetInt("jobs")
			if err != nil {
				return err
			}
			keepGoing, err := cmd.Flags().GetBool("keep-going")
			if err != nil {
				return err
			}
			question, err := cmd.Flags().GetBool("question")
			if err != nil {
				return err
			}
			noDelete, err := cmd.Flags().GetBool("no-delete")
			if err != nil {
				return err
			}
			orderName, err := cmd.Flags().GetString("order")
			if err != nil {
				return err
			}
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return err
			}
			inspect, err := cmd.Flags().GetBool("inspect")
			if err != nil {
				return err
			}

			order, err := parseOrder(orderName)
			if err != nil {
				return err
			}

			return c.app.Run(cmd.Context(), args, app.RunOptions{
				ConfigPath: configPath,
				Jobs:       jobs,
				KeepGoing:  keepGoing,
				Question:   question,
				NoDelete:   noDelete,
				Order:      order,
				Verbose:    verbose,
				Inspect:    inspect,
			})
		},
	}

	cmd.Flags().IntP("jobs", "j", runtime.NumCPU(), "Maximum number of concurrent child processes")
	cmd.Flags().BoolP("keep-going", "k", false, "Keep building independent branches after a failure")
	cmd.Flags().BoolP("question", "n", false, "Report whether targets are up to date without building them")
	cmd.Flags().Bool("no-delete", false, "Don't remove partially built files after a command fails")
	cmd.Flags().String("order", "dfs", "Scheduling order for ready children: dfs or random")
	cmd.Flags().BoolP("verbose", "v", false, "Print a trace of every execute() call")
	cmd.Flags().BoolP("inspect", "i", false, "Keep the progress UI open after the build completes")

	return cmd
}

func parseOrder(name string) (engine.Order, error) {
	switch name {
	case "dfs", "":
		return engine.OrderDFS, nil
	case "random":
		return engine.OrderRandom, nil
	default:
		return 0, fmt.Errorf("unknown order %q: must be dfs or random", name)
	}
}
