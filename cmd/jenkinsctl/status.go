// File: cmd/jenkinsctl/status.go
// Brief: CLI command wiring and implementation for 'status'.

package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/jenkinsctl/internal/config"
	"github.com/example/jenkinsctl/internal/logging"
)

func newStatusCommand(stackName *string, logLevel *string) *cobra.Command {
	opts := config.NewOptions()
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the stack status and output values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			log, err := logging.New(*logLevel)
			if err != nil {
				return err
			}
			inputs, err := opts.Resolve(cmd.Flags())
			if err != nil {
				return err
			}
			driver, err := newStackDriver(ctx, inputs.Region, log, time.Minute)
			if err != nil {
				return err
			}
			status, err := driver.Status(ctx, *stackName)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stack:  %s\nStatus: %s\n", *stackName, colorizeStatus(status.StackStatus))
			if len(status.Outputs) == 0 {
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout())
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			keys := make([]string, 0, len(status.Outputs))
			for k := range status.Outputs {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "%s\t%s\n", k, status.Outputs[k])
			}
			return w.Flush()
		},
	}
	opts.BindFlags(cmd.Flags())
	return cmd
}

func colorizeStatus(status string) string {
	switch {
	case strings.HasSuffix(status, "_FAILED"), strings.Contains(status, "ROLLBACK"):
		return color.RedString(status)
	case strings.HasSuffix(status, "_COMPLETE"):
		return color.GreenString(status)
	case strings.HasSuffix(status, "_IN_PROGRESS"):
		return color.YellowString(status)
	default:
		return status
	}
}
