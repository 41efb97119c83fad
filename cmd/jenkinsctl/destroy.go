// File: cmd/jenkinsctl/destroy.go
// Brief: CLI command wiring and implementation for 'destroy'.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/jenkinsctl/internal/config"
	"github.com/example/jenkinsctl/internal/logging"
)

func newDestroyCommand(stackName *string, logLevel *string) *cobra.Command {
	opts := config.NewOptions()
	var yes bool
	timeout := 30 * time.Minute
	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Delete the stack (the home filesystem is retained by default)",
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
			if !yes {
				prompt := fmt.Sprintf("Delete stack %s in %s? Type the stack name to confirm:", *stackName, inputs.Region)
				if err := confirmExact(ctx, cmd.InOrStdin(), cmd.ErrOrStderr(), prompt, *stackName); err != nil {
					return err
				}
			}
			driver, err := newStackDriver(ctx, inputs.Region, log, timeout)
			if err != nil {
				return err
			}
			if err := driver.Destroy(ctx, *stackName); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stack %s deleted.\n", *stackName)
			if inputs.RemovalPolicy != "destroy" {
				fmt.Fprintln(cmd.OutOrStdout(), "The Jenkins home filesystem was retained; delete it manually if the data is no longer needed.")
			}
			return nil
		},
	}
	opts.BindFlags(cmd.Flags())
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	cmd.Flags().DurationVar(&timeout, "timeout", timeout, "How long to wait for the deletion to finish")
	return cmd
}
