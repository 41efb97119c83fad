// File: cmd/jenkinsctl/deploy.go
// Brief: CLI command wiring and implementation for 'deploy'.

package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/jenkinsctl/internal/config"
	"github.com/example/jenkinsctl/internal/deploy"
	"github.com/example/jenkinsctl/internal/logging"
	"github.com/example/jenkinsctl/internal/stack"
)

func newDeployCommand(stackName *string, logLevel *string) *cobra.Command {
	opts := config.NewOptions()
	timeout := 30 * time.Minute
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Synthesize the template and converge the stack",
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
			tmpl, err := stack.Synthesize(inputs)
			if err != nil {
				return err
			}
			body, err := tmpl.Encode()
			if err != nil {
				return err
			}
			digest, err := stack.TemplateDigest(tmpl)
			if err != nil {
				return err
			}
			log.Info("deploying", "stack", *stackName, "region", inputs.Region, "digest", digest)

			driver, err := newStackDriver(ctx, inputs.Region, log, timeout)
			if err != nil {
				return err
			}
			op, err := driver.Apply(ctx, *stackName, string(body))
			if err != nil {
				return err
			}
			if op == deploy.OperationNoop {
				fmt.Fprintf(cmd.OutOrStdout(), "Stack %s is already up to date.\n", *stackName)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Stack %s converged (%s).\n", *stackName, op)
			}
			endpoint, err := driver.Endpoint(ctx, *stackName, stack.OutputJenkinsURL)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Jenkins endpoint: %s\n", color.GreenString(endpoint))
			return nil
		},
	}
	opts.BindFlags(cmd.Flags())
	cmd.Flags().DurationVar(&timeout, "timeout", timeout, "How long to wait for the provisioning service to converge")
	cmd.Example = `  # First deploy in a fresh account
  jenkinsctl deploy --account 111122223333 --region eu-west-1

  # Converge from a stack file, overriding the replica ceiling
  jenkinsctl deploy --file jenkins.yaml --max-capacity 4`
	return cmd
}
