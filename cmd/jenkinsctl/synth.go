// File: cmd/jenkinsctl/synth.go
// Brief: CLI command wiring and implementation for 'synth'.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/jenkinsctl/internal/config"
	"github.com/example/jenkinsctl/internal/logging"
	"github.com/example/jenkinsctl/internal/stack"
)

func newSynthCommand(logLevel *string) *cobra.Command {
	opts := config.NewOptions()
	var outputPath string
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Synthesize the CloudFormation template without touching AWS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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
			log.V(1).Info("synthesized template", "resources", len(tmpl.Resources), "digest", digest)
			if outputPath == "" || outputPath == "-" {
				_, err := cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(outputPath, body, 0o644); err != nil {
				return fmt.Errorf("write template: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%s)\n", outputPath, digest)
			return nil
		},
	}
	opts.BindFlags(cmd.Flags())
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the template to a file instead of stdout")
	return cmd
}
