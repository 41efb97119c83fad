// File: cmd/jenkinsctl/diff.go
// Brief: CLI command wiring and implementation for 'diff'.

package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/example/jenkinsctl/internal/config"
	"github.com/example/jenkinsctl/internal/logging"
	"github.com/example/jenkinsctl/internal/stack"
)

func newDiffCommand(stackName *string, logLevel *string) *cobra.Command {
	opts := config.NewOptions()
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare the deployed template with a fresh synthesis",
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
			driver, err := newStackDriver(ctx, inputs.Region, log, time.Minute)
			if err != nil {
				return err
			}
			deployed, err := driver.DeployedTemplate(ctx, *stackName)
			if err != nil {
				return err
			}
			text, err := templateDiff(deployed, string(body))
			if err != nil {
				return err
			}
			if text == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Stack %s matches the synthesized template.\n", *stackName)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), colorizeDiff(text))
			return nil
		},
	}
	opts.BindFlags(cmd.Flags())
	return cmd
}

// templateDiff diffs the two bodies after normalizing JSON formatting, so
// cosmetic differences in the stored template do not show up as drift.
func templateDiff(deployed, synthesized string) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(normalizeTemplate(deployed)),
		B:        difflib.SplitLines(normalizeTemplate(synthesized)),
		FromFile: "deployed",
		ToFile:   "synthesized",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("compute diff: %w", err)
	}
	return text, nil
}

func normalizeTemplate(body string) string {
	var decoded any
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		// Not JSON (CloudFormation also stores YAML); diff as-is.
		return body
	}
	normalized, err := json.MarshalIndent(decoded, "", "  ")
	if err != nil {
		return body
	}
	return string(normalized) + "\n"
}

func colorizeDiff(text string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			b.WriteString(color.GreenString("%s", line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(color.RedString("%s", line))
		default:
			b.WriteString(line)
		}
	}
	return b.String()
}
