// main.go bootstraps jenkinsctl: it builds the root Cobra command, wires
// viper env/config binding, and executes with a signal-aware context.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/example/jenkinsctl/internal/version"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := newRootCommand()
	err := rootCmd.ExecuteContext(ctx)
	handleError(err)
	if err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	logLevel := "info"
	stackName := "jenkins"
	cmd := &cobra.Command{
		Use:           "jenkinsctl",
		Short:         "Declare and converge a Jenkins controller on ECS Fargate",
		Long:          "jenkinsctl synthesizes a CloudFormation template for a Jenkins controller (VPC, ECS cluster, EFS home, load balancer, autoscaling) and drives the stack through the provisioning service.",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&stackName, "stack-name", stackName, "Name of the CloudFormation stack")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", logLevel, "Log level for jenkinsctl output (debug, info, warn, error)")

	synthCmd := newSynthCommand(&logLevel)
	deployCmd := newDeployCommand(&stackName, &logLevel)
	destroyCmd := newDestroyCommand(&stackName, &logLevel)
	statusCmd := newStatusCommand(&stackName, &logLevel)
	diffCmd := newDiffCommand(&stackName, &logLevel)
	cmd.AddCommand(synthCmd, deployCmd, destroyCmd, statusCmd, diffCmd)

	cmd.Example = `  # Print the template for account 111122223333 in the fallback region
  jenkinsctl synth --account 111122223333

  # Converge the stack and print the Jenkins endpoint
  jenkinsctl deploy --account 111122223333 --region eu-west-1

  # Inspect what a deploy would change
  jenkinsctl diff --account 111122223333 --region eu-west-1`

	bindViper(cmd, synthCmd, deployCmd, destroyCmd, statusCmd, diffCmd)
	return cmd
}

// bindViper makes every flag settable via JENKINSCTL_<FLAG> or an optional
// config file; changed flags always win.
func bindViper(commands ...*cobra.Command) {
	if len(commands) == 0 {
		return
	}
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix("JENKINSCTL")
	v.AutomaticEnv()
	configFile := os.Getenv("JENKINSCTL_CONFIG")
	configureConfigFile(v, configFile)
	cobra.OnInitialize(func() {
		for _, cmd := range commands {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				cobra.CheckErr(err)
			}
			if err := v.BindPFlags(cmd.PersistentFlags()); err != nil {
				cobra.CheckErr(err)
			}
		}
		if err := readConfigFile(v, configFile != ""); err != nil {
			cobra.CheckErr(err)
		}
		for _, cmd := range commands {
			for _, fs := range []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()} {
				fs.VisitAll(func(f *pflag.Flag) {
					if f.Changed {
						return
					}
					if !v.IsSet(f.Name) {
						return
					}
					val := fmt.Sprintf("%v", v.Get(f.Name))
					if val != "" {
						_ = f.Value.Set(val)
					}
				})
			}
		}
	})
}

func configureConfigFile(v *viper.Viper, explicitPath string) {
	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
		return
	}
	v.SetConfigName("config")
	for _, dir := range configSearchDirs() {
		v.AddConfigPath(dir)
	}
}

func readConfigFile(v *viper.Viper, strict bool) error {
	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if errors.As(err, &cfgErr) && !strict {
			return nil
		}
		return err
	}
	return nil
}

func configSearchDirs() []string {
	added := make(map[string]struct{})
	var dirs []string
	add := func(path string) {
		if path == "" {
			return
		}
		if _, ok := added[path]; ok {
			return
		}
		added[path] = struct{}{}
		dirs = append(dirs, path)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		add(filepath.Join(xdg, "jenkinsctl"))
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		add(filepath.Join(home, ".config", "jenkinsctl"))
		add(filepath.Join(home, ".jenkinsctl"))
	}
	return dirs
}

func handleError(err error) {
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return
	}
	message := err.Error()
	switch {
	case strings.Contains(message, "does not exist"):
		message = fmt.Sprintf("%s\nHint: the stack has not been deployed yet. Run 'jenkinsctl deploy' first.", err)
	case strings.Contains(message, "ExpiredToken"), strings.Contains(message, "no EC2 IMDS role found"), strings.Contains(message, "failed to retrieve credentials"):
		message = fmt.Sprintf("%s\nHint: AWS credentials were rejected or missing. Check your profile or environment.", err)
	case errors.Is(err, context.Canceled):
		message = fmt.Sprintf("%s\nNote: the provisioning service keeps converging; rerun 'jenkinsctl status' to follow up.", err)
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}
