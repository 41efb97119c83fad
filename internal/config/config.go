// File: internal/config/config.go
// Brief: Flag, file, and environment plumbing for the stack inputs.

// Package config translates Cobra/Viper flag values, an optional YAML stack
// file, and environment fallbacks into the strongly typed inputs the stack
// definition consumes. Precedence, highest first: changed flags, stack file,
// defaults. Account and region additionally fall back to the environment
// (via viper's env binding in main) and finally to the fixed fallback region.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/example/jenkinsctl/internal/stack"
)

// Options holds every CLI-settable stack input plus the CLI-only knobs.
type Options struct {
	StackName string
	File      string

	Account string
	Region  string
	Domain  string

	Image         string
	CPU           int
	MemoryMiB     int
	ContainerPort int
	AgentPort     int
	MountPath     string

	DesiredCount     int
	MinCapacity      int
	MaxCapacity      int
	CPUTargetPercent int

	TransitionToIADays int
	RemovalPolicy      string
}

// NewOptions returns options seeded from the stack defaults.
func NewOptions() *Options {
	d := stack.Defaults()
	return &Options{
		StackName:          "jenkins",
		Region:             "",
		Image:              d.Image,
		CPU:                d.CPU,
		MemoryMiB:          d.MemoryMiB,
		ContainerPort:      d.ContainerPort,
		AgentPort:          d.AgentPort,
		MountPath:          d.MountPath,
		DesiredCount:       d.DesiredCount,
		MinCapacity:        d.MinCapacity,
		MaxCapacity:        d.MaxCapacity,
		CPUTargetPercent:   d.CPUTargetPercent,
		TransitionToIADays: d.TransitionToIADays,
		RemovalPolicy:      string(d.RemovalPolicy),
	}
}

// BindFlags registers the stack input flags on the given flag set.
func (o *Options) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.File, "file", "", "Path to a jenkins.yaml stack file")
	fs.StringVar(&o.Account, "account", o.Account, "Target AWS account ID")
	fs.StringVar(&o.Region, "region", o.Region, "Target AWS region (falls back to "+stack.FallbackRegion+")")
	fs.StringVar(&o.Domain, "domain", o.Domain, "Public domain name for the Jenkins endpoint")
	fs.StringVar(&o.Image, "image", o.Image, "Jenkins controller container image")
	fs.IntVar(&o.CPU, "cpu", o.CPU, "Fargate CPU units for the controller task")
	fs.IntVar(&o.MemoryMiB, "memory", o.MemoryMiB, "Task memory in MiB")
	fs.IntVar(&o.ContainerPort, "container-port", o.ContainerPort, "Jenkins web UI port")
	fs.IntVar(&o.AgentPort, "agent-port", o.AgentPort, "JNLP inbound agent port")
	fs.StringVar(&o.MountPath, "mount-path", o.MountPath, "Container path for the persistent Jenkins home")
	fs.IntVar(&o.DesiredCount, "desired-count", o.DesiredCount, "Desired controller replica count")
	fs.IntVar(&o.MinCapacity, "min-capacity", o.MinCapacity, "Autoscaling lower bound")
	fs.IntVar(&o.MaxCapacity, "max-capacity", o.MaxCapacity, "Autoscaling upper bound")
	fs.IntVar(&o.CPUTargetPercent, "cpu-target", o.CPUTargetPercent, "Average CPU utilization target for scaling")
	fs.IntVar(&o.TransitionToIADays, "transition-to-ia", o.TransitionToIADays, "Days before idle filesystem data moves to infrequent access (0 disables)")
	fs.StringVar(&o.RemovalPolicy, "removal-policy", o.RemovalPolicy, "Filesystem fate on stack teardown: retain or destroy")
}

// fileInputs mirrors the jenkins.yaml stack file.
type fileInputs struct {
	Account string `yaml:"account"`
	Region  string `yaml:"region"`
	Domain  string `yaml:"domain"`

	Image         string `yaml:"image"`
	CPU           int    `yaml:"cpu"`
	MemoryMiB     int    `yaml:"memory"`
	ContainerPort int    `yaml:"containerPort"`
	AgentPort     int    `yaml:"agentPort"`
	MountPath     string `yaml:"mountPath"`

	Service struct {
		Desired   int `yaml:"desired"`
		Min       int `yaml:"min"`
		Max       int `yaml:"max"`
		CPUTarget int `yaml:"cpuTarget"`
	} `yaml:"service"`

	Filesystem struct {
		TransitionToIADays int    `yaml:"transitionToIADays"`
		RemovalPolicy      string `yaml:"removalPolicy"`
	} `yaml:"filesystem"`
}

// Resolve produces the final stack inputs. The flag set decides which flags
// the operator actually changed; unchanged flags yield to the stack file.
func (o *Options) Resolve(fs *pflag.FlagSet) (stack.Inputs, error) {
	in := stack.Inputs{
		Account:            o.Account,
		Region:             o.Region,
		Domain:             o.Domain,
		Image:              o.Image,
		CPU:                o.CPU,
		MemoryMiB:          o.MemoryMiB,
		ContainerPort:      o.ContainerPort,
		AgentPort:          o.AgentPort,
		MountPath:          o.MountPath,
		DesiredCount:       o.DesiredCount,
		MinCapacity:        o.MinCapacity,
		MaxCapacity:        o.MaxCapacity,
		CPUTargetPercent:   o.CPUTargetPercent,
		TransitionToIADays: o.TransitionToIADays,
		RemovalPolicy:      stack.RemovalPolicy(o.RemovalPolicy),
	}

	if o.File != "" {
		fileIn, err := loadFile(o.File)
		if err != nil {
			return stack.Inputs{}, err
		}
		mergeFile(&in, fileIn, fs)
	}

	if in.Region == "" {
		in.Region = stack.FallbackRegion
	}
	return in, nil
}

func loadFile(path string) (*fileInputs, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stack file: %w", err)
	}
	var f fileInputs
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse stack file %s: %w", path, err)
	}
	return &f, nil
}

// mergeFile applies stack-file values underneath changed flags: a file value
// wins only when the corresponding flag was left untouched.
func mergeFile(in *stack.Inputs, f *fileInputs, fs *pflag.FlagSet) {
	changed := func(name string) bool {
		return fs != nil && fs.Changed(name)
	}
	setString := func(flag string, dst *string, val string) {
		if val != "" && !changed(flag) {
			*dst = val
		}
	}
	setInt := func(flag string, dst *int, val int) {
		if val != 0 && !changed(flag) {
			*dst = val
		}
	}
	setString("account", &in.Account, f.Account)
	setString("region", &in.Region, f.Region)
	setString("domain", &in.Domain, f.Domain)
	setString("image", &in.Image, f.Image)
	setInt("cpu", &in.CPU, f.CPU)
	setInt("memory", &in.MemoryMiB, f.MemoryMiB)
	setInt("container-port", &in.ContainerPort, f.ContainerPort)
	setInt("agent-port", &in.AgentPort, f.AgentPort)
	setString("mount-path", &in.MountPath, f.MountPath)
	setInt("desired-count", &in.DesiredCount, f.Service.Desired)
	setInt("min-capacity", &in.MinCapacity, f.Service.Min)
	setInt("max-capacity", &in.MaxCapacity, f.Service.Max)
	setInt("cpu-target", &in.CPUTargetPercent, f.Service.CPUTarget)
	setInt("transition-to-ia", &in.TransitionToIADays, f.Filesystem.TransitionToIADays)
	if f.Filesystem.RemovalPolicy != "" && !changed("removal-policy") {
		in.RemovalPolicy = stack.RemovalPolicy(f.Filesystem.RemovalPolicy)
	}
}
