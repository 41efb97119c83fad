// File: internal/stack/inputs.go
// Brief: Stack inputs, defaults, and synthesis-time validation.

package stack

import (
	"fmt"
	"regexp"
	"strings"
)

// RemovalPolicy controls what happens to the Jenkins home filesystem when the
// stack is torn down. Retain is the default: deleting the stack must never
// implicitly delete build history.
type RemovalPolicy string

const (
	RemovalPolicyRetain  RemovalPolicy = "retain"
	RemovalPolicyDestroy RemovalPolicy = "destroy"
)

// FallbackRegion is used when neither flag, config file, nor environment
// names a target region.
const FallbackRegion = "us-east-1"

// Inputs is everything the stack definition consumes. All fields are plain
// values; resolution of flags, files, and environment happens in
// internal/config before synthesis.
type Inputs struct {
	Account string
	Region  string

	// Domain, when set, becomes the advertised Jenkins endpoint instead of
	// the load balancer DNS name. DNS delegation itself is out of scope.
	Domain string

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

	// TransitionToIADays moves idle EFS data to infrequent access. Zero
	// disables the lifecycle policy.
	TransitionToIADays int
	RemovalPolicy      RemovalPolicy
}

// Defaults returns the inputs for a stock Jenkins LTS controller.
func Defaults() Inputs {
	return Inputs{
		Region:             FallbackRegion,
		Image:              "jenkins/jenkins:lts",
		CPU:                1024,
		MemoryMiB:          2048,
		ContainerPort:      8080,
		AgentPort:          50000,
		MountPath:          "/var/jenkins_home",
		DesiredCount:       1,
		MinCapacity:        1,
		MaxCapacity:        2,
		CPUTargetPercent:   70,
		TransitionToIADays: 30,
		RemovalPolicy:      RemovalPolicyRetain,
	}
}

var accountPattern = regexp.MustCompile(`^\d{12}$`)

// fargateCPUMemory lists the Fargate CPU units and the memory range (MiB)
// each supports. Anything outside these pairs is rejected at apply time
// anyway; failing here gives the operator a faster answer.
var fargateCPUMemory = map[int][2]int{
	256:  {512, 2048},
	512:  {1024, 4096},
	1024: {2048, 8192},
	2048: {4096, 16384},
	4096: {8192, 30720},
}

var iaTransitions = map[int]string{
	7:  "AFTER_7_DAYS",
	14: "AFTER_14_DAYS",
	30: "AFTER_30_DAYS",
	60: "AFTER_60_DAYS",
	90: "AFTER_90_DAYS",
}

// Validate checks the inputs a reader could plausibly get wrong. It does not
// try to pre-empt provisioning-service validation (quotas, naming conflicts);
// those fail at apply time and are surfaced verbatim.
func (in Inputs) Validate() error {
	if in.Account == "" {
		return fmt.Errorf("account is required (set --account or JENKINSCTL_ACCOUNT)")
	}
	if !accountPattern.MatchString(in.Account) {
		return fmt.Errorf("account %q is not a 12-digit account ID", in.Account)
	}
	if in.Region == "" {
		return fmt.Errorf("region is required")
	}
	if in.Image == "" {
		return fmt.Errorf("container image is required")
	}
	memRange, ok := fargateCPUMemory[in.CPU]
	if !ok {
		return fmt.Errorf("cpu %d is not a valid Fargate size (256, 512, 1024, 2048, or 4096)", in.CPU)
	}
	if in.MemoryMiB < memRange[0] || in.MemoryMiB > memRange[1] {
		return fmt.Errorf("memory %d MiB is outside the %d-%d MiB range for %d CPU units", in.MemoryMiB, memRange[0], memRange[1], in.CPU)
	}
	if err := validatePort("container port", in.ContainerPort); err != nil {
		return err
	}
	if err := validatePort("agent port", in.AgentPort); err != nil {
		return err
	}
	if in.ContainerPort == in.AgentPort {
		return fmt.Errorf("container port and agent port must differ (both %d)", in.ContainerPort)
	}
	if !strings.HasPrefix(in.MountPath, "/") {
		return fmt.Errorf("mount path %q must be absolute", in.MountPath)
	}
	if in.MinCapacity < 1 {
		return fmt.Errorf("min capacity must be at least 1, got %d", in.MinCapacity)
	}
	if in.MaxCapacity < in.MinCapacity {
		return fmt.Errorf("max capacity %d is below min capacity %d", in.MaxCapacity, in.MinCapacity)
	}
	if in.DesiredCount < in.MinCapacity || in.DesiredCount > in.MaxCapacity {
		return fmt.Errorf("desired count %d is outside the %d-%d capacity bounds", in.DesiredCount, in.MinCapacity, in.MaxCapacity)
	}
	if in.CPUTargetPercent < 1 || in.CPUTargetPercent > 100 {
		return fmt.Errorf("cpu target %d%% is outside 1-100", in.CPUTargetPercent)
	}
	if in.TransitionToIADays != 0 {
		if _, ok := iaTransitions[in.TransitionToIADays]; !ok {
			return fmt.Errorf("transition-to-IA must be 0, 7, 14, 30, 60, or 90 days, got %d", in.TransitionToIADays)
		}
	}
	switch in.RemovalPolicy {
	case RemovalPolicyRetain, RemovalPolicyDestroy:
	default:
		return fmt.Errorf("removal policy must be %q or %q, got %q", RemovalPolicyRetain, RemovalPolicyDestroy, in.RemovalPolicy)
	}
	return nil
}

func validatePort(what string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s %d is outside 1-65535", what, port)
	}
	return nil
}

// availabilityZones derives the two zones the network spans. Zone suffixes a
// and b exist in every commercial region.
func (in Inputs) availabilityZones() []string {
	return []string{in.Region + "a", in.Region + "b"}
}
