package stack

import (
	"strings"
	"testing"
)

func TestValidateAcceptsDefaultsWithAccount(t *testing.T) {
	in := Defaults()
	in.Account = "111122223333"
	if err := in.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Inputs)
		wantSub string
	}{
		{"missing account", func(in *Inputs) { in.Account = "" }, "account is required"},
		{"short account", func(in *Inputs) { in.Account = "12345" }, "12-digit"},
		{"missing region", func(in *Inputs) { in.Region = "" }, "region is required"},
		{"missing image", func(in *Inputs) { in.Image = "" }, "image is required"},
		{"bad cpu", func(in *Inputs) { in.CPU = 768 }, "Fargate size"},
		{"memory too small", func(in *Inputs) { in.CPU = 1024; in.MemoryMiB = 1024 }, "range"},
		{"memory too large", func(in *Inputs) { in.CPU = 256; in.MemoryMiB = 4096 }, "range"},
		{"port zero", func(in *Inputs) { in.ContainerPort = 0 }, "container port"},
		{"port overflow", func(in *Inputs) { in.AgentPort = 70000 }, "agent port"},
		{"port clash", func(in *Inputs) { in.AgentPort = in.ContainerPort }, "must differ"},
		{"relative mount path", func(in *Inputs) { in.MountPath = "jenkins" }, "absolute"},
		{"zero min", func(in *Inputs) { in.MinCapacity = 0 }, "min capacity"},
		{"max below min", func(in *Inputs) { in.MinCapacity = 3; in.MaxCapacity = 2 }, "below min"},
		{"desired out of bounds", func(in *Inputs) { in.DesiredCount = 9 }, "capacity bounds"},
		{"cpu target", func(in *Inputs) { in.CPUTargetPercent = 0 }, "cpu target"},
		{"odd IA days", func(in *Inputs) { in.TransitionToIADays = 21 }, "transition-to-IA"},
		{"unknown removal policy", func(in *Inputs) { in.RemovalPolicy = "keep" }, "removal policy"},
	}
	for _, tc := range cases {
		in := Defaults()
		in.Account = "111122223333"
		tc.mutate(&in)
		err := in.Validate()
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.wantSub) {
			t.Fatalf("%s: error %q missing %q", tc.name, err, tc.wantSub)
		}
	}
}

func TestAvailabilityZonesFollowRegion(t *testing.T) {
	in := Defaults()
	in.Region = "eu-central-1"
	zones := in.availabilityZones()
	if len(zones) != 2 || zones[0] != "eu-central-1a" || zones[1] != "eu-central-1b" {
		t.Fatalf("unexpected zones: %v", zones)
	}
}
