package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"

	"github.com/example/jenkinsctl/internal/deploy"
)

type fakeDriver struct {
	op        deploy.Operation
	endpoint  string
	status    deploy.Status
	deployed  string
	applyErr  error
	destroyed []string

	appliedBody string
	region      string
}

func (f *fakeDriver) Apply(_ context.Context, _ string, body string) (deploy.Operation, error) {
	f.appliedBody = body
	return f.op, f.applyErr
}

func (f *fakeDriver) Destroy(_ context.Context, stackName string) error {
	f.destroyed = append(f.destroyed, stackName)
	return nil
}

func (f *fakeDriver) Status(_ context.Context, _ string) (deploy.Status, error) {
	return f.status, nil
}

func (f *fakeDriver) Endpoint(_ context.Context, _ string, _ string) (string, error) {
	if f.endpoint == "" {
		return "", fmt.Errorf("no endpoint")
	}
	return f.endpoint, nil
}

func (f *fakeDriver) DeployedTemplate(_ context.Context, _ string) (string, error) {
	return f.deployed, nil
}

func withFakeDriver(t *testing.T, f *fakeDriver) {
	t.Helper()
	orig := newStackDriver
	newStackDriver = func(_ context.Context, region string, _ logr.Logger, _ time.Duration) (stackDriver, error) {
		f.region = region
		return f, nil
	}
	t.Cleanup(func() { newStackDriver = orig })
}

func TestDeployPrintsEndpoint(t *testing.T) {
	fake := &fakeDriver{op: deploy.OperationCreate, endpoint: "http://jenkins-alb.example.com"}
	withFakeDriver(t, fake)

	level := "error"
	stackName := "jenkins"
	cmd := newDeployCommand(&stackName, &level)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--account", "111122223333", "--region", "eu-west-1"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("deploy: %v", err)
	}
	if !strings.Contains(out.String(), "http://jenkins-alb.example.com") {
		t.Fatalf("endpoint not printed:\n%s", out.String())
	}
	if !strings.Contains(fake.appliedBody, "AWS::ECS::Service") {
		t.Fatalf("synthesized template not submitted")
	}
	if fake.region != "eu-west-1" {
		t.Fatalf("driver built for wrong region: %s", fake.region)
	}
}

func TestDeployReportsNoop(t *testing.T) {
	fake := &fakeDriver{op: deploy.OperationNoop, endpoint: "http://x"}
	withFakeDriver(t, fake)

	level := "error"
	stackName := "jenkins"
	cmd := newDeployCommand(&stackName, &level)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--account", "111122223333"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("deploy: %v", err)
	}
	if !strings.Contains(out.String(), "already up to date") {
		t.Fatalf("no-op not reported:\n%s", out.String())
	}
}

func TestDestroyRequiresConfirmation(t *testing.T) {
	fake := &fakeDriver{}
	withFakeDriver(t, fake)

	level := "error"
	stackName := "jenkins"
	cmd := newDestroyCommand(&stackName, &level)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader("nope\n"))
	cmd.SetArgs([]string{"--account", "111122223333"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("mismatched confirmation should abort")
	}
	if len(fake.destroyed) != 0 {
		t.Fatalf("stack deleted despite aborted confirmation")
	}
}

func TestDestroyWithConfirmation(t *testing.T) {
	fake := &fakeDriver{}
	withFakeDriver(t, fake)

	level := "error"
	stackName := "jenkins"
	cmd := newDestroyCommand(&stackName, &level)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader("jenkins\n"))
	cmd.SetArgs([]string{"--account", "111122223333"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if len(fake.destroyed) != 1 || fake.destroyed[0] != "jenkins" {
		t.Fatalf("destroy not driven: %v", fake.destroyed)
	}
	if !strings.Contains(out.String(), "retained") {
		t.Fatalf("retention note missing:\n%s", out.String())
	}
}

func TestDestroyYesSkipsPrompt(t *testing.T) {
	fake := &fakeDriver{}
	withFakeDriver(t, fake)

	level := "error"
	stackName := "jenkins"
	cmd := newDestroyCommand(&stackName, &level)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--account", "111122223333", "--yes"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("destroy --yes: %v", err)
	}
	if len(fake.destroyed) != 1 {
		t.Fatalf("destroy not driven with --yes")
	}
}

func TestStatusPrintsOutputs(t *testing.T) {
	fake := &fakeDriver{status: deploy.Status{
		StackStatus: "CREATE_COMPLETE",
		Outputs:     map[string]string{"JenkinsURL": "http://x"},
	}}
	withFakeDriver(t, fake)

	level := "error"
	stackName := "jenkins"
	cmd := newStatusCommand(&stackName, &level)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--account", "111122223333"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out.String(), "CREATE_COMPLETE") || !strings.Contains(out.String(), "JenkinsURL") {
		t.Fatalf("status output incomplete:\n%s", out.String())
	}
}
