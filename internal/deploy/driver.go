// File: internal/deploy/driver.go
// Brief: CloudFormation driver: submit the template and wait on convergence.

// Package deploy drives the provisioning service. It owns no convergence
// logic of its own: CloudFormation decides ordering, rollback, and retries,
// and its errors are surfaced to the operator verbatim.
package deploy

import (
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/go-logr/logr"
	"github.com/pkg/errors"
)

// API is the slice of the CloudFormation client the driver consumes. Tests
// substitute a fake; production passes *cloudformation.Client.
type API interface {
	CreateStack(ctx context.Context, in *cloudformation.CreateStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.CreateStackOutput, error)
	UpdateStack(ctx context.Context, in *cloudformation.UpdateStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.UpdateStackOutput, error)
	DeleteStack(ctx context.Context, in *cloudformation.DeleteStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DeleteStackOutput, error)
	DescribeStacks(ctx context.Context, in *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
	GetTemplate(ctx context.Context, in *cloudformation.GetTemplateInput, optFns ...func(*cloudformation.Options)) (*cloudformation.GetTemplateOutput, error)
}

// Driver submits templates and inspects stack state.
type Driver struct {
	api         API
	log         logr.Logger
	waitTimeout time.Duration
}

// Operation reports which convergence path Apply took.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationNoop   Operation = "no-op"
)

// Status is a stack's current state plus its output values.
type Status struct {
	StackStatus string
	Outputs     map[string]string
}

const defaultWaitTimeout = 30 * time.Minute

// New wraps an existing CloudFormation client.
func New(api API, log logr.Logger) *Driver {
	return &Driver{api: api, log: log, waitTimeout: defaultWaitTimeout}
}

// NewFromConfig resolves AWS credentials from the default chain for the
// given region and returns a ready driver.
func NewFromConfig(ctx context.Context, region string, log logr.Logger) (*Driver, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, errors.Wrap(err, "load AWS config")
	}
	return New(cloudformation.NewFromConfig(cfg), log), nil
}

// SetWaitTimeout bounds how long Apply and Destroy wait on convergence.
func (d *Driver) SetWaitTimeout(timeout time.Duration) {
	if timeout > 0 {
		d.waitTimeout = timeout
	}
}

// Apply converges the named stack to the given template body: CreateStack if
// the stack does not exist, UpdateStack otherwise. An update with nothing to
// change reports OperationNoop rather than an error.
func (d *Driver) Apply(ctx context.Context, stackName, body string) (Operation, error) {
	exists, err := d.stackExists(ctx, stackName)
	if err != nil {
		return "", err
	}
	capabilities := []types.Capability{types.CapabilityCapabilityIam, types.CapabilityCapabilityNamedIam}
	if !exists {
		d.log.Info("creating stack", "stack", stackName)
		_, err := d.api.CreateStack(ctx, &cloudformation.CreateStackInput{
			StackName:    aws.String(stackName),
			TemplateBody: aws.String(body),
			Capabilities: capabilities,
		})
		if err != nil {
			return "", errors.Wrapf(err, "create stack %s", stackName)
		}
		waiter := cloudformation.NewStackCreateCompleteWaiter(d.api)
		if err := waiter.Wait(ctx, describeInput(stackName), d.waitTimeout); err != nil {
			return "", errors.Wrapf(err, "wait for stack %s create", stackName)
		}
		return OperationCreate, nil
	}

	d.log.Info("updating stack", "stack", stackName)
	_, err = d.api.UpdateStack(ctx, &cloudformation.UpdateStackInput{
		StackName:    aws.String(stackName),
		TemplateBody: aws.String(body),
		Capabilities: capabilities,
	})
	if err != nil {
		if isNoUpdates(err) {
			d.log.Info("stack already up to date", "stack", stackName)
			return OperationNoop, nil
		}
		return "", errors.Wrapf(err, "update stack %s", stackName)
	}
	waiter := cloudformation.NewStackUpdateCompleteWaiter(d.api)
	if err := waiter.Wait(ctx, describeInput(stackName), d.waitTimeout); err != nil {
		return "", errors.Wrapf(err, "wait for stack %s update", stackName)
	}
	return OperationUpdate, nil
}

// Destroy deletes the stack and waits for the deletion to finish. Resources
// declared with a Retain deletion policy survive.
func (d *Driver) Destroy(ctx context.Context, stackName string) error {
	d.log.Info("deleting stack", "stack", stackName)
	_, err := d.api.DeleteStack(ctx, &cloudformation.DeleteStackInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return errors.Wrapf(err, "delete stack %s", stackName)
	}
	waiter := cloudformation.NewStackDeleteCompleteWaiter(d.api)
	if err := waiter.Wait(ctx, describeInput(stackName), d.waitTimeout); err != nil {
		return errors.Wrapf(err, "wait for stack %s delete", stackName)
	}
	return nil
}

// Status returns the stack status string and output values.
func (d *Driver) Status(ctx context.Context, stackName string) (Status, error) {
	out, err := d.api.DescribeStacks(ctx, describeInput(stackName))
	if err != nil {
		return Status{}, errors.Wrapf(err, "describe stack %s", stackName)
	}
	if len(out.Stacks) == 0 {
		return Status{}, errors.Errorf("stack %s not found", stackName)
	}
	s := out.Stacks[0]
	outputs := make(map[string]string, len(s.Outputs))
	for _, o := range s.Outputs {
		outputs[aws.ToString(o.OutputKey)] = aws.ToString(o.OutputValue)
	}
	return Status{StackStatus: string(s.StackStatus), Outputs: outputs}, nil
}

// Endpoint returns the value of the named output, typically the public
// Jenkins URL.
func (d *Driver) Endpoint(ctx context.Context, stackName, outputKey string) (string, error) {
	status, err := d.Status(ctx, stackName)
	if err != nil {
		return "", err
	}
	value, ok := status.Outputs[outputKey]
	if !ok || value == "" {
		return "", errors.Errorf("stack %s has no %s output (status %s)", stackName, outputKey, status.StackStatus)
	}
	return value, nil
}

// DeployedTemplate returns the template body currently held by the
// provisioning service, for diffing against a fresh synthesis.
func (d *Driver) DeployedTemplate(ctx context.Context, stackName string) (string, error) {
	out, err := d.api.GetTemplate(ctx, &cloudformation.GetTemplateInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return "", errors.Wrapf(err, "get template for stack %s", stackName)
	}
	return aws.ToString(out.TemplateBody), nil
}

func (d *Driver) stackExists(ctx context.Context, stackName string) (bool, error) {
	_, err := d.api.DescribeStacks(ctx, describeInput(stackName))
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, "describe stack %s", stackName)
	}
	return true, nil
}

func describeInput(stackName string) *cloudformation.DescribeStacksInput {
	return &cloudformation.DescribeStacksInput{StackName: aws.String(stackName)}
}

// CloudFormation reports both conditions as plain ValidationError faults, so
// message sniffing is the only portable check.
func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "does not exist")
}

func isNoUpdates(err error) bool {
	return err != nil && strings.Contains(err.Error(), "No updates are to be performed")
}
