// File: cmd/jenkinsctl/driver.go
// Brief: Driver construction seam shared by the provisioning commands.

package main

import (
	"context"
	"time"

	"github.com/go-logr/logr"

	"github.com/example/jenkinsctl/internal/deploy"
)

// stackDriver is the provisioning surface the commands consume. Tests swap
// newStackDriver for a fake.
type stackDriver interface {
	Apply(ctx context.Context, stackName, body string) (deploy.Operation, error)
	Destroy(ctx context.Context, stackName string) error
	Status(ctx context.Context, stackName string) (deploy.Status, error)
	Endpoint(ctx context.Context, stackName, outputKey string) (string, error)
	DeployedTemplate(ctx context.Context, stackName string) (string, error)
}

var newStackDriver = func(ctx context.Context, region string, log logr.Logger, waitTimeout time.Duration) (stackDriver, error) {
	d, err := deploy.NewFromConfig(ctx, region, log)
	if err != nil {
		return nil, err
	}
	d.SetWaitTimeout(waitTimeout)
	return d, nil
}
