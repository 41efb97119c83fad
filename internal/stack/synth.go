// File: internal/stack/synth.go
// Brief: Assembles the Jenkins controller resource graph.

package stack

import (
	"fmt"

	"github.com/example/jenkinsctl/internal/cfn"
)

// Logical IDs of every resource in the graph. Renaming one replaces the
// underlying resource on the next apply, so these are part of the stack's
// public contract.
const (
	idVpc                = "Vpc"
	idPublicSubnetA      = "PublicSubnetA"
	idPublicSubnetB      = "PublicSubnetB"
	idInternetGateway    = "InternetGateway"
	idGatewayAttachment  = "GatewayAttachment"
	idPublicRouteTable   = "PublicRouteTable"
	idPublicDefaultRoute = "PublicDefaultRoute"
	idSubnetARouteAssoc  = "PublicSubnetARouteAssociation"
	idSubnetBRouteAssoc  = "PublicSubnetBRouteAssociation"
	idCluster            = "Cluster"
	idFileSystem         = "FileSystem"
	idFileSystemSG       = "FileSystemSecurityGroup"
	idMountTargetA       = "MountTargetA"
	idMountTargetB       = "MountTargetB"
	idLogGroup           = "LogGroup"
	idExecutionRole      = "ExecutionRole"
	idTaskRole           = "TaskRole"
	idTaskDefinition     = "TaskDefinition"
	idServiceSG          = "ServiceSecurityGroup"
	idLoadBalancerSG     = "LoadBalancerSecurityGroup"
	idLoadBalancer       = "LoadBalancer"
	idTargetGroup        = "TargetGroup"
	idListener           = "Listener"
	idService            = "Service"
	idScalingTarget      = "ScalingTarget"
	idScalingPolicy      = "ScalingPolicy"
)

// OutputJenkinsURL is the single output the stack exposes: the public
// endpoint of the Jenkins controller.
const OutputJenkinsURL = "JenkinsURL"

const (
	vpcCIDR     = "10.0.0.0/16"
	subnetACIDR = "10.0.0.0/20"
	subnetBCIDR = "10.0.16.0/20"
)

// Synthesize validates the inputs and assembles the template. It is the
// whole of the stack definition: no side effects, no stored state, and the
// same inputs always yield the same template.
func Synthesize(in Inputs) (*cfn.Template, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("invalid stack inputs: %w", err)
	}
	t := cfn.NewTemplate(fmt.Sprintf("Jenkins controller on ECS Fargate (account %s, region %s)", in.Account, in.Region))
	steps := []func(*cfn.Template, Inputs) error{
		addNetwork,
		addCluster,
		addFilesystem,
		addTask,
		addService,
		addScaling,
		addOutputs,
	}
	for _, step := range steps {
		if err := step(t, in); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func addOutputs(t *cfn.Template, in Inputs) error {
	var value any
	if in.Domain != "" {
		value = "http://" + in.Domain
	} else {
		value = cfn.Sub("http://${" + idLoadBalancer + ".DNSName}")
	}
	return t.AddOutput(OutputJenkinsURL, cfn.Output{
		Description: "Public endpoint of the Jenkins controller",
		Value:       value,
	})
}
