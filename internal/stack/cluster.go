// File: internal/stack/cluster.go
// Brief: ECS cluster declaration.

package stack

import "github.com/example/jenkinsctl/internal/cfn"

func addCluster(t *cfn.Template, _ Inputs) error {
	return t.AddResource(idCluster, &cfn.Resource{
		Type: "AWS::ECS::Cluster",
		Properties: map[string]any{
			"ClusterName": cfn.Sub("${AWS::StackName}-cluster"),
			"ClusterSettings": []any{
				map[string]any{"Name": "containerInsights", "Value": "enabled"},
			},
		},
	})
}
