// File: internal/stack/service.go
// Brief: Load balancer, target group, security groups, and the ECS service.

package stack

import "github.com/example/jenkinsctl/internal/cfn"

func addService(t *cfn.Template, in Inputs) error {
	if err := t.AddResource(idLoadBalancerSG, &cfn.Resource{
		Type: "AWS::EC2::SecurityGroup",
		Properties: map[string]any{
			"GroupDescription": "Public HTTP to the Jenkins load balancer",
			"VpcId":            cfn.Ref(idVpc),
			"SecurityGroupIngress": []any{
				map[string]any{
					"IpProtocol":  "tcp",
					"FromPort":    80,
					"ToPort":      80,
					"CidrIp":      "0.0.0.0/0",
					"Description": "HTTP from anywhere",
				},
			},
		},
	}); err != nil {
		return err
	}

	if err := t.AddResource(idServiceSG, &cfn.Resource{
		Type: "AWS::EC2::SecurityGroup",
		Properties: map[string]any{
			"GroupDescription": "Jenkins controller tasks",
			"VpcId":            cfn.Ref(idVpc),
			"SecurityGroupIngress": []any{
				map[string]any{
					"IpProtocol":            "tcp",
					"FromPort":              in.ContainerPort,
					"ToPort":                in.ContainerPort,
					"SourceSecurityGroupId": cfn.GetAtt(idLoadBalancerSG, "GroupId"),
					"Description":           "Web UI from the load balancer",
				},
				map[string]any{
					"IpProtocol":  "tcp",
					"FromPort":    in.AgentPort,
					"ToPort":      in.AgentPort,
					"CidrIp":      vpcCIDR,
					"Description": "Inbound agents from inside the VPC",
				},
			},
		},
	}); err != nil {
		return err
	}

	if err := t.AddResource(idLoadBalancer, &cfn.Resource{
		Type:      "AWS::ElasticLoadBalancingV2::LoadBalancer",
		DependsOn: []string{idGatewayAttachment},
		Properties: map[string]any{
			"Type":           "application",
			"Scheme":         "internet-facing",
			"Subnets":        []any{cfn.Ref(idPublicSubnetA), cfn.Ref(idPublicSubnetB)},
			"SecurityGroups": []any{cfn.GetAtt(idLoadBalancerSG, "GroupId")},
		},
	}); err != nil {
		return err
	}

	// Jenkins answers /login with 200 before setup completes, which makes it
	// the safest unauthenticated health check path.
	if err := t.AddResource(idTargetGroup, &cfn.Resource{
		Type: "AWS::ElasticLoadBalancingV2::TargetGroup",
		Properties: map[string]any{
			"Port":                       in.ContainerPort,
			"Protocol":                   "HTTP",
			"TargetType":                 "ip",
			"VpcId":                      cfn.Ref(idVpc),
			"HealthCheckPath":            "/login",
			"HealthCheckIntervalSeconds": 30,
			"HealthyThresholdCount":      2,
			"UnhealthyThresholdCount":    5,
			"Matcher":                    map[string]any{"HttpCode": "200"},
		},
	}); err != nil {
		return err
	}

	if err := t.AddResource(idListener, &cfn.Resource{
		Type: "AWS::ElasticLoadBalancingV2::Listener",
		Properties: map[string]any{
			"LoadBalancerArn": cfn.Ref(idLoadBalancer),
			"Port":            80,
			"Protocol":        "HTTP",
			"DefaultActions": []any{
				map[string]any{"Type": "forward", "TargetGroupArn": cfn.Ref(idTargetGroup)},
			},
		},
	}); err != nil {
		return err
	}

	// The service must wait for the listener (target group attachment) and
	// for the mount targets, or tasks start before the home directory can
	// mount.
	return t.AddResource(idService, &cfn.Resource{
		Type:      "AWS::ECS::Service",
		DependsOn: []string{idListener, idMountTargetA, idMountTargetB},
		Properties: map[string]any{
			"Cluster":                       cfn.Ref(idCluster),
			"TaskDefinition":                cfn.Ref(idTaskDefinition),
			"DesiredCount":                  in.DesiredCount,
			"LaunchType":                    "FARGATE",
			"HealthCheckGracePeriodSeconds": 300,
			"NetworkConfiguration": map[string]any{
				"AwsvpcConfiguration": map[string]any{
					"AssignPublicIp": "ENABLED",
					"Subnets":        []any{cfn.Ref(idPublicSubnetA), cfn.Ref(idPublicSubnetB)},
					"SecurityGroups": []any{cfn.GetAtt(idServiceSG, "GroupId")},
				},
			},
			"LoadBalancers": []any{
				map[string]any{
					"ContainerName":  "jenkins",
					"ContainerPort":  in.ContainerPort,
					"TargetGroupArn": cfn.Ref(idTargetGroup),
				},
			},
		},
	})
}
