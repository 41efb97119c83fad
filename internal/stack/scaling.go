// File: internal/stack/scaling.go
// Brief: Application Auto Scaling target and CPU target-tracking policy.

package stack

import "github.com/example/jenkinsctl/internal/cfn"

func addScaling(t *cfn.Template, in Inputs) error {
	serviceLinkedRole := "arn:aws:iam::" + in.Account +
		":role/aws-service-role/ecs.application-autoscaling.amazonaws.com/AWSServiceRoleForApplicationAutoScaling_ECSService"

	if err := t.AddResource(idScalingTarget, &cfn.Resource{
		Type: "AWS::ApplicationAutoScaling::ScalableTarget",
		Properties: map[string]any{
			"MinCapacity":       in.MinCapacity,
			"MaxCapacity":       in.MaxCapacity,
			"ResourceId":        cfn.Sub("service/${" + idCluster + "}/${" + idService + ".Name}"),
			"ScalableDimension": "ecs:service:DesiredCount",
			"ServiceNamespace":  "ecs",
			"RoleARN":           serviceLinkedRole,
		},
	}); err != nil {
		return err
	}

	return t.AddResource(idScalingPolicy, &cfn.Resource{
		Type: "AWS::ApplicationAutoScaling::ScalingPolicy",
		Properties: map[string]any{
			"PolicyName":      cfn.Sub("${AWS::StackName}-cpu-target"),
			"PolicyType":      "TargetTrackingScaling",
			"ScalingTargetId": cfn.Ref(idScalingTarget),
			"TargetTrackingScalingPolicyConfiguration": map[string]any{
				"PredefinedMetricSpecification": map[string]any{
					"PredefinedMetricType": "ECSServiceAverageCPUUtilization",
				},
				"TargetValue":      in.CPUTargetPercent,
				"ScaleInCooldown":  300,
				"ScaleOutCooldown": 300,
			},
		},
	})
}
