// File: internal/stack/task.go
// Brief: Task definition, container, log group, and IAM roles.

package stack

import (
	"strconv"

	"github.com/example/jenkinsctl/internal/cfn"
)

const jenkinsHomeVolume = "jenkins-home"

func addTask(t *cfn.Template, in Inputs) error {
	if err := t.AddResource(idLogGroup, &cfn.Resource{
		Type: "AWS::Logs::LogGroup",
		Properties: map[string]any{
			"LogGroupName":    cfn.Sub("/ecs/${AWS::StackName}"),
			"RetentionInDays": 30,
		},
	}); err != nil {
		return err
	}

	if err := t.AddResource(idExecutionRole, &cfn.Resource{
		Type: "AWS::IAM::Role",
		Properties: map[string]any{
			"AssumeRolePolicyDocument": ecsTasksAssumePolicy(),
			"ManagedPolicyArns": []any{
				"arn:aws:iam::aws:policy/service-role/AmazonECSTaskExecutionRolePolicy",
			},
		},
	}); err != nil {
		return err
	}

	// The task role grants EFS client access to the home filesystem and
	// nothing else. The original deployment also granted blanket object
	// storage access "if needed"; that was a placeholder, not a considered
	// grant, and is deliberately not carried over.
	if err := t.AddResource(idTaskRole, &cfn.Resource{
		Type: "AWS::IAM::Role",
		Properties: map[string]any{
			"AssumeRolePolicyDocument": ecsTasksAssumePolicy(),
			"Policies": []any{
				map[string]any{
					"PolicyName": "jenkins-home-access",
					"PolicyDocument": map[string]any{
						"Version": "2012-10-17",
						"Statement": []any{
							map[string]any{
								"Effect": "Allow",
								"Action": []any{
									"elasticfilesystem:ClientMount",
									"elasticfilesystem:ClientWrite",
								},
								"Resource": fileSystemARN(in),
							},
						},
					},
				},
			},
		},
	}); err != nil {
		return err
	}

	container := map[string]any{
		"Name":      "jenkins",
		"Image":     in.Image,
		"Essential": true,
		"PortMappings": []any{
			map[string]any{"ContainerPort": in.ContainerPort, "Protocol": "tcp"},
			map[string]any{"ContainerPort": in.AgentPort, "Protocol": "tcp"},
		},
		"Environment": []any{
			map[string]any{"Name": "JENKINS_OPTS", "Value": "--httpPort=" + strconv.Itoa(in.ContainerPort)},
			map[string]any{"Name": "JENKINS_SLAVE_AGENT_PORT", "Value": strconv.Itoa(in.AgentPort)},
		},
		"MountPoints": []any{
			map[string]any{
				"SourceVolume":  jenkinsHomeVolume,
				"ContainerPath": in.MountPath,
				"ReadOnly":      false,
			},
		},
		"LogConfiguration": map[string]any{
			"LogDriver": "awslogs",
			"Options": map[string]any{
				"awslogs-group":         cfn.Ref(idLogGroup),
				"awslogs-region":        in.Region,
				"awslogs-stream-prefix": "jenkins",
			},
		},
	}

	return t.AddResource(idTaskDefinition, &cfn.Resource{
		Type: "AWS::ECS::TaskDefinition",
		Properties: map[string]any{
			"Family":                  cfn.Sub("${AWS::StackName}"),
			"Cpu":                     strconv.Itoa(in.CPU),
			"Memory":                  strconv.Itoa(in.MemoryMiB),
			"NetworkMode":             "awsvpc",
			"RequiresCompatibilities": []any{"FARGATE"},
			"ExecutionRoleArn":        cfn.GetAtt(idExecutionRole, "Arn"),
			"TaskRoleArn":             cfn.GetAtt(idTaskRole, "Arn"),
			"Volumes": []any{
				map[string]any{
					"Name": jenkinsHomeVolume,
					"EFSVolumeConfiguration": map[string]any{
						"FilesystemId":      cfn.Ref(idFileSystem),
						"TransitEncryption": "ENABLED",
					},
				},
			},
			"ContainerDefinitions": []any{container},
		},
	})
}

func ecsTasksAssumePolicy() map[string]any {
	return map[string]any{
		"Version": "2012-10-17",
		"Statement": []any{
			map[string]any{
				"Effect":    "Allow",
				"Principal": map[string]any{"Service": "ecs-tasks.amazonaws.com"},
				"Action":    "sts:AssumeRole",
			},
		},
	}
}
