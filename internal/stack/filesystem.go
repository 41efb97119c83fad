// File: internal/stack/filesystem.go
// Brief: EFS filesystem, mount targets, and NFS security group.

package stack

import "github.com/example/jenkinsctl/internal/cfn"

// addFilesystem declares the persistent Jenkins home. The filesystem carries
// DeletionPolicy Retain unless the operator explicitly chose destroy: tearing
// down the stack must never implicitly delete build history.
func addFilesystem(t *cfn.Template, in Inputs) error {
	props := map[string]any{
		"Encrypted": true,
		"FileSystemTags": []any{
			map[string]any{"Key": "Name", "Value": cfn.Sub("${AWS::StackName}-home")},
		},
	}
	if in.TransitionToIADays != 0 {
		props["LifecyclePolicies"] = []any{
			map[string]any{"TransitionToIA": iaTransitions[in.TransitionToIADays]},
		}
	}
	policy := "Retain"
	if in.RemovalPolicy == RemovalPolicyDestroy {
		policy = "Delete"
	}
	if err := t.AddResource(idFileSystem, &cfn.Resource{
		Type:                "AWS::EFS::FileSystem",
		Properties:          props,
		DeletionPolicy:      policy,
		UpdateReplacePolicy: policy,
	}); err != nil {
		return err
	}

	if err := t.AddResource(idFileSystemSG, &cfn.Resource{
		Type: "AWS::EC2::SecurityGroup",
		Properties: map[string]any{
			"GroupDescription": "NFS access to the Jenkins home filesystem",
			"VpcId":            cfn.Ref(idVpc),
			"SecurityGroupIngress": []any{
				map[string]any{
					"IpProtocol":            "tcp",
					"FromPort":              2049,
					"ToPort":                2049,
					"SourceSecurityGroupId": cfn.GetAtt(idServiceSG, "GroupId"),
					"Description":           "NFS from the controller tasks only",
				},
			},
		},
	}); err != nil {
		return err
	}

	mounts := map[string]string{
		idMountTargetA: idPublicSubnetA,
		idMountTargetB: idPublicSubnetB,
	}
	for mountID, subnetID := range mounts {
		if err := t.AddResource(mountID, &cfn.Resource{
			Type: "AWS::EFS::MountTarget",
			Properties: map[string]any{
				"FileSystemId":   cfn.Ref(idFileSystem),
				"SubnetId":       cfn.Ref(subnetID),
				"SecurityGroups": []any{cfn.GetAtt(idFileSystemSG, "GroupId")},
			},
		}); err != nil {
			return err
		}
	}
	return nil
}

// fileSystemARN is the concrete ARN of the filesystem for IAM scoping.
// ${FileSystem} resolves to the filesystem ID inside Fn::Sub.
func fileSystemARN(in Inputs) cfn.Sub {
	return cfn.Sub("arn:aws:elasticfilesystem:" + in.Region + ":" + in.Account + ":file-system/${" + idFileSystem + "}")
}
