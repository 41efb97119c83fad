// File: internal/stack/network.go
// Brief: VPC, public subnets, and internet routing for the controller.

package stack

import "github.com/example/jenkinsctl/internal/cfn"

// addNetwork declares a two-AZ public network. The service runs with public
// IPs behind the ALB, so there are no private subnets and no NAT gateways to
// pay for.
func addNetwork(t *cfn.Template, in Inputs) error {
	zones := in.availabilityZones()

	if err := t.AddResource(idVpc, &cfn.Resource{
		Type: "AWS::EC2::VPC",
		Properties: map[string]any{
			"CidrBlock":          vpcCIDR,
			"EnableDnsSupport":   true,
			"EnableDnsHostnames": true,
			"Tags":               nameTag("${AWS::StackName}-vpc"),
		},
	}); err != nil {
		return err
	}

	subnets := []struct {
		id   string
		cidr string
		zone string
	}{
		{idPublicSubnetA, subnetACIDR, zones[0]},
		{idPublicSubnetB, subnetBCIDR, zones[1]},
	}
	for _, s := range subnets {
		if err := t.AddResource(s.id, &cfn.Resource{
			Type: "AWS::EC2::Subnet",
			Properties: map[string]any{
				"VpcId":               cfn.Ref(idVpc),
				"CidrBlock":           s.cidr,
				"AvailabilityZone":    s.zone,
				"MapPublicIpOnLaunch": true,
			},
		}); err != nil {
			return err
		}
	}

	if err := t.AddResource(idInternetGateway, &cfn.Resource{
		Type: "AWS::EC2::InternetGateway",
	}); err != nil {
		return err
	}
	if err := t.AddResource(idGatewayAttachment, &cfn.Resource{
		Type: "AWS::EC2::VPCGatewayAttachment",
		Properties: map[string]any{
			"VpcId":             cfn.Ref(idVpc),
			"InternetGatewayId": cfn.Ref(idInternetGateway),
		},
	}); err != nil {
		return err
	}
	if err := t.AddResource(idPublicRouteTable, &cfn.Resource{
		Type: "AWS::EC2::RouteTable",
		Properties: map[string]any{
			"VpcId": cfn.Ref(idVpc),
		},
	}); err != nil {
		return err
	}
	// The route must not be created before the gateway is attached.
	if err := t.AddResource(idPublicDefaultRoute, &cfn.Resource{
		Type:      "AWS::EC2::Route",
		DependsOn: []string{idGatewayAttachment},
		Properties: map[string]any{
			"RouteTableId":         cfn.Ref(idPublicRouteTable),
			"DestinationCidrBlock": "0.0.0.0/0",
			"GatewayId":            cfn.Ref(idInternetGateway),
		},
	}); err != nil {
		return err
	}

	assocs := map[string]string{
		idSubnetARouteAssoc: idPublicSubnetA,
		idSubnetBRouteAssoc: idPublicSubnetB,
	}
	for assocID, subnetID := range assocs {
		if err := t.AddResource(assocID, &cfn.Resource{
			Type: "AWS::EC2::SubnetRouteTableAssociation",
			Properties: map[string]any{
				"RouteTableId": cfn.Ref(idPublicRouteTable),
				"SubnetId":     cfn.Ref(subnetID),
			},
		}); err != nil {
			return err
		}
	}
	return nil
}

func nameTag(sub string) []any {
	return []any{map[string]any{"Key": "Name", "Value": cfn.Sub(sub)}}
}
