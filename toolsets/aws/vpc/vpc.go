// Package awsvpc implements VPC, subnet, and security group tools.
package awsvpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"awsinfra/internal/mcp"
)

type Service struct {
	ctx       mcp.ToolsetContext
	ec2Client func(context.Context, string) (*ec2.Client, string, error)
	toolsetID string
}

func ToolSpecs(ctx mcp.ToolsetContext, toolsetID string, ec2Client func(context.Context, string) (*ec2.Client, string, error)) []mcp.ToolSpec {
	svc := &Service{ctx: ctx, ec2Client: ec2Client, toolsetID: toolsetID}
	return []mcp.ToolSpec{
		{
			Name:        "aws.vpc.create_vpc",
			Description: "Create a VPC with the given CIDR block.",
			ToolsetID:   toolsetID,
			InputSchema: schemaVPCCreateVPC(),
			Safety:      mcp.SafetyWrite,
			Handler:     svc.handleCreateVPC,
		},
		{
			Name:        "aws.vpc.list_vpcs",
			Description: "List VPCs (optional VPC id filter).",
			ToolsetID:   toolsetID,
			InputSchema: schemaVPCListVPCs(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListVPCs,
		},
		{
			Name:        "aws.vpc.create_subnet",
			Description: "Create a subnet in a VPC.",
			ToolsetID:   toolsetID,
			InputSchema: schemaVPCCreateSubnet(),
			Safety:      mcp.SafetyWrite,
			Handler:     svc.handleCreateSubnet,
		},
		{
			Name:        "aws.vpc.list_subnets",
			Description: "List subnets (optional VPC or subnet id filters).",
			ToolsetID:   toolsetID,
			InputSchema: schemaVPCListSubnets(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListSubnets,
		},
		{
			Name:        "aws.vpc.create_security_group",
			Description: "Create a security group in a VPC.",
			ToolsetID:   toolsetID,
			InputSchema: schemaVPCCreateSecurityGroup(),
			Safety:      mcp.SafetyWrite,
			Handler:     svc.handleCreateSecurityGroup,
		},
		{
			Name:        "aws.vpc.add_security_group_rule",
			Description: "Authorize an ingress or egress rule on a security group.",
			ToolsetID:   toolsetID,
			InputSchema: schemaVPCAddSecurityGroupRule(),
			Safety:      mcp.SafetyRiskyWrite,
			Handler:     svc.handleAddSecurityGroupRule,
		},
		{
			Name:        "aws.vpc.list_security_groups",
			Description: "List security groups (optional VPC or group id filters).",
			ToolsetID:   toolsetID,
			InputSchema: schemaVPCListSecurityGroups(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListSecurityGroups,
		},
	}
}

func (s *Service) handleCreateVPC(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	cidr := toString(req.Arguments["cidr_block"])
	if cidr == "" {
		return mcp.ToolResult{}, errors.New("cidr_block is required")
	}
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.ec2Client(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	input := &ec2.CreateVpcInput{CidrBlock: aws.String(cidr)}
	tags := toStringMap(req.Arguments["tags"])
	if name := toString(req.Arguments["name"]); name != "" {
		if tags == nil {
			tags = map[string]string{}
		}
		if _, ok := tags["Name"]; !ok {
			tags["Name"] = name
		}
	}
	if len(tags) > 0 {
		input.TagSpecifications = []ec2types.TagSpecification{{
			ResourceType: ec2types.ResourceTypeVpc,
			Tags:         buildTags(tags),
		}}
	}
	out, err := client.CreateVpc(ctx, input)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	vpcID := ""
	var summary map[string]any
	if out.Vpc != nil {
		vpcID = aws.ToString(out.Vpc.VpcId)
		summary = summarizeVPC(*out.Vpc)
	}
	// DNS attributes are separate ModifyVpcAttribute calls, one per
	// flag, and both default to enabled.
	if toBool(req.Arguments["enable_dns_support"], true) {
		_, err = client.ModifyVpcAttribute(ctx, &ec2.ModifyVpcAttributeInput{
			VpcId:            aws.String(vpcID),
			EnableDnsSupport: &ec2types.AttributeBooleanValue{Value: aws.Bool(true)},
		})
		if err != nil {
			return mcp.ToolResult{}, err
		}
	}
	if toBool(req.Arguments["enable_dns_hostnames"], true) {
		_, err = client.ModifyVpcAttribute(ctx, &ec2.ModifyVpcAttributeInput{
			VpcId:              aws.String(vpcID),
			EnableDnsHostnames: &ec2types.AttributeBooleanValue{Value: aws.Bool(true)},
		})
		if err != nil {
			return mcp.ToolResult{}, err
		}
	}
	data := mcp.Success(map[string]any{
		"region": usedRegion,
		"vpc":    summary,
	})
	return mcp.ToolResult{
		Data: data,
		Metadata: mcp.ToolMetadata{
			Region:    usedRegion,
			Resources: []string{fmt.Sprintf("ec2/vpc/%s", vpcID)},
		},
	}, nil
}

func (s *Service) handleListVPCs(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	vpcIDs := toStringSlice(req.Arguments["vpc_ids"])
	client, usedRegion, err := s.ec2Client(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	input := &ec2.DescribeVpcsInput{}
	if len(vpcIDs) > 0 {
		input.VpcIds = vpcIDs
	}
	var vpcs []map[string]any
	for {
		out, err := client.DescribeVpcs(ctx, input)
		if err != nil {
			return mcp.ToolResult{}, err
		}
		for _, vpc := range out.Vpcs {
			vpcs = append(vpcs, summarizeVPC(vpc))
		}
		if aws.ToString(out.NextToken) == "" {
			break
		}
		input.NextToken = out.NextToken
	}
	data := mcp.SuccessCount(map[string]any{
		"region": usedRegion,
		"vpcs":   vpcs,
	}, len(vpcs))
	return mcp.ToolResult{Data: data, Metadata: mcp.ToolMetadata{Region: usedRegion}}, nil
}

func (s *Service) handleCreateSubnet(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	vpcID := toString(req.Arguments["vpc_id"])
	if vpcID == "" {
		return mcp.ToolResult{}, errors.New("vpc_id is required")
	}
	cidr := toString(req.Arguments["cidr_block"])
	if cidr == "" {
		return mcp.ToolResult{}, errors.New("cidr_block is required")
	}
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.ec2Client(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	input := &ec2.CreateSubnetInput{
		VpcId:     aws.String(vpcID),
		CidrBlock: aws.String(cidr),
	}
	if zone := toString(req.Arguments["availability_zone"]); zone != "" {
		input.AvailabilityZone = aws.String(zone)
	}
	out, err := client.CreateSubnet(ctx, input)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	subnetID := ""
	var summary map[string]any
	if out.Subnet != nil {
		subnetID = aws.ToString(out.Subnet.SubnetId)
		summary = summarizeSubnet(*out.Subnet)
	}
	data := mcp.Success(map[string]any{
		"region": usedRegion,
		"subnet": summary,
	})
	return mcp.ToolResult{
		Data: data,
		Metadata: mcp.ToolMetadata{
			Region:    usedRegion,
			Resources: []string{fmt.Sprintf("ec2/subnet/%s", subnetID)},
		},
	}, nil
}

func (s *Service) handleListSubnets(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	vpcID := toString(req.Arguments["vpc_id"])
	subnetIDs := toStringSlice(req.Arguments["subnet_ids"])
	client, usedRegion, err := s.ec2Client(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	input := &ec2.DescribeSubnetsInput{}
	if len(subnetIDs) > 0 {
		input.SubnetIds = subnetIDs
	}
	if vpcID != "" {
		input.Filters = append(input.Filters, ec2types.Filter{
			Name:   aws.String("vpc-id"),
			Values: []string{vpcID},
		})
	}
	var subnets []map[string]any
	for {
		out, err := client.DescribeSubnets(ctx, input)
		if err != nil {
			return mcp.ToolResult{}, err
		}
		for _, subnet := range out.Subnets {
			subnets = append(subnets, summarizeSubnet(subnet))
		}
		if aws.ToString(out.NextToken) == "" {
			break
		}
		input.NextToken = out.NextToken
	}
	data := mcp.SuccessCount(map[string]any{
		"region":  usedRegion,
		"subnets": subnets,
	}, len(subnets))
	return mcp.ToolResult{Data: data, Metadata: mcp.ToolMetadata{Region: usedRegion}}, nil
}

func (s *Service) handleCreateSecurityGroup(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	name := toString(req.Arguments["group_name"])
	if name == "" {
		return mcp.ToolResult{}, errors.New("group_name is required")
	}
	description := toString(req.Arguments["description"])
	if description == "" {
		return mcp.ToolResult{}, errors.New("description is required")
	}
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.ec2Client(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	input := &ec2.CreateSecurityGroupInput{
		GroupName:   aws.String(name),
		Description: aws.String(description),
	}
	if vpcID := toString(req.Arguments["vpc_id"]); vpcID != "" {
		input.VpcId = aws.String(vpcID)
	}
	out, err := client.CreateSecurityGroup(ctx, input)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	groupID := aws.ToString(out.GroupId)
	data := mcp.Success(map[string]any{
		"region":     usedRegion,
		"group_id":   groupID,
		"group_name": name,
	})
	return mcp.ToolResult{
		Data: data,
		Metadata: mcp.ToolMetadata{
			Region:    usedRegion,
			Resources: []string{fmt.Sprintf("ec2/security-group/%s", groupID)},
		},
	}, nil
}

func (s *Service) handleAddSecurityGroupRule(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	groupID := toString(req.Arguments["group_id"])
	if groupID == "" {
		return mcp.ToolResult{}, errors.New("group_id is required")
	}
	protocol := toString(req.Arguments["protocol"])
	if protocol == "" {
		return mcp.ToolResult{}, errors.New("protocol is required")
	}
	cidr := toString(req.Arguments["cidr"])
	if cidr == "" {
		return mcp.ToolResult{}, errors.New("cidr is required")
	}
	direction := toString(req.Arguments["direction"])
	if direction == "" {
		direction = "ingress"
	}
	if direction != "ingress" && direction != "egress" {
		return mcp.ToolResult{}, fmt.Errorf("direction must be ingress or egress, got %q", direction)
	}
	fromPort := toInt(req.Arguments["from_port"], 0)
	toPort := toInt(req.Arguments["to_port"], fromPort)
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.ec2Client(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	permission := ec2types.IpPermission{
		IpProtocol: aws.String(protocol),
		IpRanges:   []ec2types.IpRange{{CidrIp: aws.String(cidr)}},
	}
	// The EC2 API rejects port ranges on protocol -1 (all traffic).
	if protocol != "-1" {
		permission.FromPort = aws.Int32(int32(fromPort))
		permission.ToPort = aws.Int32(int32(toPort))
	}
	if direction == "ingress" {
		_, err = client.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
			GroupId:       aws.String(groupID),
			IpPermissions: []ec2types.IpPermission{permission},
		})
	} else {
		_, err = client.AuthorizeSecurityGroupEgress(ctx, &ec2.AuthorizeSecurityGroupEgressInput{
			GroupId:       aws.String(groupID),
			IpPermissions: []ec2types.IpPermission{permission},
		})
	}
	if err != nil {
		return mcp.ToolResult{}, err
	}
	data := mcp.Success(map[string]any{
		"region":    usedRegion,
		"group_id":  groupID,
		"direction": direction,
		"protocol":  protocol,
		"cidr":      cidr,
		"from_port": fromPort,
		"to_port":   toPort,
	})
	return mcp.ToolResult{
		Data: data,
		Metadata: mcp.ToolMetadata{
			Region:    usedRegion,
			Resources: []string{fmt.Sprintf("ec2/security-group/%s", groupID)},
		},
	}, nil
}

func (s *Service) handleListSecurityGroups(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	vpcID := toString(req.Arguments["vpc_id"])
	groupIDs := toStringSlice(req.Arguments["group_ids"])
	client, usedRegion, err := s.ec2Client(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	input := &ec2.DescribeSecurityGroupsInput{}
	if len(groupIDs) > 0 {
		input.GroupIds = groupIDs
	}
	if vpcID != "" {
		input.Filters = append(input.Filters, ec2types.Filter{
			Name:   aws.String("vpc-id"),
			Values: []string{vpcID},
		})
	}
	var groups []map[string]any
	for {
		out, err := client.DescribeSecurityGroups(ctx, input)
		if err != nil {
			return mcp.ToolResult{}, err
		}
		for _, group := range out.SecurityGroups {
			groups = append(groups, summarizeSecurityGroup(group))
		}
		if aws.ToString(out.NextToken) == "" {
			break
		}
		input.NextToken = out.NextToken
	}
	data := mcp.SuccessCount(map[string]any{
		"region":          usedRegion,
		"security_groups": groups,
	}, len(groups))
	return mcp.ToolResult{Data: data, Metadata: mcp.ToolMetadata{Region: usedRegion}}, nil
}

func summarizeVPC(vpc ec2types.Vpc) map[string]any {
	return map[string]any{
		"vpc_id":     aws.ToString(vpc.VpcId),
		"cidr_block": aws.ToString(vpc.CidrBlock),
		"state":      string(vpc.State),
		"is_default": aws.ToBool(vpc.IsDefault),
		"tags":       tagMap(vpc.Tags),
	}
}

func summarizeSubnet(subnet ec2types.Subnet) map[string]any {
	return map[string]any{
		"subnet_id":         aws.ToString(subnet.SubnetId),
		"vpc_id":            aws.ToString(subnet.VpcId),
		"cidr_block":        aws.ToString(subnet.CidrBlock),
		"availability_zone": aws.ToString(subnet.AvailabilityZone),
		"state":             string(subnet.State),
		"available_ips":     aws.ToInt32(subnet.AvailableIpAddressCount),
		"tags":              tagMap(subnet.Tags),
	}
}

func summarizeSecurityGroup(group ec2types.SecurityGroup) map[string]any {
	summary := map[string]any{
		"group_id":    aws.ToString(group.GroupId),
		"group_name":  aws.ToString(group.GroupName),
		"description": aws.ToString(group.Description),
		"vpc_id":      aws.ToString(group.VpcId),
		"tags":        tagMap(group.Tags),
	}
	ingress := make([]map[string]any, 0, len(group.IpPermissions))
	for _, permission := range group.IpPermissions {
		ingress = append(ingress, summarizePermission(permission))
	}
	summary["ingress_rules"] = ingress
	egress := make([]map[string]any, 0, len(group.IpPermissionsEgress))
	for _, permission := range group.IpPermissionsEgress {
		egress = append(egress, summarizePermission(permission))
	}
	summary["egress_rules"] = egress
	return summary
}

func summarizePermission(permission ec2types.IpPermission) map[string]any {
	ranges := make([]string, 0, len(permission.IpRanges))
	for _, ipRange := range permission.IpRanges {
		ranges = append(ranges, aws.ToString(ipRange.CidrIp))
	}
	out := map[string]any{
		"protocol":    aws.ToString(permission.IpProtocol),
		"cidr_blocks": ranges,
	}
	if permission.FromPort != nil {
		out["from_port"] = aws.ToInt32(permission.FromPort)
	}
	if permission.ToPort != nil {
		out["to_port"] = aws.ToInt32(permission.ToPort)
	}
	return out
}

func tagMap(tags []ec2types.Tag) map[string]string {
	out := map[string]string{}
	for _, tag := range tags {
		out[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return out
}

func toString(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func toStringSlice(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := toString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func toInt(value any, fallback int) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if parsed, err := v.Int64(); err == nil {
			return int(parsed)
		}
	}
	return fallback
}

func toBool(value any, fallback bool) bool {
	if b, ok := value.(bool); ok {
		return b
	}
	return fallback
}

func toStringMap(value any) map[string]string {
	raw, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	out := map[string]string{}
	for key, item := range raw {
		out[key] = toString(item)
	}
	return out
}

func buildTags(tags map[string]string) []ec2types.Tag {
	out := make([]ec2types.Tag, 0, len(tags))
	for key, value := range tags {
		out = append(out, ec2types.Tag{Key: aws.String(key), Value: aws.String(value)})
	}
	return out
}
