// Package awsec2 implements instance lifecycle and account discovery
// tools backed by the EC2 API.
package awsec2

import (
	"context"
	"encoding/base64"
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
			Name:        "aws.ec2.list_instances",
			Description: "List EC2 instances (optional instance id and state filters).",
			ToolsetID:   toolsetID,
			InputSchema: schemaEC2ListInstances(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListInstances,
		},
		{
			Name:        "aws.ec2.get_instance",
			Description: "Get one EC2 instance by id.",
			ToolsetID:   toolsetID,
			InputSchema: schemaEC2GetInstance(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleGetInstance,
		},
		{
			Name:        "aws.ec2.launch_instance",
			Description: "Launch EC2 instances from an AMI.",
			ToolsetID:   toolsetID,
			InputSchema: schemaEC2LaunchInstance(),
			Safety:      mcp.SafetyWrite,
			Handler:     svc.handleLaunchInstance,
		},
		{
			Name:        "aws.ec2.terminate_instance",
			Description: "Terminate EC2 instances by id (confirm required).",
			ToolsetID:   toolsetID,
			InputSchema: schemaEC2TerminateInstance(),
			Safety:      mcp.SafetyDestructive,
			Handler:     svc.handleTerminateInstance,
		},
		{
			Name:        "aws.ec2.list_regions",
			Description: "List AWS regions visible to the account.",
			ToolsetID:   toolsetID,
			InputSchema: schemaEC2ListRegions(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListRegions,
		},
		{
			Name:        "aws.ec2.list_availability_zones",
			Description: "List availability zones in a region.",
			ToolsetID:   toolsetID,
			InputSchema: schemaEC2ListAvailabilityZones(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListAvailabilityZones,
		},
		{
			Name:        "aws.ec2.get_account_attributes",
			Description: "Get EC2 account attributes (limits, supported platforms).",
			ToolsetID:   toolsetID,
			InputSchema: schemaEC2GetAccountAttributes(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleGetAccountAttributes,
		},
	}
}

func (s *Service) handleListInstances(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	instanceIDs := toStringSlice(req.Arguments["instance_ids"])
	states := toStringSlice(req.Arguments["states"])
	limit := toInt(req.Arguments["limit"], 100)
	client, usedRegion, err := s.ec2Client(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	input := &ec2.DescribeInstancesInput{}
	if len(instanceIDs) > 0 {
		input.InstanceIds = instanceIDs
	}
	if len(states) > 0 {
		input.Filters = append(input.Filters, ec2types.Filter{
			Name:   aws.String("instance-state-name"),
			Values: states,
		})
	}
	var instances []map[string]any
	for {
		out, err := client.DescribeInstances(ctx, input)
		if err != nil {
			return mcp.ToolResult{}, err
		}
		for _, reservation := range out.Reservations {
			for _, inst := range reservation.Instances {
				instances = append(instances, summarizeInstance(inst))
				if limit > 0 && len(instances) >= limit {
					break
				}
			}
			if limit > 0 && len(instances) >= limit {
				break
			}
		}
		if limit > 0 && len(instances) >= limit {
			break
		}
		if aws.ToString(out.NextToken) == "" {
			break
		}
		input.NextToken = out.NextToken
	}
	data := mcp.SuccessCount(map[string]any{
		"region":    usedRegion,
		"instances": instances,
	}, len(instances))
	return mcp.ToolResult{Data: data, Metadata: mcp.ToolMetadata{Region: usedRegion}}, nil
}

func (s *Service) handleGetInstance(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	instanceID := toString(req.Arguments["instance_id"])
	if instanceID == "" {
		return mcp.ToolResult{}, errors.New("instance_id is required")
	}
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.ec2Client(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	out, err := client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{InstanceIds: []string{instanceID}})
	if err != nil {
		return mcp.ToolResult{}, err
	}
	for _, reservation := range out.Reservations {
		for _, inst := range reservation.Instances {
			if aws.ToString(inst.InstanceId) == instanceID {
				data := mcp.Success(map[string]any{
					"region":   usedRegion,
					"instance": summarizeInstance(inst),
				})
				return mcp.ToolResult{
					Data: data,
					Metadata: mcp.ToolMetadata{
						Region:    usedRegion,
						Resources: []string{fmt.Sprintf("ec2/instance/%s", instanceID)},
					},
				}, nil
			}
		}
	}
	return mcp.ToolResult{}, fmt.Errorf("instance %s not found", instanceID)
}

func (s *Service) handleLaunchInstance(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	imageID := toString(req.Arguments["image_id"])
	if imageID == "" {
		return mcp.ToolResult{}, errors.New("image_id is required")
	}
	instanceType := toString(req.Arguments["instance_type"])
	if instanceType == "" {
		return mcp.ToolResult{}, errors.New("instance_type is required")
	}
	region := toString(req.Arguments["region"])
	minCount := toInt(req.Arguments["min_count"], 1)
	maxCount := toInt(req.Arguments["max_count"], minCount)
	client, usedRegion, err := s.ec2Client(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	input := &ec2.RunInstancesInput{
		ImageId:      aws.String(imageID),
		InstanceType: ec2types.InstanceType(instanceType),
		MinCount:     aws.Int32(int32(minCount)),
		MaxCount:     aws.Int32(int32(maxCount)),
	}
	if keyName := toString(req.Arguments["key_name"]); keyName != "" {
		input.KeyName = aws.String(keyName)
	}
	if subnetID := toString(req.Arguments["subnet_id"]); subnetID != "" {
		input.SubnetId = aws.String(subnetID)
	}
	if groups := toStringSlice(req.Arguments["security_group_ids"]); len(groups) > 0 {
		input.SecurityGroupIds = groups
	}
	if userData := toString(req.Arguments["user_data"]); userData != "" {
		// RunInstances expects the user data base64-encoded.
		input.UserData = aws.String(base64.StdEncoding.EncodeToString([]byte(userData)))
	}
	if tags := toStringMap(req.Arguments["tags"]); len(tags) > 0 {
		input.TagSpecifications = []ec2types.TagSpecification{{
			ResourceType: ec2types.ResourceTypeInstance,
			Tags:         buildTags(tags),
		}}
	}
	out, err := client.RunInstances(ctx, input)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	launched := make([]map[string]any, 0, len(out.Instances))
	resources := make([]string, 0, len(out.Instances))
	for _, inst := range out.Instances {
		launched = append(launched, summarizeInstance(inst))
		resources = append(resources, fmt.Sprintf("ec2/instance/%s", aws.ToString(inst.InstanceId)))
	}
	data := mcp.SuccessCount(map[string]any{
		"region":    usedRegion,
		"instances": launched,
	}, len(launched))
	return mcp.ToolResult{
		Data:     data,
		Metadata: mcp.ToolMetadata{Region: usedRegion, Resources: resources},
	}, nil
}

func (s *Service) handleTerminateInstance(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	if err := requireConfirm(req.Arguments); err != nil {
		return mcp.ToolResult{}, err
	}
	instanceIDs := toStringSlice(req.Arguments["instance_ids"])
	if len(instanceIDs) == 0 {
		return mcp.ToolResult{}, errors.New("instance_ids is required")
	}
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.ec2Client(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	out, err := client.TerminateInstances(ctx, &ec2.TerminateInstancesInput{InstanceIds: instanceIDs})
	if err != nil {
		return mcp.ToolResult{}, err
	}
	transitions := make([]map[string]any, 0, len(out.TerminatingInstances))
	resources := make([]string, 0, len(out.TerminatingInstances))
	for _, change := range out.TerminatingInstances {
		transitions = append(transitions, map[string]any{
			"instance_id":    aws.ToString(change.InstanceId),
			"previous_state": stateName(change.PreviousState),
			"current_state":  stateName(change.CurrentState),
		})
		resources = append(resources, fmt.Sprintf("ec2/instance/%s", aws.ToString(change.InstanceId)))
	}
	data := mcp.SuccessCount(map[string]any{
		"region":                usedRegion,
		"terminating_instances": transitions,
	}, len(transitions))
	return mcp.ToolResult{
		Data:     data,
		Metadata: mcp.ToolMetadata{Region: usedRegion, Resources: resources},
	}, nil
}

func (s *Service) handleListRegions(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	allRegions := toBool(req.Arguments["all_regions"])
	client, usedRegion, err := s.ec2Client(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	input := &ec2.DescribeRegionsInput{}
	if allRegions {
		input.AllRegions = aws.Bool(true)
	}
	out, err := client.DescribeRegions(ctx, input)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	regions := make([]map[string]any, 0, len(out.Regions))
	for _, item := range out.Regions {
		regions = append(regions, map[string]any{
			"region_name":   aws.ToString(item.RegionName),
			"endpoint":      aws.ToString(item.Endpoint),
			"opt_in_status": aws.ToString(item.OptInStatus),
		})
	}
	data := mcp.SuccessCount(map[string]any{
		"region":  usedRegion,
		"regions": regions,
	}, len(regions))
	return mcp.ToolResult{Data: data, Metadata: mcp.ToolMetadata{Region: usedRegion}}, nil
}

func (s *Service) handleListAvailabilityZones(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.ec2Client(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	out, err := client.DescribeAvailabilityZones(ctx, &ec2.DescribeAvailabilityZonesInput{})
	if err != nil {
		return mcp.ToolResult{}, err
	}
	zones := make([]map[string]any, 0, len(out.AvailabilityZones))
	for _, zone := range out.AvailabilityZones {
		zones = append(zones, map[string]any{
			"zone_name":   aws.ToString(zone.ZoneName),
			"zone_id":     aws.ToString(zone.ZoneId),
			"state":       string(zone.State),
			"region_name": aws.ToString(zone.RegionName),
		})
	}
	data := mcp.SuccessCount(map[string]any{
		"region":             usedRegion,
		"availability_zones": zones,
	}, len(zones))
	return mcp.ToolResult{Data: data, Metadata: mcp.ToolMetadata{Region: usedRegion}}, nil
}

func (s *Service) handleGetAccountAttributes(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.ec2Client(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	out, err := client.DescribeAccountAttributes(ctx, &ec2.DescribeAccountAttributesInput{})
	if err != nil {
		return mcp.ToolResult{}, err
	}
	attributes := map[string]any{}
	for _, attr := range out.AccountAttributes {
		values := make([]string, 0, len(attr.AttributeValues))
		for _, value := range attr.AttributeValues {
			values = append(values, aws.ToString(value.AttributeValue))
		}
		attributes[aws.ToString(attr.AttributeName)] = values
	}
	data := mcp.Success(map[string]any{
		"region":     usedRegion,
		"attributes": attributes,
	})
	return mcp.ToolResult{Data: data, Metadata: mcp.ToolMetadata{Region: usedRegion}}, nil
}

func summarizeInstance(inst ec2types.Instance) map[string]any {
	summary := map[string]any{
		"instance_id":   aws.ToString(inst.InstanceId),
		"instance_type": string(inst.InstanceType),
		"state":         stateName(inst.State),
		"image_id":      aws.ToString(inst.ImageId),
		"private_ip":    aws.ToString(inst.PrivateIpAddress),
		"public_ip":     aws.ToString(inst.PublicIpAddress),
		"subnet_id":     aws.ToString(inst.SubnetId),
		"vpc_id":        aws.ToString(inst.VpcId),
		"tags":          tagMap(inst.Tags),
	}
	if inst.Placement != nil {
		summary["availability_zone"] = aws.ToString(inst.Placement.AvailabilityZone)
	}
	if inst.LaunchTime != nil {
		summary["launch_time"] = inst.LaunchTime.UTC().Format("2006-01-02T15:04:05Z")
	}
	return summary
}

func stateName(state *ec2types.InstanceState) string {
	if state == nil {
		return ""
	}
	return string(state.Name)
}

func tagMap(tags []ec2types.Tag) map[string]string {
	out := map[string]string{}
	for _, tag := range tags {
		out[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
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

func toBool(value any) bool {
	b, ok := value.(bool)
	return ok && b
}

func requireConfirm(args map[string]any) error {
	if val, ok := args["confirm"].(bool); ok && val {
		return nil
	}
	return errors.New("confirmation required: set confirm=true to proceed")
}
