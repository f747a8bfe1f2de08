// Package awscfn implements CloudFormation stack inspection tools.
package awscfn

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cfntypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"

	"awsinfra/internal/mcp"
)

type Service struct {
	ctx       mcp.ToolsetContext
	cfnClient func(context.Context, string) (*cloudformation.Client, string, error)
	toolsetID string
}

func ToolSpecs(ctx mcp.ToolsetContext, toolsetID string, cfnClient func(context.Context, string) (*cloudformation.Client, string, error)) []mcp.ToolSpec {
	svc := &Service{ctx: ctx, cfnClient: cfnClient, toolsetID: toolsetID}
	return []mcp.ToolSpec{
		{
			Name:        "aws.cloudformation.list_stacks",
			Description: "List CloudFormation stacks (optional status filter).",
			ToolsetID:   toolsetID,
			InputSchema: schemaCFNListStacks(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListStacks,
		},
		{
			Name:        "aws.cloudformation.get_stack",
			Description: "Get one CloudFormation stack with parameters and outputs.",
			ToolsetID:   toolsetID,
			InputSchema: schemaCFNGetStack(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleGetStack,
		},
	}
}

func (s *Service) handleListStacks(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	statuses := toStringSlice(req.Arguments["status_filter"])
	client, usedRegion, err := s.cfnClient(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	input := &cloudformation.ListStacksInput{}
	for _, status := range statuses {
		input.StackStatusFilter = append(input.StackStatusFilter, cfntypes.StackStatus(status))
	}
	var stacks []map[string]any
	for {
		out, err := client.ListStacks(ctx, input)
		if err != nil {
			return mcp.ToolResult{}, err
		}
		for _, summary := range out.StackSummaries {
			entry := map[string]any{
				"stack_name":   aws.ToString(summary.StackName),
				"stack_id":     aws.ToString(summary.StackId),
				"stack_status": string(summary.StackStatus),
			}
			if summary.CreationTime != nil {
				entry["creation_time"] = summary.CreationTime.UTC().Format("2006-01-02T15:04:05Z")
			}
			stacks = append(stacks, entry)
		}
		if aws.ToString(out.NextToken) == "" {
			break
		}
		input.NextToken = out.NextToken
	}
	data := mcp.SuccessCount(map[string]any{
		"region": usedRegion,
		"stacks": stacks,
	}, len(stacks))
	return mcp.ToolResult{Data: data, Metadata: mcp.ToolMetadata{Region: usedRegion}}, nil
}

func (s *Service) handleGetStack(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	name := toString(req.Arguments["stack_name"])
	if name == "" {
		return mcp.ToolResult{}, errors.New("stack_name is required")
	}
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.cfnClient(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	out, err := client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{StackName: aws.String(name)})
	if err != nil {
		return mcp.ToolResult{}, err
	}
	if len(out.Stacks) == 0 {
		return mcp.ToolResult{}, fmt.Errorf("stack %s not found", name)
	}
	stack := out.Stacks[0]
	summary := map[string]any{
		"stack_name":   aws.ToString(stack.StackName),
		"stack_id":     aws.ToString(stack.StackId),
		"stack_status": string(stack.StackStatus),
		"description":  aws.ToString(stack.Description),
	}
	if stack.CreationTime != nil {
		summary["creation_time"] = stack.CreationTime.UTC().Format("2006-01-02T15:04:05Z")
	}
	parameters := make([]map[string]any, 0, len(stack.Parameters))
	for _, parameter := range stack.Parameters {
		parameters = append(parameters, map[string]any{
			"key":   aws.ToString(parameter.ParameterKey),
			"value": aws.ToString(parameter.ParameterValue),
		})
	}
	summary["parameters"] = parameters
	outputs := make([]map[string]any, 0, len(stack.Outputs))
	for _, output := range stack.Outputs {
		outputs = append(outputs, map[string]any{
			"key":         aws.ToString(output.OutputKey),
			"value":       aws.ToString(output.OutputValue),
			"description": aws.ToString(output.Description),
		})
	}
	summary["outputs"] = outputs
	data := mcp.Success(map[string]any{
		"region": usedRegion,
		"stack":  summary,
	})
	return mcp.ToolResult{
		Data: data,
		Metadata: mcp.ToolMetadata{
			Region:    usedRegion,
			Resources: []string{fmt.Sprintf("cloudformation/stack/%s", name)},
		},
	}, nil
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
