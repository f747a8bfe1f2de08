package awssts

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"awsinfra/internal/mcp"
)

type Service struct {
	ctx       mcp.ToolsetContext
	stsClient func(context.Context, string) (*sts.Client, string, error)
	toolsetID string
}

func ToolSpecs(ctx mcp.ToolsetContext, toolsetID string, stsClient func(context.Context, string) (*sts.Client, string, error)) []mcp.ToolSpec {
	svc := &Service{ctx: ctx, stsClient: stsClient, toolsetID: toolsetID}
	return []mcp.ToolSpec{
		{
			Name:        "aws.sts.get_caller_identity",
			Description: "Get the AWS account id, ARN, and user id of the active credentials.",
			ToolsetID:   toolsetID,
			InputSchema: schemaSTSGetCallerIdentity(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleGetCallerIdentity,
		},
	}
}

func (s *Service) handleGetCallerIdentity(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.stsClient(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	out, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return mcp.ToolResult{}, err
	}
	data := mcp.Success(map[string]any{
		"region":  usedRegion,
		"account": aws.ToString(out.Account),
		"arn":     aws.ToString(out.Arn),
		"user_id": aws.ToString(out.UserId),
	})
	return mcp.ToolResult{
		Data: s.ctx.Redactor.RedactValue(data),
		Metadata: mcp.ToolMetadata{
			Region:    usedRegion,
			Resources: []string{fmt.Sprintf("sts/account/%s", aws.ToString(out.Account))},
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
