// Package awsiam implements IAM role inspection and management tools.
// IAM is a global service; the region argument only picks the endpoint
// partition.
package awsiam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"

	"awsinfra/internal/mcp"
)

type Service struct {
	ctx       mcp.ToolsetContext
	iamClient func(context.Context, string) (*iam.Client, string, error)
	toolsetID string
}

func ToolSpecs(ctx mcp.ToolsetContext, toolsetID string, iamClient func(context.Context, string) (*iam.Client, string, error)) []mcp.ToolSpec {
	svc := &Service{ctx: ctx, iamClient: iamClient, toolsetID: toolsetID}
	return []mcp.ToolSpec{
		{
			Name:        "aws.iam.list_roles",
			Description: "List IAM roles (optional path prefix filter).",
			ToolsetID:   toolsetID,
			InputSchema: schemaIAMListRoles(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListRoles,
		},
		{
			Name:        "aws.iam.get_role",
			Description: "Get one IAM role by name.",
			ToolsetID:   toolsetID,
			InputSchema: schemaIAMGetRole(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleGetRole,
		},
		{
			Name:        "aws.iam.create_role",
			Description: "Create an IAM role with a trust policy.",
			ToolsetID:   toolsetID,
			InputSchema: schemaIAMCreateRole(),
			Safety:      mcp.SafetyWrite,
			Handler:     svc.handleCreateRole,
		},
		{
			Name:        "aws.iam.attach_role_policy",
			Description: "Attach a managed policy to an IAM role (confirm required).",
			ToolsetID:   toolsetID,
			InputSchema: schemaIAMAttachRolePolicy(),
			Safety:      mcp.SafetyRiskyWrite,
			Handler:     svc.handleAttachRolePolicy,
		},
	}
}

func (s *Service) handleListRoles(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	pathPrefix := toString(req.Arguments["path_prefix"])
	limit := toInt(req.Arguments["limit"], 100)
	client, usedRegion, err := s.iamClient(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	input := &iam.ListRolesInput{}
	if pathPrefix != "" {
		input.PathPrefix = aws.String(pathPrefix)
	}
	var roles []map[string]any
	for {
		out, err := client.ListRoles(ctx, input)
		if err != nil {
			return mcp.ToolResult{}, err
		}
		for _, role := range out.Roles {
			roles = append(roles, summarizeRole(role))
			if limit > 0 && len(roles) >= limit {
				break
			}
		}
		if limit > 0 && len(roles) >= limit {
			break
		}
		if !out.IsTruncated {
			break
		}
		input.Marker = out.Marker
	}
	data := mcp.SuccessCount(map[string]any{
		"region": usedRegion,
		"roles":  roles,
	}, len(roles))
	return mcp.ToolResult{Data: data, Metadata: mcp.ToolMetadata{Region: usedRegion}}, nil
}

func (s *Service) handleGetRole(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	name := toString(req.Arguments["role_name"])
	if name == "" {
		return mcp.ToolResult{}, errors.New("role_name is required")
	}
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.iamClient(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	out, err := client.GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(name)})
	if err != nil {
		return mcp.ToolResult{}, err
	}
	var summary map[string]any
	if out.Role != nil {
		summary = summarizeRole(*out.Role)
		if doc := decodePolicyDocument(aws.ToString(out.Role.AssumeRolePolicyDocument)); doc != nil {
			summary["assume_role_policy"] = doc
		}
	}
	data := mcp.Success(map[string]any{
		"region": usedRegion,
		"role":   summary,
	})
	return mcp.ToolResult{
		Data: data,
		Metadata: mcp.ToolMetadata{
			Region:    usedRegion,
			Resources: []string{fmt.Sprintf("iam/role/%s", name)},
		},
	}, nil
}

func (s *Service) handleCreateRole(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	name := toString(req.Arguments["role_name"])
	if name == "" {
		return mcp.ToolResult{}, errors.New("role_name is required")
	}
	trustPolicy, err := encodeTrustPolicy(req.Arguments["assume_role_policy"])
	if err != nil {
		return mcp.ToolResult{}, err
	}
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.iamClient(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	input := &iam.CreateRoleInput{
		RoleName:                 aws.String(name),
		AssumeRolePolicyDocument: aws.String(trustPolicy),
	}
	if description := toString(req.Arguments["description"]); description != "" {
		input.Description = aws.String(description)
	}
	if path := toString(req.Arguments["path"]); path != "" {
		input.Path = aws.String(path)
	}
	if maxSession := toInt(req.Arguments["max_session_duration"], 0); maxSession > 0 {
		input.MaxSessionDuration = aws.Int32(int32(maxSession))
	}
	if tags := toStringMap(req.Arguments["tags"]); len(tags) > 0 {
		input.Tags = buildTags(tags)
	}
	out, err := client.CreateRole(ctx, input)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	var summary map[string]any
	if out.Role != nil {
		summary = summarizeRole(*out.Role)
	}
	data := mcp.Success(map[string]any{
		"region": usedRegion,
		"role":   summary,
	})
	return mcp.ToolResult{
		Data: data,
		Metadata: mcp.ToolMetadata{
			Region:    usedRegion,
			Resources: []string{fmt.Sprintf("iam/role/%s", name)},
		},
	}, nil
}

func (s *Service) handleAttachRolePolicy(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	if err := requireConfirm(req.Arguments); err != nil {
		return mcp.ToolResult{}, err
	}
	name := toString(req.Arguments["role_name"])
	if name == "" {
		return mcp.ToolResult{}, errors.New("role_name is required")
	}
	policyArn := toString(req.Arguments["policy_arn"])
	if policyArn == "" {
		return mcp.ToolResult{}, errors.New("policy_arn is required")
	}
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.iamClient(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	if _, err := client.AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
		RoleName:  aws.String(name),
		PolicyArn: aws.String(policyArn),
	}); err != nil {
		return mcp.ToolResult{}, err
	}
	data := mcp.Success(map[string]any{
		"region":     usedRegion,
		"role_name":  name,
		"policy_arn": policyArn,
		"attached":   true,
	})
	return mcp.ToolResult{
		Data: data,
		Metadata: mcp.ToolMetadata{
			Region:    usedRegion,
			Resources: []string{fmt.Sprintf("iam/role/%s", name)},
		},
	}, nil
}

func summarizeRole(role iamtypes.Role) map[string]any {
	summary := map[string]any{
		"role_name": aws.ToString(role.RoleName),
		"role_id":   aws.ToString(role.RoleId),
		"arn":       aws.ToString(role.Arn),
		"path":      aws.ToString(role.Path),
	}
	if role.Description != nil {
		summary["description"] = aws.ToString(role.Description)
	}
	if role.CreateDate != nil {
		summary["create_date"] = role.CreateDate.UTC().Format("2006-01-02T15:04:05Z")
	}
	return summary
}

// IAM returns the trust policy URL-encoded inside the XML response.
func decodePolicyDocument(encoded string) any {
	if encoded == "" {
		return nil
	}
	unescaped, err := url.QueryUnescape(encoded)
	if err != nil {
		return encoded
	}
	var doc any
	if err := json.Unmarshal([]byte(unescaped), &doc); err != nil {
		return unescaped
	}
	return doc
}

func encodeTrustPolicy(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", errors.New("assume_role_policy is required")
	case string:
		if v == "" {
			return "", errors.New("assume_role_policy is required")
		}
		return v, nil
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("invalid assume_role_policy: %w", err)
		}
		return string(encoded), nil
	}
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

func buildTags(tags map[string]string) []iamtypes.Tag {
	out := make([]iamtypes.Tag, 0, len(tags))
	for key, value := range tags {
		out = append(out, iamtypes.Tag{Key: aws.String(key), Value: aws.String(value)})
	}
	return out
}

func requireConfirm(args map[string]any) error {
	if val, ok := args["confirm"].(bool); ok && val {
		return nil
	}
	return errors.New("confirmation required: set confirm=true to proceed")
}
