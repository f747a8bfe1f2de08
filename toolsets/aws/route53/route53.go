// Package awsroute53 implements Route 53 hosted zone tools.
package awsroute53

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	r53types "github.com/aws/aws-sdk-go-v2/service/route53/types"

	"awsinfra/internal/mcp"
)

type Service struct {
	ctx       mcp.ToolsetContext
	r53Client func(context.Context, string) (*route53.Client, string, error)
	toolsetID string
}

func ToolSpecs(ctx mcp.ToolsetContext, toolsetID string, r53Client func(context.Context, string) (*route53.Client, string, error)) []mcp.ToolSpec {
	svc := &Service{ctx: ctx, r53Client: r53Client, toolsetID: toolsetID}
	return []mcp.ToolSpec{
		{
			Name:        "aws.route53.list_hosted_zones",
			Description: "List Route 53 hosted zones.",
			ToolsetID:   toolsetID,
			InputSchema: schemaRoute53ListHostedZones(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListHostedZones,
		},
	}
}

func (s *Service) handleListHostedZones(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	limit := toInt(req.Arguments["limit"], 100)
	client, usedRegion, err := s.r53Client(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	input := &route53.ListHostedZonesInput{}
	var zones []map[string]any
	for {
		out, err := client.ListHostedZones(ctx, input)
		if err != nil {
			return mcp.ToolResult{}, err
		}
		for _, zone := range out.HostedZones {
			zones = append(zones, summarizeHostedZone(zone))
			if limit > 0 && len(zones) >= limit {
				break
			}
		}
		if limit > 0 && len(zones) >= limit {
			break
		}
		if !out.IsTruncated {
			break
		}
		input.Marker = out.NextMarker
	}
	data := mcp.SuccessCount(map[string]any{
		"region":       usedRegion,
		"hosted_zones": zones,
	}, len(zones))
	return mcp.ToolResult{Data: data, Metadata: mcp.ToolMetadata{Region: usedRegion}}, nil
}

func summarizeHostedZone(zone r53types.HostedZone) map[string]any {
	summary := map[string]any{
		// The API reports ids as /hostedzone/Z123; strip the prefix.
		"zone_id":      strings.TrimPrefix(aws.ToString(zone.Id), "/hostedzone/"),
		"name":         aws.ToString(zone.Name),
		"record_count": aws.ToInt64(zone.ResourceRecordSetCount),
	}
	if zone.Config != nil {
		summary["private_zone"] = zone.Config.PrivateZone
		if zone.Config.Comment != nil {
			summary["comment"] = aws.ToString(zone.Config.Comment)
		}
	}
	return summary
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
