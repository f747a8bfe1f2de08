// Package awsrds implements RDS database instance tools.
package awsrds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"

	"awsinfra/internal/mcp"
)

type Service struct {
	ctx       mcp.ToolsetContext
	rdsClient func(context.Context, string) (*rds.Client, string, error)
	toolsetID string
}

func ToolSpecs(ctx mcp.ToolsetContext, toolsetID string, rdsClient func(context.Context, string) (*rds.Client, string, error)) []mcp.ToolSpec {
	svc := &Service{ctx: ctx, rdsClient: rdsClient, toolsetID: toolsetID}
	return []mcp.ToolSpec{
		{
			Name:        "aws.rds.create_db_instance",
			Description: "Create an RDS database instance.",
			ToolsetID:   toolsetID,
			InputSchema: schemaRDSCreateDBInstance(),
			Safety:      mcp.SafetyWrite,
			Handler:     svc.handleCreateDBInstance,
		},
		{
			Name:        "aws.rds.list_db_instances",
			Description: "List RDS database instances (optional identifier filter).",
			ToolsetID:   toolsetID,
			InputSchema: schemaRDSListDBInstances(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListDBInstances,
		},
		{
			Name:        "aws.rds.delete_db_instance",
			Description: "Delete an RDS database instance (confirm required).",
			ToolsetID:   toolsetID,
			InputSchema: schemaRDSDeleteDBInstance(),
			Safety:      mcp.SafetyDestructive,
			Handler:     svc.handleDeleteDBInstance,
		},
	}
}

func (s *Service) handleCreateDBInstance(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	identifier := toString(req.Arguments["db_instance_identifier"])
	if identifier == "" {
		return mcp.ToolResult{}, errors.New("db_instance_identifier is required")
	}
	class := toString(req.Arguments["db_instance_class"])
	if class == "" {
		return mcp.ToolResult{}, errors.New("db_instance_class is required")
	}
	engine := toString(req.Arguments["engine"])
	if engine == "" {
		return mcp.ToolResult{}, errors.New("engine is required")
	}
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.rdsClient(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	input := &rds.CreateDBInstanceInput{
		DBInstanceIdentifier: aws.String(identifier),
		DBInstanceClass:      aws.String(class),
		Engine:               aws.String(engine),
		AllocatedStorage:     aws.Int32(int32(toInt(req.Arguments["allocated_storage"], 20))),
	}
	if username := toString(req.Arguments["master_username"]); username != "" {
		input.MasterUsername = aws.String(username)
	}
	if password := toString(req.Arguments["master_user_password"]); password != "" {
		input.MasterUserPassword = aws.String(password)
	}
	if groups := toStringSlice(req.Arguments["vpc_security_group_ids"]); len(groups) > 0 {
		input.VpcSecurityGroupIds = groups
	}
	out, err := client.CreateDBInstance(ctx, input)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	var summary map[string]any
	if out.DBInstance != nil {
		summary = summarizeDBInstance(*out.DBInstance)
	}
	data := mcp.Success(map[string]any{
		"region":      usedRegion,
		"db_instance": summary,
	})
	return mcp.ToolResult{
		Data: data,
		Metadata: mcp.ToolMetadata{
			Region:    usedRegion,
			Resources: []string{fmt.Sprintf("rds/db-instance/%s", identifier)},
		},
	}, nil
}

func (s *Service) handleListDBInstances(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	identifier := toString(req.Arguments["db_instance_identifier"])
	client, usedRegion, err := s.rdsClient(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	input := &rds.DescribeDBInstancesInput{}
	if identifier != "" {
		input.DBInstanceIdentifier = aws.String(identifier)
	}
	var instances []map[string]any
	for {
		out, err := client.DescribeDBInstances(ctx, input)
		if err != nil {
			return mcp.ToolResult{}, err
		}
		for _, instance := range out.DBInstances {
			instances = append(instances, summarizeDBInstance(instance))
		}
		if aws.ToString(out.Marker) == "" {
			break
		}
		input.Marker = out.Marker
	}
	data := mcp.SuccessCount(map[string]any{
		"region":       usedRegion,
		"db_instances": instances,
	}, len(instances))
	return mcp.ToolResult{Data: data, Metadata: mcp.ToolMetadata{Region: usedRegion}}, nil
}

func (s *Service) handleDeleteDBInstance(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	if err := requireConfirm(req.Arguments); err != nil {
		return mcp.ToolResult{}, err
	}
	identifier := toString(req.Arguments["db_instance_identifier"])
	if identifier == "" {
		return mcp.ToolResult{}, errors.New("db_instance_identifier is required")
	}
	skipSnapshot := true
	if val, ok := req.Arguments["skip_final_snapshot"].(bool); ok {
		skipSnapshot = val
	}
	snapshotID := toString(req.Arguments["final_snapshot_identifier"])
	if !skipSnapshot && snapshotID == "" {
		return mcp.ToolResult{}, errors.New("final_snapshot_identifier is required when skip_final_snapshot is false")
	}
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.rdsClient(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	input := &rds.DeleteDBInstanceInput{
		DBInstanceIdentifier: aws.String(identifier),
		SkipFinalSnapshot:    aws.Bool(skipSnapshot),
	}
	if !skipSnapshot {
		input.FinalDBSnapshotIdentifier = aws.String(snapshotID)
	}
	out, err := client.DeleteDBInstance(ctx, input)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	status := ""
	if out.DBInstance != nil {
		status = aws.ToString(out.DBInstance.DBInstanceStatus)
	}
	data := mcp.Success(map[string]any{
		"region":                 usedRegion,
		"db_instance_identifier": identifier,
		"status":                 status,
	})
	return mcp.ToolResult{
		Data: data,
		Metadata: mcp.ToolMetadata{
			Region:    usedRegion,
			Resources: []string{fmt.Sprintf("rds/db-instance/%s", identifier)},
		},
	}, nil
}

func summarizeDBInstance(instance rdstypes.DBInstance) map[string]any {
	summary := map[string]any{
		"db_instance_identifier": aws.ToString(instance.DBInstanceIdentifier),
		"db_instance_class":      aws.ToString(instance.DBInstanceClass),
		"engine":                 aws.ToString(instance.Engine),
		"engine_version":         aws.ToString(instance.EngineVersion),
		"status":                 aws.ToString(instance.DBInstanceStatus),
		"allocated_storage":      aws.ToInt32(instance.AllocatedStorage),
		"multi_az":               aws.ToBool(instance.MultiAZ),
		"availability_zone":      aws.ToString(instance.AvailabilityZone),
	}
	if instance.Endpoint != nil {
		summary["endpoint"] = map[string]any{
			"address": aws.ToString(instance.Endpoint.Address),
			"port":    aws.ToInt32(instance.Endpoint.Port),
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

func requireConfirm(args map[string]any) error {
	if val, ok := args["confirm"].(bool); ok && val {
		return nil
	}
	return errors.New("confirmation required: set confirm=true to proceed")
}
