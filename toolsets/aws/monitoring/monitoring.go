// Package awsmonitoring implements CloudWatch alarm and metric tools
// plus auto scaling group and load balancer inventory.
package awsmonitoring

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	asgtypes "github.com/aws/aws-sdk-go-v2/service/autoscaling/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"

	"awsinfra/internal/mcp"
)

type Service struct {
	ctx       mcp.ToolsetContext
	cwClient  func(context.Context, string) (*cloudwatch.Client, string, error)
	asgClient func(context.Context, string) (*autoscaling.Client, string, error)
	elbClient func(context.Context, string) (*elasticloadbalancingv2.Client, string, error)
	toolsetID string
}

func ToolSpecs(
	ctx mcp.ToolsetContext,
	toolsetID string,
	cwClient func(context.Context, string) (*cloudwatch.Client, string, error),
	asgClient func(context.Context, string) (*autoscaling.Client, string, error),
	elbClient func(context.Context, string) (*elasticloadbalancingv2.Client, string, error),
) []mcp.ToolSpec {
	svc := &Service{ctx: ctx, cwClient: cwClient, asgClient: asgClient, elbClient: elbClient, toolsetID: toolsetID}
	return []mcp.ToolSpec{
		{
			Name:        "aws.monitoring.list_alarms",
			Description: "List CloudWatch alarms (optional name and state filters).",
			ToolsetID:   toolsetID,
			InputSchema: schemaMonitoringListAlarms(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListAlarms,
		},
		{
			Name:        "aws.monitoring.list_metrics",
			Description: "List CloudWatch metrics (optional namespace and name filters).",
			ToolsetID:   toolsetID,
			InputSchema: schemaMonitoringListMetrics(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListMetrics,
		},
		{
			Name:        "aws.monitoring.list_auto_scaling_groups",
			Description: "List auto scaling groups (optional name filter).",
			ToolsetID:   toolsetID,
			InputSchema: schemaMonitoringListASGs(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListASGs,
		},
		{
			Name:        "aws.monitoring.list_load_balancers",
			Description: "List application and network load balancers.",
			ToolsetID:   toolsetID,
			InputSchema: schemaMonitoringListLoadBalancers(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListLoadBalancers,
		},
	}
}

func (s *Service) handleListAlarms(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	names := toStringSlice(req.Arguments["alarm_names"])
	state := toString(req.Arguments["state_value"])
	limit := toInt(req.Arguments["limit"], 100)
	client, usedRegion, err := s.cwClient(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	input := &cloudwatch.DescribeAlarmsInput{}
	if len(names) > 0 {
		input.AlarmNames = names
	}
	if state != "" {
		input.StateValue = cwtypes.StateValue(state)
	}
	var alarms []map[string]any
	for {
		out, err := client.DescribeAlarms(ctx, input)
		if err != nil {
			return mcp.ToolResult{}, err
		}
		for _, alarm := range out.MetricAlarms {
			alarms = append(alarms, summarizeAlarm(alarm))
			if limit > 0 && len(alarms) >= limit {
				break
			}
		}
		if limit > 0 && len(alarms) >= limit {
			break
		}
		if aws.ToString(out.NextToken) == "" {
			break
		}
		input.NextToken = out.NextToken
	}
	data := mcp.SuccessCount(map[string]any{
		"region": usedRegion,
		"alarms": alarms,
	}, len(alarms))
	return mcp.ToolResult{Data: data, Metadata: mcp.ToolMetadata{Region: usedRegion}}, nil
}

func (s *Service) handleListMetrics(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	namespace := toString(req.Arguments["namespace"])
	metricName := toString(req.Arguments["metric_name"])
	limit := toInt(req.Arguments["limit"], 500)
	client, usedRegion, err := s.cwClient(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	input := &cloudwatch.ListMetricsInput{}
	if namespace != "" {
		input.Namespace = aws.String(namespace)
	}
	if metricName != "" {
		input.MetricName = aws.String(metricName)
	}
	var metrics []map[string]any
	for {
		out, err := client.ListMetrics(ctx, input)
		if err != nil {
			return mcp.ToolResult{}, err
		}
		for _, metric := range out.Metrics {
			metrics = append(metrics, summarizeMetric(metric))
			if limit > 0 && len(metrics) >= limit {
				break
			}
		}
		if limit > 0 && len(metrics) >= limit {
			break
		}
		if aws.ToString(out.NextToken) == "" {
			break
		}
		input.NextToken = out.NextToken
	}
	data := mcp.SuccessCount(map[string]any{
		"region":  usedRegion,
		"metrics": metrics,
	}, len(metrics))
	return mcp.ToolResult{Data: data, Metadata: mcp.ToolMetadata{Region: usedRegion}}, nil
}

func (s *Service) handleListASGs(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	names := toStringSlice(req.Arguments["auto_scaling_group_names"])
	client, usedRegion, err := s.asgClient(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	input := &autoscaling.DescribeAutoScalingGroupsInput{}
	if len(names) > 0 {
		input.AutoScalingGroupNames = names
	}
	var groups []map[string]any
	for {
		out, err := client.DescribeAutoScalingGroups(ctx, input)
		if err != nil {
			return mcp.ToolResult{}, err
		}
		for _, group := range out.AutoScalingGroups {
			groups = append(groups, summarizeASG(group))
		}
		if aws.ToString(out.NextToken) == "" {
			break
		}
		input.NextToken = out.NextToken
	}
	data := mcp.SuccessCount(map[string]any{
		"region":              usedRegion,
		"auto_scaling_groups": groups,
	}, len(groups))
	return mcp.ToolResult{Data: data, Metadata: mcp.ToolMetadata{Region: usedRegion}}, nil
}

func (s *Service) handleListLoadBalancers(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	names := toStringSlice(req.Arguments["names"])
	client, usedRegion, err := s.elbClient(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	input := &elasticloadbalancingv2.DescribeLoadBalancersInput{}
	if len(names) > 0 {
		input.Names = names
	}
	var balancers []map[string]any
	for {
		out, err := client.DescribeLoadBalancers(ctx, input)
		if err != nil {
			return mcp.ToolResult{}, err
		}
		for _, lb := range out.LoadBalancers {
			balancers = append(balancers, summarizeLoadBalancer(lb))
		}
		if aws.ToString(out.NextMarker) == "" {
			break
		}
		input.Marker = out.NextMarker
	}
	data := mcp.SuccessCount(map[string]any{
		"region":         usedRegion,
		"load_balancers": balancers,
	}, len(balancers))
	return mcp.ToolResult{Data: data, Metadata: mcp.ToolMetadata{Region: usedRegion}}, nil
}

func summarizeAlarm(alarm cwtypes.MetricAlarm) map[string]any {
	return map[string]any{
		"alarm_name":   aws.ToString(alarm.AlarmName),
		"state_value":  string(alarm.StateValue),
		"state_reason": aws.ToString(alarm.StateReason),
		"metric_name":  aws.ToString(alarm.MetricName),
		"namespace":    aws.ToString(alarm.Namespace),
		"threshold":    aws.ToFloat64(alarm.Threshold),
	}
}

func summarizeMetric(metric cwtypes.Metric) map[string]any {
	dimensions := make([]map[string]any, 0, len(metric.Dimensions))
	for _, dimension := range metric.Dimensions {
		dimensions = append(dimensions, map[string]any{
			"name":  aws.ToString(dimension.Name),
			"value": aws.ToString(dimension.Value),
		})
	}
	return map[string]any{
		"namespace":   aws.ToString(metric.Namespace),
		"metric_name": aws.ToString(metric.MetricName),
		"dimensions":  dimensions,
	}
}

func summarizeASG(group asgtypes.AutoScalingGroup) map[string]any {
	return map[string]any{
		"auto_scaling_group_name": aws.ToString(group.AutoScalingGroupName),
		"min_size":                aws.ToInt32(group.MinSize),
		"max_size":                aws.ToInt32(group.MaxSize),
		"desired_capacity":        aws.ToInt32(group.DesiredCapacity),
		"instance_count":          len(group.Instances),
		"availability_zones":      group.AvailabilityZones,
	}
}

func summarizeLoadBalancer(lb elbtypes.LoadBalancer) map[string]any {
	return map[string]any{
		"load_balancer_name": aws.ToString(lb.LoadBalancerName),
		"load_balancer_arn":  aws.ToString(lb.LoadBalancerArn),
		"dns_name":           aws.ToString(lb.DNSName),
		"type":               string(lb.Type),
		"scheme":             string(lb.Scheme),
		"state":              loadBalancerState(lb.State),
		"vpc_id":             aws.ToString(lb.VpcId),
	}
}

func loadBalancerState(state *elbtypes.LoadBalancerState) string {
	if state == nil {
		return ""
	}
	return string(state.Code)
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
