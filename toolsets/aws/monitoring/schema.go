package awsmonitoring

func schemaMonitoringListAlarms() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"alarm_names": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"state_value": map[string]any{"type": "string", "enum": []string{"OK", "ALARM", "INSUFFICIENT_DATA"}},
			"limit":       map[string]any{"type": "number"},
			"region":      map[string]any{"type": "string"},
		},
	}
}

func schemaMonitoringListMetrics() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"namespace":   map[string]any{"type": "string"},
			"metric_name": map[string]any{"type": "string"},
			"limit":       map[string]any{"type": "number"},
			"region":      map[string]any{"type": "string"},
		},
	}
}

func schemaMonitoringListASGs() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"auto_scaling_group_names": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"region":                   map[string]any{"type": "string"},
		},
	}
}

func schemaMonitoringListLoadBalancers() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"names":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"region": map[string]any{"type": "string"},
		},
	}
}
