package awsec2

func schemaEC2ListInstances() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"region":       map[string]any{"type": "string"},
			"instance_ids": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"states":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"limit":        map[string]any{"type": "number"},
		},
	}
}

func schemaEC2GetInstance() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"instance_id": map[string]any{"type": "string"},
			"region":      map[string]any{"type": "string"},
		},
		"required": []string{"instance_id"},
	}
}

func schemaEC2LaunchInstance() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"image_id":           map[string]any{"type": "string"},
			"instance_type":      map[string]any{"type": "string"},
			"key_name":           map[string]any{"type": "string"},
			"min_count":          map[string]any{"type": "number"},
			"max_count":          map[string]any{"type": "number"},
			"subnet_id":          map[string]any{"type": "string"},
			"security_group_ids": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"user_data":          map[string]any{"type": "string"},
			"tags":               map[string]any{"type": "object"},
			"region":             map[string]any{"type": "string"},
		},
		"required": []string{"image_id", "instance_type"},
	}
}

func schemaEC2TerminateInstance() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"instance_ids": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"confirm":      map[string]any{"type": "boolean"},
			"region":       map[string]any{"type": "string"},
		},
		"required": []string{"instance_ids", "confirm"},
	}
}

func schemaEC2ListRegions() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"all_regions": map[string]any{"type": "boolean"},
			"region":      map[string]any{"type": "string"},
		},
	}
}

func schemaEC2ListAvailabilityZones() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{"region": map[string]any{"type": "string"}},
	}
}

func schemaEC2GetAccountAttributes() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{"region": map[string]any{"type": "string"}},
	}
}
