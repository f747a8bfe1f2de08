package awsrds

func schemaRDSCreateDBInstance() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"db_instance_identifier": map[string]any{"type": "string"},
			"db_instance_class":      map[string]any{"type": "string"},
			"engine":                 map[string]any{"type": "string"},
			"allocated_storage":      map[string]any{"type": "number"},
			"master_username":        map[string]any{"type": "string"},
			"master_user_password":   map[string]any{"type": "string"},
			"vpc_security_group_ids": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"region":                 map[string]any{"type": "string"},
		},
		"required": []string{"db_instance_identifier", "db_instance_class", "engine"},
	}
}

func schemaRDSListDBInstances() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"db_instance_identifier": map[string]any{"type": "string"},
			"region":                 map[string]any{"type": "string"},
		},
	}
}

func schemaRDSDeleteDBInstance() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"db_instance_identifier":    map[string]any{"type": "string"},
			"skip_final_snapshot":       map[string]any{"type": "boolean"},
			"final_snapshot_identifier": map[string]any{"type": "string"},
			"confirm":                   map[string]any{"type": "boolean"},
			"region":                    map[string]any{"type": "string"},
		},
		"required": []string{"db_instance_identifier", "confirm"},
	}
}
