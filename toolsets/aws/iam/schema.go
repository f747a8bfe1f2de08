package awsiam

func schemaIAMListRoles() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path_prefix": map[string]any{"type": "string"},
			"limit":       map[string]any{"type": "number"},
			"region":      map[string]any{"type": "string"},
		},
	}
}

func schemaIAMGetRole() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"role_name": map[string]any{"type": "string"},
			"region":    map[string]any{"type": "string"},
		},
		"required": []string{"role_name"},
	}
}

func schemaIAMCreateRole() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"role_name":            map[string]any{"type": "string"},
			"assume_role_policy":   map[string]any{"type": []string{"object", "string"}},
			"description":          map[string]any{"type": "string"},
			"path":                 map[string]any{"type": "string"},
			"max_session_duration": map[string]any{"type": "number"},
			"tags":                 map[string]any{"type": "object"},
			"region":               map[string]any{"type": "string"},
		},
		"required": []string{"role_name", "assume_role_policy"},
	}
}

func schemaIAMAttachRolePolicy() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"role_name":  map[string]any{"type": "string"},
			"policy_arn": map[string]any{"type": "string"},
			"confirm":    map[string]any{"type": "boolean"},
			"region":     map[string]any{"type": "string"},
		},
		"required": []string{"role_name", "policy_arn", "confirm"},
	}
}
