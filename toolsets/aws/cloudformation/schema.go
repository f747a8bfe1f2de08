package awscfn

func schemaCFNListStacks() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status_filter": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"region":        map[string]any{"type": "string"},
		},
	}
}

func schemaCFNGetStack() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"stack_name": map[string]any{"type": "string"},
			"region":     map[string]any{"type": "string"},
		},
		"required": []string{"stack_name"},
	}
}
