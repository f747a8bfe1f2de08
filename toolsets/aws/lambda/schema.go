package awslambda

func schemaLambdaCreateFunction() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"function_name": map[string]any{"type": "string"},
			"runtime":       map[string]any{"type": "string"},
			"role":          map[string]any{"type": "string"},
			"handler":       map[string]any{"type": "string"},
			"zip_file":      map[string]any{"type": "string"},
			"s3_bucket":     map[string]any{"type": "string"},
			"s3_key":        map[string]any{"type": "string"},
			"timeout":       map[string]any{"type": "number"},
			"memory_size":   map[string]any{"type": "number"},
			"region":        map[string]any{"type": "string"},
		},
		"required": []string{"function_name", "runtime", "role", "handler"},
	}
}

func schemaLambdaListFunctions() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"limit":  map[string]any{"type": "number"},
			"region": map[string]any{"type": "string"},
		},
	}
}

func schemaLambdaInvokeFunction() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"function_name":   map[string]any{"type": "string"},
			"payload":         map[string]any{"type": "object"},
			"invocation_type": map[string]any{"type": "string", "enum": []string{"RequestResponse", "Event", "DryRun"}},
			"region":          map[string]any{"type": "string"},
		},
		"required": []string{"function_name"},
	}
}

func schemaLambdaDeleteFunction() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"function_name": map[string]any{"type": "string"},
			"confirm":       map[string]any{"type": "boolean"},
			"region":        map[string]any{"type": "string"},
		},
		"required": []string{"function_name", "confirm"},
	}
}
