package awss3

func schemaS3CreateBucket() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"bucket_name": map[string]any{"type": "string"},
			"versioning":  map[string]any{"type": "boolean"},
			"region":      map[string]any{"type": "string"},
		},
		"required": []string{"bucket_name"},
	}
}

func schemaS3ListBuckets() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{"region": map[string]any{"type": "string"}},
	}
}

func schemaS3DeleteBucket() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"bucket_name": map[string]any{"type": "string"},
			"force":       map[string]any{"type": "boolean"},
			"confirm":     map[string]any{"type": "boolean"},
			"region":      map[string]any{"type": "string"},
		},
		"required": []string{"bucket_name", "confirm"},
	}
}
