package awssts

func schemaSTSGetCallerIdentity() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{"region": map[string]any{"type": "string"}},
	}
}
