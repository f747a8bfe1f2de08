package mcp

// Success wraps a tool payload in the uniform success envelope.
// Payload field names are per-tool; only the success flag and the
// optional count are shared.
func Success(payload map[string]any) map[string]any {
	out := map[string]any{"success": true}
	for key, value := range payload {
		out[key] = value
	}
	return out
}

// SuccessCount additionally reports how many items the payload holds.
func SuccessCount(payload map[string]any, count int) map[string]any {
	out := Success(payload)
	out["count"] = count
	return out
}
