package sdk

import (
	"errors"
	"strings"
	"testing"
)

func TestSafetyConstants(t *testing.T) {
	if SafetyReadOnly != "read_only" || SafetyDestructive != "destructive" {
		t.Fatalf("unexpected safety values: %s %s", SafetyReadOnly, SafetyDestructive)
	}
}

func TestEnvelopeHelpers(t *testing.T) {
	success := SuccessCount(map[string]any{"items": []any{}}, 0)
	if success["success"] != true || success["count"] != 0 {
		t.Fatalf("unexpected success envelope: %v", success)
	}
	failure := FailureEnvelope(errors.New("boom"))
	if failure["error"] != true {
		t.Fatalf("unexpected failure envelope: %v", failure)
	}
}

func TestNewClients(t *testing.T) {
	if NewClients("") == nil {
		t.Fatal("expected client cache")
	}
}

func TestRegisterToolsetValidation(t *testing.T) {
	if err := RegisterToolset("", nil); err == nil {
		t.Fatal("expected error for empty registration")
	}
}

func TestRenderJSON(t *testing.T) {
	out, err := Render(Success(map[string]any{"region": "us-east-1"}), "json")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "us-east-1") {
		t.Fatalf("unexpected output: %s", out)
	}
}
