package aws

import (
	"context"
	"sync"
	"testing"
)

func staticEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_DEFAULT_REGION", "")
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_DEFAULT_PROFILE", "")
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
}

func TestClientsSequentialIdentity(t *testing.T) {
	staticEnv(t)
	clients := NewClients("")
	first, region, err := clients.EC2(context.Background(), "us-west-2")
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	if region != "us-west-2" {
		t.Fatalf("expected us-west-2, got %q", region)
	}
	second, _, err := clients.EC2(context.Background(), "us-west-2")
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical handle for repeated key")
	}
}

func TestClientsDistinctKeys(t *testing.T) {
	staticEnv(t)
	clients := NewClients("")
	west, _, err := clients.EC2(context.Background(), "us-west-2")
	if err != nil {
		t.Fatalf("west: %v", err)
	}
	east, _, err := clients.EC2(context.Background(), "us-east-1")
	if err != nil {
		t.Fatalf("east: %v", err)
	}
	if west == east {
		t.Fatalf("expected distinct handles for distinct regions")
	}
	ec2Client, _, err := clients.EC2(context.Background(), "us-west-2")
	if err != nil {
		t.Fatalf("ec2: %v", err)
	}
	if ec2Client != west {
		t.Fatalf("expected cached handle")
	}
	if _, _, err := clients.RDS(context.Background(), "us-west-2"); err != nil {
		t.Fatalf("rds: %v", err)
	}
	if len(clients.entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(clients.entries))
	}
}

func TestClientsEnvAndExplicitShareKey(t *testing.T) {
	staticEnv(t)
	t.Setenv("AWS_REGION", "eu-west-1")
	clients := NewClients("")
	fromEnv, _, err := clients.STS(context.Background(), "")
	if err != nil {
		t.Fatalf("env get: %v", err)
	}
	explicit, _, err := clients.STS(context.Background(), "eu-west-1")
	if err != nil {
		t.Fatalf("explicit get: %v", err)
	}
	if fromEnv != explicit {
		t.Fatalf("expected one entry for env and explicit region")
	}
}

func TestClientsConcurrentSameKey(t *testing.T) {
	staticEnv(t)
	clients := NewClients("")
	const workers = 16
	handles := make([]any, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			client, _, err := clients.Lambda(context.Background(), "us-west-2")
			if err != nil {
				t.Errorf("get: %v", err)
				return
			}
			handles[slot] = client
		}(i)
	}
	wg.Wait()
	if len(clients.entries) != 1 {
		t.Fatalf("expected exactly one entry, got %d", len(clients.entries))
	}
	final, _, err := clients.Lambda(context.Background(), "us-west-2")
	if err != nil {
		t.Fatalf("final get: %v", err)
	}
	for i, handle := range handles {
		if handle != final {
			t.Fatalf("worker %d observed a non-surviving handle", i)
		}
	}
}

func TestRequestRegion(t *testing.T) {
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_DEFAULT_REGION", "")
	if key := requestRegion(""); key != "default" {
		t.Fatalf("expected default key, got %q", key)
	}
	if key := requestRegion(" us-east-2 "); key != "us-east-2" {
		t.Fatalf("expected trimmed region key, got %q", key)
	}
}
