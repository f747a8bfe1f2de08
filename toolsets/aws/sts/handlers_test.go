package awssts

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"awsinfra/internal/mcp"
	"awsinfra/internal/redact"
)

func TestGetCallerIdentitySuccess(t *testing.T) {
	responses := map[string]string{
		"GetCallerIdentity": `<GetCallerIdentityResponse xmlns="https://sts.amazonaws.com/doc/2011-06-15/">
  <GetCallerIdentityResult>
    <Arn>arn:aws:sts::123456789012:assumed-role/deployment-automation-role/build-session</Arn>
    <Account>123456789012</Account>
    <UserId>AIDACKCEVSQ6C2EXAMPLE:build-session</UserId>
  </GetCallerIdentityResult>
</GetCallerIdentityResponse>`,
	}
	client := newSTSTestClient(t, responses)
	svc := &Service{
		ctx: mcp.ToolsetContext{Redactor: redact.New()},
		stsClient: func(context.Context, string) (*sts.Client, string, error) {
			return client, "us-east-1", nil
		},
	}
	result, err := svc.handleGetCallerIdentity(context.Background(), mcp.ToolRequest{Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("get caller identity: %v", err)
	}
	data, ok := result.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected map data, got %T", result.Data)
	}
	if data["success"] != true {
		t.Fatalf("expected success envelope, got %v", data)
	}
	if data["account"] != "123456789012" {
		t.Fatalf("unexpected account: %v", data["account"])
	}
	if data["user_id"] != "AIDACKCEVSQ6C2EXAMPLE:build-session" {
		t.Fatalf("user id should pass through redaction verbatim, got %v", data["user_id"])
	}
	if data["arn"] != "arn:aws:sts::123456789012:assumed-role/deployment-automation-role/build-session" {
		t.Fatalf("arn should pass through redaction verbatim, got %v", data["arn"])
	}
	if result.Metadata.Region != "us-east-1" {
		t.Fatalf("unexpected metadata region: %q", result.Metadata.Region)
	}
}

func TestGetCallerIdentityClientError(t *testing.T) {
	wantErr := errors.New("no credentials")
	svc := &Service{
		ctx: mcp.ToolsetContext{Redactor: redact.New()},
		stsClient: func(context.Context, string) (*sts.Client, string, error) {
			return nil, "", wantErr
		},
	}
	_, err := svc.handleGetCallerIdentity(context.Background(), mcp.ToolRequest{Arguments: map[string]any{}})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected client error, got %v", err)
	}
}

func newSTSTestClient(t *testing.T, responses map[string]string) *sts.Client {
	t.Helper()
	transport := &stsQueryRoundTripper{responses: responses}
	cfg := aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
		HTTPClient:  &http.Client{Transport: transport},
	}
	cfg.EndpointResolverWithOptions = aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{URL: "https://sts.test", SigningRegion: region, HostnameImmutable: true}, nil
		},
	)
	return sts.NewFromConfig(cfg)
}

type stsQueryRoundTripper struct {
	responses map[string]string
}

func (rt *stsQueryRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	body, _ := io.ReadAll(req.Body)
	_ = req.Body.Close()
	values, _ := url.ParseQuery(string(body))
	action := values.Get("Action")
	if action == "" {
		action = req.URL.Query().Get("Action")
	}
	resp, ok := rt.responses[action]
	if !ok {
		return &http.Response{
			StatusCode: http.StatusBadRequest,
			Body:       io.NopCloser(strings.NewReader("unknown action")),
			Header:     http.Header{},
		}, nil
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(resp)),
		Header:     http.Header{"Content-Type": []string{"text/xml"}},
	}, nil
}
