package awsroute53

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/route53"

	"awsinfra/internal/mcp"
)

func TestListHostedZonesSuccess(t *testing.T) {
	responses := map[string]string{
		"GET /2013-04-01/hostedzone": `<?xml version="1.0" encoding="UTF-8"?>
<ListHostedZonesResponse xmlns="https://route53.amazonaws.com/doc/2013-04-01/">
  <HostedZones>
    <HostedZone>
      <Id>/hostedzone/Z1EXAMPLE</Id>
      <Name>example.com.</Name>
      <Config>
        <Comment>primary zone</Comment>
        <PrivateZone>false</PrivateZone>
      </Config>
      <ResourceRecordSetCount>12</ResourceRecordSetCount>
    </HostedZone>
  </HostedZones>
  <IsTruncated>false</IsTruncated>
  <MaxItems>100</MaxItems>
</ListHostedZonesResponse>`,
	}
	client := newRoute53TestClient(t, responses)
	svc := &Service{
		r53Client: func(context.Context, string) (*route53.Client, string, error) {
			return client, "us-east-1", nil
		},
	}
	result, err := svc.handleListHostedZones(context.Background(), mcp.ToolRequest{Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("list hosted zones: %v", err)
	}
	data := result.Data.(map[string]any)
	if data["count"] != 1 {
		t.Fatalf("expected count 1, got %v", data["count"])
	}
	zones := data["hosted_zones"].([]map[string]any)
	if zones[0]["zone_id"] != "Z1EXAMPLE" {
		t.Fatalf("expected stripped zone id, got %v", zones[0]["zone_id"])
	}
	if zones[0]["record_count"] != int64(12) {
		t.Fatalf("unexpected record count: %v", zones[0]["record_count"])
	}
}

func newRoute53TestClient(t *testing.T, responses map[string]string) *route53.Client {
	t.Helper()
	transport := &restRoundTripper{responses: responses}
	cfg := aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
		HTTPClient:  &http.Client{Transport: transport},
	}
	cfg.EndpointResolverWithOptions = aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{URL: "https://route53.test", SigningRegion: region, HostnameImmutable: true}, nil
		},
	)
	return route53.NewFromConfig(cfg)
}

type restRoundTripper struct {
	responses map[string]string
}

func (rt *restRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		_, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
	}
	key := req.Method + " " + strings.TrimSuffix(req.URL.Path, "/")
	resp, ok := rt.responses[key]
	if !ok {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader("")),
			Header:     http.Header{},
		}, nil
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(resp)),
		Header:     http.Header{"Content-Type": []string{"application/xml"}},
	}, nil
}
