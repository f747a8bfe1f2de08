package awss3

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"awsinfra/internal/mcp"
)

func TestCreateBucketValidation(t *testing.T) {
	svc := &Service{
		s3Client: func(context.Context, string) (*s3.Client, string, error) {
			t.Fatal("client should not be invoked")
			return nil, "", nil
		},
	}
	_, err := svc.handleCreateBucket(context.Background(), mcp.ToolRequest{Arguments: map[string]any{}})
	if err == nil || !strings.Contains(err.Error(), "bucket_name is required") {
		t.Fatalf("expected bucket_name error, got %v", err)
	}
}

func TestDeleteBucketRequiresConfirm(t *testing.T) {
	svc := &Service{
		s3Client: func(context.Context, string) (*s3.Client, string, error) {
			t.Fatal("client should not be invoked")
			return nil, "", nil
		},
	}
	_, err := svc.handleDeleteBucket(context.Background(), mcp.ToolRequest{Arguments: map[string]any{
		"bucket_name": "demo",
	}})
	if err == nil || !strings.Contains(err.Error(), "confirmation required") {
		t.Fatalf("expected confirm error, got %v", err)
	}
}

func TestListBucketsSuccess(t *testing.T) {
	responses := map[string]stubResponse{
		"GET /": {status: http.StatusOK, body: `<?xml version="1.0" encoding="UTF-8"?>
<ListAllMyBucketsResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Owner><ID>owner</ID></Owner>
  <Buckets>
    <Bucket>
      <Name>demo-bucket</Name>
      <CreationDate>2024-03-01T12:00:00.000Z</CreationDate>
    </Bucket>
  </Buckets>
</ListAllMyBucketsResult>`},
	}
	client := newS3TestClient(t, responses)
	svc := &Service{
		s3Client: func(context.Context, string) (*s3.Client, string, error) {
			return client, "us-east-1", nil
		},
	}
	result, err := svc.handleListBuckets(context.Background(), mcp.ToolRequest{Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("list buckets: %v", err)
	}
	data := result.Data.(map[string]any)
	if data["count"] != 1 {
		t.Fatalf("expected count 1, got %v", data["count"])
	}
	buckets := data["buckets"].([]map[string]any)
	if buckets[0]["name"] != "demo-bucket" {
		t.Fatalf("unexpected bucket: %v", buckets[0])
	}
}

func TestCreateBucketWithVersioning(t *testing.T) {
	responses := map[string]stubResponse{
		"PUT /demo-bucket": {status: http.StatusOK},
	}
	client := newS3TestClient(t, responses)
	svc := &Service{
		s3Client: func(context.Context, string) (*s3.Client, string, error) {
			return client, "us-east-1", nil
		},
	}
	result, err := svc.handleCreateBucket(context.Background(), mcp.ToolRequest{Arguments: map[string]any{
		"bucket_name": "demo-bucket",
		"versioning":  true,
	}})
	if err != nil {
		t.Fatalf("create bucket: %v", err)
	}
	data := result.Data.(map[string]any)
	if data["success"] != true || data["versioning"] != true {
		t.Fatalf("unexpected envelope: %v", data)
	}
}

func TestDeleteBucketSuccess(t *testing.T) {
	responses := map[string]stubResponse{
		"DELETE /demo-bucket": {status: http.StatusNoContent},
	}
	client := newS3TestClient(t, responses)
	svc := &Service{
		s3Client: func(context.Context, string) (*s3.Client, string, error) {
			return client, "us-east-1", nil
		},
	}
	result, err := svc.handleDeleteBucket(context.Background(), mcp.ToolRequest{Arguments: map[string]any{
		"bucket_name": "demo-bucket",
		"confirm":     true,
	}})
	if err != nil {
		t.Fatalf("delete bucket: %v", err)
	}
	data := result.Data.(map[string]any)
	if data["success"] != true || data["deleted_objects"] != 0 {
		t.Fatalf("unexpected envelope: %v", data)
	}
}

type stubResponse struct {
	status int
	body   string
}

func newS3TestClient(t *testing.T, responses map[string]stubResponse) *s3.Client {
	t.Helper()
	transport := &restRoundTripper{responses: responses}
	cfg := aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
		HTTPClient:  &http.Client{Transport: transport},
	}
	cfg.EndpointResolverWithOptions = aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{URL: "https://s3.test", SigningRegion: region, HostnameImmutable: true}, nil
		},
	)
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
}

type restRoundTripper struct {
	responses map[string]stubResponse
}

func (rt *restRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		_, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
	}
	key := req.Method + " " + req.URL.Path
	resp, ok := rt.responses[key]
	if !ok {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader("")),
			Header:     http.Header{},
		}, nil
	}
	return &http.Response{
		StatusCode: resp.status,
		Body:       io.NopCloser(strings.NewReader(resp.body)),
		Header:     http.Header{"Content-Type": []string{"application/xml"}},
	}, nil
}
