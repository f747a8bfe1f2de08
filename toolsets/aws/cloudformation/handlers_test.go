package awscfn

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"

	"awsinfra/internal/mcp"
)

func TestGetStackValidation(t *testing.T) {
	svc := &Service{
		cfnClient: func(context.Context, string) (*cloudformation.Client, string, error) {
			t.Fatal("client should not be invoked")
			return nil, "", nil
		},
	}
	_, err := svc.handleGetStack(context.Background(), mcp.ToolRequest{Arguments: map[string]any{}})
	if err == nil || !strings.Contains(err.Error(), "stack_name is required") {
		t.Fatalf("expected stack_name error, got %v", err)
	}
}

func TestListStacksSuccess(t *testing.T) {
	responses := map[string]string{
		"ListStacks": `<ListStacksResponse xmlns="http://cloudformation.amazonaws.com/doc/2010-05-15/">
  <ListStacksResult>
    <StackSummaries>
      <member>
        <StackName>network</StackName>
        <StackId>arn:aws:cloudformation:us-east-1:123456789012:stack/network/abc</StackId>
        <StackStatus>CREATE_COMPLETE</StackStatus>
        <CreationTime>2024-03-01T12:00:00Z</CreationTime>
      </member>
    </StackSummaries>
  </ListStacksResult>
</ListStacksResponse>`,
	}
	client := newCFNTestClient(t, responses)
	svc := &Service{
		cfnClient: func(context.Context, string) (*cloudformation.Client, string, error) {
			return client, "us-east-1", nil
		},
	}
	result, err := svc.handleListStacks(context.Background(), mcp.ToolRequest{Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("list stacks: %v", err)
	}
	data := result.Data.(map[string]any)
	if data["count"] != 1 {
		t.Fatalf("expected count 1, got %v", data["count"])
	}
	stacks := data["stacks"].([]map[string]any)
	if stacks[0]["stack_name"] != "network" || stacks[0]["stack_status"] != "CREATE_COMPLETE" {
		t.Fatalf("unexpected stack: %v", stacks[0])
	}
}

func TestGetStackSuccess(t *testing.T) {
	responses := map[string]string{
		"DescribeStacks": `<DescribeStacksResponse xmlns="http://cloudformation.amazonaws.com/doc/2010-05-15/">
  <DescribeStacksResult>
    <Stacks>
      <member>
        <StackName>network</StackName>
        <StackId>arn:aws:cloudformation:us-east-1:123456789012:stack/network/abc</StackId>
        <StackStatus>CREATE_COMPLETE</StackStatus>
        <Parameters>
          <member>
            <ParameterKey>VpcCidr</ParameterKey>
            <ParameterValue>10.0.0.0/16</ParameterValue>
          </member>
        </Parameters>
        <Outputs>
          <member>
            <OutputKey>VpcId</OutputKey>
            <OutputValue>vpc-1</OutputValue>
          </member>
        </Outputs>
      </member>
    </Stacks>
  </DescribeStacksResult>
</DescribeStacksResponse>`,
	}
	client := newCFNTestClient(t, responses)
	svc := &Service{
		cfnClient: func(context.Context, string) (*cloudformation.Client, string, error) {
			return client, "us-east-1", nil
		},
	}
	result, err := svc.handleGetStack(context.Background(), mcp.ToolRequest{Arguments: map[string]any{"stack_name": "network"}})
	if err != nil {
		t.Fatalf("get stack: %v", err)
	}
	data := result.Data.(map[string]any)
	stack := data["stack"].(map[string]any)
	outputs := stack["outputs"].([]map[string]any)
	if outputs[0]["key"] != "VpcId" || outputs[0]["value"] != "vpc-1" {
		t.Fatalf("unexpected outputs: %v", outputs)
	}
}

func newCFNTestClient(t *testing.T, responses map[string]string) *cloudformation.Client {
	t.Helper()
	transport := &queryRoundTripper{responses: responses}
	cfg := aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
		HTTPClient:  &http.Client{Transport: transport},
	}
	cfg.EndpointResolverWithOptions = aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{URL: "https://cloudformation.test", SigningRegion: region, HostnameImmutable: true}, nil
		},
	)
	return cloudformation.NewFromConfig(cfg)
}

type queryRoundTripper struct {
	responses map[string]string
}

func (rt *queryRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
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
