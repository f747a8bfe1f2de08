package awsiam

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/iam"

	"awsinfra/internal/mcp"
)

func TestCreateRoleValidation(t *testing.T) {
	svc := &Service{
		iamClient: func(context.Context, string) (*iam.Client, string, error) {
			t.Fatal("client should not be invoked")
			return nil, "", nil
		},
	}
	_, err := svc.handleCreateRole(context.Background(), mcp.ToolRequest{Arguments: map[string]any{
		"role_name": "demo",
	}})
	if err == nil || !strings.Contains(err.Error(), "assume_role_policy is required") {
		t.Fatalf("expected trust policy error, got %v", err)
	}
}

func TestAttachRolePolicyRequiresConfirm(t *testing.T) {
	svc := &Service{
		iamClient: func(context.Context, string) (*iam.Client, string, error) {
			t.Fatal("client should not be invoked")
			return nil, "", nil
		},
	}
	_, err := svc.handleAttachRolePolicy(context.Background(), mcp.ToolRequest{Arguments: map[string]any{
		"role_name":  "demo",
		"policy_arn": "arn:aws:iam::aws:policy/ReadOnlyAccess",
	}})
	if err == nil || !strings.Contains(err.Error(), "confirmation required") {
		t.Fatalf("expected confirm error, got %v", err)
	}
}

func TestListRolesSuccess(t *testing.T) {
	responses := map[string]string{
		"ListRoles": `<ListRolesResponse xmlns="https://iam.amazonaws.com/doc/2010-05-08/">
  <ListRolesResult>
    <Roles>
      <member>
        <RoleName>demo</RoleName>
        <RoleId>AROAEXAMPLE</RoleId>
        <Arn>arn:aws:iam::123456789012:role/demo</Arn>
        <Path>/</Path>
        <CreateDate>2024-03-01T12:00:00Z</CreateDate>
      </member>
    </Roles>
    <IsTruncated>false</IsTruncated>
  </ListRolesResult>
</ListRolesResponse>`,
	}
	client := newIAMTestClient(t, responses)
	svc := &Service{
		iamClient: func(context.Context, string) (*iam.Client, string, error) {
			return client, "us-east-1", nil
		},
	}
	result, err := svc.handleListRoles(context.Background(), mcp.ToolRequest{Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("list roles: %v", err)
	}
	data := result.Data.(map[string]any)
	if data["count"] != 1 {
		t.Fatalf("expected count 1, got %v", data["count"])
	}
	roles := data["roles"].([]map[string]any)
	if roles[0]["role_name"] != "demo" {
		t.Fatalf("unexpected role: %v", roles[0])
	}
}

func TestGetRoleDecodesTrustPolicy(t *testing.T) {
	responses := map[string]string{
		"GetRole": `<GetRoleResponse xmlns="https://iam.amazonaws.com/doc/2010-05-08/">
  <GetRoleResult>
    <Role>
      <RoleName>demo</RoleName>
      <RoleId>AROAEXAMPLE</RoleId>
      <Arn>arn:aws:iam::123456789012:role/demo</Arn>
      <Path>/</Path>
      <AssumeRolePolicyDocument>%7B%22Version%22%3A%222012-10-17%22%7D</AssumeRolePolicyDocument>
    </Role>
  </GetRoleResult>
</GetRoleResponse>`,
	}
	client := newIAMTestClient(t, responses)
	svc := &Service{
		iamClient: func(context.Context, string) (*iam.Client, string, error) {
			return client, "us-east-1", nil
		},
	}
	result, err := svc.handleGetRole(context.Background(), mcp.ToolRequest{Arguments: map[string]any{"role_name": "demo"}})
	if err != nil {
		t.Fatalf("get role: %v", err)
	}
	data := result.Data.(map[string]any)
	role := data["role"].(map[string]any)
	policy, ok := role["assume_role_policy"].(map[string]any)
	if !ok {
		t.Fatalf("expected decoded policy, got %T", role["assume_role_policy"])
	}
	if policy["Version"] != "2012-10-17" {
		t.Fatalf("unexpected policy: %v", policy)
	}
}

func newIAMTestClient(t *testing.T, responses map[string]string) *iam.Client {
	t.Helper()
	transport := &queryRoundTripper{responses: responses}
	cfg := aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
		HTTPClient:  &http.Client{Transport: transport},
	}
	cfg.EndpointResolverWithOptions = aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{URL: "https://iam.test", SigningRegion: region, HostnameImmutable: true}, nil
		},
	)
	return iam.NewFromConfig(cfg)
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
