// Package awslambda implements Lambda function lifecycle and
// invocation tools.
package awslambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"

	"awsinfra/internal/mcp"
)

type Service struct {
	ctx          mcp.ToolsetContext
	lambdaClient func(context.Context, string) (*lambda.Client, string, error)
	toolsetID    string
}

func ToolSpecs(ctx mcp.ToolsetContext, toolsetID string, lambdaClient func(context.Context, string) (*lambda.Client, string, error)) []mcp.ToolSpec {
	svc := &Service{ctx: ctx, lambdaClient: lambdaClient, toolsetID: toolsetID}
	return []mcp.ToolSpec{
		{
			Name:        "aws.lambda.create_function",
			Description: "Create a Lambda function from a zip payload or S3 object.",
			ToolsetID:   toolsetID,
			InputSchema: schemaLambdaCreateFunction(),
			Safety:      mcp.SafetyWrite,
			Handler:     svc.handleCreateFunction,
		},
		{
			Name:        "aws.lambda.list_functions",
			Description: "List Lambda functions.",
			ToolsetID:   toolsetID,
			InputSchema: schemaLambdaListFunctions(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListFunctions,
		},
		{
			Name:        "aws.lambda.invoke_function",
			Description: "Invoke a Lambda function and return its response payload.",
			ToolsetID:   toolsetID,
			InputSchema: schemaLambdaInvokeFunction(),
			Safety:      mcp.SafetyWrite,
			Handler:     svc.handleInvokeFunction,
		},
		{
			Name:        "aws.lambda.delete_function",
			Description: "Delete a Lambda function (confirm required).",
			ToolsetID:   toolsetID,
			InputSchema: schemaLambdaDeleteFunction(),
			Safety:      mcp.SafetyDestructive,
			Handler:     svc.handleDeleteFunction,
		},
	}
}

func (s *Service) handleCreateFunction(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	name := toString(req.Arguments["function_name"])
	if name == "" {
		return mcp.ToolResult{}, errors.New("function_name is required")
	}
	runtime := toString(req.Arguments["runtime"])
	if runtime == "" {
		return mcp.ToolResult{}, errors.New("runtime is required")
	}
	role := toString(req.Arguments["role"])
	if role == "" {
		return mcp.ToolResult{}, errors.New("role is required")
	}
	handler := toString(req.Arguments["handler"])
	if handler == "" {
		return mcp.ToolResult{}, errors.New("handler is required")
	}
	code, err := buildFunctionCode(req.Arguments)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.lambdaClient(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	input := &lambda.CreateFunctionInput{
		FunctionName: aws.String(name),
		Runtime:      lambdatypes.Runtime(runtime),
		Role:         aws.String(role),
		Handler:      aws.String(handler),
		Code:         code,
	}
	if timeout := toInt(req.Arguments["timeout"], 0); timeout > 0 {
		input.Timeout = aws.Int32(int32(timeout))
	}
	if memory := toInt(req.Arguments["memory_size"], 0); memory > 0 {
		input.MemorySize = aws.Int32(int32(memory))
	}
	out, err := client.CreateFunction(ctx, input)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	data := mcp.Success(map[string]any{
		"region": usedRegion,
		"function": map[string]any{
			"function_name": aws.ToString(out.FunctionName),
			"function_arn":  aws.ToString(out.FunctionArn),
			"runtime":       string(out.Runtime),
			"handler":       aws.ToString(out.Handler),
			"state":         string(out.State),
		},
	})
	return mcp.ToolResult{
		Data: data,
		Metadata: mcp.ToolMetadata{
			Region:    usedRegion,
			Resources: []string{fmt.Sprintf("lambda/function/%s", name)},
		},
	}, nil
}

func (s *Service) handleListFunctions(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	limit := toInt(req.Arguments["limit"], 0)
	client, usedRegion, err := s.lambdaClient(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	input := &lambda.ListFunctionsInput{}
	var functions []map[string]any
	for {
		out, err := client.ListFunctions(ctx, input)
		if err != nil {
			return mcp.ToolResult{}, err
		}
		for _, fn := range out.Functions {
			functions = append(functions, summarizeFunction(fn))
			if limit > 0 && len(functions) >= limit {
				break
			}
		}
		if limit > 0 && len(functions) >= limit {
			break
		}
		if aws.ToString(out.NextMarker) == "" {
			break
		}
		input.Marker = out.NextMarker
	}
	data := mcp.SuccessCount(map[string]any{
		"region":    usedRegion,
		"functions": functions,
	}, len(functions))
	return mcp.ToolResult{Data: data, Metadata: mcp.ToolMetadata{Region: usedRegion}}, nil
}

func (s *Service) handleInvokeFunction(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	name := toString(req.Arguments["function_name"])
	if name == "" {
		return mcp.ToolResult{}, errors.New("function_name is required")
	}
	invocationType := toString(req.Arguments["invocation_type"])
	if invocationType == "" {
		invocationType = "RequestResponse"
	}
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.lambdaClient(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	input := &lambda.InvokeInput{
		FunctionName:   aws.String(name),
		InvocationType: lambdatypes.InvocationType(invocationType),
	}
	if payload, ok := req.Arguments["payload"]; ok && payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return mcp.ToolResult{}, fmt.Errorf("invalid payload: %w", err)
		}
		input.Payload = encoded
	}
	out, err := client.Invoke(ctx, input)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	result := map[string]any{
		"region":        usedRegion,
		"function_name": name,
		"status_code":   int(out.StatusCode),
	}
	if fnErr := aws.ToString(out.FunctionError); fnErr != "" {
		result["function_error"] = fnErr
	}
	if len(out.Payload) > 0 {
		var decoded any
		if err := json.Unmarshal(out.Payload, &decoded); err == nil {
			result["payload"] = decoded
		} else {
			result["payload"] = string(out.Payload)
		}
	}
	data := mcp.Success(result)
	return mcp.ToolResult{
		Data: data,
		Metadata: mcp.ToolMetadata{
			Region:    usedRegion,
			Resources: []string{fmt.Sprintf("lambda/function/%s", name)},
		},
	}, nil
}

func (s *Service) handleDeleteFunction(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	if err := requireConfirm(req.Arguments); err != nil {
		return mcp.ToolResult{}, err
	}
	name := toString(req.Arguments["function_name"])
	if name == "" {
		return mcp.ToolResult{}, errors.New("function_name is required")
	}
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.lambdaClient(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	if _, err := client.DeleteFunction(ctx, &lambda.DeleteFunctionInput{FunctionName: aws.String(name)}); err != nil {
		return mcp.ToolResult{}, err
	}
	data := mcp.Success(map[string]any{
		"region":        usedRegion,
		"function_name": name,
		"deleted":       true,
	})
	return mcp.ToolResult{
		Data: data,
		Metadata: mcp.ToolMetadata{
			Region:    usedRegion,
			Resources: []string{fmt.Sprintf("lambda/function/%s", name)},
		},
	}, nil
}

func buildFunctionCode(args map[string]any) (*lambdatypes.FunctionCode, error) {
	if zip := toString(args["zip_file"]); zip != "" {
		decoded, err := base64.StdEncoding.DecodeString(zip)
		if err != nil {
			return nil, fmt.Errorf("zip_file must be base64 encoded: %w", err)
		}
		return &lambdatypes.FunctionCode{ZipFile: decoded}, nil
	}
	bucket := toString(args["s3_bucket"])
	key := toString(args["s3_key"])
	if bucket != "" && key != "" {
		return &lambdatypes.FunctionCode{
			S3Bucket: aws.String(bucket),
			S3Key:    aws.String(key),
		}, nil
	}
	return nil, errors.New("either zip_file or s3_bucket and s3_key are required")
}

func summarizeFunction(fn lambdatypes.FunctionConfiguration) map[string]any {
	return map[string]any{
		"function_name": aws.ToString(fn.FunctionName),
		"function_arn":  aws.ToString(fn.FunctionArn),
		"runtime":       string(fn.Runtime),
		"handler":       aws.ToString(fn.Handler),
		"memory_size":   aws.ToInt32(fn.MemorySize),
		"timeout":       aws.ToInt32(fn.Timeout),
		"last_modified": aws.ToString(fn.LastModified),
	}
}

func toString(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func toInt(value any, fallback int) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if parsed, err := v.Int64(); err == nil {
			return int(parsed)
		}
	}
	return fallback
}

func requireConfirm(args map[string]any) error {
	if val, ok := args["confirm"].(bool); ok && val {
		return nil
	}
	return errors.New("confirmation required: set confirm=true to proceed")
}
