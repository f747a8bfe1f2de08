// Package awss3 implements bucket management tools.
package awss3

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"awsinfra/internal/mcp"
)

type Service struct {
	ctx       mcp.ToolsetContext
	s3Client  func(context.Context, string) (*s3.Client, string, error)
	toolsetID string
}

func ToolSpecs(ctx mcp.ToolsetContext, toolsetID string, s3Client func(context.Context, string) (*s3.Client, string, error)) []mcp.ToolSpec {
	svc := &Service{ctx: ctx, s3Client: s3Client, toolsetID: toolsetID}
	return []mcp.ToolSpec{
		{
			Name:        "aws.s3.create_bucket",
			Description: "Create an S3 bucket.",
			ToolsetID:   toolsetID,
			InputSchema: schemaS3CreateBucket(),
			Safety:      mcp.SafetyWrite,
			Handler:     svc.handleCreateBucket,
		},
		{
			Name:        "aws.s3.list_buckets",
			Description: "List S3 buckets in the account.",
			ToolsetID:   toolsetID,
			InputSchema: schemaS3ListBuckets(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListBuckets,
		},
		{
			Name:        "aws.s3.delete_bucket",
			Description: "Delete an S3 bucket, optionally emptying it first (confirm required).",
			ToolsetID:   toolsetID,
			InputSchema: schemaS3DeleteBucket(),
			Safety:      mcp.SafetyDestructive,
			Handler:     svc.handleDeleteBucket,
		},
	}
}

func (s *Service) handleCreateBucket(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	bucket := toString(req.Arguments["bucket_name"])
	if bucket == "" {
		return mcp.ToolResult{}, errors.New("bucket_name is required")
	}
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.s3Client(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	input := &s3.CreateBucketInput{Bucket: aws.String(bucket)}
	// us-east-1 rejects an explicit location constraint.
	if usedRegion != "" && usedRegion != "us-east-1" {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(usedRegion),
		}
	}
	out, err := client.CreateBucket(ctx, input)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	versioning := toBool(req.Arguments["versioning"])
	if versioning {
		_, err = client.PutBucketVersioning(ctx, &s3.PutBucketVersioningInput{
			Bucket: aws.String(bucket),
			VersioningConfiguration: &s3types.VersioningConfiguration{
				Status: s3types.BucketVersioningStatusEnabled,
			},
		})
		if err != nil {
			return mcp.ToolResult{}, err
		}
	}
	data := mcp.Success(map[string]any{
		"region":      usedRegion,
		"bucket_name": bucket,
		"location":    aws.ToString(out.Location),
		"versioning":  versioning,
	})
	return mcp.ToolResult{
		Data: data,
		Metadata: mcp.ToolMetadata{
			Region:    usedRegion,
			Resources: []string{fmt.Sprintf("s3/bucket/%s", bucket)},
		},
	}, nil
}

func (s *Service) handleListBuckets(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.s3Client(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	out, err := client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return mcp.ToolResult{}, err
	}
	buckets := make([]map[string]any, 0, len(out.Buckets))
	for _, bucket := range out.Buckets {
		entry := map[string]any{"name": aws.ToString(bucket.Name)}
		if bucket.CreationDate != nil {
			entry["creation_date"] = bucket.CreationDate.UTC().Format("2006-01-02T15:04:05Z")
		}
		buckets = append(buckets, entry)
	}
	data := mcp.SuccessCount(map[string]any{
		"region":  usedRegion,
		"buckets": buckets,
	}, len(buckets))
	return mcp.ToolResult{Data: data, Metadata: mcp.ToolMetadata{Region: usedRegion}}, nil
}

func (s *Service) handleDeleteBucket(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	if err := requireConfirm(req.Arguments); err != nil {
		return mcp.ToolResult{}, err
	}
	bucket := toString(req.Arguments["bucket_name"])
	if bucket == "" {
		return mcp.ToolResult{}, errors.New("bucket_name is required")
	}
	force := toBool(req.Arguments["force"])
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.s3Client(ctx, region)
	if err != nil {
		return mcp.ToolResult{}, err
	}
	deleted := 0
	if force {
		deleted, err = emptyBucket(ctx, client, bucket)
		if err != nil {
			return mcp.ToolResult{}, err
		}
	}
	if _, err := client.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(bucket)}); err != nil {
		return mcp.ToolResult{}, err
	}
	data := mcp.Success(map[string]any{
		"region":          usedRegion,
		"bucket_name":     bucket,
		"deleted_objects": deleted,
	})
	return mcp.ToolResult{
		Data: data,
		Metadata: mcp.ToolMetadata{
			Region:    usedRegion,
			Resources: []string{fmt.Sprintf("s3/bucket/%s", bucket)},
		},
	}, nil
}

// emptyBucket deletes every object in the bucket in batches of up to
// 1000 keys, the DeleteObjects limit.
func emptyBucket(ctx context.Context, client *s3.Client, bucket string) (int, error) {
	deleted := 0
	input := &s3.ListObjectsV2Input{Bucket: aws.String(bucket)}
	for {
		out, err := client.ListObjectsV2(ctx, input)
		if err != nil {
			return deleted, err
		}
		if len(out.Contents) > 0 {
			objects := make([]s3types.ObjectIdentifier, 0, len(out.Contents))
			for _, object := range out.Contents {
				objects = append(objects, s3types.ObjectIdentifier{Key: object.Key})
			}
			if _, err := client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
				Bucket: aws.String(bucket),
				Delete: &s3types.Delete{Objects: objects, Quiet: aws.Bool(true)},
			}); err != nil {
				return deleted, err
			}
			deleted += len(objects)
		}
		if !aws.ToBool(out.IsTruncated) {
			break
		}
		input.ContinuationToken = out.NextContinuationToken
	}
	return deleted, nil
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

func toBool(value any) bool {
	b, ok := value.(bool)
	return ok && b
}

func requireConfirm(args map[string]any) error {
	if val, ok := args["confirm"].(bool); ok && val {
		return nil
	}
	return errors.New("confirmation required: set confirm=true to proceed")
}
