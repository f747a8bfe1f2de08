// Package aws registers the AWS account inspection and management
// toolset. Service subpackages contribute tool specs; this package
// wires them to the shared client cache.
package aws

import (
	"errors"
	"fmt"

	"awsinfra/internal/mcp"
	awscfn "awsinfra/toolsets/aws/cloudformation"
	awsec2 "awsinfra/toolsets/aws/ec2"
	awsiam "awsinfra/toolsets/aws/iam"
	awslambda "awsinfra/toolsets/aws/lambda"
	awsmonitoring "awsinfra/toolsets/aws/monitoring"
	awsrds "awsinfra/toolsets/aws/rds"
	awsroute53 "awsinfra/toolsets/aws/route53"
	awss3 "awsinfra/toolsets/aws/s3"
	awssts "awsinfra/toolsets/aws/sts"
	awsvpc "awsinfra/toolsets/aws/vpc"
)

type Toolset struct {
	ctx mcp.ToolsetContext
}

func New() *Toolset {
	return &Toolset{}
}

func init() {
	mcp.MustRegisterToolset("aws", func() mcp.Toolset {
		return New()
	})
}

func (t *Toolset) ID() string {
	return "aws"
}

func (t *Toolset) Version() string {
	return "0.1.0"
}

func (t *Toolset) Init(ctx mcp.ToolsetContext) error {
	if ctx.AWS == nil {
		return errors.New("missing aws client cache")
	}
	t.ctx = ctx
	if ctx.Services != nil {
		if _, ok := ctx.Services.Get("aws.clients"); !ok {
			if err := ctx.Services.Register("aws.clients", ctx.AWS); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *Toolset) Register(reg mcp.Registry) error {
	clients := t.ctx.AWS
	specs := [][]mcp.ToolSpec{
		awssts.ToolSpecs(t.ctx, t.ID(), clients.STS),
		awsec2.ToolSpecs(t.ctx, t.ID(), clients.EC2),
		awsvpc.ToolSpecs(t.ctx, t.ID(), clients.EC2),
		awss3.ToolSpecs(t.ctx, t.ID(), clients.S3),
		awsrds.ToolSpecs(t.ctx, t.ID(), clients.RDS),
		awslambda.ToolSpecs(t.ctx, t.ID(), clients.Lambda),
		awsiam.ToolSpecs(t.ctx, t.ID(), clients.IAM),
		awsmonitoring.ToolSpecs(t.ctx, t.ID(), clients.CloudWatch, clients.AutoScaling, clients.ELB),
		awscfn.ToolSpecs(t.ctx, t.ID(), clients.CloudFormation),
		awsroute53.ToolSpecs(t.ctx, t.ID(), clients.Route53),
	}
	for _, group := range specs {
		for _, tool := range group {
			if err := reg.Add(tool); err != nil {
				return fmt.Errorf("register %s: %w", tool.Name, err)
			}
		}
	}
	return nil
}
