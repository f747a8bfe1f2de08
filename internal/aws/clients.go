package aws

import (
	"context"
	"strings"
	"sync"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

type clientKey struct {
	service string
	region  string
}

type clientEntry struct {
	client any
	region string
}

// Clients memoizes one service client per (service, region) pair for
// the life of the process. The key deliberately excludes the
// credential profile: the active credential context is constant within
// a run, and keying on it would multiply entries across tools.
// Entries are never evicted or replaced.
type Clients struct {
	profile string
	mu      sync.Mutex
	entries map[clientKey]clientEntry
}

// NewClients builds an empty cache bound to the configured default
// profile. Construct one per process and pass it through the tool
// context; tests inject their own isolated instance.
func NewClients(profile string) *Clients {
	return &Clients{profile: strings.TrimSpace(profile), entries: map[clientKey]clientEntry{}}
}

func (c *Clients) get(ctx context.Context, service, region string, build func(sdkaws.Config) any) (any, string, error) {
	key := clientKey{service: service, region: requestRegion(region)}
	c.mu.Lock()
	if entry, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return entry.client, entry.region, nil
	}
	c.mu.Unlock()

	cfg, _, err := LoadConfig(ctx, region, c.profile)
	if err != nil {
		return nil, "", err
	}
	built := clientEntry{client: build(cfg), region: strings.TrimSpace(cfg.Region)}
	c.mu.Lock()
	if entry, ok := c.entries[key]; ok {
		// Lost the construction race; the first writer's handle wins.
		c.mu.Unlock()
		return entry.client, entry.region, nil
	}
	c.entries[key] = built
	c.mu.Unlock()
	return built.client, built.region, nil
}

// requestRegion normalizes the cache key so that an explicit region
// and the same region arriving via the environment share one entry.
func requestRegion(region string) string {
	resolved := ResolveRegion(region)
	if resolved == "" {
		return "default"
	}
	return resolved
}

func (c *Clients) EC2(ctx context.Context, region string) (*ec2.Client, string, error) {
	client, usedRegion, err := c.get(ctx, "ec2", region, func(cfg sdkaws.Config) any {
		return ec2.NewFromConfig(cfg)
	})
	if err != nil {
		return nil, "", err
	}
	return client.(*ec2.Client), usedRegion, nil
}

func (c *Clients) S3(ctx context.Context, region string) (*s3.Client, string, error) {
	client, usedRegion, err := c.get(ctx, "s3", region, func(cfg sdkaws.Config) any {
		return s3.NewFromConfig(cfg)
	})
	if err != nil {
		return nil, "", err
	}
	return client.(*s3.Client), usedRegion, nil
}

func (c *Clients) RDS(ctx context.Context, region string) (*rds.Client, string, error) {
	client, usedRegion, err := c.get(ctx, "rds", region, func(cfg sdkaws.Config) any {
		return rds.NewFromConfig(cfg)
	})
	if err != nil {
		return nil, "", err
	}
	return client.(*rds.Client), usedRegion, nil
}

func (c *Clients) Lambda(ctx context.Context, region string) (*lambda.Client, string, error) {
	client, usedRegion, err := c.get(ctx, "lambda", region, func(cfg sdkaws.Config) any {
		return lambda.NewFromConfig(cfg)
	})
	if err != nil {
		return nil, "", err
	}
	return client.(*lambda.Client), usedRegion, nil
}

func (c *Clients) IAM(ctx context.Context, region string) (*iam.Client, string, error) {
	client, usedRegion, err := c.get(ctx, "iam", region, func(cfg sdkaws.Config) any {
		return iam.NewFromConfig(cfg)
	})
	if err != nil {
		return nil, "", err
	}
	return client.(*iam.Client), usedRegion, nil
}

func (c *Clients) STS(ctx context.Context, region string) (*sts.Client, string, error) {
	client, usedRegion, err := c.get(ctx, "sts", region, func(cfg sdkaws.Config) any {
		return sts.NewFromConfig(cfg)
	})
	if err != nil {
		return nil, "", err
	}
	return client.(*sts.Client), usedRegion, nil
}

func (c *Clients) CloudWatch(ctx context.Context, region string) (*cloudwatch.Client, string, error) {
	client, usedRegion, err := c.get(ctx, "cloudwatch", region, func(cfg sdkaws.Config) any {
		return cloudwatch.NewFromConfig(cfg)
	})
	if err != nil {
		return nil, "", err
	}
	return client.(*cloudwatch.Client), usedRegion, nil
}

func (c *Clients) AutoScaling(ctx context.Context, region string) (*autoscaling.Client, string, error) {
	client, usedRegion, err := c.get(ctx, "autoscaling", region, func(cfg sdkaws.Config) any {
		return autoscaling.NewFromConfig(cfg)
	})
	if err != nil {
		return nil, "", err
	}
	return client.(*autoscaling.Client), usedRegion, nil
}

func (c *Clients) ELB(ctx context.Context, region string) (*elasticloadbalancingv2.Client, string, error) {
	client, usedRegion, err := c.get(ctx, "elasticloadbalancingv2", region, func(cfg sdkaws.Config) any {
		return elasticloadbalancingv2.NewFromConfig(cfg)
	})
	if err != nil {
		return nil, "", err
	}
	return client.(*elasticloadbalancingv2.Client), usedRegion, nil
}

func (c *Clients) CloudFormation(ctx context.Context, region string) (*cloudformation.Client, string, error) {
	client, usedRegion, err := c.get(ctx, "cloudformation", region, func(cfg sdkaws.Config) any {
		return cloudformation.NewFromConfig(cfg)
	})
	if err != nil {
		return nil, "", err
	}
	return client.(*cloudformation.Client), usedRegion, nil
}

func (c *Clients) Route53(ctx context.Context, region string) (*route53.Client, string, error) {
	client, usedRegion, err := c.get(ctx, "route53", region, func(cfg sdkaws.Config) any {
		return route53.NewFromConfig(cfg)
	})
	if err != nil {
		return nil, "", err
	}
	return client.(*route53.Client), usedRegion, nil
}
