package aws

import (
	"context"
	"os"
	"strings"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	sdkconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// FallbackRegion is used when no other layer yields a region.
const FallbackRegion = "us-east-1"

// RegionSource records which layer supplied the effective region.
type RegionSource string

const (
	SourceExplicit    RegionSource = "explicit"
	SourceEnvironment RegionSource = "environment"
	SourceProfile     RegionSource = "profile"
	SourceChain       RegionSource = "chain"
	SourceFallback    RegionSource = "fallback"
)

// Identity is the resolved context for one call. AccountID stays empty
// until Probe is invoked; credential discovery is left to the first
// service call, matching the SDK's lazy provider chain.
type Identity struct {
	Region    string
	Source    RegionSource
	Profile   string
	AccountID string
}

// ResolveRegion applies the region precedence below the config file:
// explicit argument, then AWS_REGION, then AWS_DEFAULT_REGION. An
// empty result means the shared-config/IMDS chain decides.
func ResolveRegion(region string) string {
	region = strings.TrimSpace(region)
	if region == "" {
		region = strings.TrimSpace(os.Getenv("AWS_REGION"))
	}
	if region == "" {
		region = strings.TrimSpace(os.Getenv("AWS_DEFAULT_REGION"))
	}
	return region
}

// ResolveProfile returns the named profile from the environment.
func ResolveProfile() string {
	profile := strings.TrimSpace(os.Getenv("AWS_PROFILE"))
	if profile == "" {
		profile = strings.TrimSpace(os.Getenv("AWS_DEFAULT_PROFILE"))
	}
	return profile
}

// ResolveIdentity computes the identity for a call. The region
// argument is the per-call explicit value; configuredProfile is the
// server's configured default profile, which the environment outranks.
func ResolveIdentity(region, configuredProfile string) Identity {
	id := Identity{Profile: ResolveProfile()}
	if id.Profile == "" {
		id.Profile = strings.TrimSpace(configuredProfile)
	}
	switch {
	case strings.TrimSpace(region) != "":
		id.Region = strings.TrimSpace(region)
		id.Source = SourceExplicit
	case ResolveRegion("") != "":
		id.Region = ResolveRegion("")
		id.Source = SourceEnvironment
	case id.Profile != "":
		id.Source = SourceProfile
	default:
		id.Source = SourceChain
	}
	return id
}

// LoadConfig builds an SDK config for the resolved identity. It never
// validates credentials; a missing credential chain only surfaces when
// the first service call fails.
func LoadConfig(ctx context.Context, region, configuredProfile string) (sdkaws.Config, Identity, error) {
	id := ResolveIdentity(region, configuredProfile)
	loadOpts := []func(*sdkconfig.LoadOptions) error{}
	if id.Profile != "" {
		loadOpts = append(loadOpts, sdkconfig.WithSharedConfigProfile(id.Profile))
	}
	if id.Region != "" {
		loadOpts = append(loadOpts, sdkconfig.WithRegion(id.Region))
	}
	cfg, err := sdkconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return cfg, id, err
	}
	if strings.TrimSpace(cfg.Region) == "" {
		cfg.Region = FallbackRegion
		id.Source = SourceFallback
	}
	id.Region = cfg.Region
	return cfg, id, nil
}

// Probe fills AccountID from an STS identity call. The caller chooses
// when to pay for the round trip; resolution itself stays lazy.
func (id *Identity) Probe(ctx context.Context, client *sts.Client) error {
	out, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return err
	}
	id.AccountID = sdkaws.ToString(out.Account)
	return nil
}
