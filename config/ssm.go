package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// ParameterGetter is the subset of the SSM client used to resolve settings.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// NewSSMClient builds a Parameter Store client from the default AWS credential chain.
func NewSSMClient(ctx context.Context, region string) (*ssm.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// ResolveSSM replaces APIBaseURL with the value stored under APIBaseURLSSMParam.
// Settings without a parameter name are returned unchanged.
func ResolveSSM(ctx context.Context, s Settings, getter ParameterGetter) (Settings, error) {
	if s.APIBaseURLSSMParam == "" {
		return s, nil
	}

	out, err := getter.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(s.APIBaseURLSSMParam),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return Settings{}, fmt.Errorf("config: ssm parameter %s: %w", s.APIBaseURLSSMParam, err)
	}
	if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
		return Settings{}, fmt.Errorf("config: ssm parameter %s is empty", s.APIBaseURLSSMParam)
	}

	baseURL := strings.TrimSuffix(aws.ToString(out.Parameter.Value), "/")
	if err := ValidateBaseURL(baseURL); err != nil {
		return Settings{}, err
	}

	log.Info().Str("parameter", s.APIBaseURLSSMParam).Msg("API base URL resolved from SSM")
	s.APIBaseURL = baseURL
	return s, nil
}
