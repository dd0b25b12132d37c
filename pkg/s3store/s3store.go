// Package s3store implements object.Store for S3 compatible services.
package s3store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/naomijub/s3ql/pkg/object"
)

// DefaultRegion is used when Config.Region is empty.
const DefaultRegion = "us-east-1"

// Config holds connection details.
type Config struct {
	// Endpoint overrides the service endpoint, e.g. http://localhost:4566.
	Endpoint        string
	Region          string
	AccessKey       string
	SecretAccessKey string
	SessionToken    string
	// UsePathStyle addresses buckets as endpoint/bucket instead of bucket.endpoint.
	UsePathStyle bool
}

// Storage implements object.Store on top of the AWS SDK S3 client.
type Storage struct {
	client *s3.Client
	region string
}

var _ object.Store = (*Storage)(nil)

// Init bootstraps the S3 client. param must be a Config or *Config.
// Without an access key the SDK default credential chain is used.
func (s *Storage) Init(ctx context.Context, param any) error {
	cfg, ok := param.(Config)
	if !ok {
		if p, ok := param.(*Config); ok && p != nil {
			cfg = *p
		} else {
			return fmt.Errorf("s3store: unexpected config type %T", param)
		}
	}

	if (cfg.AccessKey == "") != (cfg.SecretAccessKey == "") {
		return errors.New("s3store: AccessKey and SecretAccessKey must be set together")
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return fmt.Errorf("s3store: load config: %w", err)
	}

	s.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	s.region = cfg.Region
	return nil
}

// Close cleans up resources; no-op for S3.
func (s *Storage) Close(_ context.Context) error {
	return nil
}

func (s *Storage) ensureClient() error {
	if s.client == nil {
		return errors.New("s3store: client not initialized")
	}
	return nil
}

// mapError translates object level service errors into object sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return fmt.Errorf("%w: %v", object.ErrNotFound, err)
	}
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return fmt.Errorf("%w: %v", object.ErrBucketNotFound, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch strings.ToLower(apiErr.ErrorCode()) {
		case "nosuchkey", "notfound", "404":
			return fmt.Errorf("%w: %v", object.ErrNotFound, err)
		case "nosuchbucket":
			return fmt.Errorf("%w: %v", object.ErrBucketNotFound, err)
		}
	}

	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound {
		return fmt.Errorf("%w: %v", object.ErrNotFound, err)
	}

	return err
}

// mapBucketError is mapError for bucket level calls, where a 404 means the
// bucket itself is missing.
func mapBucketError(err error) error {
	if err == nil {
		return nil
	}

	var exists *types.BucketAlreadyExists
	var owned *types.BucketAlreadyOwnedByYou
	if errors.As(err, &exists) || errors.As(err, &owned) {
		return fmt.Errorf("%w: %v", object.ErrConflict, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch strings.ToLower(apiErr.ErrorCode()) {
		case "nosuchbucket", "notfound", "404":
			return fmt.Errorf("%w: %v", object.ErrBucketNotFound, err)
		case "bucketalreadyexists", "bucketalreadyownedbyyou":
			return fmt.Errorf("%w: %v", object.ErrConflict, err)
		}
	}

	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound {
		return fmt.Errorf("%w: %v", object.ErrBucketNotFound, err)
	}

	return err
}
