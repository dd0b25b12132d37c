package s3store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/naomijub/s3ql/pkg/object"
)

// CreateBucket creates bucket in the configured region.
func (s *Storage) CreateBucket(ctx context.Context, bucket string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}

	input := &s3.CreateBucketInput{Bucket: aws.String(bucket)}
	// us-east-1 rejects an explicit location constraint.
	if s.region != "" && s.region != DefaultRegion {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}

	_, err := s.client.CreateBucket(ctx, input)
	return mapBucketError(err)
}

// ListBuckets returns every bucket owned by the caller.
func (s *Storage) ListBuckets(ctx context.Context) ([]object.Bucket, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}

	resp, err := s.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, mapBucketError(err)
	}

	buckets := make([]object.Bucket, 0, len(resp.Buckets))
	for _, b := range resp.Buckets {
		buckets = append(buckets, object.Bucket{
			Name:      aws.ToString(b.Name),
			CreatedAt: aws.ToTime(b.CreationDate),
		})
	}
	return buckets, nil
}

// HasBucket returns nil when bucket exists and is reachable.
func (s *Storage) HasBucket(ctx context.Context, bucket string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	return mapBucketError(err)
}

// DeleteBucket removes an empty bucket.
func (s *Storage) DeleteBucket(ctx context.Context, bucket string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}

	_, err := s.client.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(bucket)})
	return mapBucketError(err)
}
