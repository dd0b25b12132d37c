package s3store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/naomijub/s3ql/pkg/object"
)

// Put uploads the full object body. It creates or replaces the object.
func (s *Storage) Put(ctx context.Context, bucket, key string, r io.Reader, sizeHint int64, contentType string, meta map[string]string) (object.Object, error) {
	if err := s.ensureClient(); err != nil {
		return object.Object{}, err
	}

	input := &s3.PutObjectInput{
		Bucket:   aws.String(bucket),
		Key:      aws.String(key),
		Body:     r,
		Metadata: cloneMeta(meta),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if sizeHint >= 0 {
		input.ContentLength = aws.Int64(sizeHint)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return object.Object{}, mapError(err)
	}

	return s.Stat(ctx, bucket, key, object.Conditions{})
}

// MinPartSize is the smallest part size S3 accepts for every part but the last.
const MinPartSize = 5 << 20

// MultipartPut streams large uploads in parts. A failed upload is aborted so
// no orphaned parts are left in the bucket.
func (s *Storage) MultipartPut(ctx context.Context, bucket, key string, r io.Reader, partSize int64, contentType string, meta map[string]string) (object.Object, error) {
	if err := s.ensureClient(); err != nil {
		return object.Object{}, err
	}
	if partSize <= 0 {
		return object.Object{}, fmt.Errorf("s3store: invalid part size %d", partSize)
	}

	input := &s3.CreateMultipartUploadInput{
		Bucket:   aws.String(bucket),
		Key:      aws.String(key),
		Metadata: cloneMeta(meta),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	createResp, err := s.client.CreateMultipartUpload(ctx, input)
	if err != nil {
		return object.Object{}, mapError(err)
	}

	uploadID := aws.ToString(createResp.UploadId)
	parts, err := s.uploadParts(ctx, bucket, key, uploadID, r, partSize)
	if err == nil {
		_, err = s.client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
			Bucket:          aws.String(bucket),
			Key:             aws.String(key),
			UploadId:        aws.String(uploadID),
			MultipartUpload: &types.CompletedMultipartUpload{Parts: parts},
		})
		err = mapError(err)
	}
	if err != nil {
		_, _ = s.client.AbortMultipartUpload(context.WithoutCancel(ctx), &s3.AbortMultipartUploadInput{
			Bucket:   aws.String(bucket),
			Key:      aws.String(key),
			UploadId: aws.String(uploadID),
		})
		return object.Object{}, err
	}

	return s.Stat(ctx, bucket, key, object.Conditions{})
}

func (s *Storage) uploadParts(ctx context.Context, bucket, key, uploadID string, r io.Reader, partSize int64) ([]types.CompletedPart, error) {
	var completed []types.CompletedPart
	buf := make([]byte, partSize)
	partNum := int32(1)

	for {
		n, readErr := io.ReadFull(r, buf)
		if n > 0 {
			partResp, err := s.client.UploadPart(ctx, &s3.UploadPartInput{
				Bucket:     aws.String(bucket),
				Key:        aws.String(key),
				UploadId:   aws.String(uploadID),
				PartNumber: aws.Int32(partNum),
				Body:       bytes.NewReader(buf[:n]),
			})
			if err != nil {
				return nil, mapError(err)
			}

			completed = append(completed, types.CompletedPart{
				ETag:       partResp.ETag,
				PartNumber: aws.Int32(partNum),
			})
			partNum++
		}

		if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("s3store: read multipart chunk: %w", readErr)
		}
	}
	return completed, nil
}

// Get fetches metadata plus a streaming reader.
func (s *Storage) Get(ctx context.Context, bucket, key string, rng *object.Range, cond object.Conditions) (object.Object, io.ReadCloser, error) {
	if err := s.ensureClient(); err != nil {
		return object.Object{}, nil, err
	}

	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if rng != nil {
		input.Range = aws.String(rangeHeader(*rng))
	}
	if cond.IfMatch != "" {
		input.IfMatch = aws.String(cond.IfMatch)
	}
	if !cond.IfModifiedSince.IsZero() {
		input.IfModifiedSince = aws.Time(cond.IfModifiedSince)
	}
	if !cond.IfUnmodifiedSince.IsZero() {
		input.IfUnmodifiedSince = aws.Time(cond.IfUnmodifiedSince)
	}

	resp, err := s.client.GetObject(ctx, input)
	if err != nil {
		return object.Object{}, nil, mapError(err)
	}

	return object.Object{
		Bucket:       bucket,
		Key:          key,
		Size:         aws.ToInt64(resp.ContentLength),
		ETag:         aws.ToString(resp.ETag),
		ContentType:  aws.ToString(resp.ContentType),
		LastModified: aws.ToTime(resp.LastModified),
		CustomMeta:   cloneMeta(resp.Metadata),
	}, resp.Body, nil
}

// ReadBody returns the whole object body as a string.
func (s *Storage) ReadBody(ctx context.Context, bucket, key string, cond object.Conditions) (string, error) {
	_, rc, err := s.Get(ctx, bucket, key, nil, cond)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("s3store: read body: %w", err)
	}
	return string(data), nil
}

// Stat returns metadata only.
func (s *Storage) Stat(ctx context.Context, bucket, key string, cond object.Conditions) (object.Object, error) {
	if err := s.ensureClient(); err != nil {
		return object.Object{}, err
	}

	input := &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if cond.IfMatch != "" {
		input.IfMatch = aws.String(cond.IfMatch)
	}
	if !cond.IfModifiedSince.IsZero() {
		input.IfModifiedSince = aws.Time(cond.IfModifiedSince)
	}
	if !cond.IfUnmodifiedSince.IsZero() {
		input.IfUnmodifiedSince = aws.Time(cond.IfUnmodifiedSince)
	}

	resp, err := s.client.HeadObject(ctx, input)
	if err != nil {
		return object.Object{}, mapError(err)
	}

	return object.Object{
		Bucket:       bucket,
		Key:          key,
		Size:         aws.ToInt64(resp.ContentLength),
		ETag:         aws.ToString(resp.ETag),
		ContentType:  aws.ToString(resp.ContentType),
		LastModified: aws.ToTime(resp.LastModified),
		CustomMeta:   cloneMeta(resp.Metadata),
	}, nil
}

// List returns objects under prefix, following continuation tokens until
// maxKeys objects are collected. maxKeys <= 0 lists everything.
func (s *Storage) List(ctx context.Context, bucket, prefix string, maxKeys int32) ([]object.Object, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}

	input := &s3.ListObjectsV2Input{Bucket: aws.String(bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}
	if maxKeys > 0 {
		input.MaxKeys = aws.Int32(maxKeys)
	}

	var objs []object.Object
	p := s3.NewListObjectsV2Paginator(s.client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		for _, o := range page.Contents {
			objs = append(objs, object.Object{
				Bucket:       bucket,
				Key:          aws.ToString(o.Key),
				Size:         aws.ToInt64(o.Size),
				ETag:         aws.ToString(o.ETag),
				LastModified: aws.ToTime(o.LastModified),
			})
			if maxKeys > 0 && len(objs) >= int(maxKeys) {
				return objs, nil
			}
		}
	}
	return objs, nil
}

// Delete removes an object.
func (s *Storage) Delete(ctx context.Context, bucket, key string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	return mapError(err)
}

func cloneMeta(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	maps.Copy(out, in)
	return out
}

func rangeHeader(rng object.Range) string {
	if rng.End >= 0 {
		return fmt.Sprintf("bytes=%d-%d", rng.Start, rng.End)
	}
	return fmt.Sprintf("bytes=%d-", rng.Start)
}
