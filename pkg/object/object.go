// Package object contains the object store contract the query layer feeds:
// bucket and object CRUD plus content selection.
package object

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Object holds metadata about a stored item.
type Object struct {
	Bucket       string
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	CustomMeta   map[string]string
}

// Bucket describes a bucket returned by a listing.
type Bucket struct {
	Name      string
	CreatedAt time.Time
}

// Range represents a byte range [Start, End] inclusive.
// If End < 0 the range is open-ended.
type Range struct {
	Start int64
	End   int64
}

// Conditions restrict reads to matching object versions. Zero values are ignored.
type Conditions struct {
	IfMatch           string
	IfModifiedSince   time.Time
	IfUnmodifiedSince time.Time
}

// Common errors returned by implementations.
var (
	ErrNotFound       = errors.New("object not found")
	ErrBucketNotFound = errors.New("bucket not found")
	ErrConflict       = errors.New("already exists")
)

// SelectRequest carries everything a content select call needs.
type SelectRequest struct {
	Bucket         string
	Key            string
	Expression     string
	ExpressionType types.ExpressionType
	Input          *types.InputSerialization
	Output         *types.OutputSerialization
}

// Stats reports the bytes a content select touched.
type Stats struct {
	BytesScanned   int64
	BytesProcessed int64
	BytesReturned  int64
}

// ContentStream yields the record payloads of a content select.
type ContentStream interface {
	io.ReadCloser
	// Stats is populated once the stream has been read to EOF.
	Stats() Stats
}

// Lifecycle defines init/teardown behavior.
type Lifecycle interface {
	Init(ctx context.Context, param any) error
	Close(ctx context.Context) error
}

// BucketManager exposes bucket operations.
type BucketManager interface {
	CreateBucket(ctx context.Context, bucket string) error
	ListBuckets(ctx context.Context) ([]Bucket, error)
	// HasBucket returns ErrBucketNotFound when the bucket does not exist.
	HasBucket(ctx context.Context, bucket string) error
	DeleteBucket(ctx context.Context, bucket string) error
}

// Reader exposes read-related operations.
type Reader interface {
	// Get returns object metadata and a stream the caller must close.
	Get(ctx context.Context, bucket, key string, rng *Range, cond Conditions) (Object, io.ReadCloser, error)
	// List returns at most maxKeys objects matching the prefix; maxKeys <= 0 means no limit.
	List(ctx context.Context, bucket, prefix string, maxKeys int32) ([]Object, error)
	// Stat returns metadata without streaming the body.
	Stat(ctx context.Context, bucket, key string, cond Conditions) (Object, error)
}

// Writer exposes write-related operations.
type Writer interface {
	// Put uploads content and returns stored metadata.
	Put(ctx context.Context, bucket, key string, r io.Reader, sizeHint int64, contentType string, meta map[string]string) (Object, error)
	// MultipartPut streams large content in parts of partSize bytes.
	MultipartPut(ctx context.Context, bucket, key string, r io.Reader, partSize int64, contentType string, meta map[string]string) (Object, error)
}

// Deleter exposes delete behavior.
type Deleter interface {
	Delete(ctx context.Context, bucket, key string) error
}

// ContentSelector runs a content query against a single object.
type ContentSelector interface {
	SelectContent(ctx context.Context, req SelectRequest) (ContentStream, error)
}

// Store aggregates the full contract of an object store client.
type Store interface {
	Lifecycle
	BucketManager
	Reader
	Writer
	Deleter
	ContentSelector
}
