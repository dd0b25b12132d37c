package s3store

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/naomijub/s3ql/pkg/object"
	"github.com/naomijub/s3ql/pkg/query"
)

// SelectContent runs an S3 Select request and streams the returned records.
// The caller must close the stream.
func (s *Storage) SelectContent(ctx context.Context, req object.SelectRequest) (object.ContentStream, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}

	resp, err := s.client.SelectObjectContent(ctx, &s3.SelectObjectContentInput{
		Bucket:              aws.String(req.Bucket),
		Key:                 aws.String(req.Key),
		Expression:          aws.String(req.Expression),
		ExpressionType:      req.ExpressionType,
		InputSerialization:  req.Input,
		OutputSerialization: req.Output,
	})
	if err != nil {
		return nil, mapError(err)
	}

	es := resp.GetStream()
	return newSelectStream(es.Events(), es.Close, es.Err), nil
}

// Query compiles q and runs it against its source object.
func (s *Storage) Query(ctx context.Context, q query.Query, c query.Compression, in query.InputFormat, out query.OutputFormat) (object.ContentStream, error) {
	req, err := query.Request(q, c, in, out)
	if err != nil {
		return nil, err
	}
	return s.SelectContent(ctx, req)
}

// selectStream flattens record events into a byte stream.
type selectStream struct {
	events  <-chan types.SelectObjectContentEventStream
	closeFn func() error
	errFn   func() error

	buf   []byte
	stats object.Stats
	err   error
}

func newSelectStream(events <-chan types.SelectObjectContentEventStream, closeFn, errFn func() error) *selectStream {
	return &selectStream{events: events, closeFn: closeFn, errFn: errFn}
}

func (s *selectStream) Read(p []byte) (int, error) {
	for len(s.buf) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		ev, ok := <-s.events
		if !ok {
			s.err = io.EOF
			if s.errFn != nil {
				if err := s.errFn(); err != nil {
					s.err = fmt.Errorf("s3store: select stream: %w", err)
				}
			}
			continue
		}

		switch v := ev.(type) {
		case *types.SelectObjectContentEventStreamMemberRecords:
			s.buf = v.Value.Payload
		case *types.SelectObjectContentEventStreamMemberStats:
			if d := v.Value.Details; d != nil {
				s.stats = object.Stats{
					BytesScanned:   aws.ToInt64(d.BytesScanned),
					BytesProcessed: aws.ToInt64(d.BytesProcessed),
					BytesReturned:  aws.ToInt64(d.BytesReturned),
				}
			}
		case *types.SelectObjectContentEventStreamMemberEnd:
			s.err = io.EOF
		}
	}

	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	return n, nil
}

func (s *selectStream) Stats() object.Stats { return s.stats }

func (s *selectStream) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}
