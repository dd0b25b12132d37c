package query_test

import (
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/naomijub/s3ql/pkg/query"
)

func TestSerializationInput(t *testing.T) {
	tests := []struct {
		name        string
		in          query.InputFormat
		c           query.Compression
		wantJSON    types.JSONType
		wantParquet bool
		wantComp    types.CompressionType
	}{
		{"document none", query.JSONInput(query.Document), query.CompressionNone, types.JSONTypeDocument, false, ""},
		{"lines gzip", query.JSONInput(query.Lines), query.CompressionGzip, types.JSONTypeLines, false, types.CompressionTypeGzip},
		{"document bzip2", query.JSONInput(query.Document), query.CompressionBzip2, types.JSONTypeDocument, false, types.CompressionTypeBzip2},
		{"parquet none", query.ParquetInput(), query.CompressionNone, "", true, ""},
		{"parquet gzip", query.ParquetInput(), query.CompressionGzip, "", true, types.CompressionTypeGzip},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, _ := query.Serialization(tt.in, query.JSONOutput(""), tt.c)
			if in.CompressionType != tt.wantComp {
				t.Fatalf("compression: got %q want %q", in.CompressionType, tt.wantComp)
			}
			if in.CSV != nil {
				t.Fatalf("unexpected CSV input")
			}
			if tt.wantParquet {
				if in.Parquet == nil || in.JSON != nil {
					t.Fatalf("expected parquet-only input, got %+v", in)
				}
				return
			}
			if in.Parquet != nil || in.JSON == nil {
				t.Fatalf("expected json-only input, got %+v", in)
			}
			if in.JSON.Type != tt.wantJSON {
				t.Fatalf("json type: got %q want %q", in.JSON.Type, tt.wantJSON)
			}
		})
	}
}

func TestSerializationOutput(t *testing.T) {
	_, out := query.Serialization(query.ParquetInput(), query.JSONOutput(","), query.CompressionNone)
	if out.CSV != nil || out.JSON == nil {
		t.Fatalf("expected json output, got %+v", out)
	}
	if got := aws.ToString(out.JSON.RecordDelimiter); got != "," {
		t.Fatalf("delimiter: got %q want %q", got, ",")
	}

	_, out = query.Serialization(query.ParquetInput(), query.JSONOutput(""), query.CompressionNone)
	if out.JSON.RecordDelimiter != nil {
		t.Fatalf("expected default delimiter, got %q", aws.ToString(out.JSON.RecordDelimiter))
	}
}

func TestRequest(t *testing.T) {
	q := query.Select(query.Fields("name")).
		From("selectObjectsBucket", "select-key").
		Limit(2).
		Where(query.IsNotNull("count"))

	req, err := query.Request(q, query.CompressionNone, query.JSONInput(query.Document), query.JSONOutput(","))
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if req.Bucket != "selectObjectsBucket" || req.Key != "select-key" {
		t.Fatalf("source: got %s/%s", req.Bucket, req.Key)
	}
	if want := "SELECT s.name FROM S3Object s WHERE s.count IS NOT MISSING LIMIT 2"; req.Expression != want {
		t.Fatalf("expression: got %q want %q", req.Expression, want)
	}
	if req.ExpressionType != types.ExpressionTypeSql {
		t.Fatalf("expression type: got %q", req.ExpressionType)
	}
	if req.Input == nil || req.Input.JSON == nil || req.Output == nil || req.Output.JSON == nil {
		t.Fatalf("serialization not set: %+v %+v", req.Input, req.Output)
	}

	if _, err := query.Request(query.Select(query.Fields("a")), query.CompressionNone, query.ParquetInput(), query.JSONOutput("")); !errors.Is(err, query.ErrMissingSource) {
		t.Fatalf("expected ErrMissingSource got %v", err)
	}
}

func TestCompressionString(t *testing.T) {
	for c, want := range map[query.Compression]string{
		query.CompressionNone:  "none",
		query.CompressionGzip:  "gzip",
		query.CompressionBzip2: "bzip2",
	} {
		if got := c.String(); got != want {
			t.Errorf("got %q want %q", got, want)
		}
	}
}
