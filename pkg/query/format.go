package query

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ExpressionLanguage tags every compiled expression.
const ExpressionLanguage = types.ExpressionTypeSql

// JSONType selects how JSON input is split into records.
type JSONType int

const (
	// Document treats the object as one JSON document.
	Document JSONType = iota
	// Lines treats every line of the object as a record.
	Lines
)

type inputKind int

const (
	inputJSON inputKind = iota
	inputParquet
)

// InputFormat describes how the queried object is encoded.
type InputFormat struct {
	kind     inputKind
	jsonType JSONType
}

// JSONInput reads the object as JSON of the given type.
func JSONInput(t JSONType) InputFormat { return InputFormat{kind: inputJSON, jsonType: t} }

// ParquetInput reads the object as Parquet.
func ParquetInput() InputFormat { return InputFormat{kind: inputParquet} }

// OutputFormat describes how returned records are encoded. Only JSON output is
// supported.
type OutputFormat struct {
	recordDelimiter string
}

// JSONOutput writes JSON records separated by delimiter. An empty delimiter
// leaves the service default (newline).
func JSONOutput(delimiter string) OutputFormat { return OutputFormat{recordDelimiter: delimiter} }

// Compression is the codec the object body is stored with.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionBzip2
)

func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionBzip2:
		return "bzip2"
	default:
		return "none"
	}
}

// compressionType returns "" for CompressionNone so the field is omitted.
func (c Compression) compressionType() types.CompressionType {
	switch c {
	case CompressionGzip:
		return types.CompressionTypeGzip
	case CompressionBzip2:
		return types.CompressionTypeBzip2
	default:
		return ""
	}
}

// Serialization maps the format and compression choices onto the request's
// serialization descriptors. Every combination is valid.
func Serialization(in InputFormat, out OutputFormat, c Compression) (*types.InputSerialization, *types.OutputSerialization) {
	input := &types.InputSerialization{CompressionType: c.compressionType()}
	switch in.kind {
	case inputParquet:
		input.Parquet = &types.ParquetInput{}
	default:
		jt := types.JSONTypeDocument
		if in.jsonType == Lines {
			jt = types.JSONTypeLines
		}
		input.JSON = &types.JSONInput{Type: jt}
	}

	output := &types.OutputSerialization{JSON: &types.JSONOutput{}}
	if out.recordDelimiter != "" {
		output.JSON.RecordDelimiter = aws.String(out.recordDelimiter)
	}
	return input, output
}
