package query

import "github.com/naomijub/s3ql/pkg/object"

// Request compiles q and packages it with its serialization descriptors into
// the arguments of a content select call.
func Request(q Query, c Compression, in InputFormat, out OutputFormat) (object.SelectRequest, error) {
	expr, err := Compile(q)
	if err != nil {
		return object.SelectRequest{}, err
	}
	input, output := Serialization(in, out, c)
	return object.SelectRequest{
		Bucket:         q.from.bucket,
		Key:            q.from.key,
		Expression:     expr,
		ExpressionType: ExpressionLanguage,
		Input:          input,
		Output:         output,
	}, nil
}
