package main

import (
	"github.com/naomijub/s3ql/internal/cli"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "s3ql",
	Short: "s3ql builds and runs S3 Select queries.",
	Long:  `s3ql builds S3 Select expressions from flags and runs them against objects in S3 compatible storage. It also manages the buckets and objects those queries read.`,
}

var queryFlags cli.QueryFlags

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Print the S3 Select expression built from flags.",
	Long:  `Print the S3 Select expression built from flags. No request is sent.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cli.Compile(queryFlags)
	},
}

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Run an S3 Select query against one object.",
	Long:  `Run an S3 Select query against one object and write the returned records to stdout.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cli.Select(queryFlags)
	},
}

var bucketCmd = &cobra.Command{
	Use:   "bucket",
	Short: "Manage buckets.",
}

var bucketCreateCmd = &cobra.Command{
	Use:   "create [bucket]",
	Short: "Create a bucket.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cli.BucketCreate(args[0])
	},
}

var bucketListCmd = &cobra.Command{
	Use:   "list",
	Short: "List buckets.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cli.BucketList()
	},
}

var bucketHeadCmd = &cobra.Command{
	Use:   "head [bucket]",
	Short: "Check that a bucket exists.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cli.BucketHead(args[0])
	},
}

var bucketDeleteCmd = &cobra.Command{
	Use:   "delete [bucket]",
	Short: "Delete an empty bucket.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cli.BucketDelete(args[0])
	},
}

var objectCmd = &cobra.Command{
	Use:   "object",
	Short: "Manage objects.",
}

var putFlags cli.PutFlags
var objectPutCmd = &cobra.Command{
	Use:   "put [bucket] [file]",
	Short: "Upload a file.",
	Long:  `Upload a file. Use --compress to store it gzipped and query it with --compression gzip.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cli.ObjectPut(putFlags, args[0], args[1])
	},
}

var getFlags cli.GetFlags
var objectGetCmd = &cobra.Command{
	Use:   "get [bucket] [key]",
	Short: "Download an object.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cli.ObjectGet(getFlags, args[0], args[1])
	},
}

var objectHeadCmd = &cobra.Command{
	Use:   "head [bucket] [key]",
	Short: "Show object metadata.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cli.ObjectHead(args[0], args[1])
	},
}

var listPrefix string
var listMax int32
var objectListCmd = &cobra.Command{
	Use:   "list [bucket]",
	Short: "List objects.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cli.ObjectList(args[0], listPrefix, listMax)
	},
}

var objectDeleteCmd = &cobra.Command{
	Use:   "delete [bucket] [key1] [key2] ...",
	Short: "Delete objects.",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cli.ObjectDelete(args[0], args[1:])
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cli.EnvFile, "env", ".env", "Path of the .env file with S3QL_* settings")

	bucketCmd.AddCommand(bucketCreateCmd, bucketListCmd, bucketHeadCmd, bucketDeleteCmd)
	objectCmd.AddCommand(objectPutCmd, objectGetCmd, objectHeadCmd, objectListCmd, objectDeleteCmd)
	rootCmd.AddCommand(compileCmd, selectCmd, bucketCmd, objectCmd)

	// ==================
	// compile and select
	// ==================
	for _, cmd := range []*cobra.Command{compileCmd, selectCmd} {
		f := cmd.Flags()
		f.StringVarP(&queryFlags.Bucket, "bucket", "b", "", "Bucket of the queried object")
		f.StringVarP(&queryFlags.Key, "key", "k", "", "Key of the queried object")
		f.StringSliceVarP(&queryFlags.Fields, "field", "f", nil, "Fields to project, e.g. 'id,name'")
		f.StringSliceVar(&queryFlags.Count, "count", nil, "Count(field); '*' counts records")
		f.StringSliceVar(&queryFlags.Avg, "avg", nil, "Avg(field)")
		f.StringSliceVar(&queryFlags.Max, "max", nil, "Max(field)")
		f.StringSliceVar(&queryFlags.Min, "min", nil, "Min(field)")
		f.StringSliceVar(&queryFlags.Sum, "sum", nil, "Sum(field)")
		f.StringArrayVarP(&queryFlags.Path, "path", "p", nil, "Path segment inside the object: name, '*', '[n]' or '[*]'; repeat in order")
		f.Int64VarP(&queryFlags.Limit, "limit", "l", -1, "Maximum number of records")

		f.StringArrayVar(&queryFlags.Filters.Greater, "gt", nil, "field=n, field > n")
		f.StringArrayVar(&queryFlags.Filters.GreaterOrEqual, "ge", nil, "field=n, field >= n")
		f.StringArrayVar(&queryFlags.Filters.Less, "lt", nil, "field=n, field < n")
		f.StringArrayVar(&queryFlags.Filters.LessOrEqual, "le", nil, "field=n, field <= n")
		f.StringArrayVar(&queryFlags.Filters.Equal, "eq", nil, "field=value, field = \"value\"")
		f.StringArrayVar(&queryFlags.Filters.NotEqual, "ne", nil, "field=value, field != \"value\"")
		f.StringArrayVar(&queryFlags.Filters.Null, "null", nil, "field IS MISSING")
		f.StringArrayVar(&queryFlags.Filters.NotNull, "not-null", nil, "field IS NOT MISSING")
		f.StringArrayVar(&queryFlags.Filters.In, "in", nil, "field=a,b, field IN (\"a\", \"b\")")
		f.StringArrayVar(&queryFlags.Filters.NotIn, "not-in", nil, "field=a,b, field NOT IN (\"a\", \"b\")")
		f.StringArrayVar(&queryFlags.Filters.Between, "between", nil, "field=lo:hi, field BETWEEN lo AND hi")
		f.StringArrayVar(&queryFlags.Filters.NotBetween, "not-between", nil, "field=lo:hi, field NOTBETWEEN lo AND hi")
		f.BoolVar(&queryFlags.Filters.Any, "any", false, "Join filters with OR instead of AND")
	}

	selectCmd.Flags().StringVar(&queryFlags.Input, "input", "json", "Input format: json, lines or parquet")
	selectCmd.Flags().StringVar(&queryFlags.Compression, "compression", "none", "Object body compression: none, gzip or bzip2")
	selectCmd.Flags().StringVar(&queryFlags.Delimiter, "delimiter", "", "Output record delimiter (default newline)")
	selectCmd.MarkFlagRequired("bucket")
	selectCmd.MarkFlagRequired("key")

	// ==========
	// object put
	// ==========
	objectPutCmd.Flags().StringVarP(&putFlags.Key, "key", "k", "", "Object key, a random UUID if omitted")
	objectPutCmd.Flags().StringVarP(&putFlags.ContentType, "content-type", "t", "", "Content type of the object")
	objectPutCmd.Flags().StringToStringVarP(&putFlags.Meta, "meta", "m", nil, "Custom metadata, e.g. 'owner=me,purpose=test'")
	objectPutCmd.Flags().BoolVarP(&putFlags.Compress, "compress", "z", false, "Gzip the file before upload")
	objectPutCmd.Flags().Int64Var(&putFlags.PartSize, "part-size", cli.DefaultPartSize, "Upload files larger than this in parts of this size; 0 disables multipart")

	objectGetCmd.Flags().StringVarP(&getFlags.Out, "out", "o", "", "Output file, '-' for stdout; defaults to the key's base name")
	objectGetCmd.Flags().BoolVarP(&getFlags.Decompress, "decompress", "z", false, "Gunzip the body, for objects stored with put --compress")

	objectListCmd.Flags().StringVar(&listPrefix, "prefix", "", "Only list keys with this prefix")
	objectListCmd.Flags().Int32Var(&listMax, "max-keys", 0, "Maximum number of keys, 0 for all")

	rootCmd.Execute()
}
