package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/naomijub/s3ql/pkg/object"
	"github.com/naomijub/s3ql/pkg/s3store"
)

// PutFlags configure object put.
type PutFlags struct {
	Key         string
	ContentType string
	Meta        map[string]string
	// Compress gzips the file before upload.
	Compress bool
	// PartSize switches to a multipart upload for bodies larger than it.
	PartSize int64
}

// DefaultPartSize is the multipart threshold and part size of object put.
const DefaultPartSize = 64 << 20

func useMultipart(size, partSize int64) bool {
	return partSize > 0 && size > partSize
}

// ObjectPut uploads file to bucket. A missing key is replaced by a random UUID.
func ObjectPut(flags PutFlags, bucket, file string) {
	const (
		colorYellow = "\033[33m"
		colorReset  = "\033[0m"
	)
	ctx := context.Background()

	key := flags.Key
	if key == "" {
		key = uuid.NewString()
	}

	path := file
	if flags.Compress {
		f, err := os.CreateTemp("", "*.gz")
		if err != nil {
			log.Fatal(err)
		}
		f.Close()
		defer os.Remove(f.Name()) // ensure cleanup

		log.Printf("Compressing %s", file)
		if err := GzipFile(file, f.Name()); err != nil {
			log.Fatalf("Failed to compress file: %v", err)
		}
		path = f.Name()
	}

	body, err := os.Open(path)
	if err != nil {
		log.Fatal(err)
	}
	defer body.Close()

	info, err := body.Stat()
	if err != nil {
		log.Fatal(err)
	}

	st := openStore(ctx)
	defer st.Close(ctx)

	var obj object.Object
	if useMultipart(info.Size(), flags.PartSize) {
		if flags.PartSize < s3store.MinPartSize {
			log.Fatalf("Part size must be at least %d bytes", s3store.MinPartSize)
		}
		log.Printf("Uploading %s to %s/%s%s%s in parts of %d bytes", file, bucket, colorYellow, key, colorReset, flags.PartSize)
		obj, err = st.MultipartPut(ctx, bucket, key, body, flags.PartSize, flags.ContentType, flags.Meta)
	} else {
		log.Printf("Uploading %s to %s/%s%s%s", file, bucket, colorYellow, key, colorReset)
		obj, err = st.Put(ctx, bucket, key, body, info.Size(), flags.ContentType, flags.Meta)
	}
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Key: %s\n", obj.Key)
	fmt.Printf("ETag: %s\n", obj.ETag)
	fmt.Printf("Size: %d\n", obj.Size)
}

// GetFlags configure object get.
type GetFlags struct {
	// Out is the output file, "-" for stdout. Empty uses the key's base name.
	Out string
	// Decompress gunzips the body, undoing put --compress.
	Decompress bool
}

// ObjectGet downloads bucket/key into flags.Out.
func ObjectGet(flags GetFlags, bucket, key string) {
	ctx := context.Background()
	st := openStore(ctx)
	defer st.Close(ctx)

	_, rc, err := st.Get(ctx, bucket, key, nil, object.Conditions{})
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			log.Fatalf("Object %s/%s not found", bucket, key)
		}
		log.Fatal(err)
	}
	defer rc.Close()

	out := flags.Out
	var w io.Writer = os.Stdout
	if out != "-" {
		if out == "" {
			out = filepath.Base(key)
		}
		f, err := os.Create(out)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		w = f
	}

	n, err := download(w, rc, flags.Decompress)
	if err != nil {
		log.Fatalf("download stream error: %v", err)
	}
	if out != "-" {
		log.Printf("File downloaded: %s (%d bytes)", out, n)
	}
}

func download(w io.Writer, r io.Reader, decompress bool) (int64, error) {
	if decompress {
		return Gunzip(w, r)
	}
	return io.Copy(w, r)
}

// ObjectHead prints object metadata.
func ObjectHead(bucket, key string) {
	ctx := context.Background()
	st := openStore(ctx)
	defer st.Close(ctx)

	obj, err := st.Stat(ctx, bucket, key, object.Conditions{})
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			log.Fatalf("Object %s/%s not found", bucket, key)
		}
		log.Fatal(err)
	}
	fmt.Print(formatObject(obj))
}

// ObjectList prints objects under prefix.
func ObjectList(bucket, prefix string, maxKeys int32) {
	ctx := context.Background()
	st := openStore(ctx)
	defer st.Close(ctx)

	objs, err := st.List(ctx, bucket, prefix, maxKeys)
	if err != nil {
		log.Fatal(err)
	}
	for _, obj := range objs {
		fmt.Printf("%s (%d bytes; modified at: %s)\n", obj.Key, obj.Size, obj.LastModified)
	}
}

// ObjectDelete removes objects from bucket.
func ObjectDelete(bucket string, keys []string) {
	ctx := context.Background()
	st := openStore(ctx)
	defer st.Close(ctx)

	log.Printf("Removing %d object(s)...", len(keys))
	for _, key := range keys {
		if err := st.Delete(ctx, bucket, key); err != nil {
			log.Printf("[%s] %v", key, err)
			continue
		}
		log.Printf("[%s] deleted", key)
	}
}

func formatObject(obj object.Object) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Key: %s/%s\n", obj.Bucket, obj.Key)
	fmt.Fprintf(&b, "Size: %d\n", obj.Size)
	fmt.Fprintf(&b, "ETag: %s\n", obj.ETag)
	if obj.ContentType != "" {
		fmt.Fprintf(&b, "Content-Type: %s\n", obj.ContentType)
	}
	fmt.Fprintf(&b, "Last modified: %s\n", obj.LastModified)
	for _, k := range slices.Sorted(maps.Keys(obj.CustomMeta)) {
		fmt.Fprintf(&b, "Meta %s: %s\n", k, obj.CustomMeta[k])
	}
	return b.String()
}
