package cli

import (
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// GzipFile compresses src into destGz so the stored object can be queried
// with GZIP body compression.
func GzipFile(src, destGz string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(destGz)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := gzip.NewWriter(out)
	if _, err := io.Copy(zw, in); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return out.Close()
}

// Gunzip decompresses the gzip stream src into dst and returns the number of
// decompressed bytes written.
func Gunzip(dst io.Writer, src io.Reader) (int64, error) {
	zr, err := gzip.NewReader(src)
	if err != nil {
		return 0, err
	}
	defer zr.Close()

	return io.Copy(dst, zr)
}
