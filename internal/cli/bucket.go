package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/naomijub/s3ql/pkg/object"
)

// BucketCreate creates a bucket.
func BucketCreate(name string) {
	ctx := context.Background()
	st := openStore(ctx)
	defer st.Close(ctx)

	if err := st.CreateBucket(ctx, name); err != nil {
		if errors.Is(err, object.ErrConflict) {
			log.Fatalf("Bucket %s already exists", name)
		}
		log.Fatal(err)
	}
	fmt.Printf("Bucket created: %s\n", name)
}

// BucketList prints every bucket.
func BucketList() {
	ctx := context.Background()
	st := openStore(ctx)
	defer st.Close(ctx)

	buckets, err := st.ListBuckets(ctx)
	if err != nil {
		log.Fatal(err)
	}
	for _, b := range buckets {
		fmt.Printf("%s (created at: %s)\n", b.Name, b.CreatedAt.Format(time.RFC3339))
	}
}

// BucketHead reports whether a bucket exists.
func BucketHead(name string) {
	ctx := context.Background()
	st := openStore(ctx)
	defer st.Close(ctx)

	if err := st.HasBucket(ctx, name); err != nil {
		if errors.Is(err, object.ErrBucketNotFound) {
			log.Fatalf("Bucket %s not found", name)
		}
		log.Fatal(err)
	}
	fmt.Printf("Bucket exists: %s\n", name)
}

// BucketDelete removes an empty bucket.
func BucketDelete(name string) {
	ctx := context.Background()
	st := openStore(ctx)
	defer st.Close(ctx)

	if err := st.DeleteBucket(ctx, name); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Bucket deleted: %s\n", name)
}
