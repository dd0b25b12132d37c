package cli

import (
	"context"
	"log"

	"github.com/naomijub/s3ql/internal/config"
	"github.com/naomijub/s3ql/pkg/s3store"
)

// EnvFile is read before any command touches the store.
var EnvFile = ".env"

func openStore(ctx context.Context) *s3store.Storage {
	config.Load(EnvFile)

	cfg, err := config.Storage()
	if err != nil {
		log.Fatal(err)
	}

	st := &s3store.Storage{}
	if err := st.Init(ctx, cfg); err != nil {
		log.Fatal(err)
	}
	return st
}
