package blob

import (
	"go.uber.org/fx"

	"github.com/polkiloo/sourbakery/internal/config"
	"github.com/polkiloo/sourbakery/internal/usecase"
)

// Module provides the product image store.
var Module = fx.Options(
	fx.Provide(newFSStore),
	fx.Provide(func(s *FSStore) usecase.BlobStore { return s }),
)

func newFSStore(cfg *config.Config) (*FSStore, error) {
	return NewFSStore(cfg.BlobDir)
}
