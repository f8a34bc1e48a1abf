package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	snapshotadapters "stock_ingest/internal/feature/snapshots/adapters"
	snapshothandler "stock_ingest/internal/feature/snapshots/transport/handler"
	snapshotusecase "stock_ingest/internal/feature/snapshots/usecase"
	"stock_ingest/internal/platform/cache"
	"stock_ingest/internal/platform/http/handler"
)

// ReadAPI holds the handlers served by cmd/server.
type ReadAPI struct {
	Snapshots *snapshothandler.SnapshotHandler
	Status    *handler.StatusHandler
}

// NewReadAPI wires the read path. rdb may be nil, in which case reads go straight to the database.
func NewReadAPI(db *gorm.DB, rdb *redis.Client) ReadAPI {
	reader := snapshotadapters.NewSnapshotReader(db)
	cached := cache.NewCachingSnapshotReader(rdb, cache.DefaultTTL, reader, cache.DefaultNamespace)
	uc := snapshotusecase.NewSnapshotUsecase(cached)

	return ReadAPI{
		Snapshots: snapshothandler.NewSnapshotHandler(uc),
		Status:    handler.NewStatusHandler(uc, rdb),
	}
}
