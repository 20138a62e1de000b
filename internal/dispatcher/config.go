package dispatcher

import (
	"time"
)

type Config struct {
	// Timer for performing data cleaning operations in the DB
	RebuildDBTime time.Duration `envconfig:"KNC_DISPATCHER_REBUILD_DB_TIME" default:"15s"`
	// Minimum dataset size before classification requests are served
	SkipItems int `envconfig:"KNC_DISPATCHER_SKIP_ITEMS" default:"1"`
	// maximum number of elements in the DB for each entity
	MaxItemsStored int `envconfig:"KNC_DISPATCHER_MAX_ITEMS_STORED" default:"1000000"`
	// maximum retention period for elements in the DB for each entity
	MaxStorageTime time.Duration `envconfig:"KNC_DISPATCHER_MAX_STORAGE_TIME" default:"0s"`
	// Critical buffer size in dbTxExecutor where data is flushed to disk
	DBFlushSize int `envconfig:"KNC_DB_FLUSH_SIZE" default:"10"`
	// Critical time of life in dbTxExecutor buffer in which data to be flushed to disk
	DBFlushTime time.Duration `envconfig:"KNC_DB_FLUSH_TIME" default:"5s"`
}
