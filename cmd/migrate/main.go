package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/tropicaldog17/folio/internal/config"
	"github.com/tropicaldog17/folio/internal/db"
	"github.com/tropicaldog17/folio/internal/repositories"
)

// migrate copies the portfolio snapshot from one storage backend to another,
// upgrading legacy snapshots on the way.
func main() {
	from := flag.String("from", config.StorageFile, "source backend (file, sqlite, postgres)")
	to := flag.String("to", config.StoragePostgres, "destination backend (file, sqlite, postgres)")
	force := flag.Bool("force", false, "overwrite a non-empty destination")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	ctx := context.Background()
	src, closeSrc, err := openBackend(cfg, *from)
	if err != nil {
		log.Fatalf("Failed to open source %s: %v", *from, err)
	}
	defer closeSrc()

	dst, closeDst, err := openBackend(cfg, *to)
	if err != nil {
		log.Fatalf("Failed to open destination %s: %v", *to, err)
	}
	defer closeDst()

	snap, err := copySnapshot(ctx, src, dst, *force)
	if err != nil {
		log.Fatal("Migration failed:", err)
	}
	log.Printf("Migrated %d holdings at revision %d from %s to %s", len(snap.Holdings), snap.Revision, *from, *to)
}

func openBackend(cfg *config.Config, backend string) (repositories.SnapshotRepository, func(), error) {
	switch backend {
	case config.StorageFile:
		return repositories.NewFileSnapshotRepository(cfg.Storage.FilePath), func() {}, nil
	case config.StorageSQLite, config.StoragePostgres:
		dbCfg := cfg.Storage.Database
		dbCfg.Driver = backend
		database, err := db.Connect(&dbCfg)
		if err != nil {
			return nil, nil, err
		}
		repo, err := repositories.NewSnapshotRepository(database, repositories.DefaultSnapshotKey)
		if err != nil {
			database.Close()
			return nil, nil, err
		}
		return repo, func() { database.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", backend)
	}
}
