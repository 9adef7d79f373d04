// Command pagemedia reconciles media documents in the search index with
// the pages that use them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/pagemedia/internal/adapters/driven/config/file"
	indexsqlite "github.com/custodia-labs/pagemedia/internal/adapters/driven/index/sqlite"
	memorylock "github.com/custodia-labs/pagemedia/internal/adapters/driven/lock/memory"
	redislock "github.com/custodia-labs/pagemedia/internal/adapters/driven/lock/redis"
	"github.com/custodia-labs/pagemedia/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pagemedia/internal/adapters/driving/cli"
	"github.com/custodia-labs/pagemedia/internal/core/domain"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driven"
	"github.com/custodia-labs/pagemedia/internal/core/services"
	"github.com/custodia-labs/pagemedia/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// PAGEMEDIA_HOME relocates config and data, default ~/.pagemedia.
	home := os.Getenv("PAGEMEDIA_HOME")

	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return fail("loading config", err)
	}
	configService := services.NewConfigService(configStore)
	cfg, err := configService.Get()
	if err != nil {
		return fail("reading config", err)
	}
	if cfg.Storage.DataDir == "" && home != "" {
		cfg.Storage.DataDir = filepath.Join(home, "data")
	}

	store, err := sqlite.Open(cfg.Storage)
	if err != nil {
		return fail("opening store", err)
	}
	defer store.Close()

	schema := services.NewDocumentSchema()

	indexPath := cfg.Index.Path
	if indexPath == "" && cfg.Storage.DataDir != "" {
		indexPath = filepath.Join(cfg.Storage.DataDir, "index.db")
	}
	index, err := indexsqlite.NewIndex(indexPath, schema.CreatedHook())
	if err != nil {
		return fail("opening index", err)
	}
	defer index.Close()

	locker, closeLocker, err := newLocker(cfg.Lock)
	if err != nil {
		return fail("connecting lock service", err)
	}
	defer closeLocker()

	merger := services.NewFieldMerger(driven.MapObserverFunc(
		func(_ context.Context, media *domain.MediaDocument, page domain.PageDocument) error {
			logger.Debug("mapped page", "media", media.ID(), "page", page.ID)
			return nil
		}))

	reconciler := services.NewReconciler(
		services.NewUsageResolver(store.UsageStore(), services.UsageResolverOptions{
			FolderUsage: cfg.Reconcile.FolderUsage,
		}),
		services.NewPageLocator(index),
		services.NewContainmentVerifier(store.TreeStore(), store.ContentValueStore()),
		merger,
		schema,
		services.NewPolicyResolver(store.SiterootStore()),
		index,
		locker,
		services.ReconcilerOptions{
			Workers:       cfg.Reconcile.Workers,
			AssetTypeGate: cfg.Reconcile.AssetTypeGate,
		},
	)

	jobQueue := services.NewJobQueue(cfg.Queue, store.JobStore(), reconciler)
	defer func() { _ = jobQueue.Stop() }()

	nodeEvents := services.NewNodeEvents(jobQueue)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Reconciler:    reconciler,
		JobQueue:      jobQueue,
		NodeEvents:    nodeEvents,
		Importer:      services.NewImporter(store, index, nodeEvents),
		ConfigService: configService,
	})

	return cli.Execute(ctx)
}

// newLocker returns the redis locker when configured and an in-process
// locker otherwise.
func newLocker(cfg domain.LockConfig) (driven.IdentityLocker, func(), error) {
	if cfg.RedisAddr == "" {
		return memorylock.NewLocker(), func() {}, nil
	}
	l, err := redislock.NewLocker(cfg.RedisAddr, cfg.TTL)
	if err != nil {
		return nil, nil, err
	}
	return l, func() { _ = l.Close() }, nil
}

func fail(step string, err error) error {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", step, err)
	return err
}
