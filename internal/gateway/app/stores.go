package app

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	interviewcache "prepwise/internal/cache/interview"
	"prepwise/internal/gateway/config"
	"prepwise/internal/gateway/repository/cover"
	feedbackrepo "prepwise/internal/gateway/repository/feedback"
	interviewrepo "prepwise/internal/gateway/repository/interview"
	userrepo "prepwise/internal/gateway/repository/user"
	"prepwise/internal/identity"
	"prepwise/internal/logging"
)

type gatewayStores struct {
	users      userrepo.Store
	interviews interviewrepo.Store
	feedback   feedbackrepo.Store
	covers     cover.Store
	closers    []func()
}

func (s *gatewayStores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func initStores(ctx context.Context, cfg *config.Config, idp *identity.FirebaseProvider) (*gatewayStores, error) {
	var (
		stores *gatewayStores
		err    error
	)
	switch cfg.Store.Backend {
	case config.StorePostgres:
		stores, err = initPostgresStores(ctx, cfg.Store)
	case config.StoreFirestore:
		stores, err = initFirestoreStores(ctx, idp)
	default:
		stores = initInMemoryStores()
	}
	if err != nil {
		return nil, err
	}
	logging.L().Info("document store ready", zap.String("backend", cfg.Store.Backend))

	stores.interviews = interviewcache.NewCachedStore(stores.interviews, interviewcache.CacheConfig{
		MaxEntries: cfg.Cache.InterviewSize,
		TTL:        cfg.Cache.InterviewTTL,
	})

	coverStore, err := chooseCoverStore(ctx, cfg.Cover)
	if err != nil {
		stores.close()
		return nil, err
	}
	stores.covers = coverStore
	return stores, nil
}

func initPostgresStores(ctx context.Context, cfg config.StoreConfig) (*gatewayStores, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach db: %w", err)
	}
	return &gatewayStores{
		users:      userrepo.NewPostgresStore(pool),
		interviews: interviewrepo.NewPostgresStore(pool),
		feedback:   feedbackrepo.NewPostgresStore(pool),
		closers:    []func(){pool.Close},
	}, nil
}

func initFirestoreStores(ctx context.Context, idp *identity.FirebaseProvider) (*gatewayStores, error) {
	client, err := idp.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open firestore: %w", err)
	}
	return &gatewayStores{
		users:      userrepo.NewFirestoreStore(client),
		interviews: interviewrepo.NewFirestoreStore(client),
		feedback:   feedbackrepo.NewFirestoreStore(client),
		closers:    []func(){closeFirestore(client)},
	}, nil
}

func closeFirestore(client *firestore.Client) func() {
	return func() {
		if err := client.Close(); err != nil {
			logging.L().Warn("closing firestore failed", zap.Error(err))
		}
	}
}

func initInMemoryStores() *gatewayStores {
	return &gatewayStores{
		users:      userrepo.NewMemoryStore(),
		interviews: interviewrepo.NewMemoryStore(),
		feedback:   feedbackrepo.NewMemoryStore(),
	}
}

// chooseCoverStore returns nil when object storage is not configured.
func chooseCoverStore(ctx context.Context, cfg config.CoverConfig) (cover.Store, error) {
	if !cfg.CanUseS3() {
		if cfg.Enabled {
			logging.L().Warn("cover store disabled: s3 config incomplete")
		}
		return nil, nil
	}
	s3Store, err := cover.NewS3Store(cover.S3Config{
		Endpoint:  cfg.Endpoint,
		Region:    cfg.Region,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cover s3 store: %w", err)
	}
	logging.L().Info("cover store: s3", zap.String("bucket", cfg.Bucket), zap.String("endpoint", cfg.Endpoint))
	if cfg.SeedDir != "" {
		n, err := cover.Seed(ctx, s3Store, cfg.SeedDir)
		if err != nil {
			return nil, fmt.Errorf("failed to seed covers: %w", err)
		}
		logging.L().Info("covers seeded", zap.Int("count", n), zap.String("dir", cfg.SeedDir))
	}
	return s3Store, nil
}
