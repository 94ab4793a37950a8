package services_test

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/mozartiade/archive/modules/catalog/domain/work"
	"github.com/mozartiade/archive/modules/catalog/infrastructure/persistence"
	"github.com/mozartiade/archive/modules/catalog/services"
	"github.com/mozartiade/archive/pkg/composables"
	"github.com/mozartiade/archive/pkg/eventbus"
	"github.com/mozartiade/archive/pkg/logging"
	"github.com/mozartiade/archive/pkg/ordering"
)

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func canDialPostgres(tb testing.TB) bool {
	tb.Helper()
	addr := net.JoinHostPort(getenvDefault("DB_HOST", "localhost"), getenvDefault("DB_PORT", "5432"))
	conn, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

func connString(dbName string) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		getenvDefault("DB_HOST", "localhost"),
		getenvDefault("DB_PORT", "5432"),
		getenvDefault("DB_USER", "postgres"),
		dbName,
		getenvDefault("DB_PASSWORD", "postgres"),
	)
}

// setupCatalogDB creates a scratch database, applies the core and catalog
// schemas and returns a context carrying the pool.
func setupCatalogDB(tb testing.TB) context.Context {
	tb.Helper()
	if !canDialPostgres(tb) {
		tb.Skip("postgres is not reachable; skipping integration test")
	}

	ctx := context.Background()
	adminPool, err := pgxpool.New(ctx, connString(getenvDefault("DB_NAME", "postgres")))
	require.NoError(tb, err)

	dbName := fmt.Sprintf("mozartiade_test_%d", time.Now().UnixNano())
	_, err = adminPool.Exec(ctx, "CREATE DATABASE "+dbName)
	require.NoError(tb, err)
	tb.Cleanup(func() {
		_, _ = adminPool.Exec(context.Background(), "DROP DATABASE "+dbName+" WITH (FORCE)")
		adminPool.Close()
	})

	pool, err := pgxpool.New(ctx, connString(dbName))
	require.NoError(tb, err)
	tb.Cleanup(pool.Close)

	for _, f := range []string{
		filepath.Join("..", "..", "core", "infrastructure", "persistence", "schema", "001-core-schema.sql"),
		filepath.Join("..", "infrastructure", "persistence", "schema", "002-catalog-schema.sql"),
	} {
		sql, err := os.ReadFile(f)
		require.NoError(tb, err)
		_, err = pool.Exec(ctx, string(sql))
		require.NoError(tb, err, "failed schema %s", f)
	}

	return composables.WithPool(ctx, pool)
}

func newIntegrationWorkService(repo work.Repository) *services.WorkService {
	bus := eventbus.NewEventPublisher(logging.ConsoleLogger(logrus.PanicLevel))
	return services.NewWorkService(repo, bus, ordering.NewGuard(), ordering.Clamp)
}

func seedBucket(tb testing.TB, ctx context.Context, svc *services.WorkService, year int, kochels ...string) []*work.Work {
	tb.Helper()
	works := make([]*work.Work, len(kochels))
	for i, k := range kochels {
		created, err := svc.Create(ctx, &work.Work{
			Kochel: k,
			Title:  "Work " + k,
			Year:   year,
		})
		require.NoError(tb, err)
		works[i] = created
	}
	return works
}

func bucketOrders(tb testing.TB, ctx context.Context, repo work.Repository, year int) map[string]int {
	tb.Helper()
	bucket, err := repo.ListYearBucket(ctx, year)
	require.NoError(tb, err)
	orders := make(map[string]int, len(bucket))
	for _, w := range bucket {
		orders[w.Kochel] = w.SortOrder
	}
	return orders
}

func TestWorkServiceCreateAppendsToYearBucket(t *testing.T) {
	ctx := setupCatalogDB(t)
	repo := persistence.NewWorkRepository()
	svc := newIntegrationWorkService(repo)

	seedBucket(t, ctx, svc, 1784, "K. 449", "K. 450", "K. 451")

	orders := bucketOrders(t, ctx, repo, 1784)
	require.Equal(t, map[string]int{"K. 449": 1, "K. 450": 2, "K. 451": 3}, orders)
}

func TestWorkServiceReorderPersistsDenseOrder(t *testing.T) {
	ctx := setupCatalogDB(t)
	repo := persistence.NewWorkRepository()
	svc := newIntegrationWorkService(repo)

	works := seedBucket(t, ctx, svc, 1784, "K. 449", "K. 450", "K. 451")

	// Move the last work to the front.
	require.NoError(t, svc.Reorder(ctx, works[2].ID, 1784, 0))
	orders := bucketOrders(t, ctx, repo, 1784)
	require.Equal(t, map[string]int{"K. 451": 1, "K. 449": 2, "K. 450": 3}, orders)

	// Move the (now) first work to the end.
	require.NoError(t, svc.Reorder(ctx, works[2].ID, 1784, 2))
	orders = bucketOrders(t, ctx, repo, 1784)
	require.Equal(t, map[string]int{"K. 449": 1, "K. 450": 2, "K. 451": 3}, orders)
}

func TestWorkServiceReorderNoOpKeepsOrder(t *testing.T) {
	ctx := setupCatalogDB(t)
	repo := persistence.NewWorkRepository()
	svc := newIntegrationWorkService(repo)

	works := seedBucket(t, ctx, svc, 1784, "K. 449", "K. 450")

	require.NoError(t, svc.Reorder(ctx, works[0].ID, 1784, 0))
	orders := bucketOrders(t, ctx, repo, 1784)
	require.Equal(t, map[string]int{"K. 449": 1, "K. 450": 2}, orders)
}

func TestWorkServiceReorderClampsOvershoot(t *testing.T) {
	ctx := setupCatalogDB(t)
	repo := persistence.NewWorkRepository()
	svc := newIntegrationWorkService(repo)

	works := seedBucket(t, ctx, svc, 1784, "K. 449", "K. 450", "K. 451")

	require.NoError(t, svc.Reorder(ctx, works[0].ID, 1784, 99))
	orders := bucketOrders(t, ctx, repo, 1784)
	require.Equal(t, map[string]int{"K. 450": 1, "K. 451": 2, "K. 449": 3}, orders)
}

// failingOrdersRepository persists a prefix of the batch and then fails, to
// prove the surrounding transaction rolls the prefix back.
type failingOrdersRepository struct {
	work.Repository
	failAfter int
}

func (f *failingOrdersRepository) UpdateOrders(ctx context.Context, updates []ordering.Update) error {
	if len(updates) > f.failAfter {
		if err := f.Repository.UpdateOrders(ctx, updates[:f.failAfter]); err != nil {
			return err
		}
		return errors.New("storage failure")
	}
	return f.Repository.UpdateOrders(ctx, updates)
}

func TestWorkServiceReorderRollsBackOnPartialFailure(t *testing.T) {
	ctx := setupCatalogDB(t)
	repo := persistence.NewWorkRepository()
	svc := newIntegrationWorkService(repo)

	works := seedBucket(t, ctx, svc, 1784, "K. 449", "K. 450", "K. 451")
	before := bucketOrders(t, ctx, repo, 1784)

	failing := newIntegrationWorkService(&failingOrdersRepository{Repository: repo, failAfter: 2})
	err := failing.Reorder(ctx, works[2].ID, 1784, 0)
	require.Error(t, err)

	require.Equal(t, before, bucketOrders(t, ctx, repo, 1784))
}

func TestWorkServiceUpdateRefiningDateClosesGap(t *testing.T) {
	ctx := setupCatalogDB(t)
	repo := persistence.NewWorkRepository()
	svc := newIntegrationWorkService(repo)

	works := seedBucket(t, ctx, svc, 1784, "K. 449", "K. 450", "K. 451")

	month := 3
	middle := *works[1]
	middle.Month = &month
	_, err := svc.Update(ctx, &middle)
	require.NoError(t, err)

	orders := bucketOrders(t, ctx, repo, 1784)
	require.Equal(t, map[string]int{"K. 449": 1, "K. 451": 2}, orders)
}

func TestWorkServiceDeleteClosesGap(t *testing.T) {
	ctx := setupCatalogDB(t)
	repo := persistence.NewWorkRepository()
	svc := newIntegrationWorkService(repo)

	works := seedBucket(t, ctx, svc, 1784, "K. 449", "K. 450", "K. 451")

	require.NoError(t, svc.Delete(ctx, works[0].ID))
	orders := bucketOrders(t, ctx, repo, 1784)
	require.Equal(t, map[string]int{"K. 450": 1, "K. 451": 2}, orders)
}
