package main

import (
	"context"
	"embed"
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/mozartiade/archive/modules"
	"github.com/mozartiade/archive/modules/catalog/domain/work"
	catalogpersistence "github.com/mozartiade/archive/modules/catalog/infrastructure/persistence"
	"github.com/mozartiade/archive/modules/chronicle/domain/event"
	chroniclepersistence "github.com/mozartiade/archive/modules/chronicle/infrastructure/persistence"
	"github.com/mozartiade/archive/modules/core/domain/aggregates/admin"
	corepersistence "github.com/mozartiade/archive/modules/core/infrastructure/persistence"
	"github.com/mozartiade/archive/pkg/application"
	"github.com/mozartiade/archive/pkg/composables"
	"github.com/mozartiade/archive/pkg/configuration"
	"github.com/mozartiade/archive/pkg/eventbus"
	"github.com/mozartiade/archive/pkg/kochel"
)

//go:embed data/*.json
var seedFiles embed.FS

type seedWork struct {
	Kochel      string `json:"kochel"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Year        int    `json:"year"`
	Month       *int   `json:"month"`
	Day         *int   `json:"day"`
	Description string `json:"description"`
}

type seedEvent struct {
	Year     int    `json:"year"`
	Month    *int   `json:"month"`
	Day      *int   `json:"day"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category"`
}

func main() {
	conf := configuration.Use()
	defer conf.Unload()
	log := conf.Logger()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		log.WithError(err).Fatal("failed to create database pool")
	}
	defer pool.Close()

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(log),
		Logger:   log,
	})
	if err := application.Load(app, modules.BuiltInModules...); err != nil {
		log.WithError(err).Fatal("failed to load modules")
	}
	if err := app.Migrations().Apply(ctx); err != nil {
		log.WithError(err).Fatal("failed to apply migrations")
	}

	ctx = composables.WithPool(ctx, pool)
	if err := seedAdmin(ctx, log); err != nil {
		log.WithError(err).Fatal("failed to seed admin")
	}
	if err := seedWorks(ctx, log); err != nil {
		log.WithError(err).Fatal("failed to seed works")
	}
	if err := seedChronicle(ctx, log); err != nil {
		log.WithError(err).Fatal("failed to seed chronicle")
	}
	log.Info("seeding complete")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func seedAdmin(ctx context.Context, log *logrus.Logger) error {
	email := envOr("SEED_ADMIN_EMAIL", "admin@mozartiade.local")
	name := envOr("SEED_ADMIN_NAME", "Administrator")
	password := envOr("SEED_ADMIN_PASSWORD", "change-me-now")

	repo := corepersistence.NewAdminRepository()
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		log.WithField("email", email).Info("admin already present, skipping")
		return nil
	} else if !errors.Is(err, admin.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hashing admin password")
	}
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		_, err := repo.Create(txCtx, &admin.Admin{
			Email:        email,
			Name:         name,
			PasswordHash: string(hash),
			Role:         admin.RoleSuperAdmin,
		})
		return err
	})
	if err != nil {
		return err
	}
	log.WithField("email", email).Info("super admin created")
	return nil
}

func loadSeedFile(name string, dst interface{}) error {
	raw, err := seedFiles.ReadFile(name)
	if err != nil {
		return errors.Wrap(err, "reading seed file")
	}
	return errors.Wrap(json.Unmarshal(raw, dst), "decoding seed file")
}

func seedWorks(ctx context.Context, log *logrus.Logger) error {
	repo := catalogpersistence.NewWorkRepository()
	count, err := repo.Count(ctx, nil)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Info("works already present, skipping")
		return nil
	}

	var seeds []seedWork
	if err := loadSeedFile("data/works.json", &seeds); err != nil {
		return err
	}

	// Year-only works get their initial order from the Köchel sequence
	// within each year; dated works carry no manual order.
	byYear := make(map[int][]*seedWork)
	for i := range seeds {
		s := &seeds[i]
		if s.Month == nil && s.Day == nil {
			byYear[s.Year] = append(byYear[s.Year], s)
		}
	}
	orders := make(map[*seedWork]int)
	for _, bucket := range byYear {
		sort.SliceStable(bucket, func(i, j int) bool {
			return compareKochel(bucket[i].Kochel, bucket[j].Kochel) < 0
		})
		for i, s := range bucket {
			orders[s] = i + 1
		}
	}

	err = composables.InBatchTx(ctx, func(txCtx context.Context) error {
		for i := range seeds {
			s := &seeds[i]
			if _, err := repo.Create(txCtx, &work.Work{
				Kochel:      s.Kochel,
				Title:       s.Title,
				Category:    s.Category,
				Year:        s.Year,
				Month:       s.Month,
				Day:         s.Day,
				SortOrder:   orders[s],
				Description: s.Description,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.WithField("count", len(seeds)).Info("works seeded")
	return nil
}

func compareKochel(a, b string) int {
	na, errA := kochel.Parse(a)
	nb, errB := kochel.Parse(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	return kochel.Compare(na, nb)
}

func seedChronicle(ctx context.Context, log *logrus.Logger) error {
	repo := chroniclepersistence.NewEventRepository()
	count, err := repo.Count(ctx, nil)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Info("chronicle already present, skipping")
		return nil
	}

	var seeds []seedEvent
	if err := loadSeedFile("data/chronicle.json", &seeds); err != nil {
		return err
	}

	// Year-only entries keep their file order within each year.
	nextOrder := make(map[int]int)
	err = composables.InBatchTx(ctx, func(txCtx context.Context) error {
		for _, s := range seeds {
			order := 0
			if s.Month == nil && s.Day == nil {
				nextOrder[s.Year]++
				order = nextOrder[s.Year]
			}
			if _, err := repo.Create(txCtx, &event.Event{
				Year:      s.Year,
				Month:     s.Month,
				Day:       s.Day,
				Title:     s.Title,
				Body:      s.Body,
				Category:  s.Category,
				SortOrder: order,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.WithField("count", len(seeds)).Info("chronicle seeded")
	return nil
}
