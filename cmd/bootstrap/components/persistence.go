package components

import (
	"log/slog"

	"stayfinder/internal/infra/memory"
	"stayfinder/internal/infra/outbox"
	"stayfinder/internal/infra/readstore"
	"stayfinder/internal/infra/repository"
	"stayfinder/internal/infra/uow"
	"stayfinder/internal/pkg/config"
	"stayfinder/internal/usecase/queries"
	"stayfinder/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewPersistence,
	),
)

// Persistence is the write side, the read side and the outbox of one store driver.
type Persistence struct {
	fx.Out

	UoW      shared.UnitOfWork
	Listings queries.ListingReadStore
	Bookings queries.BookingReadStore
	Users    queries.UserReadStore
	Outbox   outbox.Store
}

func NewPersistence(cfg config.Config, pool *pgxpool.Pool, logger *slog.Logger) Persistence {
	if cfg.Store.Driver == config.StoreDriverMemory {
		logger.Warn("using in-memory store; data is lost on restart")
		return NewMemoryPersistence(memory.NewStore(logger))
	}
	return NewPostgresPersistence(pool, logger)
}

func NewPostgresPersistence(pool *pgxpool.Pool, logger *slog.Logger) Persistence {
	return Persistence{
		UoW:      uow.NewPostgresUoW(pool, logger),
		Listings: readstore.NewListingReadStore(pool, logger),
		Bookings: readstore.NewBookingReadStore(pool, logger),
		Users:    readstore.NewUserReadStore(pool, logger),
		Outbox:   repository.NewOutboxStore(pool, logger),
	}
}

func NewMemoryPersistence(store *memory.Store) Persistence {
	return Persistence{
		UoW:      memory.NewUnitOfWork(store),
		Listings: memory.NewListingReadStore(store),
		Bookings: memory.NewBookingReadStore(store),
		Users:    memory.NewUserReadStore(store),
		Outbox:   memory.NewOutboxStore(store),
	}
}
