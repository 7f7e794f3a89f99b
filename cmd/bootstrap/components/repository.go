package components

import (
	"commerce-core/internal/infra/db"
	"commerce-core/internal/infra/readstore"
	infraredis "commerce-core/internal/infra/redis"
	repo_impl "commerce-core/internal/infra/repository"
	"commerce-core/internal/infra/uow"
	"commerce-core/internal/pkg/lock"
	"commerce-core/internal/usecase/queries"
	"commerce-core/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		infraredis.NewKVStore,
		func(kv *infraredis.KVStore) shared.KeyValueStore { return kv },
		func(kv *infraredis.KVStore) lock.Store { return kv },
		// Pool-bound repositories for work outside the unit of work:
		// the idempotency pre-check, the coupon capacity read and the
		// relay's fetch/mark cycle.
		fx.Annotate(
			repo_impl.NewPaymentRepository,
			fx.As(new(shared.PaymentRepository)),
		),
		fx.Annotate(
			repo_impl.NewCouponRepository,
			fx.As(new(shared.CouponRepository)),
		),
		fx.Annotate(
			repo_impl.NewOutboxRepository,
			fx.As(new(shared.OutboxRepository)),
		),
		// Read-side stores for queries
		fx.Annotate(
			readstore.NewOrderReadStore,
			fx.As(new(queries.OrderViewRepo)),
		),
		fx.Annotate(
			readstore.NewCouponReadStore,
			fx.As(new(queries.CouponViewRepo)),
		),
		fx.Annotate(
			readstore.NewPointReadStore,
			fx.As(new(queries.PointViewRepo)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
