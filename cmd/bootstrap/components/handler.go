package components

import (
	"commerce-core/internal/handler"
	"commerce-core/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewOrderHandler,
		api.NewCouponHandler,
		api.NewPointHandler,
		api.NewOutboxHandler,
	),
	fx.Invoke(handler.NewRouter),
)
