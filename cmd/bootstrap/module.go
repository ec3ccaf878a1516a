package bootstrap

import (
	"stayfinder/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	JWTModule,
	StorageModule,
	components.PersistenceModule,
	components.UseCaseModule,
	EventsModule,
	components.HandlerModule,
)
