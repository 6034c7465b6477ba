package app

import (
	"context"

	"github.com/carousell/ct-go/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"

	"github.com/nguyentranbao-ct/product-service/internal/config"
	"github.com/nguyentranbao-ct/product-service/internal/kafka"
	"github.com/nguyentranbao-ct/product-service/internal/repo/mailer"
	"github.com/nguyentranbao-ct/product-service/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/product-service/internal/search"
	"github.com/nguyentranbao-ct/product-service/internal/server"
	"github.com/nguyentranbao-ct/product-service/internal/usecase"
)

func Invoke(funcs ...any) *fx.App {
	log := logger.MustNamed("app")
	conf := config.MustLoad()
	log.Debugw("config loaded", log.Reflect("config", conf))
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Unwrap().Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Provide(
			newMongoDB,
			newTimeLocation,

			server.NewController,

			usecase.NewFilterBuilder,
			usecase.NewAccessGuard,
			usecase.NewProductUsecase,
			usecase.NewNotificationUsecase,

			mongodb.NewProductRepository,
			mongodb.NewUserRepository,
			mongodb.NewSiteRepository,
			mongodb.NewNotificationRepository,

			search.NewMongoIndex,

			kafka.NewProducer,
			kafka.NewNotificationHandler,
			mailer.NewClient,
		),
		fx.Supply(conf),
		fx.Invoke(InitializeSearchIndex),
		fx.Invoke(funcs...),
	)
}

// InitializeSearchIndex creates the weighted text index on startup.
func InitializeSearchIndex(lc fx.Lifecycle, db *mongodb.DB) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return search.EnsureIndexes(ctx, db)
		},
	})
}
