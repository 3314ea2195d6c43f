package app

import (
	"context"
	"time"

	"storefront/internal/broker"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/handler"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/server"
	"storefront/internal/usecase"
	auth "storefront/internal/usecase/auth_usecase"
	"storefront/internal/validator"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 外から渡す接続類（cache/producerはnilなら無効）
type Deps struct {
	Config   config.Config
	DB       *gorm.DB
	Cache    *cache.Redis
	Producer *broker.Producer
	Logger   *zap.Logger
}

// 組み立て済みの部品
type Container struct {
	ProductUC *usecase.ProductUsecase
	CartUC    *usecase.CartUsecase
	OrderUC   *usecase.OrderUsecase

	RegisterUC *auth.RegisterUserUsecase
	LoginUC    *auth.LoginUsecase
	MeUC       *auth.GetMeUsecase

	Handlers server.Handlers
}

func NewContainer(d Deps) *Container {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(d.DB)
	productRepo := infraRepo.NewProductGormRepository(d.DB)
	cartRepo := infraRepo.NewCartGormRepository(d.DB)
	txm := infraRepo.NewTxManagerGorm(d.DB)

	//Usecase生成
	productUC := usecase.NewProductUsecase(productRepo, d.Cache, log.Named("catalog"))
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo, log.Named("cart"))
	orderUC := usecase.NewOrderUsecase(txm, d.Producer, productUC, log.Named("order"))

	v := validator.NewAuthValidator()
	issuer := auth.NewJWTIssuer(d.Config.JWTSecret, d.Config.JWTTTL)
	clock := auth.SystemClock{}
	registerUC := auth.NewRegisterUserUsecase(userRepo, v, auth.NewBcryptPasswordHasher(d.Config.BcryptCost), issuer, clock)
	loginUC := auth.NewLoginUsecase(userRepo, v, auth.NewBcryptPasswordVerifier(), issuer, clock)
	meUC := auth.NewGetMeUsecase(userRepo)

	return &Container{
		ProductUC:  productUC,
		CartUC:     cartUC,
		OrderUC:    orderUC,
		RegisterUC: registerUC,
		LoginUC:    loginUC,
		MeUC:       meUC,
		Handlers: server.Handlers{
			Product: handler.NewProductHandler(productUC),
			Auth:    handler.NewAuthHandler(registerUC, loginUC, meUC, log.Named("auth")),
			Cart:    handler.NewCartHandler(cartUC),
			Order:   handler.NewOrderHandler(orderUC),
		},
	}
}

// NewHTTP はルート付きのechoを返す
func NewHTTP(d Deps) *echo.Echo {
	c := NewContainer(d)
	return server.New(server.Options{
		JWTSecret:   d.Config.JWTSecret,
		CORSOrigins: d.Config.CORSOrigins,
		Logger:      d.Logger,
		Ready:       dbReady(d.DB),
	}, c.Handlers)
}

func dbReady(gdb *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return sqlDB.PingContext(ctx)
	}
}
