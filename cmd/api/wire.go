//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 使用方式：
// Step 1: 运行 `wire gen ./cmd/api`
// Step 2: Wire生成wire_gen.go,包含完整的依赖创建代码
// Step 3: main.go改为调用InitializeApp()
//
// 核心概念：
// - Provider: 提供依赖的构造函数（如NewBookRepository）
// - Injector: 声明最终要构造的目标类型（*gin.Engine）
// - wire.Build(): 告诉Wire如何组装依赖链

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	apprelation "github.com/xiebiao/bookshelf/internal/application/relation"
	appuser "github.com/xiebiao/bookshelf/internal/application/user"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/relation"
	"github.com/xiebiao/bookshelf/internal/domain/user"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshelf/internal/interface/http/handler"
	"github.com/xiebiao/bookshelf/pkg/jwt"
	"github.com/xiebiao/bookshelf/pkg/mq"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,     // 加载配置文件
	mysql.NewDB,     // 创建MySQL连接
	redis.NewClient, // 创建Redis连接
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,     // 用户仓储
	mysql.NewBookRepository,     // 图书仓储
	mysql.NewRelationRepository, // 关系仓储
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	user.NewService,     // 用户领域服务
	book.NewService,     // 图书领域服务
	relation.NewService, // 关系领域服务
	provideRatingWriter, // 评分写回器(由图书仓储兼任)
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appbook.NewCreateBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewUpdateBookUseCase,
	apprelation.NewPatchRelationUseCase,
	provideEventPublisher,
)

// middlewareSet 中间件相关依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideSessionStore,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	provideUserHandler,
	handler.NewBookHandler,
	handler.NewRelationHandler,
)

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建Session存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideRatingWriter 图书仓储兼任评分写回器
func provideRatingWriter(repo book.Repository) relation.BookRatingWriter {
	return repo
}

// provideEventPublisher 按配置创建事件发布者
// RabbitMQ关闭或连接失败时退化为no-op
func provideEventPublisher(cfg *config.Config) apprelation.EventPublisher {
	if !cfg.RabbitMQ.Enabled {
		return apprelation.NoopPublisher{}
	}
	p, err := mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, "topic")
	if err != nil {
		return apprelation.NoopPublisher{}
	}
	return p
}

// provideUserHandler 用户处理器需要额外的token过期时长参数
func provideUserHandler(
	registerUC *appuser.RegisterUseCase,
	loginUC *appuser.LoginUseCase,
	logoutUC *appuser.LogoutUseCase,
	cfg *config.Config,
) *handler.UserHandler {
	return handler.NewUserHandler(registerUC, loginUC, logoutUC, cfg.JWT.AccessTokenExpire)
}

// provideGinEngine 创建并配置Gin引擎
func provideGinEngine(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	relationHandler *handler.RelationHandler,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	registerRoutes(r, cfg, userHandler, bookHandler, relationHandler, jwtManager, sessionStore)
	return r
}

// InitializeApp 初始化整个应用
// Wire会在wire_gen.go中生成实际的初始化代码,这里的返回值是占位符
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideGinEngine,
	)
	return nil, nil
}
