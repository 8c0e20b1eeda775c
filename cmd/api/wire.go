//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/infrastructure/persistence/sqlstore"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/router"
)

// infrastructureSet 数据库、Redis、缓存、消息、JWT
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	provideCache,
	provideEventPublisher,
	provideJWTManager,
	redis.NewSessionStore,
)

// repositorySet 仓储
var repositorySet = wire.NewSet(
	sqlstore.NewTxManager,
	sqlstore.NewAuthorRepository,
	sqlstore.NewCategoryRepository,
	sqlstore.NewBranchRepository,
	sqlstore.NewBookRepository,
	sqlstore.NewCustomerRepository,
	sqlstore.NewLoanRepository,
	sqlstore.NewReviewRepository,
	sqlstore.NewStaffRepository,
	sqlstore.NewDashboardReader,
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	provideAuthorService,
	provideCategoryService,
	provideBranchService,
	provideBookService,
	provideCustomerService,
	provideReviewService,
	provideStaffService,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	provideAuthorUseCase,
	provideCategoryUseCase,
	provideBranchUseCase,
	provideBookUseCase,
	provideCustomerUseCase,
	provideReviewUseCase,
	provideLoanUseCase,
	provideStaffUseCase,
	provideDashboardUseCase,
)

// handlerSet HTTP处理器与路由
var handlerSet = wire.NewSet(
	handler.NewAuthHandler,
	handler.NewAuthorHandler,
	handler.NewCategoryHandler,
	handler.NewBranchHandler,
	handler.NewBookHandler,
	handler.NewCustomerHandler,
	handler.NewLoanHandler,
	handler.NewReviewHandler,
	handler.NewDashboardHandler,
	wire.Struct(new(router.Handlers), "*"),
	provideAuthMiddleware,
	provideRouterOptions,
	router.New,
)

// InitializeApp 初始化整个应用
// cleanup按创建的逆序关闭消息连接、Redis、数据库
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		handlerSet,
		provideSweep,
		newApp,
	)
	return nil, nil, nil
}
