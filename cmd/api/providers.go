package main

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/application"
	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/application/catalog"
	appcustomer "github.com/xiebiao/library/internal/application/customer"
	appdashboard "github.com/xiebiao/library/internal/application/dashboard"
	loanapp "github.com/xiebiao/library/internal/application/loan"
	appreview "github.com/xiebiao/library/internal/application/review"
	appstaff "github.com/xiebiao/library/internal/application/staff"
	"github.com/xiebiao/library/internal/domain/author"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/branch"
	"github.com/xiebiao/library/internal/domain/category"
	"github.com/xiebiao/library/internal/domain/customer"
	"github.com/xiebiao/library/internal/domain/review"
	"github.com/xiebiao/library/internal/domain/staff"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/messaging"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/infrastructure/persistence/sqlstore"
	"github.com/xiebiao/library/internal/infrastructure/scheduler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/internal/interface/http/router"
	"github.com/xiebiao/library/pkg/jwt"
)

// App 应用入口持有的对象
type App struct {
	Engine *gin.Engine
	Sweep  *scheduler.Scheduler // 未配置定时扫描时为nil
}

func newApp(engine *gin.Engine, sweep *scheduler.Scheduler) *App {
	return &App{Engine: engine, Sweep: sweep}
}

// ========================================
// 基础设施
// ========================================

// provideDB 数据库连接，cleanup关闭连接池
func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := sqlstore.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// provideRedis Redis连接（会话、黑名单、缓存共用）
func provideRedis(ctx context.Context, cfg *config.Config) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			slog.Error("close redis failed", "error", err)
		}
	}
	return client, cleanup, nil
}

// provideCache cache.enabled为false时返回空实现
func provideCache(cfg *config.Config, client *goredis.Client) application.Cache {
	if !cfg.Cache.Enabled {
		return application.NopCache{}
	}
	return redis.NewCache(client)
}

func provideEventPublisher(cfg *config.Config) (application.EventPublisher, func(), error) {
	return messaging.New(cfg.MQ)
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)
}

// ========================================
// 领域服务
// 同一个仓储同时充当多个计数/存在性接口，这里显式传入
// ========================================

func provideAuthorService(repo *sqlstore.AuthorRepository, books *sqlstore.BookRepository) author.Service {
	return author.NewService(repo, books)
}

func provideCategoryService(repo *sqlstore.CategoryRepository, books *sqlstore.BookRepository) category.Service {
	return category.NewService(repo, books)
}

func provideBranchService(repo *sqlstore.BranchRepository, books *sqlstore.BookRepository, loans *sqlstore.LoanRepository) branch.Service {
	return branch.NewService(repo, books, loans)
}

func provideBookService(
	repo *sqlstore.BookRepository,
	loans *sqlstore.LoanRepository,
	authors *sqlstore.AuthorRepository,
	categories *sqlstore.CategoryRepository,
	branches *sqlstore.BranchRepository,
) book.Service {
	return book.NewService(repo, loans, book.Refs{
		Authors:    authors,
		Categories: categories,
		Branches:   branches,
	})
}

func provideCustomerService(repo *sqlstore.CustomerRepository, loans *sqlstore.LoanRepository, branches *sqlstore.BranchRepository) customer.Service {
	return customer.NewService(repo, loans, branches)
}

func provideReviewService(repo *sqlstore.ReviewRepository, books *sqlstore.BookRepository, customers *sqlstore.CustomerRepository) review.Service {
	return review.NewService(repo, books, customers)
}

func provideStaffService(repo *sqlstore.StaffRepository) staff.Service {
	return staff.NewService(repo, 0)
}

// ========================================
// 用例（页大小、TTL等从配置提取）
// ========================================

func provideAuthorUseCase(cfg *config.Config, svc author.Service, tx *sqlstore.TxManager) *catalog.AuthorUseCase {
	return catalog.NewAuthorUseCase(svc, tx, cfg.Library.PageSize)
}

func provideCategoryUseCase(cfg *config.Config, svc category.Service, tx *sqlstore.TxManager, cache application.Cache) *catalog.CategoryUseCase {
	return catalog.NewCategoryUseCase(svc, tx, cache, cfg.Library.PageSize)
}

func provideBranchUseCase(cfg *config.Config, svc branch.Service, tx *sqlstore.TxManager) *catalog.BranchUseCase {
	return catalog.NewBranchUseCase(svc, tx, cfg.Library.PageSize)
}

func provideBookUseCase(cfg *config.Config, svc book.Service, tx *sqlstore.TxManager, cache application.Cache) *appbook.UseCase {
	return appbook.NewUseCase(svc, tx, cache, cfg.Cache.BookTTL, cfg.Library.PageSize)
}

func provideCustomerUseCase(
	cfg *config.Config,
	svc customer.Service,
	loans *sqlstore.LoanRepository,
	reviews *sqlstore.ReviewRepository,
	tx *sqlstore.TxManager,
	cache application.Cache,
) *appcustomer.UseCase {
	return appcustomer.NewUseCase(svc, loans, reviews, tx, cache, cfg.Library.PageSize)
}

func provideReviewUseCase(cfg *config.Config, svc review.Service) *appreview.UseCase {
	return appreview.NewUseCase(svc, cfg.Library.PageSize)
}

func provideLoanUseCase(
	cfg *config.Config,
	loans *sqlstore.LoanRepository,
	books *sqlstore.BookRepository,
	customers *sqlstore.CustomerRepository,
	branches *sqlstore.BranchRepository,
	tx *sqlstore.TxManager,
	cache application.Cache,
	events application.EventPublisher,
) *loanapp.UseCase {
	return loanapp.NewUseCase(loans, books, customers, branches, tx, cache, events,
		cfg.Library.Loan.Policy(), cfg.Library.PageSize)
}

func provideStaffUseCase(svc staff.Service, tokens *jwt.Manager, sessions *redis.SessionStore) *appstaff.UseCase {
	return appstaff.NewUseCase(svc, tokens, sessions)
}

func provideDashboardUseCase(cfg *config.Config, reader *sqlstore.DashboardReader, cache application.Cache) *appdashboard.UseCase {
	return appdashboard.NewUseCase(reader, cache, cfg.Cache.DashboardTTL)
}

// ========================================
// 接口层
// ========================================

func provideAuthMiddleware(tokens *jwt.Manager, sessions *redis.SessionStore) *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(tokens, sessions)
}

func provideRouterOptions(cfg *config.Config) router.Options {
	return router.Options{
		Mode:           cfg.Server.Mode,
		EnableSwagger:  cfg.Server.EnableSwagger,
		LoginRateLimit: cfg.Server.LoginRateLimit,
		LoginBurst:     cfg.Server.LoginBurst,
	}
}

// provideSweep library.loan.overdue_sweep_cron为空时不创建调度器
func provideSweep(cfg *config.Config, uc *loanapp.UseCase) (*scheduler.Scheduler, error) {
	spec := cfg.Library.Loan.OverdueSweepCron
	if spec == "" {
		return nil, nil
	}
	return scheduler.NewOverdueSweep(spec, uc)
}
