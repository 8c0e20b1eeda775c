// Package router 组装Gin引擎：全局中间件 + 路由表
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/library/internal/domain/staff"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/response"
)

// Options 引擎选项
type Options struct {
	Mode           string // debug | release | test
	EnableSwagger  bool
	LoginRateLimit float64 // 0表示登录不限流
	LoginBurst     int
}

// Handlers 全部HTTP处理器
type Handlers struct {
	Auth      *handler.AuthHandler
	Author    *handler.AuthorHandler
	Category  *handler.CategoryHandler
	Branch    *handler.BranchHandler
	Book      *handler.BookHandler
	Customer  *handler.CustomerHandler
	Loan      *handler.LoanHandler
	Review    *handler.ReviewHandler
	Dashboard *handler.DashboardHandler
}

// New 创建Gin引擎并注册路由
//
// 路由规划：
//   - /ping、/metrics、/swagger：无需登录
//   - /api/v1/auth/login、/api/v1/auth/refresh：无需登录，登录按IP限流
//   - 其余/api/v1接口：需要登录，非GET请求需要X-CSRF-Token
//   - 逾期扫描、创建工作人员：仅管理员
func New(opts Options, h Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	switch opts.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(opts.Mode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		gin.Recovery(),
		middleware.Tracing(),
		middleware.AccessLog(),
		middleware.Metrics(),
	)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if opts.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	{
		public := v1.Group("/auth")
		{
			public.POST("/login", middleware.NewRateLimiter(opts.LoginRateLimit, opts.LoginBurst).Middleware(), h.Auth.Login)
			public.POST("/refresh", h.Auth.Refresh)
		}

		authorized := v1.Group("")
		authorized.Use(auth.RequireAuth(), auth.CSRF())
		{
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.POST("/auth/logout", h.Auth.Logout)

			authorized.GET("/dashboard", h.Dashboard.Summary)

			authors := authorized.Group("/authors")
			{
				authors.GET("", h.Author.List)
				authors.POST("", h.Author.Create)
				authors.GET("/:id", h.Author.Get)
				authors.PUT("/:id", h.Author.Update)
				authors.DELETE("/:id", h.Author.Delete)
			}

			categories := authorized.Group("/categories")
			{
				categories.GET("", h.Category.List)
				categories.POST("", h.Category.Create)
				categories.GET("/:id", h.Category.Get)
				categories.PUT("/:id", h.Category.Update)
				categories.DELETE("/:id", h.Category.Delete)
			}

			branches := authorized.Group("/branches")
			{
				branches.GET("", h.Branch.List)
				branches.POST("", h.Branch.Create)
				branches.GET("/:id", h.Branch.Get)
				branches.PUT("/:id", h.Branch.Update)
				branches.DELETE("/:id", h.Branch.Delete)
			}

			books := authorized.Group("/books")
			{
				books.GET("", h.Book.List)
				books.POST("", h.Book.Create)
				books.GET("/:id", h.Book.Get)
				books.PUT("/:id", h.Book.Update)
				books.DELETE("/:id", h.Book.Delete)
			}

			customers := authorized.Group("/customers")
			{
				customers.GET("", h.Customer.List)
				customers.POST("", h.Customer.Create)
				customers.GET("/:id", h.Customer.Get)
				customers.PUT("/:id", h.Customer.Update)
				customers.DELETE("/:id", h.Customer.Delete)
			}

			loans := authorized.Group("/loans")
			{
				loans.GET("", h.Loan.List)
				loans.POST("", h.Loan.Checkout)
				loans.GET("/:id", h.Loan.Get)
				loans.GET("/:id/return", h.Loan.PreviewReturn)
				loans.POST("/:id/return", h.Loan.Return)
				loans.DELETE("/:id", h.Loan.Delete)
			}

			reviews := authorized.Group("/reviews")
			{
				reviews.GET("", h.Review.List)
				reviews.POST("", h.Review.Create)
				reviews.GET("/:id", h.Review.Get)
				reviews.PUT("/:id", h.Review.Update)
				reviews.DELETE("/:id", h.Review.Delete)
			}

			admin := authorized.Group("")
			admin.Use(auth.RequireRole(staff.RoleAdmin))
			{
				admin.POST("/admin/loans/mark-overdue", h.Loan.MarkOverdue)
				admin.POST("/staff", h.Auth.CreateStaff)
			}
		}
	}

	return r
}
