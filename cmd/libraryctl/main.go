// libraryctl 运维命令行：迁移表结构、手动逾期扫描、创建工作人员、订阅借阅事件
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/sqlstore"
	"github.com/xiebiao/library/pkg/logger"
)

var configDir string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "libraryctl",
		Short:         "图书馆借阅管理运维工具",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configDir, "config", "./config", "配置文件目录")

	root.AddCommand(
		newMigrateCmd(),
		newMarkOverdueCmd(),
		newCreateStaffCmd(),
		newWatchEventsCmd(),
	)
	return root
}

// loadConfig 加载配置并初始化日志
func loadConfig() (*config.Config, func(), error) {
	cfg, err := config.LoadFrom(configDir, ".")
	if err != nil {
		return nil, nil, err
	}
	closeLog, err := logger.Init(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: "stderr",
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, func() { _ = closeLog() }, nil
}

// openDB 连接数据库，不自动迁移
func openDB(cfg *config.Config) (*gorm.DB, func(), error) {
	dbCfg := *cfg
	dbCfg.Database.AutoMigrate = false
	db, err := sqlstore.NewDB(&dbCfg)
	if err != nil {
		return nil, nil, err
	}
	return db, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}, nil
}
