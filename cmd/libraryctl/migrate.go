package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xiebiao/library/internal/infrastructure/persistence/sqlstore"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "创建或更新表结构",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, closeLog, err := loadConfig()
			if err != nil {
				return err
			}
			defer closeLog()

			db, closeDB, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			if err := sqlstore.AutoMigrate(db.WithContext(cmd.Context())); err != nil {
				return fmt.Errorf("迁移失败: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated (%s)\n", cfg.Database.Driver)
			return nil
		},
	}
}
