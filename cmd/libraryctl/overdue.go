package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/xiebiao/library/internal/application"
	loanapp "github.com/xiebiao/library/internal/application/loan"
	"github.com/xiebiao/library/internal/infrastructure/messaging"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/infrastructure/persistence/sqlstore"
)

func newMarkOverdueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mark-overdue",
		Short: "把已过应还日期的借阅标记为逾期",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
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

			// 缓存不可用时照常扫描，看板等TTL过期
			var cache application.Cache = application.NopCache{}
			if cfg.Cache.Enabled {
				client, err := redis.NewClient(ctx, cfg)
				if err != nil {
					slog.Warn("redis unavailable, cache will not be invalidated", "error", err)
				} else {
					defer func() { _ = client.Close() }()
					cache = redis.NewCache(client)
				}
			}

			events, closeMQ, err := messaging.New(cfg.MQ)
			if err != nil {
				return err
			}
			defer closeMQ()

			uc := loanapp.NewUseCase(
				sqlstore.NewLoanRepository(db),
				sqlstore.NewBookRepository(db),
				sqlstore.NewCustomerRepository(db),
				sqlstore.NewBranchRepository(db),
				sqlstore.NewTxManager(db),
				cache,
				events,
				cfg.Library.Loan.Policy(),
				cfg.Library.PageSize,
			)

			res, err := uc.MarkOverdue(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "marked %d loan(s) overdue %v\n", res.Marked, res.LoanIDs)
			return nil
		},
	}
}
