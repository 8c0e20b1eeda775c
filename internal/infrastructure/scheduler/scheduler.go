// Package scheduler 定时逾期扫描
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	loanapp "github.com/xiebiao/library/internal/application/loan"
)

const sweepTimeout = 5 * time.Minute

// Sweeper 逾期扫描（由loan.UseCase实现）
type Sweeper interface {
	MarkOverdue(ctx context.Context) (*loanapp.OverdueResult, error)
}

// Scheduler cron调度器
type Scheduler struct {
	cron *cron.Cron
}

// NewOverdueSweep 按cron表达式（5段）定时执行逾期扫描
// 上一次扫描未结束时跳过本次
func NewOverdueSweep(spec string, sweeper Sweeper) (*Scheduler, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		res, err := sweeper.MarkOverdue(ctx)
		if err != nil {
			slog.Error("scheduled overdue sweep failed", "error", err)
			return
		}
		slog.Info("scheduled overdue sweep finished", "marked", res.Marked)
	})
	if err != nil {
		return nil, err
	}
	return &Scheduler{cron: c}, nil
}

// Start 启动调度
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop 停止调度并等待正在执行的任务结束
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		slog.Warn("overdue sweep still running at shutdown")
	}
}
