package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	loanapp "github.com/xiebiao/library/internal/application/loan"
	"github.com/xiebiao/library/pkg/mq"
)

func newWatchEventsCmd() *cobra.Command {
	var queue string
	var keys []string

	cmd := &cobra.Command{
		Use:   "watch-events",
		Short: "订阅借阅事件并逐行输出",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, closeLog, err := loadConfig()
			if err != nil {
				return err
			}
			defer closeLog()

			if !cfg.MQ.Enabled {
				return fmt.Errorf("mq.enabled为false，服务不会发布事件")
			}

			consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, queue, keys)
			if err != nil {
				return err
			}
			defer func() { _ = consumer.Close() }()

			out := cmd.OutOrStdout()
			return consumer.Consume(cmd.Context(), func(_ context.Context, d mq.Delivery) error {
				var ev loanapp.Event
				if err := json.Unmarshal(d.Body, &ev); err != nil {
					// 无法解析的消息原样输出，不重新入队
					fmt.Fprintf(out, "%s %s %s\n", d.Timestamp.Format("2006-01-02 15:04:05"), d.RoutingKey, d.Body)
					return nil
				}
				fmt.Fprintf(out, "%s %-20s loan=%d book=%d customer=%d status=%s fine=%s\n",
					ev.OccurredAt.Format("2006-01-02 15:04:05"), d.RoutingKey,
					ev.LoanID, ev.BookID, ev.CustomerID, ev.Status, ev.FineAmount)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&queue, "queue", "", "队列名，空表示临时队列")
	cmd.Flags().StringSliceVar(&keys, "key", []string{"loan.#"}, "路由键，可重复")
	return cmd
}
