// Package messaging 借阅事件发布
//
// 事件在事务提交后发布，经熔断器保护：RabbitMQ不可用时快速失败，
// 调用方只记日志，不影响借还流程。
package messaging

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/circuitbreaker"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/mq"
)

const (
	breakerName    = "loan-events"
	publishTimeout = 3 * time.Second
)

// Broker 底层消息发布（由mq.Publisher实现）
type Broker interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// LoanEventPublisher 带熔断的事件发布者
type LoanEventPublisher struct {
	broker  Broker
	breaker *circuitbreaker.CircuitBreaker
}

// NewLoanEventPublisher 创建事件发布者
// 连续失败5次熔断30秒
func NewLoanEventPublisher(broker Broker) *LoanEventPublisher {
	return &LoanEventPublisher{
		broker: broker,
		breaker: circuitbreaker.NewCircuitBreaker(breakerName, circuitbreaker.Config{
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			OnStateChange: func(name string, from, to circuitbreaker.State) {
				slog.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			},
		}),
	}
}

// Publish 发布事件
func (p *LoanEventPublisher) Publish(ctx context.Context, routingKey string, event interface{}) error {
	err := p.breaker.Execute(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		return p.broker.Publish(ctx, routingKey, event)
	})

	result := "ok"
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		result = "rejected"
	case err != nil:
		result = "error"
	}
	metrics.IncCounterVec(metrics.MessagesPublishedTotal, map[string]string{
		"routing_key": routingKey,
		"result":      result,
	})
	return err
}

// NopPublisher 未开启mq时使用
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }

// New 按配置创建事件发布者，返回的cleanup关闭连接
func New(cfg config.MQConfig) (application.EventPublisher, func(), error) {
	if !cfg.Enabled {
		slog.Info("mq disabled, loan events will not be published")
		return NopPublisher{}, func() {}, nil
	}

	pub, err := mq.NewPublisher(cfg.URL, cfg.Exchange, cfg.ExchangeType)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := pub.Close(); err != nil {
			slog.Error("close mq publisher failed", "error", err)
		}
	}
	return NewLoanEventPublisher(pub), cleanup, nil
}
