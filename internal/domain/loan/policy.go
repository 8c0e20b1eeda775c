package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// Policy 借阅规则（来自配置library.loan）
type Policy struct {
	FinePerDay     decimal.Decimal // 每逾期一天罚金
	OverdueLockout bool            // 有逾期借阅的读者禁止借书
	DefaultPeriod  time.Duration   // 未指定应还日期时的借期
}

// DefaultPolicy 默认规则：每天0.50，开启逾期禁借，借期14天
func DefaultPolicy() Policy {
	return Policy{
		FinePerDay:     decimal.RequireFromString("0.50"),
		OverdueLockout: true,
		DefaultPeriod:  14 * day,
	}
}

// DaysOverdue 从应还日期起算的逾期整天数，未逾期为0
func DaysOverdue(due, asOf time.Time) int {
	if !asOf.After(due) {
		return 0
	}
	return int(asOf.Sub(due) / day)
}

// Fine 逾期days天的罚金，无上限
func (p Policy) Fine(days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	return p.FinePerDay.Mul(decimal.NewFromInt(int64(days)))
}

// FineAt 截至asOf的罚金
func (p Policy) FineAt(due, asOf time.Time) decimal.Decimal {
	return p.Fine(DaysOverdue(due, asOf))
}
