package customer

import (
	"context"
	"errors"
	"time"

	"github.com/xiebiao/library/internal/domain/shared"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Service 读者领域服务
type Service interface {
	List(ctx context.Context, params ListParams) ([]*Detail, int64, error)
	Get(ctx context.Context, id uint) (*Detail, error)

	// Create 登记读者
	// 业务规则：邮箱、借书证号唯一；借书证号为空时自动生成
	Create(ctx context.Context, f Fields) (*Customer, error)

	Update(ctx context.Context, id, version uint, f Fields) (*Customer, error)

	// Delete 有未归还借阅或历史借阅时拒绝删除
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo     Repository
	loans    LoanCounter
	branches shared.Exister
	now      func() time.Time
}

// NewService 创建读者领域服务
func NewService(repo Repository, loans LoanCounter, branches shared.Exister) Service {
	return &service{repo: repo, loans: loans, branches: branches, now: time.Now}
}

func (s *service) List(ctx context.Context, params ListParams) ([]*Detail, int64, error) {
	return s.repo.List(ctx, params)
}

func (s *service) Get(ctx context.Context, id uint) (*Detail, error) {
	return s.repo.FindDetail(ctx, id)
}

func (s *service) Create(ctx context.Context, f Fields) (*Customer, error) {
	// 1. 字段校验
	if err := f.Validate(); err != nil {
		return nil, err
	}

	// 2. 首选分馆
	if err := s.checkBranch(ctx, f.PreferredBranchID); err != nil {
		return nil, err
	}

	// 3. 邮箱唯一
	if err := s.checkEmail(ctx, f.Email, 0); err != nil {
		return nil, err
	}

	// 4. 借书证号：填写则校验唯一，否则按年份顺序生成
	card := f.LibraryCardNumber
	if card != "" {
		if err := s.checkCard(ctx, card, 0); err != nil {
			return nil, err
		}
	} else {
		generated, err := s.nextCardNumber(ctx)
		if err != nil {
			return nil, err
		}
		card = generated
	}

	// 5. 持久化；并发登记可能生成同一个借书证号，自动生成的号码重取一次
	c := NewCustomer(f, card)
	err := s.repo.Create(ctx, c)
	if errors.Is(err, ErrCardNumberDuplicate) && f.LibraryCardNumber == "" {
		if card, err = s.nextCardNumber(ctx); err != nil {
			return nil, err
		}
		c = NewCustomer(f, card)
		err = s.repo.Create(ctx, c)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Update(ctx context.Context, id, version uint, f Fields) (*Customer, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Version != version {
		return nil, apperrors.ErrVersionConflict
	}

	if err := s.checkBranch(ctx, f.PreferredBranchID); err != nil {
		return nil, err
	}
	if err := s.checkEmail(ctx, f.Email, id); err != nil {
		return nil, err
	}
	if f.LibraryCardNumber != "" {
		if err := s.checkCard(ctx, f.LibraryCardNumber, id); err != nil {
			return nil, err
		}
	}

	c.Apply(f)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	holding, err := s.loans.CountHoldingByCustomer(ctx, id)
	if err != nil {
		return err
	}
	if holding > 0 {
		return ErrCustomerHasActiveLoans
	}

	history, err := s.loans.CountByCustomer(ctx, id)
	if err != nil {
		return err
	}
	if history > 0 {
		return ErrCustomerHasLoanHistory
	}

	return s.repo.Delete(ctx, id)
}

// nextCardNumber 取当年最大序号+1，遇到手工录入占用的号码时顺延
func (s *service) nextCardNumber(ctx context.Context) (string, error) {
	year := s.now().Year()
	seq, err := s.repo.MaxCardSequence(ctx, CardPrefix(year))
	if err != nil {
		return "", err
	}

	for i := 0; i < 10; i++ {
		seq++
		card := FormatCardNumber(year, seq)
		exists, err := s.repo.ExistsByCardNumber(ctx, card, 0)
		if err != nil {
			return "", err
		}
		if !exists {
			return card, nil
		}
	}
	return "", ErrCardNumberDuplicate
}

func (s *service) checkEmail(ctx context.Context, email string, excludeID uint) error {
	exists, err := s.repo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailDuplicate
	}
	return nil
}

func (s *service) checkCard(ctx context.Context, card string, excludeID uint) error {
	exists, err := s.repo.ExistsByCardNumber(ctx, card, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrCardNumberDuplicate
	}
	return nil
}

func (s *service) checkBranch(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	ok, err := s.branches.Exists(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBranchNotFound
	}
	return nil
}
