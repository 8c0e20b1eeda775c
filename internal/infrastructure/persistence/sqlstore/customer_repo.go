package sqlstore

import (
	"context"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/customer"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

const (
	customerActiveLoanCount = "(SELECT COUNT(*) FROM book_loans WHERE book_loans.customer_id = customers.id AND book_loans.status IN (1, 3))"
	customerTotalLoanCount  = "(SELECT COUNT(*) FROM book_loans WHERE book_loans.customer_id = customers.id)"
	customerDetailColumns   = "customers.*, library_branches.name AS preferred_branch_name, " +
		customerActiveLoanCount + " AS active_loan_count, " + customerTotalLoanCount + " AS total_loan_count"
)

// CustomerRepository 读者仓储
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建读者仓储
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

var _ customer.Repository = (*CustomerRepository)(nil)

func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	model := fromCustomer(c)
	if err := conn(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		switch {
		case isDuplicateError(err):
			return r.duplicateOf(ctx, c)
		case isForeignKeyError(err):
			return customer.ErrBranchNotFound
		}
		return apperrors.WrapDB(err, "创建读者失败")
	}
	c.ID = model.ID
	return nil
}

// duplicateOf 唯一索引冲突时区分是哪一列
// TranslateError后驱动错误信息里已没有列名，回查借书证号
func (r *CustomerRepository) duplicateOf(ctx context.Context, c *customer.Customer) error {
	if taken, err := r.ExistsByCardNumber(ctx, c.LibraryCardNumber, c.ID); err == nil && taken {
		return customer.ErrCardNumberDuplicate
	}
	return customer.ErrEmailDuplicate
}

func (r *CustomerRepository) FindByID(ctx context.Context, id uint) (*customer.Customer, error) {
	var model CustomerModel
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, findErr(err, customer.ErrCustomerNotFound, "查询读者失败")
	}
	return toCustomer(&model), nil
}

type customerRow struct {
	CustomerModel       `gorm:"embedded"`
	PreferredBranchName string
	ActiveLoanCount     int64
	TotalLoanCount      int64
}

func (r *CustomerRepository) detailQuery(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db).Model(&CustomerModel{}).
		Joins("LEFT JOIN library_branches ON library_branches.id = customers.preferred_branch_id")
}

func (r *CustomerRepository) FindDetail(ctx context.Context, id uint) (*customer.Detail, error) {
	var rows []customerRow
	err := r.detailQuery(ctx).Select(customerDetailColumns).Where("customers.id = ?", id).Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询读者详情失败")
	}
	if len(rows) == 0 {
		return nil, customer.ErrCustomerNotFound
	}
	return rows[0].toDetail(), nil
}

func (r *CustomerRepository) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	n, err := count(conn(ctx, r.db), &CustomerModel{}, "LOWER(email) = ? AND id <> ?",
		strings.ToLower(strings.TrimSpace(email)), excludeID)
	return n > 0, err
}

func (r *CustomerRepository) ExistsByCardNumber(ctx context.Context, card string, excludeID uint) (bool, error) {
	n, err := count(conn(ctx, r.db), &CustomerModel{}, "library_card_number = ? AND id <> ?",
		strings.TrimSpace(card), excludeID)
	return n > 0, err
}

// MaxCardSequence 取前缀下最大序号
// 序号固定4位以上数字，按字符串取最大值前先按长度排序，避免"LIB-2026-10000" < "LIB-2026-9999"
func (r *CustomerRepository) MaxCardSequence(ctx context.Context, prefix string) (int, error) {
	var cards []string
	err := conn(ctx, r.db).Model(&CustomerModel{}).
		Where("library_card_number LIKE ?", prefix+"%").
		Order("LENGTH(library_card_number) DESC").
		Order("library_card_number DESC").
		Limit(20).
		Pluck("library_card_number", &cards).Error
	if err != nil {
		return 0, apperrors.WrapDB(err, "查询借书证号失败")
	}

	// 手工录入的证号可能不是纯数字后缀，跳过
	for _, card := range cards {
		if seq, err := strconv.Atoi(strings.TrimPrefix(card, prefix)); err == nil {
			return seq, nil
		}
	}
	return 0, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	err := versionedUpdate(conn(ctx, r.db), &CustomerModel{}, c.ID, c.Version, map[string]interface{}{
		"first_name":          c.FirstName,
		"last_name":           c.LastName,
		"email":               c.Email,
		"phone":               c.Phone,
		"address":             c.Address,
		"city":                c.City,
		"membership_date":     c.MembershipDate,
		"library_card_number": c.LibraryCardNumber,
		"is_active_member":    c.IsActiveMember,
		"preferred_branch_id": c.PreferredBranchID,
		"updated_at":          c.UpdatedAt,
	}, customer.ErrCustomerNotFound)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeDuplicateEntry) {
			return r.duplicateOf(ctx, c)
		}
		return err
	}
	c.Version++
	return nil
}

// Delete 删除读者及其书评，借阅记录由外键RESTRICT保护
func (r *CustomerRepository) Delete(ctx context.Context, id uint) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", id).Delete(&ReviewModel{}).Error; err != nil {
			return apperrors.WrapDB(err, "删除读者书评失败")
		}
		result := tx.Delete(&CustomerModel{}, id)
		if result.Error != nil {
			if isForeignKeyError(result.Error) {
				return customer.ErrCustomerHasLoanHistory
			}
			return apperrors.WrapDB(result.Error, "删除读者失败")
		}
		if result.RowsAffected == 0 {
			return customer.ErrCustomerNotFound
		}
		return nil
	})
}

func (r *CustomerRepository) List(ctx context.Context, params customer.ListParams) ([]*customer.Detail, int64, error) {
	query := r.detailQuery(ctx)

	if params.Keyword != "" {
		kw := likePattern(params.Keyword)
		query = query.Where("LOWER(customers.first_name) LIKE ? ESCAPE '!' OR LOWER(customers.last_name) LIKE ? ESCAPE '!' OR LOWER(customers.email) LIKE ? ESCAPE '!' OR LOWER(customers.library_card_number) LIKE ? ESCAPE '!'",
			kw, kw, kw, kw)
	}
	if params.ActiveOnly {
		query = query.Where("customers.is_active_member = ?", true)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询读者总数失败")
	}

	switch params.SortBy {
	case "name_desc":
		query = query.Order("customers.last_name DESC").Order("customers.first_name DESC")
	case "email":
		query = query.Order("customers.email ASC")
	case "newest":
		query = query.Order("customers.membership_date DESC")
	case "oldest":
		query = query.Order("customers.membership_date ASC")
	default:
		query = query.Order("customers.last_name ASC").Order("customers.first_name ASC")
	}

	var rows []customerRow
	if err := query.Select(customerDetailColumns).Limit(params.PageSize).Offset(params.Offset()).Scan(&rows).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询读者列表失败")
	}

	list := make([]*customer.Detail, len(rows))
	for i := range rows {
		list[i] = rows[i].toDetail()
	}
	return list, total, nil
}

func (r *CustomerRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return exists(conn(ctx, r.db), &CustomerModel{}, id)
}

func (row *customerRow) toDetail() *customer.Detail {
	return &customer.Detail{
		Customer:            toCustomer(&row.CustomerModel),
		PreferredBranchName: row.PreferredBranchName,
		ActiveLoanCount:     row.ActiveLoanCount,
		TotalLoanCount:      row.TotalLoanCount,
	}
}

func fromCustomer(c *customer.Customer) *CustomerModel {
	return &CustomerModel{
		ID:                c.ID,
		FirstName:         c.FirstName,
		LastName:          c.LastName,
		Email:             c.Email,
		Phone:             c.Phone,
		Address:           c.Address,
		City:              c.City,
		MembershipDate:    c.MembershipDate,
		LibraryCardNumber: c.LibraryCardNumber,
		IsActiveMember:    c.IsActiveMember,
		PreferredBranchID: c.PreferredBranchID,
		Version:           c.Version,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func toCustomer(m *CustomerModel) *customer.Customer {
	return &customer.Customer{
		ID:                m.ID,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Email:             m.Email,
		Phone:             m.Phone,
		Address:           m.Address,
		City:              m.City,
		MembershipDate:    m.MembershipDate,
		LibraryCardNumber: m.LibraryCardNumber,
		IsActiveMember:    m.IsActiveMember,
		PreferredBranchID: m.PreferredBranchID,
		Version:           m.Version,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
