package sqlstore

import (
	"time"

	"github.com/shopspring/decimal"
)

// 说明：
// 1. 这里是infrastructure层的数据模型（带GORM tag），领域实体不依赖GORM
// 2. 不使用软删除：删除保护依赖外键与唯一索引，软删除会让两者失效
// 3. 每张业务表都有version列，供乐观锁使用
// 4. 布尔、副本数等可能为零值的列不设default：GORM创建时会跳过零值字段，改用列默认值

// StaffModel 工作人员
type StaffModel struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;size:100;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Name         string `gorm:"size:50;not null"`
	Role         string `gorm:"size:20;not null;default:librarian"`
	IsActive     bool   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (StaffModel) TableName() string { return "staff" }

// AuthorModel 作者
type AuthorModel struct {
	ID          uint       `gorm:"primaryKey"`
	FirstName   string     `gorm:"size:50;not null;index:idx_author_name,priority:2"`
	LastName    string     `gorm:"size:50;not null;index:idx_author_name,priority:1"`
	DateOfBirth *time.Time `gorm:"type:date"`
	Nationality string     `gorm:"size:50"`
	Biography   string     `gorm:"type:text"`
	Email       string     `gorm:"size:100"`
	IsActive    bool       `gorm:"not null"`
	Version     uint       `gorm:"not null;default:1"`
	CreatedAt   time.Time  `gorm:"index"`
	UpdatedAt   time.Time
}

func (AuthorModel) TableName() string { return "authors" }

// CategoryModel 分类
type CategoryModel struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"uniqueIndex;size:100;not null"`
	Description  string `gorm:"size:500"`
	IconClass    string `gorm:"size:50"`
	ColorCode    string `gorm:"size:7"`
	DisplayOrder int    `gorm:"not null;default:0;index"`
	IsActive     bool   `gorm:"not null"`
	Version      uint   `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (CategoryModel) TableName() string { return "categories" }

// BranchModel 分馆
type BranchModel struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:100;not null;index"`
	Address      string `gorm:"size:200;not null"`
	City         string `gorm:"size:50;index"`
	State        string `gorm:"size:50"`
	PostalCode   string `gorm:"size:20"`
	Phone        string `gorm:"size:20"`
	Email        string `gorm:"size:100"`
	OpeningHours string `gorm:"size:200"`
	IsActive     bool   `gorm:"not null"`
	Version      uint   `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (BranchModel) TableName() string { return "library_branches" }

// BookModel 图书
type BookModel struct {
	ID              uint             `gorm:"primaryKey"`
	Title           string           `gorm:"size:200;not null;index"`
	ISBN            string           `gorm:"column:isbn;uniqueIndex;size:20;not null"`
	Description     string           `gorm:"type:text"`
	PublicationDate *time.Time       `gorm:"type:date"`
	Publisher       string           `gorm:"size:100"`
	PageCount       int              `gorm:"not null;default:0"`
	Language        string           `gorm:"size:50;not null;default:English"`
	CoverImageURL   string           `gorm:"size:500"`
	Price           *decimal.Decimal `gorm:"type:decimal(10,2)"`
	AvailableCopies int              `gorm:"not null"`
	TotalCopies     int              `gorm:"not null"`
	AuthorID        uint             `gorm:"not null;index"`
	CategoryID      *uint            `gorm:"index"`
	BranchID        *uint            `gorm:"column:library_branch_id;index"`
	Version         uint             `gorm:"not null;default:1"`
	CreatedAt       time.Time        `gorm:"index"`
	UpdatedAt       time.Time

	Author   *AuthorModel   `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Category *CategoryModel `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Branch   *BranchModel   `gorm:"foreignKey:BranchID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (BookModel) TableName() string { return "books" }

// CustomerModel 读者
type CustomerModel struct {
	ID                uint      `gorm:"primaryKey"`
	FirstName         string    `gorm:"size:50;not null"`
	LastName          string    `gorm:"size:50;not null;index"`
	Email             string    `gorm:"uniqueIndex;size:100;not null"`
	Phone             string    `gorm:"size:20"`
	Address           string    `gorm:"size:200"`
	City              string    `gorm:"size:50"`
	MembershipDate    time.Time `gorm:"not null"`
	LibraryCardNumber string    `gorm:"uniqueIndex;size:20;not null"`
	IsActiveMember    bool      `gorm:"not null"`
	PreferredBranchID *uint     `gorm:"index"`
	Version           uint      `gorm:"not null;default:1"`
	CreatedAt         time.Time `gorm:"index"`
	UpdatedAt         time.Time

	PreferredBranch *BranchModel `gorm:"foreignKey:PreferredBranchID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (CustomerModel) TableName() string { return "customers" }

// LoanModel 借阅
type LoanModel struct {
	ID           uint      `gorm:"primaryKey"`
	BookID       uint      `gorm:"not null;index"`
	CustomerID   uint      `gorm:"not null;index:idx_loan_customer_status,priority:1"`
	BranchID     *uint     `gorm:"column:library_branch_id;index"`
	LoanDate     time.Time `gorm:"not null;index"`
	DueDate      time.Time `gorm:"not null;index:idx_loan_status_due,priority:2"`
	ReturnDate   *time.Time
	Status       int             `gorm:"not null;default:1;index:idx_loan_status_due,priority:1;index:idx_loan_customer_status,priority:2"`
	FineAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	FinePaid     bool            `gorm:"not null;default:false"`
	Notes        string          `gorm:"size:500"`
	RenewedCount int             `gorm:"not null;default:0"`
	Version      uint            `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Book     *BookModel     `gorm:"foreignKey:BookID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Customer *CustomerModel `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Branch   *BranchModel   `gorm:"foreignKey:BranchID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (LoanModel) TableName() string { return "book_loans" }

// ReviewModel 书评，(book_id, customer_id)联合唯一
type ReviewModel struct {
	ID           uint      `gorm:"primaryKey"`
	BookID       uint      `gorm:"not null;uniqueIndex:idx_review_book_customer,priority:1"`
	CustomerID   uint      `gorm:"not null;uniqueIndex:idx_review_book_customer,priority:2;index"`
	Rating       int       `gorm:"not null"`
	Title        string    `gorm:"size:100"`
	Content      string    `gorm:"type:text;not null"`
	IsApproved   bool      `gorm:"not null;default:false"`
	HelpfulVotes int       `gorm:"not null;default:0"`
	Version      uint      `gorm:"not null;default:1"`
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time

	Book     *BookModel     `gorm:"foreignKey:BookID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Customer *CustomerModel `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (ReviewModel) TableName() string { return "reviews" }
