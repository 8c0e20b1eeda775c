package sqlstore

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/review"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

const reviewListingColumns = "reviews.*, books.title AS book_title, " +
	"customers.first_name AS customer_first_name, customers.last_name AS customer_last_name"

// ReviewRepository 书评仓储
type ReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建书评仓储
func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

var _ review.Repository = (*ReviewRepository)(nil)

func (r *ReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	model := fromReview(rv)
	if err := conn(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return review.ErrReviewDuplicate
		}
		return apperrors.WrapDB(err, "创建书评失败")
	}
	rv.ID = model.ID
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id uint) (*review.Review, error) {
	var model ReviewModel
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, findErr(err, review.ErrReviewNotFound, "查询书评失败")
	}
	return toReview(&model), nil
}

type reviewRow struct {
	ReviewModel       `gorm:"embedded"`
	BookTitle         string
	CustomerFirstName string
	CustomerLastName  string
}

func (r *ReviewRepository) listingQuery(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db).Model(&ReviewModel{}).
		Joins("LEFT JOIN books ON books.id = reviews.book_id").
		Joins("LEFT JOIN customers ON customers.id = reviews.customer_id")
}

func (r *ReviewRepository) FindListing(ctx context.Context, id uint) (*review.Listing, error) {
	var rows []reviewRow
	err := r.listingQuery(ctx).Select(reviewListingColumns).Where("reviews.id = ?", id).Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询书评失败")
	}
	if len(rows) == 0 {
		return nil, review.ErrReviewNotFound
	}
	return rows[0].toListing(), nil
}

func (r *ReviewRepository) ExistsForPair(ctx context.Context, bookID, customerID, excludeID uint) (bool, error) {
	n, err := count(conn(ctx, r.db), &ReviewModel{}, "book_id = ? AND customer_id = ? AND id <> ?",
		bookID, customerID, excludeID)
	return n > 0, err
}

func (r *ReviewRepository) Update(ctx context.Context, rv *review.Review) error {
	err := versionedUpdate(conn(ctx, r.db), &ReviewModel{}, rv.ID, rv.Version, map[string]interface{}{
		"book_id":       rv.BookID,
		"customer_id":   rv.CustomerID,
		"rating":        rv.Rating,
		"title":         rv.Title,
		"content":       rv.Content,
		"is_approved":   rv.IsApproved,
		"helpful_votes": rv.HelpfulVotes,
		"updated_at":    rv.UpdatedAt,
	}, review.ErrReviewNotFound)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeDuplicateEntry) {
			return review.ErrReviewDuplicate
		}
		return err
	}
	rv.Version++
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&ReviewModel{}, id)
	if result.Error != nil {
		return apperrors.WrapDB(result.Error, "删除书评失败")
	}
	if result.RowsAffected == 0 {
		return review.ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepository) List(ctx context.Context, params review.ListParams) ([]*review.Listing, int64, error) {
	query := r.listingQuery(ctx)

	if params.BookID > 0 {
		query = query.Where("reviews.book_id = ?", params.BookID)
	}
	if params.CustomerID > 0 {
		query = query.Where("reviews.customer_id = ?", params.CustomerID)
	}
	if params.Approved != nil {
		query = query.Where("reviews.is_approved = ?", *params.Approved)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询书评总数失败")
	}

	if params.SortBy == "rating" {
		query = query.Order("reviews.rating DESC").Order("reviews.created_at DESC")
	} else {
		query = query.Order("reviews.created_at DESC")
	}

	var rows []reviewRow
	if err := query.Select(reviewListingColumns).Limit(params.PageSize).Offset(params.Offset()).Scan(&rows).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询书评列表失败")
	}
	return reviewListings(rows), total, nil
}

func (r *ReviewRepository) RecentByCustomer(ctx context.Context, customerID uint, limit int) ([]*review.Listing, error) {
	var rows []reviewRow
	err := r.listingQuery(ctx).Select(reviewListingColumns).
		Where("reviews.customer_id = ?", customerID).
		Order("reviews.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询读者书评失败")
	}
	return reviewListings(rows), nil
}

func reviewListings(rows []reviewRow) []*review.Listing {
	list := make([]*review.Listing, len(rows))
	for i := range rows {
		list[i] = rows[i].toListing()
	}
	return list
}

func (row *reviewRow) toListing() *review.Listing {
	return &review.Listing{
		Review:       toReview(&row.ReviewModel),
		BookTitle:    row.BookTitle,
		CustomerName: strings.TrimSpace(row.CustomerFirstName + " " + row.CustomerLastName),
	}
}

func fromReview(rv *review.Review) *ReviewModel {
	return &ReviewModel{
		ID:           rv.ID,
		BookID:       rv.BookID,
		CustomerID:   rv.CustomerID,
		Rating:       rv.Rating,
		Title:        rv.Title,
		Content:      rv.Content,
		IsApproved:   rv.IsApproved,
		HelpfulVotes: rv.HelpfulVotes,
		Version:      rv.Version,
		CreatedAt:    rv.CreatedAt,
		UpdatedAt:    rv.UpdatedAt,
	}
}

func toReview(m *ReviewModel) *review.Review {
	return &review.Review{
		ID:           m.ID,
		BookID:       m.BookID,
		CustomerID:   m.CustomerID,
		Rating:       m.Rating,
		Title:        m.Title,
		Content:      m.Content,
		IsApproved:   m.IsApproved,
		HelpfulVotes: m.HelpfulVotes,
		Version:      m.Version,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
