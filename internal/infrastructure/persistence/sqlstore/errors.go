package sqlstore

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// isDuplicateError 判断是否为唯一索引冲突
// 开启TranslateError后三种方言都会翻译成gorm.ErrDuplicatedKey，
// 字符串匹配兜底：MySQL 1062 / PostgreSQL 23505 / SQLite UNIQUE constraint
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// isForeignKeyError 外键约束冲突（RESTRICT）
func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "foreign key constraint") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed")
}

// findErr 查询错误转换：记录不存在 → notFound，其余包装为数据库错误
func findErr(err error, notFound error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return apperrors.WrapDB(err, msg)
}

// versionedUpdate 带版本号的条件更新
// UPDATE t SET ..., version = version + 1 WHERE id = ? AND version = ?
// 0行受影响时区分：记录不存在 → notFound，版本不匹配 → ErrVersionConflict
func versionedUpdate(db *gorm.DB, model interface{}, id, version uint, values map[string]interface{}, notFound error) error {
	values["version"] = gorm.Expr("version + 1")

	result := db.Model(model).Where("id = ? AND version = ?", id, version).Updates(values)
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "记录重复")
		}
		return apperrors.WrapDB(result.Error, "更新失败")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return apperrors.WrapDB(err, "查询失败")
	}
	if count == 0 {
		return notFound
	}
	return apperrors.ErrVersionConflict
}

// exists 按ID判断记录是否存在
func exists(db *gorm.DB, model interface{}, id uint) (bool, error) {
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperrors.WrapDB(err, "查询失败")
	}
	return count > 0, nil
}

// count 按条件计数
func count(db *gorm.DB, model interface{}, query string, args ...interface{}) (int64, error) {
	var n int64
	if err := db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		return 0, apperrors.WrapDB(err, "统计失败")
	}
	return n, nil
}

// likeEscaper 关键字中的%、_按字面匹配，转义符为!
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likePattern 不区分大小写的子串匹配参数，配合LOWER(col) LIKE ? ESCAPE '!'使用
func likePattern(keyword string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(keyword))) + "%"
}
