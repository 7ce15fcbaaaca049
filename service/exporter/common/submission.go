package common

import (
	"context"
	"fmt"

	"github.com/to404hanga/codeforces_submit_bot/model"
	"gorm.io/gorm"
)

// FetchSubmissions 从数据库中分页获取提交记录
func FetchSubmissions(db *gorm.DB, ctx context.Context, accountID *uint64, page, limit int) ([]model.Submission, error) {
	query := db.WithContext(ctx).Model(&model.Submission{})
	if accountID != nil {
		query = query.Where("account_id = ?", *accountID)
	}

	var submissions []model.Submission
	if err := query.
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("fetch submissions failed: %w", err)
	}
	return submissions, nil
}
