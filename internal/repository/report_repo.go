package repository

import (
	"context"
	"time"

	"github.com/wasssssim/verger-du-coin/internal/model"

	"gorm.io/gorm"
)

type DailyReportRepository interface {
	CRUD[model.DailyReport]
	FindByDate(ctx context.Context, date time.Time) (*model.DailyReport, error)
}

type dailyReportRepo struct{ *crudRepo[model.DailyReport] }

func NewDailyReportRepository(db *gorm.DB) DailyReportRepository {
	return &dailyReportRepo{newCRUD[model.DailyReport](db, "date DESC")}
}

func (r *dailyReportRepo) FindByDate(ctx context.Context, date time.Time) (*model.DailyReport, error) {
	var rep model.DailyReport
	if err := r.db.WithContext(ctx).Where("date = ?", date).First(&rep).Error; err != nil {
		return nil, err
	}
	return &rep, nil
}
