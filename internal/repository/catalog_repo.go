package repository

import (
	"context"

	"github.com/wasssssim/verger-du-coin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	CRUD[model.Category]
}

type categoryRepo struct{ *crudRepo[model.Category] }

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepo{newCRUD[model.Category](db, "display_order ASC, name ASC")}
}

type ProductRepository interface {
	CRUD[model.Product]
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	// FindByIDs loads every product in ids inside tx, keyed by ID.
	FindByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*model.Product, error)
}

type productRepo struct{ *crudRepo[model.Product] }

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepo{newCRUD[model.Product](db, "name ASC")}
}

func (r *productRepo) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*model.Product, error) {
	var products []model.Product
	if err := r.conn(ctx, tx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]*model.Product, len(products))
	for i := range products {
		out[products[i].ID] = &products[i]
	}
	return out, nil
}
