package repository

import (
	"context"
	"time"

	"github.com/wasssssim/verger-du-coin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerRepository interface {
	CRUD[model.Customer]
	FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Customer, error)
	// TouchLastPurchase sets last_purchase_date without rewriting the rest of the row.
	TouchLastPurchase(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error
}

type customerRepo struct{ *crudRepo[model.Customer] }

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepo{newCRUD[model.Customer](db, "last_name ASC, first_name ASC")}
}

func (r *customerRepo) FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	if err := r.conn(ctx, tx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) TouchLastPurchase(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error {
	return r.conn(ctx, tx).Model(&model.Customer{}).Where("id = ?", id).
		UpdateColumn("last_purchase_date", at).Error
}

// ListedCustomers hides deactivated and anonymized records from the directory.
func ListedCustomers(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ? AND is_anonymized = ?", true, false)
}

type LoyaltyCardRepository interface {
	List(ctx context.Context, opts ListOptions) ([]model.LoyaltyCard, int64, error)
	FindByID(ctx context.Context, id uuid.UUID, preload ...string) (*model.LoyaltyCard, error)
	FindByCardNumber(ctx context.Context, cardNumber string) (*model.LoyaltyCard, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) (*model.LoyaltyCard, error)
	// LockByCustomer reads the card with a row lock for a read-modify-write in tx.
	LockByCustomer(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) (*model.LoyaltyCard, error)
	LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.LoyaltyCard, error)
	Create(ctx context.Context, tx *gorm.DB, c *model.LoyaltyCard) error
	Update(ctx context.Context, tx *gorm.DB, c *model.LoyaltyCard) error
	DB() *gorm.DB
}

type loyaltyCardRepo struct{ *crudRepo[model.LoyaltyCard] }

func NewLoyaltyCardRepository(db *gorm.DB) LoyaltyCardRepository {
	return &loyaltyCardRepo{newCRUD[model.LoyaltyCard](db, "created_at DESC")}
}

func (r *loyaltyCardRepo) FindByCardNumber(ctx context.Context, cardNumber string) (*model.LoyaltyCard, error) {
	var c model.LoyaltyCard
	if err := r.db.WithContext(ctx).Where("card_number = ?", cardNumber).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *loyaltyCardRepo) FindByCustomer(ctx context.Context, customerID uuid.UUID) (*model.LoyaltyCard, error) {
	return r.LockByCustomer(ctx, nil, customerID)
}

func (r *loyaltyCardRepo) LockByCustomer(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) (*model.LoyaltyCard, error) {
	var c model.LoyaltyCard
	if err := r.locked(ctx, tx).Where("customer_id = ?", customerID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *loyaltyCardRepo) LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.LoyaltyCard, error) {
	var c model.LoyaltyCard
	if err := r.locked(ctx, tx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// locked adds FOR UPDATE inside a transaction on dialects that support it.
func (r *loyaltyCardRepo) locked(ctx context.Context, tx *gorm.DB) *gorm.DB {
	q := r.conn(ctx, tx)
	if tx != nil && tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}
