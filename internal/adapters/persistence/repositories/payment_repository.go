package repositories

import (
	"context"
	"fmt"
	"time"

	"daf-fencereg/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// paymentRepository implements PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create creates a new payment order
func (r *paymentRepository) Create(ctx context.Context, order *models.PaymentOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// GetByOrderID gets a payment order by its gateway order identifier
func (r *paymentRepository) GetByOrderID(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Update updates a payment order
func (r *paymentRepository) Update(ctx context.Context, order *models.PaymentOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// ClaimTerminal moves the order out of PENDING only if it is still PENDING
func (r *paymentRepository) ClaimTerminal(ctx context.Context, orderID string, updates map[string]interface{}) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.PaymentOrder{}).
		Where("order_id = ? AND payment_status = ?", orderID, models.PaymentStatusPending).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// List lists payment orders with pagination, newest first
func (r *paymentRepository) List(ctx context.Context, offset, limit int) ([]*models.PaymentOrder, int64, error) {
	var orders []*models.PaymentOrder
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.PaymentOrder{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error

	return orders, total, err
}

// ListStalePending lists PENDING orders older than the given age, for the
// reconciliation sweep
func (r *paymentRepository) ListStalePending(ctx context.Context, olderThanMinutes int, limit int) ([]*models.PaymentOrder, error) {
	var orders []*models.PaymentOrder
	cutoff := time.Now().Add(-time.Duration(olderThanMinutes) * time.Minute)
	err := r.db.WithContext(ctx).
		Where("payment_status = ? AND created_at < ?", models.PaymentStatusPending, cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

// SumByStatus sums order amounts for one payment status
func (r *paymentRepository) SumByStatus(ctx context.Context, status string) (float64, error) {
	var sum *float64
	err := r.db.WithContext(ctx).
		Model(&models.PaymentOrder{}).
		Select("SUM(amount)").
		Where("payment_status = ?", status).
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("sum payment orders: %w", err)
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}
