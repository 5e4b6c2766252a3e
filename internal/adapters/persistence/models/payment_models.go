package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment statuses (forward-only: PENDING -> SUCCESS | FAILED | EXPIRED)
const (
	PaymentStatusPending = "PENDING"
	PaymentStatusSuccess = "SUCCESS"
	PaymentStatusFailed  = "FAILED"
	PaymentStatusExpired = "EXPIRED"
)

// IsTerminalPaymentStatus reports whether status is a terminal payment state
func IsTerminalPaymentStatus(status string) bool {
	return status == PaymentStatusSuccess ||
		status == PaymentStatusFailed ||
		status == PaymentStatusExpired
}

// Refund statuses
const (
	RefundStatusNone      = "NONE"
	RefundStatusRequested = "REQUESTED"
	RefundStatusProcessed = "PROCESSED"
	RefundStatusFailed    = "FAILED"
)

// RegistrationSnapshot is the write-once registration payload captured at
// session-creation time and materialized into an Application once the
// gateway reports SUCCESS. The password is hashed before snapshotting —
// plaintext never touches the table.
type RegistrationSnapshot struct {
	Role         string         `json:"role"`
	District     string         `json:"district"`
	DistrictCode string         `json:"district_code"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"password_hash"`
	Profile      Profile        `json:"profile"`
	Documents    DocumentBundle `json:"documents"`
}

// PaymentOrder represents payment_orders table — tracks a gateway order
// from creation to its terminal state
type PaymentOrder struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	OrderID   string `gorm:"uniqueIndex;size:64;not null" json:"order_id"`
	SessionID string `gorm:"size:255" json:"session_id"`
	Amount    float64 `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency  string  `gorm:"size:10;not null;default:'INR'" json:"currency"`

	// Customer contact snapshot
	CustomerName  string `gorm:"size:100" json:"customer_name"`
	CustomerEmail string `gorm:"size:100;not null" json:"customer_email"`
	CustomerPhone string `gorm:"size:20" json:"customer_phone"`

	UserType  string `gorm:"size:20;not null" json:"user_type"`
	AccountID *uint  `gorm:"index" json:"account_id"`

	RegistrationData RegistrationSnapshot `gorm:"serializer:json;type:json" json:"-"`

	PaymentStatus string     `gorm:"size:20;not null;default:'PENDING';index" json:"payment_status"`
	GatewayStatus string     `gorm:"size:30" json:"gateway_status"`
	CompletedAt   *time.Time `json:"completed_at"`
	PaymentMethod string     `gorm:"size:30" json:"payment_method"`
	TransactionID string     `gorm:"size:64" json:"transaction_id"`
	RefundStatus  string     `gorm:"size:20;not null;default:'NONE'" json:"refund_status"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (PaymentOrder) TableName() string {
	return "payment_orders"
}

// IsTerminal reports whether the order has reached a terminal payment state
func (p *PaymentOrder) IsTerminal() bool {
	return IsTerminalPaymentStatus(p.PaymentStatus)
}

// PaymentOrderResponse DTO (registration snapshot withheld)
type PaymentOrderResponse struct {
	OrderID       string     `json:"order_id"`
	SessionID     string     `json:"session_id,omitempty"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	UserType      string     `json:"user_type"`
	PaymentStatus string     `json:"payment_status"`
	GatewayStatus string     `json:"gateway_status,omitempty"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	TransactionID string     `json:"transaction_id,omitempty"`
	RefundStatus  string     `json:"refund_status"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (p *PaymentOrder) ToResponse() *PaymentOrderResponse {
	return &PaymentOrderResponse{
		OrderID:       p.OrderID,
		SessionID:     p.SessionID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		UserType:      p.UserType,
		PaymentStatus: p.PaymentStatus,
		GatewayStatus: p.GatewayStatus,
		PaymentMethod: p.PaymentMethod,
		TransactionID: p.TransactionID,
		RefundStatus:  p.RefundStatus,
		CompletedAt:   p.CompletedAt,
		CreatedAt:     p.CreatedAt,
	}
}

// FeeSchedule represents fee_schedules table — the canonical registration
// fee per applicant role, settable only by the super admin
type FeeSchedule struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserType  string    `gorm:"uniqueIndex;size:20;not null" json:"user_type"`
	Amount    float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	UpdatedBy uint      `json:"updated_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FeeSchedule) TableName() string {
	return "fee_schedules"
}
