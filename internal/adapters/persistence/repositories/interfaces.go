package repositories

import (
	"context"

	"daf-fencereg/internal/adapters/persistence/models"
)

// AccountRepository defines account repository interface
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.Account, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByDafID(ctx context.Context, dafID string) (bool, error)
}

// ApplicationRepository defines application repository interface
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id uint) (*models.Application, error)
	GetByAccountID(ctx context.Context, accountID uint) (*models.Application, error)
	Update(ctx context.Context, app *models.Application) error
	ListByDistrictAndStatus(ctx context.Context, district, status string, offset, limit int) ([]*models.Application, int64, error)
	ListByStatus(ctx context.Context, status string, offset, limit int) ([]*models.Application, int64, error)
	// TransitionFromPending applies updates only while status is still
	// pending. Returns false when the record was no longer pending, so
	// concurrent approve/reject calls resolve to exactly one winner.
	TransitionFromPending(ctx context.Context, id uint, updates map[string]interface{}) (bool, error)
	ExistsLiveByAccountID(ctx context.Context, accountID uint) (bool, error)
	CountByDistrictAndStatus(ctx context.Context, district, status string) (int64, error)
	CountByTypeAndStatus(ctx context.Context, appType, status string) (int64, error)
}

// PaymentRepository defines payment order repository interface
type PaymentRepository interface {
	Create(ctx context.Context, order *models.PaymentOrder) error
	GetByOrderID(ctx context.Context, orderID string) (*models.PaymentOrder, error)
	Update(ctx context.Context, order *models.PaymentOrder) error
	// ClaimTerminal moves the order out of PENDING only if it is still
	// PENDING, guarding SUCCESS materialization against concurrent verifies.
	ClaimTerminal(ctx context.Context, orderID string, updates map[string]interface{}) (bool, error)
	List(ctx context.Context, offset, limit int) ([]*models.PaymentOrder, int64, error)
	ListStalePending(ctx context.Context, olderThanMinutes int, limit int) ([]*models.PaymentOrder, error)
	SumByStatus(ctx context.Context, status string) (float64, error)
}

// FeeRepository defines fee schedule repository interface
type FeeRepository interface {
	GetByUserType(ctx context.Context, userType string) (*models.FeeSchedule, error)
	List(ctx context.Context) ([]*models.FeeSchedule, error)
	Upsert(ctx context.Context, fee *models.FeeSchedule) error
}

// DistrictRepository defines district directory repository interface.
// CreateWithAdmin and DeleteWithAdmin keep the directory entry and its
// paired district_admin account in step inside one transaction.
type DistrictRepository interface {
	GetByID(ctx context.Context, id uint) (*models.District, error)
	GetByName(ctx context.Context, name string) (*models.District, error)
	List(ctx context.Context, activeOnly bool) ([]*models.District, error)
	Update(ctx context.Context, district *models.District) error
	CreateWithAdmin(ctx context.Context, district *models.District, admin *models.Account) error
	DeleteWithAdmin(ctx context.Context, districtID uint) error
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByAccountID(ctx context.Context, accountID uint) error
	DeleteExpired(ctx context.Context) error
}
