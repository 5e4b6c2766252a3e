package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Roles & Statuses
// ============================================================

// Applicant roles (each has its own registration profile)
const (
	RoleFencer  = "fencer"
	RoleCoach   = "coach"
	RoleReferee = "referee"
	RoleSchool  = "school"
	RoleClub    = "club"
)

// Administrative roles
const (
	RoleDistrictAdmin = "district_admin"
	RoleSuperAdmin    = "super_admin"
)

// ApplicantRoles lists the roles that carry an application record
var ApplicantRoles = []string{RoleFencer, RoleCoach, RoleReferee, RoleSchool, RoleClub}

// IsApplicantRole reports whether role is one of the five applicant roles
func IsApplicantRole(role string) bool {
	for _, r := range ApplicantRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Application statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ============================================================
// Account
// ============================================================

// Account represents accounts table (one login identity per registrant/admin)
type Account struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Email        string  `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password     string  `gorm:"size:255;not null" json:"-"`
	Role         string  `gorm:"size:20;not null;index" json:"role"`
	District     string  `gorm:"size:100;index" json:"district"`
	DistrictCode string  `gorm:"size:10" json:"district_code"`
	DafID        *string `gorm:"uniqueIndex;size:30" json:"daf_id"`

	// Approval flags (flipped by the approval workflow)
	IsApproved       bool `gorm:"default:false" json:"is_approved"`
	DistrictApproved bool `gorm:"default:false" json:"district_approved"`
	CentralApproved  bool `gorm:"default:false" json:"central_approved"`

	// Rejection metadata
	RejectionReason      string     `gorm:"type:text" json:"rejection_reason"`
	LastRejectedAt       *time.Time `json:"last_rejected_at"`
	ResubmissionCount    int        `gorm:"default:0" json:"resubmission_count"`
	CanEditForm          bool       `gorm:"default:false" json:"can_edit_form"`
	RequiresResubmission bool       `gorm:"default:false" json:"requires_resubmission"`

	ProfileCompleted bool           `gorm:"default:false" json:"profile_completed"`
	IsActive         bool           `gorm:"default:true" json:"is_active"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Account) TableName() string {
	return "accounts"
}

// AccountResponse DTO
type AccountResponse struct {
	ID                   uint       `json:"id"`
	Email                string     `json:"email"`
	Role                 string     `json:"role"`
	District             string     `json:"district"`
	DistrictCode         string     `json:"district_code"`
	DafID                *string    `json:"daf_id"`
	IsApproved           bool       `json:"is_approved"`
	DistrictApproved     bool       `json:"district_approved"`
	CentralApproved      bool       `json:"central_approved"`
	RejectionReason      string     `json:"rejection_reason,omitempty"`
	LastRejectedAt       *time.Time `json:"last_rejected_at,omitempty"`
	ResubmissionCount    int        `json:"resubmission_count"`
	CanEditForm          bool       `json:"can_edit_form"`
	RequiresResubmission bool       `json:"requires_resubmission"`
	ProfileCompleted     bool       `json:"profile_completed"`
	CreatedAt            time.Time  `json:"created_at"`
}

func (a *Account) ToResponse() *AccountResponse {
	return &AccountResponse{
		ID:                   a.ID,
		Email:                a.Email,
		Role:                 a.Role,
		District:             a.District,
		DistrictCode:         a.DistrictCode,
		DafID:                a.DafID,
		IsApproved:           a.IsApproved,
		DistrictApproved:     a.DistrictApproved,
		CentralApproved:      a.CentralApproved,
		RejectionReason:      a.RejectionReason,
		LastRejectedAt:       a.LastRejectedAt,
		ResubmissionCount:    a.ResubmissionCount,
		CanEditForm:          a.CanEditForm,
		RequiresResubmission: a.RequiresResubmission,
		ProfileCompleted:     a.ProfileCompleted,
		CreatedAt:            a.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	AccountID uint       `gorm:"index;not null" json:"account_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	Account   Account    `gorm:"foreignKey:AccountID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Application (one generic record for all five applicant types)
// ============================================================

// Profile holds the role-specific registration fields. One flat document
// covers all five applicant types; which fields are required is decided
// per role by the application service.
type Profile struct {
	// Individual applicants (fencer / coach / referee)
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	FatherName  string `json:"father_name,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Gender      string `json:"gender,omitempty"`
	NationalID  string `json:"national_id,omitempty"`

	// Contact
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`

	// Discipline (fencer / coach / referee)
	Weapon             string `json:"weapon,omitempty"`
	CertificationLevel string `json:"certification_level,omitempty"`
	ExperienceYears    int    `json:"experience_years,omitempty"`

	// Institutions (school / club)
	InstitutionName   string `json:"institution_name,omitempty"`
	HeadName          string `json:"head_name,omitempty"`
	AffiliationNumber string `json:"affiliation_number,omitempty"`
	FacilityDetails   string `json:"facility_details,omitempty"`
}

// DisplayName returns the applicant-facing name for listings
func (p *Profile) DisplayName() string {
	if p.InstitutionName != "" {
		return p.InstitutionName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// DocumentBundle maps document slot name to an opaque storage URL/identifier
type DocumentBundle map[string]string

// Application represents applications table — the shared envelope around
// the five applicant profile variants
type Application struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	AccountID       uint           `gorm:"not null;index" json:"account_id"`
	Type            string         `gorm:"size:20;not null;index" json:"type"`
	District        string         `gorm:"size:100;not null;index" json:"district"`
	Status          string         `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Profile         Profile        `gorm:"serializer:json;type:json" json:"profile"`
	Documents       DocumentBundle `gorm:"serializer:json;type:json" json:"documents"`
	RejectionReason string         `gorm:"type:text" json:"rejection_reason"`
	SubmittedAt     time.Time      `gorm:"not null;index" json:"submitted_at"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Account *Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}

// ApplicationSummary is the uniform shape returned by the district-scoped
// pending listing, merged across all applicant types
type ApplicationSummary struct {
	ID               uint      `json:"id"`
	Type             string    `json:"type"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	District         string    `json:"district"`
	RegistrationDate time.Time `json:"registration_date"`
	SubmittedAt      time.Time `json:"submitted_at"`
}

func (a *Application) ToSummary() *ApplicationSummary {
	return &ApplicationSummary{
		ID:               a.ID,
		Type:             a.Type,
		Name:             a.Profile.DisplayName(),
		Email:            a.Profile.Email,
		District:         a.District,
		RegistrationDate: a.CreatedAt,
		SubmittedAt:      a.SubmittedAt,
	}
}

// ============================================================
// District Directory
// ============================================================

// District represents districts table (reference data consumed by
// registration forms and district-scoping checks)
type District struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Code          string         `gorm:"uniqueIndex;size:10;not null" json:"code"`
	AdminName     string         `gorm:"size:100" json:"admin_name"`
	AdminEmail    string         `gorm:"size:100;not null" json:"admin_email"`
	AdminPhone    string         `gorm:"size:20" json:"admin_phone"`
	OfficeAddress string         `gorm:"type:text" json:"office_address"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedBy     uint           `json:"created_by"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (District) TableName() string {
	return "districts"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Account{},
		&RefreshToken{},
		&District{},
		&Application{},
		&FeeSchedule{},
		&PaymentOrder{},
	)
}
