package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"daf-fencereg/internal/adapters/persistence/models"
	"daf-fencereg/internal/adapters/persistence/repositories"
	"daf-fencereg/internal/core/domain"
	"daf-fencereg/internal/pkg/fedid"

	"gorm.io/gorm"
)

// Application service errors
var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrDistrictUnknown     = errors.New("district is not in the directory")
	ErrRoleMismatch        = errors.New("account role does not match application type")
	ErrAlreadyApplied      = errors.New("account already has a live application")
	ErrReasonRequired      = errors.New("rejection reason is required")
	ErrEditNotAllowed      = errors.New("application is not open for editing")
	ErrProfileInvalid      = errors.New("profile validation failed")
)

var nationalIDPattern = regexp.MustCompile(`^\d{12}$`)

// requiredDocuments lists the fixed document slots per applicant type that
// must be filled before a submission is accepted
var requiredDocuments = map[string][]string{
	models.RoleFencer:  {"photo", "id_proof", "birth_certificate"},
	models.RoleCoach:   {"photo", "id_proof", "coaching_certificate"},
	models.RoleReferee: {"photo", "id_proof", "referee_certificate"},
	models.RoleSchool:  {"registration_proof", "facility_photos"},
	models.RoleClub:    {"registration_proof", "facility_photos"},
}

// validateProfile returns field-level problems for a role's profile and
// document bundle; empty map means the submission is acceptable
func validateProfile(role string, p *models.Profile, docs models.DocumentBundle) map[string]string {
	problems := make(map[string]string)

	require := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			problems[field] = "required"
		}
	}

	require("email", p.Email)
	require("phone", p.Phone)
	require("address", p.Address)

	switch role {
	case models.RoleFencer, models.RoleCoach, models.RoleReferee:
		require("first_name", p.FirstName)
		require("date_of_birth", p.DateOfBirth)
		require("gender", p.Gender)
		if p.NationalID == "" {
			problems["national_id"] = "required"
		} else if !nationalIDPattern.MatchString(p.NationalID) {
			problems["national_id"] = "must be 12 digits"
		}
		if role == models.RoleFencer {
			require("weapon", p.Weapon)
		} else {
			require("certification_level", p.CertificationLevel)
		}
	case models.RoleSchool, models.RoleClub:
		require("institution_name", p.InstitutionName)
		require("head_name", p.HeadName)
	}

	for _, slot := range requiredDocuments[role] {
		if docs[slot] == "" {
			problems["documents."+slot] = "document required"
		}
	}

	return problems
}

// ApplicationService drives the registration approval workflow
type ApplicationService struct {
	appRepo      repositories.ApplicationRepository
	accountRepo  repositories.AccountRepository
	districtRepo repositories.DistrictRepository
	idGen        fedid.Generator
}

// NewApplicationService creates a new application service
func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	accountRepo repositories.AccountRepository,
	districtRepo repositories.DistrictRepository,
	idGen fedid.Generator,
) *ApplicationService {
	return &ApplicationService{
		appRepo:      appRepo,
		accountRepo:  accountRepo,
		districtRepo: districtRepo,
		idGen:        idGen,
	}
}

// SubmitInput represents a new application submission
type SubmitInput struct {
	Type      string                `json:"type"`
	District  string                `json:"district"`
	Profile   models.Profile        `json:"profile"`
	Documents models.DocumentBundle `json:"documents"`
}

// Submit files a new application for the authenticated account
func (s *ApplicationService) Submit(ctx context.Context, input *SubmitInput, accountID uint) (*models.Application, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}

	if account.Role != input.Type {
		return nil, ErrRoleMismatch
	}

	district, err := s.districtRepo.GetByName(ctx, input.District)
	if err != nil || !district.IsActive {
		return nil, ErrDistrictUnknown
	}

	exists, err := s.appRepo.ExistsLiveByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyApplied
	}

	if problems := validateProfile(input.Type, &input.Profile, input.Documents); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	app := &models.Application{
		AccountID:   accountID,
		Type:        input.Type,
		District:    input.District,
		Status:      models.StatusPending,
		Profile:     input.Profile,
		Documents:   input.Documents,
		SubmittedAt: time.Now(),
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	account.ProfileCompleted = true
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	return app, nil
}

// ValidationError carries field-level validation problems
type ValidationError struct {
	Problems map[string]string
}

func (e *ValidationError) Error() string {
	return ErrProfileInvalid.Error()
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrProfileInvalid
}

// GetByID gets an application, enforcing district scope for district admins
func (s *ApplicationService) GetByID(ctx context.Context, id uint, actor *models.Account) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	if err := s.checkScope(app, actor); err != nil {
		return nil, err
	}
	return app, nil
}

// GetOwn gets the application owned by the account
func (s *ApplicationService) GetOwn(ctx context.Context, accountID uint) (*models.Application, error) {
	app, err := s.appRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

// ListInput represents the district-scoped listing input
type ListInput struct {
	Status   string
	District string // super admin may filter; district admins are pinned to their own
	Offset   int
	Limit    int
}

// ListOutput represents the merged, uniformly shaped listing
type ListOutput struct {
	Applications []*models.ApplicationSummary `json:"applications"`
	Total        int64                        `json:"total"`
}

// List returns the approval queue: applications in one district (for a
// district admin, always their own), oldest submission first
func (s *ApplicationService) List(ctx context.Context, input *ListInput, actor *models.Account) (*ListOutput, error) {
	if input.Status == "" {
		input.Status = models.StatusPending
	}

	district := input.District
	switch actor.Role {
	case models.RoleDistrictAdmin:
		district = actor.District
	case models.RoleSuperAdmin:
		// optional filter
	default:
		return nil, domain.ErrForbidden
	}

	var apps []*models.Application
	var total int64
	var err error
	if district != "" {
		apps, total, err = s.appRepo.ListByDistrictAndStatus(ctx, district, input.Status, input.Offset, input.Limit)
	} else {
		apps, total, err = s.appRepo.ListByStatus(ctx, input.Status, input.Offset, input.Limit)
	}
	if err != nil {
		return nil, err
	}

	summaries := make([]*models.ApplicationSummary, 0, len(apps))
	for _, app := range apps {
		summaries = append(summaries, app.ToSummary())
	}

	return &ListOutput{Applications: summaries, Total: total}, nil
}

// Approve moves a pending application to approved, assigns a federation ID
// and flips the owning account's approval flags. Only one of several
// concurrent approve/reject calls can win the pending -> approved
// transition; the rest get ErrNoLongerPending.
func (s *ApplicationService) Approve(ctx context.Context, id uint, actor *models.Account) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	if err := s.checkScope(app, actor); err != nil {
		return nil, err
	}

	dafID, err := s.nextDafID(ctx, app.Type)
	if err != nil {
		return nil, err
	}

	ok, err := s.appRepo.TransitionFromPending(ctx, app.ID, map[string]interface{}{
		"status":           models.StatusApproved,
		"rejection_reason": "",
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNoLongerPending
	}

	account, err := s.accountRepo.GetByID(ctx, app.AccountID)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}

	account.IsApproved = true
	account.DistrictApproved = true
	if actor.Role == models.RoleSuperAdmin {
		account.CentralApproved = true
	}
	account.DafID = &dafID
	account.RejectionReason = ""
	account.CanEditForm = false
	account.RequiresResubmission = false
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	app.Status = models.StatusApproved
	app.RejectionReason = ""
	app.Account = account
	return app, nil
}

// Reject moves a pending application to rejected with a reason and opens
// the owning account's form for resubmission
func (s *ApplicationService) Reject(ctx context.Context, id uint, reason string, actor *models.Account) (*models.Application, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}

	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	if err := s.checkScope(app, actor); err != nil {
		return nil, err
	}

	ok, err := s.appRepo.TransitionFromPending(ctx, app.ID, map[string]interface{}{
		"status":           models.StatusRejected,
		"rejection_reason": reason,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNoLongerPending
	}

	account, err := s.accountRepo.GetByID(ctx, app.AccountID)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}

	now := time.Now()
	account.IsApproved = false
	account.DistrictApproved = false
	account.RejectionReason = reason
	account.LastRejectedAt = &now
	account.ResubmissionCount++
	account.CanEditForm = true
	account.RequiresResubmission = true
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	app.Status = models.StatusRejected
	app.RejectionReason = reason
	app.Account = account
	return app, nil
}

// ResubmitInput carries the edited fields of a rejected application.
// National ID, email and district anchor the applicant's identity and stay
// immutable after creation.
type ResubmitInput struct {
	Profile   models.Profile        `json:"profile"`
	Documents models.DocumentBundle `json:"documents"`
}

// Resubmit applies the owner's edits and returns the application to the
// pending queue
func (s *ApplicationService) Resubmit(ctx context.Context, id uint, input *ResubmitInput, accountID uint) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	if app.AccountID != accountID {
		return nil, domain.ErrForbidden
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}
	if !account.CanEditForm {
		return nil, ErrEditNotAllowed
	}

	// Identity-anchoring fields stay as filed.
	input.Profile.NationalID = app.Profile.NationalID
	input.Profile.Email = app.Profile.Email

	if problems := validateProfile(app.Type, &input.Profile, mergedDocuments(app.Documents, input.Documents)); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	app.Profile = input.Profile
	app.Documents = mergedDocuments(app.Documents, input.Documents)
	app.Status = models.StatusPending
	app.RejectionReason = ""
	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}

	account.CanEditForm = false
	account.RequiresResubmission = false
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	app.Account = account
	return app, nil
}

// checkScope enforces that district admins act only inside their district
func (s *ApplicationService) checkScope(app *models.Application, actor *models.Account) error {
	switch actor.Role {
	case models.RoleSuperAdmin:
		return nil
	case models.RoleDistrictAdmin:
		if actor.District != app.District {
			return domain.ErrForbidden
		}
		return nil
	default:
		return domain.ErrForbidden
	}
}

// nextDafID draws federation IDs until one is free. The generator is
// collision-free within a process; the uniqueness check covers restarts.
func (s *ApplicationService) nextDafID(ctx context.Context, role string) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		id := s.idGen.Next(role)
		taken, err := s.accountRepo.ExistsByDafID(ctx, id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
	}
	return "", errors.New("could not allocate a unique federation ID")
}

// mergedDocuments overlays newly uploaded slots onto the existing bundle
func mergedDocuments(existing, updates models.DocumentBundle) models.DocumentBundle {
	merged := make(models.DocumentBundle, len(existing)+len(updates))
	for slot, url := range existing {
		merged[slot] = url
	}
	for slot, url := range updates {
		if url != "" {
			merged[slot] = url
		}
	}
	return merged
}
