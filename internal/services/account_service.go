package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"resto-tracker/internal/models"
)

// MinSecretLength applies to passwords and access codes alike.
const MinSecretLength = 4

// Access-code gated roles. Accounts only ever hold admin/user; chef and
// courier are operational areas guarded by shared codes, not account roles.
const (
	AccessRoleAdmin   = "admin"
	AccessRoleChef    = "chef"
	AccessRoleCourier = "courier"
)

var accessCodeSettingKeys = map[string]string{
	AccessRoleAdmin:   models.SettingAdminAccessCodeHash,
	AccessRoleChef:    models.SettingChefAccessCodeHash,
	AccessRoleCourier: models.SettingCourierAccessCodeHash,
}

// AccountService is the credential store: account authentication,
// registration, password changes and role access codes.
type AccountService interface {
	// Authenticate verifies username/password and returns the account, or
	// nil when either is wrong (the two cases are indistinguishable on purpose).
	Authenticate(username, password string) (*models.Account, error)
	// AuthenticateAdmin verifies the password against the sole admin
	// account; admin login does not ask for a username.
	AuthenticateAdmin(password string) (*models.Account, error)
	// CreateAccount registers a new user account. Admin accounts can never
	// be created through this path.
	CreateAccount(username, password, role string) (*models.Account, error)
	// ChangePassword re-hashes after verifying the old secret. Unknown
	// account and wrong old password fail with distinct kinds.
	ChangePassword(accountID uint, oldPassword, newPassword string) error
	// VerifyAccessCode checks a shared code for one of the gated roles.
	VerifyAccessCode(role, code string) (bool, error)
	// ChangeAdminAccessCode replaces the admin area code. Admin-only.
	ChangeAdminAccessCode(requesterRole, newCode string) error
}

type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new instance of AccountService
func NewAccountService(db *gorm.DB) AccountService {
	return &accountService{db: db}
}

func (s *accountService) Authenticate(username, password string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("username = ?", username).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	return &account, nil
}

func (s *accountService) AuthenticateAdmin(password string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("role = ?", models.RoleAdmin).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	return &account, nil
}

func (s *accountService) CreateAccount(username, password, role string) (*models.Account, error) {
	if role == "" {
		role = models.RoleUser
	}
	if role == models.RoleAdmin {
		return nil, models.NewError(models.KindValidationFailed, "creating additional admins is not allowed")
	}
	if role != models.RoleUser {
		return nil, models.NewError(models.KindValidationFailed, "unknown role %q", role)
	}
	if username == "" {
		return nil, models.NewError(models.KindValidationFailed, "username is required")
	}
	if len(password) < MinSecretLength {
		return nil, models.NewError(models.KindValidationFailed, "password must be at least %d characters", MinSecretLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := models.Account{Username: username, PasswordHash: string(hash), Role: role}
	if err := s.db.Create(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.WrapError(models.KindConflict, err, "username %q is taken", username)
		}
		return nil, err
	}
	return &account, nil
}

func (s *accountService) ChangePassword(accountID uint, oldPassword, newPassword string) error {
	if len(newPassword) < MinSecretLength {
		return models.NewError(models.KindValidationFailed, "password must be at least %d characters", MinSecretLength)
	}

	var account models.Account
	if err := s.db.First(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewError(models.KindNotFound, "account %d does not exist", accountID)
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(oldPassword)) != nil {
		return models.NewError(models.KindPermissionDenied, "old password does not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.Model(&account).Update("password_hash", string(hash)).Error
}

func (s *accountService) VerifyAccessCode(role, code string) (bool, error) {
	key, ok := accessCodeSettingKeys[role]
	if !ok {
		return false, models.NewError(models.KindValidationFailed, "unknown access role %q", role)
	}

	var setting models.Setting
	if err := s.db.Where("setting_key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(setting.SettingValue), []byte(code)) == nil, nil
}

func (s *accountService) ChangeAdminAccessCode(requesterRole, newCode string) error {
	if requesterRole != models.RoleAdmin {
		return models.NewError(models.KindPermissionDenied, "only admin can change the access code")
	}
	if len(newCode) < MinSecretLength {
		return models.NewError(models.KindValidationFailed, "access code must be at least %d characters", MinSecretLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newCode), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.Model(&models.Setting{}).
		Where("setting_key = ?", models.SettingAdminAccessCodeHash).
		Update("setting_value", string(hash)).Error
}
