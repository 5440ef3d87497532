package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/nexdesk/portal-service/internal/auth"
	"github.com/nexdesk/portal-service/internal/config"
	"github.com/nexdesk/portal-service/internal/domain"
	"github.com/nexdesk/portal-service/internal/repository"
	apperrors "github.com/nexdesk/portal-service/pkg/util/errorutil"
)

// AuthSubject identifies the caller when changing password.
type AuthSubject struct {
	Type domain.SubjectType
	ID   string
}

// StaffLoginResult carries either an issued token or a pending MFA challenge.
type StaffLoginResult struct {
	Staff       *domain.StaffMember
	Token       string
	ExpiresAt   time.Time
	MFARequired bool
}

// AuthService coordinates registration, login and MFA flows.
type AuthService struct {
	users       repository.UserRepository
	staff       repository.StaffRepository
	tokenMgr    *auth.TokenManager
	mfa         *auth.MFAManager
	logger      *zap.Logger
	bcryptCost  int
	mfaRequired bool
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo  repository.UserRepository
	StaffRepo repository.StaffRepository
	MFA       *auth.MFAManager
	Logger    *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:       deps.UserRepo,
		staff:       deps.StaffRepo,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		mfa:         deps.MFA,
		logger:      deps.Logger,
		bcryptCost:  cfg.Auth.BcryptCost,
		mfaRequired: cfg.Auth.MFARequired,
	}
}

// RegisterUser creates a new end-user account.
func (s *AuthService) RegisterUser(ctx context.Context, name, email, password string) (*domain.User, string, time.Time, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, domain.SubjectTypeUser, nil)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// LoginUser authenticates an end-user.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if user.Status != domain.UserStatusActive {
		return nil, "", time.Time{}, apperrors.NewForbidden("account suspended")
	}
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, domain.SubjectTypeUser, nil)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// LoginStaff authenticates staff. When MFA is enabled the password step
// issues a one-time code and no token; VerifyStaffMFA completes the login.
func (s *AuthService) LoginStaff(ctx context.Context, email, password string) (*StaffLoginResult, error) {
	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if !staff.Active {
		return nil, apperrors.NewForbidden("staff inactive")
	}
	if err := auth.VerifyPassword(staff.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	if s.mfaRequired && s.mfa != nil {
		code, err := s.mfa.IssueCode(ctx, staff.ID)
		if err != nil {
			return nil, err
		}
		// Delivery is a mail/SMS concern; logged at debug for development.
		s.logger.Debug("mfa code issued", zap.String("staff_id", staff.ID), zap.String("code", code))
		return &StaffLoginResult{Staff: staff, MFARequired: true}, nil
	}

	token, exp, err := s.tokenMgr.GenerateToken(staff.ID, domain.SubjectTypeStaff, &staff.Role)
	if err != nil {
		return nil, err
	}
	return &StaffLoginResult{Staff: staff, Token: token, ExpiresAt: exp}, nil
}

// VerifyStaffMFA consumes the pending code and issues the token. A fresh
// challenge is issued on expiry so the caller can retry.
func (s *AuthService) VerifyStaffMFA(ctx context.Context, email, code string) (*StaffLoginResult, error) {
	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if s.mfa == nil {
		return nil, apperrors.NewConflict("mfa not enabled", nil)
	}
	if err := s.mfa.VerifyCode(ctx, staff.ID, code); err != nil {
		domainErr := apperrors.ToDomainError(err)
		if domainErr.Message == "code expired" {
			if fresh, issueErr := s.mfa.IssueCode(ctx, staff.ID); issueErr == nil {
				s.logger.Debug("mfa code reissued", zap.String("staff_id", staff.ID), zap.String("code", fresh))
			}
		}
		return nil, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(staff.ID, domain.SubjectTypeStaff, &staff.Role)
	if err != nil {
		return nil, err
	}
	return &StaffLoginResult{Staff: staff, Token: token, ExpiresAt: exp}, nil
}

// ChangePassword verifies the current password before updating to a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, subject AuthSubject, currentPassword, newPassword string) error {
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	switch subject.Type {
	case domain.SubjectTypeUser:
		user, err := s.users.GetByID(ctx, subject.ID)
		if err != nil {
			return err
		}
		if err := auth.VerifyPassword(user.PasswordHash, currentPassword); err != nil {
			return apperrors.NewUnauthorized("invalid credentials")
		}
		user.PasswordHash = hash
		return s.users.Update(ctx, user)
	case domain.SubjectTypeStaff:
		staff, err := s.staff.GetByID(ctx, subject.ID)
		if err != nil {
			return err
		}
		if err := auth.VerifyPassword(staff.PasswordHash, currentPassword); err != nil {
			return apperrors.NewUnauthorized("invalid credentials")
		}
		staff.PasswordHash = hash
		return s.staff.Update(ctx, staff)
	default:
		return apperrors.NewValidationError("unknown subject", nil)
	}
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
