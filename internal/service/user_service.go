package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/example/goshop/internal/auth"
	"github.com/example/goshop/internal/config"
	"github.com/example/goshop/internal/datamodels/user"
	"github.com/example/goshop/internal/errs"
)

// UserService handles registration, authentication and account administration.
type UserService struct {
	repo user.Repository
	jwt  *config.JWTConfig
}

func NewUserService(repo user.Repository, jwt *config.JWTConfig) *UserService {
	return &UserService{repo: repo, jwt: jwt}
}

// Register creates an account. Callers cannot self-assign a role other than
// CUSTOMER; admins are created through the seed tool or by another admin.
func (s *UserService) Register(ctx context.Context, email, password string, role user.Role) (*user.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errs.Invalidf("a valid email is required")
	}
	if len(password) < 6 {
		return nil, errs.Invalidf("password must have at least 6 characters")
	}
	if role == "" {
		role = user.RoleCustomer
	}
	if !role.Valid() {
		return nil, errs.Invalidf("invalid role %q", role)
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.Conflictf("a user with the email %s already exists", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &user.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Enabled:      true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login checks credentials and account state, then issues a bearer token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errs.Unauthorizedf("incorrect credentials")
		}
		return "", err
	}
	if u.Locked || !u.Enabled {
		return "", errs.Forbiddenf("your account is blocked, please contact support")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", errs.Unauthorizedf("incorrect credentials")
	}
	return auth.GenerateToken(s.jwt, u)
}

// UpdatePassword sets a new password on the target account. Admins may reset
// any account; everyone else only their own, after proving the current one.
func (s *UserService) UpdatePassword(ctx context.Context, callerID int64, callerRole user.Role, targetID int64, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return errs.Invalidf("password must have at least 6 characters")
	}
	target, err := s.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	isOwner := callerID == targetID
	if !isOwner && callerRole != user.RoleAdmin {
		return errs.Forbiddenf("you can only update your own password")
	}
	if isOwner {
		if bcrypt.CompareHashAndPassword([]byte(target.PasswordHash), []byte(currentPassword)) != nil {
			return errs.Unauthorizedf("incorrect password")
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	target.PasswordHash = string(hash)
	return s.repo.Update(ctx, target)
}

// UpdateAccount overwrites email and password on the target account. Role
// changes apply only when the caller is an admin; everyone else keeps theirs.
func (s *UserService) UpdateAccount(ctx context.Context, callerID int64, callerRole user.Role, targetID int64, email, password string, role user.Role) (*user.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errs.Invalidf("a valid email is required")
	}
	if len(password) < 6 {
		return nil, errs.Invalidf("password must have at least 6 characters")
	}
	isAdmin := callerRole == user.RoleAdmin
	if callerID != targetID && !isAdmin {
		return nil, errs.Forbiddenf("you can only update your own account")
	}
	target, err := s.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if other, err := s.repo.GetByEmail(ctx, email); err == nil {
		if other.ID != targetID {
			return nil, errs.Conflictf("a user with the email %s already exists", email)
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	target.Email = email
	target.PasswordHash = string(hash)
	if isAdmin && role != "" {
		if !role.Valid() {
			return nil, errs.Invalidf("invalid role %q", role)
		}
		target.Role = role
	}
	if err := s.repo.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

// GetByID fetches a single account.
func (s *UserService) GetByID(ctx context.Context, id int64) (*user.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("no user found with the id %d", id)
		}
		return nil, err
	}
	return u, nil
}

// ListAll returns every account.
func (s *UserService) ListAll(ctx context.Context) ([]*user.User, error) {
	return s.repo.ListAll(ctx)
}

// ToggleLock flips the Locked flag on an account.
func (s *UserService) ToggleLock(ctx context.Context, id int64) (*user.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Locked = !u.Locked
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
