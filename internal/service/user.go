package service

import (
	"context"       // Request scoped cancellation
	"crypto/subtle" // Constant time secret comparison
	"errors"        // Error inspection
	"strings"       // Role normalization

	"online_shop/internal/apperr"     // Error taxonomy
	"online_shop/internal/auth"       // Caller identity
	"online_shop/internal/domain"     // Importing domain models
	"online_shop/internal/repository" // Persistence
	"online_shop/internal/utils"      // Tokens, password digests and cache

	"github.com/sirupsen/logrus" // Structured logging
)

const (
	defaultUserPageSize = 20
	maxUserPageSize     = 100
)

// UserPatch updates the non-nil fields of a user
type UserPatch struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// UserPage is one page of the user listing
type UserPage struct {
	Users    []UserView `json:"users"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

// UserService handles accounts and issues bearer tokens
type UserService struct {
	store       repository.Store
	tokens      *utils.TokenManager
	cache       catalogCache
	adminSecret string // Empty disables admin bootstrap
}

func NewUserService(store repository.Store, tokens *utils.TokenManager, loader *utils.Loader, adminSecret string) *UserService {
	return &UserService{store: store, tokens: tokens, cache: catalogCache{loader: loader}, adminSecret: adminSecret}
}

func parseRole(raw string) (domain.Role, error) {
	role := domain.Role(strings.ToUpper(strings.TrimSpace(raw)))
	if role == "" {
		return domain.RoleUser, nil
	}
	if !role.Valid() {
		return "", apperr.BadRequest("Invalid role").WithDetails(map[string]any{"field": "role", "allowed": []domain.Role{domain.RoleUser, domain.RoleAdmin}})
	}
	return role, nil
}

func (s *UserService) issue(user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.Sign(user)
	if err != nil {
		return nil, apperr.Internal(err, "Failed to generate token")
	}
	return &AuthResult{Token: token, User: toUserView(user)}, nil
}

// createAccount stores the user and an empty basket in one transaction
func (s *UserService) createAccount(ctx context.Context, email, password string, role domain.Role, guard func(tx repository.Store) error) (*domain.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal(err, "Failed to hash password")
	}
	user := &domain.User{Email: email, Password: hash, Role: role}
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if guard != nil {
			if err := guard(tx); err != nil {
				return err
			}
		}
		if _, err := tx.Users().FindByEmail(ctx, email); err == nil {
			return apperr.BadRequest("User with this email already exists").WithField("email")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		_, err := tx.Baskets().Create(ctx, user.ID)
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to create user")
	}
	return user, nil
}

// Register creates an account with its basket and returns a token. Only admins may create admins.
func (s *UserService) Register(ctx context.Context, caller *auth.Identity, email, password, role string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	r, err := parseRole(role)
	if err != nil {
		return nil, err
	}
	if r == domain.RoleAdmin && !caller.IsAdmin() {
		return nil, apperr.Forbidden("Only admins can create admin accounts")
	}

	user, err := s.createAccount(ctx, email, password, r, nil)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("User registered")
	return s.issue(user)
}

// Login verifies credentials and returns a token
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.BadRequest("Email and password are required")
	}
	user, err := s.store.Users().FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Unauthorized("Invalid email or password")
	} else if err != nil {
		return nil, apperr.Wrap(err, "Failed to log in")
	}
	if !utils.CheckPassword(user.Password, password) {
		logrus.WithFields(logrus.Fields{"user_id": user.ID}).Warn("Failed login attempt")
		return nil, apperr.Unauthorized("Invalid email or password")
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("User logged in")
	return s.issue(user)
}

// Refresh issues a new token carrying the caller's current email and role
func (s *UserService) Refresh(ctx context.Context, caller *auth.Identity) (*AuthResult, error) {
	if caller == nil {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	user, err := s.store.Users().FindByID(ctx, caller.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Unauthorized("User no longer exists")
	} else if err != nil {
		return nil, apperr.Wrap(err, "Failed to refresh token")
	}
	return s.issue(user)
}

// InitAdmin creates the first admin. It requires the configured secret and fails once any admin exists.
func (s *UserService) InitAdmin(ctx context.Context, email, password, secret string) (*AuthResult, error) {
	if s.adminSecret == "" {
		return nil, apperr.Forbidden("Admin initialization is disabled")
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.adminSecret)) != 1 {
		logrus.Warn("Admin initialization attempted with a wrong secret")
		return nil, apperr.Forbidden("Invalid admin secret")
	}
	email = NormalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	user, err := s.createAccount(ctx, email, password, domain.RoleAdmin, func(tx repository.Store) error {
		admins, err := tx.Users().LockByRole(ctx, domain.RoleAdmin)
		if err != nil {
			return err
		}
		if admins > 0 {
			return apperr.Forbidden("Admin already exists")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("Initial admin created")
	return s.issue(user)
}

// List returns a page of users ordered by id
func (s *UserService) List(ctx context.Context, page, pageSize int) (*UserPage, error) {
	offset, limit := pageBounds(page, pageSize, defaultUserPageSize, maxUserPageSize)
	users, total, err := s.store.Users().List(ctx, offset, limit)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to load users")
	}
	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, toUserView(&users[i]))
	}
	return &UserPage{Users: views, Total: total, Page: offset/limit + 1, PageSize: limit}, nil
}

// Get returns a user to themselves or an admin
func (s *UserService) Get(ctx context.Context, caller *auth.Identity, id uint) (*UserView, error) {
	if !auth.CanAccess(caller, id) {
		return nil, apperr.Forbidden("Access denied")
	}
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(orNotFound(err, "id", "User not found"), "Failed to load user")
	}
	view := toUserView(user)
	return &view, nil
}

// Update applies a partial update. Only admins may change roles, and the last admin cannot be demoted.
func (s *UserService) Update(ctx context.Context, caller *auth.Identity, id uint, patch UserPatch) (*UserView, error) {
	if !auth.CanAccess(caller, id) {
		return nil, apperr.Forbidden("Access denied")
	}
	fields := map[string]any{}
	if patch.Email != nil {
		email := NormalizeEmail(*patch.Email)
		if !emailPattern.MatchString(email) {
			return nil, apperr.BadRequest("Invalid email format").WithField("email")
		}
		fields["email"] = email
	}
	if patch.Password != nil {
		if err := validatePassword(*patch.Password); err != nil {
			return nil, err
		}
		hash, err := utils.HashPassword(*patch.Password)
		if err != nil {
			return nil, apperr.Internal(err, "Failed to hash password")
		}
		fields["password"] = hash
	}
	var role domain.Role
	if patch.Role != nil {
		if !caller.IsAdmin() {
			return nil, apperr.Forbidden("Only admins can change roles")
		}
		var err error
		if role, err = parseRole(*patch.Role); err != nil {
			return nil, err
		}
		fields["role"] = role
	}
	if len(fields) == 0 {
		return nil, apperr.BadRequest("Nothing to update")
	}

	var user *domain.User
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		current, err := tx.Users().FindByID(ctx, id)
		if err != nil {
			return orNotFound(err, "id", "User not found")
		}
		if email, ok := fields["email"].(string); ok && email != current.Email {
			if _, err := tx.Users().FindByEmail(ctx, email); err == nil {
				return apperr.BadRequest("User with this email already exists").WithField("email")
			} else if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
		}
		if current.Role == domain.RoleAdmin && patch.Role != nil && role != domain.RoleAdmin {
			admins, err := tx.Users().LockByRole(ctx, domain.RoleAdmin)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return apperr.BadRequest("Cannot demote the last admin").WithField("role")
			}
		}
		if err := tx.Users().Update(ctx, id, fields); err != nil {
			return err
		}
		user, err = tx.Users().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to update user")
	}

	logrus.WithFields(logrus.Fields{"user_id": id, "by": caller.UserID}).Info("User updated")
	view := toUserView(user)
	return &view, nil
}

// Delete removes the user with their ratings, basket and orders in one transaction
func (s *UserService) Delete(ctx context.Context, caller *auth.Identity, id uint) error {
	if !auth.CanAccess(caller, id) {
		return apperr.Forbidden("Access denied")
	}
	var rated []uint
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		user, err := tx.Users().FindByID(ctx, id)
		if err != nil {
			return orNotFound(err, "id", "User not found")
		}
		if user.Role == domain.RoleAdmin {
			admins, err := tx.Users().LockByRole(ctx, domain.RoleAdmin)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return apperr.BadRequest("Cannot delete the last admin")
			}
		}

		if rated, err = tx.Ratings().DeviceIDsByUser(ctx, id); err != nil {
			return err
		}
		if err := tx.Ratings().DeleteByUser(ctx, id); err != nil {
			return err
		}
		for _, deviceID := range rated {
			if err := recomputeRating(ctx, tx, deviceID); err != nil {
				return err
			}
		}
		if err := tx.Baskets().DeleteByUser(ctx, id); err != nil {
			return err
		}
		orderIDs, err := tx.Orders().IDsByUser(ctx, id)
		if err != nil {
			return err
		}
		for _, orderID := range orderIDs {
			if err := tx.Orders().DeleteLines(ctx, orderID); err != nil {
				return err
			}
			if _, err := tx.Orders().Delete(ctx, orderID); err != nil {
				return err
			}
		}
		return tx.Users().Delete(ctx, id)
	})
	if err != nil {
		return apperr.Wrap(err, "Failed to delete user")
	}

	if len(rated) > 0 {
		s.cache.devices(ctx, rated...)
	}
	logrus.WithFields(logrus.Fields{"user_id": id, "by": caller.UserID}).Info("User deleted")
	return nil
}
