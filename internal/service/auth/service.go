package auth

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/clinichub/clinic-services/internal/model"
	"github.com/clinichub/clinic-services/internal/repository"
	"github.com/clinichub/clinic-services/pkg/auth"
	apperr "github.com/clinichub/clinic-services/pkg/errors"
	"github.com/clinichub/clinic-services/pkg/security"
)

// Service implements account management and authentication.
type Service struct {
	repo   repository.UserRepository
	hasher security.PasswordHasher
	tokens auth.JWTService
}

func NewService(repo repository.UserRepository, hasher security.PasswordHasher, tokens auth.JWTService) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens}
}

// Register creates an account and returns it with a fresh access token.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, string, error) {
	if err := security.ValidatePasswordStrength(req.Password); err != nil {
		return nil, "", apperr.Validation("%s", err.Error())
	}

	if existing, err := s.repo.GetByUsername(ctx, req.Username); err != nil {
		return nil, "", err
	} else if existing != nil {
		return nil, "", apperr.Conflict("username already taken")
	}
	if existing, err := s.repo.GetByEmail(ctx, req.Email); err != nil {
		return nil, "", err
	} else if existing != nil {
		return nil, "", apperr.Conflict("email already registered")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	log.Info().Str("username", user.Username).Msg("user registered")
	return user, token, nil
}

// Login authenticates by username or email. Successful logins update
// last_login and append a login history entry.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest, ip, userAgent string) (*model.User, string, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		if user, err = s.repo.GetByEmail(ctx, req.Username); err != nil {
			return nil, "", err
		}
	}
	if user == nil || s.hasher.Compare(user.PasswordHash, req.Password) != nil {
		return nil, "", apperr.Unauthorized("invalid credentials")
	}
	if !user.IsActive {
		return nil, "", apperr.Forbidden("account disabled")
	}

	user.LastLogin = model.Now()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, "", err
	}

	if len(userAgent) > 255 {
		userAgent = userAgent[:255]
	}
	history := &model.LoginHistory{
		UserID:    user.ID,
		IPAddress: ip,
		UserAgent: userAgent,
		Success:   true,
	}
	if err := s.repo.RecordLogin(ctx, history); err != nil {
		log.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to record login")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ListUsers is an admin-only listing; the role check lives in the handler.
func (s *Service) ListUsers(ctx context.Context, f model.UserFilters) ([]*model.User, int, error) {
	return s.repo.List(ctx, f)
}

// UpdateUser applies the whitelisted fields. Only admins may change roles;
// the handler passes isAdmin from the verified claims.
func (s *Service) UpdateUser(ctx context.Context, id int64, req *model.UpdateUserRequest, isAdmin bool) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		if existing, err := s.repo.GetByEmail(ctx, *req.Email); err != nil {
			return nil, err
		} else if existing != nil && existing.ID != id {
			return nil, apperr.Conflict("email already registered")
		}
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Role != nil && isAdmin {
		user.Role = *req.Role
	}
	if req.Password != nil {
		if err := security.ValidatePasswordStrength(*req.Password); err != nil {
			return nil, apperr.Validation("%s", err.Error())
		}
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) LoginHistory(ctx context.Context, userID int64, limit int) ([]*model.LoginHistory, error) {
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListLoginHistory(ctx, userID, limit)
}

func (s *Service) Stats(ctx context.Context) (*model.UserStats, error) {
	return s.repo.Stats(ctx)
}

// EnsureAdmin creates the default admin account when none exists, so a
// fresh install is immediately usable.
func (s *Service) EnsureAdmin(ctx context.Context) error {
	existing, err := s.repo.GetByUsername(ctx, "admin")
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := s.hasher.Hash("Admin@123")
	if err != nil {
		return apperr.Internal(err)
	}
	admin := &model.User{
		Username:     "admin",
		Email:        "admin@clinic.com",
		PasswordHash: hash,
		FirstName:    "Admin",
		LastName:     "System",
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return err
	}
	log.Info().Msg("default admin user created")
	return nil
}

// VerifyToken validates an access token for other services or middleware.
func (s *Service) VerifyToken(token string) (*auth.Claims, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, apperr.Unauthorized("invalid or expired token")
	}
	return claims, nil
}

func (s *Service) issueToken(user *model.User) (string, error) {
	token, err := s.tokens.Generate(&auth.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	})
	if err != nil {
		return "", apperr.Internal(err)
	}
	return token, nil
}
