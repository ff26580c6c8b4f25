package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/khatahub/khata/internal/domain"
)

// UserUseCase handles owner registration and authentication.
type UserUseCase struct {
	userRepo UserRepository
	idGen    IDGenerator
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(userRepo UserRepository, idGen IDGenerator) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		idGen:    idGen,
	}
}

// RegisterInput represents input for registering an owner.
type RegisterInput struct {
	Name     string
	Mobile   string
	Password string
}

// Register creates a new owner with a hashed password.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}

	mobile := strings.TrimSpace(input.Mobile)
	if err := domain.ValidateMobile(mobile); err != nil {
		return nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	existing, err := uc.userRepo.GetByMobile(ctx, mobile)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	user := &domain.User{
		ID:             uc.idGen.Generate(),
		Name:           strings.TrimSpace(input.Name),
		Mobile:         mobile,
		HashedPassword: string(hashed),
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Never hand the hash back to callers.
	user.HashedPassword = ""
	return user, nil
}

// AuthenticateInput represents login credentials.
type AuthenticateInput struct {
	Mobile   string
	Password string
}

// Authenticate verifies credentials and returns the owner.
func (uc *UserUseCase) Authenticate(ctx context.Context, input AuthenticateInput) (*domain.User, error) {
	user, err := uc.userRepo.GetByMobile(ctx, strings.TrimSpace(input.Mobile))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.Active {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user.HashedPassword = ""
	return user, nil
}
