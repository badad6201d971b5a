package service

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("account with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrUnknownPrincipal     = errors.New("token refers to an unknown account")
)

// Claims is the token payload shared by both services: subject carries the
// principal email, Type carries "user" or "trainer".
type Claims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// AuthService handles registration, login and principal resolution for the
// user service. ResolvePrincipal is the identity-resolver half: it turns
// already-verified token claims into a Principal, failing when the account
// behind the token no longer exists.
type AuthService interface {
	RegisterMember(ctx context.Context, email, password, firstName, lastName string) (*domain.Member, error)
	RegisterTrainer(ctx context.Context, email, password, firstName, lastName string) (*domain.Trainer, error)
	Login(ctx context.Context, email, password string) (token string, err error)
	ResolvePrincipal(ctx context.Context, email, tokenType string) (*domain.Principal, error)
}

type authService struct {
	memberRepo    repository.MemberRepository
	trainerRepo   repository.TrainerRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(memberRepo repository.MemberRepository, trainerRepo repository.TrainerRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = 30 * time.Minute
	}
	return &authService{
		memberRepo:    memberRepo,
		trainerRepo:   trainerRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// RegisterMember handles new member registration.
func (s *authService) RegisterMember(ctx context.Context, email, password, firstName, lastName string) (*domain.Member, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password cannot be empty")
	}

	_, err := s.memberRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	member := &domain.Member{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		FirstName:    firstName,
		LastName:     lastName,
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		// The unique email index backstops the GetByEmail check above.
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	member.PasswordHash = ""
	return member, nil
}

// RegisterTrainer handles new trainer registration.
func (s *authService) RegisterTrainer(ctx context.Context, email, password, firstName, lastName string) (*domain.Trainer, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password cannot be empty")
	}

	_, err := s.trainerRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	trainer := &domain.Trainer{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		FirstName:    firstName,
		LastName:     lastName,
	}

	if err := s.trainerRepo.Create(ctx, trainer); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	trainer.PasswordHash = ""
	return trainer, nil
}

// Login authenticates against the member store first and falls back to the
// trainer store, since email uniqueness only holds within each kind.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrAuthenticationFailed
	}

	member, err := s.memberRepo.GetByEmail(ctx, email)
	if err == nil {
		if bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)) == nil {
			return s.generateJWT(member.Email, domain.KindMember)
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	trainer, err := s.trainerRepo.GetByEmail(ctx, email)
	if err == nil {
		if bcrypt.CompareHashAndPassword([]byte(trainer.PasswordHash), []byte(password)) == nil {
			return s.generateJWT(trainer.Email, domain.KindTrainer)
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	return "", ErrAuthenticationFailed
}

// ResolvePrincipal looks the principal up by the kind-specific store.
func (s *authService) ResolvePrincipal(ctx context.Context, email, tokenType string) (*domain.Principal, error) {
	kind, err := domain.KindFromTokenType(tokenType)
	if err != nil {
		return nil, ErrUnknownPrincipal
	}

	switch kind {
	case domain.KindTrainer:
		trainer, err := s.trainerRepo.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrUnknownPrincipal
			}
			return nil, err
		}
		return domain.FromTrainer(trainer), nil
	default:
		member, err := s.memberRepo.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrUnknownPrincipal
			}
			return nil, err
		}
		return domain.FromMember(member), nil
	}
}

// generateJWT creates a signed token with sub=email and the kind claim.
func (s *authService) generateJWT(email string, kind domain.Kind) (string, error) {
	now := time.Now()
	claims := &Claims{
		Type: kind.TokenType(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "fitness-coach",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", ErrTokenGeneration
	}
	return signedToken, nil
}
