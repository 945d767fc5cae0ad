package services

import (
	"errors"
	"strings"
	"time"

	"jkwi-ims/backend/app/models"
	"jkwi-ims/backend/app/repo"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// TokenIssuer signs the bearer token handed out on register and login.
type TokenIssuer interface {
	Sign(userID, username, role string) (string, error)
}

type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Role     string
	Password string
}

type UserService struct {
	users  *repo.UserRepository
	tokens TokenIssuer
	now    func() time.Time
}

func NewUserService(users *repo.UserRepository, tokens TokenIssuer) *UserService {
	return &UserService{users: users, tokens: tokens, now: time.Now}
}

// Register writes a new user file and returns it with its token. The
// password is optional; without one the user cannot log in later.
func (s *UserService) Register(in RegisterInput) (*models.User, error) {
	if in.Username == "" || in.Email == "" || in.FullName == "" {
		return nil, ErrMissingFields
	}
	if in.Role == "" {
		in.Role = models.RoleMember
	}
	u := &models.User{
		ID:        strings.ReplaceAll(uuid.NewString(), "-", ""),
		Username:  in.Username,
		Email:     in.Email,
		FullName:  in.FullName,
		Role:      in.Role,
		Status:    models.UserPendingVerification,
		CreatedAt: s.now().UTC(),
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}
	token, err := s.tokens.Sign(u.ID, u.Username, u.Role)
	if err != nil {
		return nil, err
	}
	u.Token = token
	if err := s.users.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login checks the password against the stored hash and issues a fresh token.
func (s *UserService) Login(username, password string) (*models.User, string, error) {
	if username == "" || password == "" {
		return nil, "", ErrMissingFields
	}
	u, err := s.users.FindByUsername(username)
	if errors.Is(err, repo.ErrUserNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.tokens.Sign(u.ID, u.Username, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}
