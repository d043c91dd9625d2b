package auth

import (
	"errors"
	"fmt"
	"regexp"

	"bookshelf/internal/config"
	"bookshelf/internal/database/users"
	"bookshelf/internal/entities"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailInUse       = errors.New("email is already in use")
	ErrBadCredentials   = errors.New("invalid credentials")
	ErrNameRequired     = errors.New("name is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrEmailInvalid     = errors.New("invalid email format")
)

// ProfilePatch holds the optional fields of a profile update. Only non-nil
// fields are applied; a non-nil Password is rehashed before persisting.
type ProfilePatch struct {
	Name              *string
	Email             *string
	Password          *string
	FavoriteBook      *string
	FavoriteAuthor    *string
	FavoriteGenre     *string
	YearlyReadingGoal *int
	Bio               *string
	AvatarURL         *string
}

// Service orchestrates registration, login and profile management.
type Service struct {
	users  *users.Repository
	tokens *TokenIssuer
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(repo *users.Repository, tokens *TokenIssuer, cfg config.Auth) *Service {
	return &Service{
		users:  repo,
		tokens: tokens,
		config: cfg,
	}
}

// Register creates a new user with a hashed password. The email must not
// be taken by an existing account.
func (s *Service) Register(name, email, password string) (*entities.User, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	// Validate email format and length (RFC 5321 limit is 254)
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}

	exists, err := s.users.EmailExists(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrEmailInUse
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}

	if err := s.users.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login validates credentials and issues a signed token. Unknown emails and
// wrong passwords are reported identically.
func (s *Service) Login(email, password string) (string, *entities.User, error) {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return "", nil, ErrBadCredentials
		}
		return "", nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return "", nil, ErrBadCredentials
		}
		return "", nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// ResetPassword rehashes and stores a new password for the given email.
// The caller presents no proof of account possession; existing clients
// depend on this endpoint shape.
func (s *Service) ResetPassword(email, newPassword string) error {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	hash, err := HashPassword(newPassword, s.config.BcryptCost)
	if err != nil {
		return err
	}

	return s.users.UpdateUser(user.ID, map[string]any{"password_hash": hash})
}

// GetCurrentUser resolves a token subject to the full profile.
func (s *Service) GetCurrentUser(id uint) (*entities.User, error) {
	user, err := s.users.GetUserByID(id)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a partial update to the user's profile fields.
func (s *Service) UpdateProfile(id uint, patch ProfilePatch) (*entities.User, error) {
	updates := map[string]any{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Email != nil {
		if len(*patch.Email) > 254 || !emailPattern.MatchString(*patch.Email) {
			return nil, ErrEmailInvalid
		}
		updates["email"] = *patch.Email
	}
	if patch.Password != nil {
		hash, err := HashPassword(*patch.Password, s.config.BcryptCost)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = hash
	}
	if patch.FavoriteBook != nil {
		updates["favorite_book"] = *patch.FavoriteBook
	}
	if patch.FavoriteAuthor != nil {
		updates["favorite_author"] = *patch.FavoriteAuthor
	}
	if patch.FavoriteGenre != nil {
		updates["favorite_genre"] = *patch.FavoriteGenre
	}
	if patch.YearlyReadingGoal != nil {
		updates["yearly_reading_goal"] = *patch.YearlyReadingGoal
	}
	if patch.Bio != nil {
		updates["bio"] = *patch.Bio
	}
	if patch.AvatarURL != nil {
		updates["avatar_url"] = *patch.AvatarURL
	}

	if len(updates) > 0 {
		if err := s.users.UpdateUser(id, updates); err != nil {
			if errors.Is(err, users.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
	}

	return s.GetCurrentUser(id)
}
