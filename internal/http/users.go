package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookshelf/internal/auth"
)

// ProfileController handles the authenticated user's profile.
type ProfileController struct {
	service *auth.Service
}

// NewProfileController creates a new ProfileController.
func NewProfileController(service *auth.Service) *ProfileController {
	return &ProfileController{service: service}
}

type updateProfileRequest struct {
	Name              *string `json:"name"`
	Email             *string `json:"email"`
	Password          *string `json:"password"`
	FavoriteBook      *string `json:"favorite_book"`
	FavoriteAuthor    *string `json:"favorite_author"`
	FavoriteGenre     *string `json:"favorite_genre"`
	YearlyReadingGoal *int    `json:"yearly_reading_goal"`
	Bio               *string `json:"bio"`
	AvatarURL         *string `json:"avatar_url"`
}

// GetProfile returns the caller's full profile.
func (pc *ProfileController) GetProfile(c *gin.Context) {
	user, err := pc.service.GetCurrentUser(GetUserID(c))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "profile")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile applies a partial update to the caller's profile. Only
// fields present in the request body are changed.
func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	patch := auth.ProfilePatch{
		Name:              req.Name,
		Email:             req.Email,
		Password:          req.Password,
		FavoriteBook:      req.FavoriteBook,
		FavoriteAuthor:    req.FavoriteAuthor,
		FavoriteGenre:     req.FavoriteGenre,
		YearlyReadingGoal: req.YearlyReadingGoal,
		Bio:               req.Bio,
		AvatarURL:         req.AvatarURL,
	}

	user, err := pc.service.UpdateProfile(GetUserID(c), patch)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			respondNotFound(c, "user")
		case errors.Is(err, auth.ErrEmailInvalid),
			errors.Is(err, auth.ErrPasswordTooShort),
			errors.Is(err, auth.ErrPasswordTooLong):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "update profile")
		}
		return
	}

	c.JSON(http.StatusOK, user)
}
