package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookshelf/internal/auth"
	"bookshelf/internal/entities"
)

// AuthController handles registration, login and password reset.
type AuthController struct {
	service *auth.Service
}

// NewAuthController creates a new authentication controller.
func NewAuthController(service *auth.Service) *AuthController {
	return &AuthController{service: service}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// publicUser is the subset of User returned by the auth endpoints.
type publicUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toPublicUser(user *entities.User) publicUser {
	return publicUser{ID: user.ID, Name: user.Name, Email: user.Email}
}

// Register creates a new account.
func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name, email and password are required")
		return
	}

	user, err := ac.service.Register(req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailInUse):
			respondConflict(c, "email is already in use")
		case errors.Is(err, auth.ErrEmailInvalid),
			errors.Is(err, auth.ErrPasswordTooShort),
			errors.Is(err, auth.ErrPasswordTooLong):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "register")
		}
		return
	}

	respondCreated(c, toPublicUser(user))
}

// Login validates credentials and returns a bearer token.
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "email and password are required")
		return
	}

	token, user, err := ac.service.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			respondUnauthorized(c, "invalid credentials")
			return
		}
		respondInternalError(c, err, "login")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"user":         toPublicUser(user),
	})
}

// ResetPassword replaces the password of the account matching the email.
func (ac *AuthController) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "email and newPassword are required")
		return
	}

	err := ac.service.ResetPassword(req.Email, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			respondNotFound(c, "user")
		case errors.Is(err, auth.ErrPasswordTooShort), errors.Is(err, auth.ErrPasswordTooLong):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "reset password")
		}
		return
	}

	respondSuccess(c, "password updated successfully")
}

// Me returns the profile of the authenticated user.
func (ac *AuthController) Me(c *gin.Context) {
	user, err := ac.service.GetCurrentUser(GetUserID(c))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "current user")
		return
	}

	c.JSON(http.StatusOK, user)
}
