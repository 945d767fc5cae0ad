package controllers

import (
	"errors"
	"net/http"

	"jkwi-ims/backend/app/dto"
	"jkwi-ims/backend/app/models"
	"jkwi-ims/backend/app/services"
	"jkwi-ims/backend/global"
)

type AuthController struct {
	Users *services.UserService
}

func NewAuthController(users *services.UserService) *AuthController {
	return &AuthController{Users: users}
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	u, err := c.Users.Register(services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Role:     req.Role,
		Password: req.Password,
	})
	if errors.Is(err, services.ErrMissingFields) {
		writeError(w, http.StatusBadRequest, "Missing required fields: username, email, full_name")
		return
	}
	if err != nil {
		global.Logger.Error().Err(err).Str("username", req.Username).Msg("registration failed")
		writeError(w, http.StatusInternalServerError, "Internal server error during registration")
		return
	}
	global.Logger.Info().Str("username", u.Username).Str("id", u.ID).Msg("user registered")
	writeJSON(w, http.StatusOK, dto.RegisterResponse{
		Success: true,
		Message: "User registered successfully",
		User:    userView(u),
		Token:   u.Token,
	})
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	u, token, err := c.Users.Login(req.Username, req.Password)
	switch {
	case errors.Is(err, services.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "missing credentials")
		return
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	case err != nil:
		global.Logger.Error().Err(err).Str("username", req.Username).Msg("login failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, dto.LoginResponse{Success: true, User: userView(u), Token: token})
}

func userView(u *models.User) dto.UserView {
	return dto.UserView{ID: u.ID, Username: u.Username, Email: u.Email, FullName: u.FullName, Role: u.Role, Status: u.Status}
}
