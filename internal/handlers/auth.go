package handlers

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/bizadmin/auth"
	"github.com/diewo77/bizadmin/httpx"
	"github.com/diewo77/bizadmin/internal/logging"
	"github.com/diewo77/bizadmin/internal/models"
	"github.com/diewo77/bizadmin/internal/services"
	"github.com/diewo77/bizadmin/validation"
)

const (
	msgInvalidCredentials = "Invalid email or password"
	msgEmailTaken         = "Email already exists"
	minPasswordLength     = 8
)

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// Login: POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}
	var in credentials
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.MsgInvalidJSON)
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		httpx.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	var user models.User
	err := h.db.WithContext(r.Context()).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httpx.Error(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}
	if err != nil {
		serverError(w, r, err, "load user for login")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		httpx.Error(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	auth.CreateSession(w, user.ID)
	logging.FromContext(r.Context()).WithField("user_id", user.ID).Info("user logged in")
	httpx.JSON(w, http.StatusOK, user.Profile())
}

// Signup: POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}
	var in credentials
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.MsgInvalidJSON)
		return
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	v := validation.Violations{}
	validation.Required("email", in.Email, v)
	validation.Email("email", in.Email, v)
	if len(in.Password) < minPasswordLength {
		v["password"] = "too_short"
	}
	if !v.Empty() {
		httpx.ValidationError(w, msgValidation, v)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		serverError(w, r, err, "hash password")
		return
	}
	user := models.User{
		Email:    in.Email,
		Password: string(hashed),
		Name:     strings.TrimSpace(in.Name),
	}
	var taken int64
	if err := h.db.WithContext(r.Context()).Model(&models.User{}).Where("email = ?", user.Email).Count(&taken).Error; err != nil {
		serverError(w, r, err, "check email")
		return
	}
	if taken > 0 {
		httpx.Error(w, http.StatusConflict, msgEmailTaken)
		return
	}
	if err := h.db.WithContext(r.Context()).Create(&user).Error; err != nil {
		// lost a race with a concurrent signup for the same email
		if services.IsUniqueViolation(err) {
			httpx.Error(w, http.StatusConflict, msgEmailTaken)
			return
		}
		serverError(w, r, err, "create user")
		return
	}

	auth.CreateSession(w, user.ID)
	httpx.JSON(w, http.StatusCreated, user.Profile())
}

// Logout: POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}
	auth.ClearSession(w)
	w.WriteHeader(http.StatusNoContent)
}
