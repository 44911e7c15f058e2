package handlers

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/bizadmin/auth"
	"github.com/diewo77/bizadmin/httpx"
	"github.com/diewo77/bizadmin/internal/logging"
	"github.com/diewo77/bizadmin/internal/models"
	"github.com/diewo77/bizadmin/validation"
)

const (
	msgUserNotFound = "User not found"
	msgNameRequired = "Name is required"
)

// UserSettingsHandler serves the profile of the session user only.
type UserSettingsHandler struct {
	db *gorm.DB
}

func NewUserSettingsHandler(db *gorm.DB) *UserSettingsHandler {
	return &UserSettingsHandler{db: db}
}

type profileUpdate struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

// Handle dispatches /settings/user by method.
func (h *UserSettingsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.Get(w, r)
	case http.MethodPatch:
		h.Update(w, r)
	default:
		httpx.MethodNotAllowed(w, http.MethodGet, http.MethodPatch)
	}
}

func (h *UserSettingsHandler) current(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	var user models.User
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, httpx.MsgUnauthorized)
		return user, false
	}
	err := h.db.WithContext(r.Context()).First(&user, uid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httpx.Error(w, http.StatusNotFound, msgUserNotFound)
		return user, false
	}
	if err != nil {
		serverError(w, r, err, "load user")
		return user, false
	}
	return user, true
}

func (h *UserSettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := h.current(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, user.Profile())
}

// Update applies {name, image?}. A blank name is rejected before anything is written.
func (h *UserSettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserIDFromContext(r.Context()); !ok {
		httpx.Error(w, http.StatusUnauthorized, httpx.MsgUnauthorized)
		return
	}
	var in profileUpdate
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.MsgInvalidJSON)
		return
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		httpx.ValidationError(w, msgNameRequired, validation.Violations{"name": "required"})
		return
	}
	image := ""
	if in.Image != nil {
		image = strings.TrimSpace(*in.Image)
		v := validation.Violations{}
		validation.URL("image", image, v)
		if !v.Empty() {
			httpx.ValidationError(w, msgValidation, v)
			return
		}
	}

	user, ok := h.current(w, r)
	if !ok {
		return
	}
	updates := map[string]any{"name": strings.TrimSpace(*in.Name)}
	if in.Image != nil {
		updates["image"] = image
	}
	if err := h.db.WithContext(r.Context()).Model(&user).Updates(updates).Error; err != nil {
		serverError(w, r, err, "update user profile")
		return
	}
	user.Name = updates["name"].(string)
	if in.Image != nil {
		user.Image = image
	}
	logging.FromContext(r.Context()).WithField("user_id", user.ID).Info("user profile updated")
	httpx.JSON(w, http.StatusOK, user.Profile())
}
