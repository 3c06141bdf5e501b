package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/finwise/finwise/internal/config"
	"github.com/finwise/finwise/internal/rest"
	"github.com/finwise/finwise/pkg/user"
	log "github.com/sirupsen/logrus"
)

type RegisterDTO struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	FamilyName  string `json:"familyName"`
}

type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Handler struct {
	service Service
	cookie  config.Session
}

func NewHandler(service Service, cookie config.Session) *Handler {
	return &Handler{service: service, cookie: cookie}
}

// Register godoc
// @Summary Register a new user
// @Description Create a user account together with its family profile
// @Tags Auth
// @Accept json
// @Produce json
// @Param registration body RegisterDTO true "Registration"
// @Success 201 {object} user.UserDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 409 {object} rest.ErrorResponse "Username taken"
// @Router /api/auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Registering user")

	var dto RegisterDTO
	rest.LimitBody(w, r)
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteBodyError(w, err)
		return
	}

	created, err := h.service.Register(r.Context(), Registration{
		Username:    dto.Username,
		Password:    dto.Password,
		DisplayName: dto.DisplayName,
		FamilyName:  dto.FamilyName,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRegistration):
			rest.WriteError(w, http.StatusBadRequest, "Invalid registration", err.Error())
		case errors.Is(err, ErrUsernameTaken):
			rest.WriteError(w, http.StatusConflict, "Username is already taken", "")
		default:
			log.Errorf("registration failed: %v", err)
			rest.WriteError(w, http.StatusInternalServerError, "Registration failed", "")
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(user.ToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Login godoc
// @Summary Log in
// @Description Verify credentials and start a session. A previous session of the same user is ended.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginDTO true "Credentials"
// @Success 200 {object} user.UserDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 401 {object} rest.ErrorResponse "Invalid credentials"
// @Router /api/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Logging in")

	var dto LoginDTO
	rest.LimitBody(w, r)
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteBodyError(w, err)
		return
	}

	loggedIn, session, err := h.service.Login(r.Context(), dto.Username, dto.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			rest.WriteError(w, http.StatusUnauthorized, "Invalid username or password", "")
			return
		}
		log.Errorf("login failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Login failed", "")
		return
	}

	http.SetCookie(w, h.sessionCookie(session.Token, session.ExpiresAt))
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(user.ToDTO(loggedIn)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Logout godoc
// @Summary Log out
// @Description End the current session, if any, and clear the session cookie
// @Tags Auth
// @Success 204 "No Content"
// @Router /api/auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	log.Debug("Logging out")

	if cookie, err := r.Cookie(h.cookie.CookieName); err == nil {
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			log.Errorf("failed to revoke session: %v", err)
		}
	}

	expired := h.sessionCookie("", time.Unix(0, 0))
	expired.MaxAge = -1
	http.SetCookie(w, expired)
	w.WriteHeader(http.StatusNoContent)
}

// CurrentUser godoc
// @Summary Current user probe
// @Description Return the user of the current session
// @Tags Auth
// @Produce json
// @Success 200 {object} user.UserDTO
// @Failure 401 {object} rest.ErrorResponse "Not authenticated"
// @Router /api/auth/user [get]
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	current, err := user.CurrentUser(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusUnauthorized, "Not authenticated", "")
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(user.ToDTO(current)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) sessionCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
