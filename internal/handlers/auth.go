package handlers

import (
	"errors"
	"net/http"

	"tasker/internal/models"
	"tasker/internal/service"

	"github.com/gin-gonic/gin"
)

// Single, shared credentials form for both register and login.
type authCredentials struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

const (
	loginPath         = "/login"
	registerPath      = "/register"
	loginInvalidURL   = "/login?error=invalid"
	registerInvalid   = "/register?error=invalid"
	registerTakenURL  = "/register?error=taken"
	errInternalServer = "internal server error"
)

// bindFormOrRedirect binds the credentials form, redirecting to fallback when
// a field is missing. Returns false if the request was already handled.
func (h *Handler) bindFormOrRedirect(c *gin.Context, dst *authCredentials, fallback string) bool {
	if err := c.ShouldBind(dst); err != nil {
		if h.log != nil {
			h.log.Infow("auth_bad_form", "err", err, "path", c.Request.URL.Path)
		}
		c.Redirect(http.StatusSeeOther, fallback)
		return false
	}
	return true
}

// @Summary      Log in
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Param        username  formData  string  true  "Username"
// @Param        password  formData  string  true  "Password"
// @Success      303  "Redirect to / with session cookie, or to /login?error=invalid"
// @Router       /login [post]
func (h *Handler) login(c *gin.Context) {
	var input authCredentials
	if ok := h.bindFormOrRedirect(c, &input, loginInvalidURL); !ok {
		return
	}

	sess, err := h.services.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			if h.log != nil {
				h.log.Infow("auth_login_failed", "username", input.Username)
			}
			c.Redirect(http.StatusSeeOther, loginInvalidURL)
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errInternalServer, "auth_login_error", err)
		return
	}

	value, err := h.services.IssueSession(sess)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errInternalServer, "auth_issue_session_failed", err)
		return
	}
	h.setSessionCookie(c, value)
	c.Redirect(http.StatusSeeOther, "/")
}

// @Summary      Register
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Param        username  formData  string  true  "Username"
// @Param        password  formData  string  true  "Password"
// @Success      303  "Redirect to /login, or back to /register with ?error=taken|invalid"
// @Failure      500  {object}  map[string]string
// @Router       /register [post]
func (h *Handler) register(c *gin.Context) {
	var input authCredentials
	if ok := h.bindFormOrRedirect(c, &input, registerInvalid); !ok {
		return
	}

	u, err := h.services.Register(c.Request.Context(), input.Username, input.Password)
	switch {
	case errors.Is(err, service.ErrUsernameTaken):
		if h.log != nil {
			h.log.Infow("auth_register_taken", "username", input.Username)
		}
		c.Redirect(http.StatusSeeOther, registerTakenURL)
		return
	case errors.Is(err, service.ErrValidation):
		if h.log != nil {
			h.log.Infow("auth_register_invalid", "username", input.Username, "err", err)
		}
		c.Redirect(http.StatusSeeOther, registerInvalid)
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, errInternalServer, "auth_register_failed", err, "username", input.Username)
		return
	}

	if h.log != nil {
		h.log.Infow("auth_registered", "user_id", u.ID, "username", u.Username)
	}
	c.Redirect(http.StatusSeeOther, loginPath)
}

// @Summary      Log out
// @Tags         auth
// @Success      303  "Redirect to /login with the session cookie cleared"
// @Router       /logout [post]
func (h *Handler) logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.Set(ctxSessionKey, models.Session{})
	c.Redirect(http.StatusSeeOther, loginPath)
}

func (h *Handler) setSessionCookie(c *gin.Context, value string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, value, int(h.opts.SessionTTL.Seconds()), "/", "", h.opts.SecureCookie, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, "", -1, "/", "", h.opts.SecureCookie, true)
}
