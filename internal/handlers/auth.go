package handlers

import (
	"errors"
	"net/http"

	"skillhive/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Auth *services.Auth
}

func NewAuthHandler(auth *services.Auth) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{"error": ""})
}

type loginForm struct {
	Email string `form:"email"`
}

// RequestLogin issues an OTP. The failure messages stay coarse on purpose:
// "contact the administrator" vs a retry hint, nothing that narrows down
// which account condition actually failed.
func (h *AuthHandler) RequestLogin(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "login.html", gin.H{"error": "Please enter your email address."})
		return
	}

	email, err := h.Auth.RequestLogin(form.Email)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDomainNotAllowed):
			render(c, http.StatusBadRequest, "login.html", gin.H{
				"error": "Please use your corporate email address.",
			})
		case services.ContactAdminError(err):
			render(c, http.StatusBadRequest, "login.html", gin.H{
				"error": "Your account is not ready for sign-in. Contact your administrator.",
			})
		default:
			render(c, http.StatusInternalServerError, "login.html", gin.H{
				"error": "Something went wrong. Please try again.",
			})
		}
		return
	}

	sess := sessions.Default(c)
	sess.Set("pending_email", email)
	_ = sess.Save()

	c.Redirect(http.StatusFound, "/verify")
}

func (h *AuthHandler) ShowVerify(c *gin.Context) {
	sess := sessions.Default(c)
	email, _ := sess.Get("pending_email").(string)
	if email == "" {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	render(c, http.StatusOK, "verify.html", gin.H{"email": email, "error": ""})
}

type verifyForm struct {
	Code string `form:"code"`
}

func (h *AuthHandler) Verify(c *gin.Context) {
	sess := sessions.Default(c)
	email, _ := sess.Get("pending_email").(string)
	if email == "" {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	var form verifyForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "verify.html", gin.H{"email": email, "error": "Please enter the code."})
		return
	}

	user, err := h.Auth.VerifyOTP(email, form.Code)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoPendingLogin):
			render(c, http.StatusBadRequest, "verify.html", gin.H{
				"email": email,
				"error": "No sign-in is pending. Request a new code.",
			})
		case errors.Is(err, services.ErrOTPExpired), errors.Is(err, services.ErrOTPMismatch):
			render(c, http.StatusBadRequest, "verify.html", gin.H{
				"email": email,
				"error": "That code did not work. Try again or request a new one.",
			})
		default:
			render(c, http.StatusInternalServerError, "verify.html", gin.H{
				"email": email,
				"error": "Something went wrong. Please try again.",
			})
		}
		return
	}

	sess.Delete("pending_email")
	sess.Set("user_id", user.ID)
	_ = sess.Save()

	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
	c.Redirect(http.StatusFound, "/login")
}
