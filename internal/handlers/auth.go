package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"ideahub/internal/middleware"
	"ideahub/internal/models"
	"ideahub/internal/services"
	"ideahub/internal/utils"
)

const captchaSessionKey = "captcha_answer"

type AuthHandler struct {
	users   *services.UserService
	captcha *services.CaptchaService
}

func NewAuthHandler(users *services.UserService, captcha *services.CaptchaService) *AuthHandler {
	return &AuthHandler{users: users, captcha: captcha}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	h.renderRegister(c, http.StatusOK, gin.H{})
}

// renderRegister shows the signup form with a fresh captcha.
func (h *AuthHandler) renderRegister(c *gin.Context, code int, obj gin.H) {
	question, answer := h.captcha.GenerateMathProblem()
	session := sessions.Default(c)
	session.Set(captchaSessionKey, answer)
	_ = session.Save()
	obj["Captcha"] = question
	Render(c, code, "auth/register.html", obj)
}

// Register creates an account. Form signups must solve the captcha; JSON
// clients skip it.
func (h *AuthHandler) Register(c *gin.Context) {
	var in services.RegisterInput
	if err := bindInput(c, &in); err != nil {
		RespondError(c, err)
		return
	}

	if !middleware.WantsJSON(c) {
		session := sessions.Default(c)
		expected, ok := session.Get(captchaSessionKey).(int)
		session.Delete(captchaSessionKey)
		_ = session.Save()
		if !ok || !h.captcha.Check(expected, c.PostForm("captcha")) {
			h.renderRegister(c, http.StatusBadRequest, gin.H{"Error": "Wrong answer to the math question", "Name": in.Name, "Email": in.Email})
			return
		}
	}

	user, err := h.users.Register(c.Request.Context(), in)
	if err != nil {
		if middleware.WantsJSON(c) {
			RespondError(c, err)
			return
		}
		h.renderRegister(c, utils.HTTPStatus(err), gin.H{
			"Error": utils.PublicMessage(err),
			"Name":  in.Name,
			"Email": in.Email,
		})
		return
	}

	if err := startSession(c, user); err != nil {
		RespondError(c, err)
		return
	}
	log.WithField("user_id", user.ID).Info("user registered")

	if middleware.WantsJSON(c) && !isHTMX(c) {
		OK(c, http.StatusCreated, "User registered", user.Account())
		return
	}
	Redirect(c, "/dashboard")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "auth/login.html", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in services.LoginInput
	if err := bindInput(c, &in); err != nil {
		RespondError(c, err)
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), in)
	if err != nil {
		if middleware.WantsJSON(c) {
			RespondError(c, err)
			return
		}
		Render(c, utils.HTTPStatus(err), "auth/login.html", gin.H{
			"Error": utils.PublicMessage(err),
			"Email": in.Email,
		})
		return
	}

	if err := startSession(c, user); err != nil {
		RespondError(c, err)
		return
	}

	if middleware.WantsJSON(c) && !isHTMX(c) {
		OK(c, http.StatusOK, "Logged in", user.Account())
		return
	}
	Redirect(c, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.Redirect(http.StatusFound, "/")
}

func startSession(c *gin.Context, user *models.User) error {
	session := sessions.Default(c)
	session.Set(middleware.SessionKey, user.ID)
	if err := session.Save(); err != nil {
		return utils.NewAppError(utils.ErrInternal, "Failed to start session", err)
	}
	return nil
}
