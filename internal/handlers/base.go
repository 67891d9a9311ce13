package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"ideahub/internal/middleware"
	"ideahub/internal/utils"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user := middleware.CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
		obj["IsAdmin"] = middleware.CurrentIdentity(c).IsAdmin()
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// HTMX Redirect helper
func HtmxRedirect(c *gin.Context, path string) {
	c.Header("HX-Redirect", path)
	c.Status(http.StatusOK)
}

// Redirect sends HTMX callers an HX-Redirect and everyone else a 302.
func Redirect(c *gin.Context, path string) {
	if isHTMX(c) {
		HtmxRedirect(c, path)
		return
	}
	c.Redirect(http.StatusFound, path)
}

// RenderError renders the error page
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message, "Code": code})
}

// RespondError maps a service error onto the response the caller expects.
// Unauthenticated page requests go to the login page.
func RespondError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	message := utils.PublicMessage(err)
	if status >= http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	}
	code := utils.ErrorCode(err)
	if code == "" {
		code = utils.ErrInternal
	}
	_ = c.Error(err)

	if middleware.WantsJSON(c) {
		if status == http.StatusUnauthorized && isHTMX(c) {
			c.Header("HX-Redirect", "/login")
		}
		c.AbortWithStatusJSON(status, gin.H{
			"success": false,
			"code":    code,
			"message": message,
		})
		return
	}
	if status == http.StatusUnauthorized {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	RenderError(c, status, message)
	c.Abort()
}

// OK writes the success envelope used by the JSON endpoints.
func OK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// bindInput binds a JSON or form body into dst.
func bindInput(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBind(dst); err != nil {
		return utils.NewValidationError("Malformed request body")
	}
	return nil
}
