package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageHandler serves the static informational pages.
type PageHandler struct {
	contactEmail string
}

func NewPageHandler(contactEmail string) *PageHandler {
	return &PageHandler{contactEmail: contactEmail}
}

func (h *PageHandler) About(c *gin.Context) {
	Render(c, http.StatusOK, "about.html", nil)
}

func (h *PageHandler) Contact(c *gin.Context) {
	Render(c, http.StatusOK, "contact.html", gin.H{"ContactEmail": h.contactEmail})
}
