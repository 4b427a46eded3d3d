package handlers

import (
	"net/http"

	"tasker/internal/web"

	"github.com/gin-gonic/gin"
)

func (h *Handler) indexPage(c *gin.Context) {
	sess := sessionFrom(c)
	if !sess.Authenticated() {
		c.Redirect(http.StatusSeeOther, loginPath)
		return
	}
	c.HTML(http.StatusOK, web.IndexView, gin.H{"Username": sess.Username})
}

func (h *Handler) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, web.LoginView, gin.H{"Error": web.ErrorMessage(c.Query("error"))})
}

func (h *Handler) registerPage(c *gin.Context) {
	c.HTML(http.StatusOK, web.RegisterView, gin.H{"Error": web.ErrorMessage(c.Query("error"))})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
