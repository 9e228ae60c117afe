package handlers

import (
	"net/http"

	"controlling_led/web"

	"github.com/gin-gonic/gin"
)

const (
	htmlContentType       = "text/html; charset=utf-8"
	javascriptContentType = "text/javascript; charset=utf-8"
)

func (h *Handler) indexPage(c *gin.Context) {
	c.Data(http.StatusOK, htmlContentType, web.IndexHTML)
}

func (h *Handler) websocketScript(c *gin.Context) {
	c.Data(http.StatusOK, javascriptContentType, web.WebsocketJS)
}
