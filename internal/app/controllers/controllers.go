// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/Dinesh259/Free-Solutions/internal/middleware"
)

// page builds template data with the fields the shared layout needs
func page(ctx *gin.Context, title string, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["title"] = title
	if sess, ok := middleware.GetSession(ctx); ok {
		data["loggedIn"] = true
		data["isAdmin"] = sess.IsAdmin()
		data["user"] = sess.User
	}
	return data
}

// redirectWith redirects to path with the given query values
func redirectWith(ctx *gin.Context, path string, values url.Values) {
	if len(values) > 0 {
		path += "?" + values.Encode()
	}
	ctx.Redirect(http.StatusFound, path)
}
