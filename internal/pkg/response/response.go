// Package response defines the JSON envelope every endpoint answers with:
// {"data": ...} on success, {"error": {"code", "message"}} on failure.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Data interface{} `json:"data,omitempty"`
	Err  *errorBody  `json:"error,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Data: data})
}

func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, envelope{Err: &errorBody{Code: code, Message: message}})
}
