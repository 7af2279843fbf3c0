package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}

// Accepted writes a 202 response for work that is stored but not yet acted on.
func Accepted(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusAccepted, payload)
}

// List writes a collection under key together with its length.
func List[T any](c *gin.Context, key string, items []T) {
	if items == nil {
		items = []T{}
	}
	OK(c, gin.H{key: items, "count": len(items)})
}
