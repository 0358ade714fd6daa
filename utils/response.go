package utils

import "github.com/gin-gonic/gin"

// JSONSuccess writes {"success": true, "message": ..., "data": ...}.
func JSONSuccess(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, gin.H{"success": true, "message": message, "data": data})
}

// JSONError writes {"success": false, "error": {"code": ..., "message": ...}}.
func JSONError(c *gin.Context, code int, errCode, message string) {
	c.JSON(code, gin.H{
		"success": false,
		"error":   gin.H{"code": errCode, "message": message},
	})
}
