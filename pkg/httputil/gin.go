package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// WriteError はErrorMessageをGinレスポンスとして書き込む。
func WriteError(c *gin.Context, e *ErrorMessage) {
	c.Header("Content-Type", ContentType)
	c.JSON(e.Status, e)
}

// AbortWithError はErrorMessageをGinレスポンスとして書き込み、リクエスト処理を中断する。
func AbortWithError(c *gin.Context, e *ErrorMessage) {
	c.Header("Content-Type", ContentType)
	c.AbortWithStatusJSON(e.Status, e)
}

// WriteMessage は成功時の {message} を書き込む。
func WriteMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// BearerToken はリクエストのBearerトークンを返す。
func BearerToken(c *gin.Context) (string, bool) {
	return ParseBearer(c.GetHeader("Authorization"))
}
