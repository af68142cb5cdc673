package dto

import (
	res "edstudy/packages/response"

	"github.com/gin-gonic/gin"
)

func SuccessResponse(c *gin.Context, data any) {
	c.JSON(200, res.SuccessResponse(data))
}

func ErrorResponse(c *gin.Context, err *res.BusinessError) {
	c.JSON(res.HTTPStatus(err.Code), res.ErrorResponse(err.Code, err.Msg))
}

// AbortWithError 写入错误响应并终止后续 handler
func AbortWithError(c *gin.Context, err *res.BusinessError) {
	ErrorResponse(c, err)
	c.Abort()
}

// BindError 请求体解析失败
func BindError(c *gin.Context, err error) {
	ErrorResponse(c, res.NewBusinessError(
		res.WithErrorCode(res.ParseError),
		res.WithErrorMessage("요청 형식을 확인해주세요"),
		res.WithError(err),
	))
}
