package response

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/pulse/pkg/errors"
)

const (
	defaultSuccessMessage = "success"
	successCode           = http.StatusOK

	defaultErrorMessage = "service temporarily unavailable"
	defaultErrorCode    = http.StatusServiceUnavailable
)

// Response 统一响应信封
type Response struct {
	Code    int    `json:"code"`              // 业务逻辑代码
	Data    any    `json:"data,omitempty"`    // 响应数据，为nil时省略
	Message string `json:"message,omitempty"` // 响应消息，为空时省略
}

// reset 清空所有字段用于对象池复用，防止内存泄漏
func (r *Response) reset() {
	r.Code = 0
	r.Data = nil
	r.Message = ""
}

// 对象池用于复用Response实例
var responsePool = sync.Pool{
	New: func() any {
		return &Response{}
	},
}

func acquireResponse() *Response {
	return responsePool.Get().(*Response)
}

func releaseResponse(r *Response) {
	if r != nil {
		r.reset()
		responsePool.Put(r)
	}
}

// JSON 写入成功的JSON响应
func JSON(c *gin.Context, data any) {
	if c == nil {
		return
	}

	resp := acquireResponse()
	defer releaseResponse(resp)

	resp.Code = successCode
	resp.Data = data
	resp.Message = defaultSuccessMessage
	c.JSON(successCode, resp)
}

// JSONE 写入错误JSON响应，HTTP 状态码与业务代码保持一致
func JSONE(c *gin.Context, err error) {
	if c == nil {
		return
	}

	defer c.Abort()

	resp := acquireResponse()
	defer releaseResponse(resp)

	if err == nil {
		resp.Code = defaultErrorCode
		resp.Message = defaultErrorMessage
		c.JSON(defaultErrorCode, resp)
		return
	}

	e := errors.FromError(err)
	resp.Code = e.Code
	resp.Message = e.Message

	status := e.Code
	if status < 400 || status > 599 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, resp)
}
