package response

type ResponseCode int

// 统一业务代码
const (
	Success ResponseCode = 100
)

type Response struct {
	Message string       `json:"message"`
	Code    ResponseCode `json:"code"`
	Data    any          `json:"data"`
}

func SuccessResponse(data any) Response {
	return Response{
		Message: "success",
		Code:    Success,
		Data:    data,
	}
}

func ErrorResponse(code ResponseCode, msg string) Response {
	return Response{
		Message: msg,
		Code:    code,
		Data:    nil,
	}
}

// HTTPStatus 业务码对应的 HTTP 状态码
func HTTPStatus(code ResponseCode) int {
	switch code {
	case Success:
		return 200
	case ParseError, InvalidParameter:
		return 400
	case Unauthorized:
		return 401
	case Forbidden:
		return 403
	case NotFound:
		return 404
	case Conflict, InvalidState:
		return 409
	case TooLarge:
		return 413
	default:
		return 500
	}
}
