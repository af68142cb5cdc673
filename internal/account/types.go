package account

import "edstudy/internal/model/user"

// SignupRequest 注册请求
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Provider string `json:"provider"` // 社交账号注册时为 "google"
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse 登录或注册成功的响应
type AuthResponse struct {
	Token string      `json:"token"`
	User  user.Public `json:"user"`
}
