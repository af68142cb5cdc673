package admin

import "edstudy/internal/model/user"

// LoginRequest 管理员登录
type LoginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type UpdateLevelRequest struct {
	Level user.Level `json:"level"`
}

// Stats 仪表盘汇总
type Stats struct {
	TotalUsers  int                `json:"totalUsers"`
	JoinedToday int                `json:"joinedToday"`
	ByLevel     map[user.Level]int `json:"byLevel"`
	ByProvider  map[string]int     `json:"byProvider"`
}

// Credentials 管理员账号与 token 配置
type Credentials struct {
	ID        string
	Password  string
	JWTSecret string
	TokenTTL  int // 小时
}
