package notice

// CreateNoticeRequest 发布公告请求
type CreateNoticeRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	IsPinned bool   `json:"isPinned"`
}
