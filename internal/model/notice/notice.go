package notice

import "errors"

// Notice 公告
type Notice struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Date     string `json:"date"`
	IsPinned bool   `json:"isPinned"`
}

func (n Notice) Validate() error {
	if n.ID <= 0 {
		return errors.New("notice id must be positive")
	}
	if n.Title == "" {
		return errors.New("notice title is empty")
	}
	return nil
}
