package admin

import (
	"encoding/csv"
	"io"
	"time"

	"edstudy/internal/model/user"
)

const (
	utf8BOM       = "\uFEFF"
	directChannel = "직접가입"
)

// CSVHeader 使用韩文表头，Excel 可直接打开
var CSVHeader = []string{"성명", "이메일", "핸드폰 번호", "가입일", "가입경로", "등급"}

// ExportFilename EDStudy_UserList_YYYY-MM-DD.csv
func ExportFilename(now time.Time) string {
	return "EDStudy_UserList_" + now.Format("2006-01-02") + ".csv"
}

// WriteUsersCSV 写入 BOM、表头和每个用户一行
func WriteUsersCSV(w io.Writer, users []user.User, loc *time.Location) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, u := range users {
		channel := u.Provider
		if channel == "" {
			channel = directChannel
		}
		row := []string{u.Name, u.Email, u.Phone, joinedDate(u.CreatedAt, loc), channel, string(u.EffectiveLevel())}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// joinedDate 无法解析时原样输出
func joinedDate(createdAt string, loc *time.Location) string {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return createdAt
	}
	return t.In(loc).Format("2006-01-02")
}
