package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template 邮件模板
type Template struct {
	tmpl *template.Template
}

// NewTemplate 从 HTML 字符串创建模板
func NewTemplate(htmlContent string) (*Template, error) {
	tmpl, err := template.New("email").Parse(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("解析邮件模板失败: %w", err)
	}
	return &Template{tmpl: tmpl}, nil
}

// Render 渲染模板
func (t *Template) Render(data any) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("渲染邮件模板失败: %w", err)
	}
	return buf.String(), nil
}

// BookingConfirmationTemplate 咨询预约确认邮件
const BookingConfirmationTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #1d4ed8; color: white; padding: 20px; text-align: center; }
        .content { background-color: #f8fafc; padding: 30px; border: 1px solid #e2e8f0; }
        .slot { font-size: 24px; font-weight: bold; color: #1d4ed8; text-align: center; padding: 16px; }
        .footer { text-align: center; padding: 20px; color: #94a3b8; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>EDStudy 상담 예약 완료</h1></div>
        <div class="content">
            <p>{{.Name}}님, 안녕하세요.</p>
            <p>아래 일정으로 1:1 상담 예약이 확정되었습니다.</p>
            <div class="slot">{{.Date}} {{.Time}}</div>
            {{if .Message}}<p>요청 사항: {{.Message}}</p>{{end}}
            <p>예약 번호: {{.BookingID}}</p>
        </div>
        <div class="footer"><p>본 메일은 발신 전용입니다.</p></div>
    </div>
</body>
</html>
`

// BookingConfirmationData 预约确认邮件数据
type BookingConfirmationData struct {
	Name      string
	Date      string
	Time      string
	Message   string
	BookingID string
}

var bookingConfirmation = template.Must(template.New("booking").Parse(BookingConfirmationTemplate))

// SendBookingConfirmation 发送预约确认邮件
func (c *Client) SendBookingConfirmation(to string, data BookingConfirmationData) error {
	body, err := (&Template{tmpl: bookingConfirmation}).Render(data)
	if err != nil {
		return err
	}
	return c.SendHTML(to, "[EDStudy] 상담 예약이 확정되었습니다", body)
}
