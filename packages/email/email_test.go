package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	raw := string(buildMessage(&Message{
		From:        "EDStudy <noreply@edstudy.kr>",
		To:          []string{"a@example.com", "b@example.com"},
		Subject:     "hello",
		Body:        "body",
		ContentType: "text/plain; charset=UTF-8",
	}))

	assert.True(t, strings.HasPrefix(raw, "Content-Type: text/plain; charset=UTF-8\r\n"))
	assert.Contains(t, raw, "To: a@example.com, b@example.com\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\nbody"))
}

func TestSend_Validation(t *testing.T) {
	c := NewClient(&Config{Host: "smtp.example.com"})

	assert.Error(t, c.Send(&Message{To: []string{"a@example.com"}, Subject: "s"}), "缺少发件人")

	c = NewClient(&Config{Host: "smtp.example.com", From: "noreply@example.com"})
	assert.Error(t, c.Send(&Message{Subject: "s"}), "缺少收件人")
	assert.Error(t, c.Send(&Message{To: []string{"a@example.com"}}), "缺少主题")
}

func TestEnabled(t *testing.T) {
	var nilClient *Client
	assert.False(t, nilClient.Enabled())
	assert.False(t, NewClient(&Config{}).Enabled())
	assert.True(t, NewClient(&Config{Host: "smtp.example.com"}).Enabled())
}

func TestBookingConfirmationRender(t *testing.T) {
	tmpl, err := NewTemplate(BookingConfirmationTemplate)
	require.NoError(t, err)

	out, err := tmpl.Render(BookingConfirmationData{
		Name:      "홍길동",
		Date:      "2026-11-02",
		Time:      "14:00",
		BookingID: "book_1",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "홍길동님")
	assert.Contains(t, out, "2026-11-02 14:00")
	assert.NotContains(t, out, "요청 사항")
}
