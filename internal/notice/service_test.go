package notice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"edstudy/internal/logger"
	noticeModel "edstudy/internal/model/notice"
	"edstudy/internal/store"
	"edstudy/internal/testutils"
	"edstudy/packages/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *NoticeService {
	t.Helper()
	s := testutils.NewStores(t)
	col := store.NewCollection[noticeModel.Notice](s.Durable, s.Locker, s.Keys.Notices(), logger.Discard())
	return NewNoticeService(NewNoticeRepository(col), nil, logger.Discard())
}

func TestSort(t *testing.T) {
	list := []noticeModel.Notice{
		{ID: 1, Title: "old pinned", IsPinned: true},
		{ID: 5, Title: "newest"},
		{ID: 3, Title: "mid"},
		{ID: 2, Title: "newer pinned", IsPinned: true},
	}
	Sort(list)

	ids := []int64{}
	for _, n := range list {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []int64{2, 1, 5, 3}, ids)
}

func TestMatches(t *testing.T) {
	n := noticeModel.Notice{Title: "Winter Camp 안내", Content: "겨울 방학 특강"}

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"winter", true},
		{"CAMP", true},
		{"특강", true},
		{"summer", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Matches(n, tt.query), tt.query)
	}
}

func TestNoticeService_PinnedFirst(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	pinned, bizErr := svc.Create(ctx, CreateNoticeRequest{Title: "필독", Content: "고정 공지", IsPinned: true})
	require.Nil(t, bizErr)
	time.Sleep(2 * time.Millisecond)
	_, bizErr = svc.Create(ctx, CreateNoticeRequest{Title: "새 소식", Content: "최신 공지"})
	require.Nil(t, bizErr)

	list, bizErr := svc.List(ctx, "")
	require.Nil(t, bizErr)
	require.Len(t, list, 2)
	assert.Equal(t, pinned.ID, list[0].ID)

	latest, bizErr := svc.Latest(ctx)
	require.Nil(t, bizErr)
	assert.Equal(t, pinned.ID, latest.ID)
}

func TestNoticeService_CreateValidationAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, bizErr := svc.Create(ctx, CreateNoticeRequest{Title: "  ", Content: "x"})
	require.NotNil(t, bizErr)
	assert.Equal(t, response.InvalidParameter, bizErr.Code)

	latest, bizErr := svc.Latest(ctx)
	require.Nil(t, bizErr)
	assert.Nil(t, latest)

	n, bizErr := svc.Create(ctx, CreateNoticeRequest{Title: "t", Content: "c"})
	require.Nil(t, bizErr)
	require.Nil(t, svc.Delete(ctx, n.ID))

	bizErr = svc.Delete(ctx, n.ID)
	require.NotNil(t, bizErr)
	assert.Equal(t, response.NotFound, bizErr.Code)
}

func TestNoticeHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newTestService(t)
	h := NewNoticeHandler(svc)

	engine := gin.New()
	RegisterRoutes(engine.Group("/notices"), h)
	RegisterAdminRoutes(engine.Group("/admin/notices"), h)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/notices",
		strings.NewReader(`{"title":"Hello","content":"World","isPinned":false}`)))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notices?q=hello", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Code response.ResponseCode `json:"code"`
		Data []noticeModel.Notice       `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.Success, body.Code)
	assert.Len(t, body.Data, 1)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/notices/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
