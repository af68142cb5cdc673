package notice

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	noticeModel "edstudy/internal/model/notice"
	"edstudy/internal/pkg"
	"edstudy/packages/response"

	"github.com/sirupsen/logrus"
)

type NoticeService struct {
	repo *NoticeRepository
	ids  *pkg.MillisID
	now  pkg.Clock
	log  *logrus.Entry
}

func NewNoticeService(repo *NoticeRepository, now pkg.Clock, log *logrus.Entry) *NoticeService {
	if now == nil {
		now = time.Now
	}
	return &NoticeService{repo: repo, ids: pkg.NewMillisID(now), now: now, log: log}
}

// Sort 置顶公告在前，其余按 id 倒序（最新在前）
func Sort(list []noticeModel.Notice) {
	slices.SortStableFunc(list, func(a, b noticeModel.Notice) int {
		if a.IsPinned != b.IsPinned {
			if a.IsPinned {
				return -1
			}
			return 1
		}
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
}

// Matches 标题或内容包含关键字（忽略大小写）
func Matches(n noticeModel.Notice, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q)
}

func (s *NoticeService) List(ctx context.Context, query string) ([]noticeModel.Notice, *response.BusinessError) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, response.NewBusinessError(
			response.WithErrorMessage("공지사항을 불러오지 못했습니다"),
			response.WithError(err),
		)
	}

	filtered := list[:0]
	for _, n := range list {
		if Matches(n, query) {
			filtered = append(filtered, n)
		}
	}
	Sort(filtered)
	return filtered, nil
}

// Latest 公告栏展示的第一条公告，没有时为 nil
func (s *NoticeService) Latest(ctx context.Context) (*noticeModel.Notice, *response.BusinessError) {
	list, bizErr := s.List(ctx, "")
	if bizErr != nil {
		return nil, bizErr
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (s *NoticeService) Create(ctx context.Context, req CreateNoticeRequest) (*noticeModel.Notice, *response.BusinessError) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.InvalidParameter),
			response.WithErrorMessage("제목과 내용을 모두 입력해주세요"),
		)
	}

	n := noticeModel.Notice{
		ID:       s.ids.Next(),
		Title:    title,
		Content:  content,
		Date:     s.now().UTC().Format(time.RFC3339),
		IsPinned: req.IsPinned,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, response.NewBusinessError(
			response.WithErrorMessage("공지 등록에 실패했습니다"),
			response.WithError(err),
		)
	}

	s.log.WithFields(logrus.Fields{"notice_id": n.ID, "pinned": n.IsPinned}).Info("notice created")
	return &n, nil
}

func (s *NoticeService) Delete(ctx context.Context, id int64) *response.BusinessError {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNoticeNotFound) {
			return response.NewBusinessError(
				response.WithErrorCode(response.NotFound),
				response.WithErrorMessage("존재하지 않는 공지입니다"),
			)
		}
		return response.NewBusinessError(
			response.WithErrorMessage("공지 삭제에 실패했습니다"),
			response.WithError(err),
		)
	}
	s.log.WithField("notice_id", id).Info("notice deleted")
	return nil
}
