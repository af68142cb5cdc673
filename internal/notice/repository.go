package notice

import (
	"context"
	"errors"

	noticeModel "edstudy/internal/model/notice"
	"edstudy/internal/store"
)

var ErrNoticeNotFound = errors.New("notice not found")

type NoticeRepository struct {
	notices *store.Collection[noticeModel.Notice]
}

func NewNoticeRepository(notices *store.Collection[noticeModel.Notice]) *NoticeRepository {
	return &NoticeRepository{notices: notices}
}

func (r *NoticeRepository) List(ctx context.Context) ([]noticeModel.Notice, error) {
	return r.notices.Load(ctx)
}

func (r *NoticeRepository) Create(ctx context.Context, n noticeModel.Notice) error {
	return r.notices.Update(ctx, func(list []noticeModel.Notice) ([]noticeModel.Notice, error) {
		// 新公告放在最前
		return append([]noticeModel.Notice{n}, list...), nil
	})
}

func (r *NoticeRepository) Delete(ctx context.Context, id int64) error {
	return r.notices.Update(ctx, func(list []noticeModel.Notice) ([]noticeModel.Notice, error) {
		for i, n := range list {
			if n.ID == id {
				return append(list[:i:i], list[i+1:]...), nil
			}
		}
		return nil, ErrNoticeNotFound
	})
}
