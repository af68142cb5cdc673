package assessment

import (
	"context"

	assessmentModel "edstudy/internal/model/assessment"
	"edstudy/internal/store"

	"github.com/sirupsen/logrus"
)

const DefaultHistoryLimit = 10

// HistoryRepository 每个用户一份测评记录，最新的在前
type HistoryRepository struct {
	backend store.Backend
	locker  store.Locker
	keys    store.Keys
	limit   int
	log     *logrus.Entry
}

func NewHistoryRepository(backend store.Backend, locker store.Locker, keys store.Keys, limit int, log *logrus.Entry) *HistoryRepository {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &HistoryRepository{backend: backend, locker: locker, keys: keys, limit: limit, log: log}
}

func (r *HistoryRepository) collection(owner string) *store.Collection[assessmentModel.AnalysisResult] {
	return store.NewCollection[assessmentModel.AnalysisResult](r.backend, r.locker, r.keys.TestHistory(owner), r.log)
}

func (r *HistoryRepository) List(ctx context.Context, owner string) ([]assessmentModel.AnalysisResult, error) {
	return r.collection(owner).Load(ctx)
}

// Append 新结果放在最前，超过上限时淘汰最旧的
func (r *HistoryRepository) Append(ctx context.Context, owner string, result assessmentModel.AnalysisResult) error {
	return r.collection(owner).Update(ctx, func(list []assessmentModel.AnalysisResult) ([]assessmentModel.AnalysisResult, error) {
		list = append([]assessmentModel.AnalysisResult{result}, list...)
		if len(list) > r.limit {
			list = list[:r.limit]
		}
		return list, nil
	})
}

func (r *HistoryRepository) Clear(ctx context.Context, owner string) error {
	return r.collection(owner).Clear(ctx)
}
