package booking

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	bookingModel "edstudy/internal/model/booking"
	"edstudy/internal/pkg"
	"edstudy/internal/session"
	"edstudy/packages/email"
	"edstudy/packages/response"

	"github.com/sirupsen/logrus"
)

// Notifier 预约成功通知
type Notifier interface {
	Enabled() bool
	SendBookingConfirmation(to string, data email.BookingConfirmationData) error
}

type BookingService struct {
	repo     *BookingRepository
	notifier Notifier
	ids      *pkg.MillisID
	now      pkg.Clock
	log      *logrus.Entry
}

func NewBookingService(repo *BookingRepository, notifier Notifier, now pkg.Clock, log *logrus.Entry) *BookingService {
	if now == nil {
		now = time.Now
	}
	return &BookingService{repo: repo, notifier: notifier, ids: pkg.NewMillisID(now), now: now, log: log}
}

func (s *BookingService) today() string {
	return s.now().Format(bookingModel.DateLayout)
}

func (s *BookingService) validateDate(date string) *response.BusinessError {
	if date == "" {
		return response.NewBusinessError(
			response.WithErrorCode(response.InvalidParameter),
			response.WithErrorMessage("날짜를 선택해주세요"),
		)
	}
	if _, err := time.Parse(bookingModel.DateLayout, date); err != nil {
		return response.NewBusinessError(
			response.WithErrorCode(response.InvalidParameter),
			response.WithErrorMessage("날짜 형식이 올바르지 않습니다"),
		)
	}
	// YYYY-MM-DD 按字符串比较即为日期顺序
	if date < s.today() {
		return response.NewBusinessError(
			response.WithErrorCode(response.InvalidParameter),
			response.WithErrorMessage("지난 날짜는 예약할 수 없습니다"),
		)
	}
	return nil
}

// Slots 指定日期的 8 个时段及是否可预约
func (s *BookingService) Slots(ctx context.Context, date string) ([]SlotStatus, *response.BusinessError) {
	if bizErr := s.validateDate(date); bizErr != nil {
		return nil, bizErr
	}
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, loadFailed(err)
	}

	out := make([]SlotStatus, 0, len(bookingModel.TimeSlots))
	for _, slot := range bookingModel.TimeSlots {
		available := !slices.ContainsFunc(list, func(b bookingModel.Booking) bool { return b.Holds(date, slot) })
		out = append(out, SlotStatus{Time: slot, Available: available})
	}
	return out, nil
}

// Create 会员创建预约
func (s *BookingService) Create(ctx context.Context, sess *session.Session, req CreateBookingRequest) (*bookingModel.Booking, *response.BusinessError) {
	if bizErr := s.validateDate(req.Date); bizErr != nil {
		return nil, bizErr
	}
	if !bookingModel.ValidSlot(req.Time) {
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.InvalidParameter),
			response.WithErrorMessage("시간을 선택해주세요"),
		)
	}

	b := bookingModel.Booking{
		ID:        fmt.Sprintf("%s%d", bookingModel.IDPrefix, s.ids.Next()),
		UserEmail: sess.Email,
		UserName:  sess.Name,
		Date:      req.Date,
		Time:      req.Time,
		Message:   strings.TrimSpace(req.Message),
		Status:    bookingModel.StatusConfirmed,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			return nil, response.NewBusinessError(
				response.WithErrorCode(response.Conflict),
				response.WithErrorMessage("이미 예약된 시간입니다. 다른 시간을 선택해주세요"),
			)
		}
		return nil, response.NewBusinessError(
			response.WithErrorMessage("예약에 실패했습니다"),
			response.WithError(err),
		)
	}

	s.log.WithFields(logrus.Fields{"booking_id": b.ID, "date": b.Date, "time": b.Time}).Info("booking confirmed")
	s.notify(b)
	return &b, nil
}

// notify 发信失败只记录日志，不影响预约结果
func (s *BookingService) notify(b bookingModel.Booking) {
	if s.notifier == nil || !s.notifier.Enabled() {
		return
	}
	err := s.notifier.SendBookingConfirmation(b.UserEmail, email.BookingConfirmationData{
		Name:      b.UserName,
		Date:      b.Date,
		Time:      b.Time,
		Message:   b.Message,
		BookingID: b.ID,
	})
	if err != nil {
		s.log.WithError(err).WithField("booking_id", b.ID).Warn("booking confirmation mail failed")
	}
}

// Mine 本人的预约，最新的在前
func (s *BookingService) Mine(ctx context.Context, sess *session.Session) ([]bookingModel.Booking, *response.BusinessError) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, loadFailed(err)
	}
	mine := make([]bookingModel.Booking, 0)
	for _, b := range list {
		if b.UserEmail == sess.Email {
			mine = append(mine, b)
		}
	}
	slices.Reverse(mine)
	return mine, nil
}

// All 管理员查看全部预约，按日期和时段排序
func (s *BookingService) All(ctx context.Context) ([]bookingModel.Booking, *response.BusinessError) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, loadFailed(err)
	}
	slices.SortStableFunc(list, func(a, b bookingModel.Booking) int {
		return strings.Compare(a.Date+" "+a.Time, b.Date+" "+b.Time)
	})
	return list, nil
}

// Cancel 取消本人预约，已取消的也返回成功
func (s *BookingService) Cancel(ctx context.Context, sess *session.Session, id string) (*bookingModel.Booking, *response.BusinessError) {
	b, err := s.repo.Cancel(ctx, id, sess.Email)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return nil, response.NewBusinessError(
				response.WithErrorCode(response.NotFound),
				response.WithErrorMessage("예약 내역을 찾을 수 없습니다"),
			)
		}
		return nil, response.NewBusinessError(
			response.WithErrorMessage("예약 취소에 실패했습니다"),
			response.WithError(err),
		)
	}
	s.log.WithField("booking_id", id).Info("booking cancelled")
	return &b, nil
}

func loadFailed(err error) *response.BusinessError {
	return response.NewBusinessError(
		response.WithErrorMessage("예약 정보를 불러오지 못했습니다"),
		response.WithError(err),
	)
}
