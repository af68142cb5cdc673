package booking

import (
	"context"
	"errors"

	bookingModel "edstudy/internal/model/booking"
	"edstudy/internal/store"
)

var (
	ErrSlotTaken       = errors.New("slot already booked")
	ErrBookingNotFound = errors.New("booking not found")
)

type BookingRepository struct {
	bookings *store.Collection[bookingModel.Booking]
}

func NewBookingRepository(bookings *store.Collection[bookingModel.Booking]) *BookingRepository {
	return &BookingRepository{bookings: bookings}
}

func (r *BookingRepository) List(ctx context.Context) ([]bookingModel.Booking, error) {
	return r.bookings.Load(ctx)
}

// Create 在集合锁内检查时段占用，同一时段最多一个 confirmed
func (r *BookingRepository) Create(ctx context.Context, b bookingModel.Booking) error {
	return r.bookings.Update(ctx, func(list []bookingModel.Booking) ([]bookingModel.Booking, error) {
		for _, existing := range list {
			if existing.Holds(b.Date, b.Time) {
				return nil, ErrSlotTaken
			}
		}
		return append(list, b), nil
	})
}

// Cancel 只改状态不删除，重复取消不报错。owner 不匹配视为不存在
func (r *BookingRepository) Cancel(ctx context.Context, id, owner string) (bookingModel.Booking, error) {
	var out bookingModel.Booking
	err := r.bookings.Update(ctx, func(list []bookingModel.Booking) ([]bookingModel.Booking, error) {
		for i := range list {
			if list[i].ID == id && (owner == "" || list[i].UserEmail == owner) {
				list[i].Status = bookingModel.StatusCancelled
				out = list[i]
				return list, nil
			}
		}
		return nil, ErrBookingNotFound
	})
	return out, err
}
