package booking

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

const (
	IDPrefix   = "book_"
	DateLayout = "2006-01-02"
)

// TimeSlots 可预约时段（12 点午休除外）
var TimeSlots = []string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00", "17:00"}

func ValidSlot(t string) bool {
	return slices.Contains(TimeSlots, t)
}

// Booking 1:1 咨询预约
type Booking struct {
	ID        string `json:"id"`
	UserEmail string `json:"userEmail"`
	UserName  string `json:"userName"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Message   string `json:"message,omitempty"`
	Status    Status `json:"status"`
}

func (b Booking) Validate() error {
	if !strings.HasPrefix(b.ID, IDPrefix) {
		return fmt.Errorf("booking id %q is malformed", b.ID)
	}
	if b.UserEmail == "" {
		return errors.New("booking owner is empty")
	}
	if _, err := time.Parse(DateLayout, b.Date); err != nil {
		return fmt.Errorf("booking date %q is malformed", b.Date)
	}
	if !ValidSlot(b.Time) {
		return fmt.Errorf("booking time %q is not a slot", b.Time)
	}
	if b.Status != StatusConfirmed && b.Status != StatusCancelled {
		return fmt.Errorf("booking status %q is unknown", b.Status)
	}
	return nil
}

// Holds 是否占用该时段
func (b Booking) Holds(date, slot string) bool {
	return b.Status == StatusConfirmed && b.Date == date && b.Time == slot
}
