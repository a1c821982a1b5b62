package devapi

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidOrder marks order input the backend refuses to price or store.
var ErrInvalidOrder = errors.New("invalid order")

const deadlineLayout = "2006-01-02"

var basePrice = map[string]float64{
	"1-2": 149.99,
	"2-3": 199.99,
	"3-4": 249.99,
	"4+":  299.99,
}

// defaultLength prices an order whose song length was left blank.
const defaultLength = "2-3"

// Rush surcharges for near deadlines.
const (
	rushSurcharge    = 100.00
	expressSurcharge = 50.00
)

// quote prices an order from its song length and how soon it is due.
func quote(songLength, deadline string, now time.Time) (float64, error) {
	if songLength == "" {
		songLength = defaultLength
	}
	price, ok := basePrice[songLength]
	if !ok {
		return 0, fmt.Errorf("%w: unknown song length %q", ErrInvalidOrder, songLength)
	}

	due, err := time.Parse(deadlineLayout, deadline)
	if err != nil {
		return 0, fmt.Errorf("%w: deadline must be a date (YYYY-MM-DD)", ErrInvalidOrder)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(due.Sub(today).Hours() / 24)
	switch {
	case days < 0:
		return 0, fmt.Errorf("%w: deadline is in the past", ErrInvalidOrder)
	case days <= 3:
		price += rushSurcharge
	case days <= 7:
		price += expressSurcharge
	}
	return math.Round(price*100) / 100, nil
}
