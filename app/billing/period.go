package billing

import (
	"fmt"
	"time"
)

// Period identifies the (month, year) a billing record belongs to.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// PeriodOf returns the billing period a point in time falls into.
func PeriodOf(t time.Time) Period {
	return Period{Month: int(t.Month()), Year: t.Year()}
}

// Valid reports whether the period is a usable calendar month.
func (p Period) Valid() bool {
	return p.Month >= 1 && p.Month <= 12 && p.Year >= 2000 && p.Year <= 2200
}

// Index is the absolute month number, used for ordering and gap arithmetic.
func (p Period) Index() int {
	return p.Year*12 + p.Month - 1
}

// Before reports whether p is strictly earlier than o.
func (p Period) Before(o Period) bool {
	return p.Index() < o.Index()
}

// MonthsSince returns how many whole months p is after o (negative when earlier).
func (p Period) MonthsSince(o Period) int {
	return p.Index() - o.Index()
}

// Next returns the following calendar month.
func (p Period) Next() Period {
	if p.Month == 12 {
		return Period{Month: 1, Year: p.Year + 1}
	}
	return Period{Month: p.Month + 1, Year: p.Year}
}

// Prev returns the preceding calendar month.
func (p Period) Prev() Period {
	if p.Month == 1 {
		return Period{Month: 12, Year: p.Year - 1}
	}
	return Period{Month: p.Month - 1, Year: p.Year}
}

func (p Period) String() string {
	return fmt.Sprintf("%s %d", time.Month(p.Month).String(), p.Year)
}
