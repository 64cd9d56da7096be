package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FiscalQuarter is a calendar year and a quarter number in 1..4
type FiscalQuarter struct {
	Year    int
	Quarter int
}

// ParseFiscalQuarter parses a quarter in YYYYQX format (e.g. "2024Q1").
// Errors wrap ErrInvalidQuarter.
func ParseFiscalQuarter(s string) (FiscalQuarter, error) {
	yearPart, quarterPart, found := strings.Cut(s, "Q")
	if !found {
		return FiscalQuarter{}, fmt.Errorf("%w: %q", ErrInvalidQuarter, s)
	}
	if len(yearPart) != 4 || len(quarterPart) != 1 {
		return FiscalQuarter{}, fmt.Errorf("%w: %q", ErrInvalidQuarter, s)
	}

	if !allDigits(yearPart) {
		return FiscalQuarter{}, fmt.Errorf("%w: %w: %q", ErrInvalidQuarter, ErrInvalidQuarterYear, s)
	}
	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return FiscalQuarter{}, fmt.Errorf("%w: %w: %q", ErrInvalidQuarter, ErrInvalidQuarterYear, s)
	}
	quarter, err := strconv.Atoi(quarterPart)
	if err != nil {
		return FiscalQuarter{}, fmt.Errorf("%w: %q", ErrInvalidQuarter, s)
	}
	if quarter < 1 || quarter > 4 {
		return FiscalQuarter{}, fmt.Errorf("%w: %w, got %d", ErrInvalidQuarter, ErrQuarterOutOfRange, quarter)
	}

	return FiscalQuarter{Year: year, Quarter: quarter}, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// MustParseFiscalQuarter is ParseFiscalQuarter for constants; it panics on error
func MustParseFiscalQuarter(s string) FiscalQuarter {
	q, err := ParseFiscalQuarter(s)
	if err != nil {
		panic(err)
	}
	return q
}

// CurrentFiscalQuarter returns the quarter containing now
func CurrentFiscalQuarter(now time.Time) FiscalQuarter {
	return FiscalQuarter{
		Year:    now.Year(),
		Quarter: (int(now.Month())-1)/3 + 1,
	}
}

// String formats the quarter as YYYYQX
func (q FiscalQuarter) String() string {
	return fmt.Sprintf("%04dQ%d", q.Year, q.Quarter)
}

// Next returns the following quarter, rolling Q4 into Q1 of the next year
func (q FiscalQuarter) Next() FiscalQuarter {
	if q.Quarter >= 4 {
		return FiscalQuarter{Year: q.Year + 1, Quarter: 1}
	}
	return FiscalQuarter{Year: q.Year, Quarter: q.Quarter + 1}
}

// Before reports whether q is chronologically before other
func (q FiscalQuarter) Before(other FiscalQuarter) bool {
	if q.Year != other.Year {
		return q.Year < other.Year
	}
	return q.Quarter < other.Quarter
}

// EnumerateQuarters lists quarters from start to end, both inclusive. A nil
// end means the quarter containing now.
//
// Iteration stops once the running year passes end.Year+1 even if end was
// never reached, so a start after end yields a truncated, non-empty list
// rather than looping.
func EnumerateQuarters(start FiscalQuarter, end *FiscalQuarter, now time.Time) []FiscalQuarter {
	last := CurrentFiscalQuarter(now)
	if end != nil {
		last = *end
	}

	var quarters []FiscalQuarter
	current := start
	for {
		quarters = append(quarters, current)

		if current == last {
			break
		}

		current = current.Next()

		if current.Year > last.Year+1 {
			break
		}
	}

	return quarters
}
