package quote

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the normalized calendar-day format used as the sheet key.
const DateLayout = "2006-01-02"

var (
	dateRe    = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})$`)
	nonNumber = regexp.MustCompile(`[^\d.\-]`)
)

// Raw is the trimmed cell text of one table row.
type Raw struct {
	Date  string
	Close string
}

// Record is one parsed daily close.
type Record struct {
	Date  string // YYYY-MM-DD
	Close float64
}

// ParseError reports raw text that could not be parsed.
type ParseError struct {
	Raw Raw
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse date=%q or close=%q", e.Raw.Date, e.Raw.Close)
}

// ParseDate normalizes "M/D/YY" or "M/D/YYYY" to YYYY-MM-DD.
// Two-digit years up to 69 are 20xx, the rest 19xx.
func ParseDate(s string) (string, bool) {
	m := dateRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if len(m[3]) == 2 {
		if year <= 69 {
			year += 2000
		} else {
			year += 1900
		}
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes 2/30 into March; reject anything that rolled over
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return t.Format(DateLayout), true
}

// ParseNumber keeps digits, '.' and '-' and parses the rest as a float.
func ParseNumber(s string) (float64, bool) {
	cleaned := nonNumber.ReplaceAllString(strings.TrimSpace(s), "")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// NewRecord parses both cells of a raw row.
func NewRecord(raw Raw) (Record, error) {
	date, ok := ParseDate(raw.Date)
	if !ok {
		return Record{}, &ParseError{Raw: raw}
	}
	closeVal, ok := ParseNumber(raw.Close)
	if !ok {
		return Record{}, &ParseError{Raw: raw}
	}
	return Record{Date: date, Close: closeVal}, nil
}
