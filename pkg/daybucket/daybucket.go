package daybucket

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the day bucket format
	DateLayout = "2006-01-02"
	// TimestampLayout is the visit timestamp format. It starts with DateLayout so
	// a timestamp can be classified by a plain prefix match.
	TimestampLayout = "2006-01-02 15:04:05"

	// DefaultOffset is UTC+8
	DefaultOffset = 8 * time.Hour
)

// Bucketer computes calendar days in a fixed UTC offset, independent of the host timezone.
type Bucketer struct {
	zone *time.Location
	now  func() time.Time
}

// New creates a bucketer for the given offset. A nil now falls back to time.Now.
func New(offset time.Duration, now func() time.Time) *Bucketer {
	if now == nil {
		now = time.Now
	}
	return &Bucketer{
		zone: time.FixedZone(zoneName(offset), int(offset/time.Second)),
		now:  now,
	}
}

// Location returns the fixed zone used for bucketing
func (b *Bucketer) Location() *time.Location {
	return b.zone
}

// Now returns the current instant in the fixed zone
func (b *Bucketer) Now() time.Time {
	return b.now().In(b.zone)
}

// CurrentDate returns today's date in the fixed zone
func (b *Bucketer) CurrentDate() string {
	return b.Now().Format(DateLayout)
}

// PreviousDate returns the calendar day before CurrentDate
func (b *Bucketer) PreviousDate() string {
	return b.Now().AddDate(0, 0, -1).Format(DateLayout)
}

// Dates returns the current and previous date from a single clock reading,
// so both always refer to the same instant.
func (b *Bucketer) Dates() (current, previous string) {
	now := b.Now()
	return now.Format(DateLayout), now.AddDate(0, 0, -1).Format(DateLayout)
}

// Timestamp returns the current instant formatted as a visit timestamp
func (b *Bucketer) Timestamp() string {
	return b.Now().Format(TimestampLayout)
}

func zoneName(offset time.Duration) string {
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	hours := int(offset / time.Hour)
	minutes := int((offset % time.Hour) / time.Minute)
	return fmt.Sprintf("UTC%s%02d:%02d", sign, hours, minutes)
}
