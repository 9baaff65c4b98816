//go:build ignore

// Package time declares the subset of the time package visible to generated
// clients.
package time

type Duration int64

const (
	Nanosecond  Duration = 1
	Microsecond          = 1000 * Nanosecond
	Millisecond          = 1000 * Microsecond
	Second               = 1000 * Millisecond
	Minute               = 60 * Second
	Hour                 = 60 * Minute
)

const (
	RFC3339     = "2006-01-02T15:04:05Z07:00"
	RFC3339Nano = "2006-01-02T15:04:05.999999999Z07:00"
)

type Time struct {
	wall uint64
	ext  int64
}

func Now() Time
func Parse(layout, value string) (Time, error)
func Unix(sec int64, nsec int64) Time

func (t Time) IsZero() bool
func (t Time) Before(u Time) bool
func (t Time) After(u Time) bool
func (t Time) Equal(u Time) bool
func (t Time) Add(d Duration) Time
func (t Time) Sub(u Time) Duration
func (t Time) UTC() Time
func (t Time) Unix() int64
func (t Time) Format(layout string) string
func (t Time) String() string
func (t Time) MarshalJSON() ([]byte, error)
func (t *Time) UnmarshalJSON(data []byte) error

func (d Duration) String() string
func (d Duration) Seconds() float64
