package report

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// DefaultPrecision is the number of decimal places used when rendering
// durations, percentages and ratios.
const DefaultPrecision = 3

func roundTo(v float64, precision int) float64 {
	scale := math.Pow10(precision)
	return math.Round(v*scale) / scale
}

func formatRounded(v float64, precision int) string {
	return strconv.FormatFloat(roundTo(v, precision), 'f', -1, 64)
}

// Duration wraps an elapsed value for display. Kept as a distinct type so
// structured serializers can special-case its formatting instead of
// string-parsing.
type Duration struct {
	Value     time.Duration
	Precision int
}

func (d Duration) String() string {
	return fmt.Sprintf("%s s", formatRounded(d.Value.Seconds(), d.Precision))
}

// MarshalYAML renders the duration in seconds to fixed precision.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// MarshalJSON renders the duration in seconds to fixed precision.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

// Percent wraps a numerator/denominator pair for display as a
// percentage.
type Percent struct {
	Numerator   time.Duration
	Denominator time.Duration
	Precision   int
}

// Ratio returns numerator over denominator, zero when the denominator is
// zero.
func (p Percent) Ratio() float64 {
	if p.Denominator == 0 {
		return 0
	}
	return float64(p.Numerator) / float64(p.Denominator)
}

func (p Percent) String() string {
	return fmt.Sprintf("%s %%", formatRounded(100*p.Ratio(), p.Precision))
}

// MarshalYAML renders the percentage to fixed precision.
func (p Percent) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

// MarshalJSON renders the percentage to fixed precision.
func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(p.String())), nil
}
