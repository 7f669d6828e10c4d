package recommendation

import (
	"fmt"
	"strings"
	"sync/atomic"

	apperrors "github.com/yanqian/playlist-recommender/pkg/errors"
)

// TimeUnit is the unit of the lookahead window.
type TimeUnit string

const (
	Days   TimeUnit = "days"
	Weeks  TimeUnit = "weeks"
	Months TimeUnit = "months"
)

// Timeframe is the user configured lookahead window.
type Timeframe struct {
	Amount int      `json:"timeframe"`
	Unit   TimeUnit `json:"time_unit"`
}

// DefaultTimeframe applies until set_timeframe is called.
var DefaultTimeframe = Timeframe{Amount: 7, Unit: Days}

// ParseTimeUnit accepts days, weeks or months in any case.
func ParseTimeUnit(raw string) (TimeUnit, error) {
	switch TimeUnit(strings.ToLower(strings.TrimSpace(raw))) {
	case Days:
		return Days, nil
	case Weeks:
		return Weeks, nil
	case Months:
		return Months, nil
	default:
		return "", invalidTimeframe(fmt.Sprintf("time_unit %q must be one of days, weeks, months", raw))
	}
}

// NewTimeframe validates user input and builds a Timeframe.
func NewTimeframe(amount int, unit string) (Timeframe, error) {
	if amount <= 0 {
		return Timeframe{}, invalidTimeframe(fmt.Sprintf("timeframe must be a positive integer, got %d", amount))
	}
	parsed, err := ParseTimeUnit(unit)
	if err != nil {
		return Timeframe{}, err
	}
	return Timeframe{Amount: amount, Unit: parsed}, nil
}

// Validate reports whether the timeframe satisfies amount > 0 and a known unit.
func (t Timeframe) Validate() error {
	_, err := NewTimeframe(t.Amount, string(t.Unit))
	return err
}

func (t Timeframe) String() string {
	return fmt.Sprintf("%d %s", t.Amount, t.Unit)
}

func invalidTimeframe(reason string) error {
	return apperrors.Wrap(CodeInvalidTimeframe, reason, ErrInvalidTimeframe)
}

// TimeframeConfig is the process wide lookahead setting.
//
// Readers receive a copy of the current value; writers swap the whole value,
// so a resolution never observes a half written {amount, unit} pair.
type TimeframeConfig struct {
	current atomic.Pointer[Timeframe]
}

// NewTimeframeConfig seeds the config, using DefaultTimeframe when initial is invalid.
func NewTimeframeConfig(initial Timeframe) *TimeframeConfig {
	cfg := &TimeframeConfig{}
	if initial.Validate() != nil {
		initial = DefaultTimeframe
	}
	cfg.current.Store(&initial)
	return cfg
}

// Set validates and atomically replaces the configuration. The prior value is
// retained on failure.
func (c *TimeframeConfig) Set(amount int, unit string) (Timeframe, error) {
	tf, err := NewTimeframe(amount, unit)
	if err != nil {
		return Timeframe{}, err
	}
	c.current.Store(&tf)
	return tf, nil
}

// Get returns a snapshot of the current configuration.
func (c *TimeframeConfig) Get() Timeframe {
	if tf := c.current.Load(); tf != nil {
		return *tf
	}
	return DefaultTimeframe
}
