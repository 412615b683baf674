package shom

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

const (
	dayKeyFormat = "2006-01-02"

	// The feed pads days with fewer than the usual number of tides using
	// sentinel entries.
	noTimeSentinel   = "--:--"
	noHeightSentinel = "---"
)

// DayKey is an ISO calendar date ("2006-01-02") indexing per-day collections.
type DayKey string

// NewDayKey returns the DayKey for t in t's location.
func NewDayKey(t time.Time) DayKey {
	return DayKey(t.Format(dayKeyFormat))
}

// Time returns the midnight instant of the day in loc.
func (d DayKey) Time(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dayKeyFormat, string(d), loc)
}

// Valid reports whether d parses as a calendar date.
func (d DayKey) Valid() bool {
	_, err := time.Parse(dayKeyFormat, string(d))
	return err == nil
}

// ClockTime is a time of day in minutes after midnight.
type ClockTime int

// ParseClockTime parses an "HH:MM" string.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("clock time %q not in HH:MM: %w", s, err)
	}
	return ClockTime(t.Hour()*60 + t.Minute()), nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Minutes returns the time of day as whole minutes after midnight.
func (c ClockTime) Minutes() int { return int(c) }

// Tide distinguishes high from low water.
type Tide uint

const (
	HighTide Tide = iota
	LowTide
)

func (t Tide) Valid() bool {
	return t == HighTide || t == LowTide
}

func (t Tide) String() string {
	switch t {
	case HighTide:
		return "tide.high"
	case LowTide:
		return "tide.low"
	default:
		return "invalid"
	}
}

// Event holds a single predicted tide event.
type Event struct {
	// High or Low water.
	Type Tide
	// Local time of the event.
	Time ClockTime
	// Height in meters above the hydrographic zero.
	Height float64
	// Tidal coefficient. Only high tides carry one; nil otherwise.
	Coefficient *int
}

func (e Event) String() string {
	coeff := noHeightSentinel
	if e.Coefficient != nil {
		coeff = strconv.Itoa(*e.Coefficient)
	}
	return fmt.Sprintf("{%s %s %.2fm coeff=%s}", e.Type, e.Time, e.Height, coeff)
}

// UnmarshalJSON decodes the positional form used by the feed:
// ["tide.high", "03:29", "5.85", "78"]. Low tides carry "---" in the
// coefficient slot.
func (e *Event) UnmarshalJSON(buf []byte) error {
	var parts []string
	if err := json.Unmarshal(buf, &parts); err != nil {
		return fmt.Errorf("tide event %q not a string array: %w", buf, err)
	}
	if len(parts) != 4 {
		return fmt.Errorf("tide event has %d fields, want 4", len(parts))
	}

	switch parts[0] {
	case "tide.high":
		e.Type = HighTide
	case "tide.low":
		e.Type = LowTide
	default:
		return fmt.Errorf("invalid tide type %q", parts[0])
	}

	t, err := ParseClockTime(parts[1])
	if err != nil {
		return err
	}
	e.Time = t

	h, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return fmt.Errorf("tide height %q not a float: %w", parts[2], err)
	}
	e.Height = h

	e.Coefficient = nil
	if parts[3] != noHeightSentinel {
		c, err := strconv.Atoi(parts[3])
		if err != nil {
			return fmt.Errorf("tide coefficient %q not an int: %w", parts[3], err)
		}
		e.Coefficient = &c
	}
	return nil
}

// Events is a day's tide events.
type Events []Event

// UnmarshalJSON decodes a day's event list, dropping the "--:--" sentinel
// entries the feed uses to pad days with only three tides.
func (evs *Events) UnmarshalJSON(buf []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(buf, &raw); err != nil {
		return fmt.Errorf("tide event list: %w", err)
	}
	out := make(Events, 0, len(raw))
	for _, entry := range raw {
		var parts []string
		if err := json.Unmarshal(entry, &parts); err != nil {
			return fmt.Errorf("tide event list entry: %w", err)
		}
		if len(parts) > 1 && parts[1] == noTimeSentinel {
			continue
		}
		var e Event
		if err := json.Unmarshal(entry, &e); err != nil {
			return err
		}
		out = append(out, e)
	}
	*evs = out
	return nil
}

// TideTable maps days to their tide events.
type TideTable map[DayKey]Events

// Sample is one water-level measurement point.
type Sample struct {
	Time   ClockTime
	Height float64
}

// UnmarshalJSON decodes the positional form ["00:10", "4.35"]. A null or
// unparseable height decodes as NaN so that normalization downstream can
// drop the point without losing its neighbors.
func (s *Sample) UnmarshalJSON(buf []byte) error {
	var parts []*string
	if err := json.Unmarshal(buf, &parts); err != nil {
		return fmt.Errorf("water level sample %q not an array: %w", buf, err)
	}
	if len(parts) != 2 || parts[0] == nil {
		return fmt.Errorf("water level sample %q malformed", buf)
	}
	t, err := ParseClockTime(*parts[0])
	if err != nil {
		return err
	}
	s.Time = t
	s.Height = math.NaN()
	if parts[1] != nil {
		if h, err := strconv.ParseFloat(*parts[1], 64); err == nil {
			s.Height = h
		}
	}
	return nil
}

// Samples is a day's water-level series, split into sub-sequences. Most days
// arrive as a single sequence; around daylight-saving transitions the feed
// delivers two, overlapping or gapped.
type Samples [][]Sample

// UnmarshalJSON accepts both the flat form [["00:10","4.35"], ...] and the
// nested form [[["00:10","4.35"], ...], [...]] seen on transition days.
func (s *Samples) UnmarshalJSON(buf []byte) error {
	var flat []Sample
	if err := json.Unmarshal(buf, &flat); err == nil {
		*s = Samples{flat}
		return nil
	}
	var nested [][]Sample
	if err := json.Unmarshal(buf, &nested); err != nil {
		return fmt.Errorf("water level series: %w", err)
	}
	*s = Samples(nested)
	return nil
}

// WaterLevelTable maps days to their water-level series.
type WaterLevelTable map[DayKey]Samples

// CoefficientTable maps days to their tidal coefficients (usually two).
type CoefficientTable map[DayKey][]int

// Harbor is one port known to the tide service.
type Harbor struct {
	ID   string
	Name string
	Lat  float64
	Lon  float64
}
