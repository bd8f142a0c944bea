package record

import (
	"fmt"
)

// Telemetry maps a named channel (e.g. "Roll", "Latitude", "Armed") to the
// ordered sequence of values sampled on that channel during a flight. Values
// may be numbers, booleans or strings; channels and lengths are defined by
// the telemetry source and are not validated here. The mapping is stored as
// a JSON blob and must read back structurally equal to what was written.
type Telemetry map[string][]any

// maxExactInt is the largest integer magnitude float64 represents exactly.
const maxExactInt = int64(1) << 53

// Normalize returns a copy of t with every numeric sample converted to
// float64, the canonical form samples take after a storage round trip.
// Booleans and strings pass through unchanged. Integers whose magnitude
// exceeds float64's exact range are rejected rather than silently rounded.
func (t Telemetry) Normalize() (Telemetry, error) {
	if t == nil {
		return nil, nil
	}

	out := make(Telemetry, len(t))
	for channel, samples := range t {
		normalized := make([]any, len(samples))
		for i, v := range samples {
			nv, err := normalizeSample(v)
			if err != nil {
				return nil, fmt.Errorf("channel %s, sample %d: %w", channel, i, err)
			}
			normalized[i] = nv
		}
		out[channel] = normalized
	}
	return out, nil
}

func normalizeSample(v any) (any, error) {
	switch n := v.(type) {
	case int:
		return exactFloat(int64(n))
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return exactFloat(n)
	case uint:
		return exactFloatUnsigned(uint64(n))
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return exactFloatUnsigned(n)
	case float32:
		return float64(n), nil
	default:
		return v, nil
	}
}

func exactFloat(i int64) (any, error) {
	if i > maxExactInt || i < -maxExactInt {
		return nil, fmt.Errorf("integer sample %d exceeds the exactly representable range", i)
	}
	return float64(i), nil
}

func exactFloatUnsigned(u uint64) (any, error) {
	if u > uint64(maxExactInt) {
		return nil, fmt.Errorf("integer sample %d exceeds the exactly representable range", u)
	}
	return float64(u), nil
}

// FlightLog is a timestamped bundle of multi-channel drone telemetry.
// Flight logs are immutable once stored.
type FlightLog struct {
	ID        int64     `json:"id"`
	Timestamp string    `json:"timestamp"` // ISO-8601 text, opaque to the store
	Telemetry Telemetry `json:"telemetryData"`
}

// Detection is a timestamped, geolocated event record describing an object
// or condition observed during a flight.
type Detection struct {
	ID        int64   `json:"id"`
	Timestamp string  `json:"timestamp"`
	Category  string  `json:"category"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Picture   *string `json:"picture,omitempty"` // Path to an image file, nil when none
	BHP       bool    `json:"bhp"`               // Health and safety compliance flag
	Worker    bool    `json:"worker"`            // Worker presence flag
	Change    bool    `json:"change"`            // State transition flag
}

// DetectionUpdate describes a partial revision of a stored Detection.
// A nil field means "not provided, keep the stored value"; this keeps
// "not provided" distinct from an explicit zero value such as false or "".
type DetectionUpdate struct {
	Timestamp *string
	Category  *string
	Latitude  *float64
	Longitude *float64
	Picture   *string
	BHP       *bool
	Worker    *bool
	Change    *bool
}

// Apply merges the provided fields of u into d, leaving nil fields untouched.
func (u DetectionUpdate) Apply(d *Detection) {
	if u.Timestamp != nil {
		d.Timestamp = *u.Timestamp
	}
	if u.Category != nil {
		d.Category = *u.Category
	}
	if u.Latitude != nil {
		d.Latitude = *u.Latitude
	}
	if u.Longitude != nil {
		d.Longitude = *u.Longitude
	}
	if u.Picture != nil {
		d.Picture = u.Picture
	}
	if u.BHP != nil {
		d.BHP = *u.BHP
	}
	if u.Worker != nil {
		d.Worker = *u.Worker
	}
	if u.Change != nil {
		d.Change = *u.Change
	}
}

// IsZero reports whether the update provides no fields at all.
func (u DetectionUpdate) IsZero() bool {
	return u.Timestamp == nil &&
		u.Category == nil &&
		u.Latitude == nil &&
		u.Longitude == nil &&
		u.Picture == nil &&
		u.BHP == nil &&
		u.Worker == nil &&
		u.Change == nil
}
