package physics

// #region imports
import (
	"math"
	"strconv"
	"strings"

	"github.com/synhome/go-simulator/internal/event"
	"github.com/synhome/go-simulator/internal/house"
	"github.com/synhome/go-simulator/internal/weather"
)

// #endregion

// #region transition
// Transition lazily advances one room from lastTS to currentTS. Pure:
// no I/O, no mutation of inputs. Devices without metadata and
// capabilities whose working condition does not match are skipped, not
// errors; this feeds a generative pipeline where robustness beats
// strictness.
//
// Callers entering a room at the same timestamp as its last update must
// nudge lastTS back a minute first, or dt stays zero and the room
// freezes on same-timestamp entry.
func Transition(
	st RoomState,
	lastTS, currentTS string,
	active []ActiveDevice,
	details house.DetailsMap,
	outdoor weather.Model,
	deltas *ActivityDeltas,
	cfg Config,
) RoomState {
	dt := math.Max(0, event.DeltaMinutes(lastTS, currentTS))

	t := st.Temperature
	h := st.Humidity
	hy := st.Hygiene
	af := st.AirFreshness

	out := outdoor.At(currentTS)

	open := windowOpen(active)
	kTemp := cfg.KTemperature
	kHum := cfg.KHumidity
	if open {
		kTemp = cfg.KTemperatureOpen
		kHum = cfg.KHumidityOpen
	}

	// Baseline relaxation toward outdoor conditions and floors.
	t += kTemp * (out.Temperature - t) * dt
	h += kHum * (out.Humidity - h) * dt
	hy -= cfg.KHygieneDecay * (hy - cfg.HygieneFloor) * dt
	hy = clamp(hy, HygieneMin, 1.0)
	if open {
		af += cfg.KAirOpen * (0.9 - af) * dt
	} else {
		af -= cfg.AirDecay * (af - cfg.AirFloor) * dt
	}
	afBeforeDevices := af

	// Device effects, gated by working conditions.
	for _, dev := range active {
		detail, ok := details.Lookup(dev.ID)
		if !ok {
			continue
		}
		for _, reg := range detail.Regulation {
			if !MatchesCondition(dev.State, reg.WorkingCondition) {
				continue
			}
			switch strings.ToLower(strings.TrimSpace(reg.TargetAttribute)) {
			case "temperature":
				// Exponential approach to a clamped setpoint. A raw
				// additive delta would let a 180 °C oven template drag
				// room temperature into absurdity.
				target := temperatureTarget(reg, dev.State)
				if target != nil {
					goal := clamp(*target, TemperatureMin, TemperatureMax)
					t += cfg.KSetpoint * (goal - t) * dt
				} else {
					t += reg.DeltaPerMinute * dt
				}
			case "humidity":
				h += reg.DeltaPerMinute * dt
			case "hygiene":
				hy = clamp(hy+reg.DeltaPerMinute*dt, HygieneMin, 1.0)
			case "air_freshness":
				af = clamp(af+reg.DeltaPerMinute*dt, 0.0, 1.0)
			}
		}
	}

	// A sealed room must not drift to perfect freshness: with no
	// freshening contribution this tick, high values bleed back down.
	if af > cfg.AirSaturation && (af-afBeforeDevices) < 0.01 {
		af -= cfg.AirSaturationK * (af - cfg.AirSaturationRef) * dt
		af = clamp(af, 0.0, 1.0)
	}

	// Resident-activity effects (cooking, shower) come last.
	if deltas != nil {
		t += deltas.Temperature * dt
		h += deltas.Humidity * dt
		hy += deltas.Hygiene * dt
		af += deltas.AirFreshness * dt
	}

	// Light has no dynamics; the incoming value passes through untouched
	// so a deliberately dark room stays dark. Defaults belong to state
	// construction, not to the transition.
	next := st
	next.Temperature = round2(clamp(t, TemperatureMin, TemperatureMax))
	next.Humidity = round2(clamp(h, HumidityMin, HumidityMax))
	next.Hygiene = round2(clamp(hy, HygieneMin, 1.0))
	next.AirFreshness = round2(clamp(af, 0.0, 1.0))
	next.LastUpdateTS = currentTS
	return next
}

// #endregion transition

// #region window-detection
// windowOpen reports whether any active device looks like an open
// window: identifier contains "window" and its state marks it open.
func windowOpen(active []ActiveDevice) bool {
	for _, dev := range active {
		if !strings.Contains(strings.ToLower(dev.ID), "window") {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(dev.State["open"]), "open") {
			return true
		}
	}
	return false
}

// #endregion window-detection

// #region condition-matching
// MatchesCondition reports whether a device's current state satisfies a
// capability working condition. Keys compare case-insensitively (the
// generator emits Power/Temperature at whim), an empty expected value is
// a wildcard, and a missing key means no match.
func MatchesCondition(state, condition map[string]string) bool {
	norm := make(map[string]string, len(state))
	for k, v := range state {
		norm[strings.ToLower(strings.TrimSpace(k))] = v
	}
	for k, want := range condition {
		want = strings.TrimSpace(want)
		if want == "" {
			continue
		}
		got, ok := norm[strings.ToLower(strings.TrimSpace(k))]
		if !ok {
			return false
		}
		if !strings.EqualFold(got, want) {
			return false
		}
	}
	return true
}

// #endregion condition-matching

// #region helpers
// temperatureTarget resolves the setpoint for a temperature capability:
// template target_value first, then the device's own temperature_set.
func temperatureTarget(reg house.Capability, state map[string]string) *float64 {
	if reg.TargetValue != nil {
		return reg.TargetValue
	}
	if raw, ok := state["temperature_set"]; ok {
		if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return &v
		}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// #endregion helpers
