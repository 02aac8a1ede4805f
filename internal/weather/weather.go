package weather

// #region imports
import (
	"math"

	"github.com/synhome/go-simulator/internal/event"
)

// #endregion

// #region conditions
// Conditions is a concrete outdoor (temperature, humidity) pair.
type Conditions struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

// #endregion conditions

// #region diurnal
// Diurnal parameterizes a daily weather curve: sinusoid with the trough
// around 05:00 and the peak around 14:00; humidity runs inverse to
// temperature.
type Diurnal struct {
	TemperatureMin float64 `json:"temperature_min"`
	TemperatureMax float64 `json:"temperature_max"`
	HumidityMin    float64 `json:"humidity_min"`
	HumidityMax    float64 `json:"humidity_max"`
}

// #endregion diurnal

// #region model
// Model resolves outdoor conditions for a clock time. Zero value falls
// back to 24 °C / 0.5.
type Model struct {
	Constant *Conditions `json:"constant,omitempty"`
	Diurnal  *Diurnal    `json:"diurnal,omitempty"`
}

const (
	troughMinute = 300.0 // 05:00
	defaultTemp  = 24.0
	defaultHum   = 0.5
)

// At returns the outdoor conditions at ts. Humidity is normalized to
// [0,1]; values handed in as percentages (>1) are scaled down.
func (m Model) At(ts string) Conditions {
	if m.Diurnal != nil {
		d := m.Diurnal
		mins := event.MinuteOfDay(ts)
		phase := (mins - troughMinute) / (24 * 60) * 2 * math.Pi
		factor := (math.Sin(phase) + 1) / 2.0
		hMin := normalizeHumidity(d.HumidityMin, 0.4)
		hMax := normalizeHumidity(d.HumidityMax, 0.7)
		return Conditions{
			Temperature: round2(d.TemperatureMin + factor*(d.TemperatureMax-d.TemperatureMin)),
			Humidity:    round2(clamp01(hMin + (1-factor)*(hMax-hMin))),
		}
	}
	if m.Constant != nil {
		// A provided pair is taken at face value: zero humidity is bone
		// dry, not an unset field. Absent pairs fall through to defaults.
		h := m.Constant.Humidity
		if h > 1 {
			h /= 100.0
		}
		return Conditions{Temperature: m.Constant.Temperature, Humidity: clamp01(h)}
	}
	return Conditions{Temperature: defaultTemp, Humidity: defaultHum}
}

// Fixed wraps a constant pair into a Model.
func Fixed(temperature, humidity float64) Model {
	return Model{Constant: &Conditions{Temperature: temperature, Humidity: humidity}}
}

// #endregion model

// #region helpers
// normalizeHumidity treats values above 1 as percentages and zero as
// an unset diurnal bound.
func normalizeHumidity(h, fallback float64) float64 {
	if h == 0 {
		return fallback
	}
	if h > 1 {
		return h / 100.0
	}
	return h
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// #endregion helpers
