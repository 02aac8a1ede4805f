package physics

// #region room-state
// RoomState is one room's physical state. All bounded fields stay
// inside their declared ranges after every transition. LastUpdateTS is
// the timestamp of the last lazy update; empty means never updated.
type RoomState struct {
	Temperature  float64 `json:"temperature"`
	Humidity     float64 `json:"humidity"`
	Hygiene      float64 `json:"hygiene"`
	AirFreshness float64 `json:"air_freshness"`
	LightLevel   float64 `json:"light_level"`
	LastUpdateTS string  `json:"last_update_ts,omitempty"`
}

// DefaultRoomState returns the neutral starting state used when the
// layout carries no initial values for a room.
func DefaultRoomState(ts string) RoomState {
	return RoomState{
		Temperature:  24.0,
		Humidity:     0.5,
		Hygiene:      0.7,
		AirFreshness: AirFreshnessDefault,
		LightLevel:   0.5,
		LastUpdateTS: ts,
	}
}

// #endregion room-state

// #region active-device
// ActiveDevice pairs a device identifier with its current key/value
// state for one transition tick.
type ActiveDevice struct {
	ID    string
	State map[string]string
}

// #endregion active-device

// #region activity-deltas
// ActivityDeltas are per-minute environment changes caused by the
// resident's own activity (cooking steam, shower humidity), applied
// after device effects.
type ActivityDeltas struct {
	Temperature  float64
	Humidity     float64
	Hygiene      float64
	AirFreshness float64
}

// #endregion activity-deltas

// #region bounds
// Physical bounds. Temperature deliberately allows heat waves and cold
// snaps; humidity is floored and ceilinged to what indoor air sustains.
const (
	TemperatureMin = 5.0
	TemperatureMax = 45.0
	HumidityMin    = 0.15
	HumidityMax    = 0.85
	HygieneMin     = 0.2

	AirFreshnessDefault = 0.7
)

// #endregion bounds

// #region config
// Config holds the relaxation constants. They are calibrated by
// inspection, not derived from a thermal model; treat them as tunable.
type Config struct {
	KTemperature     float64 // closed-window approach to outdoor temp
	KTemperatureOpen float64 // open-window approach (much faster)
	KHumidity        float64
	KHumidityOpen    float64
	KAirOpen         float64 // open-window approach to near-fresh air
	KHygieneDecay    float64
	HygieneFloor     float64
	KSetpoint        float64 // approach rate toward a device target temp
	AirDecay         float64
	AirFloor         float64
	AirSaturation    float64 // level above which stale pull-down kicks in
	AirSaturationK   float64
	AirSaturationRef float64 // value the pull-down relaxes toward
}

// DefaultConfig returns the calibrated constants. Closed-window rates
// are 15-20x slower than open-window rates.
func DefaultConfig() Config {
	return Config{
		KTemperature:     0.008,
		KTemperatureOpen: 0.15,
		KHumidity:        0.005,
		KHumidityOpen:    0.10,
		KAirOpen:         0.15,
		KHygieneDecay:    0.002,
		HygieneFloor:     0.4,
		KSetpoint:        0.03,
		AirDecay:         0.001,
		AirFloor:         0.4,
		AirSaturation:    0.9,
		AirSaturationK:   0.004,
		AirSaturationRef: 0.85,
	}
}

// #endregion config
