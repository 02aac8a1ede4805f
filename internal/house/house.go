package house

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// #endregion

// #region capability
// Capability is one environmental-regulation template on a device. It
// applies only while the device's current state satisfies the working
// condition.
type Capability struct {
	TargetAttribute  string            `json:"target_attribute"`
	DeltaPerMinute   float64           `json:"delta_per_minute"`
	WorkingCondition map[string]string `json:"working_condition"`
	TargetValue      *float64          `json:"target_value,omitempty"`
}

// #endregion capability

// #region device-detail
// DeviceDetail holds the load-time metadata for one device or furniture
// item. Tags, when present, override device-id substring sniffing for
// activity heuristics ("cooking", "shower").
type DeviceDetail struct {
	Regulation   []Capability      `json:"environmental_regulation"`
	CurrentState map[string]string `json:"current_state"`
	Tags         []string          `json:"tags,omitempty"`
}

// DetailsMap indexes device details by identifier. Lookup tries the
// trimmed id first for callers that have not normalized yet.
type DetailsMap map[string]DeviceDetail

// Lookup returns the detail for id, trying trimmed then raw forms.
func (m DetailsMap) Lookup(id string) (DeviceDetail, bool) {
	if d, ok := m[strings.TrimSpace(id)]; ok {
		return d, true
	}
	d, ok := m[id]
	return d, ok
}

// HasTag reports whether the device carries the given capability tag.
func (d DeviceDetail) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// #endregion device-detail

// #region room
// Room lists the devices and furniture present in a room plus optional
// initial environment values from the layout generator.
type Room struct {
	Devices          []string           `json:"devices"`
	Furniture        []string           `json:"furniture"`
	EnvironmentState map[string]float64 `json:"environment_state,omitempty"`
}

// ItemIDs returns devices and furniture, deduplicated, layout order.
func (r Room) ItemIDs() []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(r.Devices)+len(r.Furniture))
	for _, id := range append(append([]string{}, r.Devices...), r.Furniture...) {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Layout maps room_id to its contents. "Outside" is a sentinel room the
// physics core never simulates.
type Layout map[string]Room

// #endregion room

// #region preferences
// Preferences is the persona slice the comfort evaluator reads.
type Preferences struct {
	HomeTemperature float64 `json:"home_temperature"`
}

// PreferredTemperature returns the persona setpoint, defaulting to 22 °C
// when the profile never set one.
func (p Preferences) PreferredTemperature() float64 {
	if p.HomeTemperature == 0 {
		return 22.0
	}
	return p.HomeTemperature
}

// Profile is the resident persona record. Only preferences matter here;
// the rest rides along for the generator prompt.
type Profile struct {
	Preferences Preferences `json:"preferences"`
}

// #endregion preferences

// #region activity
// Activity is one planned block of the day, produced by the external
// planning collaborator.
type Activity struct {
	ActivityID   string   `json:"activity_id"`
	ActivityName string   `json:"activity_name"`
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
	MainRooms    []string `json:"main_rooms"`
}

// #endregion activity

// #region loaders
// LoadLayout reads a layout JSON file. Missing optional fields degrade
// to empty values.
func LoadLayout(path string) (Layout, error) {
	var l Layout
	if err := readJSON(path, &l); err != nil {
		return nil, fmt.Errorf("load layout: %w", err)
	}
	return l, nil
}

// LoadDetails reads the device-details JSON file.
func LoadDetails(path string) (DetailsMap, error) {
	var m DetailsMap
	if err := readJSON(path, &m); err != nil {
		return nil, fmt.Errorf("load details: %w", err)
	}
	return m, nil
}

// LoadProfile reads the resident profile. A broken or missing
// preferences block falls back to defaults rather than failing the run.
func LoadProfile(path string) (Profile, error) {
	var p Profile
	if err := readJSON(path, &p); err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

// LoadActivities reads the day plan. Accepts HH:MM shorthand in
// activity times and pads it to HH:MM:SS.
func LoadActivities(path string) ([]Activity, error) {
	var wrapper struct {
		Activities []Activity `json:"activities"`
	}
	if err := readJSON(path, &wrapper); err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}
	for i := range wrapper.Activities {
		wrapper.Activities[i].StartTime = padClock(wrapper.Activities[i].StartTime)
		wrapper.Activities[i].EndTime = padClock(wrapper.Activities[i].EndTime)
	}
	return wrapper.Activities, nil
}

func padClock(ts string) string {
	if len(ts) == 5 && strings.Count(ts, ":") == 1 {
		return ts + ":00"
	}
	return ts
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// #endregion loaders
