package sim

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/synhome/go-simulator/internal/event"
	"github.com/synhome/go-simulator/internal/timeline"
)

// #endregion

// #region payload
// Payload is the persisted timeline file: every event with its
// backfilled room_environment, plus the per-activity starting snapshot
// for auditing.
type Payload struct {
	Events []event.Event `json:"events"`
	Meta   Meta          `json:"meta"`
}

// Meta carries the audit trail alongside the events: everything the
// backfill replayed from, so the attribution can be reproduced later.
type Meta struct {
	EnvironmentByActivity map[string]timeline.Snapshot            `json:"environment_by_activity"`
	DevicesByActivity     map[string]map[string]map[string]string `json:"devices_by_activity"`
	Note                  string                                  `json:"note"`
}

const metaNote = "environment_by_activity and devices_by_activity hold each room's and device's " +
	"state at the activity's start; each event's room_environment is the room's state right " +
	"after that event ended."

// #endregion payload

// #region io
// WritePayload saves a day's result as the events JSON file.
func WritePayload(path string, res DayResult) error {
	devices := make(map[string]map[string]map[string]string, len(res.DevicesByActivity))
	for aid, store := range res.DevicesByActivity {
		if store != nil {
			devices[aid] = store.Snapshot()
		}
	}
	payload := Payload{
		Events: res.Events,
		Meta: Meta{
			EnvironmentByActivity: res.EnvironmentByActivity,
			DevicesByActivity:     devices,
			Note:                  metaNote,
		},
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	return nil
}

// LoadPayload reads a previously written events file.
func LoadPayload(path string) (Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Payload{}, fmt.Errorf("read payload: %w", err)
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("parse payload %s: %w", path, err)
	}
	return p, nil
}

// #endregion io
