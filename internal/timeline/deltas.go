package timeline

// #region imports
import (
	"strings"

	"github.com/synhome/go-simulator/internal/device"
	"github.com/synhome/go-simulator/internal/physics"
)

// #endregion

// #region tags
// Capability tags on device metadata take priority; the id substring
// match below is the documented fallback for metadata without tags.
const (
	TagCooking = "cooking"
	TagShower  = "shower"
)

var cookingIDHints = []string{"oven", "induction", "cooktop", "stove"}

// #endregion tags

// #region activity-deltas
// ActivityDeltas infers per-minute environment deltas from powered-on
// devices: a running cooking appliance heats and humidifies the
// kitchen, a running shower steams up the bathroom. Returns nil entries
// for rooms with nothing inferred.
func (a *Advancer) ActivityDeltas(rooms []string, dev *device.Store) map[string]*physics.ActivityDeltas {
	out := make(map[string]*physics.ActivityDeltas)
	for _, roomID := range rooms {
		if roomID == OutsideRoom {
			continue
		}
		cooking := false
		shower := false
		for _, id := range a.Layout[roomID].ItemIDs() {
			state := dev.Get(id)
			if !strings.EqualFold(state["power"], "on") {
				continue
			}
			if a.isCooking(id) {
				cooking = true
			}
			if a.isShower(id, roomID) {
				shower = true
			}
		}
		switch {
		case strings.EqualFold(roomID, "kitchen") && cooking:
			out[roomID] = &physics.ActivityDeltas{Temperature: 0.35, Humidity: 0.1, AirFreshness: -0.08}
		case strings.EqualFold(roomID, "bathroom") && shower:
			out[roomID] = &physics.ActivityDeltas{Humidity: 0.15, AirFreshness: -0.05}
		}
	}
	return out
}

// #endregion activity-deltas

// #region heuristics
func (a *Advancer) isCooking(id string) bool {
	if d, ok := a.Details.Lookup(id); ok && len(d.Tags) > 0 {
		return d.HasTag(TagCooking)
	}
	lower := strings.ToLower(id)
	for _, hint := range cookingIDHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

func (a *Advancer) isShower(id, roomID string) bool {
	if d, ok := a.Details.Lookup(id); ok && len(d.Tags) > 0 {
		return d.HasTag(TagShower)
	}
	lower := strings.ToLower(id)
	if strings.Contains(lower, "shower") {
		return true
	}
	return strings.Contains(lower, "heater") && strings.EqualFold(roomID, "bathroom")
}

// #endregion heuristics
