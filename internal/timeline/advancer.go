package timeline

// #region imports
import (
	"fmt"
	"sort"
	"strings"

	"github.com/synhome/go-simulator/internal/device"
	"github.com/synhome/go-simulator/internal/event"
	"github.com/synhome/go-simulator/internal/house"
	"github.com/synhome/go-simulator/internal/physics"
	"github.com/synhome/go-simulator/internal/weather"
)

// #endregion

// #region snapshot
// Snapshot maps room_id to its physical state for one simulated day.
// Owned by the day loop; rooms are never deleted, only merged.
type Snapshot map[string]physics.RoomState

// Clone deep-copies a snapshot (RoomState is a value type).
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// OutsideRoom is the sentinel room the physics core never simulates.
const OutsideRoom = "Outside"

// #endregion snapshot

// #region advancer
// Advancer lazily advances snapshot rooms against the house metadata.
// Stateless: all mutable state lives in the snapshot and device store
// passed through each call.
type Advancer struct {
	Layout  house.Layout
	Details house.DetailsMap
	Outdoor weather.Model
	Physics physics.Config
}

// NewAdvancer wires an advancer with default physics constants.
func NewAdvancer(layout house.Layout, details house.DetailsMap, outdoor weather.Model) *Advancer {
	return &Advancer{
		Layout:  layout,
		Details: details,
		Outdoor: outdoor,
		Physics: physics.DefaultConfig(),
	}
}

// #endregion advancer

// #region room-defaults
// roomStateOrDefault reads the room from the snapshot, falling back to
// layout initial values and then to plain defaults for rooms unseen
// today.
func (a *Advancer) roomStateOrDefault(snap Snapshot, roomID, ts string) physics.RoomState {
	if st, ok := snap[roomID]; ok {
		return st
	}
	return a.LayoutRoomState(roomID, ts)
}

// LayoutRoomState builds a room's initial state from layout
// environment_state values, defaulting field by field.
func (a *Advancer) LayoutRoomState(roomID, ts string) physics.RoomState {
	st := physics.DefaultRoomState(ts)
	env := a.Layout[roomID].EnvironmentState
	if len(env) == 0 {
		return st
	}
	if v, ok := env["temperature"]; ok {
		st.Temperature = v
	}
	if v, ok := env["humidity"]; ok {
		if v > 1 {
			v /= 100.0 // percentage artifact
		}
		st.Humidity = v
	}
	if v, ok := env["hygiene"]; ok {
		st.Hygiene = v
	}
	if v, ok := env["air_freshness"]; ok {
		st.AirFreshness = v
	}
	if v, ok := env["light_level"]; ok {
		st.LightLevel = v
	}
	return st
}

// activeDevices assembles the physics input for one room: every device
// and furniture item in the layout paired with its current state, so
// windows present as furniture still take part.
func (a *Advancer) activeDevices(dev *device.Store, roomID string) []physics.ActiveDevice {
	items := a.Layout[roomID].ItemIDs()
	out := make([]physics.ActiveDevice, 0, len(items))
	for _, id := range items {
		out = append(out, physics.ActiveDevice{
			ID:    strings.TrimSpace(id),
			State: dev.Get(id),
		})
	}
	return out
}

// #endregion room-defaults

// #region advance-to-time
// AdvanceToTime lazily advances the named rooms to ts, each from its
// own last update. Same-timestamp entry nudges the last update back one
// minute so the room does not freeze.
func (a *Advancer) AdvanceToTime(snap Snapshot, rooms []string, ts string, dev *device.Store) Snapshot {
	result := snap.Clone()
	for _, roomID := range rooms {
		if roomID == OutsideRoom {
			continue
		}
		last := a.roomStateOrDefault(result, roomID, ts)
		lastTS := last.LastUpdateTS
		if lastTS == "" {
			lastTS = ts
		}
		if lastTS == ts {
			lastTS = event.Shift(ts, -1)
		}
		result[roomID] = physics.Transition(last, lastTS, ts, a.activeDevices(dev, roomID), a.Details, a.Outdoor, nil, a.Physics)
	}
	return result
}

// #endregion advance-to-time

// #region advance-through-events
// AdvanceThroughEvents replays a batch in time order: each event's
// device patches merge into the store first, then every target room
// advances to the event's end time. This is the feedback loop that
// makes an event's own device actions visible to the physics for the
// rest of the same event and everything after it.
func (a *Advancer) AdvanceThroughEvents(snap Snapshot, events []event.Event, dev *device.Store, rooms []string) Snapshot {
	result := snap.Clone()

	ordered := make([]event.Event, 0, len(events))
	for _, ev := range events {
		if ev.StartTime != "" || ev.EndTime != "" {
			ordered = append(ordered, ev)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return sortKey(ordered[i]) < sortKey(ordered[j])
	})

	for _, ev := range ordered {
		st := ev.StartTime
		et := ev.EndTime
		if et == "" {
			et = st
		}
		dev.ApplyPatches([]event.Event{ev})
		for _, roomID := range rooms {
			if roomID == OutsideRoom {
				continue
			}
			last := a.roomStateOrDefault(result, roomID, st)
			lastTS := last.LastUpdateTS
			if lastTS == "" {
				lastTS = st
			}
			deltas := a.ActivityDeltas([]string{roomID}, dev)[roomID]
			result[roomID] = physics.Transition(last, lastTS, et, a.activeDevices(dev, roomID), a.Details, a.Outdoor, deltas, a.Physics)
		}
	}
	return result
}

func sortKey(ev event.Event) string {
	if ev.StartTime != "" {
		return ev.StartTime
	}
	return ev.EndTime
}

// #endregion advance-through-events

// #region advance-to-activity-end
// AdvanceToActivityEnd covers the residual gap between the last
// generated event and the activity's official end, approximating the
// unmodeled interval with heuristic activity deltas.
func (a *Advancer) AdvanceToActivityEnd(snap Snapshot, lastEventEnd, activityEnd string, rooms []string, dev *device.Store, deltas map[string]*physics.ActivityDeltas) Snapshot {
	result := snap.Clone()
	for _, roomID := range rooms {
		if roomID == OutsideRoom {
			continue
		}
		last := a.roomStateOrDefault(result, roomID, lastEventEnd)
		result[roomID] = physics.Transition(last, lastEventEnd, activityEnd, a.activeDevices(dev, roomID), a.Details, a.Outdoor, deltas[roomID], a.Physics)
	}
	return result
}

// #endregion advance-to-activity-end

// #region advance-all-rooms
// AdvanceAllRooms ticks every room in the house, not only the ones the
// current activity visits, so an empty guest room still drifts toward
// outdoor conditions across the day. Rooms never updated today start
// from fallbackTS.
func (a *Advancer) AdvanceAllRooms(snap Snapshot, ts string, dev *device.Store, fallbackTS string) Snapshot {
	result := snap.Clone()
	roomSet := make(map[string]bool, len(result)+len(a.Layout))
	for roomID := range result {
		roomSet[roomID] = true
	}
	for roomID := range a.Layout {
		roomSet[roomID] = true
	}
	rooms := make([]string, 0, len(roomSet))
	for roomID := range roomSet {
		rooms = append(rooms, roomID)
	}
	sort.Strings(rooms)

	for _, roomID := range rooms {
		if roomID == OutsideRoom {
			continue
		}
		last := a.roomStateOrDefault(result, roomID, ts)
		lastTS := last.LastUpdateTS
		if lastTS == "" {
			lastTS = fallbackTS
		}
		if lastTS == "" || lastTS == ts {
			lastTS = event.Shift(ts, -1)
		}
		result[roomID] = physics.Transition(last, lastTS, ts, a.activeDevices(dev, roomID), a.Details, a.Outdoor, nil, a.Physics)
	}
	return result
}

// #endregion advance-all-rooms

// #region format
// FormatSnapshot renders the named rooms as the environment text handed
// to the generator. No physics runs here.
func FormatSnapshot(snap Snapshot, rooms []string) string {
	var b strings.Builder
	for _, roomID := range rooms {
		if roomID == OutsideRoom {
			continue
		}
		st, ok := snap[roomID]
		if !ok {
			st = physics.DefaultRoomState("")
		}
		fmt.Fprintf(&b, "- %s: temperature %.1f C, humidity %.0f%%, hygiene %.2f, air freshness %.2f\n",
			roomID, st.Temperature, st.Humidity*100, st.Hygiene, st.AirFreshness)
	}
	if b.Len() == 0 {
		return "(no indoor rooms for this activity; no room environment data)"
	}
	return strings.TrimRight(b.String(), "\n")
}

// #endregion format
