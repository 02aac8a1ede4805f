package timeline

// #region imports
import (
	"sort"

	"github.com/synhome/go-simulator/internal/device"
	"github.com/synhome/go-simulator/internal/event"
	"github.com/synhome/go-simulator/internal/house"
)

// #endregion

// #region backfill
// BackfillRoomEnvironment is the deterministic second pass: for every
// activity it restarts from the snapshot and device state captured at
// that activity's start, replays its events one at a time in time
// order, and writes onto each event the room state right after it
// ended. Independent of whatever order the generation loop originally
// computed things in; running it twice yields identical attributions.
func (a *Advancer) BackfillRoomEnvironment(
	allEvents []event.Event,
	activities []house.Activity,
	snapshotAtStart map[string]Snapshot,
	devicesAtStart map[string]*device.Store,
) {
	for _, act := range activities {
		if act.ActivityID == "" {
			continue
		}
		var indices []int
		for i := range allEvents {
			if allEvents[i].ActivityID == act.ActivityID {
				indices = append(indices, i)
			}
		}
		if len(indices) == 0 || len(act.MainRooms) == 0 {
			continue
		}
		sort.SliceStable(indices, func(x, y int) bool {
			return allEvents[indices[x]].StartTime < allEvents[indices[y]].StartTime
		})

		snap := snapshotAtStart[act.ActivityID].Clone()
		dev := devicesAtStart[act.ActivityID]
		if dev == nil {
			dev = device.NewStore()
		} else {
			dev = dev.Clone()
		}

		for _, i := range indices {
			ev := allEvents[i]
			if ev.RoomID == "" || ev.RoomID == OutsideRoom {
				continue
			}
			snap = a.AdvanceThroughEvents(snap, []event.Event{ev}, dev, act.MainRooms)
			if st, ok := snap[ev.RoomID]; ok {
				allEvents[i].RoomEnvironment = &event.RoomEnvironment{
					Temperature:  st.Temperature,
					Humidity:     st.Humidity,
					Hygiene:      st.Hygiene,
					AirFreshness: st.AirFreshness,
					LightLevel:   st.LightLevel,
				}
			}
		}
	}
}

// #endregion backfill

// #region fill-missing
// FillMissingEnvironments covers events the replay could not attribute
// (Outside, unknown rooms) with the room state captured at their
// activity's start, so every persisted event carries something.
func FillMissingEnvironments(allEvents []event.Event, snapshotAtStart map[string]Snapshot) {
	for i := range allEvents {
		if allEvents[i].RoomEnvironment != nil {
			continue
		}
		rid := allEvents[i].RoomID
		if rid == "" || rid == OutsideRoom {
			continue
		}
		snap, ok := snapshotAtStart[allEvents[i].ActivityID]
		if !ok {
			continue
		}
		if st, ok := snap[rid]; ok {
			allEvents[i].RoomEnvironment = &event.RoomEnvironment{
				Temperature:  st.Temperature,
				Humidity:     st.Humidity,
				Hygiene:      st.Hygiene,
				AirFreshness: st.AirFreshness,
				LightLevel:   st.LightLevel,
			}
		}
	}
}

// #endregion fill-missing
