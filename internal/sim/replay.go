package sim

// #region imports
import (
	"github.com/synhome/go-simulator/internal/device"
	"github.com/synhome/go-simulator/internal/event"
	"github.com/synhome/go-simulator/internal/house"
	"github.com/synhome/go-simulator/internal/timeline"
)

// #endregion

// #region reattribute
// Reattribute recomputes every event's room_environment from the
// payload's audit trail: the per-activity starting snapshots and device
// states. Pure with respect to the payload; returns a fresh event
// slice. Run against the recorded events it must reproduce them
// exactly, since the in-run backfill replayed from the same captures.
func Reattribute(adv *timeline.Advancer, payload Payload, activities []house.Activity) []event.Event {
	events := make([]event.Event, len(payload.Events))
	copy(events, payload.Events)
	for i := range events {
		events[i].RoomEnvironment = nil
	}

	snapshotAtStart := make(map[string]timeline.Snapshot, len(payload.Meta.EnvironmentByActivity))
	for aid, snap := range payload.Meta.EnvironmentByActivity {
		snapshotAtStart[aid] = snap.Clone()
	}
	devicesAtStart := make(map[string]*device.Store, len(payload.Meta.DevicesByActivity))
	for aid, states := range payload.Meta.DevicesByActivity {
		devicesAtStart[aid] = device.NewStoreFrom(states)
	}

	adv.BackfillRoomEnvironment(events, activities, snapshotAtStart, devicesAtStart)
	timeline.FillMissingEnvironments(events, snapshotAtStart)
	return events
}

// #endregion reattribute
