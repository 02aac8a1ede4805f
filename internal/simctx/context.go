package simctx

// #region imports
import (
	"github.com/synhome/go-simulator/internal/device"
	"github.com/synhome/go-simulator/internal/house"
	"github.com/synhome/go-simulator/internal/timeline"
)

// #endregion

// #region context
// Context is the explicit simulation carry-over between days: the
// final environment snapshot and device states of one day become the
// initial inputs of the next. Ownership transfers at day boundaries;
// no ambient process-wide state.
type Context struct {
	Snapshot timeline.Snapshot
	Devices  *device.Store
}

// #endregion context

// #region new-day
// NewDayContext builds a day's starting context: layout defaults for
// every room and device, overlaid with the previous day's final state
// when present. Rooms and devices are merged, never dropped.
func NewDayContext(layout house.Layout, details house.DetailsMap, prev *Context) Context {
	snap := make(timeline.Snapshot, len(layout))
	adv := timeline.Advancer{Layout: layout, Details: details}
	for roomID := range layout {
		if roomID == timeline.OutsideRoom {
			continue
		}
		snap[roomID] = adv.LayoutRoomState(roomID, "")
	}

	dev := device.NewStore()
	for _, room := range layout {
		for _, id := range room.ItemIDs() {
			if detail, ok := details.Lookup(id); ok && len(dev.Get(id)) == 0 {
				dev.Set(id, detail.CurrentState)
			}
		}
	}

	if prev != nil {
		for roomID, st := range prev.Snapshot {
			// A fresh day starts with a clean clock; carry the values,
			// not yesterday's timestamps.
			st.LastUpdateTS = ""
			snap[roomID] = st
		}
		if prev.Devices != nil {
			for _, id := range prev.Devices.IDs() {
				dev.Set(id, prev.Devices.Get(id))
			}
		}
	}

	return Context{Snapshot: snap, Devices: dev}
}

// #endregion new-day
