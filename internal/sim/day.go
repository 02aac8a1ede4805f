package sim

// #region imports
import (
	"context"
	"log"

	"github.com/synhome/go-simulator/internal/device"
	"github.com/synhome/go-simulator/internal/event"
	"github.com/synhome/go-simulator/internal/house"
	"github.com/synhome/go-simulator/internal/segment"
	"github.com/synhome/go-simulator/internal/simctx"
	"github.com/synhome/go-simulator/internal/timeline"
)

// #endregion

// #region result
// DayResult is everything one simulated day produces.
type DayResult struct {
	Events []event.Event
	Final  simctx.Context
	// EnvironmentByActivity records the snapshot at each activity's
	// start, persisted alongside the events for auditability.
	EnvironmentByActivity map[string]timeline.Snapshot
	// DevicesByActivity records the device states at each activity's
	// start. The backfill replays from these, so a later re-attribution
	// needs them too or a device carried over from an earlier activity
	// would be lost.
	DevicesByActivity map[string]*device.Store
	// EmptyActivities lists activity ids that produced zero events so
	// the operator can rerun them; they never halt the day.
	EmptyActivities []string
}

// contextBufferSize bounds how much prior-event tail feeds the next
// activity's generation for continuity.
const contextBufferSize = 5

// #endregion result

// #region run-day
// RunDay processes a day's activities strictly in order: each
// activity's starting state is the previous activity's ending state.
// After all events are known it runs the deterministic backfill pass so
// every event carries the room state right after it ended.
func RunDay(ctx context.Context, loop *segment.Loop, activities []house.Activity, dayCtx simctx.Context, dayIndex int) DayResult {
	snapshot := dayCtx.Snapshot.Clone()
	dev := dayCtx.Devices
	if dev == nil {
		dev = device.NewStore()
	}

	var all []event.Event
	var prevTail []event.Event
	var empty []string
	snapshotAtStart := make(map[string]timeline.Snapshot, len(activities))
	devicesAtStart := make(map[string]*device.Store, len(activities))

	dayStart := ""
	if len(activities) > 0 {
		dayStart = activities[0].StartTime
	}

	for i, act := range activities {
		log.Printf("[DAY] d%d processing [%d/%d] %s (%s)", dayIndex, i+1, len(activities), act.ActivityID, act.ActivityName)

		devicesAtStart[act.ActivityID] = dev.Clone()

		result, err := loop.Run(ctx, act, snapshot, dev, prevTail)
		if err != nil {
			log.Printf("[DAY] d%d activity %s failed: %v", dayIndex, act.ActivityID, err)
		}
		snapshotAtStart[act.ActivityID] = result.StartSnapshot

		if len(result.Events) == 0 {
			log.Printf("[DAY] d%d activity %s produced no events; flagged for rerun", dayIndex, act.ActivityID)
			empty = append(empty, act.ActivityID)
		}

		for roomID, st := range result.Snapshot {
			snapshot[roomID] = st
		}

		// Every room ticks to the activity's end, visited or not;
		// unvisited rooms fall back to the day's first start time.
		fallback := dayStart
		if fallback == "" {
			fallback = act.EndTime
		}
		snapshot = loop.Adv.AdvanceAllRooms(snapshot, act.EndTime, dev, fallback)

		batch := result.Events
		timeline.SanitizeEvents(batch, loop.Adv.Layout)
		all = append(all, batch...)
		if len(all) > contextBufferSize {
			prevTail = all[len(all)-contextBufferSize:]
		} else {
			prevTail = all
		}
	}

	// Timestamp artifacts (seconds=60 and friends) get folded before
	// attribution so the replay sorts the same way every time.
	for i := range all {
		all[i].StartTime = event.NormalizeClock(all[i].StartTime)
		all[i].EndTime = event.NormalizeClock(all[i].EndTime)
	}

	loop.Adv.BackfillRoomEnvironment(all, activities, snapshotAtStart, devicesAtStart)
	timeline.FillMissingEnvironments(all, snapshotAtStart)

	return DayResult{
		Events:                all,
		Final:                 simctx.Context{Snapshot: snapshot, Devices: dev},
		EnvironmentByActivity: snapshotAtStart,
		DevicesByActivity:     devicesAtStart,
		EmptyActivities:       empty,
	}
}

// #endregion run-day
