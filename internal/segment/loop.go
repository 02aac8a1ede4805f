package segment

// #region imports
import (
	"context"
	"fmt"
	"log"

	"github.com/synhome/go-simulator/internal/comfort"
	"github.com/synhome/go-simulator/internal/device"
	"github.com/synhome/go-simulator/internal/event"
	"github.com/synhome/go-simulator/internal/house"
	"github.com/synhome/go-simulator/internal/timeline"
)

// #endregion

// #region request
// Request is the guidance bundle handed to the external event
// generator for one segment.
type Request struct {
	Activity        house.Activity
	SegmentStart    string
	RoomEnvironment string        // formatted physics output at segment start
	ComfortMandate  string        // comfort evaluator verdict
	EventsSoFar     []event.Event // accumulated events of this activity
	PreviousEvents  []event.Event // tail of the prior activity, for continuity
}

// #endregion request

// #region generator
// Generator is the external event-generation collaborator. It may fail
// or return structurally invalid timestamps; the loop only consumes
// start/end times and device patches. Retry and backoff live with the
// implementation, not here.
type Generator interface {
	GenerateEvents(ctx context.Context, req Request) ([]event.Event, error)
}

// #endregion generator

// #region loop
const (
	// DefaultMaxSegments bounds worst-case generator cost per activity.
	DefaultMaxSegments = 20
	// DefaultForceStepMinutes is the anti-stall forced advance applied
	// when a batch does not move time forward.
	DefaultForceStepMinutes = 20
)

// Loop drives repeated generator calls across an activity, coupling
// each batch's device effects back into the physics state before the
// next batch is requested.
type Loop struct {
	Gen              Generator
	Adv              *timeline.Advancer
	Prefs            house.Preferences
	MaxSegments      int
	ForceStepMinutes int
}

// NewLoop wires a loop with the default guards.
func NewLoop(gen Generator, adv *timeline.Advancer, prefs house.Preferences) *Loop {
	return &Loop{
		Gen:              gen,
		Adv:              adv,
		Prefs:            prefs,
		MaxSegments:      DefaultMaxSegments,
		ForceStepMinutes: DefaultForceStepMinutes,
	}
}

// Result carries the loop output for one activity.
type Result struct {
	Events        []event.Event
	Snapshot      timeline.Snapshot // physics state at activity end
	StartSnapshot timeline.Snapshot // physics state right after advancing to activity start
	Segments      int
}

// Run generates events for one activity segment by segment. snap and
// dev must already reflect the previous activity's end; dev is mutated
// in place, snap is not. An empty batch is generator exhaustion, a
// normal terminal condition. Generator errors return the events
// accumulated so far.
func (l *Loop) Run(ctx context.Context, act house.Activity, snap timeline.Snapshot, dev *device.Store, prev []event.Event) (Result, error) {
	segSnapshot := l.Adv.AdvanceToTime(snap, act.MainRooms, act.StartTime, dev)
	startSnapshot := segSnapshot.Clone()
	all := make([]event.Event, 0, 16)
	segStart := act.StartTime
	segments := 0

	for segStart < act.EndTime {
		segments++

		envText := timeline.FormatSnapshot(segSnapshot, act.MainRooms)
		mandate, _ := comfort.Evaluate(segSnapshot, act.MainRooms, l.Prefs)

		batch, err := l.Gen.GenerateEvents(ctx, Request{
			Activity:        act,
			SegmentStart:    segStart,
			RoomEnvironment: envText,
			ComfortMandate:  mandate,
			EventsSoFar:     all,
			PreviousEvents:  prev,
		})
		if err != nil {
			return Result{Events: all, Snapshot: segSnapshot, StartSnapshot: startSnapshot, Segments: segments},
				fmt.Errorf("segment %d of %s: %w", segments, act.ActivityID, err)
		}
		if len(batch) == 0 {
			log.Printf("[LOOP] segment %d: generator returned no events, treating as exhaustion", segments)
			break
		}

		// Couple the batch back into the physics before the next ask.
		segSnapshot = l.Adv.AdvanceThroughEvents(segSnapshot, batch, dev, act.MainRooms)
		all = append(all, batch...)

		lastEnd := batch[len(batch)-1].EndTime
		if lastEnd > segStart {
			segStart = lastEnd
		} else {
			// Progress guard: a generator stuck on non-advancing
			// timestamps would loop forever without this.
			forced := event.Shift(segStart, l.ForceStepMinutes)
			if forced <= segStart || forced > act.EndTime {
				forced = act.EndTime
			}
			log.Printf("[LOOP] segment %d did not advance time (last end %s <= %s), forcing %s",
				segments, lastEnd, segStart, forced)
			segStart = forced
		}

		if segments >= l.MaxSegments {
			log.Printf("[LOOP] hit segment cap (%d) for %s, stopping", l.MaxSegments, act.ActivityID)
			break
		}
	}

	// Close the residual gap to the activity's official end.
	lastTS := act.StartTime
	if len(all) > 0 {
		if end := all[len(all)-1].EndTime; event.ParseClock(end) != nil {
			lastTS = end
		}
	}
	if lastTS < act.EndTime {
		deltas := l.Adv.ActivityDeltas(act.MainRooms, dev)
		segSnapshot = l.Adv.AdvanceToActivityEnd(segSnapshot, lastTS, act.EndTime, act.MainRooms, dev, deltas)
	}

	return Result{Events: all, Snapshot: segSnapshot, StartSnapshot: startSnapshot, Segments: segments}, nil
}

// #endregion loop
