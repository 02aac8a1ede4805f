package segment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/synhome/go-simulator/internal/device"
	"github.com/synhome/go-simulator/internal/event"
	"github.com/synhome/go-simulator/internal/house"
	"github.com/synhome/go-simulator/internal/timeline"
	"github.com/synhome/go-simulator/internal/weather"
)

// #region fixture

type genFunc func(ctx context.Context, req Request) ([]event.Event, error)

func (f genFunc) GenerateEvents(ctx context.Context, req Request) ([]event.Event, error) {
	return f(ctx, req)
}

func testLoop(gen Generator) *Loop {
	layout := house.Layout{"Kitchen": {}}
	adv := timeline.NewAdvancer(layout, house.DetailsMap{}, weather.Fixed(24.0, 0.5))
	return NewLoop(gen, adv, house.Preferences{})
}

func testActivity() house.Activity {
	return house.Activity{
		ActivityID: "a1",
		StartTime:  "08:00:00",
		EndTime:    "09:00:00",
		MainRooms:  []string{"Kitchen"},
	}
}

// #endregion fixture

func TestRunSingleBatchCoversActivity(t *testing.T) {
	calls := 0
	gen := genFunc(func(ctx context.Context, req Request) ([]event.Event, error) {
		calls++
		return []event.Event{{
			ActivityID: "a1", StartTime: req.SegmentStart, EndTime: "09:00:00", RoomID: "Kitchen",
		}}, nil
	})
	l := testLoop(gen)

	res, err := l.Run(context.Background(), testActivity(), timeline.Snapshot{}, device.NewStore(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 1 || res.Segments != 1 {
		t.Fatalf("calls = %d, segments = %d, want 1/1", calls, res.Segments)
	}
	if len(res.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(res.Events))
	}
	if res.Snapshot["Kitchen"].LastUpdateTS != "09:00:00" {
		t.Fatalf("kitchen not advanced to activity end: %q", res.Snapshot["Kitchen"].LastUpdateTS)
	}
	if res.StartSnapshot["Kitchen"].LastUpdateTS != "08:00:00" {
		t.Fatalf("start snapshot should capture the activity start: %q", res.StartSnapshot["Kitchen"].LastUpdateTS)
	}
}

func TestRunTreatsEmptyBatchAsExhaustion(t *testing.T) {
	calls := 0
	gen := genFunc(func(ctx context.Context, req Request) ([]event.Event, error) {
		calls++
		if calls == 1 {
			return []event.Event{{ActivityID: "a1", StartTime: "08:00:00", EndTime: "08:20:00", RoomID: "Kitchen"}}, nil
		}
		return nil, nil
	})
	l := testLoop(gen)

	res, err := l.Run(context.Background(), testActivity(), timeline.Snapshot{}, device.NewStore(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 2 || res.Segments != 2 {
		t.Fatalf("calls = %d, segments = %d, want 2/2", calls, res.Segments)
	}
	if len(res.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(res.Events))
	}
	// Residual gap after the last event must still be simulated.
	if res.Snapshot["Kitchen"].LastUpdateTS != "09:00:00" {
		t.Fatalf("residual gap not closed: %q", res.Snapshot["Kitchen"].LastUpdateTS)
	}
}

func TestRunForcesProgressOnStalledGenerator(t *testing.T) {
	calls := 0
	gen := genFunc(func(ctx context.Context, req Request) ([]event.Event, error) {
		calls++
		// End time never moves past the segment start.
		return []event.Event{{ActivityID: "a1", StartTime: req.SegmentStart, EndTime: req.SegmentStart, RoomID: "Kitchen"}}, nil
	})
	l := testLoop(gen)

	res, err := l.Run(context.Background(), testActivity(), timeline.Snapshot{}, device.NewStore(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// 08:00 -> 08:20 -> 08:40 -> 09:00 under the 20-minute forced step.
	if res.Segments != 3 {
		t.Fatalf("segments = %d, want 3", res.Segments)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRunStopsAtSegmentCap(t *testing.T) {
	gen := genFunc(func(ctx context.Context, req Request) ([]event.Event, error) {
		return []event.Event{{
			ActivityID: "a1", StartTime: req.SegmentStart,
			EndTime: event.Shift(req.SegmentStart, 1), RoomID: "Kitchen",
		}}, nil
	})
	l := testLoop(gen)
	l.MaxSegments = 3

	res, err := l.Run(context.Background(), testActivity(), timeline.Snapshot{}, device.NewStore(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Segments != 3 {
		t.Fatalf("segments = %d, want cap of 3", res.Segments)
	}
	if len(res.Events) != 3 {
		t.Fatalf("events = %d, want 3", len(res.Events))
	}
}

func TestRunReturnsPartialResultOnError(t *testing.T) {
	calls := 0
	gen := genFunc(func(ctx context.Context, req Request) ([]event.Event, error) {
		calls++
		if calls == 1 {
			return []event.Event{{ActivityID: "a1", StartTime: "08:00:00", EndTime: "08:30:00", RoomID: "Kitchen"}}, nil
		}
		return nil, errors.New("generator offline")
	})
	l := testLoop(gen)

	res, err := l.Run(context.Background(), testActivity(), timeline.Snapshot{}, device.NewStore(), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "a1") {
		t.Fatalf("error should name the activity: %v", err)
	}
	if len(res.Events) != 1 {
		t.Fatalf("partial events should survive the error: %d", len(res.Events))
	}
}

func TestRunRequestCarriesGuidance(t *testing.T) {
	var seen Request
	gen := genFunc(func(ctx context.Context, req Request) ([]event.Event, error) {
		seen = req
		return nil, nil
	})
	l := testLoop(gen)
	prev := []event.Event{{ActivityID: "a0", Description: "earlier"}}

	if _, err := l.Run(context.Background(), testActivity(), timeline.Snapshot{}, device.NewStore(), prev); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if seen.SegmentStart != "08:00:00" {
		t.Fatalf("segment start = %q", seen.SegmentStart)
	}
	if !strings.Contains(seen.RoomEnvironment, "Kitchen") {
		t.Fatalf("room environment text missing the room: %q", seen.RoomEnvironment)
	}
	if seen.ComfortMandate == "" {
		t.Fatal("comfort mandate should always be present")
	}
	if len(seen.PreviousEvents) != 1 || seen.PreviousEvents[0].ActivityID != "a0" {
		t.Fatalf("previous events not forwarded: %+v", seen.PreviousEvents)
	}
}
