package simctx

import (
	"testing"

	"github.com/synhome/go-simulator/internal/device"
	"github.com/synhome/go-simulator/internal/event"
	"github.com/synhome/go-simulator/internal/physics"
	"github.com/synhome/go-simulator/internal/timeline"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testContext() Context {
	return Context{
		Snapshot: timeline.Snapshot{
			"Kitchen": {Temperature: 23.5, Humidity: 0.55, Hygiene: 0.6, AirFreshness: 0.65, LightLevel: 0.5, LastUpdateTS: "23:00:00"},
			"Bedroom": {Temperature: 21.0, Humidity: 0.5, Hygiene: 0.7, AirFreshness: 0.7, LightLevel: 0.5},
		},
		Devices: device.NewStoreFrom(map[string]map[string]string{
			"kitchen_oven": {"power": "off", "temperature_set": "180"},
		}),
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := testStore(t)

	events := []event.Event{{
		ActivityID: "a1", StartTime: "08:00:00", EndTime: "08:15:00", RoomID: "Kitchen",
		ActionType: "device_operation", Description: "preheat",
		RoomEnvironment: &event.RoomEnvironment{Temperature: 24.0, Humidity: 0.5, Hygiene: 0.7, AirFreshness: 0.7, LightLevel: 0.5},
	}}

	runID, err := s.SaveDayRun(1, testContext(), events)
	if err != nil {
		t.Fatalf("SaveDayRun: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run id")
	}

	loaded, err := s.LoadLatestContext()
	if err != nil {
		t.Fatalf("LoadLatestContext: %v", err)
	}
	if loaded == nil {
		t.Fatal("no context after save")
	}

	kitchen, ok := loaded.Snapshot["Kitchen"]
	if !ok {
		t.Fatal("Kitchen missing from loaded snapshot")
	}
	want := physics.RoomState{Temperature: 23.5, Humidity: 0.55, Hygiene: 0.6, AirFreshness: 0.65, LightLevel: 0.5, LastUpdateTS: "23:00:00"}
	if kitchen != want {
		t.Fatalf("kitchen round trip: got %+v, want %+v", kitchen, want)
	}
	if loaded.Snapshot["Bedroom"].LastUpdateTS != "" {
		t.Fatalf("empty last_update_ts should round trip as empty: %q", loaded.Snapshot["Bedroom"].LastUpdateTS)
	}

	oven := loaded.Devices.Get("kitchen_oven")
	if oven["power"] != "off" || oven["temperature_set"] != "180" {
		t.Fatalf("device state round trip: %v", oven)
	}
}

func TestLoadLatestContextEmpty(t *testing.T) {
	s := testStore(t)
	ctx, err := s.LoadLatestContext()
	if err != nil {
		t.Fatalf("LoadLatestContext on empty store: %v", err)
	}
	if ctx != nil {
		t.Fatalf("expected nil context, got %+v", ctx)
	}
}

func TestListRuns(t *testing.T) {
	s := testStore(t)
	if _, err := s.SaveDayRun(1, testContext(), nil); err != nil {
		t.Fatalf("save day 1: %v", err)
	}
	if _, err := s.SaveDayRun(2, testContext(), []event.Event{{ActivityID: "a1"}}); err != nil {
		t.Fatalf("save day 2: %v", err)
	}

	runs, err := s.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	for _, r := range runs {
		if r.RunID == "" || r.CreatedAt.IsZero() {
			t.Fatalf("incomplete run record: %+v", r)
		}
	}

	one, err := s.ListRuns(1)
	if err != nil {
		t.Fatalf("ListRuns(1): %v", err)
	}
	if len(one) != 1 {
		t.Fatalf("limit ignored: %d runs", len(one))
	}
}

func TestLoadContextSpecificRun(t *testing.T) {
	s := testStore(t)
	first, err := s.SaveDayRun(1, testContext(), nil)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	second := testContext()
	st := second.Snapshot["Kitchen"]
	st.Temperature = 19.0
	second.Snapshot["Kitchen"] = st
	if _, err := s.SaveDayRun(2, second, nil); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := s.LoadContext(first)
	if err != nil {
		t.Fatalf("LoadContext: %v", err)
	}
	if loaded.Snapshot["Kitchen"].Temperature != 23.5 {
		t.Fatalf("loaded the wrong run: %+v", loaded.Snapshot["Kitchen"])
	}
}
