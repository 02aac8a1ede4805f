package main

// #region imports
import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/synhome/go-simulator/internal/codec"
	"github.com/synhome/go-simulator/internal/house"
	"github.com/synhome/go-simulator/internal/segment"
	"github.com/synhome/go-simulator/internal/sim"
	"github.com/synhome/go-simulator/internal/simctx"
	"github.com/synhome/go-simulator/internal/timeline"
	"github.com/synhome/go-simulator/internal/weather"
)

// #endregion

// #region main
func main() {
	var (
		layoutPath   = flag.String("layout", "data/house_layout.json", "house layout JSON")
		detailsPath  = flag.String("details", "data/house_details.json", "device details JSON")
		profilePath  = flag.String("profile", "data/profile.json", "resident profile JSON")
		activityPath = flag.String("activities", "data/activity.json", "day plan JSON")
		outPath      = flag.String("out", "data/events.json", "output events JSON")
		dayIndex     = flag.Int("day", 1, "day index for this run")
		outdoorTemp  = flag.Float64("outdoor-temp", 24.0, "constant outdoor temperature (C)")
		outdoorHum   = flag.Float64("outdoor-humidity", 0.5, "constant outdoor humidity (0-1)")
		carryOver    = flag.Bool("carry-over", true, "seed from the previous day's persisted context")
	)
	flag.Parse()

	dbPath := envOr("SIM_DB", "simulation.db")
	genAddr := envOr("GENERATOR_ADDR", "localhost:50061")

	layout, err := house.LoadLayout(*layoutPath)
	if err != nil {
		log.Fatalf("load layout: %v", err)
	}
	details, err := house.LoadDetails(*detailsPath)
	if err != nil {
		log.Fatalf("load details: %v", err)
	}
	profile, err := house.LoadProfile(*profilePath)
	if err != nil {
		log.Printf("[DAY] profile unreadable (%v), using preference defaults", err)
	}
	activities, err := house.LoadActivities(*activityPath)
	if err != nil {
		log.Fatalf("load activities: %v", err)
	}
	if len(activities) == 0 {
		log.Fatalf("no activities in %s", *activityPath)
	}

	store, err := simctx.NewStore(dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer store.Close()

	var prev *simctx.Context
	if *carryOver {
		prev, err = store.LoadLatestContext()
		if err != nil {
			log.Fatalf("load carry-over context: %v", err)
		}
		if prev != nil {
			log.Printf("[DAY] seeding day %d from previous run (%d rooms, %d devices)",
				*dayIndex, len(prev.Snapshot), prev.Devices.Len())
		}
	}
	dayCtx := simctx.NewDayContext(layout, details, prev)

	gen, err := codec.NewClient(genAddr)
	if err != nil {
		log.Fatalf("connect generator at %s: %v", genAddr, err)
	}
	defer gen.Close()

	adv := timeline.NewAdvancer(layout, details, weather.Fixed(*outdoorTemp, *outdoorHum))
	loop := segment.NewLoop(gen, adv, profile.Preferences)

	fmt.Printf("Household simulator ready.\n  DB: %s | Generator: %s | Day: %d | Activities: %d\n",
		dbPath, genAddr, *dayIndex, len(activities))

	result := sim.RunDay(context.Background(), loop, activities, dayCtx, *dayIndex)

	for _, aid := range result.EmptyActivities {
		log.Printf("[DAY] activity %s has no events; rerun it before training on this day", aid)
	}

	if err := sim.WritePayload(*outPath, result); err != nil {
		log.Fatalf("write payload: %v", err)
	}
	runID, err := store.SaveDayRun(*dayIndex, result.Final, result.Events)
	if err != nil {
		log.Fatalf("persist run: %v", err)
	}

	fmt.Printf("All done. %d events generated.\n  Payload: %s\n  Run: %s\n", len(result.Events), *outPath, runID)
}

// #endregion main

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
