package main

// #region imports
import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/synhome/go-simulator/internal/simctx"
)

// #endregion

// #region main
// inspect lists persisted day runs and optionally dumps the carry-over
// context of one run.
func main() {
	var (
		limit = flag.Int("limit", 10, "number of runs to list")
		runID = flag.String("run", "", "dump the context of this run id")
	)
	flag.Parse()

	dbPath := envOr("SIM_DB", "simulation.db")
	store, err := simctx.NewStore(dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if *runID != "" {
		dumpContext(store, *runID)
		return
	}

	runs, err := store.ListRuns(*limit)
	if err != nil {
		log.Fatalf("list runs: %v", err)
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return
	}
	for _, r := range runs {
		fmt.Printf("%s  day=%d  events=%d  %s\n",
			r.RunID, r.DayIndex, r.EventCount, r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}

// #endregion main

// #region dump
func dumpContext(store *simctx.Store, runID string) {
	ctx, err := store.LoadContext(runID)
	if err != nil {
		log.Fatalf("load context %s: %v", runID, err)
	}
	fmt.Printf("run %s: %d rooms, %d devices\n", runID, len(ctx.Snapshot), ctx.Devices.Len())
	for roomID, st := range ctx.Snapshot {
		fmt.Printf("  %-16s temp=%.2f hum=%.2f hyg=%.2f air=%.2f light=%.2f\n",
			roomID, st.Temperature, st.Humidity, st.Hygiene, st.AirFreshness, st.LightLevel)
	}
	for _, id := range ctx.Devices.IDs() {
		fmt.Printf("  device %-20s %v\n", id, ctx.Devices.Get(id))
	}
}

// #endregion dump

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
