package timeline

// #region imports
import (
	"strings"

	"github.com/synhome/go-simulator/internal/event"
	"github.com/synhome/go-simulator/internal/house"
)

// #endregion

// #region sanitize
// SanitizeEvents reconciles generated events with the house layout in
// place: room ids are canonicalized case-insensitively and target
// objects not present in the event's room are dropped. Events naming an
// unknown room keep it untouched; semantic validation is not this
// layer's job.
func SanitizeEvents(events []event.Event, layout house.Layout) {
	canonical := make(map[string]string, len(layout))
	items := make(map[string]map[string]bool, len(layout))
	for roomID, room := range layout {
		canonical[strings.ToLower(roomID)] = roomID
		set := make(map[string]bool)
		for _, id := range room.ItemIDs() {
			set[strings.TrimSpace(id)] = true
		}
		items[roomID] = set
	}

	for i := range events {
		rid := events[i].RoomID
		if mapped, ok := canonical[strings.ToLower(strings.TrimSpace(rid))]; ok {
			events[i].RoomID = mapped
			rid = mapped
		}
		if rid == OutsideRoom {
			continue
		}
		set, ok := items[rid]
		if !ok {
			continue
		}
		kept := events[i].TargetObjectIDs[:0]
		for _, obj := range events[i].TargetObjectIDs {
			if set[strings.TrimSpace(obj)] {
				kept = append(kept, obj)
			}
		}
		events[i].TargetObjectIDs = kept
	}
}

// #endregion sanitize
