package comfort

// #region imports
import (
	"fmt"
	"strings"

	"github.com/synhome/go-simulator/internal/house"
	"github.com/synhome/go-simulator/internal/physics"
	"github.com/synhome/go-simulator/internal/timeline"
)

// #endregion

// #region bands
// Fixed comfort bands. Temperature is personal (preferred +-2 C); the
// rest are house-wide constants.
const (
	TempTolerance   = 2.0
	HumidityLow     = 0.30
	HumidityHigh    = 0.70
	AirFreshnessMin = 0.50
	HygieneMin      = 0.50
)

// AllClear is the mandate emitted when every room sits inside its bands.
const AllClear = "All rooms are within the comfort range; the resident is comfortable and free to follow the plan."

// #endregion bands

// #region evaluate
// Evaluate compares each target room against the persona's comfort
// bands and produces the mandate text injected into generator guidance,
// plus whether any room is still out of band. Pure; called both before
// a generation segment and after the fact to decide whether a batch
// must add corrective device actions.
func Evaluate(snap timeline.Snapshot, targetRooms []string, prefs house.Preferences) (string, bool) {
	preferred := prefs.PreferredTemperature()
	tempLow := preferred - TempTolerance
	tempHigh := preferred + TempTolerance

	var mandates []string
	for _, roomID := range targetRooms {
		if roomID == timeline.OutsideRoom {
			continue
		}
		st, ok := snap[roomID]
		if !ok {
			st = physics.DefaultRoomState("")
		}

		var directives []string
		switch {
		case st.Temperature < tempLow:
			directives = append(directives, fmt.Sprintf(
				"temperature %.1f C is below the comfort floor %.1f C; the resident is freezing. Turn on a device with a 'heating' capability and record it in device_patches.",
				st.Temperature, tempLow))
		case st.Temperature > tempHigh:
			directives = append(directives, fmt.Sprintf(
				"temperature %.1f C is above the comfort ceiling %.1f C; the resident is sweltering. Turn on a device with a 'cooling' or 'ventilation' capability and record it in device_patches.",
				st.Temperature, tempHigh))
		}
		switch {
		case st.Humidity < HumidityLow:
			directives = append(directives, fmt.Sprintf(
				"humidity %.0f%% is too dry. Find a 'humidify' device.", st.Humidity*100))
		case st.Humidity > HumidityHigh:
			directives = append(directives, fmt.Sprintf(
				"humidity %.0f%% is oppressively damp. Find a 'dehumidify' device or open a window.", st.Humidity*100))
		}
		if st.AirFreshness < AirFreshnessMin {
			directives = append(directives, fmt.Sprintf(
				"air freshness %.2f is stale. Open a window ('window_ventilation') or run a 'ventilation' device.", st.AirFreshness))
		}
		if st.Hygiene < HygieneMin {
			directives = append(directives, fmt.Sprintf(
				"hygiene %.2f is low; the resident is irritated by the mess. Insert a cleaning event (find a 'cleaning' device).", st.Hygiene))
		}

		if len(directives) > 0 {
			mandates = append(mandates, fmt.Sprintf("Room %s:\n- %s", roomID, strings.Join(directives, "\n- ")))
		}
	}

	if len(mandates) == 0 {
		return AllClear, false
	}
	text := "Environment feedback triggered: the resident is uncomfortable.\n" +
		strings.Join(mandates, "\n") +
		"\nResolve every directive above before scheduling anything else; if the room has no usable device, the resident must leave it or visibly endure."
	return text, true
}

// #endregion evaluate
