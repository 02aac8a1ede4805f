package event

// #region patch-types
// PatchEntry is a single key/value assignment inside a device patch.
type PatchEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// DevicePatch assigns a list of key/value changes to one device.
type DevicePatch struct {
	DeviceID string       `json:"device_id"`
	Patch    []PatchEntry `json:"patch"`
}

// #endregion patch-types

// #region room-environment
// RoomEnvironment is the room-state subset attached to an event by the
// backfill pass: the room as it looked right after the event ended.
type RoomEnvironment struct {
	Temperature  float64 `json:"temperature"`
	Humidity     float64 `json:"humidity"`
	Hygiene      float64 `json:"hygiene"`
	AirFreshness float64 `json:"air_freshness"`
	LightLevel   float64 `json:"light_level"`
}

// #endregion room-environment

// #region event
// Event is one fine-grained timeline entry produced by the external
// generator. RoomEnvironment is an output of the physics core, never
// an input.
type Event struct {
	ActivityID      string           `json:"activity_id"`
	StartTime       string           `json:"start_time"`
	EndTime         string           `json:"end_time"`
	RoomID          string           `json:"room_id"`
	TargetObjectIDs []string         `json:"target_object_ids"`
	ActionType      string           `json:"action_type"`
	Description     string           `json:"description"`
	DevicePatches   []DevicePatch    `json:"device_patches,omitempty"`
	RoomEnvironment *RoomEnvironment `json:"room_environment,omitempty"`
}

// #endregion event
