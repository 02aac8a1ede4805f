package device

// #region imports
import (
	"sort"
	"strings"

	"github.com/synhome/go-simulator/internal/event"
)

// #endregion

// #region store
// Store maps device identifiers to their free-form key/value state.
// Identifiers are trimmed before use as keys so the generator's stray
// whitespace cannot mint silent duplicates.
type Store struct {
	states map[string]map[string]string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{states: make(map[string]map[string]string)}
}

// NewStoreFrom seeds a store from an existing id -> state mapping,
// normalizing identifiers.
func NewStoreFrom(init map[string]map[string]string) *Store {
	s := NewStore()
	for id, st := range init {
		s.Set(id, st)
	}
	return s
}

// #endregion store

// #region accessors
// Get returns the state for id, trying the trimmed form first and the
// raw form for callers that have not normalized yet. Never nil.
func (s *Store) Get(id string) map[string]string {
	if st, ok := s.states[strings.TrimSpace(id)]; ok {
		return st
	}
	if st, ok := s.states[id]; ok {
		return st
	}
	return map[string]string{}
}

// Set replaces the state for id.
func (s *Store) Set(id string, state map[string]string) {
	cp := make(map[string]string, len(state))
	for k, v := range state {
		cp[k] = v
	}
	s.states[strings.TrimSpace(id)] = cp
}

// Merge shallow-merges a patch into the existing state for id; later
// keys overwrite earlier ones.
func (s *Store) Merge(id string, patch map[string]string) {
	if len(patch) == 0 {
		return
	}
	key := strings.TrimSpace(id)
	st, ok := s.states[key]
	if !ok {
		st = make(map[string]string, len(patch))
		s.states[key] = st
	}
	for k, v := range patch {
		st[k] = v
	}
}

// Len reports the number of tracked devices.
func (s *Store) Len() int {
	return len(s.states)
}

// IDs returns the tracked identifiers, sorted for stable iteration.
func (s *Store) IDs() []string {
	out := make([]string, 0, len(s.states))
	for id := range s.states {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clone returns a deep copy, used to capture device state at an
// activity's start for the backfill pass.
func (s *Store) Clone() *Store {
	c := NewStore()
	for id, st := range s.states {
		c.Set(id, st)
	}
	return c
}

// Snapshot exports the full mapping as plain maps (deep copy).
func (s *Store) Snapshot() map[string]map[string]string {
	out := make(map[string]map[string]string, len(s.states))
	for id := range s.states {
		cp := make(map[string]string)
		for k, v := range s.states[id] {
			cp[k] = v
		}
		out[id] = cp
	}
	return out
}

// #endregion accessors

// #region patch-application
// ApplyPatches merges every device patch carried by events, in the
// caller-supplied event order.
func (s *Store) ApplyPatches(events []event.Event) {
	for _, ev := range events {
		for _, p := range ev.DevicePatches {
			if p.DeviceID == "" {
				continue
			}
			patch := NormalizePatch(EntriesToMap(p.Patch))
			s.Merge(p.DeviceID, patch)
		}
	}
}

// EntriesToMap flattens patch entries into a plain map.
func EntriesToMap(entries []event.PatchEntry) map[string]string {
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Key == "" {
			continue
		}
		out[e.Key] = e.Value
	}
	return out
}

// NormalizePatch maps known key synonyms onto the canonical vocabulary
// the capability working conditions use. Best-effort reconciliation of
// free-form generated keys, not a closed schema: unknown keys pass
// through untouched.
func NormalizePatch(patch map[string]string) map[string]string {
	if len(patch) == 0 {
		return patch
	}
	out := make(map[string]string, len(patch))
	for k, v := range patch {
		out[k] = v
	}
	if strings.EqualFold(out["turn_on"], "on") || strings.EqualFold(out["power"], "on") {
		out["power"] = "on"
	}
	if strings.EqualFold(out["open"], "open") || strings.EqualFold(out["state"], "open") {
		out["open"] = "open"
	}
	return out
}

// #endregion patch-application
