package profiler

import "sync"

// TagTable holds the user-extensible set of Tags and their display name and
// color (spec §3). Tag 0 ("NoTag") is reserved and always present.
//
// The original generates this table at build time from a user-provided
// enum (ProfilerTags.hpp-style codegen); this port makes it a runtime
// registry instead, since Go has no equivalent code-generation hook wired
// into this module and RegisterTag is cheap enough to call from an init().
type TagTable struct {
	mu    sync.RWMutex
	names []string
	colors []Color
}

// NewTagTable creates a table with only NoTag registered.
func NewTagTable() *TagTable {
	return &TagTable{
		names:  []string{"NoTag"},
		colors: []Color{{0, 0, 0, 0}},
	}
}

// RegisterTag adds a new tag with the given display name and color and
// returns its id. Registration order determines the id, mirroring the
// original's sequential enum values.
func (t *TagTable) RegisterTag(name string, color Color) Tag {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := Tag(len(t.names))
	t.names = append(t.names, name)
	t.colors = append(t.colors, color)
	return id
}

// Name returns the display name for a tag, or "" if it isn't registered.
func (t *TagTable) Name(tag Tag) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(tag) >= len(t.names) {
		return ""
	}
	return t.names[tag]
}

// Color returns the RGBA color for a tag.
func (t *TagTable) Color(tag Tag) Color {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(tag) >= len(t.colors) {
		return Color{}
	}
	return t.colors[tag]
}

// Enumerate returns every registered tag id, in registration order.
func (t *TagTable) Enumerate() []Tag {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]Tag, len(t.names))
	for i := range ids {
		ids[i] = Tag(i)
	}
	return ids
}
