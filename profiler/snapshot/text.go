package snapshot

import (
	"fmt"
	"strings"

	"github.com/manvis/scopeprof/config"
)

// Render produces the human-readable text render described in spec §4.9:
// per thread, the thread name and event count, then the events in order
// with a "FRAME n; Duration d" marker inserted whenever the walk crosses
// into a new frame, each scope line indented by depth*2+4 spaces.
func (s *ResultSnapshot) Render() string {
	var b strings.Builder
	unit := config.TextDuration
	unitName := config.TextDurationName

	for i, events := range s.Events {
		name := "?"
		if i < len(s.ThreadNames) {
			name = s.ThreadNames[i]
		}
		fmt.Fprintf(&b, "Thread %s: %d events\n", name, len(events))

		frameIdx := -1
		for _, ev := range events {
			for frameIdx+1 < len(s.Frames) && s.Frames[frameIdx+1].Interval.Start <= ev.Interval.Start {
				frameIdx++
				f := s.Frames[frameIdx]
				fmt.Fprintf(&b, "FRAME %d; Duration %d%s\n", f.Number, f.Interval.Duration()/int64(unit), unitName)
			}

			rec := s.Scopes[ev.Key]
			scopeName := "?"
			if rec != nil {
				scopeName = rec.Name
			}
			indent := strings.Repeat(" ", int(ev.Depth)*2+4)
			fmt.Fprintf(&b, "%s%s: %d%s\n", indent, scopeName, ev.Interval.Duration()/int64(unit), unitName)
		}
	}

	return b.String()
}
