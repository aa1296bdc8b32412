package profiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/manvis/scopeprof/config"
)

func TestProfiler_RecordingToggle(t *testing.T) {
	a := assert.New(t)
	p := New(4, false, true)
	a.False(p.IsRecording())
	p.SetRecording(true)
	a.True(p.IsRecording())
}

func TestProfiler_Status(t *testing.T) {
	a := assert.New(t)
	prev := config.EnableProfiling
	defer func() { config.EnableProfiling = prev }()

	p := New(4, false, true)

	config.EnableProfiling = false
	a.Equal(Disabled, p.Status())

	config.EnableProfiling = true
	a.Equal(EnabledNotRecording, p.Status())
	p.SetRecording(true)
	a.Equal(EnabledRecording, p.Status())
}

func TestProfiler_EnterExitRoundTripsThroughExtract(t *testing.T) {
	a := assert.New(t)
	p := New(4, false, true)
	p.SetRecording(true)

	rec := p.InsertScopeInfo("work", "pkg.work", "work.go", 42, NoTag)
	p.Enter(rec)
	p.Exit(rec)

	ex := p.Extract()
	a.False(p.IsRecording(), "Extract must turn recording off")

	a.Len(ex.Events, 1)
	a.Len(ex.Events[0], 1)
	a.Equal(rec.Key, ex.Events[0][0].Key)
	a.Contains(ex.Scopes, rec.Key)
}

func TestProfiler_NameThreadAndCurrentThreadID(t *testing.T) {
	a := assert.New(t)
	p := New(4, false, true)

	// NameThread must be called before this goroutine's id has ever been
	// touched - once CurrentThreadID (or CurrentThreadName) has stamped the
	// default name, the binding is immutable and a later NameThread fails.
	a.True(p.NameThread("main-loop"))
	id := p.CurrentThreadID()
	a.Equal("main-loop", p.CurrentThreadName())
	a.Equal(id, p.CurrentThreadID())
	a.Equal(1, p.RegisteredThreadCount())

	a.False(p.NameThread("late-rename"), "a thread's name is immutable once an id has been assigned")
	a.Equal("main-loop", p.CurrentThreadName())
}

func TestProfiler_TagsAreSharedAcrossInsertScopeInfo(t *testing.T) {
	a := assert.New(t)
	p := New(4, false, true)

	render := p.Tags().RegisterTag("Render", Color{R: 255})
	rec := p.InsertScopeInfo("draw", "pkg.draw", "draw.go", 1, render)
	a.Equal(render, rec.Tag)
}

func TestDefault_IsASingleton(t *testing.T) {
	a := assert.New(t)
	a.Same(Default(), Default())
}
