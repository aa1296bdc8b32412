package profiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagTable_NoTagIsPreregistered(t *testing.T) {
	a := assert.New(t)
	tt := NewTagTable()
	a.Equal("NoTag", tt.Name(NoTag))
	a.Equal([]Tag{NoTag}, tt.Enumerate())
}

func TestTagTable_RegisterTagAssignsSequentialIDs(t *testing.T) {
	a := assert.New(t)
	tt := NewTagTable()

	red := tt.RegisterTag("Render", Color{255, 0, 0, 255})
	blue := tt.RegisterTag("IO", Color{0, 0, 255, 255})

	a.EqualValues(1, red)
	a.EqualValues(2, blue)
	a.Equal("Render", tt.Name(red))
	a.Equal(Color{0, 0, 255, 255}, tt.Color(blue))
	a.Equal([]Tag{NoTag, red, blue}, tt.Enumerate())
}

func TestTagTable_UnregisteredTagReturnsZeroValues(t *testing.T) {
	a := assert.New(t)
	tt := NewTagTable()
	a.Equal("", tt.Name(Tag(99)))
	a.Equal(Color{}, tt.Color(Tag(99)))
}
