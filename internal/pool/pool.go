// Package pool provides sync.Pool-backed object reuse for the hot paths of
// rendering: string builders, lipgloss layer slices, read buffers and
// styles, all allocated per-frame without this package.
package pool

import (
	"strings"
	"sync"

	"charm.land/lipgloss/v2"
)

const (
	initialLayerCapacity = 16
	byteSliceSize        = 32 * 1024
)

var stringBuilderPool = sync.Pool{
	New: func() any { return &strings.Builder{} },
}

// GetStringBuilder returns a reset *strings.Builder from the pool.
func GetStringBuilder() *strings.Builder {
	return stringBuilderPool.Get().(*strings.Builder)
}

// PutStringBuilder resets sb and returns it to the pool.
func PutStringBuilder(sb *strings.Builder) {
	sb.Reset()
	stringBuilderPool.Put(sb)
}

var layerSlicePool = sync.Pool{
	New: func() any {
		s := make([]*lipgloss.Layer, 0, initialLayerCapacity)
		return &s
	},
}

// GetLayerSlice returns a zero-length *[]*lipgloss.Layer with spare
// capacity from the pool.
func GetLayerSlice() *[]*lipgloss.Layer {
	return layerSlicePool.Get().(*[]*lipgloss.Layer)
}

// PutLayerSlice truncates layers to zero length and returns it to the pool.
func PutLayerSlice(layers *[]*lipgloss.Layer) {
	*layers = (*layers)[:0]
	layerSlicePool.Put(layers)
}

var byteSlicePool = sync.Pool{
	New: func() any {
		b := make([]byte, byteSliceSize)
		return &b
	},
}

// GetByteSlice returns a *[]byte of length byteSliceSize from the pool.
func GetByteSlice() *[]byte {
	return byteSlicePool.Get().(*[]byte)
}

// PutByteSlice returns buf to the pool.
func PutByteSlice(buf *[]byte) {
	byteSlicePool.Put(buf)
}

var stylePool = sync.Pool{
	New: func() any {
		s := lipgloss.NewStyle()
		return &s
	},
}

// GetStyle returns a fresh *lipgloss.Style from the pool.
func GetStyle() *lipgloss.Style {
	return stylePool.Get().(*lipgloss.Style)
}

// PutStyle resets style to the zero style and returns it to the pool.
func PutStyle(style *lipgloss.Style) {
	*style = lipgloss.NewStyle()
	stylePool.Put(style)
}
