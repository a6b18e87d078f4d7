//go:build !ios && !android && (amd64 || arm64)

package capi

// Rect mirrors cef_rect_t.
type Rect struct {
	X      int32
	Y      int32
	Width  int32
	Height int32
}

// Size mirrors cef_size_t.
type Size struct {
	Width  int32
	Height int32
}

// Point mirrors cef_point_t.
type Point struct {
	X int32
	Y int32
}

// Range mirrors cef_range_t.
type Range struct {
	From uint32
	To   uint32
}

// ScreenInfo mirrors cef_screen_info_t.
type ScreenInfo struct {
	DeviceScaleFactor float32
	Depth             int32
	DepthPerComponent int32
	IsMonochrome      int32
	Rect              Rect
	AvailableRect     Rect
}

// TouchHandleState mirrors cef_touch_handle_state_t.
type TouchHandleState struct {
	TouchHandleID    int32
	Flags            uint32
	Orientation      int32
	MirrorVertical   int32
	MirrorHorizontal int32
	Origin           Point
	Alpha            float32
}
