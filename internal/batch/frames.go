// internal/batch/frames.go - Frame sequence generation
package batch

import "tileblend/internal/view"

// Frames interpolates a linear camera move from start to end over count
// frames, start and end inclusive. A count below 2 yields just the start
// view.
func Frames(start, end view.View, count int) []view.View {
	if count < 2 {
		return []view.View{start}
	}

	frames := make([]view.View, count)
	for i := 0; i < count; i++ {
		t := float64(i) / float64(count-1)
		frames[i] = view.View{
			Center: start.Center.Add(end.Center.Sub(start.Center).Scale(t)),
			Zoom:   start.Zoom + (end.Zoom-start.Zoom)*t,
		}
	}
	return frames
}
