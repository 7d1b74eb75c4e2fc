package config

// cellSize reports the terminal cell size in device pixels. Tests replace it.
var cellSize = terminalCellSize

// defaultResolution is the surface pixel ratio for the current terminal: 2
// when a braille dot, half a cell wide and a quarter cell tall, spans at
// least two device pixels each way, otherwise 1.
func defaultResolution() float64 {
	w, h, ok := cellSize()
	if !ok {
		return 1
	}
	return pixelRatio(w, h)
}

func pixelRatio(cellW, cellH float64) float64 {
	if min(cellW/2, cellH/4) >= 2 {
		return 2
	}
	return 1
}
