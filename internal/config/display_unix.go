//go:build unix

package config

import (
	"os"

	"golang.org/x/sys/unix"
)

// terminalCellSize divides the window pixel size reported by TIOCGWINSZ by
// its cell count. Terminals that leave the pixel fields zero report nothing.
func terminalCellSize() (w, h float64, ok bool) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 || ws.Xpixel == 0 || ws.Ypixel == 0 {
		return 0, 0, false
	}
	return float64(ws.Xpixel) / float64(ws.Col), float64(ws.Ypixel) / float64(ws.Row), true
}
