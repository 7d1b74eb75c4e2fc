//go:build !unix

package config

func terminalCellSize() (w, h float64, ok bool) { return 0, 0, false }
