//go:build !windows

package gui

func newPainter() (painter, error) { return nil, ErrUnsupported }
