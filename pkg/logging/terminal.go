package logging

import (
	"sync"

	tsize "github.com/kopoli/go-terminal-size"
)

var (
	termSize     tsize.Size
	termSizeMu   sync.Mutex
	termSizeOnce sync.Once

	fallbackSize = tsize.Size{Width: 100, Height: 60}
)

// TermSize returns the size of the terminal attached to the process, or a fixed fallback when there is none. The first
// call starts listening for resizes.
func TermSize() tsize.Size {
	termSizeOnce.Do(watchTermSize)
	termSizeMu.Lock()
	defer termSizeMu.Unlock()
	return termSize
}

func watchTermSize() {
	size, err := tsize.GetSize()
	if err != nil || size.Width <= 0 {
		size = fallbackSize
	}
	termSizeMu.Lock()
	termSize = size
	termSizeMu.Unlock()

	l, err := tsize.NewSizeListener()
	if err != nil {
		return
	}
	go func() {
		for newSize := range l.Change {
			termSizeMu.Lock()
			termSize = newSize
			termSizeMu.Unlock()
		}
	}()
}
