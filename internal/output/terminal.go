package output

import (
	"io"
	"os"
)

// IsTerminal reports whether w is stdout or stderr attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if f != os.Stdout && f != os.Stderr {
		return false
	}
	return checkIsTerminal(f)
}

// colorsDisabled honours NO_COLOR.
func colorsDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}
