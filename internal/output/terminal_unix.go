//go:build !windows

package output

import (
	"os"

	"github.com/mattn/go-isatty"
)

// checkIsTerminal reports whether f is a tty. Cygwin ptys only exist on
// Windows, so there is nothing else to look for here.
func checkIsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd())
}
