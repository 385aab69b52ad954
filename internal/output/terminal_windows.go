//go:build windows

package output

import (
	"os"

	"github.com/mattn/go-isatty"
)

// checkIsTerminal treats Cygwin and MSYS pipes as terminals too.
func checkIsTerminal(f *os.File) bool {
	return isatty.IsCygwinTerminal(f.Fd()) || isatty.IsTerminal(f.Fd())
}
