package command

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	accentColor  = color.New(color.FgCyan)
)

// success prints a green check line.
func success(w io.Writer, format string, a ...any) {
	successColor.Fprintf(w, "✓ "+format+"\n", a...)
}

// heading prints a highlighted title line.
func heading(w io.Writer, format string, a ...any) {
	accentColor.Fprintln(w, fmt.Sprintf(format, a...))
}
