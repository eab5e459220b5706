package logs

import (
	"io"
	"os"
)

// Writer receives text records. Stdout is left to program output and print.
type Writer io.Writer

func (Module) Writer() Writer {
	return os.Stderr
}
