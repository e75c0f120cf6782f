package bloomfield

import (
	"io"
	"log"
	"os"
)

var logger = log.New(os.Stderr, "[bloomfield] ", log.LstdFlags)

// SetLogOutput redirects the package log. Pass io.Discard to silence it.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

func logf(format string, args ...any) {
	logger.Printf(format, args...)
}
