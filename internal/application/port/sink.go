package port

import "time"

type Sink interface {
	// Live line: overwrite last line (no newline)
	WriteLive(line string) error
	// Snapshot line: append a timestamped historical line
	WriteSnapshot(ts time.Time, line string) error
	// Normal newline (for logs)
	NewLine() error
}
