package console

import (
	"fmt"
	"time"

	"arbscan/internal/application/port"
)

// Sink writes the watch display to stdout. The live line is redrawn in
// place; snapshot lines scroll up as history.
type Sink struct{}

func NewSink() port.Sink { return &Sink{} }

func (s *Sink) WriteLive(line string) error {
	fmt.Print(line) // no newline, the renderer carries \r
	return nil
}

func (s *Sink) WriteSnapshot(ts time.Time, line string) error {
	fmt.Print("\n")
	fmt.Printf("%s %s\n", ts.Format("2006-01-02 15:04:05"), line)
	fmt.Print("\n")
	return nil
}

func (s *Sink) NewLine() error {
	fmt.Print("\n")
	return nil
}
