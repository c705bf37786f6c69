package httputil

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// maxEventLine bounds a single SSE line. Streaming chat chunks are small;
// anything larger indicates a broken stream.
const maxEventLine = 1 << 20

// ErrStopEvents may be returned by a ReadEvents callback to end the stream
// early without error.
var ErrStopEvents = errors.New("stop reading events")

// Event is one server-sent event.
type Event struct {
	Name string // "event:" field, empty for the default "message" type
	Data string // concatenated "data:" lines
}

// ReadEvents parses an event stream from r and calls fn for every complete
// event. Comment lines and unknown fields are ignored. It returns nil at EOF
// or when fn returns ErrStopEvents.
func ReadEvents(r io.Reader, fn func(Event) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxEventLine)

	var ev Event
	var data []string
	dispatch := func() error {
		if len(data) == 0 {
			ev = Event{}
			return nil
		}
		ev.Data = strings.Join(data, "\n")
		err := fn(ev)
		ev, data = Event{}, data[:0]
		return err
	}

	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			if err := dispatch(); err != nil {
				return stopped(err)
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			ev.Name = value
		case "data":
			data = append(data, value)
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return stopped(dispatch())
}

func stopped(err error) error {
	if errors.Is(err, ErrStopEvents) {
		return nil
	}
	return err
}

// Snippet reads at most n bytes from r and returns them trimmed.
func Snippet(r io.Reader, n int64) string {
	b, _ := io.ReadAll(io.LimitReader(r, n))
	return strings.TrimSpace(string(b))
}
