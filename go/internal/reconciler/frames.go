package reconciler

import (
	"bufio"
	"io"
	"strings"

	"github.com/mcdev12/scoreboard/go/internal/events"
)

// Frame is one dispatched server-sent event
type Frame struct {
	Name events.Name
	Data []byte
}

// maxFrameSize bounds a single line of the stream; snapshots are small
const maxFrameSize = 1 << 20

// ReadFrames parses a text/event-stream and calls fn for every complete frame.
// Comment lines and fields other than event and data are skipped. Frames without
// a data field are not dispatched. It returns when r is exhausted or fn returns an error.
func ReadFrames(r io.Reader, fn func(Frame) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)

	var (
		name    string
		data    []string
		hasData bool
	)
	for scanner.Scan() {
		line := scanner.Text()

		if line == "" {
			if hasData {
				if name == "" {
					name = "message"
				}
				if err := fn(Frame{Name: events.Name(name), Data: []byte(strings.Join(data, "\n"))}); err != nil {
					return err
				}
			}
			name, data, hasData = "", nil, false
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			name = value
		case "data":
			data = append(data, value)
			hasData = true
		}
	}
	return scanner.Err()
}
