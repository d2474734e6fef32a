package stimulus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Header is the comment line that opens every stimulus file.
const Header = "# neuron_id timestamp_us"

// Write serializes events as a two-column text table.
func Write(w io.Writer, events []Event) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, Header); err != nil {
		return err
	}

	for _, e := range events {
		if _, err := fmt.Fprintf(bw, "%d %d\n", e.Neuron, e.Time); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteFile creates or truncates path and writes events to it. It returns
// the number of bytes written.
func WriteFile(path string, events []Event) (n int64, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	cw := &countingWriter{w: f}
	if err = Write(cw, events); err != nil {
		return cw.n, fmt.Errorf("writing %s: %w", path, err)
	}

	return cw.n, nil
}

// Parse reads a stimulus table the way the spike source does: blank lines
// and lines starting with '#' are skipped, every other line must hold a
// neuron id and a timestamp.
func Parse(r io.Reader) ([]Event, error) {
	var events []Event

	sc := bufio.NewScanner(r)
	line := 0

	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())

		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected 2 fields, got %d",
				line, len(fields))
		}

		neuron, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: neuron id: %w", line, err)
		}

		ts, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: timestamp: %w", line, err)
		}

		events = append(events, Event{Neuron: neuron, Time: ts})
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// ReadFile parses the stimulus table at path.
func ReadFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)

	return n, err
}
