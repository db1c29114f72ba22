package logstream

import "bytes"

// lineBuffer turns arbitrary stdout chunks into complete lines. The trailing
// partial line is held until more data arrives or Flush is called.
type lineBuffer struct {
	partial []byte
}

// Write appends chunk and returns every line it completes, without the
// terminating newline (or CRLF).
func (b *lineBuffer) Write(chunk []byte) []string {
	b.partial = append(b.partial, chunk...)

	var lines []string
	for {
		i := bytes.IndexByte(b.partial, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, string(bytes.TrimSuffix(b.partial[:i], []byte{'\r'})))
		b.partial = b.partial[i+1:]
	}
	// Release the consumed prefix.
	if len(b.partial) == 0 {
		b.partial = nil
	}
	return lines
}

// Flush returns the buffered partial line, if any, and empties the buffer.
func (b *lineBuffer) Flush() (string, bool) {
	if len(b.partial) == 0 {
		return "", false
	}
	line := string(bytes.TrimSuffix(b.partial, []byte{'\r'}))
	b.partial = nil
	return line, true
}
