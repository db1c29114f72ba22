// Package logstream follows a job's logs through the cloud CLI and forwards
// them line by line to a consumer.
package logstream

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"

	"cloud-cli-mcp/pkg/logging"
)

const readChunkSize = 4096

// Message is one frame sent to the consumer.
type Message struct {
	JobID      string `json:"jobId"`
	LineNumber int    `json:"lineNumber,omitempty"`
	Text       string `json:"text,omitempty"`
	Error      bool   `json:"error,omitempty"`
	Done       bool   `json:"done"`
	Code       *int   `json:"code,omitempty"`
}

// MarshalJSON always writes text on line frames, including blank lines, and
// leaves it out of the final done frame.
func (m Message) MarshalJSON() ([]byte, error) {
	type frame struct {
		JobID      string  `json:"jobId"`
		LineNumber int     `json:"lineNumber,omitempty"`
		Text       *string `json:"text,omitempty"`
		Error      bool    `json:"error,omitempty"`
		Done       bool    `json:"done"`
		Code       *int    `json:"code,omitempty"`
	}
	f := frame{JobID: m.JobID, LineNumber: m.LineNumber, Error: m.Error, Done: m.Done, Code: m.Code}
	if !m.Done || m.Text != "" {
		f.Text = &m.Text
	}
	return json.Marshal(f)
}

// Sink consumes stream messages. Send is never called concurrently and Close
// is called exactly once, after the final message.
type Sink interface {
	Send(Message) error
	Close() error
}

// CommandFactory prepares CLI processes. *executor.Executor implements it.
type CommandFactory interface {
	Command(args []string) *exec.Cmd
}

// Streamer starts follow-logs processes.
type Streamer struct {
	commands CommandFactory
}

// New creates a Streamer.
func New(commands CommandFactory) *Streamer {
	return &Streamer{commands: commands}
}

// FollowArgs returns the CLI arguments that follow jobID's logs.
func FollowArgs(jobID string) []string {
	return []string{"job", "logs", "--job", jobID, "--follow"}
}

// Stream spawns the follow-logs command for jobID and forwards its output to
// sink until the process exits. The returned function kills the process; it
// is safe to call more than once and after the stream has ended.
func (s *Streamer) Stream(jobID string, sink Sink) (cancel func()) {
	st := &stream{jobID: jobID, sink: sink}

	cmd := s.commands.Command(FollowArgs(jobID))
	stdout, stderr, err := startWithPipes(cmd)
	if err != nil {
		logging.Warn("LogStream", "Failed to start log stream for job %s: %v", jobID, err)
		st.send(Message{JobID: jobID, Error: true, Text: err.Error(), Done: true})
		st.close()
		return func() {}
	}

	logging.Info("LogStream", "Following logs for job %s (pid %d)", jobID, cmd.Process.Pid)
	go st.run(cmd, stdout, stderr)

	var once sync.Once
	return func() {
		once.Do(func() {
			if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
				logging.Warn("LogStream", "Failed to stop log stream for job %s: %v", jobID, err)
			}
		})
	}
}

func startWithPipes(cmd *exec.Cmd) (stdout, stderr io.ReadCloser, err error) {
	if stdout, err = cmd.StdoutPipe(); err != nil {
		return nil, nil, err
	}
	if stderr, err = cmd.StderrPipe(); err != nil {
		return nil, nil, err
	}
	if err = cmd.Start(); err != nil {
		return nil, nil, err
	}
	return stdout, stderr, nil
}

type stream struct {
	jobID string
	sink  Sink

	mu     sync.Mutex
	broken bool
}

func (st *stream) run(cmd *exec.Cmd, stdout, stderr io.Reader) {
	var readers sync.WaitGroup
	readers.Add(2)
	go func() {
		defer readers.Done()
		st.pumpStdout(stdout)
	}()
	go func() {
		defer readers.Done()
		st.pumpStderr(stderr)
	}()
	readers.Wait()

	err := cmd.Wait()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		code := 0
		st.send(Message{JobID: st.jobID, Done: true, Code: &code})
	case errors.As(err, &exitErr):
		code := exitErr.ExitCode()
		st.send(Message{JobID: st.jobID, Done: true, Code: &code})
	default:
		st.send(Message{JobID: st.jobID, Error: true, Text: err.Error(), Done: true})
	}
	st.close()
	logging.Info("LogStream", "Log stream for job %s ended", st.jobID)
}

func (st *stream) pumpStdout(r io.Reader) {
	var (
		buf    lineBuffer
		lineNo int
		chunk  = make([]byte, readChunkSize)
	)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			for _, line := range buf.Write(chunk[:n]) {
				lineNo++
				st.send(Message{JobID: st.jobID, LineNumber: lineNo, Text: line})
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				logging.Debug("LogStream", "stdout read for job %s ended: %v", st.jobID, err)
			}
			break
		}
	}
	if line, ok := buf.Flush(); ok {
		lineNo++
		st.send(Message{JobID: st.jobID, LineNumber: lineNo, Text: line})
	}
}

func (st *stream) pumpStderr(r io.Reader) {
	chunk := make([]byte, readChunkSize)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			st.send(Message{JobID: st.jobID, Error: true, Text: string(chunk[:n])})
		}
		if err != nil {
			return
		}
	}
}

// send delivers m unless an earlier Send failed; a consumer that has gone
// away stops receiving but the pipes are still drained.
func (st *stream) send(m Message) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.broken {
		return
	}
	if err := st.sink.Send(m); err != nil {
		logging.Debug("LogStream", "Consumer for job %s stopped receiving: %v", st.jobID, err)
		st.broken = true
	}
}

func (st *stream) close() {
	st.mu.Lock()
	defer st.mu.Unlock()
	if err := st.sink.Close(); err != nil {
		logging.Debug("LogStream", "Closing consumer for job %s: %v", st.jobID, err)
	}
}
