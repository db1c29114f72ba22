package server

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeStdio_Initialize(t *testing.T) {
	ts := newTestServer(t)
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ts.srv.ServeStdio(ctx, inR, outW) }()

	_, err := fmt.Fprintln(inW, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","clientInfo":{"name":"t","version":"1"},"capabilities":{}}}`)
	require.NoError(t, err)

	lines := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(outR).ReadString('\n')
		lines <- line
	}()

	select {
	case line := <-lines:
		assert.Contains(t, line, `"name":"cloud-cli-mcp"`)
		assert.Contains(t, line, `"id":1`)
	case <-time.After(3 * time.Second):
		t.Fatal("no initialize response on stdout")
	}

	cancel()
	inW.Close()
	outR.Close()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("stdio server did not stop")
	}
}
