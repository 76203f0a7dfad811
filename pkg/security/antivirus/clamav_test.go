package antivirus

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClamd answers PING and INSTREAM; payloads containing "EICAR" are reported infected.
func fakeClamd(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveClamd(conn)
		}
	}()
	return ln.Addr().String()
}

func serveClamd(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	cmd, err := r.ReadString(0)
	if err != nil {
		return
	}
	switch cmd {
	case "zPING\x00":
		_, _ = conn.Write([]byte("PONG\x00"))
	case "zINSTREAM\x00":
		var payload bytes.Buffer
		size := make([]byte, 4)
		for {
			if _, err := io.ReadFull(r, size); err != nil {
				return
			}
			n := binary.BigEndian.Uint32(size)
			if n == 0 {
				break
			}
			if _, err := io.CopyN(&payload, r, int64(n)); err != nil {
				return
			}
		}
		if bytes.Contains(payload.Bytes(), []byte("EICAR")) {
			_, _ = conn.Write([]byte("stream: Eicar-Test-Signature FOUND\x00"))
			return
		}
		_, _ = conn.Write([]byte("stream: OK\x00"))
	}
}

func TestClamAVScanner(t *testing.T) {
	scanner := NewClamAVScanner(fakeClamd(t), 2*time.Second)
	ctx := context.Background()

	assert.True(t, scanner.Available(ctx))

	clean := scanner.Scan(ctx, "me.png", bytes.Repeat([]byte("a"), chunkSize+10))
	assert.NoError(t, clean.Error)
	assert.False(t, clean.Infected)

	dirty := scanner.Scan(ctx, "me.png", []byte("xxEICARxx"))
	assert.NoError(t, dirty.Error)
	assert.True(t, dirty.Infected)
	assert.Equal(t, "Eicar-Test-Signature", dirty.ThreatName)
}

func TestClamAVScannerUnreachableFailsClosed(t *testing.T) {
	scanner := NewClamAVScanner("127.0.0.1:1", 200*time.Millisecond)
	result := scanner.Scan(context.Background(), "me.png", []byte("data"))
	assert.True(t, result.Infected)
	assert.Error(t, result.Error)
	assert.False(t, scanner.Available(context.Background()))
}

func TestParseReply(t *testing.T) {
	assert.False(t, parseReply(ScanResult{}, "stream: OK").Infected)
	errored := parseReply(ScanResult{}, "INSTREAM size limit exceeded. ERROR")
	assert.True(t, errored.Infected)
	assert.Error(t, errored.Error)
}

func TestNewPicksScanner(t *testing.T) {
	assert.Equal(t, "noop", New("").Name())
	assert.Equal(t, "clamav", New("localhost:3310").Name())
	assert.False(t, NewNoOpScanner().Scan(context.Background(), "a", nil).Infected)
}
