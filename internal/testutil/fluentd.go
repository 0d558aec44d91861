// Package testutil provides test doubles shared by package tests.
package testutil

import (
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"
)

// Record is one forward-protocol message received by a FakeCollector.
type Record struct {
	Tag  string
	Body json.RawMessage
}

// Statvfs decodes the "statvfs" object of the record body.
// Non-finite percentages arrive as JSON null and decode to nil.
func (r Record) Statvfs() (map[string]interface{}, error) {
	var env map[string]map[string]interface{}
	if err := json.Unmarshal(r.Body, &env); err != nil {
		return nil, err
	}
	stats, ok := env["statvfs"]
	if !ok {
		return nil, errors.New("record has no statvfs key")
	}
	return stats, nil
}

// FakeCollector accepts JSON forward messages on a loopback TCP port.
type FakeCollector struct {
	ln      net.Listener
	records chan Record
}

// NewFakeCollector starts a collector that is shut down when the test ends.
func NewFakeCollector(t *testing.T) *FakeCollector {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	c := &FakeCollector{
		ln:      ln,
		records: make(chan Record, 64),
	}
	go c.serve()
	t.Cleanup(func() { ln.Close() })
	return c
}

// Addr returns the host:port the collector listens on.
func (c *FakeCollector) Addr() string { return c.ln.Addr().String() }

// Next waits up to timeout for the next record.
func (c *FakeCollector) Next(timeout time.Duration) (Record, bool) {
	select {
	case r := <-c.records:
		return r, true
	case <-time.After(timeout):
		return Record{}, false
	}
}

// Count returns the number of received records not yet consumed by Next.
func (c *FakeCollector) Count() int { return len(c.records) }

func (c *FakeCollector) serve() {
	for {
		conn, err := c.ln.Accept()
		if err != nil {
			return
		}
		go c.handle(conn)
	}
}

func (c *FakeCollector) handle(conn net.Conn) {
	defer conn.Close()
	dec := json.NewDecoder(conn)
	for {
		var msg []json.RawMessage
		if err := dec.Decode(&msg); err != nil {
			return
		}
		if len(msg) < 3 {
			continue
		}
		var tag string
		if err := json.Unmarshal(msg[0], &tag); err != nil {
			continue
		}
		c.records <- Record{Tag: tag, Body: msg[2]}
	}
}

// ClosedAddr returns a loopback address with nothing listening on it.
func ClosedAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr
}
