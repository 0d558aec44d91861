// Package sender forwards filesystem records to a Fluentd-compatible collector.
// Each record is JSON-encoded in the forward protocol and written over a fresh
// TCP connection with a single attempt and a bounded timeout.
package sender

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"go.uber.org/zap"

	"github.com/Guliveer/dup/internal/config"
	"github.com/Guliveer/dup/internal/models"
)

const (
	// maxAttempts is the number of write attempts per record. Missed records
	// are not retried; the next tick produces a fresh one.
	maxAttempts = 1

	// retryWaitMillis keeps the library from pausing after a failed attempt.
	retryWaitMillis = 1
)

// Sender posts records under a fixed tag to one collector address.
type Sender struct {
	address string
	tag     string
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a Sender from the collector settings. The address is not
// checked here; a malformed one fails every Send.
func New(cfg *config.Config, logger *zap.Logger) *Sender {
	return &Sender{
		address: cfg.Collector.Address,
		tag:     cfg.Collector.Tag,
		timeout: cfg.Collector.Timeout.Duration,
		logger:  logger,
	}
}

// splitAddress splits host:port into the form the fluent logger expects.
func splitAddress(address string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return "", 0, fmt.Errorf("collector address %q: %w", address, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, fmt.Errorf("collector address %q: invalid port %q", address, portStr)
	}
	return host, port, nil
}

// Tag returns the routing tag records are posted under.
func (s *Sender) Tag() string { return s.tag }

// Send transmits one envelope. It dials, writes and closes synchronously;
// no acknowledgment is requested.
func (s *Sender) Send(ctx context.Context, env models.Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	host, port, err := splitAddress(s.address)
	if err != nil {
		return err
	}

	logger, err := fluent.New(fluent.Config{
		FluentHost:    host,
		FluentPort:    port,
		FluentNetwork: "tcp",
		Timeout:       s.timeout,
		WriteTimeout:  s.timeout,
		MaxRetry:      maxAttempts,
		RetryWait:     retryWaitMillis,
		MarshalAsJSON: true,
	})
	if err != nil {
		return fmt.Errorf("connecting to collector %s: %w", s.address, err)
	}
	defer logger.Close()

	if err := logger.PostWithTime(s.tag, time.Now(), env); err != nil {
		return fmt.Errorf("posting to collector %s: %w", s.address, err)
	}

	s.logger.Debug("Record forwarded",
		zap.String("collector", s.address),
		zap.String("tag", s.tag))
	return nil
}
