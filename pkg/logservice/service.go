// Package logservice serves the read operation over the retained console lines.
package logservice

import "strings"

// Snapshotter provides a point-in-time copy of retained lines.
type Snapshotter interface {
	Snapshot() []string
}

// Service is the read-only façade handed to the IPC transports.
type Service struct {
	lines Snapshotter
}

// New creates a service reading from lines.
func New(lines Snapshotter) *Service {
	return &Service{lines: lines}
}

// Read returns the retained lines joined with "\n", without a trailing
// delimiter. It never fails and returns "" when nothing was received yet.
func (s *Service) Read() string {
	return strings.Join(s.lines.Snapshot(), "\n")
}
