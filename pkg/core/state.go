// Package core holds the connection state types shared across the daemon.
package core

import "fmt"

// ConnState is the lifecycle state of one console connection attempt.
type ConnState string

const (
	StateDisconnected ConnState = "disconnected"
	StateConnecting   ConnState = "connecting"
	StateStreaming    ConnState = "streaming"
	StateClosed       ConnState = "closed"
)

// ReconnectPolicy decides what happens after a connection reaches StateClosed.
type ReconnectPolicy string

const (
	ReconnectAlways ReconnectPolicy = "always"
	ReconnectNever  ReconnectPolicy = "never"
)

// ParseReconnectPolicy maps a config value to a policy. Empty means always.
func ParseReconnectPolicy(s string) (ReconnectPolicy, error) {
	switch ReconnectPolicy(s) {
	case "", ReconnectAlways:
		return ReconnectAlways, nil
	case ReconnectNever:
		return ReconnectNever, nil
	default:
		return "", fmt.Errorf("invalid reconnect policy %q: expected always or never", s)
	}
}
