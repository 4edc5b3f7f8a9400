package singleinstance

// Resident ownership plus a small loopback protocol that lets other
// processes ask the resident overlay for selections.

import (
	"context"
)

// Kind selects what a client wants from the resident.
type Kind string

const (
	// KindLast asks for the most recently completed selection.
	KindLast Kind = "LAST"
	// KindNext waits for the next completed selection.
	KindNext Kind = "NEXT"
)

// Server owns the TCP endpoint and answers selection requests.
type Server interface {
	// Start binds the first port of the configured range and accepts clients.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next returns the next accepted request, or ctx error.
	Next(ctx context.Context) (Conn, error)
	// Close releases ownership and stops accepting clients.
	Close() error
}

// Conn is one client connection waiting for an answer.
type Conn interface {
	Request() Request
	// RespondSuccess sends the selection text.
	RespondSuccess(text string) error
	// RespondError sends a human-readable failure.
	RespondError(msg string) error
	Close() error
}

// Request is a parsed client request.
type Request struct {
	Kind Kind
}

// Client finds a resident and forwards one request to it.
type Client interface {
	// Query scans the port range and sends kind to the first resident found.
	// If no resident answers, returns found=false, err=nil.
	Query(ctx context.Context, kind Kind) (found bool, text string, err error)
}

// NewServer returns TCP implementation.
func NewServer() Server { return newTcpServer() }

// NewClient returns TCP implementation.
func NewClient() Client { return newTcpClient() }
