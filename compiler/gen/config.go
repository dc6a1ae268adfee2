package gen

import "fmt"

// Target selects client or server generation semantics. It is fixed per
// generation run and controls whether unions render the
// forward-compatibility catch-all variant.
type Target string

const (
	// TargetClient renders the catch-all variant so deserialization can
	// accept members added by a newer server.
	TargetClient Target = "client"
	// TargetServer omits the catch-all variant: a server authoritatively
	// knows its own schema.
	TargetServer Target = "server"
)

// Validate reports whether the target is one of the known modes.
func (t Target) Validate() error {
	switch t {
	case TargetClient, TargetServer:
		return nil
	}
	return NewConfigError("Target", string(t), fmt.Sprintf("must be %q or %q", TargetClient, TargetServer))
}

// RenderUnknownVariant returns the default catch-all rendering policy for
// the target.
func (t Target) RenderUnknownVariant() bool {
	return t == TargetClient
}

// Config carries the externally visible settings of one generation run.
type Config struct {
	// Package is the Go package name of the generated code.
	Package string
	// Target is the client/server mode switch.
	Target Target
	// Header is the first comment line of every generated file.
	Header string
}

// DefaultHeader is used when Config.Header is empty.
const DefaultHeader = "Code generated by shapec. DO NOT EDIT."

// HeaderComment returns the configured header, or the default.
func (c Config) HeaderComment() string {
	if c.Header == "" {
		return DefaultHeader
	}
	return c.Header
}
