// Package info holds the identity constants shared by the CLI and the
// HTTP introspection server.
package info

const (
	AppName = "scopeprof"
	Version = "0.1.0"

	// DefaultSnapshotEnv names an environment variable for a default
	// snapshot path. No scopeprofctl command reads it: every command takes
	// the snapshot path as a required argument.
	DefaultSnapshotEnv = "SCOPEPROF_SNAPSHOT"
	// DefaultListenAddr is the address scopeprofctl serve binds by default.
	DefaultListenAddr = "127.0.0.1:9090"
)
