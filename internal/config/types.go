// Package config resolves, parses, validates, and defaults xbmcvc configuration.
package config

// Config is the fully materialized runtime configuration used by xbmcvc.
type Config struct {
	RPC           RPCConfig
	XBMC          XBMCConfig
	Locking       LockingConfig
	Notifications NotificationsConfig
	Dispatch      DispatchConfig
	Spelling      SpellingConfig
	Audio         AudioConfig
	Recognizer    CommandConfig
	Grammar       CommandConfig
	Discovery     DiscoveryConfig
	Health        HealthConfig
	Log           LogConfig
}

// RPCConfig addresses the media center JSON-RPC endpoint.
type RPCConfig struct {
	Host      string
	Port      int
	WSPort    int
	Path      string
	Transport string
	TimeoutMS int
}

// XBMCConfig pins the application version. Zero means probe at startup.
type XBMCConfig struct {
	Version int
}

// LockingConfig controls the voice-activated lock.
type LockingConfig struct {
	Enable     bool
	UnlockWord string
	LockWord   string
}

type NotificationsConfig struct {
	Enable bool
}

// DispatchConfig bounds and paces the per-utterance action queue.
type DispatchConfig struct {
	MaxActions    int
	RepeatDelayMS int
}

type SpellingConfig struct {
	MaxLength int
}

// AudioConfig controls preferred and fallback capture-device selection.
type AudioConfig struct {
	Input    string
	Fallback string
}

// CommandConfig stores a raw command string and its parsed argv form.
type CommandConfig struct {
	Raw  string
	Argv []string
}

// DiscoveryConfig controls zeroconf lookup when rpc.host is "auto".
type DiscoveryConfig struct {
	Service   string
	Domain    string
	TimeoutMS int
}

// HealthConfig enables the gRPC health endpoint when GRPCAddr is set.
type HealthConfig struct {
	GRPCAddr string
}

type LogConfig struct {
	Level string
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}

// AutoHost asks for zeroconf discovery of the JSON-RPC endpoint.
const AutoHost = "auto"
