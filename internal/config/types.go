// Package config is the static process configuration every binary in
// this repository loads at startup: which node it runs as, how it
// classifies that node's runtime backend, where the KV store and DDS
// domain live, and what address its HTTP server (the artifact gateway
// and /metrics) listens on.
package config

import "piccolo/internal/artifact"

// Config is the top-level configuration structure.
type Config struct {
	Node    NodeConfig    `yaml:"node"`
	Store   StoreConfig   `yaml:"store"`
	Signal  SignalConfig  `yaml:"signal"`
	Server  ServerConfig  `yaml:"server"`
	Backend BackendConfig `yaml:"backend"`
}

// NodeConfig identifies this process's own node.
type NodeConfig struct {
	Name string            `yaml:"name,omitempty"`
	IP   string            `yaml:"ip,omitempty"`
	Role artifact.NodeRole `yaml:"role,omitempty"`
}

// StoreConfig selects and configures the KV store adapter.
type StoreConfig struct {
	// Kind is "memory" or "fs".
	Kind string `yaml:"kind,omitempty"`
	// Path is the FS adapter's root directory; unused for memory.
	Path string `yaml:"path,omitempty"`
}

// SignalConfig configures the DDS-domain signal intake.
type SignalConfig struct {
	DomainID int `yaml:"domainId,omitempty"`
}

// ServerConfig is the listen address of the HTTP server that carries the
// artifact gateway and /metrics.
type ServerConfig struct {
	ListenAddress string `yaml:"listenAddress,omitempty"`
}

// BackendConfig is step 3 of §4.6's node->backend resolution: the
// static fallback consulted when the store has no record for a node or
// records a role that is neither bluechi- nor nodeagent-like.
type BackendConfig struct {
	FallbackRole artifact.NodeRole `yaml:"fallbackRole,omitempty"`
	NodeAgentURL string            `yaml:"nodeAgentUrl,omitempty"`
}
