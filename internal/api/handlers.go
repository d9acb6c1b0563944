package api

import (
	"context"
	"sync"

	"piccolo/pkg/logging"
)

// NetworkProvisioner is an optional collaborator the action controller
// calls when a Package's model references a network resource (§4.5.4.d).
// It is genuinely optional: a deployment with no network manager simply
// never registers one, and models without a network reference never
// trigger a lookup.
type NetworkProvisioner interface {
	ProvisionNetwork(ctx context.Context, networkName, nodeName string) error
}

var (
	networkProvisioner NetworkProvisioner
	handlerMu          sync.RWMutex
)

// RegisterNetworkProvisioner registers the process-wide NetworkProvisioner.
// Passing nil clears the registration.
func RegisterNetworkProvisioner(p NetworkProvisioner) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	logging.Debug("API", "registering network provisioner: %v", p != nil)
	networkProvisioner = p
}

// GetNetworkProvisioner returns the registered NetworkProvisioner, or nil
// if none has been registered.
func GetNetworkProvisioner() NetworkProvisioner {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return networkProvisioner
}
