package app

import (
	"testing"

	"piccolo/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeServices_WiresEveryCollaborator(t *testing.T) {
	cfg := config.Default()
	cfg.Server.ListenAddress = "127.0.0.1:0"

	services, err := InitializeServices(cfg)
	require.NoError(t, err)

	assert.NotNil(t, services.Repo)
	assert.NotNil(t, services.Machine)
	assert.NotNil(t, services.Filter)
	assert.NotNil(t, services.Controller)
	assert.NotNil(t, services.Supervisor)
	assert.NotNil(t, services.RPCServer)
	assert.NotNil(t, services.HTTPServer)
}

func TestInitializeServices_RejectsUnknownStoreKind(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Kind = "bogus"

	_, err := InitializeServices(cfg)
	assert.Error(t, err)
}

func TestServices_OnStoreFileChangedIgnoresNonScenarioKeys(t *testing.T) {
	cfg := config.Default()
	services, err := InitializeServices(cfg)
	require.NoError(t, err)

	// Non-Scenario keys and malformed prefixes are no-ops: this must not
	// panic even though no scenario named "hello" exists in the store.
	services.onStoreFileChanged("Package/hello")
	services.onStoreFileChanged("Scenario")

	// A Scenario key for a name the store has no record of logs and
	// returns rather than panicking.
	services.onStoreFileChanged("Scenario/does-not-exist")
}
