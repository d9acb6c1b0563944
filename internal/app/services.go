package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"piccolo/internal/action"
	"piccolo/internal/artifact"
	"piccolo/internal/backend"
	"piccolo/internal/config"
	"piccolo/internal/filter"
	"piccolo/internal/rpc"
	"piccolo/internal/rpc/httpgw"
	"piccolo/internal/runtime"
	"piccolo/internal/signal"
	"piccolo/internal/statemachine"
	"piccolo/internal/store"

	"piccolo/pkg/logging"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dbus "github.com/coreos/go-systemd/v22/dbus"
)

// Services holds every long-lived component the daemon wires together,
// following the muster orchestrator's "build once, hand off to Run"
// shape: construction and dependency injection happen here, lifecycle
// management happens in the Supervisor.
type Services struct {
	Repo       *artifact.Repository
	Machine    *statemachine.Machine
	Filter     *filter.Engine
	Controller *action.Controller
	Supervisor *runtime.Supervisor
	RPCServer  *rpc.Server
	HTTPServer *http.Server

	kv store.KV
}

// InitializeServices wires every built package into a running daemon per
// the static configuration cfg: the KV store adapter, the artifact
// repository on top of it, the state machine, the backend registry, the
// filter engine and action controller, and the HTTP gateway + RPC server
// bound to cfg.Server.ListenAddress.
func InitializeServices(cfg config.Config) (*Services, error) {
	kv, err := newStore(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}

	repo := artifact.NewRepository(kv)
	metricsRegistry := prometheus.NewRegistry()
	metrics := statemachine.NewMetrics(metricsRegistry)
	machine := statemachine.New(kv, metrics)

	registry := newBackendRegistry(cfg.Backend)

	newTransID := func() string { return uuid.NewString() }
	now := func() int64 { return time.Now().UnixNano() }

	controller := action.New(repo, machine, registry, newTransID, now, action.SettlingDelay)

	decoder := signal.NewTypeRegistry()
	filterEngine := filter.New(machine, controller, decoder, newTransID, now)

	sup := runtime.NewSupervisor(repo, filterEngine, machine, runtime.NoopSubscriber{})

	rpcServer := rpc.NewServer(controller, controller, machine, newTransID, now)

	resolver := artifact.NewStoreResolver(repo)
	gateway := httpgw.NewHandler(repo, resolver)

	mux := http.NewServeMux()
	mux.Handle("/artifacts", gateway)
	mux.Handle("/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))

	httpServer := &http.Server{
		Addr:    cfg.Server.ListenAddress,
		Handler: mux,
	}

	return &Services{
		Repo:       repo,
		Machine:    machine,
		Filter:     filterEngine,
		Controller: controller,
		Supervisor: sup,
		RPCServer:  rpcServer,
		HTTPServer: httpServer,
		kv:         kv,
	}, nil
}

// newStore selects the KV adapter §4.1 names: an in-process map for
// development and tests, or the fsnotify-backed filesystem adapter for a
// single-node deployment that wants its state to survive a restart.
func newStore(cfg config.StoreConfig) (store.KV, error) {
	switch cfg.Kind {
	case "", "memory":
		return store.NewMemory(), nil
	case "fs":
		return store.NewFS(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.Kind)
	}
}

// OpenStore is newStore exported for read-only CLI commands (nodes,
// scenarios, state) that inspect the same on-disk store a serve process
// uses, without standing up the full daemon — the store is the one
// piece of state shared across processes, since the RPC surface beyond
// the single HTTP gateway endpoint is out of scope.
func OpenStore(cfg config.StoreConfig) (store.KV, error) {
	return newStore(cfg)
}

// newBackendRegistry builds the §4.6 backend registry: a bluechi backend
// dialing the system D-Bus on every call, a node-agent backend speaking
// HTTP to cfg.NodeAgentURL, and the static fallback role for nodes the
// store has no record of or records with an unrecognised role.
func newBackendRegistry(cfg config.BackendConfig) *backend.Registry {
	bluechiBackend := backend.NewBluechiBackend(dbus.NewSystemConnectionContext)

	var nodeAgentBackend backend.Backend
	if cfg.NodeAgentURL != "" {
		nodeAgentBackend = backend.NewNodeAgentBackend(cfg.NodeAgentURL, http.DefaultClient)
	}

	var fallback backend.Backend
	switch cfg.FallbackRole {
	case artifact.RoleBluechi:
		fallback = bluechiBackend
	case artifact.RoleNodeAgent, artifact.RoleNodeAgentGuest:
		fallback = nodeAgentBackend
	}

	return backend.NewRegistry(bluechiBackend, nodeAgentBackend, cfg.FallbackRole, fallback)
}

// Start brings the daemon up: the Supervisor's cold start recovers every
// previously-allowed Scenario, then the HTTP gateway begins listening.
// The RPC server has no network transport of its own in this rewrite
// (§6 treats it as a plain Go contract); it is driven in-process by
// whatever binds the HTTP gateway's mux to additional routes, or by an
// embedder linking this package directly.
func (s *Services) Start(ctx context.Context) error {
	s.Supervisor.AddTask(runtime.NewFuncTask("http-gateway",
		func(context.Context) error {
			if err := s.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
		func(stopCtx context.Context) error {
			return s.HTTPServer.Shutdown(stopCtx)
		},
	))

	if watcher, ok := s.kv.(fsWatcher); ok {
		s.Supervisor.AddTask(runtime.NewFuncTask("fs-watch", func(watchCtx context.Context) error {
			return watcher.Watch(watchCtx, s.onStoreFileChanged)
		}, nil))
	}

	return s.Supervisor.Start(ctx)
}

// fsWatcher is the subset of *store.FS the fs-watch task needs; kept as
// an interface so the in-memory adapter's absence of Watch is simply
// "no watcher task", not a type error.
type fsWatcher interface {
	Watch(ctx context.Context, onChange func(key string)) error
}

// onStoreFileChanged re-activates the Scenario named by an externally
// edited Scenario/ file, recovering an operator's hand edit the same way
// cold start recovers a restart (§4.7).
func (s *Services) onStoreFileChanged(key string) {
	prefix := store.PrefixScenario
	if len(key) <= len(prefix) || key[:len(prefix)] != prefix {
		return
	}
	name := key[len(prefix):]

	if err := s.Supervisor.Allow(context.Background(), name); err != nil {
		logging.Warn("Supervisor", "fs-watch: re-activating scenario %s failed: %v", name, err)
	}
}

// Stop shuts every registered task down, waiting for all of them.
func (s *Services) Stop(ctx context.Context) error {
	return s.Supervisor.Stop(ctx)
}
