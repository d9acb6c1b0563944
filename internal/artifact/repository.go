package artifact

import (
	"context"
	"encoding/json"

	"piccolo/internal/store"

	"gopkg.in/yaml.v3"
)

// Repository wraps a store.KV with artifact-shaped Get/Put/Delete/List
// operations, matching the key table: Scenario/Package/Model/Volume/Network
// are persisted as YAML, Node as JSON under cluster/nodes/{name} (mirrored
// at nodes/{ip}).
type Repository struct {
	kv store.KV
}

// NewRepository wraps kv as an artifact Repository.
func NewRepository(kv store.KV) *Repository { return &Repository{kv: kv} }

// PutBundle writes every document in b to the store, keyed by (kind, name).
// Callers should validate the bundle before calling PutBundle; PutBundle
// itself performs no cross-reference checks.
func (r *Repository) PutBundle(ctx context.Context, b Bundle) error {
	if b.Scenario != nil {
		if err := r.putYAML(ctx, store.ScenarioKey(b.Scenario.Name), b.Scenario); err != nil {
			return err
		}
	}
	if b.Package != nil {
		if err := r.putYAML(ctx, store.PackageKey(b.Package.Name), b.Package); err != nil {
			return err
		}
	}
	for i := range b.Models {
		m := &b.Models[i]
		if err := r.putYAML(ctx, store.ModelKey(m.Name), m); err != nil {
			return err
		}
	}
	for i := range b.Volumes {
		v := &b.Volumes[i]
		if err := r.putYAML(ctx, store.VolumeKey(v.Name), v); err != nil {
			return err
		}
	}
	for i := range b.Networks {
		n := &b.Networks[i]
		if err := r.putYAML(ctx, store.NetworkKey(n.Name), n); err != nil {
			return err
		}
	}
	return nil
}

// WithdrawScenario removes a Scenario document, leaving the
// Package/Model/Volume/Network documents it referenced intact — those may
// be shared by other Scenarios. Its recorded state and history keys are
// not removed.
func (r *Repository) WithdrawScenario(ctx context.Context, name string) error {
	return r.kv.Delete(ctx, store.ScenarioKey(name))
}

func (r *Repository) GetScenario(ctx context.Context, name string) (*Scenario, error) {
	var s Scenario
	if err := r.getYAML(ctx, store.ScenarioKey(name), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) GetPackage(ctx context.Context, name string) (*Package, error) {
	var p Package
	if err := r.getYAML(ctx, store.PackageKey(name), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) GetModel(ctx context.Context, name string) (*Model, error) {
	var m Model
	if err := r.getYAML(ctx, store.ModelKey(name), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) GetNode(ctx context.Context, name string) (*Node, error) {
	data, err := r.kv.Get(ctx, store.NodeKey(name))
	if err != nil {
		return nil, mapStoreErr(err)
	}
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, newErr(ErrInvalidArgument, "corrupt node record %q: %v", name, err)
	}
	return &n, nil
}

// PutNode registers or updates a Node, mirroring it under its IP shortcut.
func (r *Repository) PutNode(ctx context.Context, n Node) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	if err := r.kv.Put(ctx, store.NodeKey(n.Name), data); err != nil {
		return err
	}
	if n.IP != "" {
		if err := r.kv.Put(ctx, store.NodeIPKey(n.IP), data); err != nil {
			return err
		}
	}
	return nil
}

// ListScenarios returns every Scenario currently in the store, in creation
// order — used by the cold-start activation pipeline (§4.7).
func (r *Repository) ListScenarios(ctx context.Context) ([]Scenario, error) {
	entries, err := r.kv.ListPrefix(ctx, store.PrefixScenario)
	if err != nil {
		return nil, err
	}
	scenarios := make([]Scenario, 0, len(entries))
	for _, e := range entries {
		var s Scenario
		if err := yaml.Unmarshal(e.Value, &s); err != nil {
			return nil, newErr(ErrInvalidArgument, "corrupt scenario record %q: %v", e.Key, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// ListNodes returns every Node registered under cluster/nodes/, for the
// `nodes` CLI command.
func (r *Repository) ListNodes(ctx context.Context) ([]Node, error) {
	entries, err := r.kv.ListPrefix(ctx, store.PrefixClusterNodes)
	if err != nil {
		return nil, err
	}
	nodes := make([]Node, 0, len(entries))
	for _, e := range entries {
		var n Node
		if err := json.Unmarshal(e.Value, &n); err != nil {
			return nil, newErr(ErrInvalidArgument, "corrupt node record %q: %v", e.Key, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (r *Repository) putYAML(ctx context.Context, key string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return r.kv.Put(ctx, key, data)
}

func (r *Repository) getYAML(ctx context.Context, key string, out any) error {
	data, err := r.kv.Get(ctx, key)
	if err != nil {
		return mapStoreErr(err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return newErr(ErrInvalidArgument, "corrupt record %q: %v", key, err)
	}
	return nil
}

func mapStoreErr(err error) error {
	if store.IsNotFound(err) {
		return newErr(ErrNotFound, "%v", err)
	}
	if store.IsInvalidArgument(err) {
		return newErr(ErrInvalidArgument, "%v", err)
	}
	return err
}

// storeResolver implements Resolver against a Repository, the production
// wiring used once a bundle's in-memory cross-references are exhausted.
type storeResolver struct {
	repo *Repository
}

// NewStoreResolver returns a Resolver backed by repo, for use with
// ValidateBundle.
func NewStoreResolver(repo *Repository) Resolver { return &storeResolver{repo: repo} }

func (s *storeResolver) ModelExists(ctx context.Context, name string) (bool, error) {
	_, err := s.repo.GetModel(ctx, name)
	if err == nil {
		return true, nil
	}
	if IsNotFound(err) {
		return false, nil
	}
	return false, err
}

func (s *storeResolver) NodeExists(ctx context.Context, name string) (bool, error) {
	_, err := s.repo.GetNode(ctx, name)
	if err == nil {
		return true, nil
	}
	if IsNotFound(err) {
		return false, nil
	}
	return false, err
}
