package artifact

import "context"

// Resolver answers "does this already exist in the store" questions for
// references validate_bundle cannot settle from the bundle alone — e.g. a
// Package referencing a Model that was applied in an earlier bundle.
type Resolver interface {
	ModelExists(ctx context.Context, name string) (bool, error)
	NodeExists(ctx context.Context, name string) (bool, error)
}

// ValidateBundle enforces the §4.2 cross-artifact integrity rules. It never
// writes to the store and is safe to call repeatedly on the same bundle
// (idempotent, no side effects).
//
// Fails with MissingScenario or MissingPackage if either is absent from the
// bundle, and with DanglingReference if a Package's models[].name is not
// present among the bundle's Models and does not already exist in the
// store, or references a node the store does not know.
func ValidateBundle(ctx context.Context, b Bundle, resolver Resolver) error {
	if b.Scenario == nil {
		return newErr(ErrMissingScenario, "bundle has no Scenario document")
	}
	if b.Package == nil {
		return newErr(ErrMissingPackage, "bundle has no Package document")
	}

	if b.Scenario.Target != b.Package.Name {
		return newErr(ErrDanglingReference, "scenario %q targets package %q, not present in bundle", b.Scenario.Name, b.Scenario.Target)
	}

	bundledModels := make(map[string]bool, len(b.Models))
	for _, m := range b.Models {
		bundledModels[m.Name] = true
	}

	for _, ref := range b.Package.Models {
		if bundledModels[ref.Name] {
			continue
		}
		exists, err := resolver.ModelExists(ctx, ref.Name)
		if err != nil {
			return err
		}
		if !exists {
			return newErr(ErrDanglingReference, "package %q references model %q, not in bundle or store", b.Package.Name, ref.Name)
		}
	}

	for _, ref := range b.Package.Models {
		if ref.Node == "" {
			continue
		}
		known, err := resolver.NodeExists(ctx, ref.Node)
		if err != nil {
			return err
		}
		if !known {
			return newErr(ErrDanglingReference, "package %q references unknown node %q", b.Package.Name, ref.Node)
		}
	}

	return nil
}
