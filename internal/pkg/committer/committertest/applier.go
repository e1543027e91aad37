// Package committertest provides an in-memory committer.Applier for use case tests.
package committertest

import (
	"context"
	"sync"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/procat-web/internal/pkg/committer"
)

// Applier records applied plans and runs the effect registered for each
// mutation, which lets in-memory repositories observe committed writes.
type Applier struct {
	mu      sync.Mutex
	effects map[*spanner.Mutation]func()
	plans   [][]*spanner.Mutation

	// FailWith, when set, is consulted before every Apply. A non-nil
	// result aborts the plan with no effects run.
	FailWith func(plan *committer.CommitPlan) error
}

// NewApplier returns an empty Applier.
func NewApplier() *Applier {
	return &Applier{effects: make(map[*spanner.Mutation]func())}
}

// Register attaches effect to mut and returns mut.
func (a *Applier) Register(mut *spanner.Mutation, effect func()) *spanner.Mutation {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.effects[mut] = effect
	return mut
}

// Apply implements committer.Applier.
func (a *Applier) Apply(_ context.Context, plan *committer.CommitPlan) error {
	a.mu.Lock()
	failWith := a.FailWith
	a.mu.Unlock()

	if failWith != nil {
		if err := failWith(plan); err != nil {
			return err
		}
	}
	if plan.IsEmpty() {
		return nil
	}

	a.mu.Lock()
	effects := make([]func(), 0, plan.Count())
	for _, mut := range plan.Mutations() {
		if effect, ok := a.effects[mut]; ok {
			effects = append(effects, effect)
			delete(a.effects, mut)
		}
	}
	a.plans = append(a.plans, plan.Mutations())
	a.mu.Unlock()

	for _, effect := range effects {
		effect()
	}
	return nil
}

// Plans returns every applied plan in order.
func (a *Applier) Plans() [][]*spanner.Mutation {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([][]*spanner.Mutation, len(a.plans))
	copy(out, a.plans)
	return out
}
