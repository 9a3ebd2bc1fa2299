package auth

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

type Action string

const (
	ActionView   Action = "view"
	ActionAdd    Action = "add"
	ActionChange Action = "change"
	ActionDelete Action = "delete"
)

var Actions = []Action{ActionView, ActionAdd, ActionChange, ActionDelete}

var ErrUnknownCapability = errors.New("unknown capability")

// Capability names one guarded operation on one entity of one module.
type Capability struct {
	Module string `json:"module" db:"module"`
	Action Action `json:"action" db:"action"`
	Entity string `json:"entity" db:"entity"`
}

func Cap(module string, action Action, entity string) Capability {
	return Capability{Module: module, Action: action, Entity: entity}
}

// String renders the capability for display and logs only.
func (c Capability) String() string {
	return fmt.Sprintf("%s.%s_%s", c.Module, c.Action, c.Entity)
}

// Policy is the table of every capability the application knows about.
// Checks against capabilities that were never registered fail loudly.
type Policy struct {
	mu    sync.RWMutex
	known map[Capability]struct{}
}

func NewPolicy() *Policy {
	return &Policy{known: make(map[Capability]struct{})}
}

// Register declares view/add/change/delete for module.entity.
func (p *Policy) Register(module, entity string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, a := range Actions {
		p.known[Cap(module, a, entity)] = struct{}{}
	}
}

func (p *Policy) Known(c Capability) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.known[c]
	return ok
}

// MustKnow panics on an unregistered capability; route setup calls it so a
// misspelt entity never reaches production.
func (p *Policy) MustKnow(c Capability) Capability {
	if !p.Known(c) {
		panic(fmt.Sprintf("auth: capability %s is not registered", c))
	}
	return c
}

func (p *Policy) Check(actor *Actor, c Capability) (bool, error) {
	if !p.Known(c) {
		return false, fmt.Errorf("%w: %s", ErrUnknownCapability, c)
	}
	if actor == nil || !actor.IsActive {
		return false, nil
	}
	if actor.IsSuperuser {
		return true, nil
	}
	return actor.Has(c), nil
}

// Capabilities lists the table, sorted for stable output.
func (p *Policy) Capabilities() []Capability {
	p.mu.RLock()
	defer p.mu.RUnlock()

	caps := make([]Capability, 0, len(p.known))
	for c := range p.known {
		caps = append(caps, c)
	}
	sort.Slice(caps, func(i, j int) bool { return caps[i].String() < caps[j].String() })
	return caps
}
