package domain

import (
	"fmt"
	"sort"
	"sync"

	m "codefmt.dev/pkg/codefmt/internal/model"
)

// Registry holds the rules of a run in a deterministic order.
type Registry interface {
	Register(rule Rule) error
	RulesFor(capability Capability, grammar m.Grammar) []Rule
	Rules() []Rule
	Disable(names ...string) error
}

type registeredRule struct {
	rule Rule
	info RuleInfo
	seq  int
}

type registry struct {
	mu    sync.RWMutex
	rules []registeredRule
	names map[string]struct{}
	seq   int
}

// NewRegistry creates an empty Registry.
func NewRegistry() Registry {
	return &registry{names: make(map[string]struct{})}
}

// BuildRegistry registers rules in order and disables the named ones.
func BuildRegistry(rules []Rule, disabled ...string) (Registry, error) {
	reg := NewRegistry()

	for _, r := range rules {
		if err := reg.Register(r); err != nil {
			return nil, err
		}
	}

	if err := reg.Disable(disabled...); err != nil {
		return nil, err
	}

	return reg, nil
}

func (r *registry) Register(rule Rule) error {
	if rule == nil {
		return &ConfigurationError{Reason: "nil rule"}
	}

	info := rule.Info()
	if info.Name == "" {
		return &ConfigurationError{Reason: "rule without a name"}
	}

	if err := checkCapability(rule, info); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.names[info.Name]; ok {
		return &ConfigurationError{Reason: fmt.Sprintf("duplicate rule name %q", info.Name)}
	}

	for _, existing := range r.rules {
		if existing.info.Capability != info.Capability || existing.info.Ordinal != info.Ordinal {
			continue
		}

		if !existing.info.Commutative || !info.Commutative {
			return &ConfigurationError{Reason: fmt.Sprintf(
				"rules %q and %q share %s ordinal %d but are not both commutative",
				existing.info.Name, info.Name, info.Capability, info.Ordinal)}
		}
	}

	r.names[info.Name] = struct{}{}
	r.rules = append(r.rules, registeredRule{rule: rule, info: info, seq: r.seq})
	r.seq++

	return nil
}

func checkCapability(rule Rule, info RuleInfo) error {
	var ok bool

	switch info.Capability {
	case Syntactic:
		_, ok = rule.(SyntaxRule)
	case LocalSemantic:
		_, ok = rule.(LocalSemanticRule)
	case GlobalSemantic:
		_, ok = rule.(GlobalSemanticRule)
	}

	if !ok {
		return &ConfigurationError{Reason: fmt.Sprintf("rule %q does not implement the %s contract", info.Name, info.Capability)}
	}

	return nil
}

func (r *registry) RulesFor(capability Capability, grammar m.Grammar) []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	selected := make([]registeredRule, 0, len(r.rules))

	for _, rr := range r.rules {
		if rr.info.Capability == capability && rr.info.Supports(grammar) {
			selected = append(selected, rr)
		}
	}

	return ordered(selected)
}

// Rules returns every rule, phase by phase, in execution order.
func (r *registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Rule, 0, len(r.rules))

	for _, c := range Capabilities {
		var selected []registeredRule

		for _, rr := range r.rules {
			if rr.info.Capability == c {
				selected = append(selected, rr)
			}
		}

		out = append(out, ordered(selected)...)
	}

	return out
}

func (r *registry) Disable(names ...string) error {
	if len(names) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	drop := make(map[string]struct{}, len(names))

	for _, n := range names {
		if _, ok := r.names[n]; !ok {
			return &ConfigurationError{Reason: fmt.Sprintf("unknown rule %q", n)}
		}

		drop[n] = struct{}{}
	}

	kept := r.rules[:0]

	for _, rr := range r.rules {
		if _, ok := drop[rr.info.Name]; ok {
			delete(r.names, rr.info.Name)
			continue
		}

		kept = append(kept, rr)
	}

	r.rules = kept

	return nil
}

// ordered sorts by ordinal, then registration order.
func ordered(rules []registeredRule) []Rule {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].info.Ordinal != rules[j].info.Ordinal {
			return rules[i].info.Ordinal < rules[j].info.Ordinal
		}

		return rules[i].seq < rules[j].seq
	})

	out := make([]Rule, len(rules))
	for i, rr := range rules {
		out[i] = rr.rule
	}

	return out
}
