package service

import "strings"

// AuthorizationPolicy decides whether an identity may perform privileged operations
type AuthorizationPolicy interface {
	Allows(identity string) bool
}

// OwnerPolicy allows a fixed set of owner identities
type OwnerPolicy struct {
	owners map[string]struct{}
}

// NewOwnerPolicy creates a policy from a list of identities. Blank entries are ignored.
func NewOwnerPolicy(owners []string) *OwnerPolicy {
	set := make(map[string]struct{}, len(owners))
	for _, owner := range owners {
		owner = strings.TrimSpace(owner)
		if owner != "" {
			set[owner] = struct{}{}
		}
	}
	return &OwnerPolicy{owners: set}
}

func (p *OwnerPolicy) Allows(identity string) bool {
	_, ok := p.owners[identity]
	return ok
}
