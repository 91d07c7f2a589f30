package twofactor

// Policy answers whether a resource is protected by a second factor.
type Policy interface {
	IsRequired(resourceID string) bool
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(resourceID string) bool

func (f PolicyFunc) IsRequired(resourceID string) bool { return f(resourceID) }

// StaticPolicy requires 2FA everywhere when Global is set, otherwise only for
// the listed resources.
type StaticPolicy struct {
	Global    bool
	resources map[string]struct{}
}

// NewStaticPolicy builds a StaticPolicy. Empty resource ids are ignored.
func NewStaticPolicy(global bool, resources ...string) *StaticPolicy {
	p := &StaticPolicy{Global: global, resources: make(map[string]struct{}, len(resources))}
	for _, r := range resources {
		if r != "" {
			p.resources[r] = struct{}{}
		}
	}
	return p
}

func (p *StaticPolicy) IsRequired(resourceID string) bool {
	if p.Global {
		return true
	}
	_, ok := p.resources[resourceID]
	return ok
}
