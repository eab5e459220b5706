package closures

import (
	"fmt"

	"github.com/reusee/cellnet/cells"
	"github.com/reusee/cellnet/hashes"
)

// IdentityPolicy selects what makes two closure templates the same.
type IdentityPolicy int

const (
	// IdentityStructural compares formals and body only.
	IdentityStructural IdentityPolicy = iota
	// IdentityNamed additionally compares the name and defining environment.
	IdentityNamed
)

func ParseIdentityPolicy(s string) (IdentityPolicy, error) {
	switch s {
	case "", "structural":
		return IdentityStructural, nil
	case "named":
		return IdentityNamed, nil
	}
	return 0, fmt.Errorf("unknown closure identity policy: %q", s)
}

func (p IdentityPolicy) String() string {
	switch p {
	case IdentityStructural:
		return "structural"
	case IdentityNamed:
		return "named"
	}
	return fmt.Sprintf("IdentityPolicy(%d)", int(p))
}

// TemplateHash hashes t under the policy.
func (p IdentityPolicy) TemplateHash(store *hashes.Store, t *Template) hashes.Hash {
	h := hashes.Get(store, t)
	if p != IdentityNamed {
		return h
	}
	var envID uint64
	if t.Env != nil {
		envID = t.Env.ID
	}
	return hashes.Of([]any{h, t.Name, envID})
}

// Identity decides whether a redelivered application is the one already
// running: same body, same input cells, same output cells.
type Identity struct {
	Body    hashes.Hash
	Inputs  hashes.Hash
	Outputs hashes.Hash
}

func (p IdentityPolicy) Identify(store *hashes.Store, t *Template, inputs, outputs []*cells.Cell) Identity {
	return Identity{
		Body:    p.TemplateHash(store, t),
		Inputs:  CellsHash(inputs),
		Outputs: CellsHash(outputs),
	}
}

// CellsHash hashes a cell list by cell identity.
func CellsHash(cs []*cells.Cell) hashes.Hash {
	ids := make([]any, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	return hashes.Of(ids)
}
