// Package catalog holds the security pattern catalog: the ordered registry
// of attack signatures the classifier matches log messages against.
package catalog

import (
	"fmt"

	"github.com/log-sentinel/backend/internal/models"
)

// Catalog is an ordered list of attack signatures. Declaration order is the
// classification priority: when a message matches rules from more than one
// category, the earliest category wins. Ordering is a first-class contract
// here, not an accident of map iteration.
type Catalog struct {
	signatures []models.AttackSignature
	byCategory map[string]*models.AttackSignature
}

// New builds a catalog from signatures in the given order and validates it.
func New(signatures []models.AttackSignature) (*Catalog, error) {
	c := &Catalog{
		signatures: signatures,
		byCategory: make(map[string]*models.AttackSignature, len(signatures)),
	}
	for i := range c.signatures {
		sig := &c.signatures[i]
		if sig.Category == "" {
			return nil, fmt.Errorf("signature %d: category is required", i)
		}
		if _, dup := c.byCategory[sig.Category]; dup {
			return nil, fmt.Errorf("duplicate category: %s", sig.Category)
		}
		if len(sig.Patterns) == 0 {
			return nil, fmt.Errorf("category %s: pattern list is empty", sig.Category)
		}
		if !sig.Severity.Valid() {
			return nil, fmt.Errorf("category %s: unknown severity %q", sig.Category, sig.Severity)
		}
		c.byCategory[sig.Category] = sig
	}
	return c, nil
}

// Signatures returns the signatures in declaration order.
func (c *Catalog) Signatures() []models.AttackSignature {
	return c.signatures
}

// Get returns the signature for a category, or nil.
func (c *Catalog) Get(category string) *models.AttackSignature {
	return c.byCategory[category]
}

// Len returns the number of signatures.
func (c *Catalog) Len() int {
	return len(c.signatures)
}
