// Package analyzer classifies log records against the signature catalog and
// folds the results into analysis snapshots.
package analyzer

import (
	"strings"

	"github.com/log-sentinel/backend/internal/catalog"
	"github.com/log-sentinel/backend/internal/models"
)

// Classifier evaluates messages against a signature catalog. Categories are
// tried in catalog order and patterns in declared order; the first hit
// settles both category and severity and stops the search entirely.
type Classifier struct {
	catalog *catalog.Catalog
}

// NewClassifier creates a Classifier over the given catalog.
func NewClassifier(cat *catalog.Catalog) *Classifier {
	return &Classifier{catalog: cat}
}

// Classify returns the first matching category and its severity. A message
// matching no signature yields an empty category with low severity.
func (c *Classifier) Classify(message string) models.ClassificationResult {
	lower := strings.ToLower(message)
	for _, sig := range c.catalog.Signatures() {
		for _, pattern := range sig.Patterns {
			if strings.Contains(lower, strings.ToLower(pattern)) {
				return models.ClassificationResult{
					Category: sig.Category,
					Severity: sig.Severity,
				}
			}
		}
	}
	return models.ClassificationResult{Severity: models.SeverityLow}
}
