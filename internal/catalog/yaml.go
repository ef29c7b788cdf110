package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/log-sentinel/backend/internal/models"
)

// catalogFile is the YAML shape of an operator-supplied catalog. Signature
// order in the file is the classification priority.
type catalogFile struct {
	Signatures []models.AttackSignature `yaml:"signatures"`
}

// LoadFromYAML reads a signature catalog from a YAML file.
func LoadFromYAML(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParseFromReader(file)
}

// ParseFromReader parses a YAML signature catalog from an io.Reader and
// validates it.
func ParseFromReader(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog YAML: %w", err)
	}
	if len(f.Signatures) == 0 {
		return nil, fmt.Errorf("catalog contains no signatures")
	}

	return New(f.Signatures)
}
