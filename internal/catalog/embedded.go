package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"finitefield.org/heritage-web/internal/domain"
)

//go:embed data/catalog.yaml
var seedCatalog []byte

type catalogDocument struct {
	Regions []domain.Region       `yaml:"regions"`
	Items   []domain.HeritageItem `yaml:"items"`
}

// LoadEmbedded builds a repository from the catalog compiled into the binary.
func LoadEmbedded() (*StaticRepository, error) {
	return Decode(bytes.NewReader(seedCatalog))
}

// Decode reads a YAML catalog document with top-level "regions" and "items" lists.
func Decode(r io.Reader) (*StaticRepository, error) {
	items, regions, err := ReadDocument(r)
	if err != nil {
		return nil, err
	}
	return NewStaticRepository(items, regions)
}

// EmbeddedDocument returns the raw records of the compiled-in catalog without validating them.
func EmbeddedDocument() ([]domain.HeritageItem, []domain.Region, error) {
	return ReadDocument(bytes.NewReader(seedCatalog))
}

// ReadDocument decodes a YAML catalog document. Unknown fields are rejected; identifiers are
// not checked, so callers can run Check over records a repository would refuse.
func ReadDocument(r io.Reader) ([]domain.HeritageItem, []domain.Region, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc catalogDocument
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil, ErrEmptyCatalog
		}
		return nil, nil, fmt.Errorf("catalog: decode yaml: %w", err)
	}
	if len(doc.Items) == 0 {
		return nil, nil, ErrEmptyCatalog
	}
	return doc.Items, doc.Regions, nil
}
