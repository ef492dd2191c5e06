// Package fixture loads a site description (post types and records) from
// YAML into a registry and an in-memory store.
package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hanpama/postgraph/internal/content"
	"github.com/hanpama/postgraph/internal/posttype"
	"gopkg.in/yaml.v3"
)

// Site is the decoded fixture document.
type Site struct {
	UploadsURL string `yaml:"uploads_url"`
	// SkipBuiltins leaves out the post types every site starts with.
	SkipBuiltins bool                `yaml:"skip_builtins"`
	PostTypes    []posttype.PostType `yaml:"post_types"`
	Records      []content.Record    `yaml:"records"`
}

// Load decodes a site from r. Unknown keys are rejected.
func Load(r io.Reader) (*Site, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Site
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode site: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile decodes the site stored at path.
func LoadFile(path string) (*Site, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Load(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s *Site) validate() error {
	for i, pt := range s.PostTypes {
		if pt.Name == "" {
			return fmt.Errorf("post_types[%d]: missing name", i)
		}
	}
	seen := make(map[int64]bool, len(s.Records))
	for i, r := range s.Records {
		if r.ID <= 0 {
			return fmt.Errorf("records[%d]: id must be positive", i)
		}
		if r.PostType == "" {
			return fmt.Errorf("records[%d]: missing post_type", i)
		}
		if seen[r.ID] {
			return fmt.Errorf("records[%d]: duplicate id %d", i, r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}

// Register adds the site's post types to reg, after the builtins unless
// SkipBuiltins is set. A post type named like a builtin replaces it.
func (s *Site) Register(reg *posttype.Registry) {
	if !s.SkipBuiltins {
		reg.RegisterBuiltins()
	}
	for _, pt := range s.PostTypes {
		reg.Register(pt)
	}
}

// NewStore returns a store holding the site's records.
func (s *Site) NewStore() *content.MemStore {
	store := content.NewMemStore(s.UploadsURL)
	for i := range s.Records {
		store.Put(&s.Records[i])
	}
	return store
}
