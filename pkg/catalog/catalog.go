// Package catalog maps algorithm ids to the layout and configuration used
// to render them. The built-in catalog covers every algorithm the bundled
// trace generators emit; deployments extend or override it with YAML files.
package catalog

import (
	_ "embed"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stepmotion/pkg/errors"
)

// Algorithm describes one renderable algorithm: the layout that draws its
// steps and the configuration that layout expects.
type Algorithm struct {
	ID     string         `yaml:"id" json:"id"`
	Title  string         `yaml:"title" json:"title"`
	Family string         `yaml:"family,omitempty" json:"family,omitempty"`
	Layout string         `yaml:"layout" json:"layout"`
	Config map[string]any `yaml:"config,omitempty" json:"config,omitempty"`
	Tags   []string       `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Catalog is an id-keyed collection of algorithm entries.
type Catalog struct {
	algorithms map[string]Algorithm
}

// New builds a catalog from the given entries. Later entries with the same
// id override earlier ones.
func New(algs ...Algorithm) *Catalog {
	c := &Catalog{algorithms: make(map[string]Algorithm, len(algs))}
	for _, alg := range algs {
		c.algorithms[alg.ID] = alg
	}
	return c
}

// Get returns the entry for id.
func (c *Catalog) Get(id string) (Algorithm, error) {
	alg, ok := c.algorithms[id]
	if !ok {
		return Algorithm{}, errors.New(errors.ErrCodeCatalogNotFound, "algorithm %q not in catalog", id)
	}
	return alg, nil
}

// List returns all entries sorted by id.
func (c *Catalog) List() []Algorithm {
	algs := make([]Algorithm, 0, len(c.algorithms))
	for _, alg := range c.algorithms {
		algs = append(algs, alg)
	}
	sort.Slice(algs, func(i, j int) bool { return algs[i].ID < algs[j].ID })
	return algs
}

// Layouts returns the distinct layout names referenced by the catalog,
// sorted.
func (c *Catalog) Layouts() []string {
	seen := make(map[string]bool)
	for _, alg := range c.algorithms {
		seen[alg.Layout] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.algorithms)
}

// Merge copies every entry of other into c, overriding ids already present.
func (c *Catalog) Merge(other *Catalog) {
	for id, alg := range other.algorithms {
		c.algorithms[id] = alg
	}
}

type catalogFile struct {
	Algorithms []Algorithm `yaml:"algorithms"`
}

// Load reads a catalog YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read catalog %s", path)
	}
	return parse(data, path)
}

// LoadDir loads every *.yaml and *.yml file in dir, merged in filename
// order so later files override earlier ones.
func LoadDir(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read catalog dir %s", dir)
	}
	merged := New()
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext != ".yaml" && ext != ".yml" {
			continue
		}
		c, err := Load(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		merged.Merge(c)
	}
	return merged, nil
}

func parse(data []byte, origin string) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse catalog %s", origin)
	}
	c := New()
	for i, alg := range file.Algorithms {
		if alg.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "catalog %s: entry %d missing id", origin, i)
		}
		if alg.Layout == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "catalog %s: algorithm %q missing layout", origin, alg.ID)
		}
		c.algorithms[alg.ID] = alg
	}
	return c, nil
}

//go:embed default.yaml
var defaultYAML []byte

// Default returns a fresh catalog with every built-in algorithm installed.
func Default() *Catalog {
	c, err := parse(defaultYAML, "embedded catalog")
	if err != nil {
		panic(err)
	}
	return c
}
