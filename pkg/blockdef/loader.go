package blockdef

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrParentCycle is returned when a parent chain loops back on itself.
var ErrParentCycle = errors.New("block parent cycle")

const maxParentDepth = 16

// Loader reads block definitions from a directory laid out as
//
//	<root>/catalog.yaml
//	<root>/blocks/<name>.yaml (or .json)
type Loader struct {
	root       string
	blockCache map[string]*Block
}

func NewLoader(root string) *Loader {
	return &Loader{
		root:       root,
		blockCache: make(map[string]*Block),
	}
}

// LoadManifest reads catalog.yaml (or catalog.json) from the root.
func (l *Loader) LoadManifest() (*Manifest, error) {
	var m Manifest
	if err := l.decodeFirst(&m, filepath.Join(l.root, "catalog")); err != nil {
		return nil, fmt.Errorf("could not load catalog manifest: %w", err)
	}
	if len(m.Blocks) == 0 {
		return nil, fmt.Errorf("catalog manifest in %s lists no blocks", l.root)
	}
	return &m, nil
}

// LoadBlock reads a block definition and resolves its parent chain.
func (l *Loader) LoadBlock(name string) (*Block, error) {
	return l.loadBlock(name, 0, map[string]bool{})
}

func (l *Loader) loadBlock(name string, depth int, seen map[string]bool) (*Block, error) {
	if b, ok := l.blockCache[name]; ok {
		return b, nil
	}
	if seen[name] || depth > maxParentDepth {
		return nil, fmt.Errorf("%w at '%s'", ErrParentCycle, name)
	}
	seen[name] = true

	var b Block
	if err := l.decodeFirst(&b, filepath.Join(l.root, "blocks", name)); err != nil {
		return nil, fmt.Errorf("could not load block '%s': %w", name, err)
	}
	if b.Name == "" {
		b.Name = name
	}

	if b.Parent != "" {
		parent, err := l.loadBlock(b.Parent, depth+1, seen)
		if err != nil {
			return nil, fmt.Errorf("could not load parent '%s' of '%s': %w", b.Parent, name, err)
		}
		b.inherit(parent)
	}

	l.blockCache[name] = &b
	return &b, nil
}

// LoadAll loads the manifest and every block it lists, in order.
func (l *Loader) LoadAll() (*Manifest, []*Block, error) {
	m, err := l.LoadManifest()
	if err != nil {
		return nil, nil, err
	}
	blocks := make([]*Block, 0, len(m.Blocks))
	for _, name := range m.Blocks {
		b, err := l.LoadBlock(name)
		if err != nil {
			return nil, nil, err
		}
		blocks = append(blocks, b)
	}
	return m, blocks, nil
}

// decodeFirst tries base+".yaml", base+".yml" and base+".json" in that order.
func (l *Loader) decodeFirst(out any, base string) error {
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		data, err := os.ReadFile(base + ext)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("could not read %s: %w", base+ext, err)
		}
		return decode(data, ext, out)
	}
	return fmt.Errorf("no definition file for %s: %w", filepath.Base(base), os.ErrNotExist)
}

func decode(data []byte, ext string, out any) error {
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("could not unmarshal json: %w", err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("could not unmarshal yaml: %w", err)
	}
	return nil
}
