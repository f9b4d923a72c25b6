package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AnyUserName/imgcdn-cli/internal/fieldmap"
	"github.com/AnyUserName/imgcdn-cli/internal/imagedata"
	"github.com/AnyUserName/imgcdn-cli/internal/upload"
	"gopkg.in/yaml.v3"
)

// Item is one source to resolve.
type Item struct {
	// Key names the result in the manifest.
	Key    string
	Source imagedata.Source
	// Query overrides the run-wide query when set.
	Query *imagedata.Query
	// Origin is the file the item was read from.
	Origin string
}

// sourceExtensions lists recognized source file extensions. JSON is read
// with the YAML decoder.
var sourceExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
}

// document is the mapping form of a source file. The list form is a bare
// sequence of source objects.
type document struct {
	Query   *imagedata.Query `yaml:"query"`
	Sources []yaml.Node      `yaml:"sources"`
}

// itemMeta holds the reserved keys of one source object.
type itemMeta struct {
	Key   string           `yaml:"key"`
	Query *imagedata.Query `yaml:"query"`
}

// ScanSources reads items from a source file, or from every source file
// under a directory. Raw objects are mapped to sources through m.
func ScanSources(path string, m *fieldmap.Mapping) ([]Item, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		items, err := loadFile(path, filepath.Base(path), m)
		if err != nil {
			return nil, err
		}
		return uniqueKeys(items), nil
	}

	var items []Item
	err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Skip hidden directories.
			if strings.HasPrefix(info.Name(), ".") && p != path {
				return filepath.SkipDir
			}
			return nil
		}
		if !sourceExtensions[strings.ToLower(filepath.Ext(p))] {
			return nil
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		found, err := loadFile(p, filepath.ToSlash(rel), m)
		if err != nil {
			return err
		}
		items = append(items, found...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uniqueKeys(items), nil
}

// LoadUploads reads upload results and turns them into items keyed by
// public id.
func LoadUploads(path, account string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	results, err := upload.ReadResults(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	items := make([]Item, 0, len(results))
	for _, r := range results {
		items = append(items, Item{
			Key:    r.PublicID,
			Source: r.Source(account),
			Origin: filepath.Base(path),
		})
	}
	return uniqueKeys(items), nil
}

func loadFile(path, origin string, m *fieldmap.Mapping) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse %s: %w", origin, err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	var (
		nodes []*yaml.Node
		query *imagedata.Query
	)
	switch doc := root.Content[0]; doc.Kind {
	case yaml.SequenceNode:
		nodes = doc.Content
	case yaml.MappingNode:
		var d document
		if err := doc.Decode(&d); err != nil {
			return nil, fmt.Errorf("parse %s: %w", origin, err)
		}
		query = d.Query
		for i := range d.Sources {
			nodes = append(nodes, &d.Sources[i])
		}
	default:
		return nil, fmt.Errorf("parse %s: expected a list or a mapping with sources", origin)
	}

	base := strings.TrimSuffix(origin, filepath.Ext(origin))
	items := make([]Item, 0, len(nodes))
	for i, n := range nodes {
		var raw map[string]any
		if err := n.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%s: source %d: %w", origin, i, err)
		}
		var meta itemMeta
		if err := n.Decode(&meta); err != nil {
			return nil, fmt.Errorf("%s: source %d: %w", origin, i, err)
		}

		item := Item{
			Key:    meta.Key,
			Source: imagedata.SourceFromMap(m, raw),
			Query:  query,
			Origin: origin,
		}
		if meta.Query != nil {
			item.Query = meta.Query
		}
		if item.Key == "" {
			item.Key = item.Source.Identity.PublicID
		}
		if item.Key == "" {
			item.Key = base + "#" + strconv.Itoa(i)
		}
		items = append(items, item)
	}
	return items, nil
}

// uniqueKeys suffixes repeated keys with "#n" in order of appearance,
// skipping suffixes already taken by another item.
func uniqueKeys(items []Item) []Item {
	taken := make(map[string]bool, len(items))
	for _, it := range items {
		taken[it.Key] = true
	}
	assigned := make(map[string]bool, len(items))
	next := make(map[string]int, len(items))
	for i := range items {
		k := items[i].Key
		if !assigned[k] {
			assigned[k] = true
			continue
		}
		n := max(next[k], 2)
		for taken[k+"#"+strconv.Itoa(n)] {
			n++
		}
		next[k] = n + 1
		key := k + "#" + strconv.Itoa(n)
		taken[key] = true
		assigned[key] = true
		items[i].Key = key
	}
	return items
}
