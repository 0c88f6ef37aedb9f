// Package configs ships ready-to-use server configurations inside the binary.
package configs

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

// DefaultName is the embedded config used when no file is given.
const DefaultName = "default.yaml"

//go:embed *.yaml
var embedded embed.FS

// Names lists embedded config filenames in lexical order.
func Names() []string {
	entries, err := fs.Glob(embedded, "*.yaml")
	if err != nil {
		return nil
	}
	sort.Strings(entries)
	return entries
}

// Load returns the embedded config by filename.
func Load(name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("embedded config name is empty")
	}
	data, err := fs.ReadFile(embedded, name)
	if err != nil {
		return nil, fmt.Errorf("read embedded config %q: %w", name, err)
	}
	return data, nil
}
