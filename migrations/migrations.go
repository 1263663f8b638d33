// Package migrations embeds the schema files so tests and tooling can
// apply them without a filesystem path to the repository.
package migrations

import (
	"embed"
	"io/fs"
	"sort"
)

//go:embed *.sql
var FS embed.FS

// All returns every migration's SQL in filename order.
func All() ([]string, error) {
	entries, err := fs.Glob(FS, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(entries)
	out := make([]string, 0, len(entries))
	for _, name := range entries {
		data, err := FS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		out = append(out, string(data))
	}
	return out, nil
}
