package prefabs

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

var (
	//go:embed *.yaml
	PrefabsFS embed.FS

	//go:embed scripts/*.tengo
	ScriptsFS embed.FS
)

// Dir is the on-disk prefab directory. Files found there shadow the
// embedded copies.
var Dir = "prefabs"

// Load reads a prefab file, preferring Dir over the embedded set.
func Load(name string) ([]byte, error) {
	return readShadowed(PrefabsFS, prefabPath(name))
}

// LoadScript reads scripts/<name> the same way. name may be given with or
// without its prefabs/ or scripts/ prefix.
func LoadScript(name string) ([]byte, error) {
	return readShadowed(ScriptsFS, "scripts/"+path.Base(prefabPath(name)))
}

// Glob lists prefab names matching pattern from both the embedded set and
// Dir, sorted and without duplicates.
func Glob(pattern string) ([]string, error) {
	embedded, err := fs.Glob(PrefabsFS, pattern)
	if err != nil {
		return nil, fmt.Errorf("prefabs: glob %s: %w", pattern, err)
	}
	names := make(map[string]struct{}, len(embedded))
	for _, name := range embedded {
		names[name] = struct{}{}
	}
	disk, _ := filepath.Glob(filepath.Join(Dir, pattern))
	for _, p := range disk {
		names[filepath.Base(p)] = struct{}{}
	}

	out := make([]string, 0, len(names))
	for name := range names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func readShadowed(embedded fs.FS, rel string) ([]byte, error) {
	if data, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(rel))); err == nil {
		return data, nil
	}
	return fs.ReadFile(embedded, rel)
}

// prefabPath makes name relative to the prefab root.
func prefabPath(name string) string {
	s := filepath.ToSlash(name)
	s, _ = strings.CutPrefix(s, "prefabs/")
	return s
}
