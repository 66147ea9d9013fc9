// Package presets ships the standard balance plots as embedded plot configs.
package presets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gobalance/internal/config"
	"gobalance/internal/errors"
)

//go:embed files/*.yaml
var files embed.FS

// Names lists the available presets in alphabetical order
func Names() []string {
	entries, err := fs.ReadDir(files, "files")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Get parses the named preset. Each call returns a fresh config.
func Get(name string) (*config.PlotConfig, error) {
	body, err := Raw(name)
	if err != nil {
		return nil, err
	}
	cfg, err := config.ParsePlotConfig(body)
	if err != nil {
		return nil, errors.Wrapf(err, "preset %s", name)
	}
	return cfg, nil
}

// Raw returns the YAML source of the named preset
func Raw(name string) ([]byte, error) {
	body, err := files.ReadFile(path.Join("files", name+".yaml"))
	if err != nil {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown preset %q (available: %s)", name, strings.Join(Names(), ", ")))
	}
	return body, nil
}
