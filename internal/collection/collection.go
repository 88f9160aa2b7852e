// Package collection aggregates per-resource YAML files into one JSON
// document per named group.
package collection

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/tessro/insomnia-documenter/internal/console"
	"github.com/tessro/insomnia-documenter/internal/paths"
	"github.com/tessro/insomnia-documenter/internal/resource"
)

// ResourceExt is the extension of resource files inside a workspace.
const ResourceExt = ".yml"

// Group is a named YAML root directory.
type Group struct {
	Name string
	Root string
}

// Collection is the aggregated output for one group.
type Collection struct {
	Resources []resource.Resource `json:"resources"`
}

// ParseGroups resolves YAML root arguments against base and names each group
// after the final segment of its root. When two roots share a name the later
// root wins but the group keeps the position of its first occurrence.
func ParseGroups(base string, values []string) []Group {
	groups := make([]Group, 0, len(values))
	index := make(map[string]int, len(values))
	for _, v := range values {
		root := paths.Resolve(base, v)
		name := paths.GroupName(root)
		if i, ok := index[name]; ok {
			slog.Debug("yaml group redefined", "group", name, "old_root", groups[i].Root, "new_root", root)
			groups[i].Root = root
			continue
		}
		index[name] = len(groups)
		groups = append(groups, Group{Name: name, Root: root})
	}
	return groups
}

// Enumerate lists every resource file under root's hidden workspace
// directory, at any depth and including hidden entries, in lexical order.
// A root without a workspace directory has no resources.
func Enumerate(root string) ([]string, error) {
	dir := paths.WorkspacePath(root)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip directories
		if d.IsDir() {
			return nil
		}

		if !strings.HasSuffix(path, ResourceExt) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	sort.Strings(files)
	return files, nil
}

// Aggregator turns groups into JSON files in OutputDir.
type Aggregator struct {
	OutputDir string

	// Markdown, when set, renders each resource's description into
	// descriptionHtml.
	Markdown goldmark.Markdown

	// Reporter receives per-group failures. Nil disables console output.
	Reporter *console.Reporter
}

// Build reads and tags every resource of a group. The first unreadable or
// unparseable file fails the whole group.
func (a *Aggregator) Build(g Group) (Collection, error) {
	files, err := Enumerate(g.Root)
	if err != nil {
		return Collection{}, err
	}

	c := Collection{Resources: make([]resource.Resource, 0, len(files))}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return Collection{}, fmt.Errorf("reading %s: %w", file, err)
		}

		r, err := resource.FromYAML(data)
		if err != nil {
			return Collection{}, fmt.Errorf("parsing %s: %w", file, err)
		}

		if a.Markdown != nil {
			if r, err = r.WithDescriptionHTML(a.Markdown); err != nil {
				return Collection{}, fmt.Errorf("rendering %s: %w", file, err)
			}
		}

		slog.Debug("resource loaded", "group", g.Name, "file", file, "type", r.Type())
		c.Resources = append(c.Resources, r)
	}
	return c, nil
}

// Write stores a collection as <OutputDir>/<name>.json, creating the output
// directory if needed and replacing any existing file.
func (a *Aggregator) Write(name string, c Collection) (string, error) {
	if err := os.MkdirAll(a.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	if c.Resources == nil {
		c.Resources = []resource.Resource{}
	}
	data, err := resource.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", name, err)
	}

	out := paths.GroupOutputPath(a.OutputDir, name)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", out, err)
	}
	return out, nil
}

// Result is the outcome of processing one group.
type Result struct {
	Group     Group
	Path      string
	Resources int
	Err       error
}

// Report collects the results of a Run in group order.
type Report struct {
	Results []Result
}

// Failed returns the number of groups that produced no output.
func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Run processes groups one after another. A failing group is reported and
// skipped; it never prevents later groups from being written.
func (a *Aggregator) Run(groups []Group) Report {
	var report Report
	for _, g := range groups {
		res := a.runGroup(g)
		if res.Err != nil {
			slog.Info("yaml group failed", "group", g.Name, "root", g.Root, "error", res.Err)
			if a.Reporter != nil {
				a.Reporter.Error(res.Err)
			}
		} else {
			slog.Info("yaml group written", "group", g.Name, "path", res.Path, "resources", res.Resources)
		}
		report.Results = append(report.Results, res)
	}
	return report
}

func (a *Aggregator) runGroup(g Group) Result {
	res := Result{Group: g}

	c, err := a.Build(g)
	if err != nil {
		res.Err = fmt.Errorf("group %s: %w", g.Name, err)
		return res
	}

	out, err := a.Write(g.Name, c)
	if err != nil {
		res.Err = fmt.Errorf("group %s: %w", g.Name, err)
		return res
	}

	res.Path = out
	res.Resources = len(c.Resources)
	return res
}
