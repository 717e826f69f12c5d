package claudemd

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Detector infers project facts from files on disk, used to seed project
// context without asking the user.
type Detector struct {
	root string
}

// NewDetector returns a detector rooted at the project directory.
func NewDetector(root string) *Detector { return &Detector{root: root} }

func (d *Detector) exists(name string) bool {
	_, err := os.Stat(filepath.Join(d.root, name))
	return err == nil
}

func (d *Detector) contains(name, needle string) bool {
	data, err := os.ReadFile(filepath.Join(d.root, name))
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(data)), needle)
}

// TechStack lists the technologies evident from manifest files.
func (d *Detector) TechStack() []string {
	set := map[string]bool{}

	if d.exists("requirements.txt") || d.exists("setup.py") || d.exists("pyproject.toml") {
		set["Python"] = true
		for _, manifest := range []string{"requirements.txt", "pyproject.toml"} {
			for framework, needle := range map[string]string{
				"FastAPI": "fastapi", "Django": "django", "Flask": "flask", "pytest": "pytest",
			} {
				if d.contains(manifest, needle) {
					set[framework] = true
				}
			}
		}
	}
	if d.exists("package.json") {
		set["JavaScript/Node.js"] = true
		if deps := d.nodeDeps(); deps != nil {
			for framework, dep := range map[string]string{
				"TypeScript": "typescript", "React": "react", "Vue.js": "vue",
				"Next.js": "next", "Express": "express", "Jest": "jest",
			} {
				if _, ok := deps[dep]; ok {
					set[framework] = true
				}
			}
		}
	}
	if d.exists("go.mod") {
		set["Go"] = true
	}
	if d.exists("Cargo.toml") {
		set["Rust"] = true
	}
	if d.exists("Dockerfile") || d.exists("docker-compose.yml") || d.exists("docker-compose.yaml") {
		set["Docker"] = true
	}
	if d.hasSQLFiles() {
		set["SQL"] = true
	}

	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func (d *Detector) nodeDeps() map[string]any {
	data, err := os.ReadFile(filepath.Join(d.root, "package.json"))
	if err != nil {
		return nil
	}
	var pkg struct {
		Dependencies    map[string]any `json:"dependencies"`
		DevDependencies map[string]any `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil
	}
	deps := map[string]any{}
	for k, v := range pkg.Dependencies {
		deps[k] = v
	}
	for k, v := range pkg.DevDependencies {
		deps[k] = v
	}
	return deps
}

func (d *Detector) hasSQLFiles() bool {
	found := false
	filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if entry.IsDir() && strings.HasPrefix(entry.Name(), ".") && path != d.root {
			return fs.SkipDir
		}
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	return found
}

// Architecture guesses an architecture label from the directory layout.
func (d *Detector) Architecture() string {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return "Unknown"
	}
	dirs := map[string]bool{}
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			dirs[e.Name()] = true
		}
	}

	switch {
	case dirs["services"] || dirs["microservices"] || d.exists("docker-compose.yml"):
		return "Microservices"
	case dirs["packages"] || dirs["apps"]:
		return "Monorepo"
	case dirs["domain"] && dirs["application"] && dirs["infrastructure"]:
		return "Clean Architecture"
	case dirs["models"] && dirs["views"] && dirs["controllers"]:
		return "MVC"
	case dirs["src"]:
		return "Standard (src-based)"
	}
	return "Unknown"
}

// Description combines the detected stack and architecture into a one-line
// summary.
func (d *Detector) Description() string {
	stack := d.TechStack()
	if len(stack) == 0 {
		return fmt.Sprintf("A software project called %s", filepath.Base(d.root))
	}
	if len(stack) > 3 {
		stack = stack[:3]
	}
	return fmt.Sprintf("A %s project using %s",
		strings.ToLower(d.Architecture()), strings.Join(stack, ", "))
}
