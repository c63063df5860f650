package dashboard

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

//go:embed templates/*.yml
var builtinTemplates embed.FS

// TemplateInfo describes an available dashboard template.
type TemplateInfo struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Source string `json:"source"` // "builtin" or "user"
	Path   string `json:"path,omitempty"`
}

// Templates lists builtin templates and those in userDir. A user template
// shadows a builtin of the same name.
func Templates(userDir string) ([]TemplateInfo, error) {
	byName := map[string]TemplateInfo{}
	entries, err := builtinTemplates.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("dashboard: read builtin templates: %w", err)
	}
	for _, e := range entries {
		name, ok := templateName(e.Name())
		if !ok {
			continue
		}
		doc, err := builtinTemplate(name)
		if err != nil {
			return nil, err
		}
		byName[name] = TemplateInfo{Name: name, Title: doc.Title, Source: "builtin"}
	}
	for _, info := range userTemplates(userDir) {
		byName[info.Name] = info
	}
	out := make([]TemplateInfo, 0, len(byName))
	for _, info := range byName {
		out = append(out, info)
	}
	slices.SortFunc(out, func(a, b TemplateInfo) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// LoadTemplate resolves name against userDir first, then the builtins.
func LoadTemplate(name, userDir string) (*Document, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("dashboard: template name is required")
	}
	for _, info := range userTemplates(userDir) {
		if info.Name == name {
			return LoadDocument(info.Path)
		}
	}
	doc, err := builtinTemplate(name)
	if err != nil {
		return nil, fmt.Errorf("dashboard: unknown template %q", name)
	}
	return doc, nil
}

func builtinTemplate(name string) (*Document, error) {
	data, err := builtinTemplates.ReadFile("templates/" + name + ".yml")
	if err != nil {
		return nil, err
	}
	doc, err := ReadDocument(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("builtin template %s: %w", name, err)
	}
	return doc, nil
}

// userTemplates skips unreadable files; a broken user template must not hide
// the rest.
func userTemplates(dir string) []TemplateInfo {
	if strings.TrimSpace(dir) == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []TemplateInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name, ok := templateName(e.Name())
		if !ok {
			continue
		}
		path := filepath.Join(dir, e.Name())
		doc, err := LoadDocument(path)
		if err != nil {
			continue
		}
		out = append(out, TemplateInfo{Name: name, Title: doc.Title, Source: "user", Path: path})
	}
	return out
}

func templateName(file string) (string, bool) {
	for _, ext := range []string{".yml", ".yaml"} {
		if strings.HasSuffix(file, ext) {
			return strings.TrimSuffix(file, ext), true
		}
	}
	return "", false
}
