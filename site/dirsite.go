package site

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"oss.terrastruct.com/xdefer"
)

// ConfigFileName is looked up in the site root when no explicit config
// path is given.
const ConfigFileName = "krokify.yml"

// DirSite is a generated site on disk: every .html file under the root
// is a writable page document, and an optional krokify.yml beside them
// carries the configuration namespaces.
type DirSite struct {
	root   string
	params map[string]map[string]any
	docs   []Document
}

// Load walks root and reads every HTML document into memory, plus the
// site configuration if present. configPath may be empty, in which case
// root/krokify.yml is used when it exists.
func Load(root, configPath string) (_ *DirSite, err error) {
	defer xdefer.Errorf(&err, "failed to load site %s", root)

	s := &DirSite{
		root:   root,
		params: map[string]map[string]any{},
	}

	if configPath == "" {
		configPath = filepath.Join(root, ConfigFileName)
		if _, serr := os.Stat(configPath); errors.Is(serr, fs.ErrNotExist) {
			configPath = ""
		}
	}
	if configPath != "" {
		raw, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, &s.params); err != nil {
			return nil, err
		}
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".html" && ext != ".htm" {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		s.docs = append(s.docs, &fileDocument{
			path:    path,
			name:    rel,
			content: string(raw),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *DirSite) Documents() []Document {
	return s.docs
}

func (s *DirSite) Params(namespace string) (map[string]any, bool) {
	p, ok := s.params[namespace]
	return p, ok
}

// SetParam overrides one configuration key, e.g. from a CLI flag.
func (s *DirSite) SetParam(namespace, key string, value any) {
	if s.params[namespace] == nil {
		s.params[namespace] = map[string]any{}
	}
	s.params[namespace][key] = value
}

// WriteBack persists every document whose content was replaced.
func (s *DirSite) WriteBack() (err error) {
	defer xdefer.Errorf(&err, "failed to write site %s", s.root)

	for _, d := range s.docs {
		fd := d.(*fileDocument)
		if !fd.modified {
			continue
		}
		if err := os.WriteFile(fd.path, []byte(fd.content), 0644); err != nil {
			return err
		}
	}
	return nil
}

// fileDocument is a DirSite document. Every HTML file on disk is a
// page, so all of them are eligible.
type fileDocument struct {
	path     string
	name     string
	content  string
	modified bool
}

func (d *fileDocument) Name() string { return d.name }

func (d *fileDocument) OutputFormat() string { return "HTML" }

func (d *fileDocument) Kind() string { return "page" }

func (d *fileDocument) Writable() bool { return true }

func (d *fileDocument) Content() string { return d.content }

func (d *fileDocument) SetContent(content string) {
	d.content = content
	d.modified = true
}
