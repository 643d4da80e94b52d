package io

import (
	"context"
	_ "embed"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/samudraneel05/TDSProject1/internal/model"
)

//go:embed templates/default.yaml
var defaultTemplates []byte

// TemplateYAMLRepository loads challenge template registries from YAML files.
type TemplateYAMLRepository struct {
	fs fs.FS
}

// NewTemplateYAMLRepository creates a new YAML template repository.
func NewTemplateYAMLRepository(filesystem fs.FS) *TemplateYAMLRepository {
	return &TemplateYAMLRepository{fs: filesystem}
}

// GetTemplates loads a template registry from a YAML file. An empty path returns the
// built-in registry.
func (r *TemplateYAMLRepository) GetTemplates(ctx context.Context, path string) ([]model.Template, error) {
	data := defaultTemplates
	if path != "" {
		d, err := fs.ReadFile(r.fs, path)
		if err != nil {
			return nil, fmt.Errorf("reading templates file: %w", err)
		}
		data = d
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return parseTemplates(data)
}

// DefaultTemplates returns the built-in template registry.
func DefaultTemplates() ([]model.Template, error) {
	return parseTemplates(defaultTemplates)
}

func parseTemplates(data []byte) ([]model.Template, error) {
	var reg TemplateRegistry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	templates := make([]model.Template, 0, len(reg.Templates))
	seen := map[string]bool{}
	for _, t := range reg.Templates {
		mt := t.toModel()
		if err := mt.Validate(); err != nil {
			return nil, fmt.Errorf("invalid template: %w", err)
		}
		if seen[mt.ID] {
			return nil, fmt.Errorf("duplicated template %q: %w", mt.ID, model.ErrNotValid)
		}
		seen[mt.ID] = true
		templates = append(templates, mt)
	}

	return templates, nil
}

// TemplateRegistry represents the YAML structure of a template registry.
type TemplateRegistry struct {
	Templates []Template `yaml:"templates"`
}

// Template represents the YAML structure of a challenge template.
type Template struct {
	ID         string      `yaml:"id"`
	Brief      string      `yaml:"brief"`
	Attachment *Attachment `yaml:"attachment,omitempty"`
	Checks     []Check     `yaml:"checks"`
	Variants   []Variant   `yaml:"variants"`
}

// Variant represents the YAML structure of a follow up challenge.
type Variant struct {
	Brief      string      `yaml:"brief"`
	Attachment *Attachment `yaml:"attachment,omitempty"`
	Checks     []Check     `yaml:"checks"`
}

// Attachment represents the YAML structure of a generated attachment.
type Attachment struct {
	Name      string `yaml:"name"`
	Generator string `yaml:"generator"`
}

// Check represents the YAML structure of a check. It can be written as a plain string,
// in that case the kind is classified from the text.
type Check struct {
	Text   string `yaml:"text"`
	Kind   string `yaml:"kind"`
	Target string `yaml:"target"`
}

// UnmarshalYAML accepts both the scalar and the mapping forms.
func (c *Check) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		c.Text = node.Value
		return nil
	}

	type plain Check
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*c = Check(p)
	return nil
}

func (t Template) toModel() model.Template {
	mt := model.Template{
		ID:         t.ID,
		Brief:      t.Brief,
		Checks:     checksToModel(t.Checks),
		Attachment: t.Attachment.toModel(),
	}
	for _, v := range t.Variants {
		mt.Variants = append(mt.Variants, model.TemplateVariant{
			Brief:      v.Brief,
			Checks:     checksToModel(v.Checks),
			Attachment: v.Attachment.toModel(),
		})
	}
	return mt
}

func (a *Attachment) toModel() *model.AttachmentSpec {
	if a == nil {
		return nil
	}
	return &model.AttachmentSpec{Name: a.Name, Generator: a.Generator}
}

func checksToModel(checks []Check) []model.Check {
	mcs := make([]model.Check, 0, len(checks))
	for _, c := range checks {
		mcs = append(mcs, model.Check{Text: c.Text, Kind: model.CheckKind(c.Kind), Target: c.Target})
	}
	return mcs
}
