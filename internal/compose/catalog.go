// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package compose

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultCatalog []byte

// Template is a reusable broadcast message.
type Template struct {
	Title   string `yaml:"title" json:"title"`
	Message string `yaml:"message" json:"message"`
}

// TemplateCategory groups related templates for the picker.
type TemplateCategory struct {
	Category  string     `yaml:"category" json:"category"`
	Templates []Template `yaml:"templates" json:"templates"`
}

// Catalog is the ordered list of template categories.
type Catalog []TemplateCategory

// LoadCatalog decodes a YAML catalog. Categories and templates without a
// name or message are rejected.
func LoadCatalog(r io.Reader) (Catalog, error) {
	var doc struct {
		Categories Catalog `yaml:"categories"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode template catalog: %w", err)
	}
	for _, c := range doc.Categories {
		if c.Category == "" {
			return nil, fmt.Errorf("template catalog: category without a name")
		}
		for _, t := range c.Templates {
			if t.Title == "" || t.Message == "" {
				return nil, fmt.Errorf("template catalog: incomplete template in %q", c.Category)
			}
		}
	}
	return doc.Categories, nil
}

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() (Catalog, error) {
	return LoadCatalog(bytes.NewReader(defaultCatalog))
}

// Find returns the template with the given title.
func (c Catalog) Find(title string) (Template, bool) {
	for _, cat := range c {
		for _, t := range cat.Templates {
			if t.Title == title {
				return t, true
			}
		}
	}
	return Template{}, false
}
