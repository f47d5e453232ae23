package models

import (
	"net/url"
)

// Category is one of the fixed tag values a project is filed under.
// Storage does not constrain it; the form offers Categories as choices.
type Category string

const (
	CategoryHTML5      Category = "HTML5"
	CategoryCSS3       Category = "CSS3"
	CategoryJavascript Category = "Javascript"
)

// Categories lists the choices rendered by the project form, in display order.
var Categories = []Category{CategoryHTML5, CategoryCSS3, CategoryJavascript}

// Project is the flat record exchanged with the project API.
type Project struct {
	Name        string `json:"name" yaml:"name"`
	Category    string `json:"category" yaml:"category"`
	Description string `json:"description" yaml:"description"`
	TechStack   string `json:"tech_stack" yaml:"tech_stack"`
	Repository  string `json:"repository" yaml:"repository"`
	URL         string `json:"url" yaml:"url"`
	Image       string `json:"image" yaml:"image"`
}

// EmptyProject returns the all-empty skeleton used by a fresh create form.
func EmptyProject() Project {
	return Project{}
}

// IsZero reports whether every field is empty.
func (p Project) IsZero() bool {
	return p == Project{}
}

// ProjectPatch carries the fields of a partial update. Nil fields are left untouched.
type ProjectPatch struct {
	Name        *string
	Category    *string
	Description *string
	TechStack   *string
	Repository  *string
	URL         *string
	Image       *string
}

// Merge returns a copy of p with every field present in patch replaced.
func (p Project) Merge(patch ProjectPatch) Project {
	merged := p
	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.Category != nil {
		merged.Category = *patch.Category
	}
	if patch.Description != nil {
		merged.Description = *patch.Description
	}
	if patch.TechStack != nil {
		merged.TechStack = *patch.TechStack
	}
	if patch.Repository != nil {
		merged.Repository = *patch.Repository
	}
	if patch.URL != nil {
		merged.URL = *patch.URL
	}
	if patch.Image != nil {
		merged.Image = *patch.Image
	}
	return merged
}

// IsEmpty reports whether the patch touches no field.
func (patch ProjectPatch) IsEmpty() bool {
	return patch == ProjectPatch{}
}

// Set assigns value to the patch field addressed by its JSON name.
// It reports false for unknown field names.
func (patch *ProjectPatch) Set(field, value string) bool {
	v := value
	switch field {
	case "name":
		patch.Name = &v
	case "category":
		patch.Category = &v
	case "description":
		patch.Description = &v
	case "tech_stack":
		patch.TechStack = &v
	case "repository":
		patch.Repository = &v
	case "url":
		patch.URL = &v
	case "image":
		patch.Image = &v
	default:
		return false
	}
	return true
}

// ProjectFields lists the JSON field names of Project in form order.
var ProjectFields = []string{"name", "category", "description", "tech_stack", "repository", "url", "image"}

// ProjectPatchFromValues builds a patch from submitted form values.
// Only keys present in values are set; unknown keys are ignored. When a key
// repeats, the last value wins, so a checked radio overrides a hidden default.
func ProjectPatchFromValues(values url.Values) ProjectPatch {
	var patch ProjectPatch
	for _, field := range ProjectFields {
		if vs, ok := values[field]; ok && len(vs) > 0 {
			patch.Set(field, vs[len(vs)-1])
		}
	}
	return patch
}

// StringPtr returns a pointer to s, for building patches inline.
func StringPtr(s string) *string {
	return &s
}
