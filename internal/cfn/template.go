// File: internal/cfn/template.go
// Brief: Minimal CloudFormation template model with deterministic encoding.

// Package cfn models the small slice of CloudFormation that jenkinsctl
// synthesizes: a template with resources, outputs, and the handful of
// intrinsic functions the stack definition needs. The model is intentionally
// untyped at the property level; resource shape validation belongs to the
// provisioning service, not to this tool.
package cfn

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FormatVersion is the only template format version CloudFormation accepts.
const FormatVersion = "2010-09-09"

// Template is a CloudFormation template under construction.
type Template struct {
	AWSTemplateFormatVersion string               `json:"AWSTemplateFormatVersion"`
	Description              string               `json:"Description,omitempty"`
	Resources                map[string]*Resource `json:"Resources"`
	Outputs                  map[string]Output    `json:"Outputs,omitempty"`
}

// Resource is a single resource declaration.
type Resource struct {
	Type                string         `json:"Type"`
	DependsOn           []string       `json:"DependsOn,omitempty"`
	Properties          map[string]any `json:"Properties,omitempty"`
	DeletionPolicy      string         `json:"DeletionPolicy,omitempty"`
	UpdateReplacePolicy string         `json:"UpdateReplacePolicy,omitempty"`
}

// Output is a template output value.
type Output struct {
	Description string  `json:"Description,omitempty"`
	Value       any     `json:"Value"`
	Export      *Export `json:"Export,omitempty"`
}

// Export names an output for cross-stack imports.
type Export struct {
	Name any `json:"Name"`
}

// NewTemplate returns an empty template carrying the given description.
func NewTemplate(description string) *Template {
	return &Template{
		AWSTemplateFormatVersion: FormatVersion,
		Description:              description,
		Resources:                map[string]*Resource{},
		Outputs:                  map[string]Output{},
	}
}

// AddResource registers a resource under a logical ID. Duplicate logical IDs
// are a synthesis bug and rejected immediately rather than surfacing as a
// provisioning-service validation error later.
func (t *Template) AddResource(logicalID string, r *Resource) error {
	if logicalID == "" {
		return fmt.Errorf("resource logical ID must not be empty")
	}
	if r == nil {
		return fmt.Errorf("resource %s is nil", logicalID)
	}
	if _, exists := t.Resources[logicalID]; exists {
		return fmt.Errorf("duplicate resource logical ID %q", logicalID)
	}
	t.Resources[logicalID] = r
	return nil
}

// AddOutput registers an output value.
func (t *Template) AddOutput(name string, o Output) error {
	if name == "" {
		return fmt.Errorf("output name must not be empty")
	}
	if _, exists := t.Outputs[name]; exists {
		return fmt.Errorf("duplicate output %q", name)
	}
	t.Outputs[name] = o
	return nil
}

// Encode renders the template as indented JSON. Encoding is deterministic:
// encoding/json sorts map keys, so identical templates always produce
// byte-identical documents. The template itself is never mutated.
func (t *Template) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(t); err != nil {
		return nil, fmt.Errorf("encode template: %w", err)
	}
	return buf.Bytes(), nil
}
