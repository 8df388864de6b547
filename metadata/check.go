/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metadata

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"chainguard.dev/registryguard/entity"
	"chainguard.dev/registryguard/schema"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// schemaBaseURL namespaces the compiled schema resources.
const schemaBaseURL = "https://schemas.registryguard.dev/"

// Violation is one schema violation resolved to a source line.
type Violation struct {
	Line    int
	Message string
}

// Checker validates metadata documents. Compiled schemas are cached per
// entity type.
type Checker struct {
	registry *schema.Registry
	printer  *message.Printer

	mu       sync.Mutex
	compiled map[entity.Type]*jsonschema.Schema
}

// NewChecker returns a Checker drawing schemas from reg.
func NewChecker(reg *schema.Registry) *Checker {
	return &Checker{
		registry: reg,
		printer:  message.NewPrinter(language.English),
		compiled: make(map[entity.Type]*jsonschema.Schema),
	}
}

// Check returns every violation of the schema for t found in data, ordered
// by line. The error is non-nil only when the schema itself is unusable.
func (c *Checker) Check(t entity.Type, data []byte) ([]Violation, error) {
	sch, err := c.schemaFor(t)
	if err != nil {
		return nil, err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return []Violation{{
			Line:    syntaxLine(data, err),
			Message: capitalize("invalid JSON: " + err.Error()),
		}}, nil
	}

	err = sch.Validate(inst)
	if err == nil {
		return nil, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("validating %s metadata: %w", t, err)
	}

	lines := lineMap(data)
	var out []Violation
	for _, leaf := range leaves(ve, nil) {
		line, ok := lines[pointer(leaf.InstanceLocation)]
		if !ok {
			line = 1
		}
		out = append(out, Violation{Line: line, Message: c.describe(leaf.ErrorKind)})
	}
	slices.SortStableFunc(out, func(a, b Violation) int {
		return cmp.Or(cmp.Compare(a.Line, b.Line), strings.Compare(a.Message, b.Message))
	})
	return out, nil
}

func (c *Checker) schemaFor(t entity.Type) (*jsonschema.Schema, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sch, ok := c.compiled[t]; ok {
		return sch, nil
	}

	raw, err := c.registry.JSON(t)
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding %s schema: %w", t, err)
	}

	url := schemaBaseURL + string(t) + ".json"
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat()
	if err := compiler.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("adding %s schema: %w", t, err)
	}
	sch, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compiling %s schema: %w", t, err)
	}
	c.compiled[t] = sch
	return sch, nil
}

// describe renders a violation. Closed-set mismatches list the allowed values.
func (c *Checker) describe(k jsonschema.ErrorKind) string {
	if e, ok := k.(*kind.Enum); ok {
		allowed := make([]string, 0, len(e.Want))
		for _, v := range e.Want {
			allowed = append(allowed, fmt.Sprint(v))
		}
		return capitalize("must be equal to one of the allowed values: " + strings.Join(allowed, ", "))
	}
	return capitalize(k.LocalizedString(c.printer))
}

// leaves collects the errors of ve that have no further causes.
func leaves(ve *jsonschema.ValidationError, out []*jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return append(out, ve)
	}
	for _, cause := range ve.Causes {
		out = leaves(cause, out)
	}
	return out
}

// syntaxLine locates a decoding error, defaulting to the first line.
func syntaxLine(data []byte, err error) int {
	var syn *json.SyntaxError
	if !errors.As(err, &syn) {
		return 1
	}
	off := min(int(syn.Offset), len(data))
	return 1 + bytes.Count(data[:off], []byte("\n"))
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
