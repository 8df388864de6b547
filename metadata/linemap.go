/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metadata

import (
	"strconv"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
)

// lineMap returns the 1-based source line of every value in data, keyed by
// JSON pointer. A document the parser rejects yields an empty map.
func lineMap(data []byte) map[string]int {
	lines := make(map[string]int)
	f, err := parser.ParseBytes(data, 0)
	if err != nil {
		return lines
	}
	for _, doc := range f.Docs {
		walk(doc.Body, "", lines)
	}
	return lines
}

func walk(n ast.Node, ptr string, lines map[string]int) {
	if n == nil {
		return
	}
	if tok := n.GetToken(); tok != nil && tok.Position != nil {
		if _, ok := lines[ptr]; !ok {
			lines[ptr] = tok.Position.Line
		}
	}

	switch n := n.(type) {
	case *ast.MappingNode:
		for _, mv := range n.Values {
			walkPair(mv, ptr, lines)
		}
	case *ast.MappingValueNode:
		walkPair(n, ptr, lines)
	case *ast.SequenceNode:
		for i, v := range n.Values {
			walk(v, ptr+"/"+strconv.Itoa(i), lines)
		}
	}
}

func walkPair(mv *ast.MappingValueNode, ptr string, lines map[string]int) {
	walk(mv.Value, ptr+"/"+escapePointer(keyName(mv.Key)), lines)
}

func keyName(k ast.MapKeyNode) string {
	if s, ok := k.(*ast.StringNode); ok {
		return s.Value
	}
	return strings.Trim(k.String(), `"'`)
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func escapePointer(token string) string {
	return pointerEscaper.Replace(token)
}

// pointer renders an instance location as a JSON pointer.
func pointer(location []string) string {
	var sb strings.Builder
	for _, tok := range location {
		sb.WriteString("/")
		sb.WriteString(escapePointer(tok))
	}
	return sb.String()
}
