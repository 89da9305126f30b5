// Package output renders the table-of-contents tree for the CLI.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"qber/internal/taxonomy"
)

// Format selects the rendering of a TOC tree.
type Format string

const (
	// TextFormat renders an indented tree with checkbox glyphs
	TextFormat Format = "text"
	// JSONFormat renders the node list as JSON
	JSONFormat Format = "json"
	// YAMLFormat renders the node list as YAML
	YAMLFormat Format = "yaml"
)

// NodeView is the serializable projection of one tree node, selection state
// folded in.
type NodeView struct {
	Kind          string     `json:"kind" yaml:"kind"`
	Key           string     `json:"key" yaml:"key"`
	Label         string     `json:"label,omitempty" yaml:"label,omitempty"`
	RecordID      string     `json:"recordId,omitempty" yaml:"recordId,omitempty"`
	Selected      bool       `json:"selected" yaml:"selected"`
	Indeterminate bool       `json:"indeterminate,omitempty" yaml:"indeterminate,omitempty"`
	Children      []NodeView `json:"children,omitempty" yaml:"children,omitempty"`
}

// Render writes the tree in the requested format.
func Render(w io.Writer, tree []*taxonomy.Node, states map[string]taxonomy.Selection, format Format) error {
	switch format {
	case JSONFormat:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(buildViews(tree, states))
	case YAMLFormat:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(buildViews(tree, states))
	case TextFormat, "":
		renderText(w, tree, states, 0)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func buildViews(nodes []*taxonomy.Node, states map[string]taxonomy.Selection) []NodeView {
	views := make([]NodeView, 0, len(nodes))
	for _, n := range nodes {
		state := states[taxonomy.PathKey(n.ParentKeys)]
		view := NodeView{
			Kind:          string(n.Kind),
			Key:           n.Key,
			Label:         n.Label,
			RecordID:      n.RecordID,
			Selected:      state.Selected,
			Indeterminate: state.Indeterminate,
		}
		if n.Kind == taxonomy.KindGroup {
			view.Children = buildViews(n.Children, states)
		}
		views = append(views, view)
	}
	return views
}

// glyph renders the tri-state checkbox: [x] selected, [-] indeterminate,
// [ ] unselected.
func glyph(state taxonomy.Selection) string {
	switch {
	case state.Selected:
		return "[x]"
	case state.Indeterminate:
		return "[-]"
	default:
		return "[ ]"
	}
}

func renderText(w io.Writer, nodes []*taxonomy.Node, states map[string]taxonomy.Selection, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		state := states[taxonomy.PathKey(n.ParentKeys)]
		label := n.Label
		if label == "" {
			label = n.Key
		}
		if n.Kind == taxonomy.KindGroup {
			fmt.Fprintf(w, "%s%s %s/\n", indent, glyph(state), label)
			renderText(w, n.Children, states, depth+1)
		} else {
			fmt.Fprintf(w, "%s%s %s\n", indent, glyph(state), label)
		}
	}
}
