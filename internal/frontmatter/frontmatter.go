package frontmatter

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrNotMapping indicates the front matter block decoded to something other
// than a YAML mapping (a list or a bare scalar).
var ErrNotMapping = errors.New("front matter must be a YAML mapping")

// ErrNonScalarValue indicates a key whose value is a sequence or mapping.
// Front matter is a flat string-to-string mapping.
var ErrNonScalarValue = errors.New("front matter value must be a scalar")

// ErrDuplicateKey indicates a key defined more than once in the block.
var ErrDuplicateKey = errors.New("front matter key defined more than once")

// Decode parses raw YAML front matter (without --- delimiters) into a flat
// string map.
//
// Scalars of any YAML type keep their literal source text, so `date: 2023-01-01`
// and `lightTheme: true` decode to "2023-01-01" and "true". A null value decodes
// to the empty string. An empty block decodes to an empty, non-nil map.
func Decode(raw []byte) (map[string]string, error) {
	fields := map[string]string{}
	if len(raw) == 0 {
		return fields, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		// Comment-only or whitespace-only block.
		return fields, nil
	}

	root := resolve(doc.Content[0])
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return fields, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}

	seen := make(map[string]int, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := resolve(root.Content[i])
		val := resolve(root.Content[i+1])
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: %w", key.Line, ErrNonScalarValue)
		}
		if first, ok := seen[key.Value]; ok {
			return nil, fmt.Errorf("line %d: key %q already defined at line %d: %w", key.Line, key.Value, first, ErrDuplicateKey)
		}
		seen[key.Value] = key.Line
		if val.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("key %q (line %d): %w", key.Value, val.Line, ErrNonScalarValue)
		}
		if val.Tag == "!!null" {
			fields[key.Value] = ""
			continue
		}
		fields[key.Value] = val.Value
	}
	return fields, nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
