package pointsource

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/closestpos/internal/conv"
	"gopkg.in/yaml.v3"
)

func readYAML(ctx context.Context, r io.Reader, dst *records) error {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	list := pointList(&doc)
	if list == nil {
		return fmt.Errorf("line %d: expected a sequence of points", doc.Line)
	}

	for _, item := range list.Content {
		v, err := yamlPoint(item, dst.opts.Columns)
		if err != nil {
			return fmt.Errorf("line %d: %w", item.Line, err)
		}
		if err := dst.add(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

// pointList finds the point sequence of a document: the root itself or the
// value of a top-level "points" key.
func pointList(doc *yaml.Node) *yaml.Node {
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	switch n.Kind {
	case yaml.SequenceNode:
		return n
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == "points" && n.Content[i+1].Kind == yaml.SequenceNode {
				return n.Content[i+1]
			}
		}
	}
	return nil
}

func yamlPoint(n *yaml.Node, names [3]string) ([3]float32, error) {
	var raw [3]float64

	switch n.Kind {
	case yaml.SequenceNode:
		if len(n.Content) != 3 {
			return [3]float32{}, fmt.Errorf("point has %d coordinates, need 3", len(n.Content))
		}
		if err := n.Decode(&raw); err != nil {
			return [3]float32{}, err
		}
	case yaml.MappingNode:
		var m map[string]float64
		if err := n.Decode(&m); err != nil {
			return [3]float32{}, err
		}
		for axis, name := range names {
			f, ok := m[name]
			if !ok {
				return [3]float32{}, fmt.Errorf("point has no %q key", name)
			}
			raw[axis] = f
		}
	default:
		return [3]float32{}, errors.New("point must be a sequence or a mapping")
	}

	var v [3]float32
	for axis, f := range raw {
		c, err := conv.Float64ToFloat32(f)
		if err != nil {
			return [3]float32{}, err
		}
		v[axis] = c
	}
	return v, nil
}
