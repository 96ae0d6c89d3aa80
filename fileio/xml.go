package fileio

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

const (
	// AttrKey holds an element's attributes in ReadXML/WriteXML maps.
	AttrKey = "@attr"
	// TextKey holds character data of an element that also has children or attributes.
	TextKey = "#text"
)

type xmlNode struct {
	name     string
	attrs    []xml.Attr
	children []*xmlNode
	text     strings.Builder
}

// ReadXML loads file as nested maps keyed by element name.
//
// Leaf elements become strings, repeated siblings become []any, attributes
// go under AttrKey and mixed text under TextKey. The result has one key: the
// root element.
func (f *IO) ReadXML(file string) (map[string]any, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("fileio: read %s: %w", file, err)
	}
	root, err := parseXML(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("fileio: parse xml %s: %w", file, err)
	}
	return map[string]any{root.name: root.value()}, nil
}

func parseXML(r io.Reader) (*xmlNode, error) {
	dec := xml.NewDecoder(r)
	var stack []*xmlNode
	var root *xmlNode

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &xmlNode{name: t.Name.Local, attrs: t.Attr}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	if root == nil {
		return nil, errors.New("no root element")
	}
	return root, nil
}

func (n *xmlNode) value() any {
	text := strings.TrimSpace(n.text.String())
	if len(n.children) == 0 && len(n.attrs) == 0 {
		return text
	}

	out := map[string]any{}
	if len(n.attrs) > 0 {
		attrs := make(map[string]any, len(n.attrs))
		for _, a := range n.attrs {
			attrs[a.Name.Local] = a.Value
		}
		out[AttrKey] = attrs
	}
	for _, c := range n.children {
		v := c.value()
		switch existing := out[c.name].(type) {
		case nil:
			out[c.name] = v
		case []any:
			out[c.name] = append(existing, v)
		default:
			out[c.name] = []any{existing, v}
		}
	}
	if text != "" {
		out[TextKey] = text
	}
	return out
}

// WriteXML replaces file with data encoded as XML.
//
// data must have exactly one key, the root element name. Map keys are written
// in sorted order.
func (f *IO) WriteXML(data map[string]any, file string) error {
	if len(data) != 1 {
		return fmt.Errorf("%w: xml needs exactly one root element, got %d", ErrBadData, len(data))
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	for name, v := range data {
		if err := encodeXML(enc, name, v); err != nil {
			return fmt.Errorf("%w: xml: %v", ErrBadData, err)
		}
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("%w: xml: %v", ErrBadData, err)
	}
	buf.WriteByte('\n')
	return writeFileAtomic(file, buf.Bytes(), f.perm())
}

func encodeXML(enc *xml.Encoder, name string, v any) error {
	if list, ok := v.([]any); ok {
		for _, item := range list {
			if err := encodeXML(enc, name, item); err != nil {
				return err
			}
		}
		return nil
	}

	start := xml.StartElement{Name: xml.Name{Local: name}}
	m, isMap := v.(map[string]any)
	if isMap {
		if attrs, ok := m[AttrKey].(map[string]any); ok {
			for _, k := range sortedKeys(attrs) {
				start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: k}, Value: fmt.Sprint(attrs[k])})
			}
		}
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	switch {
	case isMap:
		if text, ok := m[TextKey]; ok {
			if err := enc.EncodeToken(xml.CharData(fmt.Sprint(text))); err != nil {
				return err
			}
		}
		for _, k := range sortedKeys(m) {
			if k == AttrKey || k == TextKey {
				continue
			}
			if err := encodeXML(enc, k, m[k]); err != nil {
				return err
			}
		}
	case v != nil:
		if err := enc.EncodeToken(xml.CharData(fmt.Sprint(v))); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
