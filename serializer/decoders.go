package serializer

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	stderrors "errors"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"
)

var errNoUnmarshal = stderrors.New("decoder cannot unmarshal into a typed value")

// JSON decodes application/json bodies into map[string]any, []any or scalars.
type JSON struct{}

func (JSON) Decode(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (JSON) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Text returns the body as a string. It never fails.
type Text struct{}

func (Text) Decode(data []byte) (any, error) { return string(data), nil }

// Unmarshal supports *string and *[]byte targets.
func (Text) Unmarshal(data []byte, v any) error {
	switch t := v.(type) {
	case *string:
		*t = string(data)
	case *[]byte:
		*t = bytes.Clone(data)
	default:
		return errNoUnmarshal
	}
	return nil
}

// YAML decodes YAML documents.
type YAML struct{}

func (YAML) Decode(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (YAML) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// TOML decodes TOML documents into map[string]any.
type TOML struct{}

func (TOML) Decode(data []byte) (any, error) {
	v := map[string]any{}
	if err := toml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (TOML) Unmarshal(data []byte, v any) error {
	return toml.Unmarshal(data, v)
}

// XMLNode is the generic tree produced by XML.Decode.
type XMLNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Content  string     `xml:",chardata"`
	Children []XMLNode  `xml:",any"`
}

// Child returns the first direct child with the given local name.
func (n *XMLNode) Child(name string) *XMLNode {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == name {
			return &n.Children[i]
		}
	}
	return nil
}

// Attr returns the value of the attribute with the given local name.
func (n *XMLNode) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// XML decodes XML documents. Decode yields an *XMLNode tree.
type XML struct{}

func (XML) Decode(data []byte) (any, error) {
	n := &XMLNode{}
	if err := xml.Unmarshal(data, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (XML) Unmarshal(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}
