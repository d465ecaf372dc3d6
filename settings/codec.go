package settings

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the on-disk encoding of a settings document.
type Format int

const (
	// FormatXML is the element-per-setting XML document, the default.
	FormatXML Format = iota
	// FormatYAML is selected by a .yaml or .yml file extension.
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "xml"
}

// FormatForPath picks the format from the file extension; anything that is
// not .yaml or .yml is XML.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatXML
	}
}

type codec interface {
	decode(data []byte) (document, error)
	encode(doc document) ([]byte, error)
}

func codecFor(f Format) codec {
	if f == FormatYAML {
		return yamlCodec{}
	}
	return xmlCodec{}
}

// XML. Every value is plain text so that a bad number degrades to zero
// instead of rejecting the whole document.

type xmlDocument struct {
	XMLName          xml.Name   `xml:"Settings"`
	DisplaySoundings string     `xml:"DisplaySoundings"`
	Depths           xmlDepths  `xml:"Depths"`
	Layers           []xmlLayer `xml:"Layers>Layer"`
}

type xmlDepths struct {
	Shallow string `xml:"Shallow"`
	Safety  string `xml:"Safety"`
	Deep    string `xml:"Deep"`
}

type xmlLayer struct {
	ID          string `xml:"Id"`
	Name        string `xml:"Name"`
	Description string `xml:"Description,omitempty"`
	// Older files spell the tag "Descrption".
	LegacyDescription string `xml:"Descrption,omitempty"`
	Display           string `xml:"Display"`
	Order             string `xml:"Order"`
}

type xmlCodec struct{}

func (xmlCodec) decode(data []byte) (document, error) {
	var x xmlDocument
	if err := xml.Unmarshal(data, &x); err != nil {
		return document{}, err
	}
	doc := document{
		SoundingsVisible: parseBool(x.DisplaySoundings),
		Depths: DepthThresholds{
			Shallow: parseFloat(x.Depths.Shallow),
			Safety:  parseFloat(x.Depths.Safety),
			Deep:    parseFloat(x.Depths.Deep),
		},
		Layers: make([]LayerSetting, 0, len(x.Layers)),
	}
	for _, l := range x.Layers {
		desc := l.Description
		if desc == "" {
			desc = l.LegacyDescription
		}
		doc.Layers = append(doc.Layers, LayerSetting{
			ID:          parseInt(l.ID),
			Name:        l.Name,
			Description: desc,
			Visible:     parseBool(l.Display),
			Order:       parseInt(l.Order),
		})
	}
	return doc, nil
}

func (xmlCodec) encode(doc document) ([]byte, error) {
	x := xmlDocument{
		DisplaySoundings: formatBool(doc.SoundingsVisible),
		Depths: xmlDepths{
			Shallow: formatFloat(doc.Depths.Shallow),
			Safety:  formatFloat(doc.Depths.Safety),
			Deep:    formatFloat(doc.Depths.Deep),
		},
		Layers: make([]xmlLayer, 0, len(doc.Layers)),
	}
	for _, l := range doc.Layers {
		x.Layers = append(x.Layers, xmlLayer{
			ID:          strconv.Itoa(l.ID),
			Name:        l.Name,
			Description: l.Description,
			Display:     formatBool(l.Visible),
			Order:       strconv.Itoa(l.Order),
		})
	}
	out, err := xml.MarshalIndent(x, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("settings: encode xml: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.Write(out)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// YAML.

type yamlDocument struct {
	DisplaySoundings bool        `yaml:"display_soundings"`
	Depths           yamlDepths  `yaml:"depths"`
	Layers           []yamlLayer `yaml:"layers"`
}

type yamlDepths struct {
	Shallow float64 `yaml:"shallow"`
	Safety  float64 `yaml:"safety"`
	Deep    float64 `yaml:"deep"`
}

type yamlLayer struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Display     bool   `yaml:"display"`
	Order       int    `yaml:"order"`
}

type yamlCodec struct{}

func (yamlCodec) decode(data []byte) (document, error) {
	var y yamlDocument
	if err := yaml.Unmarshal(data, &y); err != nil {
		return document{}, err
	}
	doc := document{
		SoundingsVisible: y.DisplaySoundings,
		Depths:           DepthThresholds(y.Depths),
		Layers:           make([]LayerSetting, 0, len(y.Layers)),
	}
	for _, l := range y.Layers {
		doc.Layers = append(doc.Layers, LayerSetting{
			ID:          l.ID,
			Name:        l.Name,
			Description: l.Description,
			Visible:     l.Display,
			Order:       l.Order,
		})
	}
	return doc, nil
}

func (yamlCodec) encode(doc document) ([]byte, error) {
	y := yamlDocument{
		DisplaySoundings: doc.SoundingsVisible,
		Depths:           yamlDepths(doc.Depths),
		Layers:           make([]yamlLayer, 0, len(doc.Layers)),
	}
	for _, l := range doc.Layers {
		y.Layers = append(y.Layers, yamlLayer{
			ID:          l.ID,
			Name:        l.Name,
			Description: l.Description,
			Display:     l.Visible,
			Order:       l.Order,
		})
	}
	out, err := yaml.Marshal(y)
	if err != nil {
		return nil, fmt.Errorf("settings: encode yaml: %w", err)
	}
	return out, nil
}

func parseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func parseInt(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
