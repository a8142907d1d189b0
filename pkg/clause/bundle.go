package clause

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Bundle is a portable snapshot of the whole catalogue, used to seed and
// export stores.
type Bundle struct {
	Clauses []Record      `json:"clauses" yaml:"clauses"`
	Infos   []InfoSection `json:"infos" yaml:"infos"`
	Presets []Preset      `json:"presets" yaml:"presets"`
}

// MarshalBundle serialises a bundle as indented JSON.
func MarshalBundle(b Bundle) ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

// MarshalBundleYAML serialises a bundle as YAML with the same field names as
// the JSON form.
func MarshalBundleYAML(b Bundle) ([]byte, error) {
	var doc bundleYAML
	for _, r := range b.Clauses {
		doc.Clauses = append(doc.Clauses, yamlRecord(r))
	}
	for _, s := range b.Infos {
		doc.Infos = append(doc.Infos, yamlInfo(s))
	}
	for _, p := range b.Presets {
		doc.Presets = append(doc.Presets, yamlPreset(p))
	}
	return yaml.Marshal(doc)
}

// UnmarshalBundle reads a bundle from JSON, falling back to YAML. A bare JSON
// array is read as a list of clauses.
func UnmarshalBundle(data []byte) (Bundle, error) {
	var b Bundle
	if len(data) == 0 {
		return b, nil
	}
	if err := json.Unmarshal(data, &b); err == nil {
		return b, nil
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err == nil {
		return Bundle{Clauses: records}, nil
	}
	var doc bundleYAML
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Bundle{}, fmt.Errorf("clause: decode bundle: %w", err)
	}
	return doc.bundle(), nil
}

// bundleYAML mirrors Bundle with yaml field names matching the JSON ones.
type bundleYAML struct {
	Clauses []yamlRecord `yaml:"clauses"`
	Infos   []yamlInfo   `yaml:"infos"`
	Presets []yamlPreset `yaml:"presets"`
}

type yamlRecord struct {
	ID            string `yaml:"id,omitempty"`
	Number        string `yaml:"number"`
	Name          string `yaml:"name"`
	FrName        string `yaml:"frName,omitempty"`
	Description   string `yaml:"description,omitempty"`
	FrDescription string `yaml:"frDescription,omitempty"`
	Compliance    string `yaml:"compliance,omitempty"`
	FrCompliance  string `yaml:"frCompliance,omitempty"`
	Informative   bool   `yaml:"informative,omitempty"`
}

type yamlInfo struct {
	ID          string `yaml:"id,omitempty"`
	Name        string `yaml:"name"`
	Order       int    `yaml:"order"`
	ShowHeading bool   `yaml:"showHeading,omitempty"`
	BodyHTML    string `yaml:"bodyHtml,omitempty"`
}

type yamlPreset struct {
	ID            string   `yaml:"id,omitempty"`
	Name          string   `yaml:"name"`
	FrName        string   `yaml:"frName,omitempty"`
	Description   string   `yaml:"description,omitempty"`
	FrDescription string   `yaml:"frDescription,omitempty"`
	Order         int      `yaml:"order"`
	Clauses       []string `yaml:"clauses"`
}

func (d bundleYAML) bundle() Bundle {
	var b Bundle
	for _, c := range d.Clauses {
		b.Clauses = append(b.Clauses, Record(c))
	}
	for _, i := range d.Infos {
		b.Infos = append(b.Infos, InfoSection(i))
	}
	for _, p := range d.Presets {
		b.Presets = append(b.Presets, Preset(p))
	}
	return b
}
