/*
Package config provides the settings of a two-fold evaluation run and
their parsing from YAML documents.
*/
package config

import (
	"fmt"
	"io/ioutil"

	yaml "gopkg.in/yaml.v2"
)

const (
	// DigitsDomain is the label domain of digit labels 0 to Classes-1
	DigitsDomain = "digits"
	// ObservedDomain is the label domain of the labels found on the datasets
	ObservedDomain = "observed"

	// DefaultClasses is the number of digit labels when none is configured
	DefaultClasses = 10
	// DefaultTable is the table or collection read from database sources
	DefaultTable = "rows"
	// DefaultReportPrefix is the prefix of the keys reports are published under
	DefaultReportPrefix = "sapling"
)

/*
Run holds the settings of a two-fold evaluation. A TargetIndex of -1 selects
the last column of the rows as the label.
*/
type Run struct {
	DatasetA     string `yaml:"datasetA"`
	DatasetB     string `yaml:"datasetB"`
	TargetIndex  int    `yaml:"targetIndex"`
	Header       bool   `yaml:"header"`
	Table        string `yaml:"table"`
	PrintDetails bool   `yaml:"printDetails"`
	LabelDomain  string `yaml:"labelDomain"`
	Classes      int    `yaml:"classes"`
	Report       Report `yaml:"report"`
}

// Report holds where fold reports are published
type Report struct {
	Redis  string `yaml:"redis"`
	Prefix string `yaml:"prefix"`
}

// Default returns the settings used for anything a document does not set
func Default() *Run {
	return &Run{
		TargetIndex: -1,
		Table:       DefaultTable,
		LabelDomain: DigitsDomain,
		Classes:     DefaultClasses,
		Report:      Report{Prefix: DefaultReportPrefix},
	}
}

/*
Parse takes a slice of bytes with a YAML document and returns the Run
settings it describes on top of Default(), or an error if the document
cannot be parsed or the settings are invalid.
*/
func Parse(doc []byte) (*Run, error) {
	r := Default()
	err := yaml.UnmarshalStrict(doc, r)
	if err != nil {
		return nil, fmt.Errorf("parsing yml config: %v", err)
	}
	err = r.Validate()
	if err != nil {
		return nil, err
	}
	return r, nil
}

/*
Load takes a filepath string, reads its contents and uses Parse to
return the Run settings on it or an error.
*/
func Load(filepath string) (*Run, error) {
	doc, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %v", filepath, err)
	}
	r, err := Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("loading config file %s: %v", filepath, err)
	}
	return r, nil
}

// Validate returns an error describing the first invalid setting found, if any
func (r *Run) Validate() error {
	if r.DatasetA == "" || r.DatasetB == "" {
		return fmt.Errorf("both datasetA and datasetB must be set")
	}
	if r.TargetIndex < -1 {
		return fmt.Errorf("invalid targetIndex %d", r.TargetIndex)
	}
	switch r.LabelDomain {
	case DigitsDomain:
		if r.Classes < 1 {
			return fmt.Errorf("invalid number of classes %d", r.Classes)
		}
	case ObservedDomain:
	default:
		return fmt.Errorf("unknown labelDomain %q, expected %q or %q", r.LabelDomain, DigitsDomain, ObservedDomain)
	}
	if r.Table == "" {
		return fmt.Errorf("table must not be empty")
	}
	if r.Report.Redis != "" && r.Report.Prefix == "" {
		return fmt.Errorf("report.prefix must be set to publish reports on redis")
	}
	return nil
}

// YAML returns the settings as a YAML document
func (r *Run) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}
