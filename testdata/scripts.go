// Package testdata holds recorded typing scripts shared by end-to-end
// tests. A script is a sequence of held letters, hand losses and edits
// with the text it must produce.
package testdata

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/signetic/internal/detector"
)

//go:embed scripts/*.yaml
var scriptsFS embed.FS

// Step is one script entry. Exactly one of Edit or Frames is used; Hand
// is empty for frames without a hand.
type Step struct {
	Hand   string `yaml:"hand"`
	Frames int    `yaml:"frames"`
	Edit   string `yaml:"edit"`
}

// Landmarks returns the synthetic pose for the step, or nil when no hand
// is shown.
func (s Step) Landmarks() (*detector.HandLandmarks, error) {
	if s.Hand == "" {
		return nil, nil
	}
	hand, ok := detector.LetterLandmarks(s.Hand)
	if !ok {
		return nil, fmt.Errorf("no pose for letter %q", s.Hand)
	}
	return &hand, nil
}

// Script is a named typing scenario.
type Script struct {
	File      string `yaml:"-"`
	Name      string `yaml:"name"`
	Window    int    `yaml:"window"`
	Threshold int    `yaml:"threshold"`
	Steps     []Step `yaml:"steps"`
	Want      string `yaml:"want"`
}

func (s *Script) validate() error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if s.Window < 1 || s.Threshold < 1 {
		errs = append(errs, errors.New("window and threshold must be positive"))
	}
	for i, st := range s.Steps {
		switch {
		case st.Edit != "" && (st.Frames != 0 || st.Hand != ""):
			errs = append(errs, fmt.Errorf("step %d: edit cannot carry frames or a hand", i))
		case st.Edit == "" && st.Frames < 1:
			errs = append(errs, fmt.Errorf("step %d: frames must be positive", i))
		}
		if _, err := st.Landmarks(); err != nil {
			errs = append(errs, fmt.Errorf("step %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// LoadScripts decodes every embedded script, sorted by file name.
func LoadScripts() ([]Script, error) {
	names, err := fs.Glob(scriptsFS, "scripts/*.yaml")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	scripts := make([]Script, 0, len(names))
	for _, name := range names {
		data, err := scriptsFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		var s Script
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		s.File = path.Base(name)
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		scripts = append(scripts, s)
	}
	return scripts, nil
}
