package rule

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/jdziat/simple-eca/pkg/security"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Decode reads a rule set in JSON form.
func Decode(r io.Reader) ([]Rule, error) {
	data, err := io.ReadAll(io.LimitReader(r, security.MaxRuleFileSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > security.MaxRuleFileSize {
		return nil, fmt.Errorf("rule set exceeds %d bytes", security.MaxRuleFileSize)
	}

	var set Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("decode rule set: %w", err)
	}
	return set.Rules, nil
}

// Encode writes rules in the form Decode reads.
func Encode(w io.Writer, rules []Rule) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Set{Rules: rules})
}

// LoadFile reads a rule set from path.
func LoadFile(path string) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rules, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// Load replaces the engine's rules with those in path.
func (e *Engine) Load(path string) error {
	rules, err := LoadFile(path)
	if err != nil {
		return err
	}
	return e.Replace(rules)
}
