package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aursu/sshdconf/internal/index"
)

// Option is one resolved key/value pair.
type Option struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Block is the resolved content of one Match scope.
type Block struct {
	Condition string   `json:"condition" yaml:"condition"`
	Options   []Option `json:"options" yaml:"options"`
}

// Doc is the fully resolved effective configuration: for every scope,
// the value each option actually takes under first-match-wins
// evaluation. Order follows first appearance in read order.
type Doc struct {
	Global []Option `json:"global" yaml:"global"`
	Match  []Block  `json:"match,omitempty" yaml:"match,omitempty"`
}

// BuildDump folds the index into a Doc, keeping only the first (winning)
// occurrence of each key per scope.
func BuildDump(idx *index.Index) *Doc {
	doc := &Doc{}
	seenGlobal := make(map[string]bool)
	blockByPred := make(map[string]int)
	seenBlock := make(map[string]map[string]bool)

	for _, d := range idx.Directives {
		lower := strings.ToLower(d.Key)
		if d.Scope.Global() {
			if seenGlobal[lower] {
				continue
			}
			seenGlobal[lower] = true
			doc.Global = append(doc.Global, Option{Key: d.Key, Value: d.Value})
			continue
		}

		pred := d.Scope.Predicate
		bi, ok := blockByPred[pred]
		if !ok {
			bi = len(doc.Match)
			blockByPred[pred] = bi
			doc.Match = append(doc.Match, Block{Condition: d.Scope.String()})
			seenBlock[pred] = make(map[string]bool)
		}
		if seenBlock[pred][lower] {
			continue
		}
		seenBlock[pred][lower] = true
		doc.Match[bi].Options = append(doc.Match[bi].Options, Option{Key: d.Key, Value: d.Value})
	}
	return doc
}

// FormatDump serializes a Doc as text, json, or yaml.
func FormatDump(doc *Doc, format string) (string, error) {
	switch format {
	case "text":
		return dumpText(doc), nil
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	case "yaml":
		data, err := yaml.Marshal(doc)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return "", fmt.Errorf("unknown dump format %q (want text, json, or yaml)", format)
}

func dumpText(doc *Doc) string {
	var b strings.Builder
	for _, opt := range doc.Global {
		fmt.Fprintf(&b, "%s %s\n", opt.Key, opt.Value)
	}
	for _, block := range doc.Match {
		fmt.Fprintf(&b, "\nMatch %s\n", block.Condition)
		for _, opt := range block.Options {
			fmt.Fprintf(&b, "    %s %s\n", opt.Key, opt.Value)
		}
	}
	return b.String()
}
