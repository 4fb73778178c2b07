// Package directory holds the static lookup tables used while parsing chat
// messages: source token -> canonical label, and submitter identity -> display name.
// Both are built once at startup and are read-only afterwards.
package directory

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"scoresheet/ingestion/internal/models"
)

// variationSelector16 requests emoji presentation and is dropped by some clients
const variationSelector16 = "\uFE0F"

// Labels resolves source tokens (flag glyphs, team codes) to canonical labels
type Labels struct {
	exact  map[string]string
	folded map[string]string
}

// NewLabels copies the mapping into an immutable label directory
func NewLabels(mapping map[string]string) *Labels {
	l := &Labels{
		exact:  make(map[string]string, len(mapping)),
		folded: make(map[string]string, len(mapping)),
	}
	for token, label := range mapping {
		key := normalizeToken(token)
		label = strings.TrimSpace(label)
		if key == "" || label == "" {
			continue
		}
		l.exact[key] = label
		l.folded[foldCase(key)] = label
	}
	return l
}

// Resolve returns the canonical label for a token
func (l *Labels) Resolve(token string) (string, bool) {
	key := normalizeToken(token)
	if key == "" {
		return "", false
	}
	if label, ok := l.exact[key]; ok {
		return label, true
	}
	label, ok := l.folded[foldCase(key)]
	return label, ok
}

// Len returns the number of distinct tokens
func (l *Labels) Len() int {
	return len(l.exact)
}

// Identities resolves submitter identities (phone-number keys) to display names
type Identities struct {
	names map[string]string
}

// NewIdentities copies the mapping into an immutable identity directory
func NewIdentities(mapping map[string]string) *Identities {
	ids := &Identities{names: make(map[string]string, len(mapping))}
	for identity, name := range mapping {
		key := normalizeIdentity(identity)
		name = strings.TrimSpace(name)
		if key == "" || name == "" {
			continue
		}
		ids.names[key] = name
	}
	return ids
}

// DisplayName returns the display name for an identity, or nil when unknown.
// Callers must keep the nil: the raw identity is still meaningful downstream.
func (i *Identities) DisplayName(identity string) *string {
	name, ok := i.names[normalizeIdentity(identity)]
	if !ok {
		return nil
	}
	return &name
}

// Len returns the number of known identities
func (i *Identities) Len() int {
	return len(i.names)
}

// Directory bundles both lookup tables
type Directory struct {
	Labels     *Labels
	Identities *Identities
}

// File is the on-disk YAML layout of a directory file
type File struct {
	Labels     map[string]string `yaml:"labels"`
	Identities map[string]string `yaml:"identities"`
}

// New builds a directory from raw mappings
func New(labels, identities map[string]string) *Directory {
	return &Directory{
		Labels:     NewLabels(labels),
		Identities: NewIdentities(identities),
	}
}

// Load reads a YAML directory file. Labels missing from the file fall back to
// the built-in tournament labels.
func Load(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML directory document
func Parse(data []byte) (*Directory, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse directory file: %w", err)
	}

	labels := make(map[string]string, len(DefaultLabels)+len(f.Labels))
	for token, label := range DefaultLabels {
		labels[token] = label
	}
	for token, label := range f.Labels {
		labels[token] = label
	}

	return New(labels, f.Identities), nil
}

// Default returns the built-in labels and an empty identity directory
func Default() *Directory {
	return New(DefaultLabels, nil)
}

// foldCase builds a Caser per call; Casers are stateful and Resolve runs concurrently
func foldCase(s string) string {
	return cases.Fold().String(s)
}

func normalizeToken(token string) string {
	token = norm.NFC.String(strings.TrimSpace(token))
	return strings.ReplaceAll(token, variationSelector16, "")
}

func normalizeIdentity(identity string) string {
	identity = models.SubmitterIdentity(identity)
	identity = strings.TrimPrefix(identity, "+")
	return strings.ReplaceAll(identity, " ", "")
}
