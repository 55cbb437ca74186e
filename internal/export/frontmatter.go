package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingFrontMatter indicates the document did not start with a YAML fence.
	ErrMissingFrontMatter = errors.New("export: missing frontmatter")
	// ErrMalformedFrontMatter indicates the YAML block could not be parsed.
	ErrMalformedFrontMatter = errors.New("export: malformed frontmatter")
)

// ParseFrontMatter splits a document fenced by `---` lines into its metadata
// and body.
func ParseFrontMatter(content []byte) (Metadata, []byte, error) {
	if len(content) == 0 {
		return Metadata{}, nil, ErrMissingFrontMatter
	}
	normalized := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return Metadata{}, nil, ErrMissingFrontMatter
	}
	head, body, found := bytes.Cut(normalized[4:], []byte("\n---\n"))
	if !found {
		return Metadata{}, nil, ErrMalformedFrontMatter
	}
	var envelope exportEnvelope
	if err := yaml.Unmarshal(head, &envelope); err != nil {
		return Metadata{}, nil, fmt.Errorf("export: parse frontmatter: %w", err)
	}
	meta, err := envelope.toMetadata()
	if err != nil {
		return Metadata{}, nil, err
	}
	return meta, bytes.TrimPrefix(body, []byte("\n")), nil
}

// WriteFrontMatter renders metadata and body with YAML fences.
func WriteFrontMatter(meta Metadata, body []byte) ([]byte, error) {
	if meta.Session == "" {
		return nil, fmt.Errorf("export: metadata missing session")
	}
	if meta.Checksum == "" {
		return nil, fmt.Errorf("export: metadata missing checksum")
	}
	var envelope exportEnvelope
	envelope.fromMetadata(meta)
	data, err := yaml.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("export: encode frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(bytes.TrimRight(data, "\n"))
	buf.WriteString("\n---\n\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

type exportEnvelope struct {
	Project projectMetadata `yaml:"urbanProject"`
}

type projectMetadata struct {
	Session  string `yaml:"session"`
	Name     string `yaml:"name,omitempty"`
	Site     string `yaml:"site,omitempty"`
	Phase    string `yaml:"phase,omitempty"`
	Step     string `yaml:"step"`
	Events   int    `yaml:"events"`
	Created  string `yaml:"created"`
	Checksum string `yaml:"checksum"`
}

func (e exportEnvelope) toMetadata() (Metadata, error) {
	p := e.Project
	if p.Session == "" || p.Checksum == "" {
		return Metadata{}, ErrMalformedFrontMatter
	}
	if strings.TrimSpace(p.Created) == "" {
		return Metadata{}, fmt.Errorf("export: empty created timestamp")
	}
	created, err := time.Parse(time.RFC3339, p.Created)
	if err != nil {
		return Metadata{}, fmt.Errorf("export: parse created timestamp: %w", err)
	}
	return Metadata{
		Session:   p.Session,
		Name:      p.Name,
		Site:      p.Site,
		Phase:     p.Phase,
		Step:      p.Step,
		Events:    p.Events,
		CreatedAt: created.UTC(),
		Checksum:  p.Checksum,
	}, nil
}

func (e *exportEnvelope) fromMetadata(meta Metadata) {
	e.Project = projectMetadata{
		Session:  meta.Session,
		Name:     meta.Name,
		Site:     meta.Site,
		Phase:    meta.Phase,
		Step:     meta.Step,
		Events:   meta.Events,
		Created:  meta.CreatedAt.UTC().Format(time.RFC3339),
		Checksum: meta.Checksum,
	}
}
