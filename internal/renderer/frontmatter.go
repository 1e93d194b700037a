package renderer

import (
	"bytes"
	"errors"
	"strings"
	"time"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/chronicle/internal/foundation/errors"
	"git.home.luguber.info/inful/chronicle/internal/models"
)

// FrontMatter is the YAML block written at the top of every chronicle file.
type FrontMatter struct {
	Title       string `yaml:"title"`
	Date        string `yaml:"date"`
	Since       string `yaml:"since"`
	Generated   string `yaml:"generated"`
	RunID       string `yaml:"run_id,omitempty"`
	Fingerprint string `yaml:"fingerprint,omitempty"`
}

var (
	delimiter = []byte("---\n")
	closing   = []byte("\n---\n")
)

// ErrMissingClosingDelimiter reports a document that opens front matter but never closes it.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// Document renders the report with its front matter block.
func (r *Renderer) Document(c *models.Chronicle, runID string) ([]byte, error) {
	fm := FrontMatter{
		Title:     "Chronicle: " + c.Date.Format(time.DateOnly),
		Date:      c.Date.Format(time.DateOnly),
		Since:     c.Since.UTC().Format(time.RFC3339),
		Generated: c.GeneratedAt.UTC().Format(time.RFC3339),
		RunID:     runID,
	}
	body := r.Render(c) + "\n"

	fp, err := fingerprint(fm, body)
	if err != nil {
		return nil, ferrors.RenderError("failed to fingerprint chronicle").WithCause(err).Build()
	}
	fm.Fingerprint = fp

	header, err := yaml.Marshal(fm)
	if err != nil {
		return nil, ferrors.RenderError("failed to marshal front matter").WithCause(err).Build()
	}

	var buf bytes.Buffer
	buf.Write(delimiter)
	buf.Write(header)
	buf.Write(delimiter)
	buf.WriteString(body)
	return buf.Bytes(), nil
}

// fingerprint hashes the front matter without its fingerprint field together with the body.
func fingerprint(fm FrontMatter, body string) (string, error) {
	fm.Fingerprint = ""
	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(header), "\n"), body), nil
}

// Split separates the front matter from the body. had is false when content
// has no front matter, in which case body is the whole input.
func Split(content []byte) (fm FrontMatter, body []byte, had bool, err error) {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(content, delimiter) {
		return FrontMatter{}, content, false, nil
	}
	rest := content[len(delimiter):]
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		return FrontMatter{}, nil, false, ErrMissingClosingDelimiter
	}
	if err := yaml.Unmarshal(rest[:idx+1], &fm); err != nil {
		return FrontMatter{}, nil, false, ferrors.RenderError("failed to parse front matter").WithCause(err).Build()
	}
	return fm, rest[idx+len(closing):], true, nil
}

// Verify reports whether the stored fingerprint still matches the content.
// A document without front matter or without a fingerprint does not verify.
func Verify(content []byte) (bool, error) {
	fm, body, had, err := Split(content)
	if err != nil {
		return false, err
	}
	if !had || fm.Fingerprint == "" {
		return false, nil
	}
	want, err := fingerprint(fm, string(body))
	if err != nil {
		return false, err
	}
	return want == fm.Fingerprint, nil
}
