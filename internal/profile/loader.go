package profile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Load reads the profile document at path. A missing or invalid document is
// not fatal: the problem is logged and Default is returned.
func Load(path string, logger *zap.Logger) *Profile {
	if logger == nil {
		logger = zap.NewNop()
	}

	p, err := Read(path)
	if err != nil {
		logger.Warn("using built-in profile", zap.String("path", path), zap.Error(err))
		return Default()
	}

	logger.Info("profile loaded", zap.String("path", path), zap.String("name", p.DisplayName()))
	return p
}

// Read parses the profile document at path.
func Read(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	return Parse(data)
}

// Parse decodes a YAML profile document.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("profile document is empty")
		}
		return nil, fmt.Errorf("decoding profile: %w", err)
	}

	if p.Personal != nil {
		mergeIdentity(&p.Identity, *p.Personal)
		p.Personal = nil
	}

	return &p, nil
}

// Save writes p as YAML to path.
func Save(p *Profile, path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	return nil
}

func mergeIdentity(dst *Identity, src Identity) {
	fill := func(d *string, s string) {
		if *d == "" {
			*d = s
		}
	}
	fill(&dst.Name, src.Name)
	fill(&dst.Location, src.Location)
	fill(&dst.Email, src.Email)
	fill(&dst.Phone, src.Phone)
	fill(&dst.LinkedIn, src.LinkedIn)
	fill(&dst.GitHub, src.GitHub)
	fill(&dst.Summary, src.Summary)
}
