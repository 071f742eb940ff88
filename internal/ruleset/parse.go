// Package ruleset loads atari rule files, validates and normalizes their rules,
// and publishes compiled snapshots to concurrent readers.
package ruleset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/laneticket/atari-server/internal/domain"
	domainerrors "github.com/laneticket/atari-server/internal/errors"
	"github.com/laneticket/atari-server/internal/pattern"
	"github.com/laneticket/atari-server/internal/validation"
)

// Format is the encoding of a rule file.
type Format string

// Supported rule file formats.
const (
	FormatJSON  Format = "json"
	FormatJSONC Format = "jsonc"
	FormatYAML  Format = "yaml"
)

// FormatFromPath infers the format from a file extension. Unknown extensions are read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonc", ".json5":
		return FormatJSONC
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

var validator = sync.OnceValue(validation.New)

// Parse decodes a rule array, validates every rule and pads every pattern to its
// canonical form. Field errors are reported in the details keyed by "rules[i].field".
func Parse(data []byte, format Format) ([]domain.AtariRule, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, domainerrors.InvalidInput("rule file is empty")
	}

	var rules []domain.AtariRule
	if err := Decode(data, format, &rules, "rule"); err != nil {
		return nil, err
	}

	if err := normalize(rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// Decode unmarshals a JSON, JSONC or YAML list into dst. what names the list
// entries in error messages ("rule", "song").
func Decode(data []byte, format Format, dst any, what string) error {
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, dst); err != nil {
			return domainerrors.Wrapf(err, domainerrors.CodeInvalidInput, "%s file is not a YAML %s list", what, what)
		}
	case FormatJSONC:
		data = jsonc.ToJSON(data)
		fallthrough
	case FormatJSON, "":
		if err := json.Unmarshal(data, dst); err != nil {
			return domainerrors.Wrapf(err, domainerrors.CodeInvalidInput, "%s file is not a JSON %s array", what, what)
		}
	default:
		return domainerrors.InvalidInput(fmt.Sprintf("unsupported %s format %q", what, format))
	}
	return nil
}

func normalize(rules []domain.AtariRule) error {
	v := validator()
	details := make(map[string]string)

	for i := range rules {
		prefix := fmt.Sprintf("rules[%d]", i)

		if err := v.Validate(rules[i]); err != nil {
			var domainErr *domainerrors.Error
			if domainerrors.As(err, &domainErr) {
				if fields, ok := domainErr.Details.(map[string]string); ok {
					for field, msg := range fields {
						details[prefix+"."+field] = msg
					}
					continue
				}
			}
			details[prefix] = err.Error()
			continue
		}

		for j, p := range rules[i].Patterns {
			canonical, err := pattern.Canonical(p)
			if err != nil {
				details[fmt.Sprintf("%s.patterns[%d]", prefix, j)] = err.Error()
				continue
			}
			rules[i].Patterns[j] = canonical
		}
	}

	if len(details) > 0 {
		return domainerrors.ValidationWithDetails("invalid rule set", details)
	}
	return nil
}
