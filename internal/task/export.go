package task

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(v string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, v)
}

// FormatFromPath guesses the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return FormatYAML
	}
	return FormatJSON
}

func (f Format) Ext() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// ExportFileName is the default name for an export written on day.
func ExportFileName(day time.Time, f Format) string {
	return fmt.Sprintf("tasks-%s.%s", day.Format("2006-01-02"), f.Ext())
}

// Export writes tasks pretty-printed. An empty list is ErrNothingToExport.
func Export(w io.Writer, tasks []Task, f Format) error {
	if len(tasks) == 0 {
		return ErrNothingToExport
	}
	switch f {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
}

// Decode reads an export back. Every record needs text and a valid priority.
func Decode(r io.Reader, f Format) ([]Task, error) {
	var tasks []Task
	switch f {
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&tasks); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&tasks); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
	for i, t := range tasks {
		if strings.TrimSpace(t.Text) == "" {
			return nil, fmt.Errorf("record %d: %w", i+1, ErrEmptyText)
		}
		p, err := ParsePriority(string(t.Priority))
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		tasks[i].Priority = p
	}
	return tasks, nil
}
