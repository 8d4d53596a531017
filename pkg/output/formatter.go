// Package output renders generated reports to the console and serializes
// them as YAML or JSON documents.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/makegrind/makegrind/pkg/report"
)

// WriteYAML writes each report as its own YAML document.
func WriteYAML(w io.Writer, reports ...report.Report) error {
	for i, r := range reports {
		fields, err := report.Render(r)
		if err != nil {
			return fmt.Errorf("generating %s report: %w", r.Key(), err)
		}
		if i > 0 {
			fmt.Fprintln(w, "---")
		}
		data, err := yaml.Marshal(fields)
		if err != nil {
			return fmt.Errorf("serializing %s report: %w", r.Key(), err)
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes the reports as one JSON array.
func WriteJSON(w io.Writer, reports ...report.Report) error {
	rendered := make([]report.Fields, 0, len(reports))
	for _, r := range reports {
		fields, err := report.Render(r)
		if err != nil {
			return fmt.Errorf("generating %s report: %w", r.Key(), err)
		}
		rendered = append(rendered, fields)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rendered)
}

// PrintReports renders reports for reading on a terminal: a colorized
// header per report followed by its YAML body.
func PrintReports(w io.Writer, reports ...report.Report) error {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)

	for _, r := range reports {
		fields, err := report.Render(r)
		if err != nil {
			return fmt.Errorf("generating %s report: %w", r.Key(), err)
		}

		bold.Fprintln(w, r.Name())
		cyan.Fprintf(w, "%s generated %s\n", r.Key(), r.Date().Format("2006-01-02 15:04:05"))

		// Drop the header fields already printed above.
		body := report.Fields{}
		for _, f := range fields {
			switch f.Key {
			case "key", "name", "date":
				continue
			}
			body = append(body, f)
		}

		data, err := yaml.Marshal(body)
		if err != nil {
			return fmt.Errorf("serializing %s report: %w", r.Key(), err)
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return nil
}
