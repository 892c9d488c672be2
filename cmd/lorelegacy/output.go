package main

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/lorelegacy/internal/errors"
)

// Output formats shared by the commands
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

var structuredOutputs = []string{outputText, outputJSON, outputYAML}

func validateOutput(format string) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateEnum("output", format, structuredOutputs, vb)
	return vb.Build()
}

// writeStructured prints v as JSON or YAML. YAML goes through the JSON
// encoding first so both formats share the same keys.
func writeStructured(w io.Writer, format string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode output")
	}

	if format == outputJSON {
		_, err = w.Write(append(raw, '\n'))
		return err
	}

	var plain any
	if err := json.Unmarshal(raw, &plain); err != nil {
		return errors.Wrap(err, "failed to encode output")
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(plain); err != nil {
		return errors.Wrap(err, "failed to encode yaml output")
	}
	return enc.Close()
}
