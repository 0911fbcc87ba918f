package application

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://lsmc.local/schemas/application.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("application schema load failed: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("application schema compile failed: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// Problem is one schema violation.
type Problem struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationError lists every problem found in a record.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		if p.Field == "" {
			parts = append(parts, p.Message)
			continue
		}
		parts = append(parts, p.Field+": "+p.Message)
	}
	return "invalid application: " + strings.Join(parts, "; ")
}

// Validate checks the record against the embedded JSON Schema.
// Schema violations are returned as *ValidationError.
func (a *Application) Validate() error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshaling application: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decoding application: %w", err)
	}

	err = s.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("validating application: %w", err)
	}

	verr := &ValidationError{}
	collectProblems(ve, &verr.Problems)
	sort.SliceStable(verr.Problems, func(i, j int) bool {
		return verr.Problems[i].Field < verr.Problems[j].Field
	})
	return verr
}

func collectProblems(ve *jsonschema.ValidationError, out *[]Problem) {
	if len(ve.Causes) == 0 {
		*out = append(*out, Problem{
			Field:   strings.TrimPrefix(ve.InstanceLocation, "/"),
			Message: ve.Message,
		})
		return
	}
	for _, c := range ve.Causes {
		collectProblems(c, out)
	}
}
