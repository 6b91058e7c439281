package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Command params schemas. Commands without an entry accept any params
// object (including none).
var paramSchemas = map[string]json.RawMessage{
	"set_config": json.RawMessage(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"config": {"type": "object"}
		},
		"required": ["config"],
		"additionalProperties": false
	}`),
	"update": json.RawMessage(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"version": {"type": "string", "minLength": 1},
			"url": {"type": "string"}
		},
		"required": ["version"],
		"additionalProperties": false
	}`),
	"notification": json.RawMessage(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"title": {"type": "string", "minLength": 1},
			"body": {"type": "string"},
			"data": {"type": "object"}
		},
		"required": ["title"],
		"additionalProperties": false
	}`),
}

// Validator validates command params against per-command JSON Schema
// documents. Compiled schemas are cached.
type Validator struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

// NewValidator creates a new Validator with an empty cache.
func NewValidator() *Validator {
	return &Validator{
		cache: make(map[string]*jsonschema.Schema),
	}
}

// Validate validates params for the named command. Returns nil for
// commands with no registered schema.
func (v *Validator) Validate(command string, params map[string]any) error {
	doc, ok := paramSchemas[command]
	if !ok {
		return nil
	}

	compiled, err := v.compile(command, doc)
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	if params == nil {
		params = map[string]any{}
	}
	return compiled.Validate(params)
}

func (v *Validator) compile(command string, doc json.RawMessage) (*jsonschema.Schema, error) {
	v.mu.RLock()
	if s, ok := v.cache[command]; ok {
		v.mu.RUnlock()
		return s, nil
	}
	v.mu.RUnlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	// Double-check after acquiring write lock
	if s, ok := v.cache[command]; ok {
		return s, nil
	}

	var schemaMap any
	if err := json.Unmarshal(doc, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(command+".json", schemaMap); err != nil {
		return nil, fmt.Errorf("failed to add resource: %w", err)
	}
	compiled, err := c.Compile(command + ".json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile: %w", err)
	}

	v.cache[command] = compiled
	return compiled, nil
}
