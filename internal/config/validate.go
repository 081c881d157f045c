package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// settingsSchema constrains the config file shape. Kept loose on purpose:
// unknown keys are allowed so older binaries tolerate newer config files,
// but a wrongly-typed known field fails fast instead of zeroing out at
// unmarshal time.
const settingsSchema = `{
  "type": "object",
  "properties": {
    "proxy": {
      "type": "object",
      "properties": {
        "url": {"type": "string"},
        "api_key": {"type": "string"},
        "jurisdiction": {"type": "string"}
      }
    },
    "search": {
      "type": "object",
      "properties": {
        "window_size": {"type": "integer", "minimum": 1}
      }
    },
    "cache": {
      "type": "object",
      "properties": {
        "redis_url": {"type": "string"},
        "ttl_minutes": {"type": "integer", "minimum": 0}
      }
    },
    "admin": {
      "type": "object",
      "properties": {
        "global_admins": {"type": "array", "items": {"type": "string"}}
      }
    },
    "debug": {"type": "boolean"}
  }
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("config.schema.json", strings.NewReader(settingsSchema)); err != nil {
		panic(err)
	}
	return compiler.MustCompile("config.schema.json")
}

// validateSettings checks merged settings against the schema. The settings
// map is round-tripped through JSON so native Go values take the shapes
// the validator understands.
func validateSettings(settings map[string]any) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to serialize config for validation: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to decode config for validation: %w", err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return fmt.Errorf("config does not match schema: %w", err)
	}
	return nil
}
