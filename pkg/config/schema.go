package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
)

// requiredKeys are the settings with no usable default.
var requiredKeys = map[string][]string{
	"database": {"url", "name"},
}

// Schema returns a JSON Schema (draft 2020-12) describing Config, keyed by
// the same names the loader accepts and carrying DefaultConfig as defaults.
func Schema(serviceName string) (*jsonschema.Schema, error) {
	t := reflect.TypeOf(Config{})
	schema, err := jsonschema.ForType(t, &jsonschema.ForOptions{
		IgnoreInvalidTypes: true,
		TypeSchemas: map[reflect.Type]*jsonschema.Schema{
			reflect.TypeOf(time.Duration(0)): {Type: "string"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build config schema: %w", err)
	}
	renameProperties(schema, t)
	injectDefaults(schema, reflect.ValueOf(*DefaultConfig()))
	pruneRequired(schema)
	for section, keys := range requiredKeys {
		if prop := schema.Properties[section]; prop != nil {
			prop.Required = append(prop.Required, keys...)
		}
	}
	schema.Required = append(schema.Required, "database")

	if strings.TrimSpace(serviceName) == "" {
		serviceName = "Service"
	}
	schema.Schema = "https://json-schema.org/draft/2020-12/schema"
	schema.Title = serviceName + " Configuration"
	schema.Description = "Schema for " + serviceName + " configuration. Every key can be set with APP_<SECTION>_<KEY>."
	return schema, nil
}

// renameProperties replaces Go field names with mapstructure keys.
func renameProperties(schema *jsonschema.Schema, t reflect.Type) {
	if schema == nil {
		return
	}
	switch t.Kind() {
	case reflect.Struct:
		renamed := make(map[string]string, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			prop, ok := schema.Properties[field.Name]
			if !field.IsExported() || !ok {
				continue
			}
			key := keyName(field)
			delete(schema.Properties, field.Name)
			schema.Properties[key] = prop
			renamed[field.Name] = key
			renameProperties(prop, field.Type)
		}
		for i, name := range schema.Required {
			if key, ok := renamed[name]; ok {
				schema.Required[i] = key
			}
		}
	case reflect.Slice, reflect.Array:
		renameProperties(schema.Items, t.Elem())
	}
}

func injectDefaults(schema *jsonschema.Schema, value reflect.Value) {
	if schema == nil {
		return
	}
	if value.Kind() == reflect.Struct {
		t := value.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			key := keyName(field)
			prop := schema.Properties[key]
			if prop == nil {
				continue
			}
			if field.Type.Kind() != reflect.Struct {
				// Type schemas such as the duration one may be shared between fields.
				leaf := *prop
				prop = &leaf
				schema.Properties[key] = prop
			}
			injectDefaults(prop, value.Field(i))
		}
		return
	}
	if schema.Default != nil {
		return
	}
	var v interface{} = value.Interface()
	if d, ok := v.(time.Duration); ok {
		v = d.String()
	}
	if raw, err := json.Marshal(v); err == nil {
		schema.Default = raw
	}
}

// pruneRequired drops required entries that have a default.
func pruneRequired(schema *jsonschema.Schema) {
	if schema == nil {
		return
	}
	kept := schema.Required[:0]
	for _, name := range schema.Required {
		prop := schema.Properties[name]
		if prop == nil || (prop.Default == nil && len(prop.Properties) == 0) {
			kept = append(kept, name)
		}
	}
	schema.Required = kept
	for _, prop := range schema.Properties {
		pruneRequired(prop)
	}
}

func keyName(field reflect.StructField) string {
	for _, tag := range []string{"mapstructure", "yaml"} {
		if name, _, _ := strings.Cut(field.Tag.Get(tag), ","); name != "" && name != "-" {
			return name
		}
	}
	return strings.ToLower(field.Name)
}
