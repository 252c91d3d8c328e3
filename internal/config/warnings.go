package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// sectionTypes maps top-level sections to the struct that decodes them.
// Top-level keys outside this map are ignored without a warning.
var sectionTypes = map[string]reflect.Type{
	"document": reflect.TypeOf(DocumentConfig{}),
	"table":    reflect.TypeOf(TableConfig{}),
	"image":    reflect.TypeOf(ImageConfig{}),
	"math":     reflect.TypeOf(MathConfig{}),
	"toc":      reflect.TypeOf(TOCConfig{}),
}

// nestedTypes maps "section.key" to the struct of a nested mapping.
var nestedTypes = map[string]reflect.Type{
	"table.padding": reflect.TypeOf(PaddingConfig{}),
}

// unknownKeys returns a sorted warning per unrecognized key inside a
// known section.
func unknownKeys(raw map[string]any) []string {
	var warnings []string

	for section, typ := range sectionTypes {
		m, ok := raw[section].(map[string]any)
		if !ok {
			continue
		}
		warnings = append(warnings, checkKeys(section, m, typ)...)
	}

	if styles, ok := raw["styles"].(map[string]any); ok {
		styleType := reflect.TypeOf(StyleConfig{})
		for role, v := range styles {
			prefix := "styles." + role
			if !IsKnownRole(role) {
				warnings = append(warnings, fmt.Sprintf("%s: unknown style role", prefix))
				continue
			}
			if m, ok := v.(map[string]any); ok {
				warnings = append(warnings, checkKeys(prefix, m, styleType)...)
			}
		}
	}

	sort.Strings(warnings)
	return warnings
}

func checkKeys(prefix string, m map[string]any, typ reflect.Type) []string {
	known := yamlKeys(typ)
	var warnings []string
	for k, v := range m {
		path := prefix + "." + k
		if !known[k] {
			warnings = append(warnings, fmt.Sprintf("%s: unknown key", path))
			continue
		}
		if nested, ok := nestedTypes[path]; ok {
			if sub, ok := v.(map[string]any); ok {
				warnings = append(warnings, checkKeys(path, sub, nested)...)
			}
		}
	}
	return warnings
}

// yamlKeys collects the yaml tag names of typ's exported fields.
func yamlKeys(typ reflect.Type) map[string]bool {
	keys := make(map[string]bool, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("yaml")
		if tag == "-" || !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		keys[name] = true
	}
	return keys
}
