package xmljson

import (
	"fmt"
	"sort"
	"strings"
)

const indentWidth = 4

// niemPrimitiveSuffixes are declaredType suffixes whose nodes render as a
// single "name: value" line with no further recursion. They cover the NIEM
// text, boolean, and date-time proxy primitives.
var niemPrimitiveSuffixes = []string{
	".TextType",
	".Boolean",
	".DateTimeType",
	".DateType",
}

// PrettyDisplay renders an arbitrary subtree of proxy JSON as an indented
// bullet outline, one level per four spaces. Serialization bookkeeping (nil
// flags, scope markers, type substitution markers, and with skipXML the raw
// declaredType/qualified-name fields) is suppressed so the outline reads
// like the record a clerk would describe. The function is total: any input,
// including nil, yields a string without panicking.
func PrettyDisplay(v any, depth int, skipXML bool, itemName string) string {
	tab := strings.Repeat(" ", depth)
	if itemName == "" {
		itemName = "Item"
	}

	switch val := v.(type) {
	case nil:
		return ""
	case []any:
		var b strings.Builder
		for idx, elem := range val {
			fmt.Fprintf(&b, "%s* %s %d:\n", tab, itemName, idx)
			b.WriteString(PrettyDisplay(elem, depth+indentWidth, skipXML, itemName))
		}
		return b.String()
	case map[string]any:
		return prettyMap(val, depth, skipXML, itemName)
	default:
		return tab + fmt.Sprint(val) + "\n"
	}
}

func prettyMap(m map[string]any, depth int, skipXML bool, itemName string) string {
	tab := strings.Repeat(" ", depth)
	node := Wrap(any(m))

	// A recognized NIEM primitive renders on one line and recursion stops.
	if declared := node.Get("declaredType").Str(); declared != "" {
		for _, suffix := range niemPrimitiveSuffixes {
			if strings.HasSuffix(declared, suffix) {
				name := stripNamespace(node.Get("name").Str())
				inner := node.Chain("value", "value")
				return fmt.Sprintf("%s* %s: %v\n", tab, name, inner.Value())
			}
		}
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		val := m[key]
		if suppressKey(key, val, skipXML) {
			continue
		}
		child := Wrap(val)
		if child.IsZero() && val != false {
			continue
		}
		// A scalar-valued envelope ({"value": "..."}) inlines as key: value.
		if s := child.Get("value").Str(); s != "" {
			fmt.Fprintf(&b, "%s* %s: %s\n", tab, key, s)
			continue
		}
		switch val.(type) {
		case map[string]any, []any:
			fmt.Fprintf(&b, "%s* %s:\n", tab, key)
			b.WriteString(PrettyDisplay(val, depth+indentWidth, skipXML, childItemName(key)))
		default:
			fmt.Fprintf(&b, "%s* %s: %v\n", tab, key, val)
		}
	}
	return b.String()
}

// suppressKey filters XML serialization bookkeeping out of the outline.
func suppressKey(key string, val any, skipXML bool) bool {
	switch key {
	case "nil":
		return val == false || val == nil
	case "globalScope":
		return val == true
	case "scope":
		if s, ok := val.(string); ok {
			return s != ""
		}
	case "typeSubstituted":
		return val == false || val == nil
	case "declaredType":
		if !skipXML {
			return false
		}
		_, isString := val.(string)
		return isString
	case "name":
		if !skipXML {
			return false
		}
		if s, ok := val.(string); ok {
			return strings.HasPrefix(s, "{")
		}
	}
	return false
}

// childItemName derives the label used for list items one level down,
// stripping the ubiquitous "document" prefix so entries read as what they
// are rather than as wire-format field names.
func childItemName(key string) string {
	trimmed := strings.TrimPrefix(key, "document")
	if trimmed == "" {
		return key
	}
	return trimmed
}

// stripNamespace removes a leading {namespace-uri} qualifier from a JAXB
// element name.
func stripNamespace(name string) string {
	if strings.HasPrefix(name, "{") {
		if end := strings.Index(name, "}"); end >= 0 {
			return name[end+1:]
		}
	}
	return name
}
