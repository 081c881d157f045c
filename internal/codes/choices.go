package codes

import (
	"fmt"
	"regexp"

	"github.com/samber/lo"

	"github.com/openefiling/efmkit/internal/xmljson"
)

var displayFieldPattern = regexp.MustCompile(`\{(\w+)\}`)

// ChoicesAndMap converts rows from the codes service into display options
// plus a map from code back to the full row. The display template names row
// fields in braces ("{name}"); backing names the field used as the code.
// Defaults match the service's own conventions: display "{name}", backing
// "code". A nil row list yields empty results, not an error.
func ChoicesAndMap(rows []any, display, backing string) ([]Option, map[string]map[string]any) {
	if display == "" {
		display = "{name}"
	}
	if backing == "" {
		backing = "code"
	}

	codeMap := make(map[string]map[string]any, len(rows))
	options := lo.FilterMap(rows, func(raw any, _ int) (Option, bool) {
		row := xmljson.Wrap(raw).Map()
		if row == nil {
			return Option{}, false
		}
		code := xmljson.Wrap(raw).Get(backing).Str()
		label := displayFieldPattern.ReplaceAllStringFunc(display, func(match string) string {
			field := match[1 : len(match)-1]
			if v, ok := row[field]; ok && v != nil {
				return fmt.Sprint(v)
			}
			return ""
		})
		codeMap[code] = row
		return Option{Code: code, Label: label}, true
	})
	return options, codeMap
}

// FromResponseData converts the raw data payload of a codes-service call
// into options. Anything that is not a list of rows yields nil.
func FromResponseData(data any) ([]Option, map[string]map[string]any) {
	return ChoicesAndMap(xmljson.Wrap(data).Slice(), "", "")
}
