package typegen

import (
	"regexp"
	"strings"

	"github.com/teranos/vkdoc/errors"
)

var (
	funcPointerPattern = regexp.MustCompile(`(?s)typedef\s+(.+?)\s*\(\s*VKAPI_PTR\s*\*\s*(\w+)\s*\)\s*\((.*)\)\s*;`)
	paramPattern       = regexp.MustCompile(`^(.+?)\s*\b(\w+)((?:\[\w+\])*)$`)
	dimsPattern        = regexp.MustCompile(`\[(\w+)\]`)
	spaces             = regexp.MustCompile(`\s+`)
)

// parseFuncPointer reads the return type and parameters from a textual
// function pointer typedef:
//
//	typedef void* (VKAPI_PTR *PFN_vkAllocationFunction)(void* pUserData, size_t size);
func parseFuncPointer(code string) (string, []Field, error) {
	m := funcPointerPattern.FindStringSubmatch(code)
	if m == nil {
		return "", nil, errors.New("unrecognised function pointer typedef")
	}
	ret := normalizeSpace(m[1])

	list := strings.TrimSpace(m[3])
	if list == "" || list == "void" {
		return ret, nil, nil
	}

	var fields []Field
	for _, raw := range strings.Split(list, ",") {
		param := normalizeSpace(raw)
		pm := paramPattern.FindStringSubmatch(param)
		if pm == nil {
			return "", nil, errors.Newf("unrecognised parameter %q", param)
		}
		f := Field{Type: normalizeSpace(pm[1]), Name: pm[2]}
		for _, dm := range dimsPattern.FindAllStringSubmatch(pm[3], -1) {
			f.Dims = append(f.Dims, dm[1])
		}
		fields = append(fields, f)
	}
	return ret, fields, nil
}

// normalizeSpace collapses whitespace and attaches '*' to the token before it
func normalizeSpace(s string) string {
	s = strings.TrimSpace(spaces.ReplaceAllString(s, " "))
	for strings.Contains(s, " *") {
		s = strings.ReplaceAll(s, " *", "*")
	}
	return s
}
