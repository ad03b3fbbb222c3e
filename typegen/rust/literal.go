package rust

import "strings"

// literalSuffixes maps C literal suffixes to Rust types, longest first
var literalSuffixes = []struct {
	c    string
	rust string
}{
	{"ULL", "u64"},
	{"U", "u32"},
	{"F", "f32"},
}

// ConvertLiteral infers the Rust type of a C constant initializer and rewrites it:
// "~" becomes "!", parentheses are dropped and the literal suffix becomes the Rust
// type suffix. Suffixes match in either case; F only marks a float on decimal
// literals, since it is a digit in hex. Unsuffixed values default to usize.
//
//	(~0U)   -> u32, !0u32
//	(~0ULL) -> u64, !0u64
//	1000.0F -> f32, 1000.0f32
//	0xFF    -> usize, 0xFF
//	256     -> usize, 256
func ConvertLiteral(value string) (string, string) {
	v := strings.NewReplacer("~", "!", "(", "", ")", "").Replace(strings.TrimSpace(value))
	upper := strings.ToUpper(v)
	hex := strings.HasPrefix(strings.TrimLeft(upper, "!-"), "0X")
	for _, s := range literalSuffixes {
		if s.rust == "f32" && hex {
			continue
		}
		if strings.HasSuffix(upper, s.c) {
			return s.rust, v[:len(v)-len(s.c)] + s.rust
		}
	}
	return "usize", v
}
