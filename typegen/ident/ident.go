// Package ident derives target-syntax identifiers for enumeration variants.
//
// A variant such as VK_SAMPLE_COUNT_1_BIT_EXT in group VkSampleCountFlagBitsEXT
// becomes the associated constant TYPE_1: the group stem, vendor tag and bit
// marker are removed, and a leading digit gets a prefix.
package ident

import (
	"regexp"
	"sort"
	"strings"

	"github.com/teranos/vkdoc/registry"
	"github.com/teranos/vkdoc/typegen/util"
)

// DefaultVendorTags lists the vendor suffixes recognised without registry input
var DefaultVendorTags = []string{
	"_AMD", "_AMDX", "_ANDROID", "_ARM", "_BRCM", "_CHROMIUM", "_EXT", "_FB",
	"_FSL", "_FUCHSIA", "_GGP", "_GOOGLE", "_HUAWEI", "_IMG", "_INTEL", "_JUICE",
	"_KDAB", "_KHR", "_KHX", "_LUNARG", "_MESA", "_MSFT", "_MVK", "_NN",
	"_NV", "_NVX", "_NXP", "_NZXT", "_QCOM", "_QNX", "_RASTERGRID", "_RENDERDOC",
	"_SAMSUNG", "_SEC", "_TIZEN", "_VALVE", "_VIV", "_VSI",
}

const (
	groupMarker = "FlagBits"
	bitMarker   = "_BIT"
	digitPrefix = "TYPE_"
)

var trailingDigits = regexp.MustCompile(`([^_\d])(\d+)$`)

// Normalizer maps (group, variant) pairs to identifiers. It is immutable after New
// and safe for concurrent use.
type Normalizer struct {
	tags       []string // longest first
	resultEnum string
	apiTag     string
}

// Option configures a Normalizer
type Option func(*Normalizer)

// WithVendorTags adds vendor tags; "KHR" and "_KHR" are equivalent
func WithVendorTags(tags ...string) Option {
	return func(n *Normalizer) {
		for _, tag := range tags {
			tag = strings.ToUpper(strings.TrimSpace(tag))
			if tag == "" {
				continue
			}
			if !strings.HasPrefix(tag, "_") {
				tag = "_" + tag
			}
			n.tags = append(n.tags, tag)
		}
	}
}

// WithResultEnum names the group whose variants do not carry the group stem
func WithResultEnum(name string) Option {
	return func(n *Normalizer) { n.resultEnum = name }
}

// WithAPITag sets the prefix stripped from result-code variants
func WithAPITag(tag string) Option {
	return func(n *Normalizer) { n.apiTag = tag }
}

// New returns a Normalizer over DefaultVendorTags plus any options
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		tags:       append([]string(nil), DefaultVendorTags...),
		resultEnum: "VkResult",
		apiTag:     "VK",
	}
	for _, opt := range opts {
		opt(n)
	}

	seen := make(map[string]bool, len(n.tags))
	unique := n.tags[:0]
	for _, tag := range n.tags {
		if !seen[tag] {
			seen[tag] = true
			unique = append(unique, tag)
		}
	}
	n.tags = unique
	// Longest match wins so that a tag which is a suffix of another never shadows it
	sort.SliceStable(n.tags, func(i, j int) bool { return len(n.tags[i]) > len(n.tags[j]) })
	return n
}

// Stem returns the upper snake case stem of a group name ("VkSampleCountFlagBitsEXT" -> "VK_SAMPLE_COUNT_EXT")
func Stem(group string) string {
	return util.ToShoutySnakeCase(strings.Replace(group, groupMarker, "", 1))
}

// VendorTag returns the longest vendor tag that ends stem, or ""
func (n *Normalizer) VendorTag(stem string) string {
	for _, tag := range n.tags {
		if strings.HasSuffix(stem, tag) {
			return tag
		}
	}
	return ""
}

// Normalize returns the identifier for variant within group
func (n *Normalizer) Normalize(group, variant string) (string, error) {
	name := strings.ToUpper(variant)
	stem := Stem(group)

	vendor := n.VendorTag(stem)
	stem = strings.TrimSuffix(stem, vendor)
	name = strings.TrimSuffix(name, vendor)

	stem = trailingDigits.ReplaceAllString(stem, "${1}_${2}")

	rest, ok := strings.CutPrefix(name, stem)
	if !ok {
		if group != n.resultEnum {
			return "", registry.Unresolvable(registry.KindVariant, variant, "no "+stem+" prefix in group "+group)
		}
		if rest, ok = strings.CutPrefix(name, n.apiTag); !ok {
			return "", registry.Unresolvable(registry.KindVariant, variant, "no "+n.apiTag+" prefix in group "+group)
		}
	}

	rest, ok = strings.CutPrefix(rest, "_")
	if !ok || rest == "" {
		return "", registry.Unresolvable(registry.KindVariant, variant, "nothing follows "+stem+" in group "+group)
	}

	rest = strings.ReplaceAll(rest, bitMarker, "")
	if rest == "" {
		return "", registry.Unresolvable(registry.KindVariant, variant, "only a bit marker follows the stem")
	}
	if rest[0] >= '0' && rest[0] <= '9' {
		rest = digitPrefix + rest
	}
	return rest, nil
}

// Tags returns the vendor tags in match order
func (n *Normalizer) Tags() []string {
	return append([]string(nil), n.tags...)
}
