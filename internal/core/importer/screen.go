package importer

import (
	"regexp"
	"strings"
	"unicode"

	"ingredient-engine/internal/core/kb"
	"ingredient-engine/internal/core/parser"
	"ingredient-engine/internal/pkg/common"
)

// LineKind 匯入前篩選的分類
type LineKind int

const (
	LineIngredient LineKind = iota
	LineSeparator
	LineHeader
	LineModifier
	LineMeasurement
)

func (k LineKind) String() string {
	switch k {
	case LineSeparator:
		return "separator"
	case LineHeader:
		return "header"
	case LineModifier:
		return "modifier"
	case LineMeasurement:
		return "measurement"
	}
	return "ingredient"
}

var (
	decoratedHeader = regexp.MustCompile(`^[-=*#~_]{2,}\s*([^-=*#~_].*?)\s*[-=*#~_]*$`)
	markdownHeader  = regexp.MustCompile(`^#{1,6}\s+(.+)$`)
	bracketHeader   = regexp.MustCompile(`^\[([^\]]+)\]$`)
	colonHeader     = regexp.MustCompile(`^([\p{L}][^:\d]{0,40}):$`)
	forThePrefix    = regexp.MustCompile(`(?i)^for\s+(?:the\s+)?`)
)

// Classify 判斷一行是否為食材；標題行同時回傳區段名稱
//
// 規則刻意保守，無法確定時一律當作食材。
func Classify(snap *kb.Snapshot, line string) (LineKind, string) {
	text := strings.TrimSpace(line)
	if text == "" || !hasAlnum(text) {
		return LineSeparator, ""
	}

	for _, p := range []*regexp.Regexp{decoratedHeader, markdownHeader, bracketHeader, colonHeader} {
		if m := p.FindStringSubmatch(text); m != nil {
			if section := sectionName(m[1]); section != "" {
				return LineHeader, section
			}
		}
	}

	if snap != nil && snap.IsModifier(text) {
		return LineModifier, ""
	}

	t := parser.Tokenize(text)
	if !t.Quantity.IsNone() && t.UnitText != "" && t.Name == "" && t.Note == "" {
		return LineMeasurement, ""
	}
	return LineIngredient, ""
}

func sectionName(raw string) string {
	s := strings.Trim(common.CollapseSpaces(raw), ":-=*#~_ ")
	s = forThePrefix.ReplaceAllString(s, "")
	return common.Capitalize(s)
}

func hasAlnum(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
