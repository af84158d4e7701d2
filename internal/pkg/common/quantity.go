package common

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// QuantityKind 數量種類
type QuantityKind int

const (
	// QuantityNone 無數量
	QuantityNone QuantityKind = iota
	// QuantityNumber 純數字
	QuantityNumber
	// QuantityRange 範圍等文字數量，原樣保留（例如 "3-4"）
	QuantityRange
)

// RangeBound 範圍數量轉為數字時取用的邊界
type RangeBound string

const (
	RangeLower    RangeBound = "lower"
	RangeUpper    RangeBound = "upper"
	RangeMidpoint RangeBound = "midpoint"
)

// Quantity 數字、範圍字串或空值
type Quantity struct {
	Kind  QuantityKind
	Value float64
	Text  string
}

// NumberQuantity 建立數字數量
func NumberQuantity(v float64) Quantity {
	return Quantity{Kind: QuantityNumber, Value: v}
}

// RangeQuantity 建立範圍數量，文字不做任何化簡
func RangeQuantity(text string) Quantity {
	return Quantity{Kind: QuantityRange, Text: text}
}

// IsNone 是否為空
func (q Quantity) IsNone() bool { return q.Kind == QuantityNone }

// Float 只有純數字時回傳 true
func (q Quantity) Float() (float64, bool) {
	if q.Kind != QuantityNumber {
		return 0, false
	}
	return q.Value, true
}

// Bound 依邊界策略轉為數字；範圍只在這裡被化簡
func (q Quantity) Bound(policy RangeBound) (float64, bool) {
	switch q.Kind {
	case QuantityNumber:
		return q.Value, true
	case QuantityRange:
		lo, hi, ok := RangeBounds(q.Text)
		if !ok {
			return 0, false
		}
		switch policy {
		case RangeUpper:
			return hi, true
		case RangeMidpoint:
			return (lo + hi) / 2, true
		default:
			return lo, true
		}
	}
	return 0, false
}

// LowerBound 範圍的起始數字
func (q Quantity) LowerBound() (float64, bool) {
	return q.Bound(RangeLower)
}

func (q Quantity) String() string {
	switch q.Kind {
	case QuantityNumber:
		return strconv.FormatFloat(q.Value, 'f', -1, 64)
	case QuantityRange:
		return q.Text
	}
	return ""
}

// MarshalJSON 輸出 null、數字或字串
func (q Quantity) MarshalJSON() ([]byte, error) {
	switch q.Kind {
	case QuantityNumber:
		if math.IsNaN(q.Value) || math.IsInf(q.Value, 0) {
			return []byte("null"), nil
		}
		return []byte(strconv.FormatFloat(q.Value, 'f', -1, 64)), nil
	case QuantityRange:
		return json.Marshal(q.Text)
	}
	return []byte("null"), nil
}

// UnmarshalJSON 接受 null、數字或字串
func (q *Quantity) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		*q = Quantity{}
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = QuantityFromText(s)
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid quantity %s: %w", raw, err)
	}
	*q = NumberQuantity(v)
	return nil
}

// QuantityFromText 將數量文字轉為 Quantity；範圍保留原文
func QuantityFromText(s string) Quantity {
	s = strings.TrimSpace(s)
	if s == "" {
		return Quantity{}
	}
	if IsRangeText(s) {
		return RangeQuantity(s)
	}
	if v, ok := ParseAmount(s); ok {
		return NumberQuantity(v)
	}
	return RangeQuantity(s)
}

var (
	rangeSplitPattern  = regexp.MustCompile(`(?i)\s*(?:-|–|—|\bto\b)\s*`)
	mixedVulgarPattern = regexp.MustCompile(`^(\d+)([½⅓⅔¼¾⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞])$`)
)

var vulgarFractions = map[rune]float64{
	'½': 1.0 / 2, '⅓': 1.0 / 3, '⅔': 2.0 / 3, '¼': 1.0 / 4, '¾': 3.0 / 4,
	'⅕': 1.0 / 5, '⅖': 2.0 / 5, '⅗': 3.0 / 5, '⅘': 4.0 / 5, '⅙': 1.0 / 6,
	'⅚': 5.0 / 6, '⅛': 1.0 / 8, '⅜': 3.0 / 8, '⅝': 5.0 / 8, '⅞': 7.0 / 8,
}

// IsRangeText 是否為範圍數量（"3-4"、"3 – 4"、"3 to 4"）
func IsRangeText(s string) bool {
	parts := rangeSplitPattern.Split(strings.TrimSpace(s), -1)
	return len(parts) == 2 && parts[0] != "" && parts[1] != ""
}

// RangeBounds 解析範圍兩端；只有一端可解析時兩端相同
func RangeBounds(s string) (lo, hi float64, ok bool) {
	parts := rangeSplitPattern.Split(strings.TrimSpace(s), -1)
	var vals []float64
	for _, p := range parts {
		if v, ok := ParseAmount(p); ok {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return 0, 0, false
	}
	return vals[0], vals[len(vals)-1], true
}

// ParseAmount 將以空白分隔的數字、分數部分相加（"1 1/2" => 1.5）
//
// 無法解析（NaN）的部分會被略過；全部失敗時回傳 false。
func ParseAmount(s string) (float64, bool) {
	total := 0.0
	found := false
	for _, field := range strings.Fields(normalizeSlashes(s)) {
		for _, part := range splitMixedVulgar(field) {
			v := parsePart(part)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			total += v
			found = true
		}
	}
	return total, found
}

func normalizeSlashes(s string) string {
	s = strings.ReplaceAll(s, "⁄", "/")
	for strings.Contains(s, " /") || strings.Contains(s, "/ ") {
		s = strings.ReplaceAll(s, " /", "/")
		s = strings.ReplaceAll(s, "/ ", "/")
	}
	return s
}

func splitMixedVulgar(field string) []string {
	if m := mixedVulgarPattern.FindStringSubmatch(field); m != nil {
		return []string{m[1], m[2]}
	}
	return []string{field}
}

func parsePart(part string) float64 {
	if r := []rune(part); len(r) == 1 {
		if v, ok := vulgarFractions[r[0]]; ok {
			return v
		}
	}
	if num, den, ok := strings.Cut(part, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return math.NaN()
		}
		return n / d
	}
	v, err := strconv.ParseFloat(strings.Replace(part, ",", ".", 1), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
