package trend

import (
	"strconv"
	"strings"

	"brand-trends/internal/domain/brandanalysis"
)

// MetricValue 為正規化後的數值；Present 區分「無資料」與「真的是 0」。
type MetricValue struct {
	Value   float64
	Present bool
}

var symbolStripper = strings.NewReplacer("%", "", "€", "")

// Parse 去除 % 與 € 後解析前綴數字；缺值或無法解析時回傳 {0, false}。
//
// 解析採前綴規則：「340,00」得到 340，「1.234,56」得到 1.234。
// 逗號不視為小數點。
func Parse(raw brandanalysis.RawValue) MetricValue {
	s := strings.TrimSpace(symbolStripper.Replace(string(raw)))
	if s == "" {
		return MetricValue{}
	}
	prefix := numericPrefix(s)
	if prefix == "" {
		return MetricValue{}
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return MetricValue{}
	}
	return MetricValue{Value: v, Present: true}
}

// ParseValue 為寬鬆版本：任何缺值或格式錯誤一律回傳 0，不會失敗。
func ParseValue(raw brandanalysis.RawValue) float64 {
	return Parse(raw).Value
}

// numericPrefix 取出最長的合法浮點數前綴（符號、整數、小數、指數）。
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return ""
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			exp++
		}
		if exp > 0 {
			i = j
		}
	}
	return s[:i]
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
