package brandanalysis

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrNotFound 表示找不到指定週報。
var ErrNotFound = errors.New("analysis not found")

// NormalizeBrand 將品牌名稱轉為大寫並收斂空白，報表與設定皆以此為鍵。
func NormalizeBrand(name string) string {
	return cases.Upper(language.Und).String(strings.Join(strings.Fields(name), " "))
}

// NormalizeBrands 正規化並去除重複與空白項目，保留原順序。
func NormalizeBrands(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		b := NormalizeBrand(n)
		if b == "" {
			continue
		}
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	return out
}

// NormalizeBrandKeys 回傳以正規化品牌名稱為鍵的新 map。
// 同名衝突時保留指標較多者；數量相同時，已是正規化寫法的鍵優先，其次取字典序較前的鍵。
func NormalizeBrandKeys(data map[string]MetricSet) map[string]MetricSet {
	if data == nil {
		return nil
	}
	out := make(map[string]MetricSet, len(data))
	from := make(map[string]string, len(data))
	for _, name := range slices.Sorted(maps.Keys(data)) {
		set := data[name]
		key := NormalizeBrand(name)
		if key == "" {
			continue
		}
		if existing, ok := out[key]; ok {
			switch {
			case len(set) > len(existing):
			case len(set) == len(existing) && name == key && from[key] != key:
			default:
				continue
			}
		}
		out[key] = set
		from[key] = name
	}
	return out
}
