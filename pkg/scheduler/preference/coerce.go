package preference

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// unquote 去掉被二次编码的 JSON 字符串外层引号
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		var inner string
		if err := json.Unmarshal([]byte(s), &inner); err == nil {
			return strings.TrimSpace(inner)
		}
	}
	return s
}

func toBool(v interface{}) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case float64:
		return x != 0, true
	case int:
		return x != 0, true
	case int64:
		return x != 0, true
	case json.Number:
		f, err := x.Float64()
		return err == nil && f != 0, err == nil
	case string:
		switch strings.ToLower(unquote(x)) {
		case "true", "1", "ja", "yes", "y", "j", "wahr", "x", "on":
			return true, true
		case "false", "0", "nein", "no", "n", "falsch", "off":
			return false, true
		}
	}
	return false, false
}

func toInt(v interface{}) (int, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return int(math.Round(x)), true
	case int:
		return x, true
	case int64:
		return int(x), true
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return int(i), true
		}
		if f, err := x.Float64(); err == nil {
			return int(math.Round(f)), true
		}
	case string:
		s := unquote(x)
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return int(math.Round(f)), true
		}
	}
	return 0, false
}

func toString(v interface{}) string {
	switch x := v.(type) {
	case string:
		return unquote(x)
	case nil:
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

var weekdayNames = map[string]int{
	"mo": 0, "mon": 0, "montag": 0, "monday": 0,
	"di": 1, "tue": 1, "dienstag": 1, "tuesday": 1,
	"mi": 2, "wed": 2, "mittwoch": 2, "wednesday": 2,
	"do": 3, "thu": 3, "donnerstag": 3, "thursday": 3,
	"fr": 4, "fri": 4, "freitag": 4, "friday": 4,
	"sa": 5, "sat": 5, "samstag": 5, "saturday": 5,
	"so": 6, "sun": 6, "sonntag": 6, "sunday": 6,
}

func toWeekday(v interface{}) (int, bool) {
	if s, ok := v.(string); ok {
		if wd, ok := weekdayNames[strings.ToLower(unquote(s))]; ok {
			return wd, true
		}
	}
	wd, ok := toInt(v)
	if !ok || wd < 0 || wd > 6 {
		return 0, false
	}
	return wd, true
}

// toWeekdays 解析星期集合：数组、JSON 数组字符串、逗号列表或单个整数
func toWeekdays(v interface{}) ([]int, bool) {
	var items []interface{}

	switch x := v.(type) {
	case nil:
		return nil, false
	case []interface{}:
		items = x
	case []int:
		for _, i := range x {
			items = append(items, i)
		}
	case []string:
		for _, s := range x {
			items = append(items, s)
		}
	case string:
		s := unquote(x)
		if s == "" || strings.EqualFold(s, "null") {
			return []int{}, true
		}
		if strings.HasPrefix(s, "[") {
			var decoded []interface{}
			if err := json.Unmarshal([]byte(s), &decoded); err != nil {
				s = strings.Trim(s, "[]")
			} else {
				return toWeekdays(decoded)
			}
		}
		for _, tok := range strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || r == ';' || r == ' ' || r == '\t'
		}) {
			items = append(items, tok)
		}
	default:
		items = []interface{}{x}
	}

	seen := make(map[int]bool)
	out := make([]int, 0, len(items))
	for _, it := range items {
		wd, ok := toWeekday(it)
		if !ok || seen[wd] {
			continue
		}
		seen[wd] = true
		out = append(out, wd)
	}
	sort.Ints(out)
	return out, true
}
