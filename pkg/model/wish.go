package model

import (
	"fmt"
	"strings"
)

// WishKind 日级愿望种类
type WishKind string

const (
	WishVacation    WishKind = "vacation"     // 休假
	WishNothing     WishKind = "nothing"      // 完全不排
	WishPreferDay   WishKind = "prefer_day"   // 偏好白班
	WishPreferNight WishKind = "prefer_night" // 偏好夜班
	WishPreferExtra WishKind = "prefer_extra" // 愿意加班
	WishNoDay       WishKind = "no_day"       // 不上白班，夜班可以
	WishNoNight     WishKind = "no_night"     // 不上夜班，白班可以
	WishSick        WishKind = "sick"         // 病假
	WishCompDay     WishKind = "comp_day"     // 调休
)

var wishAliases = map[string]WishKind{
	"vacation":             WishVacation,
	"urlaub":               WishVacation,
	"nothing":              WishNothing,
	"gar_nichts":           WishNothing,
	"prefer_day":           WishPreferDay,
	"tag_bevorzugt":        WishPreferDay,
	"prefer_night":         WishPreferNight,
	"nacht_bevorzugt":      WishPreferNight,
	"prefer_extra":         WishPreferExtra,
	"zusatzarbeit":         WishPreferExtra,
	"no_day":               WishNoDay,
	"kein_tag_aber_nacht":  WishNoDay,
	"no_night":             WishNoNight,
	"keine_nacht_aber_tag": WishNoNight,
	"sick":                 WishSick,
	"krank":                WishSick,
	"comp_day":             WishCompDay,
	"ausgleichstag":        WishCompDay,
}

// ParseWishKind 解析愿望种类，接受德语原始名称
func ParseWishKind(s string) (WishKind, bool) {
	k, ok := wishAliases[strings.ToLower(strings.TrimSpace(s))]
	return k, ok
}

// UnmarshalText 接受规范名称与德语原始名称
func (k *WishKind) UnmarshalText(b []byte) error {
	parsed, ok := ParseWishKind(string(b))
	if !ok {
		return fmt.Errorf("未知愿望种类: %q", string(b))
	}
	*k = parsed
	return nil
}

// Wish 日级愿望
type Wish struct {
	Date     string   `json:"date" db:"date"` // YYYY-MM-DD
	Kind     WishKind `json:"kind" db:"kind"`
	Approved bool     `json:"approved" db:"approved"`
}

// ForcesOff 该愿望是否强制休息
func (w Wish) ForcesOff() bool {
	switch w.Kind {
	case WishVacation, WishSick:
		return true
	case WishNothing, WishCompDay:
		return w.Approved
	}
	return false
}

// Forbids 该愿望是否禁止某种班次（强制休息之外）
func (w Wish) Forbids(k Kind) bool {
	switch w.Kind {
	case WishNoDay:
		return k == KindDay
	case WishNoNight:
		return k == KindNight
	}
	return false
}
