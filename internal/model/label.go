package model

import (
	"regexp"
	"strings"
)

var (
	labelStripRe    = regexp.MustCompile(`[^A-Za-z0-9 ]`)
	labelCollapseRe = regexp.MustCompile(`\s+`)
)

// MakeLabel 由名称派生 URL 安全的唯一 slug
//
// 规则：去掉字母/数字/空格以外的字符（含下划线），
// 连续空白折叠为单个连字符，全部小写。
// 对同一名称结果是确定且幂等的。
func MakeLabel(name string) string {
	label := labelStripRe.ReplaceAllString(name, "")
	label = labelCollapseRe.ReplaceAllString(strings.TrimSpace(label), "-")
	return strings.ToLower(label)
}
