package util

import (
	"math"
	"strconv"
)

// 摘要截断长度
const previewLength = 100

// TruncateContent 生成内容摘要，超长部分以省略号结尾
func TruncateContent(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "..."
}

// Round2 保留两位小数
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Uint64ToStr 用于拼接缓存键
func Uint64ToStr(v uint64) string {
	return strconv.FormatUint(v, 10)
}

// StrToUint64 解析失败时返回 0
func StrToUint64(s string) uint64 {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
