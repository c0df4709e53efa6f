package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateContent(t *testing.T) {
	assert.Equal(t, "", TruncateContent(""))
	assert.Equal(t, "hello", TruncateContent("hello"))

	// 恰好 100 字不截断
	exact := strings.Repeat("a", 100)
	assert.Equal(t, exact, TruncateContent(exact))

	long := strings.Repeat("b", 101)
	got := TruncateContent(long)
	assert.Equal(t, strings.Repeat("b", 100)+"...", got)

	// 按 rune 截断，多字节字符不被劈开
	cn := strings.Repeat("测", 150)
	got = TruncateContent(cn)
	assert.Equal(t, 103, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, strings.Repeat("测", 100), strings.TrimSuffix(got, "..."))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 7.33, Round2(22.0/3.0))
	assert.Equal(t, 2.0, Round2(2.0))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, 0.33, Round2(1.0/3.0))
	assert.Equal(t, 0.67, Round2(2.0/3.0))
	assert.Equal(t, -7.33, Round2(-22.0/3.0))
}

func TestUint64Conversions(t *testing.T) {
	assert.Equal(t, "42", Uint64ToStr(42))
	assert.Equal(t, uint64(42), StrToUint64("42"))
	assert.Equal(t, uint64(0), StrToUint64("not-a-number"))
	assert.Equal(t, uint64(0), StrToUint64(""))
}
