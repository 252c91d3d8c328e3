package numbering

import (
	"strconv"
	"strings"
)

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// Roman renders n in upper-case Roman numerals. Values outside 1..3999
// fall back to arabic digits.
func Roman(n int) string {
	if n < 1 || n > 3999 {
		return strconv.Itoa(n)
	}
	var b strings.Builder
	for _, r := range romanTable {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}

// Letter renders n in bijective base 26: 1→A, 26→Z, 27→AA.
// Non-positive values fall back to arabic digits.
func Letter(n int) string {
	if n < 1 {
		return strconv.Itoa(n)
	}
	var buf []byte
	for n > 0 {
		n--
		buf = append(buf, byte('A'+n%26))
		n /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// Circle renders 1..20 as enclosed numerals ①..⑳ and anything else as "(n)".
func Circle(n int) string {
	if n >= 1 && n <= 20 {
		return string(rune('①' + n - 1))
	}
	return "(" + strconv.Itoa(n) + ")"
}

var (
	cnDigits = []string{"零", "一", "二", "三", "四", "五", "六", "七", "八", "九"}
	cnUnits  = []string{"", "十", "百", "千"}
	cnGroups = []string{"", "万", "亿", "万亿"}
)

// Chinese spells n with Chinese numerals: 11→十一, 21→二十一, 101→一百零一,
// 10010→一万零一十. Negative values fall back to arabic digits.
func Chinese(n int) string {
	if n < 0 {
		return strconv.Itoa(n)
	}
	if n == 0 {
		return cnDigits[0]
	}

	var groups []int
	for v := n; v > 0; v /= 10000 {
		groups = append(groups, v%10000)
	}
	if len(groups) > len(cnGroups) {
		return strconv.Itoa(n)
	}

	var b strings.Builder
	pendingZero := false
	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		if g == 0 {
			pendingZero = b.Len() > 0
			continue
		}
		if b.Len() > 0 && (pendingZero || g < 1000) {
			b.WriteString(cnDigits[0])
		}
		b.WriteString(groupString(g))
		b.WriteString(cnGroups[i])
		pendingZero = false
	}

	s := b.String()
	// 一十 at the very start reads as 十: 十一, 十万.
	if strings.HasPrefix(s, "一十") {
		s = strings.TrimPrefix(s, "一")
	}
	return s
}

// groupString spells 1..9999 within one four-digit group, with 零 for
// interior zero runs and no trailing zeros.
func groupString(g int) string {
	digits := [4]int{g / 1000, g / 100 % 10, g / 10 % 10, g % 10}
	var b strings.Builder
	zero := false
	started := false
	for i, d := range digits {
		if d == 0 {
			zero = started
			continue
		}
		if zero {
			b.WriteString(cnDigits[0])
			zero = false
		}
		b.WriteString(cnDigits[d])
		b.WriteString(cnUnits[3-i])
		started = true
	}
	return b.String()
}
