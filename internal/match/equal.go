package match

import "math/big"

// Equal 判断两个字段值是否相等。
//
// 先按字符串比较；不相等时，若两侧都能完整解析为十进制有符号整数（可带前导符号，
// 不允许空白与千分位），再按数值比较。因此 "04" 与 "4" 相等，"04a" 与 "4a" 不相等。
func Equal(a, b string) bool {
	if a == b {
		return true
	}
	x, ok := parseInt(a)
	if !ok {
		return false
	}
	y, ok := parseInt(b)
	if !ok {
		return false
	}
	return x.Cmp(y) == 0
}

// parseInt 用 big.Int 避免长数字串溢出 int64 时被误判为“非数字”。
func parseInt(s string) (*big.Int, bool) {
	if s == "" {
		return nil, false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			continue
		}
		if i == 0 && (c == '+' || c == '-') && len(s) > 1 {
			continue
		}
		return nil, false
	}
	n, ok := new(big.Int).SetString(s, 10)
	return n, ok
}

// FieldsEqual 对每个共享字段逐一应用 Equal。shared 为空时恒为 true。
func FieldsEqual(a, b Candidate, shared []string) bool {
	for _, name := range shared {
		av, _ := a.Fields.Get(name)
		bv, _ := b.Fields.Get(name)
		if !Equal(av, bv) {
			return false
		}
	}
	return true
}
