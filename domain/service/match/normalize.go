package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NFC に揃えて小文字化し、連続する空白を 1 つにする
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(norm.NFC.String(s))), " ")
}

// 英数字以外で区切る
func Tokenize(s string) []string {
	return strings.FieldsFunc(Normalize(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// 単語境界で照合できるよう前後に空白を付けたもの
type text struct {
	// 記号を残したもの（"vs." や "@" の照合用）
	raw string

	// 英数字のみのトークンを空白で繋いだもの
	words string

	tokens []string
}

func newText(parts ...string) text {
	joined := Normalize(strings.Join(parts, " "))
	tokens := Tokenize(joined)
	return text{
		raw:    " " + joined + " ",
		words:  " " + strings.Join(tokens, " ") + " ",
		tokens: tokens,
	}
}

// phrase が単語の並びとして含まれるか
func (t text) hasPhrase(phrase string) bool {
	p := strings.Join(Tokenize(phrase), " ")
	if p == "" {
		return false
	}
	return strings.Contains(t.words, " "+p+" ")
}

func (t text) hasAnyPhrase(phrases []string) bool {
	for _, p := range phrases {
		if t.hasPhrase(p) {
			return true
		}
	}
	return false
}

// indicator は前後の空白込みで照合する
func (t text) hasAnyRaw(indicators []string) bool {
	for _, ind := range indicators {
		if strings.Contains(t.raw, strings.ToLower(ind)) {
			return true
		}
	}
	return false
}

// query のトークンのうち、いずれかの対象トークンの部分文字列になっているものの割合
func overlapRatio(query []string, target []string) float64 {
	if len(query) == 0 || len(target) == 0 {
		return 0
	}
	matched := 0
	for _, q := range query {
		for _, tok := range target {
			if strings.Contains(tok, q) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(query))
}
