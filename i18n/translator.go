package i18n

import (
	"sort"
	"strings"
	"sync/atomic"
)

// Translator retrieves localized messages for error codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "name").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator. Templates refer
// to data entries as {key}; entries without a placeholder are ignored.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_prototype":  "invalid prototype: {reason}",
		"unsupported_type":   "no decoder for type {type}",
		"unexpected_eof":     "unexpected end of input",
		"token_mismatch":     "expected {expected}, found {actual}",
		"key_not_found":      "JSON object does not have a member named \"{name}\".",
		"index_out_of_range": "index {index} is out of range [0, {len})",
		"overflow":           "value {value} overflows {type}",
		"invalid_format":     "cannot parse {value} as {type}",
		"syntax_error":       "syntax error: {detail}",
		"depth_exceeded":     "max depth exceeded",
		"invalid_argument":   "invalid argument: {reason}",
	},
	"ja": {
		"invalid_prototype":  "プロトタイプが不正です: {reason}",
		"unsupported_type":   "型 {type} のデコーダがありません",
		"unexpected_eof":     "入力が途中で終了しました",
		"token_mismatch":     "{expected} を期待しましたが {actual} でした",
		"key_not_found":      "JSON オブジェクトにメンバー \"{name}\" がありません",
		"index_out_of_range": "インデックス {index} は範囲 [0, {len}) の外です",
		"overflow":           "値 {value} は {type} の範囲を超えています",
		"invalid_format":     "{value} を {type} として解析できません",
		"syntax_error":       "構文エラー: {detail}",
		"depth_exceeded":     "ネストが深すぎます",
		"invalid_argument":   "引数が不正です: {reason}",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return strings.TrimSuffix(strings.TrimSuffix(tmpl, ": {reason}"), ": {detail}")
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", data[k])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

type current struct{ Translator }

var translator atomic.Pointer[current]

func init() { translator.Store(&current{dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
// It is safe to call while other goroutines produce messages.
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	translator.Store(&current{dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	translator.Store(&current{tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return translator.Load().Message(code, data) }
