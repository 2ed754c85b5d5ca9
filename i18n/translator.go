// Package i18n renders human-readable messages for issue codes.
package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "key" or "got").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator. Templates use
// {name} placeholders filled from data.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"unknown_selector_keyword":             `unknown selector keyword "{key}"`,
		"unrecognized_selector_shape":          "expected a selector string or single-key object, got {got}",
		"invalid_atomic_selector":              "invalid atomic selector {got}; expected all or triggered",
		"atomic_selector_takes_no_argument":    `atomic selector "{key}" takes no argument`,
		"type_mismatch":                        "selector value must be a string, got {got}",
		"empty_selector_value":                 "selector value must not be empty",
		"invalid_value_selector_shape":         `malformed attributed value for "{key}"`,
		"heterogeneous_implicit_or":            `implicit OR for "{key}" must list only strings, got {got}`,
		"empty_implicit_or":                    `implicit OR for "{key}" must not be empty`,
		"empty_compound_expression":            `"{key}" requires at least one child`,
		"atomic_not_allowed_in_compound_array": `atomic selector {got} is not allowed inside "{key}"`,
		"not_requires_exactly_one_child":       "not requires exactly one child, got {got}",
		"selector_too_deep":                    "selector nesting exceeds the maximum depth",
		"duplicate_key":                        "duplicate key",
		"parse_error":                          "parse error",
		"truncated":                            "input exceeds the size limit",
	},
	"ja": {
		"unknown_selector_keyword":             "未知のセレクタキーワードです: \"{key}\"",
		"unrecognized_selector_shape":          "セレクタの形式が不正です: {got}",
		"invalid_atomic_selector":              "不正なアトミックセレクタです: {got}",
		"atomic_selector_takes_no_argument":    "アトミックセレクタ {key} は引数を取りません",
		"type_mismatch":                        "セレクタの値は文字列である必要があります: {got}",
		"empty_selector_value":                 "セレクタの値が空です",
		"invalid_value_selector_shape":         "{key} の属性付き値の形式が不正です",
		"heterogeneous_implicit_or":            "{key} の暗黙のORには文字列のみ指定できます: {got}",
		"empty_implicit_or":                    "{key} の暗黙のORが空です",
		"empty_compound_expression":            "{key} には少なくとも1つの子が必要です",
		"atomic_not_allowed_in_compound_array": "{key} の中にアトミックセレクタ {got} は指定できません",
		"not_requires_exactly_one_child":       "not にはちょうど1つの子が必要です: {got}",
		"selector_too_deep":                    "セレクタのネストが深すぎます",
		"duplicate_key":                        "キーが重複しています",
		"parse_error":                          "解析エラー",
		"truncated":                            "入力がサイズ上限を超えています",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var mu sync.RWMutex

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
