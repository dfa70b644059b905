package i18n

import (
	"strings"
	"sync/atomic"

	"golang.org/x/text/language"
)

// Translator retrieves localized messages for violation codes.
// data provides values substituted into "{name}" placeholders (for example,
// "expected" or "property").
type Translator interface {
	Message(code string, data map[string]string) string
}

var messages = map[string]map[string]string{
	"en": {
		"invalid_type":          "expected {expected}, got {got}",
		"required":              "missing required property {property}",
		"unknown_key":           "additional property {property} is not allowed",
		"too_small":             "must be {op} {limit}",
		"too_big":               "must be {op} {limit}",
		"too_short":             "must have at least {limit} {unit}",
		"too_long":              "must have at most {limit} {unit}",
		"pattern":               "does not match pattern {pattern}",
		"invalid_enum":          "value is not one of the allowed values",
		"invalid_const":         "value does not equal the constant",
		"invalid_format":        "is not a valid {format}",
		"not_multiple_of":       "must be a multiple of {divisor}",
		"not_unique":            "items {first} and {second} are equal",
		"contains_too_few":      "must contain at least {min} matching items, got {got}",
		"contains_too_many":     "must contain at most {max} matching items, got {got}",
		"any_of_none":           "does not match any schema in anyOf",
		"one_of_none":           "does not match any schema in oneOf",
		"one_of_multiple":       "matches more than one schema in oneOf ({matches})",
		"not_allowed":           "must not match the schema in not",
		"false_schema":          "no value is allowed here",
		"dependency":            "property {property} requires property {required}",
		"invalid_property_name": "property name {property} is invalid",
		"duplicate_key":         "duplicate key",
		"parse_error":           "parse error",
		"truncated":             "truncated",
	},
	"ja": {
		"invalid_type":          "型が不正です ({expected} を期待しましたが {got} でした)",
		"required":              "必須プロパティ {property} が不足しています",
		"unknown_key":           "追加プロパティ {property} は許可されていません",
		"too_small":             "{op} {limit} である必要があります",
		"too_big":               "{op} {limit} である必要があります",
		"too_short":             "{unit} は {limit} 以上必要です",
		"too_long":              "{unit} は {limit} 以下である必要があります",
		"pattern":               "パターン {pattern} に一致しません",
		"invalid_enum":          "許可された値のいずれでもありません",
		"invalid_const":         "定数と一致しません",
		"invalid_format":        "{format} 形式ではありません",
		"not_multiple_of":       "{divisor} の倍数である必要があります",
		"not_unique":            "要素 {first} と {second} が重複しています",
		"contains_too_few":      "一致する要素が {min} 個以上必要です ({got} 個)",
		"contains_too_many":     "一致する要素は {max} 個以下である必要があります ({got} 個)",
		"any_of_none":           "anyOf のいずれのスキーマにも一致しません",
		"one_of_none":           "oneOf のいずれのスキーマにも一致しません",
		"one_of_multiple":       "oneOf の複数のスキーマに一致します ({matches})",
		"not_allowed":           "not のスキーマに一致してはいけません",
		"false_schema":          "ここには値を置けません",
		"dependency":            "プロパティ {property} にはプロパティ {required} が必要です",
		"invalid_property_name": "プロパティ名 {property} が不正です",
		"duplicate_key":         "キーが重複しています",
		"parse_error":           "解析エラー",
		"truncated":             "打ち切られました",
	},
}

var supported = []language.Tag{language.English, language.Japanese}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := messages[t.lang][code]
	if !ok {
		return code
	}
	return expand(tmpl, data)
}

func expand(tmpl string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

type holder struct{ tr Translator }

var current atomic.Value

func init() { current.Store(holder{dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator to the closest supported
// language for a BCP 47 tag ("en", "ja", "ja-JP", ...). Unknown tags fall back
// to English.
func SetLanguage(lang string) {
	name := "en"
	if tag, err := language.Parse(lang); err == nil {
		_, idx, conf := language.NewMatcher(supported).Match(tag)
		if conf != language.No && supported[idx] == language.Japanese {
			name = "ja"
		}
	}
	current.Store(holder{dictTranslator{lang: name}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(holder{tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	return current.Load().(holder).tr.Message(code, data)
}
