// Package i18n holds the user-visible messages raised by the request
// pipeline and the CLI, in English and Simplified Chinese.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. The English text doubles as the key.
const (
	BackendCode     = "Backend endpoint %v error"
	EmptyBody       = "Backend returned an empty body"
	Network         = "Backend connection error"
	Timeout         = "Backend request timed out"
	UnknownBackend  = "Backend unknown error"
	Unexpected      = "An unknown error occurred"
	LoginWelcome    = "Welcome to %s, %s!"
	LoginNoToken    = "Login succeeded but the response carried no %s"
	UserInfoInvalid = "User info response is malformed"
	VerifyFailed    = "Verification failed, please log in again"
	GoodMorning     = "good morning"
	GoodForenoon    = "good forenoon"
	GoodNoon        = "good noon"
	GoodAfternoon   = "good afternoon"
	GoodEvening     = "good evening"
)

var zh = map[string]string{
	BackendCode:     "后端接口%v异常",
	EmptyBody:       "后端接口返回数据为空",
	Network:         "后端接口连接异常",
	Timeout:         "后端接口请求超时",
	UnknownBackend:  "后端接口未知异常",
	Unexpected:      "发生未知错误",
	LoginWelcome:    "欢迎登录%s，%s！",
	LoginNoToken:    "登录接口异常，未正确返回%s...",
	UserInfoInvalid: "用户信息接口异常",
	VerifyFailed:    "验证失败，请重新登录...",
	GoodMorning:     "早上好",
	GoodForenoon:    "上午好",
	GoodNoon:        "中午好",
	GoodAfternoon:   "下午好",
	GoodEvening:     "晚上好",
}

var (
	supported = []language.Tag{language.English, language.SimplifiedChinese}
	matcher   = language.NewMatcher(supported)
	messages  = newCatalog()
)

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, text := range zh {
		// Keys are constants; SetString only fails on malformed tags.
		_ = b.SetString(language.SimplifiedChinese, key, text)
	}
	return b
}

// Printer returns a printer for the given BCP 47 tag. Unknown or empty tags
// print English.
func Printer(lang string) *message.Printer {
	tag := language.English
	if lang != "" {
		if parsed, err := language.Parse(lang); err == nil {
			tag = parsed
		}
	}
	_, idx, _ := matcher.Match(tag)
	return message.NewPrinter(supported[idx], message.Catalog(messages))
}

// Greeting returns the time-of-day greeting key for an hour of the day.
func Greeting(hour int) string {
	switch {
	case hour < 8:
		return GoodMorning
	case hour <= 11:
		return GoodForenoon
	case hour <= 13:
		return GoodNoon
	case hour < 18:
		return GoodAfternoon
	default:
		return GoodEvening
	}
}
