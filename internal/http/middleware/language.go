package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/materials-advisor/internal/domain"
	"github.com/yungbote/materials-advisor/internal/i18n"
)

const (
	languageKey = "language"
	// LanguageCookie holds the visitor's chosen language.
	LanguageCookie = "language"
)

// ResolveLanguage picks the request language from the language cookie, then
// Accept-Language, then English.
func ResolveLanguage(msgs *i18n.Bundle) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(LanguageCookie)
		c.Set(languageKey, msgs.Resolve(cookie, c.GetHeader("Accept-Language")))
		c.Next()
	}
}

// Language returns the language chosen by ResolveLanguage.
func Language(c *gin.Context) domain.Language {
	if v, ok := c.Get(languageKey); ok {
		if l, ok := v.(domain.Language); ok {
			return l
		}
	}
	return domain.LanguageEN
}
