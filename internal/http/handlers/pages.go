package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/materials-advisor/internal/domain"
	"github.com/yungbote/materials-advisor/internal/http/middleware"
	"github.com/yungbote/materials-advisor/internal/http/views"
	"github.com/yungbote/materials-advisor/internal/i18n"
)

const languageCookieMaxAge = 365 * 24 * time.Hour

type PageHandler struct {
	msgs         *i18n.Bundle
	cookieSecure bool
}

func NewPageHandler(msgs *i18n.Bundle, cookieSecure bool) *PageHandler {
	return &PageHandler{msgs: msgs, cookieSecure: cookieSecure}
}

// Index renders the input form.
func (h *PageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, views.IndexPage, views.NewPage(h.msgs, middleware.Language(c)))
}

// SetLanguage stores the chosen language in a cookie and goes back to the
// referring page of this site.
func (h *PageHandler) SetLanguage(c *gin.Context) {
	lang := domain.ParseLanguage(c.Param("language"))
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.LanguageCookie, lang.String(), int(languageCookieMaxAge.Seconds()), "/", "", h.cookieSecure, true)
	c.Redirect(http.StatusFound, localReferer(c.Request))
}

func (h *PageHandler) NotFound(c *gin.Context) {
	page := views.NewPage(h.msgs, middleware.Language(c))
	page.Status = http.StatusNotFound
	page.Error = page.T("error.not_found")
	c.HTML(http.StatusNotFound, views.ErrorPage, page)
}

// localReferer returns the Referer path when it points at this host, "/" otherwise.
func localReferer(r *http.Request) string {
	ref := r.Referer()
	if ref == "" {
		return "/"
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != r.Host) {
		return "/"
	}
	if u.Path == "" || u.Path[0] != '/' {
		return "/"
	}
	out := u.Path
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	return out
}
