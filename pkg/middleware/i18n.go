package middleware

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/iota-uz/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/lumen-rp/cadhub/pkg/intl"
)

// ProvideLocalizer installs an i18n.Localizer resolved from the request's
// Accept-Language header, falling back to English. Translation keys on
// structured errors and audit entries resolve through it.
func ProvideLocalizer(bundle *i18n.Bundle) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			langs := make([]string, 0, 4)
			if tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language")); err == nil {
				for _, tag := range tags {
					langs = append(langs, tag.String())
				}
			}
			langs = append(langs, language.English.String())
			ctx := intl.WithLocalizer(r.Context(), i18n.NewLocalizer(bundle, langs...))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
