package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/lumen-rp/cadhub/pkg/intl"
)

func TestProvideLocalizer(t *testing.T) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	_, err := bundle.ParseMessageFileBytes([]byte(`{
		"Core": {"Errors": {"InvalidRank": "Unknown rank"}}
	}`), "en.json")
	require.NoError(t, err)

	var resolved string
	handler := ProvideLocalizer(bundle)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := intl.UseLocalizer(r.Context())
		assert.True(t, ok)
		resolved = intl.MustT(r.Context(), "Core.Errors.InvalidRank")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "de-DE, en;q=0.8")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "Unknown rank", resolved)
}
