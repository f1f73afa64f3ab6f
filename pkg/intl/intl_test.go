package intl

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func testBundle(t *testing.T) *i18n.Bundle {
	t.Helper()
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	_, err := bundle.ParseMessageFileBytes([]byte(`{
		"Approvals": {"Warrant": {"Accepted": "Warrant approved"}}
	}`), "en.json")
	require.NoError(t, err)
	return bundle
}

func TestMustT_ResolvesThroughLocalizer(t *testing.T) {
	bundle := testBundle(t)
	ctx := WithLocalizer(context.Background(), i18n.NewLocalizer(bundle, "en"))

	assert.Equal(t, "Warrant approved", MustT(ctx, "Approvals.Warrant.Accepted"))
}

func TestMustT_FallsBackToMessageID(t *testing.T) {
	bundle := testBundle(t)
	ctx := WithLocalizer(context.Background(), i18n.NewLocalizer(bundle, "en"))

	assert.Equal(t, "Some.Missing.Key", MustT(ctx, "Some.Missing.Key"))
	// Without a localizer installed the key passes through untouched.
	assert.Equal(t, "Approvals.Warrant.Accepted", MustT(context.Background(), "Approvals.Warrant.Accepted"))
}
