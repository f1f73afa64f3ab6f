package intl

import (
	"context"

	"github.com/iota-uz/go-i18n/v2/i18n"

	"github.com/lumen-rp/cadhub/pkg/constants"
)

func WithLocalizer(ctx context.Context, l *i18n.Localizer) context.Context {
	return context.WithValue(ctx, constants.LocalizerKey, l)
}

func UseLocalizer(ctx context.Context) (*i18n.Localizer, bool) {
	l, ok := ctx.Value(constants.LocalizerKey).(*i18n.Localizer)
	return l, ok
}

// MustT resolves a message ID, falling back to the ID itself when no localizer
// is installed or the message is missing. Translation keys are treated as
// opaque identifiers everywhere else in the codebase.
func MustT(ctx context.Context, messageID string) string {
	l, ok := UseLocalizer(ctx)
	if !ok {
		return messageID
	}
	msg, err := l.Localize(&i18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		return messageID
	}
	return msg
}
