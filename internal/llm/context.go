package llm

import "context"

// Purpose labels why a request was made. It is stored with every logged
// request and filters `wifeymooc llm list --purpose`.
type Purpose string

const (
	PurposeExplanation Purpose = "explanation"
	PurposeUnknown     Purpose = "unknown"
)

type purposeKey struct{}

// WithPurpose tags ctx with p for request logging.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom returns the purpose set by WithPurpose, or PurposeUnknown.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnknown
}
