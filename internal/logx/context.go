package logx

import "context"

type ctxKey int

const (
	ctxKeyJobID ctxKey = iota
	ctxKeyChatID
)

// WithJobID tags the context with a pipeline-run identifier.
func WithJobID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyJobID, id)
}

// WithChatID tags the context with the originating chat.
func WithChatID(ctx context.Context, chat int64) context.Context {
	return context.WithValue(ctx, ctxKeyChatID, chat)
}

func JobID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxKeyJobID).(string)
	return v, ok
}

func ChatID(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(ctxKeyChatID).(int64)
	return v, ok
}
