package ctxutil

import "context"

type requestDataKey struct{}

// RequestData identifies one HTTP request across logs and spans. AnalysisID
// is filled in by handlers once an analysis is created or loaded.
type RequestData struct {
	TraceID    string
	RequestID  string
	AnalysisID string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// SetAnalysisID records id on the request data in ctx, if any.
func SetAnalysisID(ctx context.Context, id string) {
	if rd := GetRequestData(ctx); rd != nil {
		rd.AnalysisID = id
	}
}

// Default returns ctx, or context.Background when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
