package ctxutil

import (
	"context"
	"testing"
)

func TestRequestData(t *testing.T) {
	if GetRequestData(context.Background()) != nil {
		t.Fatal("expected nil request data")
	}
	SetAnalysisID(context.Background(), "ignored")

	ctx := WithRequestData(context.Background(), &RequestData{RequestID: "r1"})
	SetAnalysisID(ctx, "a1")
	rd := GetRequestData(ctx)
	if rd == nil || rd.RequestID != "r1" || rd.AnalysisID != "a1" {
		t.Fatalf("request data = %+v", rd)
	}
}

func TestDefault(t *testing.T) {
	//nolint:staticcheck
	if Default(nil) == nil {
		t.Fatal("Default(nil) returned nil")
	}
}
