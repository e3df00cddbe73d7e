package rpc

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

type pingRequest struct {
	Name string `json:"name"`
}

type pingResponse struct {
	Greeting string `json:"greeting"`
}

type pinger interface {
	Ping(context.Context, *pingRequest) (*pingResponse, error)
}

type pingServer struct{}

func (pingServer) Ping(_ context.Context, req *pingRequest) (*pingResponse, error) {
	return &pingResponse{Greeting: "hello " + req.Name}, nil
}

func TestCodec_Registered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	if c == nil {
		t.Fatal("json codec not registered")
	}
	b, err := c.Marshal(&pingRequest{Name: "a"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `{"name":"a"}` {
		t.Errorf("Marshal = %s", b)
	}
}

func TestCodec_UnmarshalEmpty(t *testing.T) {
	var req pingRequest
	if err := (Codec{}).Unmarshal(nil, &req); err != nil {
		t.Fatalf("Unmarshal(nil): %v", err)
	}
	if err := (Codec{}).Unmarshal([]byte("{"), &req); err == nil {
		t.Fatal("Unmarshal of truncated JSON should fail")
	}
}

func TestUnaryHandler_NoInterceptor(t *testing.T) {
	h := UnaryHandler("/test.Ping/Ping", pinger.Ping)
	dec := func(v any) error {
		v.(*pingRequest).Name = "bob"
		return nil
	}
	out, err := h(pingServer{}, context.Background(), dec, nil)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if got := out.(*pingResponse).Greeting; got != "hello bob" {
		t.Errorf("Greeting = %q", got)
	}
}

func TestUnaryHandler_Interceptor(t *testing.T) {
	h := UnaryHandler("/test.Ping/Ping", pinger.Ping)
	var seen string
	interceptor := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		seen = info.FullMethod
		return handler(ctx, req)
	}
	dec := func(v any) error { return nil }
	if _, err := h(pingServer{}, context.Background(), dec, interceptor); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if seen != "/test.Ping/Ping" {
		t.Errorf("interceptor saw %q", seen)
	}
}

func TestUnaryHandler_DecodeError(t *testing.T) {
	h := UnaryHandler("/test.Ping/Ping", pinger.Ping)
	decErr := errors.New("bad frame")
	_, err := h(pingServer{}, context.Background(), func(any) error { return decErr }, nil)
	if !errors.Is(err, decErr) {
		t.Errorf("err = %v, want %v", err, decErr)
	}
}
