package images

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

const testPlaceholder = "/img/placeholder.jpg"

func TestResolveFollowsRedirectLocation(t *testing.T) {
	fetcher := NewFetcher(FetcherConfig{
		BaseURL:     "https://cataas.com/cat",
		Placeholder: testPlaceholder,
		Clock:       func() time.Time { return time.Unix(1700000000, 0) },
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.URL.Query().Get("_ts") == "" {
				t.Errorf("expected cache-busting timestamp in %s", req.URL)
			}
			header := http.Header{}
			header.Set("Location", "https://cataas.com/cat/abc123")
			return &http.Response{
				StatusCode: http.StatusFound,
				Header:     header,
				Body:       http.NoBody,
			}, nil
		}),
	})

	got := fetcher.Resolve(context.Background())
	if got != "https://cataas.com/cat/abc123" {
		t.Fatalf("expected redirect location, got %q", got)
	}
}

func TestResolveUsesFinalURLOnDirectResponse(t *testing.T) {
	fetcher := NewFetcher(FetcherConfig{
		BaseURL:     "https://cataas.com/cat",
		Placeholder: testPlaceholder,
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Request:    req,
				Body:       http.NoBody,
			}, nil
		}),
	})

	got := fetcher.Resolve(context.Background())
	if got == testPlaceholder || got == "" {
		t.Fatalf("expected final request URL, got %q", got)
	}
}

func TestResolveFallsBackToPlaceholder(t *testing.T) {
	testCases := []struct {
		name      string
		transport roundTripperFunc
	}{
		{
			name: "network-error",
			transport: func(*http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
		},
		{
			name: "server-error",
			transport: func(*http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusBadGateway, Body: http.NoBody}, nil
			},
		},
		{
			name: "redirect-without-location",
			transport: func(*http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusFound, Header: http.Header{}, Body: http.NoBody}, nil
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			fetcher := NewFetcher(FetcherConfig{
				BaseURL:     "https://cataas.com/cat",
				Placeholder: testPlaceholder,
				Transport:   testCase.transport,
			})
			if got := fetcher.Resolve(context.Background()); got != testPlaceholder {
				t.Fatalf("expected placeholder, got %q", got)
			}
		})
	}
}

func TestResolveWithoutBaseURLReturnsPlaceholder(t *testing.T) {
	fetcher := NewFetcher(FetcherConfig{Placeholder: testPlaceholder})
	if got := fetcher.Resolve(context.Background()); got != testPlaceholder {
		t.Fatalf("expected placeholder, got %q", got)
	}
}
