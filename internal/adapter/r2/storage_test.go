package r2

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edukar/edukar-store/internal/config"
	domainErrors "github.com/edukar/edukar-store/internal/domain/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newBucketServer(t *testing.T, objects map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "AWS4-HMAC-SHA256") {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		key := strings.TrimPrefix(r.URL.Path, "/edukar/")
		body, ok := objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientOpen(t *testing.T) {
	srv := newBucketServer(t, map[string]string{"docs/exam.pdf": "%PDF-1.4 exam"})

	client, err := NewClient(Options{
		Endpoint:        srv.URL,
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		Bucket:          "edukar",
	}, testLogger())
	require.NoError(t, err)

	obj, err := client.Open(context.Background(), "docs/exam.pdf")
	require.NoError(t, err)
	defer obj.Body.Close()

	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 exam", string(data))
	assert.Equal(t, "application/pdf", obj.ContentType)

	_, err = client.Open(context.Background(), "docs/missing.pdf")
	assert.True(t, errors.Is(err, domainErrors.ErrNotFound), "got %v", err)
}

func TestNewClientRequiresEndpoint(t *testing.T) {
	_, err := NewClient(Options{Bucket: "edukar"}, testLogger())
	assert.Error(t, err)
}

func TestModuleFallsBackWhenUnconfigured(t *testing.T) {
	store, err := newStore(storeParams{Config: &config.Config{}, Logger: testLogger()})
	require.NoError(t, err)

	_, err = store.Open(context.Background(), "docs/exam.pdf")
	assert.ErrorIs(t, err, domainErrors.ErrStorageUnavailable)

	store, err = newStore(storeParams{
		Config: &config.Config{R2: config.R2Config{AccountID: "acc", Bucket: "edukar"}},
		Logger: testLogger(),
	})
	require.NoError(t, err)
	assert.IsType(t, &Client{}, store)
}
