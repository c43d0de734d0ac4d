package voice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitiateCall(t *testing.T) {
	var got CallParams
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer key-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"status":"success","data":{"call_sid":"CA123","status":"queued"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key-123", time.Second)
	res, err := c.InitiateCall(context.Background(), CallParams{
		RecipientPhoneNumber: "+14155551234",
		AgentID:              "agent-1",
		SaasID:               "tenant-a",
	})
	require.NoError(t, err)
	assert.Equal(t, &CallResult{CallSID: "CA123", Status: "queued"}, res)
	assert.Equal(t, CallParams{RecipientPhoneNumber: "+14155551234", AgentID: "agent-1", SaasID: "tenant-a"}, got)
}

func TestInitiateCallErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusBadGateway, body: `upstream down`},
		{name: "missing call sid", status: http.StatusOK, body: `{"status":"error","message":"agent not found"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "", time.Second).InitiateCall(context.Background(), CallParams{})
			assert.ErrorIs(t, err, ErrCallFailed)
		})
	}
}

func TestInitiateCallNotConfigured(t *testing.T) {
	_, err := NewClient("", "", 0).InitiateCall(context.Background(), CallParams{})
	assert.ErrorIs(t, err, ErrCallFailed)
}

func TestInitiateCallBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", time.Second).InitiateCall(context.Background(), CallParams{})
	assert.ErrorContains(t, err, "failed to decode")
	assert.ErrorIs(t, err, ErrCallFailed)
}

func TestInitiateCallUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "", time.Second).InitiateCall(context.Background(), CallParams{})
	assert.ErrorContains(t, err, "failed to reach voice api")
	assert.ErrorIs(t, err, ErrCallFailed)
}

func TestInitiateCallTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := NewClient(srv.URL, "", time.Second).InitiateCall(ctx, CallParams{})
	assert.ErrorIs(t, err, ErrCallFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
