package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/signetic/internal/detector"
	"github.com/ayusman/signetic/internal/gesture"
	"github.com/ayusman/signetic/internal/observe"
	"github.com/ayusman/signetic/internal/store"
	"github.com/ayusman/signetic/internal/typing"
)

type testEnv struct {
	ts      *httptest.Server
	srv     *Server
	session *typing.Session
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	provider, err := observe.InitProvider(context.Background(), observe.ProviderConfig{ServiceName: "signetic-test"})
	require.NoError(t, err)
	t.Cleanup(func() { provider.Shutdown(context.Background()) })

	classifier := gesture.NewClassifier(gesture.DefaultThresholds(), gesture.DefaultWaveConfig().Cycles)
	engine := typing.NewEngine(typing.Config{WindowSize: 1, StabilityThreshold: 2}, classifier, nil)
	session := typing.NewSession(engine, typing.WithMetrics(provider.Metrics))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		session.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	srv := New(Config{
		Store:          st,
		Session:        session,
		Classifier:     classifier,
		Metrics:        provider.Metrics,
		MetricsHandler: provider.Handler,
	})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	return &testEnv{ts: ts, srv: srv, session: session}
}

func (e *testEnv) submit(t *testing.T, letter string, frames int) {
	t.Helper()
	hand, ok := detector.LetterLandmarks(letter)
	require.True(t, ok)
	for i := 0; i < frames; i++ {
		_, err := e.session.Submit(context.Background(), &hand)
		require.NoError(t, err)
	}
}

func TestAPI_TypingWorkflow(t *testing.T) {
	env := newTestEnv(t)
	client := env.ts.Client()

	env.submit(t, "A", 2)
	env.submit(t, "B", 2)

	// 1. Live status
	resp, err := client.Get(env.ts.URL + "/api/status")
	require.NoError(t, err)
	var status typing.Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	resp.Body.Close()
	assert.Equal(t, "AB", status.Text)
	assert.True(t, status.Present)

	// 2. External backspace, then the same letter can be retyped at once
	resp, err = client.Post(env.ts.URL+"/api/text/backspace", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	env.submit(t, "B", 2)
	assert.Equal(t, "AB", env.session.Status().Text)

	// 3. Save the buffer
	resp, err = client.Post(env.ts.URL+"/api/transcripts", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.Get(env.ts.URL + "/api/transcripts")
	require.NoError(t, err)
	var list struct {
		Transcripts []struct {
			Text string `json:"text"`
		} `json:"transcripts"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	require.Len(t, list.Transcripts, 1)
	assert.Equal(t, "AB", list.Transcripts[0].Text)

	// 4. Metrics reflect commits and requests
	resp, err = client.Get(env.ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "signetic_commits")
	assert.Contains(t, string(body), "signetic_http_request_duration")
}

func TestAPI_ClassifyAndCalibrate(t *testing.T) {
	env := newTestEnv(t)
	client := env.ts.Client()

	for _, l := range []string{"W", "Y"} {
		hand, _ := detector.LetterLandmarks(l)
		body, _ := json.Marshal(map[string]any{"label": l, "landmarks": hand.Points})
		resp, err := client.Post(env.ts.URL+"/api/samples", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, err := client.Get(env.ts.URL + "/api/samples/report")
	require.NoError(t, err)
	var rep gesture.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rep))
	resp.Body.Close()
	assert.Equal(t, 2, rep.Total)
	assert.Equal(t, 1.0, rep.Accuracy)

	hand, _ := detector.LetterLandmarks("W")
	body, _ := json.Marshal(map[string]any{"landmarks": hand.Points})
	resp, err = client.Post(env.ts.URL+"/api/classify", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	var res gesture.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	resp.Body.Close()
	assert.Equal(t, gesture.Symbol("W"), res.Symbol)
}

func TestAPI_StatusWebSocket(t *testing.T) {
	env := newTestEnv(t)

	wsURL := "ws" + strings.TrimPrefix(env.ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() typing.Status {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		var st typing.Status
		require.NoError(t, json.Unmarshal(msg, &st))
		return st
	}

	initial := read()
	assert.Equal(t, typing.DisplayNoHand, initial.Display)

	require.Eventually(t, func() bool { return env.srv.Hub().Clients() == 1 }, time.Second, time.Millisecond)

	env.submit(t, "V", 2)
	first := read()
	assert.Equal(t, gesture.Symbol("V"), first.Raw)
	second := read()
	assert.Equal(t, gesture.Symbol("V"), second.Committed)
	assert.Equal(t, "V", second.Text)
}
