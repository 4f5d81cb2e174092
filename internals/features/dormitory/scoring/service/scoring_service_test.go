package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asramaku_backend/internals/configs"
)

func testConfig(endpoint string) configs.ScoringConfig {
	return configs.ScoringConfig{
		Endpoint:        endpoint,
		APIKey:          "test-key",
		Model:           "test-model",
		Timeout:         2 * time.Second,
		MaxOutputTokens: 256,
		PassThreshold:   6,
		FallbackEnabled: true,
		FallbackMin:     6,
		FallbackMax:     8,
	}
}

func successBody(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":` + jsonString(text) + `}]},"finishReason":"STOP"}]}`
}

func jsonString(s string) string {
	out := `"`
	for _, r := range s {
		switch r {
		case '"':
			out += `\"`
		case '\n':
			out += `\n`
		default:
			out += string(r)
		}
	}
	return out + `"`
}

/* =========================================================
   parseOutcome
========================================================= */

func TestParseOutcome_Success(t *testing.T) {
	out := parseOutcome([]byte(successBody("Nilai: 8\nKamar rapi.")))
	assert.Equal(t, outcomeSuccess, out.kind)
	assert.Equal(t, "Nilai: 8\nKamar rapi.", out.text)
}

func TestParseOutcome_ErrorPayload(t *testing.T) {
	body := `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`
	out := parseOutcome([]byte(body))
	assert.Equal(t, outcomeErrored, out.kind)
	assert.Contains(t, out.reason, "429")
}

func TestParseOutcome_PromptBlocked(t *testing.T) {
	body := `{"promptFeedback":{"blockReason":"SAFETY"}}`
	out := parseOutcome([]byte(body))
	assert.Equal(t, outcomeBlocked, out.kind)
	assert.Equal(t, "SAFETY", out.reason)
}

func TestParseOutcome_NoCandidates(t *testing.T) {
	out := parseOutcome([]byte(`{}`))
	assert.Equal(t, outcomeErrored, out.kind)
}

func TestParseOutcome_SafetyFinish(t *testing.T) {
	body := `{"candidates":[{"finishReason":"SAFETY"}]}`
	out := parseOutcome([]byte(body))
	assert.Equal(t, outcomeBlocked, out.kind)
}

func TestParseOutcome_TruncatedWithText(t *testing.T) {
	body := `{"candidates":[{"content":{"parts":[{"text":"Nilai: 7"}]},"finishReason":"MAX_TOKENS"}]}`
	out := parseOutcome([]byte(body))
	assert.Equal(t, outcomePartial, out.kind)
	assert.Equal(t, "Nilai: 7", out.text)
}

func TestParseOutcome_TruncatedWithoutText(t *testing.T) {
	body := `{"candidates":[{"finishReason":"MAX_TOKENS"}]}`
	out := parseOutcome([]byte(body))
	assert.Equal(t, outcomeErrored, out.kind)
}

func TestParseOutcome_Garbage(t *testing.T) {
	out := parseOutcome([]byte(`bukan json`))
	assert.Equal(t, outcomeErrored, out.kind)
}

/* =========================================================
   parseScoreAndFeedback
========================================================= */

func TestParseScoreAndFeedback(t *testing.T) {
	cases := []struct {
		name         string
		text         string
		wantScore    int
		wantFeedback string
	}{
		{"format standar", "Nilai: 8\nKamar rapi dan bersih.", 8, "Kamar rapi dan bersih."},
		{"marker skor", "Skor: 5\nTempat tidur berantakan.", 5, "Tempat tidur berantakan."},
		{"di atas batas", "Nilai: 15\nBagus.", 10, "Bagus."},
		{"negatif", "Nilai: -3\nParah.", 0, "Parah."},
		{"tanpa marker", "Kamar cukup rapi.", 0, "Kamar cukup rapi."},
		{"hanya skor", "Nilai: 7", 7, "Analisis selesai."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score, feedback := parseScoreAndFeedback(tc.text)
			assert.Equal(t, tc.wantScore, score)
			assert.Equal(t, tc.wantFeedback, feedback)
		})
	}
}

/* =========================================================
   Score end-to-end (httptest)
========================================================= */

func TestScore_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "generateContent")
		_, _ = w.Write([]byte(successBody("Nilai: 9\nKamar sangat rapi.")))
	}))
	defer srv.Close()

	svc := NewScoringService(testConfig(srv.URL))
	res, err := svc.Score(context.Background(), []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, 9, res.Score)
	assert.Equal(t, "Kamar sangat rapi.", res.Feedback)
	assert.True(t, res.Succeeded)
	assert.False(t, res.UsedFallback)
}

func TestScore_ServerErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"internal"}}`))
	}))
	defer srv.Close()

	svc := NewScoringService(testConfig(srv.URL))
	res, err := svc.Score(context.Background(), []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.True(t, res.UsedFallback)
	assert.GreaterOrEqual(t, res.Score, 6)
	assert.LessOrEqual(t, res.Score, 8)
	assert.NotEmpty(t, res.Feedback)
}

func TestScore_TimeoutFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	svc := NewScoringService(cfg)

	res, err := svc.Score(context.Background(), []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.True(t, res.UsedFallback)
	assert.GreaterOrEqual(t, res.Score, 6)
	assert.LessOrEqual(t, res.Score, 8)
}

func TestScore_FallbackDisabledPropagatesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"internal"}}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.FallbackEnabled = false
	svc := NewScoringService(cfg)

	res, err := svc.Score(context.Background(), []byte("img"), "image/jpeg")
	require.Error(t, err)
	assert.False(t, res.Succeeded)
}

func TestScore_TruncatedAppendsNote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Nilai: 6\nLumayan"}]},"finishReason":"MAX_TOKENS"}]}`))
	}))
	defer srv.Close()

	svc := NewScoringService(testConfig(srv.URL))
	res, err := svc.Score(context.Background(), []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, 6, res.Score)
	assert.Contains(t, res.Feedback, "analisis terpotong")
}

/* =========================================================
   CheckRoomScene
========================================================= */

func TestCheckRoomScene_ExcludedCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(successBody("lorong")))
	}))
	defer srv.Close()

	svc := NewScoringService(testConfig(srv.URL))
	ok, category := svc.CheckRoomScene(context.Background(), []byte("img"), "image/jpeg")
	assert.False(t, ok)
	assert.Equal(t, "lorong", category)
}

func TestCheckRoomScene_RoomAccepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(successBody("kamar")))
	}))
	defer srv.Close()

	svc := NewScoringService(testConfig(srv.URL))
	ok, category := svc.CheckRoomScene(context.Background(), []byte("img"), "image/jpeg")
	assert.True(t, ok)
	assert.Empty(t, category)
}

func TestCheckRoomScene_FailOpenOnError(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Timeout = 100 * time.Millisecond
	svc := NewScoringService(cfg)

	ok, category := svc.CheckRoomScene(context.Background(), []byte("img"), "image/jpeg")
	assert.True(t, ok)
	assert.Empty(t, category)
}

/* =========================================================
   Fallback bounds
========================================================= */

func TestFallback_ScoreStaysInsideBounds(t *testing.T) {
	svc := NewScoringService(testConfig("http://unused"))

	for i := 0; i < 50; i++ {
		res := svc.Fallback()
		assert.GreaterOrEqual(t, res.Score, 6)
		assert.LessOrEqual(t, res.Score, 8)
		assert.True(t, res.UsedFallback)
		assert.NotEmpty(t, res.Feedback)
	}
}

func TestFallback_DegenerateRange(t *testing.T) {
	cfg := testConfig("http://unused")
	cfg.FallbackMin = 7
	cfg.FallbackMax = 7
	svc := NewScoringService(cfg)

	res := svc.Fallback()
	assert.Equal(t, 7, res.Score)
}

func TestFallback_MisconfiguredRangeClampedToTen(t *testing.T) {
	cfg := testConfig("http://unused")
	cfg.FallbackMin = 12
	cfg.FallbackMax = 15
	svc := NewScoringService(cfg)

	// salah konfigurasi pun skor tidak boleh melewati skala 0..10
	res := svc.Fallback()
	assert.Equal(t, 10, res.Score)
}
