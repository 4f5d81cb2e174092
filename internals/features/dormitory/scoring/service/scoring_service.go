package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"asramaku_backend/internals/configs"
	"asramaku_backend/internals/constants"
)

// Prompt default penilaian kerapian kamar (skala 0-10).
const DefaultScorePrompt = `Kamu adalah pemeriksa kamar asrama. Nilai kerapian kamar pada foto ini.
Balas dengan format:
Nilai: <angka 0-10>
<umpan balik singkat 1-2 kalimat dalam bahasa Indonesia>`

// Prompt klasifikasi scene: kamar tidur vs kategori terlarang.
const sceneCheckPrompt = `Apakah foto ini memperlihatkan interior kamar tidur asrama?
Jawab HANYA satu kata: "kamar" bila ya, atau salah satu dari: "lorong", "kamar mandi", "luar ruangan", "selfie" bila bukan.`

type ScoreResult struct {
	Score        int    `json:"score"`     // 0..10
	Feedback     string `json:"feedback"`  //
	Succeeded    bool   `json:"succeeded"` // false hanya kalau fallback dimatikan
	UsedFallback bool   `json:"used_fallback"`
}

// ScoringService memanggil layanan image-understanding eksternal
// (generateContent API) dengan timeout keras + kebijakan fallback.
// Konfigurasi di-inject (bukan global) supaya test deterministik.
type ScoringService struct {
	Cfg  configs.ScoringConfig
	HTTP *http.Client
	Rand func(n int) int // injected untuk test; default math/rand
}

func NewScoringService(cfg configs.ScoringConfig) *ScoringService {
	return &ScoringService{
		Cfg:  cfg,
		HTTP: &http.Client{Timeout: cfg.Timeout},
		Rand: rand.Intn,
	}
}

/* =========================================================
   RESPONSE SHAPE (generateContent)
========================================================= */

type genPart struct {
	Text       string         `json:"text,omitempty"`
	InlineData *genInlineData `json:"inline_data,omitempty"`
}

type genInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type genContent struct {
	Parts []genPart `json:"parts"`
}

type genGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

type genRequest struct {
	Contents         []genContent        `json:"contents"`
	GenerationConfig genGenerationConfig `json:"generationConfig"`
}

type genCandidate struct {
	Content      *genContent `json:"content,omitempty"`
	FinishReason string      `json:"finishReason,omitempty"`
}

type genPromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

type genAPIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type genResponse struct {
	Candidates     []genCandidate     `json:"candidates,omitempty"`
	PromptFeedback *genPromptFeedback `json:"promptFeedback,omitempty"`
	Error          *genAPIError       `json:"error,omitempty"`
}

/* =========================================================
   OUTCOME (tagged variant — tiap cabang §response eksplisit,
   bisa dites tanpa jaringan)
========================================================= */

type outcomeKind int

const (
	outcomeErrored outcomeKind = iota
	outcomeBlocked
	outcomePartial // kepotong maxOutputTokens tapi masih ada teks
	outcomeSuccess
)

type outcome struct {
	kind   outcomeKind
	text   string
	reason string
}

// parseOutcome: urutan preseden — error payload → safety block →
// tanpa kandidat → terpotong token → sukses penuh.
func parseOutcome(body []byte) outcome {
	var resp genResponse
	if err := sonic.Unmarshal(body, &resp); err != nil {
		return outcome{kind: outcomeErrored, reason: fmt.Sprintf("payload tidak valid: %v", err)}
	}

	if resp.Error != nil {
		return outcome{kind: outcomeErrored, reason: fmt.Sprintf("service error %d: %s", resp.Error.Code, resp.Error.Message)}
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return outcome{kind: outcomeBlocked, reason: resp.PromptFeedback.BlockReason}
	}
	if len(resp.Candidates) == 0 {
		return outcome{kind: outcomeErrored, reason: "tidak ada kandidat pada respons"}
	}

	cand := resp.Candidates[0]
	if cand.FinishReason == "SAFETY" {
		return outcome{kind: outcomeBlocked, reason: "SAFETY"}
	}

	text := ""
	if cand.Content != nil {
		var sb strings.Builder
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		text = strings.TrimSpace(sb.String())
	}

	if cand.FinishReason == "MAX_TOKENS" {
		if text == "" {
			return outcome{kind: outcomeErrored, reason: "respons terpotong tanpa teks"}
		}
		return outcome{kind: outcomePartial, text: text, reason: "MAX_TOKENS"}
	}
	if text == "" {
		return outcome{kind: outcomeErrored, reason: "kandidat tanpa teks"}
	}
	return outcome{kind: outcomeSuccess, text: text}
}

/* =========================================================
   SCORE
========================================================= */

// Score menilai foto kamar. TIDAK pernah return error selama fallback aktif:
// kegagalan service eksternal bukan alasan submit penghuni gagal.
func (s *ScoringService) Score(ctx context.Context, imageBytes []byte, mimeType string) (ScoreResult, error) {
	body, err := s.call(ctx, imageBytes, mimeType, DefaultScorePrompt)
	if err != nil {
		log.Printf("[SCORING] ⚠️ panggilan gagal: %v", err)
		return s.fallbackOr(err)
	}

	out := parseOutcome(body)
	switch out.kind {
	case outcomeSuccess:
		score, feedback := parseScoreAndFeedback(out.text)
		return ScoreResult{Score: score, Feedback: feedback, Succeeded: true}, nil
	case outcomePartial:
		score, feedback := parseScoreAndFeedback(out.text)
		feedback = feedback + " (Catatan: analisis terpotong, hasil tidak lengkap.)"
		return ScoreResult{Score: score, Feedback: feedback, Succeeded: true}, nil
	default:
		log.Printf("[SCORING] ⚠️ respons tidak terpakai (%s)", out.reason)
		return s.fallbackOr(fmt.Errorf("scoring gagal: %s", out.reason))
	}
}

// CheckRoomScene: content check opsional — foto harus interior kamar.
// Return (true, "") bila OK atau service tidak bisa memutuskan (fail-open).
func (s *ScoringService) CheckRoomScene(ctx context.Context, imageBytes []byte, mimeType string) (bool, string) {
	body, err := s.call(ctx, imageBytes, mimeType, sceneCheckPrompt)
	if err != nil {
		log.Printf("[SCORING] ⚠️ scene check gagal, dilewati: %v", err)
		return true, ""
	}
	out := parseOutcome(body)
	if out.kind != outcomeSuccess && out.kind != outcomePartial {
		return true, ""
	}

	answer := strings.ToLower(strings.TrimSpace(out.text))
	for _, cat := range constants.ExcludedSceneCategories {
		if strings.Contains(answer, cat) {
			return false, cat
		}
	}
	return true, ""
}

func (s *ScoringService) call(ctx context.Context, imageBytes []byte, mimeType string, prompt string) ([]byte, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	reqBody := genRequest{
		Contents: []genContent{{
			Parts: []genPart{
				{Text: prompt},
				{InlineData: &genInlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(imageBytes),
				}},
			},
		}},
		GenerationConfig: genGenerationConfig{
			MaxOutputTokens: s.Cfg.MaxOutputTokens,
			Temperature:     0.2,
		},
	}

	payload, err := sonic.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimRight(s.Cfg.Endpoint, "/"), s.Cfg.Model, s.Cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	// 4xx/5xx juga bawa payload error terstruktur → biar parseOutcome yang baca
	return body, nil
}

/* =========================================================
   PARSE SKOR
========================================================= */

var scoreLineRe = regexp.MustCompile(`(?i)(nilai|skor|score)`)
var firstIntRe = regexp.MustCompile(`-?\d+`)

// parseScoreAndFeedback: cari baris bermarker skor, ambil integer pertama,
// clamp 0..10; sisanya jadi feedback.
func parseScoreAndFeedback(text string) (int, string) {
	lines := strings.Split(text, "\n")
	score := 0
	found := false
	var feedbackLines []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !found && scoreLineRe.MatchString(trimmed) {
			if m := firstIntRe.FindString(trimmed); m != "" {
				if n, err := strconv.Atoi(m); err == nil {
					score = clampScore(n)
					found = true
					continue // baris skor tidak ikut feedback
				}
			}
		}
		if trimmed != "" {
			feedbackLines = append(feedbackLines, trimmed)
		}
	}

	feedback := strings.TrimSpace(strings.Join(feedbackLines, " "))
	if feedback == "" {
		feedback = "Analisis selesai."
	}
	return score, feedback
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 10 {
		return 10
	}
	return n
}

/* =========================================================
   FALLBACK
   Garis pertahanan terakhir: service eksternal mati bukan berarti
   submit penghuni gagal. Skor acak terbatas di rentang "kemungkinan
   lulus" + feedback kalengan, ditandai UsedFallback utk audit.
========================================================= */

var fallbackFeedbacks = []string{
	"Kamar terlihat cukup rapi. Pertahankan ya!",
	"Secara umum kondisi kamar baik, tetap jaga kerapiannya.",
	"Kamar dalam kondisi layak. Terus rapikan tempat tidur setiap pagi.",
	"Kondisi kamar memadai. Perhatikan kebersihan lantai dan meja.",
}

func (s *ScoringService) fallbackOr(err error) (ScoreResult, error) {
	if !s.Cfg.FallbackEnabled {
		return ScoreResult{Succeeded: false}, err
	}
	return s.Fallback(), nil
}

// Fallback tidak pernah gagal.
func (s *ScoringService) Fallback() ScoreResult {
	lo, hi := s.Cfg.FallbackMin, s.Cfg.FallbackMax
	if lo < 0 {
		lo = 0
	}
	if lo > 10 {
		lo = 10
	}
	if hi > 10 {
		hi = 10
	}
	if hi < lo {
		hi = lo
	}

	score := lo
	if hi > lo {
		score = lo + s.Rand(hi-lo+1)
	}
	feedback := fallbackFeedbacks[s.Rand(len(fallbackFeedbacks))]

	return ScoreResult{
		Score:        score,
		Feedback:     feedback,
		Succeeded:    true,
		UsedFallback: true,
	}
}
