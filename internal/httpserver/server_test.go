package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/robalobadob/parasight/internal/content"
	"github.com/robalobadob/parasight/internal/game"
	"github.com/robalobadob/parasight/internal/store"
)

type memCatalog struct {
	ps []game.Paragraph
}

func (c *memCatalog) Get(_ context.Context, id string) (game.Paragraph, error) {
	for _, p := range c.ps {
		if p.ID == id {
			return p, nil
		}
	}
	return game.Paragraph{}, content.ErrNotFound
}

func (c *memCatalog) ByDate(_ context.Context, date string) (game.Paragraph, error) {
	for _, p := range c.ps {
		if p.Date == date {
			return p, nil
		}
	}
	return game.Paragraph{}, content.ErrNotFound
}

func (c *memCatalog) List(context.Context) ([]content.Meta, error) {
	out := []content.Meta{}
	for _, p := range c.ps {
		out = append(out, content.Meta{ID: p.ID, Date: p.Date, Title: p.Title})
	}
	return out, nil
}

type zeroRand struct{}

func (zeroRand) Intn(int) int { return 0 }

func threeClues(top int) []game.Clue {
	return []game.Clue{
		{Type: "Indirect", Clue: "hard", Points: top},
		{Type: "Suggestive", Clue: "medium", Points: top / 2},
		{Type: "Straight", Clue: "easy", Points: 1},
	}
}

var testCatalog = &memCatalog{ps: []game.Paragraph{
	{
		ID:    "fox",
		Date:  "2026-10-19",
		Title: "Fox",
		Text:  "The quick brown fox jumps over the lazy dog.",
		HiddenWords: []game.HiddenWord{
			{Word: "quick", Clues: threeClues(4)},
			{Word: "jumps", Clues: threeClues(6)},
			{Word: "lazy", Clues: threeClues(8)},
		},
	},
	{
		ID:    "cat",
		Title: "Cat",
		Text:  "A sleepy cat purrs.",
		HiddenWords: []game.HiddenWord{
			{Word: "sleepy", Clues: threeClues(4)},
		},
	},
}}

type harness struct {
	t     *testing.T
	srv   *Server
	store store.Store
	now   time.Time
	token string
}

func newHarness(t *testing.T) *harness {
	h := &harness{t: t, store: store.NewMemoryStore(), now: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
	h.srv = New(Options{
		Store:      h.store,
		Catalog:    testCatalog,
		Parameters: game.Parameters{Penalties: game.Penalties{WrongGuess: 3}, Marketplace: game.Marketplace{Vowel: game.Cost{Cost: 10}, Consonant: game.Cost{Cost: 15}}},
		Suffixes:   []game.SuffixRule{{Ending: "s"}},
		SigningKey: []byte("0123456789abcdef0123456789abcdef"),
		SessionTTL: time.Hour,
		DailySalt:  "salt",
		Now:        func() time.Time { return h.now },
		NewRand:    func() game.Rand { return zeroRand{} },
	})
	return h
}

func (h *harness) do(method, path string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			h.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	rec := httptest.NewRecorder()
	h.srv.Router().ServeHTTP(rec, req)
	return rec
}

func (h *harness) start(paragraphID string) sessionView {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/session/new", map[string]string{"paragraphId": paragraphID})
	if rec.Code != http.StatusOK {
		h.t.Fatalf("POST /session/new = %d %s", rec.Code, rec.Body)
	}
	var res sessionRes
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		h.t.Fatal(err)
	}
	if res.Token == "" {
		h.t.Fatal("no token issued")
	}
	h.token = res.Token
	return res.Session
}

type actionBody struct {
	Error   string          `json:"error"`
	Result  json.RawMessage `json:"result"`
	Session sessionView     `json:"session"`
}

func (h *harness) action(path string, body any, wantCode int) actionBody {
	h.t.Helper()
	rec := h.do(http.MethodPost, path, body)
	if rec.Code != wantCode {
		h.t.Fatalf("POST %s = %d, want %d: %s", path, rec.Code, wantCode, rec.Body)
	}
	var out actionBody
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		h.t.Fatal(err)
	}
	return out
}

func (h *harness) selectLetters() sessionView {
	h.t.Helper()
	h.action("/session/select/vowel", letterReq{Letter: "e"}, http.StatusOK)
	h.action("/session/select/consonant", letterReq{Letter: "t"}, http.StatusOK)
	h.action("/session/select/consonant", letterReq{Letter: "n"}, http.StatusOK)
	return h.action("/session/select/complete", nil, http.StatusOK).Session
}

func TestDiagnostics(t *testing.T) {
	h := newHarness(t)
	for _, path := range []string{"/", "/health"} {
		rec := h.do(http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Errorf("GET %s content type %q", path, ct)
		}
	}
	if rec := h.do(http.MethodGet, "/nope", nil); rec.Code != http.StatusNotFound {
		t.Errorf("GET /nope = %d", rec.Code)
	}
	if rec := h.do(http.MethodOptions, "/session/guess", nil); rec.Code != http.StatusNoContent {
		t.Errorf("OPTIONS preflight = %d", rec.Code)
	}
}

func TestCatalogRoutes(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/paragraphs", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /paragraphs = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "quick") {
		t.Error("paragraph listing leaks hidden words")
	}
	var list struct{ Paragraphs []content.Meta }
	json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list.Paragraphs) != 2 {
		t.Errorf("listed %d paragraphs", len(list.Paragraphs))
	}

	rec = h.do(http.MethodGet, "/daily", nil)
	var d struct {
		Date      string
		Paragraph content.Meta
	}
	json.Unmarshal(rec.Body.Bytes(), &d)
	if rec.Code != http.StatusOK || d.Date != "2026-10-19" || d.Paragraph.ID != "fox" {
		t.Errorf("GET /daily = %d %+v", rec.Code, d)
	}

	if rec := h.do(http.MethodGet, "/daily?date=tomorrow", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad date = %d", rec.Code)
	}
}

func TestNewSessionDefaultsToDaily(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodPost, "/session/new", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /session/new = %d %s", rec.Code, rec.Body)
	}
	var res sessionRes
	json.Unmarshal(rec.Body.Bytes(), &res)
	if res.Session.ParagraphID != "fox" {
		t.Errorf("daily paragraph = %q", res.Session.ParagraphID)
	}
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "parasight_session" {
			cookie = c
		}
	}
	if cookie == nil || !cookie.HttpOnly || cookie.Value != res.Token {
		t.Errorf("session cookie = %+v", cookie)
	}

	if rec := h.do(http.MethodPost, "/session/new", map[string]string{"paragraphId": "missing"}); rec.Code != http.StatusNotFound {
		t.Errorf("unknown paragraph = %d", rec.Code)
	}
}

func TestSessionRequiresToken(t *testing.T) {
	h := newHarness(t)
	if rec := h.do(http.MethodGet, "/session", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d", rec.Code)
	}
	h.token = "garbage"
	if rec := h.do(http.MethodGet, "/session", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token = %d", rec.Code)
	}

	h.start("fox")
	if rec := h.do(http.MethodGet, "/session", nil); rec.Code != http.StatusOK {
		t.Errorf("valid token = %d", rec.Code)
	}
	h.now = h.now.Add(2 * time.Hour)
	if rec := h.do(http.MethodGet, "/session", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("expired token = %d", rec.Code)
	}
}

func TestCookieAuth(t *testing.T) {
	h := newHarness(t)
	h.start("fox")
	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	req.AddCookie(&http.Cookie{Name: "parasight_session", Value: h.token})
	rec := httptest.NewRecorder()
	h.srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("cookie auth = %d", rec.Code)
	}
}

func TestViewHidesOpenWords(t *testing.T) {
	h := newHarness(t)
	v := h.start("fox")

	if v.Text != "The _____ brown fox _____ over the ____ dog." {
		t.Errorf("masked text = %q", v.Text)
	}
	if !v.InitPhase || v.State != "selecting" || v.Score != 100 {
		t.Errorf("initial view = %+v", v)
	}
	for _, w := range v.Words {
		if w.Word != "" || len(w.Clues) != 0 {
			t.Errorf("word %d leaks before selection: %+v", w.Index, w)
		}
	}

	v = h.selectLetters()
	if v.InitPhase || !v.SelectionComplete || v.ChosenVowel != "e" {
		t.Errorf("after selection = %+v", v)
	}
	if len(v.ShownIndices) != 3 {
		t.Errorf("shown = %v", v.ShownIndices)
	}
	for _, w := range v.Words {
		if w.Word != "" {
			t.Errorf("open word %d leaks its text", w.Index)
		}
		if w.ClueShown && (len(w.Clues) != 1 || w.Clues[0].Clue != "hard" || w.ClueCount != 3) {
			t.Errorf("shown word %d exposes unseen tiers: %+v", w.Index, w.Clues)
		}
	}
	if strings.Contains(v.Text, "quick") || strings.Contains(v.Text, "lazy") {
		t.Errorf("text leaks a word: %q", v.Text)
	}
}

func TestGameFlow(t *testing.T) {
	h := newHarness(t)
	h.start("fox")

	out := h.action("/session/guess", guessReq{Guess: "quick"}, http.StatusConflict)
	if out.Error != game.ErrSelectionPending.Error() {
		t.Errorf("guess before selection error = %q", out.Error)
	}
	h.action("/session/purchase/vowel", letterReq{Letter: "a"}, http.StatusConflict)

	h.selectLetters()

	h.action("/session/purchase/vowel", letterReq{Letter: "b"}, http.StatusBadRequest)
	out = h.action("/session/purchase/vowel", letterReq{Letter: "a"}, http.StatusOK)
	var pr game.PurchaseResult
	json.Unmarshal(out.Result, &pr)
	if !pr.Success || pr.Cost != 10 || out.Session.Score != 90 {
		t.Errorf("purchase = %+v score %d", pr, out.Session.Score)
	}
	out = h.action("/session/purchase/vowel", letterReq{Letter: "a"}, http.StatusConflict)
	json.Unmarshal(out.Result, &pr)
	if pr.Success || pr.Score != 90 {
		t.Errorf("repeat purchase result = %+v", pr)
	}

	out = h.action("/session/guess", guessReq{Guess: "nope"}, http.StatusOK)
	var gr game.GuessResult
	json.Unmarshal(out.Result, &gr)
	if gr.Success || gr.Penalty != 3 || out.Session.Score != 87 || out.Session.Attempts != 1 {
		t.Errorf("wrong guess = %+v, score %d", gr, out.Session.Score)
	}

	out = h.action("/session/clue", clueReq{WordIndex: 0, ClueIndex: 1}, http.StatusOK)
	if w := out.Session.Words[0]; len(w.Clues) != 2 || w.Clues[1].Clue != "medium" || w.Award != 2 {
		t.Errorf("after medium clue word view = %+v", w)
	}
	h.action("/session/clue", clueReq{WordIndex: 0, ClueIndex: 5}, http.StatusBadRequest)

	out = h.action("/session/guess", guessReq{Guess: "QUICK"}, http.StatusOK)
	json.Unmarshal(out.Result, &gr)
	if !gr.Success || gr.WordIndex != 0 || gr.PointsEarned != 2 {
		t.Errorf("correct guess = %+v", gr)
	}
	if w := out.Session.Words[0]; !w.Found || w.Word != "quick" || w.Display != "quick" {
		t.Errorf("found word view = %+v", w)
	}
	if !strings.Contains(out.Session.Text, "quick") {
		t.Errorf("found word still masked: %q", out.Session.Text)
	}

	h.action("/session/reveal", revealReq{WordIndex: 9}, http.StatusBadRequest)
	out = h.action("/session/reveal", revealReq{WordIndex: 1}, http.StatusOK)
	var rr game.RevealResult
	json.Unmarshal(out.Result, &rr)
	if !rr.Success || rr.PointsDeducted != 6 {
		t.Errorf("reveal = %+v", rr)
	}
	h.action("/session/guess", guessReq{Guess: "jumps"}, http.StatusConflict)

	out = h.action("/session/guess", guessReq{Guess: "lazy"}, http.StatusOK)
	json.Unmarshal(out.Result, &gr)
	if gr.GameComplete || !out.Session.Finished || out.Session.State != "finished" {
		t.Errorf("end state = %+v, view state %q", gr, out.Session.State)
	}
	h.action("/session/guess", guessReq{Guess: "dog"}, http.StatusConflict)

	h.action("/session/guess", "not an object", http.StatusBadRequest)
}

func TestResetAndRestart(t *testing.T) {
	h := newHarness(t)
	h.start("fox")
	h.selectLetters()
	h.action("/session/guess", guessReq{Guess: "quick"}, http.StatusOK)

	v := h.action("/session/reset", nil, http.StatusOK).Session
	if v.ParagraphID != "fox" || !v.InitPhase || v.Words[0].Found || v.Score != 100 {
		t.Errorf("after reset = %+v", v)
	}

	v = h.start("cat")
	if v.ParagraphID != "cat" {
		t.Errorf("restart paragraph = %q", v.ParagraphID)
	}
	if n := h.store.Len(); n != 1 {
		t.Errorf("store holds %d sessions, want the first one reused", n)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{game.ErrInsufficientScore, http.StatusConflict},
		{game.ErrNotConsonant, http.StatusBadRequest},
		{store.ErrNotFound, http.StatusNotFound},
		{content.ErrNotFound, http.StatusNotFound},
		{game.ErrNoWords, http.StatusUnprocessableEntity},
		{errUnauthorized, http.StatusUnauthorized},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
