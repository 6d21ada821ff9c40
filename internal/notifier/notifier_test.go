package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DayTradeAnalytics/internal/analysis"
	"DayTradeAnalytics/internal/calculator"
	"DayTradeAnalytics/internal/collector"
	"DayTradeAnalytics/internal/model"
	"DayTradeAnalytics/internal/recorder"
)

type fakeTelegram struct {
	mu       sync.Mutex
	sent     []map[string]string
	attempts int
	failOn   map[int]bool
	updates  string
	status   int
}

func (f *fakeTelegram) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var payload map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			f.mu.Lock()
			f.attempts++
			failed := f.failOn[f.attempts]
			if !failed && f.status == 0 {
				f.sent = append(f.sent, payload)
			}
			f.mu.Unlock()
			switch {
			case failed:
				w.WriteHeader(http.StatusBadRequest)
			case f.status != 0:
				w.WriteHeader(f.status)
			}
			_, _ = w.Write([]byte(`{"ok":true}`))
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			_, _ = w.Write([]byte(f.updates))
		default:
			http.NotFound(w, r)
		}
	})
}

func newNotifier(t *testing.T, f *fakeTelegram) *TelegramNotifier {
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	tn := NewTelegramNotifier("token", "42", "")
	tn.APIBase = srv.URL
	tn.RetryDelay = time.Millisecond
	return tn
}

func TestSend(t *testing.T) {
	f := &fakeTelegram{}
	tn := newNotifier(t, f)

	require.NoError(t, tn.Send("<b>hi</b>"))
	require.Len(t, f.sent, 1)
	assert.Equal(t, "42", f.sent[0]["chat_id"])
	assert.Equal(t, "HTML", f.sent[0]["parse_mode"])
	assert.Equal(t, "<b>hi</b>", f.sent[0]["text"])
}

func TestSend_SplitsLongMessages(t *testing.T) {
	f := &fakeTelegram{}
	tn := newNotifier(t, f)

	line := strings.Repeat("x", 99) + "\n"
	require.NoError(t, tn.Send(strings.Repeat(line, 90)))
	require.Len(t, f.sent, 3)
	for _, p := range f.sent {
		assert.LessOrEqual(t, len([]rune(p["text"])), maxMessageLen)
	}
}

func TestSend_ErrorStatus(t *testing.T) {
	f := &fakeTelegram{status: http.StatusBadRequest}
	tn := newNotifier(t, f)
	err := tn.Send("x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestSendWithRetry_CancelledContext(t *testing.T) {
	f := &fakeTelegram{status: http.StatusInternalServerError}
	tn := newNotifier(t, f)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tn.SendWithRetry(ctx, "x", 3), context.Canceled)
}

func TestSendWithRetry_RetriesOnlyFailedPart(t *testing.T) {
	f := &fakeTelegram{failOn: map[int]bool{2: true}}
	tn := newNotifier(t, f)

	first := strings.Repeat("a", 99) + "\n"
	second := strings.Repeat("b", 99) + "\n"
	text := strings.Repeat(first, 40) + strings.Repeat(second, 10)
	require.NoError(t, tn.SendWithRetry(context.Background(), text, 2))

	assert.Equal(t, 3, f.attempts)
	require.Len(t, f.sent, 2)
	assert.Equal(t, strings.Repeat(first, 40), f.sent[0]["text"])
	assert.Equal(t, strings.Repeat(second, 10), f.sent[1]["text"])
}

func TestSendWithRetry_ExhaustedRetries(t *testing.T) {
	f := &fakeTelegram{status: http.StatusBadGateway}
	tn := newNotifier(t, f)
	err := tn.SendWithRetry(context.Background(), "x", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 retries exhausted")
	assert.Equal(t, 2, f.attempts)
}

func TestSplitMessage_KeepsEntitiesWhole(t *testing.T) {
	parts := splitMessage("aaaaaa&amp;bbb", 10)
	assert.Equal(t, []string{"aaaaaa", "&amp;bbb"}, parts)

	text := strings.Repeat("x", 3998) + "&lt;tail&gt;"
	parts = splitMessage(text, maxMessageLen)
	require.Len(t, parts, 2)
	assert.Equal(t, strings.Repeat("x", 3998), parts[0])
	assert.True(t, strings.HasPrefix(parts[1], "&lt;"))
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))

	parts := splitMessage("aaaa\nbbbb\ncccc", 10)
	assert.Equal(t, []string{"aaaa\nbbbb\n", "cccc"}, parts)

	parts = splitMessage(strings.Repeat("z", 25), 10)
	assert.Equal(t, []string{strings.Repeat("z", 10), strings.Repeat("z", 10), strings.Repeat("z", 5)}, parts)
}

func TestPoll_DispatchesCommands(t *testing.T) {
	f := &fakeTelegram{updates: `{"ok":true,"result":[
		{"update_id":7,"message":{"text":" /help ","chat":{"id":42}}},
		{"update_id":8},
		{"update_id":9,"message":{"text":"/history","chat":{"id":42}}}]}`}
	tn := newNotifier(t, f)

	var got []string
	next, err := tn.poll(context.Background(), tn.Client, 0, func(cmd string) string {
		got = append(got, cmd)
		if cmd == "/help" {
			return HelpText
		}
		return ""
	})
	require.NoError(t, err)
	assert.Equal(t, 10, next)
	assert.Equal(t, []string{"/help", "/history"}, got)
	require.Len(t, f.sent, 1)
	assert.Equal(t, HelpText, f.sent[0]["text"])
}

func TestPoll_IgnoresForeignChats(t *testing.T) {
	f := &fakeTelegram{updates: `{"ok":true,"result":[
		{"update_id":3,"message":{"text":"/analyze TSLA","chat":{"id":999}}},
		{"update_id":4,"message":{"text":"/analyze MSFT","chat":{"id":42}}}]}`}
	tn := newNotifier(t, f)

	var got []string
	next, err := tn.poll(context.Background(), tn.Client, 0, func(cmd string) string {
		got = append(got, cmd)
		return ""
	})
	require.NoError(t, err)
	assert.Equal(t, 5, next, "foreign updates are still acknowledged")
	assert.Equal(t, []string{"/analyze MSFT"}, got)
	assert.Empty(t, f.sent)
}

func TestFormatAnalysis(t *testing.T) {
	series := &model.PriceSeries{Symbol: "TSLA", Period: model.Period6Months, Bars: collector.GenerateMockBars(180, 30)}
	r := &analysis.Report{
		Ticker:    "TSLA",
		Series:    series,
		Derived:   calculator.Derive(series),
		Markdown:  "| Date | Title |\n<b>x</b>",
		CreatedAt: time.Date(2024, 5, 3, 9, 30, 0, 0, time.UTC),
	}
	out := FormatAnalysis(r)
	assert.Contains(t, out, "<b>TSLA</b> | 2024-05-03 09:30")
	assert.Contains(t, out, "Rows: 30 (Last 6 Months)")
	assert.Contains(t, out, "&lt;b&gt;x&lt;/b&gt;")
	assert.NotContains(t, out, "SMA20: n/a")

	empty := &analysis.Report{
		Ticker:   "ZZZZ",
		Series:   &model.PriceSeries{Symbol: "ZZZZ"},
		Derived:  calculator.Derive(&model.PriceSeries{Symbol: "ZZZZ"}),
		AgentErr: analysis.ErrMissingCredential,
	}
	out = FormatAnalysis(empty)
	assert.Contains(t, out, "No price data returned.")
	assert.Contains(t, out, analysis.ErrMissingCredential.Error())
}

func TestFormatHistory(t *testing.T) {
	assert.Equal(t, "No analyses recorded yet.", FormatHistory(nil))

	out := FormatHistory([]recorder.AnalysisRecord{{
		Ticker: "MSFT", Rows: 126, LastClose: null.FloatFrom(410.126), AIText: true, Source: "watchlist",
		CreatedAt: time.Date(2024, 5, 3, 9, 30, 0, 0, time.UTC),
	}})
	assert.Contains(t, out, "<b>MSFT</b> close 410.13, SMA20 n/a, 126 rows, AI (watchlist)")
}

func TestFormatError(t *testing.T) {
	out := FormatError("AMZN", errors.New("a < b"))
	assert.Contains(t, out, "<b>AMZN</b> analysis failed: a &lt; b")
}
