package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	"DayTradeAnalytics/internal/analysis"
	"DayTradeAnalytics/internal/recorder"
)

func money(v null.Float) string {
	if !v.Valid {
		return "n/a"
	}
	return decimal.NewFromFloat(v.Float64).StringFixed(2)
}

// FormatAnalysis formats one analysis report into a Telegram HTML message.
func FormatAnalysis(r *analysis.Report) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", html.EscapeString(r.Ticker), r.CreatedAt.Format("2006-01-02 15:04")))

	if last, ok := r.Series.Last(); ok {
		n := len(r.Derived.EMA20)
		b.WriteString(fmt.Sprintf("Last close: %s (%s)\n", money(null.FloatFrom(last.Close)), last.Date.Format("2006-01-02")))
		b.WriteString(fmt.Sprintf("SMA20: %s | EMA20: %s\n", money(r.Derived.SMA20[n-1]), money(null.FloatFrom(r.Derived.EMA20[n-1]))))
		b.WriteString(fmt.Sprintf("Rows: %d (%s)\n", r.Series.Len(), r.Series.Period.Label()))
	} else {
		b.WriteString("No price data returned.\n")
	}

	switch {
	case r.HasAnalysis():
		b.WriteString("\n")
		b.WriteString(html.EscapeString(r.Markdown))
		b.WriteString("\n")
	case r.AgentErr != nil:
		b.WriteString(fmt.Sprintf("\n⚠️ %s\n", html.EscapeString(r.AgentErr.Error())))
	}
	return b.String()
}

// FormatHistory formats recent analyses for the /history command.
func FormatHistory(records []recorder.AnalysisRecord) string {
	if len(records) == 0 {
		return "No analyses recorded yet."
	}
	var b strings.Builder
	b.WriteString("🗂 <b>Recent analyses</b>\n\n")
	for _, rec := range records {
		ai := "charts only"
		if rec.AIText {
			ai = "AI"
		}
		b.WriteString(fmt.Sprintf("%s <b>%s</b> close %s, SMA20 %s, %d rows, %s (%s)\n",
			rec.CreatedAt.Format("01-02 15:04"), html.EscapeString(rec.Ticker),
			money(rec.LastClose), money(rec.SMA20), rec.Rows, ai, rec.Source))
	}
	return b.String()
}

// FormatError formats a failed watchlist run.
func FormatError(ticker string, err error) string {
	return fmt.Sprintf("❌ <b>%s</b> analysis failed: %s\n%s",
		html.EscapeString(ticker), html.EscapeString(err.Error()), time.Now().Format("2006-01-02 15:04"))
}

// HelpText lists the supported commands.
const HelpText = "Available commands:\n• /analyze &lt;TICKER&gt;\n• /history\n• /help"
