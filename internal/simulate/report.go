package simulate

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/okian/cricscore/internal/domain/analytics"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("8"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

var columns = []struct {
	title string
	width int
}{
	{"innings", 18}, {"balls", 6}, {"score", 9}, {"overs", 6}, {"stored", 7}, {"clicks", 7}, {"status", 24},
}

// Render formats a report as a terminal table with a totals card.
func Render(r *Report) string {
	rows := []string{titleStyle.Render("cricscore simulation"), renderRow(headerStyle, headers())}
	for _, res := range r.Results {
		style := okStyle
		if res.Problems() > 0 {
			style = failStyle
		}
		rows = append(rows, renderRow(lipgloss.NewStyle(), []string{
			res.MatchID,
			fmt.Sprint(res.Balls),
			fmt.Sprintf("%d/%d", res.Got.Runs, res.Got.Wickets),
			analytics.FormatOvers(res.Got.LegalBalls),
			fmt.Sprintf("%d/%d", res.Stored, res.Want.Deliveries),
			fmt.Sprint(res.PitchMismatches + res.FieldMismatches + res.MissesAccepted),
			style.Render(status(res)),
		}))
	}
	table := lipgloss.JoinVertical(lipgloss.Left, rows...)

	s := r.Stats
	rate := 0.0
	if secs := s.Duration.Seconds(); secs > 0 {
		rate = float64(s.Requests) / secs
	}
	verdict := okStyle.Render("all innings verified")
	if s.Problems > 0 {
		verdict = failStyle.Render(fmt.Sprintf("%d problems", s.Problems))
	}
	card := cardStyle.Render(strings.Join([]string{
		fmt.Sprintf("innings   %d", s.Innings),
		fmt.Sprintf("balls     %d", s.Balls),
		fmt.Sprintf("requests  %d (%.0f/s)", s.Requests, rate),
		fmt.Sprintf("duration  %s", s.Duration.Round(time.Millisecond)),
		verdict,
	}, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, table, "", card) + "\n"
}

func headers() []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.title
	}
	return out
}

func renderRow(style lipgloss.Style, cells []string) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = style.Width(columns[i].width).MaxWidth(columns[i].width).Render(c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// status describes the first thing that went wrong with an innings.
func status(r Result) string {
	switch {
	case r.Err != nil:
		return "error: " + r.Err.Error()
	case r.CommitFailures > 0:
		return fmt.Sprintf("%d commits rejected", r.CommitFailures)
	case r.MissesAccepted > 0:
		return fmt.Sprintf("%d misses classified", r.MissesAccepted)
	case r.PitchMismatches+r.FieldMismatches > 0:
		return fmt.Sprintf("%d clicks misclassified", r.PitchMismatches+r.FieldMismatches)
	case r.Stored != r.Want.Deliveries:
		return "stored count differs"
	case r.Got != r.Want:
		return fmt.Sprintf("scorecard %d/%d want %d/%d", r.Got.Runs, r.Got.Wickets, r.Want.Runs, r.Want.Wickets)
	}
	return "ok"
}
