package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/helmcode/sns-qa/pkg/model"
	"github.com/helmcode/sns-qa/pkg/score"
)

const (
	progressWidth  = 40
	scorePending   = "--"
	noIssues       = "No issues found"
	noHashtags     = "No hashtags"
	noCTA          = "No CTA suggestions"
	emptyStateText = "No analysis yet. Submit content to see the report."
)

// DisplayResults writes the view model in the requested format. A nil view
// model renders the empty state. The output depends only on its inputs.
func DisplayResults(w io.Writer, vm *model.ViewModel, format string, noColor bool) error {
	switch format {
	case "json":
		return displayJSON(w, vm)
	case "yaml":
		return displayYAML(w, vm)
	case "human":
		fallthrough
	default:
		displayHuman(w, vm, newPalette(noColor))
	}
	return nil
}

func displayJSON(w io.Writer, vm *model.ViewModel) error {
	output, err := json.MarshalIndent(vm, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func displayYAML(w io.Writer, vm *model.ViewModel) error {
	output, err := yaml.Marshal(vm)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, string(output))
	return err
}

type palette struct {
	heading   *color.Color
	warn      *color.Color
	ok        *color.Color
	muted     *color.Color
	excellent *color.Color
	good      *color.Color
	average   *color.Color
	poor      *color.Color
	mandatory *color.Color
	high      *color.Color
	medium    *color.Color
	low       *color.Color
	plain     *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		heading:   color.New(color.FgCyan, color.Bold),
		warn:      color.New(color.FgYellow, color.Bold),
		ok:        color.New(color.FgGreen, color.Bold),
		muted:     color.New(color.FgHiBlack),
		excellent: color.New(color.FgGreen, color.Bold),
		good:      color.New(color.FgGreen),
		average:   color.New(color.FgYellow),
		poor:      color.New(color.FgRed),
		mandatory: color.New(color.FgMagenta, color.Bold),
		high:      color.New(color.FgRed),
		medium:    color.New(color.FgYellow),
		low:       color.New(color.FgGreen),
		plain:     color.New(color.FgCyan),
	}
	if noColor {
		for _, c := range []*color.Color{
			p.heading, p.warn, p.ok, p.muted, p.excellent, p.good, p.average,
			p.poor, p.mandatory, p.high, p.medium, p.low, p.plain,
		} {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) band(b score.Band) *color.Color {
	switch b {
	case score.Excellent:
		return p.excellent
	case score.Good:
		return p.good
	case score.Average:
		return p.average
	default:
		return p.poor
	}
}

func (p palette) chip(c model.HashtagChip) *color.Color {
	if c.IsMandatory {
		return p.mandatory
	}
	switch c.CompetitionLevel {
	case model.CompetitionHigh:
		return p.high
	case model.CompetitionMedium:
		return p.medium
	case model.CompetitionLow:
		return p.low
	default:
		return p.plain
	}
}

func displayHuman(w io.Writer, vm *model.ViewModel, p palette) {
	fmt.Fprintln(w)
	if vm == nil {
		p.muted.Fprintln(w, emptyStateText)
		return
	}

	displayScores(w, vm.Scores, p)
	displayIssues(w, vm.Issues, p)

	p.heading.Fprintln(w, "📝 CONTENT CHECKS:")
	fmt.Fprintf(w, "   Grammar: %s\n", vm.Checks.Grammar)
	fmt.Fprintf(w, "   Tone:    %s\n", vm.Checks.Tone)
	fmt.Fprintf(w, "   CTA:     %s\n\n", vm.Checks.CTA)

	displayChips(w, "#️⃣  FINAL HASHTAG PACK:", vm.Final.FinalHashtagPack, p)
	displayChips(w, "🔥 TRENDING HASHTAGS:", vm.Hashtags.Trending, p)
	displayChips(w, "💡 SUGGESTED REPLACEMENTS:", vm.Hashtags.Suggested, p)

	p.ok.Fprintln(w, "✨ OPTIMIZED TITLE:")
	fmt.Fprintln(w, wrapText(textOrNA(vm.Final.OptimizedTitle), 80, "   "))
	fmt.Fprintln(w)
	p.ok.Fprintln(w, "✨ OPTIMIZED CONTENT:")
	fmt.Fprintln(w, wrapText(textOrNA(vm.Final.OptimizedContent), 80, "   "))
	fmt.Fprintln(w)

	p.heading.Fprintln(w, "🚀 CTA VARIANTS:")
	if len(vm.CTAVariants) == 0 {
		p.muted.Fprintf(w, "   %s\n", noCTA)
	}
	for i, cta := range vm.CTAVariants {
		fmt.Fprintf(w, "   %d. %s\n", i+1, cta)
	}
	fmt.Fprintln(w)

	// Footer
	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintf(w, "💡 %s\n", p.muted.Sprint("Run with -o json or -o yaml for machine-readable output"))
}

func displayScores(w io.Writer, s model.ScoreSet, p palette) {
	if s.OverallPresent {
		band := score.Classify(s.Overall)
		p.band(band).Fprintf(w, "📊 OVERALL SCORE: %s / 100 (%s)\n", formatScore(s.Overall), strings.ToUpper(band.String()))
	} else {
		p.heading.Fprintf(w, "📊 OVERALL SCORE: %s / 100\n", scorePending)
	}
	fmt.Fprintf(w, "   %s\n\n", progressBar(s.Overall))

	p.heading.Fprintln(w, "📈 SCORE BREAKDOWN:")
	for _, row := range []struct {
		name  string
		value *float64
	}{
		{"Quality", s.Quality},
		{"SEO", s.SEO},
		{"Engagement", s.Engagement},
		{"Structure", s.Structure},
	} {
		band, ok := score.ClassifyOptional(row.value)
		if !ok {
			fmt.Fprintf(w, "   %-12s %6s\n", row.name, scorePending)
			continue
		}
		fmt.Fprintf(w, "   %-12s %6s  %s\n", row.name, formatScore(*row.value), p.band(band).Sprint(band.String()))
	}
	fmt.Fprintln(w)
}

func displayIssues(w io.Writer, issues []string, p palette) {
	p.warn.Fprintln(w, "⚠️  ISSUES FOUND:")
	if len(issues) == 0 {
		p.ok.Fprintf(w, "   %s\n\n", noIssues)
		return
	}
	for i, issue := range issues {
		fmt.Fprintf(w, "   %d. %s\n", i+1, issue)
	}
	fmt.Fprintln(w)
}

func displayChips(w io.Writer, title string, chips []model.HashtagChip, p palette) {
	p.heading.Fprintln(w, title)
	if len(chips) == 0 {
		p.muted.Fprintf(w, "   %s\n\n", noHashtags)
		return
	}
	for _, c := range chips {
		line := c.Label
		if tier := c.Tier(); tier != "trending" {
			line += " [" + tier + "]"
		}
		fmt.Fprintf(w, "   • %s\n", p.chip(c).Sprint(line))
	}
	fmt.Fprintln(w)
}

// progressBar fills proportionally to min(overall, 100).
func progressBar(overall float64) string {
	pct := math.Max(0, math.Min(overall, 100))
	filled := int(math.Round(pct / 100 * progressWidth))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", progressWidth-filled) + "] " +
		strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}

func formatScore(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}

func textOrNA(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return model.NotAvailable
	}
	return *s
}

func wrapText(text string, width int, indent string) string {
	var result strings.Builder
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		currentLine := indent
		for _, word := range words {
			if currentLine != indent && len(currentLine)+len(word)+1 > width {
				result.WriteString(currentLine + "\n")
				currentLine = indent + word
			} else if currentLine == indent {
				currentLine += word
			} else {
				currentLine += " " + word
			}
		}

		if currentLine != indent {
			result.WriteString(currentLine + "\n")
		}
	}

	return strings.TrimSuffix(result.String(), "\n")
}
