package model

import (
	"fmt"
	"strings"
)

// Platform is the publishing target the content is written for.
type Platform string

const (
	PlatformLinkedIn  Platform = "linkedin"
	PlatformInstagram Platform = "instagram"
	PlatformTwitter   Platform = "twitter"
	PlatformFacebook  Platform = "facebook"
	PlatformBlog      Platform = "blog"
)

// Platforms returns the closed set of supported platforms in display order.
func Platforms() []Platform {
	return []Platform{PlatformLinkedIn, PlatformInstagram, PlatformTwitter, PlatformFacebook, PlatformBlog}
}

// ParsePlatform matches s case-insensitively against the supported platforms.
func ParsePlatform(s string) (Platform, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for _, p := range Platforms() {
		if string(p) == want {
			return p, nil
		}
	}
	return "", fmt.Errorf("unsupported platform %q (supported: %s)", s, platformList())
}

func platformList() string {
	names := make([]string, 0, len(Platforms()))
	for _, p := range Platforms() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

// AnalysisRequest is the body of POST /analyze. Optional fields are pointers
// so that blank values go over the wire as explicit nulls.
type AnalysisRequest struct {
	Platform       Platform `json:"platform" yaml:"platform"`
	Title          *string  `json:"title" yaml:"title"`
	Content        string   `json:"content" yaml:"content"`
	Hashtags       []string `json:"hashtags" yaml:"hashtags"`
	Geo            *string  `json:"geo" yaml:"geo"`
	Niche          *string  `json:"niche" yaml:"niche"`
	TargetAudience *string  `json:"target_audience" yaml:"target_audience"`
}

// CompetitionLevel is the optional competition tier of a hashtag suggestion.
type CompetitionLevel string

const (
	CompetitionNone   CompetitionLevel = ""
	CompetitionLow    CompetitionLevel = "low"
	CompetitionMedium CompetitionLevel = "medium"
	CompetitionHigh   CompetitionLevel = "high"
)

// HashtagChip is a single rendered hashtag.
type HashtagChip struct {
	Label            string           `json:"label" yaml:"label"`
	IsMandatory      bool             `json:"is_mandatory" yaml:"is_mandatory"`
	CompetitionLevel CompetitionLevel `json:"competition_level,omitempty" yaml:"competition_level,omitempty"`
}

// Tier is the display classification of the chip: mandatory tags win over
// competition tiers, untiered tags are plain trending suggestions.
func (c HashtagChip) Tier() string {
	switch {
	case c.IsMandatory:
		return "mandatory"
	case c.CompetitionLevel != CompetitionNone:
		return string(c.CompetitionLevel) + " competition"
	default:
		return "trending"
	}
}

// ScoreSet holds the overall score and the per-category breakdown. A nil
// category means the service did not send it; zero is a real score.
type ScoreSet struct {
	Overall        float64  `json:"overall" yaml:"overall"`
	OverallPresent bool     `json:"overall_present" yaml:"overall_present"`
	Quality        *float64 `json:"quality" yaml:"quality"`
	SEO            *float64 `json:"seo" yaml:"seo"`
	Engagement     *float64 `json:"engagement" yaml:"engagement"`
	Structure      *float64 `json:"structure" yaml:"structure"`
}

// NotAvailable is the placeholder for missing text fields.
const NotAvailable = "N/A"

type ContentChecks struct {
	Grammar string `json:"grammar_summary" yaml:"grammar_summary"`
	Tone    string `json:"tone_summary" yaml:"tone_summary"`
	CTA     string `json:"cta_status" yaml:"cta_status"`
}

type HashtagGroups struct {
	Trending  []HashtagChip `json:"trending" yaml:"trending"`
	Suggested []HashtagChip `json:"suggested_replacements" yaml:"suggested_replacements"`
}

type FinalOutput struct {
	OptimizedTitle   *string       `json:"optimized_title" yaml:"optimized_title"`
	OptimizedContent *string       `json:"optimized_content" yaml:"optimized_content"`
	FinalHashtagPack []HashtagChip `json:"final_hashtag_pack" yaml:"final_hashtag_pack"`
}

// ViewModel is the display-ready form of an analysis result. It is rebuilt
// from scratch for every response.
type ViewModel struct {
	Scores      ScoreSet      `json:"scores" yaml:"scores"`
	Issues      []string      `json:"issues" yaml:"issues"`
	Checks      ContentChecks `json:"content_checks" yaml:"content_checks"`
	Hashtags    HashtagGroups `json:"hashtags" yaml:"hashtags"`
	Final       FinalOutput   `json:"final_output" yaml:"final_output"`
	CTAVariants []string      `json:"cta_variants" yaml:"cta_variants"`
}

// UIState is the state of the presentation layer.
type UIState int

const (
	StateIdle UIState = iota
	StateLoading
	StateError
	StateSuccess
)

func (s UIState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateSuccess:
		return "success"
	default:
		return "unknown"
	}
}
