package parser

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/helmcode/sns-qa/pkg/hashtag"
	"github.com/helmcode/sns-qa/pkg/model"
	"github.com/helmcode/sns-qa/pkg/safepath"
)

// Normalize converts a raw analysis payload into a view model. It never
// fails: anything it cannot read is replaced by a placeholder.
func Normalize(raw []byte) *model.ViewModel {
	root := Unwrap(safepath.Parse(StripFences(raw)))

	overall := safepath.OptionalFloat(root, "overall_score")
	vm := &model.ViewModel{
		Scores: model.ScoreSet{
			OverallPresent: overall != nil,
			Quality:        safepath.OptionalFloat(root, "scores_breakdown.quality_score"),
			SEO:            safepath.OptionalFloat(root, "scores_breakdown.seo_score"),
			Engagement:     safepath.OptionalFloat(root, "scores_breakdown.engagement_score"),
			Structure:      safepath.OptionalFloat(root, "scores_breakdown.structure_score"),
		},
		Issues: normalizeIssues(root),
		Checks: model.ContentChecks{
			Grammar: textOrNA(root, "content_checks.grammar_summary"),
			Tone:    textOrNA(root, "content_checks.tone_summary"),
			CTA:     textOrNA(root, "content_checks.cta_status"),
		},
		Hashtags: model.HashtagGroups{
			Trending:  hashtagGroup(root, "hashtags.trending"),
			Suggested: hashtagGroup(root, "hashtags.suggested_replacements"),
		},
		Final: model.FinalOutput{
			OptimizedTitle:   safepath.OptionalString(root, "final_output.optimized_title"),
			OptimizedContent: safepath.OptionalString(root, "final_output.optimized_content"),
			FinalHashtagPack: hashtagGroup(root, "final_output.final_hashtag_pack"),
		},
		CTAVariants: stringList(root, "improvements.cta_variants"),
	}
	if overall != nil {
		vm.Scores.Overall = *overall
	}
	return vm
}

// Unwrap returns the object nested under raw_json when the service wrapped
// its result, and root otherwise.
func Unwrap(root gjson.Result) gjson.Result {
	if inner, ok := safepath.Object(root, "raw_json"); ok {
		return inner
	}
	return root
}

func normalizeIssues(root gjson.Result) []string {
	list := safepath.Array(root, "issues_found")
	if _, ok := safepath.Lookup(root, "issues_found"); !ok {
		list = safepath.Array(root, "issues")
	}
	issues := make([]string, 0, len(list))
	for _, entry := range list {
		if text, ok := NormalizeIssue(entry); ok {
			issues = append(issues, text)
		}
	}
	return issues
}

// NormalizeIssue renders one issue entry. Strings are used as-is; objects
// prefer a non-empty "issue", then "message", then their compact JSON.
// Nulls are dropped.
func NormalizeIssue(entry gjson.Result) (string, bool) {
	switch {
	case !entry.Exists() || entry.Type == gjson.Null:
		return "", false
	case entry.Type == gjson.String:
		return entry.Str, true
	case entry.IsObject():
		for _, key := range []string{"issue", "message"} {
			if s := safepath.OptionalString(entry, key); s != nil && *s != "" {
				return *s, true
			}
		}
		return compact(entry.Raw), true
	default:
		return compact(entry.Raw), true
	}
}

func textOrNA(root gjson.Result, path string) string {
	s := safepath.String(root, path, model.NotAvailable)
	if strings.TrimSpace(s) == "" {
		return model.NotAvailable
	}
	return s
}

func hashtagGroup(root gjson.Result, path string) []model.HashtagChip {
	return hashtag.Dedupe(hashtag.Chips(safepath.Array(root, path)))
}

func stringList(root gjson.Result, path string) []string {
	list := safepath.Array(root, path)
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v.Type == gjson.String && strings.TrimSpace(v.Str) != "" {
			out = append(out, v.Str)
		}
	}
	return out
}

func compact(raw string) string {
	return string(pretty.Ugly([]byte(raw)))
}
