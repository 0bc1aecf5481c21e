// Package web holds the embedded HTML templates and the label-keyed
// presentation lookups for rendering classification results.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/Irshadp556/movie-review-analysis/internal/sentiment"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"emoji":    Emoji,
	"feedback": Feedback,
	"title":    capitalize,
}).ParseFS(templateFS, "templates/*.html"))

var emojiMap = map[string]string{
	sentiment.LabelPositive: "😊",
	sentiment.LabelNegative: "😞",
	sentiment.LabelNeutral:  "😐",
}

var feedbackMap = map[string]string{
	sentiment.LabelPositive: "Great! Your review sounds very positive. 🎉",
	sentiment.LabelNegative: "Hmm... looks like you didn't enjoy it much. 😢",
	sentiment.LabelNeutral:  "It's a mixed review. 😐",
}

// Emoji returns the emoji for a sentiment label, with a puzzled fallback
// for labels the classifier does not recognize.
func Emoji(label string) string {
	if !sentiment.Known(label) {
		return "🤔"
	}
	return emojiMap[label]
}

// Feedback returns the one-line reaction for a sentiment label.
func Feedback(label string) string {
	if !sentiment.Known(label) {
		return "Couldn't determine the sentiment clearly. 🤔"
	}
	return feedbackMap[label]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] = r[0] - 'a' + 'A'
	}
	return string(r)
}

// Render writes the named template with the given data.
func Render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("Failed to render template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
