// Package classifier picks the category of a listing, asking the AI model
// first and falling back to keyword rules.
package classifier

import (
	"context"
	"strings"
	"time"
	"unicode"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

const DefaultTimeout = 8 * time.Second

const instruction = `Classify the marketplace listing into exactly one category.
Allowed categories: Vehicle, Property, Job, Electronic, Mobile, Home Garden, Other.
Answer with the category name only.`

type Classifier struct {
	ai      port.AIClientPort
	timeout time.Duration
	metrics port.MetricsPort
}

// NewClassifier builds a Classifier. A nil ai client means keyword rules only;
// a non-positive timeout means DefaultTimeout.
func NewClassifier(ai port.AIClientPort, timeout time.Duration, metrics port.MetricsPort) *Classifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Classifier{ai: ai, timeout: timeout, metrics: metrics}
}

// Classify always returns one of domain.Categories. AI failures are logged
// and recovered with Heuristic.
func (c *Classifier) Classify(ctx context.Context, title, description string) domain.Category {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "Classifier"})
	text := strings.TrimSpace(title + "\n" + description)

	if c.ai != nil && text != "" {
		if category, ok := c.askAI(ctx, logger, text); ok {
			c.count("ai")
			return category
		}
		if c.metrics != nil {
			c.metrics.AIFallback("classify")
		}
	}

	category := Heuristic(text)
	c.count("heuristic")
	logger.Debug("Classified by keyword rules", port.Fields{"category": category})
	return category
}

func (c *Classifier) askAI(ctx context.Context, logger port.LoggerPort, text string) (domain.Category, bool) {
	aiCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	answer, err := c.ai.Generate(aiCtx, instruction, text)
	if err != nil {
		logger.Warn("AI classification failed, using keyword rules", port.Fields{"error": err.Error()})
		return "", false
	}
	category, ok := ParseLabel(answer)
	if !ok {
		logger.Warn("AI returned an unknown category, using keyword rules", port.Fields{"answer": truncate(answer, 80)})
		return "", false
	}
	return category, true
}

func (c *Classifier) count(source string) {
	if c.metrics != nil {
		c.metrics.CategoryClassified(source)
	}
}

// ParseLabel maps a model answer onto a category: an exact, case-insensitive
// match first, then the first category whose name appears inside the answer.
func ParseLabel(answer string) (domain.Category, bool) {
	answer = strings.Trim(strings.TrimSpace(answer), "\"'`.*")
	if answer == "" {
		return "", false
	}
	if category, ok := domain.ParseCategory(answer); ok {
		return category, true
	}

	haystack := letters(answer)
	for _, category := range domain.Categories {
		if strings.Contains(haystack, letters(string(category))) {
			return category, true
		}
	}
	return "", false
}

func letters(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
