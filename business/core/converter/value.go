package converter

import (
	"math"
	"time"
)

// Quality tiers assigned to a collection.
const (
	QualityHigh   = "high"
	QualityMedium = "medium"
	QualityLow    = "low"
)

// baseRate prices a megabyte of data for the engine's bookkeeping. The
// chain applies its own genesis conversion rate to the minted coins.
const baseRate = 0.001

// qualityMultipliers weight the reported value by how good the
// collection was.
var qualityMultipliers = map[string]float64{
	QualityHigh:   2.0,
	QualityMedium: 1.0,
	QualityLow:    0.5,
}

// typeMultipliers weight the reported value by how rich the source type
// tends to be.
var typeMultipliers = map[string]float64{
	SourceTypeAPI:    1.5,
	SourceTypeWeb:    1.0,
	SourceTypeRSS:    0.8,
	SourceTypeSocial: 1.2,
}

// metrics captures what a single collection looked like.
type metrics struct {
	ContentSizeMB float64
	DataPoints    int
	StatusCode    int
	ResponseTime  time.Duration
}

// dataQuality scores a collection into a tier. Bigger, faster, richer
// responses score higher.
func dataQuality(m metrics) string {
	var score int

	switch {
	case m.ContentSizeMB > 1.0:
		score += 2
	case m.ContentSizeMB > 0.1:
		score++
	}

	switch {
	case m.ResponseTime < time.Second:
		score += 2
	case m.ResponseTime < 5*time.Second:
		score++
	}

	switch {
	case m.DataPoints > 100:
		score += 2
	case m.DataPoints > 10:
		score++
	}

	switch {
	case score >= 6:
		return QualityHigh
	case score >= 3:
		return QualityMedium
	}

	return QualityLow
}

// currencyValue prices a collection for the engine's bookkeeping. The
// base value scales with quality, source type, source weight, and a
// bonus for sources collected from recently.
func currencyValue(sizeMB float64, source Source, m metrics, now time.Time) float64 {
	value := sizeMB * baseRate

	value *= qualityMultipliers[dataQuality(m)]
	if mult, exists := typeMultipliers[source.Type]; exists {
		value *= mult
	}
	value *= source.Weight

	if source.LastAccessed != 0 {
		since := now.Sub(time.Unix(int64(source.LastAccessed), 0))
		switch {
		case since < time.Hour:
			value *= 1.5
		case since < 24*time.Hour:
			value *= 1.2
		}
	}

	return math.Round(value*1e6) / 1e6
}

// DefaultSources returns the demonstration sources a new node registers
// at startup.
func DefaultSources() []Source {
	return []Source{
		{ID: "news_api", Type: SourceTypeAPI, URL: "https://jsonplaceholder.typicode.com/posts", Weight: 1.5},
		{ID: "wikipedia_random", Type: SourceTypeWeb, URL: "https://en.wikipedia.org/wiki/Special:Random", Weight: 1.2},
		{ID: "github_api", Type: SourceTypeAPI, URL: "https://api.github.com/repositories", Weight: 1.8},
		{ID: "hackernews", Type: SourceTypeWeb, URL: "https://news.ycombinator.com/", Weight: 1.3},
	}
}
