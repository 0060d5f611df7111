package analytics

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/claimlens/claimlens/internal/filter"
)

// Insight kinds and trend directions.
const (
	InsightSuccess  = "success"
	InsightInfo     = "info"
	InsightWarning  = "warning"
	InsightDanger   = "danger"
	InsightForecast = "forecast"

	TrendUp      = "up"
	TrendDown    = "down"
	TrendNeutral = "neutral"
)

// Insight is one generated finding.
type Insight struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Metric      string `json:"metric"`
	Trend       string `json:"trend"`
}

// Loss ratio bands: above critical the book is losing money fast, above
// elevated it is eating into margin.
const (
	lossRatioCritical = 80.0
	lossRatioElevated = 60.0
	dealerMinPolicies = 10
)

// Insights generates the rule-based findings: a loss ratio verdict, the
// outlier dealers among those with more than 10 policies, and a premium
// forecast once at least 3 monthly points exist.
func (s *Session) Insights(spec filter.Spec) []Insight {
	if !s.Loaded() {
		return nil
	}
	v := s.cache.GetOrCompute("insights", spec, func() any {
		return s.computeInsights(spec)
	})
	return v.([]Insight)
}

func (s *Session) computeInsights(spec filter.Spec) []Insight {
	var out []Insight
	sum := s.Summary(spec)

	switch lr := sum.LossRatio; {
	case lr > lossRatioCritical:
		out = append(out, Insight{
			Type:        InsightWarning,
			Title:       "High Loss Ratio Alert",
			Description: fmt.Sprintf("Overall loss ratio is %v%%, which is critical. Review high-risk dealers immediately.", lr),
			Metric:      fmt.Sprintf("%v%%", lr),
			Trend:       TrendDown,
		})
	case lr > lossRatioElevated:
		out = append(out, Insight{
			Type:        InsightWarning,
			Title:       "Elevated Loss Ratio",
			Description: fmt.Sprintf("Loss ratio of %v%% is above the healthy threshold of 60%%.", lr),
			Metric:      fmt.Sprintf("%v%%", lr),
			Trend:       TrendNeutral,
		})
	default:
		out = append(out, Insight{
			Type:        InsightSuccess,
			Title:       "Healthy Performance",
			Description: fmt.Sprintf("Loss ratio of %v%% is within profitable range.", lr),
			Metric:      fmt.Sprintf("%v%%", lr),
			Trend:       TrendUp,
		})
	}

	out = append(out, s.dealerInsights(spec)...)

	if f, ok := s.forecastInsight(spec); ok {
		out = append(out, f)
	}
	return out
}

// dealerInsights flags the worst loss-ratio dealer over 100% and names
// the premium leader, considering only dealers with a meaningful book.
func (s *Session) dealerInsights(spec filter.Spec) []Insight {
	var major []DealerRow
	for _, d := range s.SalesDealers(spec) {
		if d.Policies > dealerMinPolicies {
			major = append(major, d)
		}
	}
	if len(major) == 0 {
		return nil
	}

	worst, best := major[0], major[0]
	for _, d := range major[1:] {
		if d.LossRatio > worst.LossRatio {
			worst = d
		}
		if d.Premium > best.Premium {
			best = d
		}
	}

	p := message.NewPrinter(language.English)
	var out []Insight
	if worst.LossRatio > 100 {
		out = append(out, Insight{
			Type:        InsightDanger,
			Title:       "Critical Dealer Risk",
			Description: fmt.Sprintf("Dealer %s has %v%% loss ratio.", worst.Dealer, worst.LossRatio),
			Metric:      fmt.Sprintf("%v%% LR", worst.LossRatio),
			Trend:       TrendDown,
		})
	}
	out = append(out, Insight{
		Type:        InsightInfo,
		Title:       "Top Performer",
		Description: p.Sprintf("Dealer %s leads with %.0f in premium.", best.Dealer, best.Premium),
		Metric:      fmt.Sprintf("%d Policies", best.Policies),
		Trend:       TrendUp,
	})
	return out
}

// forecastInsight projects next month's premium from the mean
// month-over-month growth of the last 3 points. Growth legs with a zero
// prior month are skipped rather than treated as infinite.
func (s *Session) forecastInsight(spec filter.Spec) (Insight, bool) {
	monthly := s.SalesMonthly(spec)
	if len(monthly) < 3 {
		return Insight{}, false
	}

	last3 := monthly[len(monthly)-3:]
	var growthRates []float64
	for i := 1; i < len(last3); i++ {
		prev := last3[i-1].Premium
		if prev > 0 {
			growthRates = append(growthRates, (last3[i].Premium-prev)/prev)
		}
	}
	var avgGrowth float64
	if len(growthRates) > 0 {
		var sum float64
		for _, g := range growthRates {
			sum += g
		}
		avgGrowth = sum / float64(len(growthRates))
	}

	forecast := monthly[len(monthly)-1].Premium * (1 + avgGrowth)
	trend := TrendDown
	if avgGrowth > 0 {
		trend = TrendUp
	}
	p := message.NewPrinter(language.English)
	return Insight{
		Type:        InsightForecast,
		Title:       "Sales Forecast",
		Description: p.Sprintf("Based on recent trends, next month's premium is projected to be around %.0f (%+.1f%%).", forecast, avgGrowth*100),
		Metric:      p.Sprintf("%.0f", forecast),
		Trend:       trend,
	}, true
}
