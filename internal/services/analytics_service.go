package services

import (
	"sort"
	"time"

	"github.com/applyos/applyos/internal/models"
	"gorm.io/gorm"
)

type AnalyticsService struct {
	DB *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{DB: db}
}

// FlowNode / FlowLink form the Sankey payload. Links reference nodes by index.
type FlowNode struct {
	Name string `json:"name"`
}

type FlowLink struct {
	Source int `json:"source"`
	Target int `json:"target"`
	Value  int `json:"value"`
}

type StatusFlow struct {
	Nodes []FlowNode `json:"nodes"`
	Links []FlowLink `json:"links"`
}

// StatusFlowData aggregates all recorded status transitions into a Sankey
// graph. Node order follows the canonical funnel order so charts render
// left-to-right; self-loops and creation rows (empty from_status) are dropped.
func (s *AnalyticsService) StatusFlowData() (*StatusFlow, error) {
	var history []models.StatusHistory
	if err := s.DB.Order("created_at ASC").Find(&history).Error; err != nil {
		return nil, err
	}

	type edge struct{ from, to string }
	counts := make(map[edge]int)
	seen := make(map[string]bool)
	for _, h := range history {
		if h.FromStatus == "" || h.FromStatus == h.ToStatus {
			continue
		}
		counts[edge{h.FromStatus, h.ToStatus}]++
		seen[h.FromStatus] = true
		seen[h.ToStatus] = true
	}

	flow := &StatusFlow{Nodes: []FlowNode{}, Links: []FlowLink{}}
	index := make(map[string]int)
	for _, status := range models.AllStatuses {
		if seen[status] {
			index[status] = len(flow.Nodes)
			flow.Nodes = append(flow.Nodes, FlowNode{Name: status})
		}
	}

	// deterministic link order: canonical source order, then target order
	for _, from := range models.AllStatuses {
		for _, to := range models.AllStatuses {
			if v := counts[edge{from, to}]; v > 0 {
				flow.Links = append(flow.Links, FlowLink{
					Source: index[from],
					Target: index[to],
					Value:  v,
				})
			}
		}
	}
	return flow, nil
}

type Metrics struct {
	Total          int            `json:"total"`
	ByStatus       map[string]int `json:"by_status"`
	ResponseRate   float64        `json:"response_rate"`
	InterviewRate  float64        `json:"interview_rate"`
	OfferRate      float64        `json:"offer_rate"`
	AvgDaysToReply float64        `json:"avg_days_to_first_response"`
}

// ApplicationMetrics computes headline numbers. Rates are relative to
// applications that were actually submitted; a drafts-only account reports
// zero rates rather than NaN.
func (s *AnalyticsService) ApplicationMetrics() (*Metrics, error) {
	var apps []models.Application
	if err := s.DB.Find(&apps).Error; err != nil {
		return nil, err
	}
	var history []models.StatusHistory
	if err := s.DB.Order("created_at ASC").Find(&history).Error; err != nil {
		return nil, err
	}

	m := &Metrics{ByStatus: map[string]int{}}
	for _, st := range models.AllStatuses {
		m.ByStatus[st] = 0
	}
	for _, a := range apps {
		m.Total++
		m.ByStatus[a.Status]++
	}

	reached := reachedStages(apps, history)
	submitted := len(reached[models.StatusSubmitted])
	if submitted == 0 {
		return m, nil
	}

	// "response" = any movement past submitted, including a rejection
	responded := 0
	for appID := range reached[models.StatusSubmitted] {
		if reached[models.StatusInReview][appID] ||
			reached[models.StatusInterview][appID] ||
			reached[models.StatusOffer][appID] ||
			reached[models.StatusRejected][appID] {
			responded++
		}
	}
	m.ResponseRate = float64(responded) / float64(submitted)
	m.InterviewRate = float64(len(reached[models.StatusInterview])) / float64(submitted)
	m.OfferRate = float64(len(reached[models.StatusOffer])) / float64(submitted)
	m.AvgDaysToReply = avgDaysToFirstResponse(history)
	return m, nil
}

// reachedStages maps status -> set of application ids that ever reached it,
// from history rows plus each application's current status.
func reachedStages(apps []models.Application, history []models.StatusHistory) map[string]map[uint]bool {
	reached := make(map[string]map[uint]bool)
	for _, st := range models.AllStatuses {
		reached[st] = make(map[uint]bool)
	}
	for _, h := range history {
		reached[h.ToStatus][h.ApplicationID] = true
	}
	for _, a := range apps {
		reached[a.Status][a.ID] = true
	}
	return reached
}

func avgDaysToFirstResponse(history []models.StatusHistory) float64 {
	submittedAt := make(map[uint]time.Time)
	firstResponse := make(map[uint]time.Time)
	for _, h := range history {
		if h.ToStatus == models.StatusSubmitted {
			if _, ok := submittedAt[h.ApplicationID]; !ok {
				submittedAt[h.ApplicationID] = h.CreatedAt
			}
		}
		if h.FromStatus == models.StatusSubmitted {
			if _, ok := firstResponse[h.ApplicationID]; !ok {
				firstResponse[h.ApplicationID] = h.CreatedAt
			}
		}
	}

	var total float64
	var n int
	for appID, sub := range submittedAt {
		resp, ok := firstResponse[appID]
		if !ok || resp.Before(sub) {
			continue
		}
		total += resp.Sub(sub).Hours() / 24
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

type FunnelStage struct {
	Stage string `json:"stage"`
	Count int    `json:"count"`
}

// Funnel counts, per stage, every application that ever reached that stage.
// An application currently rejected after an interview still counts in
// submitted, in_review and interview.
func (s *AnalyticsService) Funnel() ([]FunnelStage, error) {
	var apps []models.Application
	if err := s.DB.Find(&apps).Error; err != nil {
		return nil, err
	}
	var history []models.StatusHistory
	if err := s.DB.Find(&history).Error; err != nil {
		return nil, err
	}

	reached := reachedStages(apps, history)
	stages := []string{models.StatusSubmitted, models.StatusInReview, models.StatusInterview, models.StatusOffer}
	out := make([]FunnelStage, 0, len(stages))
	for _, st := range stages {
		out = append(out, FunnelStage{Stage: st, Count: len(reached[st])})
	}
	return out, nil
}

type TimelineBucket struct {
	WeekStart string `json:"week_start"` // YYYY-MM-DD, Monday
	Created   int    `json:"created"`
	Submitted int    `json:"submitted"`
}

// Timeline buckets application activity into ISO weeks.
func (s *AnalyticsService) Timeline() ([]TimelineBucket, error) {
	var apps []models.Application
	if err := s.DB.Find(&apps).Error; err != nil {
		return nil, err
	}

	buckets := make(map[string]*TimelineBucket)
	add := func(t time.Time, submitted bool) {
		ws := weekStart(t)
		key := ws.Format("2006-01-02")
		b, ok := buckets[key]
		if !ok {
			b = &TimelineBucket{WeekStart: key}
			buckets[key] = b
		}
		if submitted {
			b.Submitted++
		} else {
			b.Created++
		}
	}

	for _, a := range apps {
		add(a.CreatedAt, false)
		if a.AppliedAt != nil {
			add(*a.AppliedAt, true)
		}
	}

	// sorted by week; map iteration order is useless to the chart
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]TimelineBucket, 0, len(keys))
	for _, k := range keys {
		out = append(out, *buckets[k])
	}
	return out, nil
}

func weekStart(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday -> 7 so weeks start Monday
	}
	day := t.Truncate(24 * time.Hour)
	return day.AddDate(0, 0, -(weekday - 1))
}
