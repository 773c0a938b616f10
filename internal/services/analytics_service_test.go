package services

import (
	"testing"
	"time"

	"github.com/applyos/applyos/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedJourney(t *testing.T, db *gorm.DB, company string, statuses ...string) models.Application {
	t.Helper()
	app := models.Application{Company: company, Role: "Engineer", Status: statuses[len(statuses)-1]}
	require.NoError(t, db.Create(&app).Error)

	prev := ""
	for _, st := range statuses {
		h := models.StatusHistory{ApplicationID: app.ID, FromStatus: prev, ToStatus: st}
		require.NoError(t, db.Create(&h).Error)
		prev = st
	}
	return app
}

func TestStatusFlowData(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)

	seedJourney(t, db, "Acme", models.StatusSubmitted, models.StatusInReview, models.StatusInterview, models.StatusOffer)
	seedJourney(t, db, "Globex", models.StatusSubmitted, models.StatusInReview, models.StatusRejected)
	seedJourney(t, db, "Initech", models.StatusSubmitted, models.StatusInReview, models.StatusInterview, models.StatusRejected)

	flow, err := svc.StatusFlowData()
	require.NoError(t, err)

	// submitted, in_review, interview, offer, rejected all appear
	names := make([]string, 0, len(flow.Nodes))
	for _, n := range flow.Nodes {
		names = append(names, n.Name)
	}
	require.Equal(t, []string{
		models.StatusSubmitted, models.StatusInReview,
		models.StatusInterview, models.StatusOffer, models.StatusRejected,
	}, names)

	find := func(from, to string) int {
		var src, dst int = -1, -1
		for i, n := range flow.Nodes {
			if n.Name == from {
				src = i
			}
			if n.Name == to {
				dst = i
			}
		}
		for _, l := range flow.Links {
			if l.Source == src && l.Target == dst {
				return l.Value
			}
		}
		return 0
	}

	require.Equal(t, 3, find(models.StatusSubmitted, models.StatusInReview))
	require.Equal(t, 2, find(models.StatusInReview, models.StatusInterview))
	require.Equal(t, 1, find(models.StatusInterview, models.StatusOffer))
	require.Equal(t, 1, find(models.StatusInReview, models.StatusRejected))
	require.Equal(t, 1, find(models.StatusInterview, models.StatusRejected))
}

func TestStatusFlowData_DropsSelfLoopsAndCreations(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)

	app := models.Application{Company: "Acme", Role: "Engineer", Status: models.StatusSubmitted}
	require.NoError(t, db.Create(&app).Error)
	// creation row (empty from) and a self-loop must not produce links
	require.NoError(t, db.Create(&models.StatusHistory{ApplicationID: app.ID, FromStatus: "", ToStatus: models.StatusSubmitted}).Error)
	require.NoError(t, db.Create(&models.StatusHistory{ApplicationID: app.ID, FromStatus: models.StatusSubmitted, ToStatus: models.StatusSubmitted}).Error)

	flow, err := svc.StatusFlowData()
	require.NoError(t, err)
	require.Empty(t, flow.Links)
	require.Empty(t, flow.Nodes)
}

func TestApplicationMetrics(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)

	seedJourney(t, db, "Acme", models.StatusSubmitted, models.StatusInReview, models.StatusInterview, models.StatusOffer)
	seedJourney(t, db, "Globex", models.StatusSubmitted, models.StatusRejected)
	seedJourney(t, db, "Hooli", models.StatusSubmitted) // no response yet
	seedJourney(t, db, "Umbrella", models.StatusDraft)  // never submitted

	m, err := svc.ApplicationMetrics()
	require.NoError(t, err)

	require.Equal(t, 4, m.Total)
	require.Equal(t, 1, m.ByStatus[models.StatusDraft])
	require.Equal(t, 1, m.ByStatus[models.StatusSubmitted])
	require.Equal(t, 1, m.ByStatus[models.StatusOffer])
	require.Equal(t, 1, m.ByStatus[models.StatusRejected])

	// 3 submitted, 2 heard back
	require.InDelta(t, 2.0/3.0, m.ResponseRate, 1e-9)
	require.InDelta(t, 1.0/3.0, m.InterviewRate, 1e-9)
	require.InDelta(t, 1.0/3.0, m.OfferRate, 1e-9)
}

func TestApplicationMetrics_NoSubmissions(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)

	seedJourney(t, db, "Acme", models.StatusDraft)

	m, err := svc.ApplicationMetrics()
	require.NoError(t, err)
	require.Equal(t, 1, m.Total)
	require.Zero(t, m.ResponseRate)
	require.Zero(t, m.InterviewRate)
	require.Zero(t, m.OfferRate)
	require.Zero(t, m.AvgDaysToReply)
}

func TestFunnel_CountsEveryStageReached(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)

	// rejected after interview: still counts in submitted/in_review/interview
	seedJourney(t, db, "Acme", models.StatusSubmitted, models.StatusInReview, models.StatusInterview, models.StatusRejected)
	seedJourney(t, db, "Globex", models.StatusSubmitted, models.StatusInReview)
	seedJourney(t, db, "Hooli", models.StatusSubmitted)

	f, err := svc.Funnel()
	require.NoError(t, err)
	require.Len(t, f, 4)
	require.Equal(t, FunnelStage{Stage: models.StatusSubmitted, Count: 3}, f[0])
	require.Equal(t, FunnelStage{Stage: models.StatusInReview, Count: 2}, f[1])
	require.Equal(t, FunnelStage{Stage: models.StatusInterview, Count: 1}, f[2])
	require.Equal(t, FunnelStage{Stage: models.StatusOffer, Count: 0}, f[3])
}

func TestTimeline_BucketsByWeek(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)

	monday := time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC) // a Monday
	wednesday := monday.AddDate(0, 0, 2)
	nextWeek := monday.AddDate(0, 0, 7)

	for _, ts := range []time.Time{monday, wednesday, nextWeek} {
		ts := ts
		app := models.Application{Company: "C", Role: "R", Status: models.StatusSubmitted, AppliedAt: &ts}
		require.NoError(t, db.Create(&app).Error)
		// pin created_at; gorm set it to now
		require.NoError(t, db.Model(&models.Application{}).Where("id = ?", app.ID).Update("created_at", ts).Error)
	}

	buckets, err := svc.Timeline()
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	require.Equal(t, "2026-08-03", buckets[0].WeekStart)
	require.Equal(t, 2, buckets[0].Created)
	require.Equal(t, 2, buckets[0].Submitted)
	require.Equal(t, "2026-08-10", buckets[1].WeekStart)
	require.Equal(t, 1, buckets[1].Created)
}
