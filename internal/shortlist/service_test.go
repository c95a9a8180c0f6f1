package shortlist_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/baseball-program-finder/internal/dataset"
	"github.com/couchcryptid/baseball-program-finder/internal/domain"
	"github.com/couchcryptid/baseball-program-finder/internal/filter"
	"github.com/couchcryptid/baseball-program-finder/internal/fit"
	"github.com/couchcryptid/baseball-program-finder/internal/observability"
	"github.com/couchcryptid/baseball-program-finder/internal/roster"
	"github.com/couchcryptid/baseball-program-finder/internal/shortlist"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type memStore struct {
	mu   sync.Mutex
	recs map[string]domain.ClassificationRecord
	err  error
}

func newMemStore() *memStore {
	return &memStore{recs: make(map[string]domain.ClassificationRecord)}
}

func (m *memStore) Upsert(_ context.Context, rec domain.ClassificationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.recs[rec.Key()] = rec
	return nil
}

func (m *memStore) Get(_ context.Context, userID string, programID int64) (domain.ClassificationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[domain.RecordKey(userID, programID)]
	if !ok {
		return domain.ClassificationRecord{}, fit.ErrNotFound
	}
	return rec, nil
}

func (m *memStore) List(_ context.Context, userID string) ([]domain.ClassificationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ClassificationRecord
	for _, r := range m.recs {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProgramID < out[j].ProgramID })
	return out, nil
}

func (m *memStore) UpdateNotes(_ context.Context, userID string, programID int64, notes string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := domain.RecordKey(userID, programID)
	rec, ok := m.recs[key]
	if !ok {
		return fit.ErrNotFound
	}
	rec.Notes, rec.UpdatedAt = notes, at
	m.recs[key] = rec
	return nil
}

type mockPublisher struct {
	published []domain.ClassificationRecord
	err       error
}

func (m *mockPublisher) Publish(_ context.Context, rec domain.ClassificationRecord) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, rec)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

type mockGeocoder struct {
	result domain.GeocodingResult
	err    error
}

func (m *mockGeocoder) ForwardGeocode(_ context.Context, _ string) (domain.GeocodingResult, error) {
	return m.result, m.err
}

// --- fixture ---

var now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func testDataset() *dataset.Dataset {
	programs := []domain.ProgramRecord{
		{ProgramID: 1, Name: "Harbor College", State: "MD", Division: 3, WinPct: 35, TestScore: 1200,
			AcceptRatePct: domain.Ptr(80.0), TopStates: []domain.StateCount{{State: "MD", Count: 10}}, TotalPlayers: 20},
		{ProgramID: 2, Name: "Gotham State", State: "NY", Division: 1, WinPct: 80, TestScore: 1450,
			AcceptRatePct: domain.Ptr(15.0), USRank: domain.Ptr(12)},
		{ProgramID: 3, Name: "Broken Data", Division: 7},
	}
	var rosters []domain.RosterEntry
	for _, year := range []int{2024, 2025} {
		rosters = append(rosters,
			domain.RosterEntry{ProgramID: 1, Year: year, PlayerName: "Ann Lee", Class: "Fr.", Position: "RHP", HomeState: "MD"},
			domain.RosterEntry{ProgramID: 1, Year: year, PlayerName: "Ben Ray", Class: "So.", Position: "C", HomeState: "PA"},
		)
	}
	history := []domain.TeamHistoryRecord{
		{ProgramID: 1, Season: "2023-24", WinLossPct: ".400"},
		{ProgramID: 1, Season: "2024-25", WinLossPct: ".500"},
	}
	return dataset.New(programs, nil, rosters, history)
}

type harness struct {
	svc       *shortlist.Service
	store     *memStore
	publisher *mockPublisher
	metrics   *observability.Metrics
	clock     *clockwork.FakeClock
}

func newHarness(t *testing.T, geocoder domain.Geocoder) *harness {
	t.Helper()
	d := testDataset()
	analyzer, err := roster.New(d.Rosters, d.History, roster.Options{CurrentSeasonEndYear: 2025})
	require.NoError(t, err)

	clock := clockwork.NewFakeClockAt(now)
	h := &harness{
		store:     newMemStore(),
		publisher: &mockPublisher{},
		metrics:   observability.NewMetricsForTesting(),
		clock:     clock,
	}
	h.svc = shortlist.New(shortlist.Deps{
		Dataset:    d,
		Analyzer:   analyzer,
		Classifier: fit.New(clock),
		Store:      h.store,
		Publisher:  h.publisher,
		Geocoder:   geocoder,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:    h.metrics,
		Clock:      clock,
	})
	return h
}

func sampleProfile() domain.UserProfile {
	return domain.UserProfile{
		UserID:   "u-1",
		Academic: domain.AcademicInfo{domain.MetricSATTotal: 1400},
	}
}

// --- tests ---

func TestNew_RecordsDatasetRows(t *testing.T) {
	h := newHarness(t, nil)
	assert.InDelta(t, 3, testutil.ToFloat64(h.metrics.DatasetRows.WithLabelValues(dataset.ProgramsFile)), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(h.metrics.DatasetRows.WithLabelValues(dataset.RostersFile)), 0)
}

func TestSearch(t *testing.T) {
	h := newHarness(t, nil)

	res := h.svc.Search(context.Background(), filter.Criteria{RankedOnly: true})
	require.False(t, res.Degraded)
	require.Len(t, res.Programs, 1)
	assert.Equal(t, int64(2), res.Programs[0].ProgramID)
	assert.InDelta(t, 1, testutil.ToFloat64(h.metrics.SearchRequests), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(h.metrics.SearchDegraded), 0)
}

func TestSearch_DegradedReturnsEverything(t *testing.T) {
	h := newHarness(t, nil)

	res := h.svc.Search(context.Background(), filter.Criteria{
		Divisions: []int{1},
		WinPct:    &filter.Range{Min: 90, Max: 10},
	})
	assert.True(t, res.Degraded)
	assert.ErrorIs(t, res.Err, filter.ErrInvalidCriteria)
	assert.Len(t, res.Programs, 3)
	assert.InDelta(t, 1, testutil.ToFloat64(h.metrics.SearchDegraded), 0)
}

func TestProgram_NotFound(t *testing.T) {
	h := newHarness(t, nil)
	_, err := h.svc.Program(404)
	assert.ErrorIs(t, err, shortlist.ErrProgramNotFound)
}

func TestMetricsFor(t *testing.T) {
	h := newHarness(t, nil)

	got, err := h.svc.MetricsFor(context.Background(), []int64{2, 1})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(2), got[0].ProgramID)
	assert.Nil(t, got[0].Trajectory)
	assert.Nil(t, got[0].Depth)

	assert.Equal(t, int64(1), got[1].ProgramID)
	require.NotNil(t, got[1].Trajectory)
	assert.Equal(t, roster.Improving, got[1].Trajectory.Trend)
	require.NotNil(t, got[1].FreshmanRetention)
	assert.InDelta(t, 100.0, *got[1].FreshmanRetention, 1e-9)
	assert.InDelta(t, 50.0, got[1].InStatePct, 1e-9)
}

func TestMetricsFor_UnknownProgram(t *testing.T) {
	h := newHarness(t, nil)
	_, err := h.svc.MetricsFor(context.Background(), []int64{1, 404})
	assert.ErrorIs(t, err, shortlist.ErrProgramNotFound)
}

func TestMetricsFor_Cancelled(t *testing.T) {
	h := newHarness(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.svc.MetricsFor(ctx, []int64{1, 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSave_AutoSuggested(t *testing.T) {
	h := newHarness(t, nil)

	rec, err := h.svc.Save(context.Background(), shortlist.SaveRequest{
		Profile:   sampleProfile(),
		ProgramID: 1,
		Notes:     "great fit",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Safety, rec.Classification)
	assert.Equal(t, domain.Safety, rec.Suggested)
	assert.True(t, rec.AutoSuggested)
	assert.Equal(t, now, rec.ClassifiedAt)

	stored, err := h.store.Get(context.Background(), "u-1", 1)
	require.NoError(t, err)
	assert.Equal(t, rec, stored)

	require.Len(t, h.publisher.published, 1)
	assert.Equal(t, "u-1_1", h.publisher.published[0].Key())
	assert.InDelta(t, 1, testutil.ToFloat64(h.metrics.ClassificationsSaved.WithLabelValues("Safety", "auto")), 0)
}

func TestSave_UserChoice(t *testing.T) {
	h := newHarness(t, nil)
	reach := domain.Reach

	rec, err := h.svc.Save(context.Background(), shortlist.SaveRequest{
		Profile:   sampleProfile(),
		ProgramID: 1,
		Chosen:    &reach,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Reach, rec.Classification)
	assert.Equal(t, domain.Safety, rec.Suggested)
	assert.False(t, rec.AutoSuggested)
	assert.InDelta(t, 1, testutil.ToFloat64(h.metrics.ClassificationsSaved.WithLabelValues("Reach", "user")), 0)
}

func TestSave_InvalidProgram(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.svc.Save(context.Background(), shortlist.SaveRequest{Profile: sampleProfile(), ProgramID: 3})
	var invalid *fit.InvalidProgramError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "division", invalid.Field)
	assert.Empty(t, h.publisher.published)
}

func TestSave_StoreFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.store.err = errors.New("disk full")

	_, err := h.svc.Save(context.Background(), shortlist.SaveRequest{Profile: sampleProfile(), ProgramID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Empty(t, h.publisher.published)
}

func TestSave_PublishFailureDoesNotFailSave(t *testing.T) {
	h := newHarness(t, nil)
	h.publisher.err = errors.New("broker down")

	_, err := h.svc.Save(context.Background(), shortlist.SaveRequest{Profile: sampleProfile(), ProgramID: 1})
	require.NoError(t, err)

	_, err = h.store.Get(context.Background(), "u-1", 1)
	require.NoError(t, err)
	assert.InDelta(t, 1, testutil.ToFloat64(h.metrics.PublishErrors), 0)
}

func TestUpdateNotesAndSummary(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	reach := domain.Reach

	_, err := h.svc.Save(ctx, shortlist.SaveRequest{Profile: sampleProfile(), ProgramID: 1})
	require.NoError(t, err)
	_, err = h.svc.Save(ctx, shortlist.SaveRequest{Profile: sampleProfile(), ProgramID: 2, Chosen: &reach})
	require.NoError(t, err)

	h.clock.Advance(time.Hour)
	rec, err := h.svc.UpdateNotes(ctx, "u-1", 2, "long shot")
	require.NoError(t, err)
	assert.Equal(t, "long shot", rec.Notes)
	assert.Equal(t, now.Add(time.Hour), rec.UpdatedAt)
	assert.Equal(t, now, rec.ClassifiedAt)
	assert.Len(t, h.publisher.published, 3)

	_, err = h.svc.UpdateNotes(ctx, "u-1", 404, "x")
	assert.ErrorIs(t, err, fit.ErrNotFound)

	sum, err := h.svc.Summary(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, fit.Summary{Safety: 1, Reach: 1, Total: 2}, sum)

	list, err := h.svc.List(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestGeocodeHome(t *testing.T) {
	geo := &mockGeocoder{result: domain.GeocodingResult{Lat: 30.27, Lon: -97.74}}
	h := newHarness(t, geo)

	got, err := h.svc.GeocodeHome(context.Background(), "78701")
	require.NoError(t, err)
	assert.Equal(t, &domain.Geo{Lat: 30.27, Lon: -97.74}, got)

	geo.result = domain.GeocodingResult{}
	got, err = h.svc.GeocodeHome(context.Background(), "00000")
	require.NoError(t, err)
	assert.Nil(t, got)

	geo.err = errors.New("boom")
	_, err = h.svc.GeocodeHome(context.Background(), "78701")
	assert.Error(t, err)
}

func TestGeocodeHome_NotConfigured(t *testing.T) {
	h := newHarness(t, nil)
	_, err := h.svc.GeocodeHome(context.Background(), "78701")
	assert.ErrorIs(t, err, shortlist.ErrGeocoderUnavailable)
}

func TestCheckReadiness(t *testing.T) {
	h := newHarness(t, nil)
	assert.NoError(t, h.svc.CheckReadiness(context.Background()))
}
