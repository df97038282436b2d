package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heyjarvis_backend/internal/domain"
	"heyjarvis_backend/internal/events"
	"heyjarvis_backend/internal/leads/transport"
	"heyjarvis_backend/internal/notification"
	"heyjarvis_backend/internal/repository"
	"heyjarvis_backend/internal/scoring"
	"heyjarvis_backend/platform/apperr"
	"heyjarvis_backend/platform/logger"
	"heyjarvis_backend/platform/validator"
)

type fakeScorer struct {
	calls [][]int64
}

func (f *fakeScorer) ScoreExistingLeads(_ context.Context, ids []int64) ([]scoring.ScoredLead, error) {
	f.calls = append(f.calls, ids)
	out := make([]scoring.ScoredLead, len(ids))
	for i, id := range ids {
		out[i] = scoring.ScoredLead{LeadFacts: scoring.LeadFacts{LeadID: id}, Score: 70}
	}
	return out, nil
}

func (f *fakeScorer) Distribution(context.Context) (scoring.Distribution, error) {
	return scoring.Distribution{High: 1}, nil
}

type countingSink struct{ types []string }

func (c *countingSink) Notify(_ context.Context, e notification.Event) {
	c.types = append(c.types, e.Type)
}

func strPtr(s string) *string { return &s }

func newService(t *testing.T) (*Service, *repository.MemoryStore, *events.InMemoryBus, *countingSink) {
	t.Helper()
	store := repository.NewMemoryStore()
	bus := events.NewInMemoryBus(logger.Nop())
	sink := &countingSink{}
	return New(store, &fakeScorer{}, bus, sink, validator.New(), logger.Nop()), store, bus, sink
}

func TestImportPublishesCreatedLeadIDs(t *testing.T) {
	svc, _, bus, sink := newService(t)

	var published []int64
	bus.Subscribe(events.LeadsImported{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		published = e.(events.LeadsImported).LeadIDs
		return nil
	}))

	resp, err := svc.Import(context.Background(), transport.ImportLeadsRequest{
		Source: domain.LeadSourceCSV,
		Leads: []transport.ImportLeadInput{
			{Name: "Ada", Company: strPtr("Acme")},
			{Name: ""},
			{Name: "Grace", Email: strPtr("not-an-email")},
			{Name: "Linus"},
		},
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Imported)
	assert.Equal(t, 2, resp.Errors)
	require.Len(t, resp.Leads, 2)
	assert.Equal(t, []int64{resp.Leads[0].ID, resp.Leads[1].ID}, published)
	assert.Equal(t, domain.LeadStatusPending, resp.Leads[0].Status)
	assert.Contains(t, sink.types, notification.TypeLeadsImported)
}

func TestImportOrchestrationFailureDoesNotFailImport(t *testing.T) {
	svc, store, bus, _ := newService(t)
	bus.Subscribe(events.LeadsImported{}.EventName(), events.HandlerFunc(func(context.Context, events.Event) error {
		return errors.New("scoring down")
	}))

	resp, err := svc.Import(context.Background(), transport.ImportLeadsRequest{
		Source: domain.LeadSourceLinkedIn,
		Leads:  []transport.ImportLeadInput{{Name: "Ada"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Imported)

	leads, err := store.ListLeads(context.Background(), repository.LeadFilter{})
	require.NoError(t, err)
	assert.Len(t, leads, 1)
}

func TestImportRejectsEmptyBatchAndUnknownSource(t *testing.T) {
	svc, _, _, _ := newService(t)

	_, err := svc.Import(context.Background(), transport.ImportLeadsRequest{Source: domain.LeadSourceCSV})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	_, err = svc.Import(context.Background(), transport.ImportLeadsRequest{
		Source: "fax",
		Leads:  []transport.ImportLeadInput{{Name: "Ada"}},
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCreateSanitizesAndNotifies(t *testing.T) {
	svc, _, _, sink := newService(t)

	lead, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Source:  domain.LeadSourceHubSpot,
		Name:    "  <b>Ada</b> ",
		Company: strPtr("<script>x</script>Acme"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", lead.Name)
	require.NotNil(t, lead.Company)
	assert.NotContains(t, *lead.Company, "<script>")
	assert.Equal(t, []string{notification.TypeLeadCreated}, sink.types)
}

func TestSetStatusAndStats(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()

	var ids []int64
	for _, name := range []string{"a", "b", "c"} {
		lead, err := svc.Create(ctx, transport.CreateLeadRequest{Source: domain.LeadSourceCSV, Name: name})
		require.NoError(t, err)
		ids = append(ids, lead.ID)
	}

	updated, err := svc.SetStatus(ctx, ids[0], domain.LeadStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusApproved, updated.Status)

	_, err = svc.SetStatus(ctx, ids[1], domain.LeadStatusContacted)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, transport.LeadStatsResponse{Total: 3, Pending: 1, Approved: 1, Contacted: 1}, stats)

	_, err = svc.SetStatus(ctx, 999, domain.LeadStatusApproved)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUpdateRejectsBlankName(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()

	lead, err := svc.Create(ctx, transport.CreateLeadRequest{Source: domain.LeadSourceCSV, Name: "Ada"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, lead.ID, transport.UpdateLeadRequest{Name: strPtr("<i></i>")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestListDefaultsLimit(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()
	for i := 0; i < 60; i++ {
		_, err := svc.Create(ctx, transport.CreateLeadRequest{Source: domain.LeadSourceCSV, Name: "lead"})
		require.NoError(t, err)
	}

	leads, err := svc.List(ctx, transport.ListLeadsRequest{})
	require.NoError(t, err)
	assert.Len(t, leads, defaultListLimit)
	assert.Greater(t, leads[0].ID, leads[1].ID)
}

func TestScoreRequiresIDs(t *testing.T) {
	svc, _, _, sink := newService(t)

	_, err := svc.Score(context.Background(), transport.ScoreLeadsRequest{})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	resp, err := svc.Score(context.Background(), transport.ScoreLeadsRequest{LeadIDs: []int64{4, 5}})
	require.NoError(t, err)
	assert.Equal(t, "Scored 2 leads", resp.Message)
	assert.Len(t, resp.Scored, 2)
	assert.Contains(t, sink.types, notification.TypeLeadsScored)
}
