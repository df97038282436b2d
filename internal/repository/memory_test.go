package repository

import (
	"context"
	"sync"
	"testing"

	"heyjarvis_backend/internal/domain"
	"heyjarvis_backend/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreAssignsIncreasingIDsPerCollection(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	l1, err := store.CreateLead(ctx, CreateLeadParams{Source: domain.LeadSourceCSV, Name: "A"})
	require.NoError(t, err)
	l2, err := store.CreateLead(ctx, CreateLeadParams{Source: domain.LeadSourceCSV, Name: "B"})
	require.NoError(t, err)
	wf, err := store.CreateWorkflow(ctx, CreateWorkflowParams{Name: "W", Domain: domain.DomainSales, Type: "x"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), l1.ID)
	assert.Equal(t, int64(2), l2.ID)
	assert.Equal(t, int64(1), wf.ID)
	assert.Equal(t, domain.LeadStatusPending, l1.Status)
	assert.Equal(t, domain.WorkflowPending, wf.Status)
	assert.Equal(t, 1, wf.TotalSteps)
}

func TestMemoryStoreRejectsOutOfRangeScore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	lead, err := store.CreateLead(ctx, CreateLeadParams{Source: domain.LeadSourceCSV, Name: "A"})
	require.NoError(t, err)

	for _, score := range []int{0, 101} {
		_, err := store.UpdateLead(ctx, lead.ID, UpdateLeadParams{Score: ptr(score)})
		assert.True(t, apperr.Is(err, apperr.KindValidation), "score %d", score)
	}

	updated, err := store.UpdateLead(ctx, lead.ID, UpdateLeadParams{Score: ptr(100)})
	require.NoError(t, err)
	require.NotNil(t, updated.Score)
	assert.Equal(t, 100, *updated.Score)
}

func TestMemoryStoreMissingRecordsAreNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.GetLead(ctx, 42)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = store.UpdateWorkflow(ctx, 42, UpdateWorkflowParams{})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = store.ResolveApproval(ctx, ResolveApprovalParams{ID: 42, Status: domain.ApprovalApproved})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.True(t, apperr.Is(store.DeleteLead(ctx, 42), apperr.KindNotFound))
}

func TestMemoryStoreEnforcesWorkflowTransitions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	wf, err := store.CreateWorkflow(ctx, CreateWorkflowParams{Name: "W", Domain: domain.DomainSales, Type: "x", Status: domain.WorkflowRunning})
	require.NoError(t, err)

	done, err := store.UpdateWorkflow(ctx, wf.ID, UpdateWorkflowParams{
		Status:   ptr(domain.WorkflowCompleted),
		Progress: ptr(150),
		Results:  JSON{"ok": true},
	})
	require.NoError(t, err)
	assert.Equal(t, 100, done.Progress)

	_, err = store.UpdateWorkflow(ctx, wf.ID, UpdateWorkflowParams{Status: ptr(domain.WorkflowRunning)})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestMemoryStoreScheduledTaskHandle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	wf, err := store.CreateWorkflow(ctx, CreateWorkflowParams{Name: "W", Domain: domain.DomainEngineering, Type: "ab_testing"})
	require.NoError(t, err)

	wf, err = store.UpdateWorkflow(ctx, wf.ID, UpdateWorkflowParams{ScheduledTaskID: ptr("task-1")})
	require.NoError(t, err)
	require.NotNil(t, wf.ScheduledTaskID)
	assert.Equal(t, "task-1", *wf.ScheduledTaskID)

	wf, err = store.UpdateWorkflow(ctx, wf.ID, UpdateWorkflowParams{ClearScheduledTask: true})
	require.NoError(t, err)
	assert.Nil(t, wf.ScheduledTaskID)
}

func TestMemoryStoreResolveApprovalIsSingleShot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	a, err := store.CreateApproval(ctx, CreateApprovalParams{Title: "T", Type: "budget_increase", RequestedBy: "system", Data: JSON{"campaignId": 7}})
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalPending, a.Status)
	assert.Equal(t, domain.PriorityMedium, a.Priority)

	_, err = store.ResolveApproval(ctx, ResolveApprovalParams{ID: a.ID, Status: domain.ApprovalPending, ResolvedBy: "x"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	var wg sync.WaitGroup
	results := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = store.ResolveApproval(ctx, ResolveApprovalParams{
				ID: a.ID, Status: domain.ApprovalRejected, ResolvedBy: "ops", ExtraData: JSON{"rejectionReason": "too costly"},
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, apperr.Is(err, apperr.KindConflict))
	}
	assert.Equal(t, 1, succeeded)

	resolved, err := store.GetApproval(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalRejected, resolved.Status)
	require.NotNil(t, resolved.ApprovedBy)
	assert.Equal(t, "ops", *resolved.ApprovedBy)
	assert.NotNil(t, resolved.ApprovedAt)
	assert.Equal(t, 7, resolved.Data["campaignId"])
	assert.Equal(t, "too costly", resolved.Data["rejectionReason"])
}

func TestMemoryStoreCompleteOutreachCampaignIsSingleShot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c, err := store.CreateOutreachCampaign(ctx, CreateOutreachCampaignParams{Name: "Q3", LeadIDs: []int64{1}})
	require.NoError(t, err)

	_, err = store.CompleteOutreachCampaign(ctx, 99, JSON{})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	var wg sync.WaitGroup
	results := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = store.CompleteOutreachCampaign(ctx, c.ID, JSON{"replies": i})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, apperr.Is(err, apperr.KindConflict))
	}
	assert.Equal(t, 1, succeeded)

	done, err := store.GetOutreachCampaign(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, OutreachCompleted, done.Status)
	assert.NotNil(t, done.SentAt)
	assert.Contains(t, done.Results, "replies")
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	lead, err := store.CreateLead(ctx, CreateLeadParams{Source: domain.LeadSourceCSV, Name: "A", RawData: JSON{"k": "v"}})
	require.NoError(t, err)

	lead.RawData["k"] = "mutated"
	again, err := store.GetLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "v", again.RawData["k"])
}

func TestMemoryStoreListsNewestFirstWithFilters(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for _, name := range []string{"a", "b", "c"} {
		_, err := store.CreateLead(ctx, CreateLeadParams{Source: domain.LeadSourceCSV, Name: name})
		require.NoError(t, err)
	}
	_, err := store.UpdateLead(ctx, 2, UpdateLeadParams{Status: ptr(domain.LeadStatusContacted)})
	require.NoError(t, err)

	page, err := store.ListLeads(ctx, LeadFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "b", page[0].Name)
	assert.Equal(t, "a", page[1].Name)

	contacted := domain.LeadStatusContacted
	filtered, err := store.ListLeads(ctx, LeadFilter{Status: &contacted})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, int64(2), filtered[0].ID)

	counts, err := store.CountLeadsByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[domain.LeadStatusPending])
	assert.Equal(t, 1, counts[domain.LeadStatusContacted])
}

func TestMemoryStoreActivitiesAppendOnlyNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for _, action := range []string{"first", "second", "third"} {
		_, err := store.CreateActivity(ctx, CreateActivityParams{Action: action, Domain: domain.DomainSales})
		require.NoError(t, err)
	}

	recent, err := store.ListActivities(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "third", recent[0].Action)
	assert.Equal(t, "second", recent[1].Action)
}

func TestMemoryStoreMarketingSpendReportsPrevious(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c, err := store.CreateMarketingCampaign(ctx, CreateMarketingCampaignParams{Name: "Q4", Type: "ads", Budget: ptr(1000.0)})
	require.NoError(t, err)

	first, err := store.SetMarketingSpend(ctx, c.ID, 300)
	require.NoError(t, err)
	assert.Equal(t, 0.0, first.Previous)

	second, err := store.SetMarketingSpend(ctx, c.ID, 850)
	require.NoError(t, err)
	assert.Equal(t, 300.0, second.Previous)
	assert.Equal(t, 850.0, second.Campaign.Spent)
}
