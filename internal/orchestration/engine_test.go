package orchestration

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heyjarvis_backend/internal/ai"
	"heyjarvis_backend/internal/domain"
	"heyjarvis_backend/internal/notification"
	"heyjarvis_backend/internal/repository"
	"heyjarvis_backend/internal/scoring"
	"heyjarvis_backend/platform/apperr"
	"heyjarvis_backend/platform/logger"
)

// stubScorer returns fixed scores keyed by lead id.
type stubScorer struct {
	scores map[int64]int
	err    error
}

func (s stubScorer) ScoreLeads(_ context.Context, leads []scoring.LeadFacts) ([]scoring.ScoredLead, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]scoring.ScoredLead, len(leads))
	for i, lead := range leads {
		out[i] = scoring.ScoredLead{LeadFacts: lead, Score: s.scores[lead.LeadID], Reasoning: "stub"}
	}
	return out, nil
}

type failingLeadScorer struct{ err error }

func (f failingLeadScorer) ScoreExistingLeads(context.Context, []int64) ([]scoring.ScoredLead, error) {
	return nil, f.err
}

// stubMessages answers after a per-lead delay so parallel runs finish out of
// order.
type stubMessages struct {
	delays map[string]time.Duration
	failOn string
	block  bool
}

func (s stubMessages) GenerateMessage(ctx context.Context, lead scoring.LeadFacts) (ai.OutreachMessage, error) {
	if s.block {
		<-ctx.Done()
		return ai.OutreachMessage{}, ctx.Err()
	}
	if lead.Name == s.failOn {
		return ai.OutreachMessage{}, errors.New("model unavailable")
	}
	if d := s.delays[lead.Name]; d > 0 {
		time.Sleep(d)
	}
	return ai.OutreachMessage{Subject: "Hi " + lead.Name, Body: "Hello", PersonalizedElements: []string{lead.Name}}, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []notification.Event
}

func (r *recordingSink) Notify(_ context.Context, event notification.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingSink) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type fakeScheduler struct {
	mu        sync.Mutex
	scheduled map[string]int64
	cancelled []string
	err       error
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{scheduled: make(map[string]int64)}
}

func (f *fakeScheduler) ScheduleCompletion(_ context.Context, taskID string, workflowID int64, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.scheduled[taskID] = workflowID
	return nil
}

func (f *fakeScheduler) CancelCompletion(_ context.Context, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, taskID)
	delete(f.scheduled, taskID)
	return nil
}

type fixture struct {
	store     *repository.MemoryStore
	sink      *recordingSink
	scheduler *fakeScheduler
	engine    *Engine
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	scores   map[int64]int
	scorer   LeadScorer
	messages MessageGenerator
	opts     Options
}

func newFixture(t *testing.T, options ...fixtureOption) *fixture {
	t.Helper()
	cfg := fixtureConfig{messages: stubMessages{}}
	for _, o := range options {
		o(&cfg)
	}

	store := repository.NewMemoryStore()
	log := logger.Nop()
	scorer := cfg.scorer
	if scorer == nil {
		scorer = scoring.NewService(store, stubScorer{scores: cfg.scores}, 0, log)
	}
	sink := &recordingSink{}
	sched := newFakeScheduler()

	return &fixture{
		store:     store,
		sink:      sink,
		scheduler: sched,
		engine:    NewEngine(store, scorer, cfg.messages, sink, sched, log, cfg.opts),
	}
}

func withScores(scores map[int64]int) fixtureOption {
	return func(c *fixtureConfig) { c.scores = scores }
}

func withLeadScorer(s LeadScorer) fixtureOption {
	return func(c *fixtureConfig) { c.scorer = s }
}

func withMessages(m MessageGenerator) fixtureOption {
	return func(c *fixtureConfig) { c.messages = m }
}

func withOptions(opts Options) fixtureOption {
	return func(c *fixtureConfig) { c.opts = opts }
}

func (f *fixture) lead(t *testing.T, name string, score *int) repository.Lead {
	t.Helper()
	company := name + " Inc"
	lead, err := f.store.CreateLead(context.Background(), repository.CreateLeadParams{
		Source:  domain.LeadSourceCSV,
		Name:    name,
		Company: &company,
		Score:   score,
	})
	require.NoError(t, err)
	return lead
}

func (f *fixture) workflows(t *testing.T) []repository.Workflow {
	t.Helper()
	wfs, err := f.store.ListWorkflows(context.Background(), repository.WorkflowFilter{})
	require.NoError(t, err)
	return wfs
}

func (f *fixture) approvals(t *testing.T) []repository.Approval {
	t.Helper()
	approvals, err := f.store.ListApprovals(context.Background(), repository.ApprovalFilter{})
	require.NoError(t, err)
	return approvals
}

// actions returns activity actions oldest first.
func (f *fixture) actions(t *testing.T) []string {
	t.Helper()
	activities, err := f.store.ListActivities(context.Background(), 0)
	require.NoError(t, err)
	out := make([]string, len(activities))
	for i, a := range activities {
		out[len(activities)-1-i] = a.Action
	}
	return out
}

func intPtr(v int) *int { return &v }

func TestLeadImportedScoresAndChainsHighScorers(t *testing.T) {
	f := newFixture(t, withScores(map[int64]int{1: 90, 2: 40}))
	l1 := f.lead(t, "Ada", nil)
	l2 := f.lead(t, "Bob", nil)

	require.NoError(t, f.engine.StartLeadImportWorkflow(context.Background(), []int64{l1.ID, l2.ID}))

	wfs := f.workflows(t)
	require.Len(t, wfs, 1)
	wf := wfs[0]
	assert.Equal(t, "Auto Lead Scoring", wf.Name)
	assert.Equal(t, domain.WorkflowTypeLeadScoring, wf.Type)
	assert.Equal(t, domain.WorkflowCompleted, wf.Status)
	assert.Equal(t, 2, wf.TotalSteps)
	assert.Equal(t, 100, wf.Progress)
	assert.Equal(t, float64(2), wf.Results["scoredLeads"])
	require.NotNil(t, wf.Description)
	assert.Equal(t, "Scoring 2 newly imported leads", *wf.Description)

	approvals := f.approvals(t)
	require.Len(t, approvals, 1)
	approval := approvals[0]
	assert.Equal(t, domain.ApprovalTypeOutreachCampaign, approval.Type)
	assert.Equal(t, domain.PriorityHigh, approval.Priority)
	assert.Equal(t, domain.ApprovalPending, approval.Status)
	assert.Equal(t, domain.SystemActor, approval.RequestedBy)
	assert.Nil(t, approval.WorkflowID)
	assert.Equal(t, []any{float64(l1.ID)}, approval.Data["leadIds"])
	assert.Equal(t, []any{"Ada"}, approval.Data["leadNames"])
	assert.Equal(t, float64(90), approval.Data["averageScore"])

	assert.Equal(t, []string{
		"Workflow triggered: lead_imported",
		"Workflow triggered: lead_scored",
	}, f.actions(t))

	stored, err := f.store.GetLead(context.Background(), l2.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Score)
	assert.Equal(t, 40, *stored.Score)
	assert.Equal(t, "stub", stored.RawData[scoring.ReasoningKey])
}

func TestLeadImportedWithoutHighScorersStopsAfterScoring(t *testing.T) {
	f := newFixture(t, withScores(map[int64]int{1: 30}))
	lead := f.lead(t, "Ada", nil)

	require.NoError(t, f.engine.StartLeadImportWorkflow(context.Background(), []int64{lead.ID}))

	assert.Empty(t, f.approvals(t))
	assert.Equal(t, []string{"Workflow triggered: lead_imported"}, f.actions(t))
}

func TestLeadImportedScoringFailureFailsWorkflow(t *testing.T) {
	f := newFixture(t, withLeadScorer(failingLeadScorer{err: errors.New("scoring backend down")}))
	lead := f.lead(t, "Ada", nil)

	err := f.engine.StartLeadImportWorkflow(context.Background(), []int64{lead.ID})
	require.NoError(t, err, "external failures end the workflow, not the dispatch")

	wfs := f.workflows(t)
	require.Len(t, wfs, 1)
	assert.Equal(t, domain.WorkflowFailed, wfs[0].Status)
	assert.Equal(t, "scoring backend down", wfs[0].Results["error"])
	assert.Empty(t, f.approvals(t))
}

func TestLeadImportedNeverLeavesWorkflowRunning(t *testing.T) {
	for _, scorer := range []LeadScorer{nil, failingLeadScorer{err: errors.New("boom")}} {
		var opts []fixtureOption
		if scorer != nil {
			opts = append(opts, withLeadScorer(scorer))
		}
		f := newFixture(t, opts...)
		lead := f.lead(t, "Ada", nil)
		missing := int64(999)

		require.NoError(t, f.engine.StartLeadImportWorkflow(context.Background(), []int64{lead.ID, missing}))

		wfs := f.workflows(t)
		require.Len(t, wfs, 1)
		assert.True(t, wfs[0].Status.Terminal(), "status %s", wfs[0].Status)
	}
}

func TestLeadScoredAveragesMissingScoresAsZero(t *testing.T) {
	f := newFixture(t)
	scored := f.lead(t, "Ada", intPtr(85))
	unscored := f.lead(t, "Bob", nil)

	err := f.engine.Dispatch(context.Background(), Trigger{
		Domain:  "sales",
		Payload: LeadScored{HighScoreLeadIDs: []int64{scored.ID, unscored.ID}},
	})
	require.NoError(t, err)

	approvals := f.approvals(t)
	require.Len(t, approvals, 1)
	assert.Equal(t, 42.5, approvals[0].Data["averageScore"])
	assert.Equal(t, domain.PriorityHigh, approvals[0].Priority)
	require.NotNil(t, approvals[0].Description)
	assert.Equal(t, "2 high-scoring leads ready for outreach campaign", *approvals[0].Description)
	assert.Empty(t, f.workflows(t))
}

func TestLeadScoredWithoutResolvableLeadsIsNoOp(t *testing.T) {
	f := newFixture(t)
	trigger := Trigger{Domain: "sales", Payload: LeadScored{HighScoreLeadIDs: []int64{404, 405}}}

	for range 2 {
		require.NoError(t, f.engine.Dispatch(context.Background(), trigger))
	}

	assert.Empty(t, f.approvals(t))
	assert.Empty(t, f.workflows(t))
}

func TestLeadApprovedKeepsInputOrderUnderConcurrency(t *testing.T) {
	f := newFixture(t,
		withMessages(stubMessages{delays: map[string]time.Duration{"Ada": 30 * time.Millisecond, "Bob": 10 * time.Millisecond}}),
		withOptions(Options{OutreachConcurrency: 3}),
	)
	ada := f.lead(t, "Ada", nil)
	bob := f.lead(t, "Bob", nil)
	cy := f.lead(t, "Cy", nil)

	require.NoError(t, f.engine.ApproveLead(context.Background(), []int64{ada.ID, 999, bob.ID, cy.ID}, ""))

	wfs := f.workflows(t)
	require.Len(t, wfs, 1)
	wf := wfs[0]
	assert.Equal(t, domain.WorkflowTypeOutreachGeneration, wf.Type)
	assert.Equal(t, domain.WorkflowCompleted, wf.Status)
	assert.Equal(t, 3, wf.TotalSteps)
	assert.Equal(t, float64(3), wf.Results["generatedMessages"])
	assert.Equal(t, DefaultCampaignType, wf.Config["campaignType"])

	approvals := f.approvals(t)
	require.Len(t, approvals, 1)
	approval := approvals[0]
	assert.Equal(t, domain.ApprovalTypeOutreachSend, approval.Type)
	assert.Equal(t, domain.PriorityMedium, approval.Priority)
	require.NotNil(t, approval.WorkflowID)
	assert.Equal(t, wf.ID, *approval.WorkflowID)

	messages, ok := approval.Data["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 3)
	var order []float64
	for _, m := range messages {
		entry := m.(map[string]any)
		order = append(order, entry["leadId"].(float64))
	}
	assert.Equal(t, []float64{float64(ada.ID), float64(bob.ID), float64(cy.ID)}, order)
	first := messages[0].(map[string]any)["message"].(map[string]any)
	assert.Equal(t, "Hi Ada", first["subject"])
}

func TestLeadApprovedGenerationFailureFailsWorkflow(t *testing.T) {
	f := newFixture(t, withMessages(stubMessages{failOn: "Bob"}))
	ada := f.lead(t, "Ada", nil)
	bob := f.lead(t, "Bob", nil)

	require.NoError(t, f.engine.ApproveLead(context.Background(), []int64{ada.ID, bob.ID}, "outreach"))

	wfs := f.workflows(t)
	require.Len(t, wfs, 1)
	assert.Equal(t, domain.WorkflowFailed, wfs[0].Status)
	assert.Contains(t, wfs[0].Results["error"], "model unavailable")
	assert.Empty(t, f.approvals(t))
}

func TestLeadApprovedTimesOutHungGenerator(t *testing.T) {
	f := newFixture(t,
		withMessages(stubMessages{block: true}),
		withOptions(Options{ExternalCallTimeout: 20 * time.Millisecond}),
	)
	lead := f.lead(t, "Ada", nil)

	done := make(chan error, 1)
	go func() { done <- f.engine.ApproveLead(context.Background(), []int64{lead.ID}, "outreach") }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not return after the call timeout")
	}

	wfs := f.workflows(t)
	require.Len(t, wfs, 1)
	assert.Equal(t, domain.WorkflowFailed, wfs[0].Status)
	assert.Contains(t, wfs[0].Results["error"], context.DeadlineExceeded.Error())
}

func TestCampaignCompletedChainsConversionBeforeLogging(t *testing.T) {
	f := newFixture(t)
	results := map[string]any{"opens": 12.0}

	require.NoError(t, f.engine.CompleteCampaign(context.Background(), 7, results))

	assert.Equal(t, []string{
		"Workflow triggered: campaign_completed",
		"Workflow triggered: conversion_detected",
		"Conversion optimization triggered",
		"Campaign completed",
	}, f.actions(t))

	activities, err := f.store.ListActivities(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	last := activities[0]
	require.NotNil(t, last.Target)
	assert.Equal(t, "Campaign 7", *last.Target)
	assert.Equal(t, domain.DomainSales, last.Domain)
	assert.Equal(t, 12.0, last.Metadata["opens"])
	assert.Empty(t, f.workflows(t))
	assert.Empty(t, f.approvals(t))
}

func TestBudgetThresholdCreatesIncreaseApproval(t *testing.T) {
	f := newFixture(t)

	err := f.engine.Dispatch(context.Background(), Trigger{
		Domain:  "marketing",
		Payload: BudgetThresholdReached{CampaignID: 7, CurrentSpend: 750, Threshold: 1000},
	})
	require.NoError(t, err)

	approvals := f.approvals(t)
	require.Len(t, approvals, 1)
	approval := approvals[0]
	assert.Equal(t, domain.ApprovalTypeBudgetIncrease, approval.Type)
	assert.Equal(t, domain.PriorityHigh, approval.Priority)
	require.NotNil(t, approval.Description)
	assert.Contains(t, *approval.Description, "75%")
	assert.Equal(t, float64(500), approval.Data["recommendedIncrease"])
	assert.Empty(t, f.workflows(t))
}

func TestSiteGeneratedSchedulesOwnedCompletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.engine.Dispatch(ctx, Trigger{Domain: "engineering", Payload: SiteGenerated{SiteID: 3, Industry: "saas"}}))

	wfs := f.workflows(t)
	require.Len(t, wfs, 1)
	wf := wfs[0]
	assert.Equal(t, domain.WorkflowRunning, wf.Status)
	assert.Equal(t, 4, wf.TotalSteps)
	require.NotNil(t, wf.ScheduledTaskID)
	assert.Equal(t, CompletionTaskID(wf.ID), *wf.ScheduledTaskID)
	assert.Equal(t, wf.ID, f.scheduler.scheduled[*wf.ScheduledTaskID])

	require.NoError(t, f.engine.CompleteScheduledWorkflow(ctx, wf.ID))

	done, err := f.store.GetWorkflow(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkflowCompleted, done.Status)
	assert.Equal(t, 100, done.Progress)
	assert.Equal(t, float64(3), done.Results["testsCreated"])
	assert.Equal(t, "2 weeks", done.Results["expectedDuration"])
	assert.Nil(t, done.ScheduledTaskID)
}

func TestCancelScheduledCompletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.engine.Dispatch(ctx, Trigger{Domain: "engineering", Payload: SiteGenerated{SiteID: 3, Industry: "saas"}}))
	wf := f.workflows(t)[0]

	cancelled, err := f.engine.CancelScheduledCompletion(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkflowFailed, cancelled.Status)
	assert.Equal(t, "cancelled", cancelled.Results["error"])
	assert.Equal(t, []string{CompletionTaskID(wf.ID)}, f.scheduler.cancelled)

	// A late completion leaves the cancelled workflow alone.
	require.NoError(t, f.engine.CompleteScheduledWorkflow(ctx, wf.ID))
	after, err := f.store.GetWorkflow(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkflowFailed, after.Status)

	_, err = f.engine.CancelScheduledCompletion(ctx, wf.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.ErrorIs(t, err, ErrNotScheduled)
}

func TestScheduledWorkflowCannotBePaused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.engine.Dispatch(ctx, Trigger{Domain: "engineering", Payload: SiteGenerated{SiteID: 3, Industry: "saas"}}))
	wf := f.workflows(t)[0]

	paused := domain.WorkflowPaused
	_, err := f.store.UpdateWorkflow(ctx, wf.ID, repository.UpdateWorkflowParams{Status: &paused})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	after, err := f.store.GetWorkflow(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkflowRunning, after.Status)
}

func TestCompletionOfPausedWorkflowIsDeferred(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	wf, err := f.store.CreateWorkflow(ctx, repository.CreateWorkflowParams{
		Name: "A/B Testing Setup", Domain: domain.DomainEngineering, Type: domain.WorkflowTypeABTesting, Status: domain.WorkflowRunning,
	})
	require.NoError(t, err)
	// Paused before the completion handle was stored.
	paused := domain.WorkflowPaused
	_, err = f.store.UpdateWorkflow(ctx, wf.ID, repository.UpdateWorkflowParams{Status: &paused})
	require.NoError(t, err)
	firstTask := CompletionTaskID(wf.ID)
	_, err = f.store.UpdateWorkflow(ctx, wf.ID, repository.UpdateWorkflowParams{ScheduledTaskID: &firstTask})
	require.NoError(t, err)

	require.NoError(t, f.engine.CompleteScheduledWorkflow(ctx, wf.ID))

	deferred, err := f.store.GetWorkflow(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkflowPaused, deferred.Status)
	require.NotNil(t, deferred.ScheduledTaskID)
	assert.NotEqual(t, firstTask, *deferred.ScheduledTaskID)
	assert.True(t, strings.HasPrefix(*deferred.ScheduledTaskID, firstTask+"-"))
	assert.Equal(t, wf.ID, f.scheduler.scheduled[*deferred.ScheduledTaskID])

	running := domain.WorkflowRunning
	_, err = f.store.UpdateWorkflow(ctx, wf.ID, repository.UpdateWorkflowParams{Status: &running})
	require.NoError(t, err)
	require.NoError(t, f.engine.CompleteScheduledWorkflow(ctx, wf.ID))

	done, err := f.store.GetWorkflow(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkflowCompleted, done.Status)
	assert.Equal(t, 100, done.Progress)
	assert.Nil(t, done.ScheduledTaskID)
}

func TestSiteGeneratedSchedulingFailureFailsWorkflow(t *testing.T) {
	f := newFixture(t)
	f.scheduler.err = errors.New("redis unreachable")

	require.NoError(t, f.engine.Dispatch(context.Background(), Trigger{Domain: "engineering", Payload: SiteGenerated{SiteID: 3, Industry: "saas"}}))

	wf := f.workflows(t)[0]
	assert.Equal(t, domain.WorkflowFailed, wf.Status)
	assert.Contains(t, wf.Results["error"], "redis unreachable")
	assert.Nil(t, wf.ScheduledTaskID)
}

func TestUnrecognizedTriggerOnlyLogsActivity(t *testing.T) {
	f := newFixture(t)
	trigger, err := ParseTrigger("mystery_event", "ops", []byte(`{"x":1}`))
	require.NoError(t, err)

	require.NoError(t, f.engine.Dispatch(context.Background(), trigger))

	assert.Equal(t, []string{"Workflow triggered: mystery_event"}, f.actions(t))
	assert.Empty(t, f.workflows(t))
	assert.Empty(t, f.approvals(t))

	activities, err := f.store.ListActivities(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.DomainOrchestration, activities[0].Domain)
	require.NotNil(t, activities[0].Target)
	assert.Equal(t, "ops", *activities[0].Target)
	require.NotNil(t, activities[0].UserID)
	assert.Equal(t, domain.SystemActor, *activities[0].UserID)
	assert.Equal(t, float64(1), activities[0].Metadata["x"])
}

func TestInvalidTriggerWritesNothing(t *testing.T) {
	cases := map[string]Payload{
		"no lead ids":        LeadImported{},
		"negative lead id":   LeadImported{LeadIDs: []int64{-1}},
		"no campaign type":   LeadApproved{LeadIDs: []int64{1}},
		"zero threshold":     BudgetThresholdReached{CampaignID: 1, CurrentSpend: 10},
		"missing industry":   SiteGenerated{SiteID: 1},
		"missing campaignId": CampaignCompleted{},
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			err := f.engine.Dispatch(context.Background(), Trigger{Domain: "sales", Payload: payload})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidTrigger)
			assert.True(t, apperr.Is(err, apperr.KindValidation))
			assert.Empty(t, f.actions(t))
			assert.Empty(t, f.workflows(t))
		})
	}
}

func TestChainDepthLimitRejectsNestedTriggers(t *testing.T) {
	f := newFixture(t, withScores(map[int64]int{1: 95}), withOptions(Options{MaxChainDepth: 1}))
	lead := f.lead(t, "Ada", nil)

	err := f.engine.StartLeadImportWorkflow(context.Background(), []int64{lead.ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrChainTooDeep)
	assert.Empty(t, f.approvals(t))
}

func TestDispatchNotifiesEachMutation(t *testing.T) {
	f := newFixture(t, withScores(map[int64]int{1: 20}))
	lead := f.lead(t, "Ada", nil)

	require.NoError(t, f.engine.StartLeadImportWorkflow(context.Background(), []int64{lead.ID}))

	assert.Equal(t, []string{
		notification.TypeActivityCreated,
		notification.TypeWorkflowCreated,
		notification.TypeWorkflowUpdated,
	}, f.sink.types())
}

func TestDispatchIgnoresCallerCancellation(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, f.engine.CompleteCampaign(ctx, 1, nil))
	assert.Len(t, f.actions(t), 4)
}

func TestParseTrigger(t *testing.T) {
	tests := []struct {
		name      string
		typ       string
		data      string
		want      Payload
		wantError bool
	}{
		{name: "lead imported", typ: "lead_imported", data: `{"leadIds":[1,2]}`, want: LeadImported{LeadIDs: []int64{1, 2}}},
		{name: "lead approved", typ: "lead_approved", data: `{"leadIds":[3],"campaignType":"outreach"}`, want: LeadApproved{LeadIDs: []int64{3}, CampaignType: "outreach"}},
		{name: "budget", typ: "budget_threshold_reached", data: `{"campaignId":7,"currentSpend":750,"threshold":1000}`, want: BudgetThresholdReached{CampaignID: 7, CurrentSpend: 750, Threshold: 1000}},
		{name: "site", typ: "site_generated", data: `{"siteId":2,"industry":"retail"}`, want: SiteGenerated{SiteID: 2, Industry: "retail"}},
		{name: "conversion without data", typ: "conversion_detected", data: ``, want: ConversionDetected{}},
		{name: "unknown", typ: "other", data: `{"a":"b"}`, want: Unrecognized{Type: "other", Data: map[string]any{"a": "b"}}},
		{name: "unknown with list data", typ: "other", data: `[1,"two"]`, want: Unrecognized{Type: "other", Data: map[string]any{"data": []any{float64(1), "two"}}}},
		{name: "unknown with scalar data", typ: "other", data: `"ping"`, want: Unrecognized{Type: "other", Data: map[string]any{"data": "ping"}}},
		{name: "malformed", typ: "lead_imported", data: `{"leadIds":"nope"}`, wantError: true},
		{name: "malformed unknown", typ: "other", data: `{"a":`, wantError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trigger, err := ParseTrigger(tt.typ, "", []byte(tt.data))
			if tt.wantError {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTrigger)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, trigger.Payload)
			assert.Equal(t, string(domain.DomainOrchestration), trigger.Domain)
		})
	}
}
