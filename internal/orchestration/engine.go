package orchestration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"heyjarvis_backend/internal/ai"
	"heyjarvis_backend/internal/domain"
	"heyjarvis_backend/internal/notification"
	"heyjarvis_backend/internal/repository"
	"heyjarvis_backend/internal/scoring"
	"heyjarvis_backend/platform/apperr"
	"heyjarvis_backend/platform/logger"
)

// DefaultMaxChainDepth bounds how many follow-on triggers one dispatch may nest.
const DefaultMaxChainDepth = 8

// ErrChainTooDeep is returned when follow-on triggers nest past the limit.
var ErrChainTooDeep = errors.New("trigger chain too deep")

// Store is the slice of the record store the engine writes to.
type Store interface {
	GetLead(ctx context.Context, id int64) (repository.Lead, error)
	CreateWorkflow(ctx context.Context, params repository.CreateWorkflowParams) (repository.Workflow, error)
	GetWorkflow(ctx context.Context, id int64) (repository.Workflow, error)
	UpdateWorkflow(ctx context.Context, id int64, params repository.UpdateWorkflowParams) (repository.Workflow, error)
	CreateApproval(ctx context.Context, params repository.CreateApprovalParams) (repository.Approval, error)
	CreateActivity(ctx context.Context, params repository.CreateActivityParams) (repository.Activity, error)
}

// LeadScorer scores stored leads and writes the scores back.
type LeadScorer interface {
	ScoreExistingLeads(ctx context.Context, leadIDs []int64) ([]scoring.ScoredLead, error)
}

// MessageGenerator writes one outreach message per lead.
type MessageGenerator interface {
	GenerateMessage(ctx context.Context, lead scoring.LeadFacts) (ai.OutreachMessage, error)
}

// Scheduler runs a workflow's deferred completion after a delay. The task id
// is chosen by the caller and doubles as the cancellation handle.
type Scheduler interface {
	ScheduleCompletion(ctx context.Context, taskID string, workflowID int64, delay time.Duration) error
	CancelCompletion(ctx context.Context, taskID string) error
}

// Options tunes the engine. Zero values select the defaults.
type Options struct {
	// ExternalCallTimeout bounds each scoring and message generation call.
	// Zero means no timeout.
	ExternalCallTimeout time.Duration
	// OutreachConcurrency is the number of messages generated in parallel.
	OutreachConcurrency int
	// ABTestDelay is how long an A/B test setup runs before it completes.
	ABTestDelay time.Duration
	// MaxChainDepth bounds nested follow-on triggers.
	MaxChainDepth int
}

const defaultABTestDelay = 2 * time.Second

// Engine dispatches triggers to their handlers.
type Engine struct {
	store     Store
	scorer    LeadScorer
	messages  MessageGenerator
	notifier  notification.Sink
	scheduler Scheduler
	log       *logger.Logger
	opts      Options
}

// NewEngine wires the engine. A nil notifier drops notifications.
func NewEngine(store Store, scorer LeadScorer, messages MessageGenerator, notifier notification.Sink, scheduler Scheduler, log *logger.Logger, opts Options) *Engine {
	if notifier == nil {
		notifier = notification.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if opts.OutreachConcurrency < 1 {
		opts.OutreachConcurrency = 1
	}
	if opts.ABTestDelay <= 0 {
		opts.ABTestDelay = defaultABTestDelay
	}
	if opts.MaxChainDepth <= 0 {
		opts.MaxChainDepth = DefaultMaxChainDepth
	}
	return &Engine{
		store:     store,
		scorer:    scorer,
		messages:  messages,
		notifier:  notifier,
		scheduler: scheduler,
		log:       log,
		opts:      opts,
	}
}

// Dispatch runs the trigger's handler and every follow-on trigger it emits
// before returning. Handlers are not interrupted by the caller going away:
// the context is detached from cancellation once the trigger is accepted.
//
// Invalid payloads are rejected before anything is written. Failures of the
// scoring or message services end the affected workflow as failed and are
// not returned; store failures are.
func (e *Engine) Dispatch(ctx context.Context, trigger Trigger) error {
	if _, ok := ctx.Value(logger.TriggerIDKey).(string); !ok {
		ctx = context.WithValue(ctx, logger.TriggerIDKey, uuid.NewString())
	}
	return e.dispatch(context.WithoutCancel(ctx), trigger, 0)
}

func (e *Engine) dispatch(ctx context.Context, trigger Trigger, depth int) error {
	if trigger.Payload == nil {
		return invalid("trigger payload is required")
	}
	if err := trigger.Payload.Validate(); err != nil {
		return err
	}
	kind := trigger.Payload.Kind()
	if depth >= e.opts.MaxChainDepth {
		return apperr.Wrap(apperr.KindInternal, fmt.Sprintf("%s at depth %d", kind, depth), ErrChainTooDeep)
	}

	e.log.WithContext(ctx).TriggerDispatched(string(kind), trigger.Domain, depth)

	target := trigger.Domain
	if err := e.logActivity(ctx, "Workflow triggered: "+string(kind), &target, domain.DomainOrchestration, payloadMetadata(trigger.Payload)); err != nil {
		return err
	}

	switch p := trigger.Payload.(type) {
	case LeadImported:
		return e.handleLeadImported(ctx, p, depth)
	case LeadScored:
		return e.handleLeadScored(ctx, p)
	case LeadApproved:
		return e.handleLeadApproved(ctx, p)
	case CampaignCompleted:
		return e.handleCampaignCompleted(ctx, p, depth)
	case BudgetThresholdReached:
		return e.handleBudgetThreshold(ctx, p)
	case SiteGenerated:
		return e.handleSiteGenerated(ctx, p)
	case ConversionDetected:
		return e.handleConversionDetected(ctx, p)
	default:
		e.log.WithContext(ctx).Warn("orchestration: ignoring unrecognized trigger", "type", string(kind), "domain", trigger.Domain)
		return nil
	}
}

// chain dispatches a follow-on trigger one level deeper.
func (e *Engine) chain(ctx context.Context, triggerDomain domain.Domain, payload Payload, depth int) error {
	return e.dispatch(ctx, Trigger{Domain: string(triggerDomain), Payload: payload}, depth+1)
}

// StartLeadImportWorkflow scores freshly imported leads and carries the
// high scorers on to an outreach approval.
func (e *Engine) StartLeadImportWorkflow(ctx context.Context, leadIDs []int64) error {
	return e.Dispatch(ctx, Trigger{Domain: string(domain.DomainSales), Payload: LeadImported{LeadIDs: leadIDs}})
}

// ApproveLead generates outreach messages for approved leads.
func (e *Engine) ApproveLead(ctx context.Context, leadIDs []int64, campaignType string) error {
	if campaignType == "" {
		campaignType = DefaultCampaignType
	}
	return e.Dispatch(ctx, Trigger{Domain: string(domain.DomainSales), Payload: LeadApproved{LeadIDs: leadIDs, CampaignType: campaignType}})
}

// CompleteCampaign records a finished campaign and asks for conversion
// optimization.
func (e *Engine) CompleteCampaign(ctx context.Context, campaignID int64, results map[string]any) error {
	return e.Dispatch(ctx, Trigger{Domain: string(domain.DomainSales), Payload: CampaignCompleted{CampaignID: campaignID, Results: results}})
}

func (e *Engine) externalCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.opts.ExternalCallTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.opts.ExternalCallTimeout)
}

func (e *Engine) createWorkflow(ctx context.Context, params repository.CreateWorkflowParams) (repository.Workflow, error) {
	wf, err := e.store.CreateWorkflow(ctx, params)
	if err != nil {
		e.log.WithContext(ctx).DatabaseError("create workflow", err)
		return repository.Workflow{}, fmt.Errorf("orchestration: create workflow: %w", err)
	}
	e.notifier.Notify(ctx, notification.Event{Type: notification.TypeWorkflowCreated, Data: wf})
	return wf, nil
}

func (e *Engine) updateWorkflow(ctx context.Context, id int64, params repository.UpdateWorkflowParams) (repository.Workflow, error) {
	wf, err := e.store.UpdateWorkflow(ctx, id, params)
	if err != nil {
		e.log.WithContext(ctx).DatabaseError("update workflow", err)
		return repository.Workflow{}, fmt.Errorf("orchestration: update workflow %d: %w", id, err)
	}
	e.notifier.Notify(ctx, notification.Event{Type: notification.TypeWorkflowUpdated, Data: wf})
	return wf, nil
}

func (e *Engine) completeWorkflow(ctx context.Context, id int64, results repository.JSON) error {
	status := domain.WorkflowCompleted
	progress := 100
	_, err := e.updateWorkflow(ctx, id, repository.UpdateWorkflowParams{
		Status:   &status,
		Progress: &progress,
		Results:  results,
	})
	return err
}

// failWorkflow ends a workflow after an external failure. Only a store error
// is returned.
func (e *Engine) failWorkflow(ctx context.Context, wf repository.Workflow, cause error) error {
	e.log.WithContext(ctx).HandlerFailed(wf.Type, wf.ID, cause)
	status := domain.WorkflowFailed
	_, err := e.updateWorkflow(ctx, wf.ID, repository.UpdateWorkflowParams{
		Status:             &status,
		Results:            repository.JSON{"error": cause.Error()},
		ClearScheduledTask: true,
	})
	return err
}

func (e *Engine) createApproval(ctx context.Context, params repository.CreateApprovalParams) error {
	approval, err := e.store.CreateApproval(ctx, params)
	if err != nil {
		e.log.WithContext(ctx).DatabaseError("create approval", err)
		return fmt.Errorf("orchestration: create approval: %w", err)
	}
	e.notifier.Notify(ctx, notification.Event{Type: notification.TypeApprovalCreated, Data: approval})
	return nil
}

func (e *Engine) logActivity(ctx context.Context, action string, target *string, activityDomain domain.Domain, metadata repository.JSON) error {
	actor := domain.SystemActor
	activity, err := e.store.CreateActivity(ctx, repository.CreateActivityParams{
		Action:   action,
		Target:   target,
		Domain:   activityDomain,
		UserID:   &actor,
		Metadata: metadata,
	})
	if err != nil {
		e.log.WithContext(ctx).DatabaseError("create activity", err)
		return fmt.Errorf("orchestration: log activity: %w", err)
	}
	e.notifier.Notify(ctx, notification.Event{Type: notification.TypeActivityCreated, Data: activity})
	return nil
}

// resolveLeads loads the leads that exist, in input order.
func (e *Engine) resolveLeads(ctx context.Context, ids []int64) ([]repository.Lead, error) {
	leads := make([]repository.Lead, 0, len(ids))
	for _, id := range ids {
		lead, err := e.store.GetLead(ctx, id)
		if apperr.Is(err, apperr.KindNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("orchestration: load lead %d: %w", id, err)
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

// toJSON normalizes a payload to the shape it has after a round trip
// through the store, so in-memory and Postgres records look alike.
func toJSON(v any) repository.JSON {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return repository.JSON{"error": err.Error()}
	}
	var out repository.JSON
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func payloadMetadata(p Payload) repository.JSON {
	if u, ok := p.(Unrecognized); ok {
		return toJSON(u.Data)
	}
	return toJSON(p)
}
