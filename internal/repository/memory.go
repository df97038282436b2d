package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"heyjarvis_backend/internal/domain"
	"heyjarvis_backend/platform/apperr"
)

// MemoryStore keeps every collection in process memory. Each operation holds
// the store lock, so single-record reads and writes are atomic.
type MemoryStore struct {
	mu  sync.RWMutex
	now func() time.Time

	leads      map[int64]Lead
	workflows  map[int64]Workflow
	approvals  map[int64]Approval
	activities []Activity
	outreach   map[int64]OutreachCampaign
	marketing  map[int64]MarketingCampaign
	sites      map[int64]GeneratedSite

	leadSeq      int64
	workflowSeq  int64
	approvalSeq  int64
	activitySeq  int64
	outreachSeq  int64
	marketingSeq int64
	siteSeq      int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:       time.Now,
		leads:     make(map[int64]Lead),
		workflows: make(map[int64]Workflow),
		approvals: make(map[int64]Approval),
		outreach:  make(map[int64]OutreachCampaign),
		marketing: make(map[int64]MarketingCampaign),
		sites:     make(map[int64]GeneratedSite),
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Ping(context.Context) error { return nil }

// sortedDesc returns the values of m newest first (highest id first).
func sortedDesc[T any](m map[int64]T, id func(T) int64) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b T) int {
		switch ia, ib := id(a), id(b); {
		case ia > ib:
			return -1
		case ia < ib:
			return 1
		}
		return 0
	})
	return out
}

func window[T any](items []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// =============================================================================
// Leads
// =============================================================================

func copyLead(l Lead) Lead {
	l.RawData = cloneJSON(l.RawData)
	if l.Score != nil {
		l.Score = ptr(*l.Score)
	}
	return l
}

func (s *MemoryStore) CreateLead(_ context.Context, params CreateLeadParams) (Lead, error) {
	if err := checkScore(params.Score); err != nil {
		return Lead{}, err
	}
	status := params.Status
	if status == "" {
		status = domain.LeadStatusPending
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.leadSeq++
	now := s.now()
	lead := Lead{
		ID:             s.leadSeq,
		Source:         params.Source,
		Name:           params.Name,
		Company:        params.Company,
		Title:          params.Title,
		Email:          params.Email,
		ProfileURL:     params.ProfileURL,
		RecentActivity: params.RecentActivity,
		Score:          params.Score,
		Status:         status,
		RawData:        cloneJSON(params.RawData),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.leads[lead.ID] = lead
	return copyLead(lead), nil
}

func (s *MemoryStore) GetLead(_ context.Context, id int64) (Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lead, ok := s.leads[id]
	if !ok {
		return Lead{}, apperr.NotFound(leadNotFoundMsg)
	}
	return copyLead(lead), nil
}

func (s *MemoryStore) ListLeads(_ context.Context, filter LeadFilter) ([]Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := sortedDesc(s.leads, func(l Lead) int64 { return l.ID })
	matched := make([]Lead, 0, len(all))
	for _, l := range all {
		if filter.Status != nil && l.Status != *filter.Status {
			continue
		}
		matched = append(matched, copyLead(l))
	}
	return window(matched, filter.Offset, filter.Limit), nil
}

func (s *MemoryStore) UpdateLead(_ context.Context, id int64, params UpdateLeadParams) (Lead, error) {
	if err := checkScore(params.Score); err != nil {
		return Lead{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lead, ok := s.leads[id]
	if !ok {
		return Lead{}, apperr.NotFound(leadNotFoundMsg)
	}
	if params.Name != nil {
		lead.Name = *params.Name
	}
	if params.Company != nil {
		lead.Company = params.Company
	}
	if params.Title != nil {
		lead.Title = params.Title
	}
	if params.Email != nil {
		lead.Email = params.Email
	}
	if params.ProfileURL != nil {
		lead.ProfileURL = params.ProfileURL
	}
	if params.RecentActivity != nil {
		lead.RecentActivity = params.RecentActivity
	}
	if params.Score != nil {
		lead.Score = ptr(*params.Score)
	}
	if params.Status != nil {
		lead.Status = *params.Status
	}
	if params.RawData != nil {
		lead.RawData = cloneJSON(params.RawData)
	}
	lead.UpdatedAt = s.now()
	s.leads[id] = lead
	return copyLead(lead), nil
}

func (s *MemoryStore) DeleteLead(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.leads[id]; !ok {
		return apperr.NotFound(leadNotFoundMsg)
	}
	delete(s.leads, id)
	return nil
}

func (s *MemoryStore) CountLeadsByStatus(context.Context) (map[domain.LeadStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[domain.LeadStatus]int)
	for _, l := range s.leads {
		counts[l.Status]++
	}
	return counts, nil
}

func (s *MemoryStore) LeadScores(context.Context) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scores := make([]int, 0, len(s.leads))
	for _, l := range s.leads {
		if l.Score != nil {
			scores = append(scores, *l.Score)
		}
	}
	return scores, nil
}

// =============================================================================
// Workflows
// =============================================================================

func copyWorkflow(w Workflow) Workflow {
	w.Config = cloneJSON(w.Config)
	w.Results = cloneJSON(w.Results)
	return w
}

func (s *MemoryStore) CreateWorkflow(_ context.Context, params CreateWorkflowParams) (Workflow, error) {
	status := params.Status
	if status == "" {
		status = domain.WorkflowPending
	}
	totalSteps := params.TotalSteps
	if totalSteps < 1 {
		totalSteps = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.workflowSeq++
	now := s.now()
	wf := Workflow{
		ID:          s.workflowSeq,
		Name:        params.Name,
		Description: params.Description,
		Domain:      params.Domain,
		Type:        params.Type,
		Status:      status,
		Config:      cloneJSON(params.Config),
		Progress:    clampProgress(params.Progress),
		TotalSteps:  totalSteps,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.workflows[wf.ID] = wf
	return copyWorkflow(wf), nil
}

func (s *MemoryStore) GetWorkflow(_ context.Context, id int64) (Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wf, ok := s.workflows[id]
	if !ok {
		return Workflow{}, apperr.NotFound(workflowNotFoundMsg)
	}
	return copyWorkflow(wf), nil
}

func (s *MemoryStore) ListWorkflows(_ context.Context, filter WorkflowFilter) ([]Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := sortedDesc(s.workflows, func(w Workflow) int64 { return w.ID })
	matched := make([]Workflow, 0, len(all))
	for _, w := range all {
		if filter.Status != nil && w.Status != *filter.Status {
			continue
		}
		matched = append(matched, copyWorkflow(w))
	}
	return window(matched, 0, filter.Limit), nil
}

func (s *MemoryStore) UpdateWorkflow(_ context.Context, id int64, params UpdateWorkflowParams) (Workflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wf, ok := s.workflows[id]
	if !ok {
		return Workflow{}, apperr.NotFound(workflowNotFoundMsg)
	}
	if err := checkWorkflowTransition(wf.Status, params.Status); err != nil {
		return Workflow{}, err
	}
	if err := checkScheduledPause(wf.ScheduledTaskID, params.Status); err != nil {
		return Workflow{}, err
	}
	if params.Status != nil {
		wf.Status = *params.Status
	}
	if params.Progress != nil {
		wf.Progress = clampProgress(*params.Progress)
	}
	if params.Results != nil {
		wf.Results = cloneJSON(params.Results)
	}
	if params.ScheduledTaskID != nil {
		wf.ScheduledTaskID = ptr(*params.ScheduledTaskID)
	}
	if params.ClearScheduledTask {
		wf.ScheduledTaskID = nil
	}
	wf.UpdatedAt = s.now()
	s.workflows[id] = wf
	return copyWorkflow(wf), nil
}

func (s *MemoryStore) CountWorkflows(_ context.Context, status domain.WorkflowStatus) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, w := range s.workflows {
		if w.Status == status {
			n++
		}
	}
	return n, nil
}

// =============================================================================
// Approvals
// =============================================================================

func copyApproval(a Approval) Approval {
	a.Data = cloneJSON(a.Data)
	return a
}

func (s *MemoryStore) CreateApproval(_ context.Context, params CreateApprovalParams) (Approval, error) {
	priority := params.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.approvalSeq++
	a := Approval{
		ID:          s.approvalSeq,
		Title:       params.Title,
		Description: params.Description,
		Type:        params.Type,
		Priority:    priority,
		Status:      domain.ApprovalPending,
		RequestedBy: params.RequestedBy,
		WorkflowID:  params.WorkflowID,
		Data:        cloneJSON(params.Data),
		CreatedAt:   s.now(),
	}
	s.approvals[a.ID] = a
	return copyApproval(a), nil
}

func (s *MemoryStore) GetApproval(_ context.Context, id int64) (Approval, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.approvals[id]
	if !ok {
		return Approval{}, apperr.NotFound(approvalNotFoundMsg)
	}
	return copyApproval(a), nil
}

func (s *MemoryStore) ListApprovals(_ context.Context, filter ApprovalFilter) ([]Approval, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := sortedDesc(s.approvals, func(a Approval) int64 { return a.ID })
	matched := make([]Approval, 0, len(all))
	for _, a := range all {
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		matched = append(matched, copyApproval(a))
	}
	return window(matched, 0, filter.Limit), nil
}

func (s *MemoryStore) ResolveApproval(_ context.Context, params ResolveApprovalParams) (Approval, error) {
	if err := checkResolution(params.Status); err != nil {
		return Approval{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.approvals[params.ID]
	if !ok {
		return Approval{}, apperr.NotFound(approvalNotFoundMsg)
	}
	if a.Status != domain.ApprovalPending {
		return Approval{}, apperr.Conflict(approvalResolvedMsg)
	}
	now := s.now()
	a.Status = params.Status
	a.ApprovedBy = ptr(params.ResolvedBy)
	a.ApprovedAt = &now
	a.Data = mergeJSON(a.Data, cloneJSON(params.ExtraData))
	s.approvals[a.ID] = a
	return copyApproval(a), nil
}

func (s *MemoryStore) CountApprovals(_ context.Context, status domain.ApprovalStatus) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, a := range s.approvals {
		if a.Status == status {
			n++
		}
	}
	return n, nil
}

// =============================================================================
// Activities
// =============================================================================

func (s *MemoryStore) CreateActivity(_ context.Context, params CreateActivityParams) (Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activitySeq++
	a := Activity{
		ID:        s.activitySeq,
		Action:    params.Action,
		Target:    params.Target,
		Domain:    params.Domain,
		UserID:    params.UserID,
		Metadata:  cloneJSON(params.Metadata),
		CreatedAt: s.now(),
	}
	s.activities = append(s.activities, a)
	a.Metadata = cloneJSON(a.Metadata)
	return a, nil
}

func (s *MemoryStore) ListActivities(_ context.Context, limit int) ([]Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Activity, 0, len(s.activities))
	for i := len(s.activities) - 1; i >= 0; i-- {
		a := s.activities[i]
		a.Metadata = cloneJSON(a.Metadata)
		out = append(out, a)
	}
	return window(out, 0, limit), nil
}

// =============================================================================
// Campaigns
// =============================================================================

func copyOutreach(c OutreachCampaign) OutreachCampaign {
	c.LeadIDs = append([]int64(nil), c.LeadIDs...)
	c.Results = cloneJSON(c.Results)
	return c
}

func (s *MemoryStore) CreateOutreachCampaign(_ context.Context, params CreateOutreachCampaignParams) (OutreachCampaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.outreachSeq++
	c := OutreachCampaign{
		ID:        s.outreachSeq,
		Name:      params.Name,
		LeadIDs:   append([]int64(nil), params.LeadIDs...),
		Message:   params.Message,
		Status:    OutreachDraft,
		CreatedAt: s.now(),
	}
	s.outreach[c.ID] = c
	return copyOutreach(c), nil
}

func (s *MemoryStore) GetOutreachCampaign(_ context.Context, id int64) (OutreachCampaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.outreach[id]
	if !ok {
		return OutreachCampaign{}, apperr.NotFound(campaignNotFoundMsg)
	}
	return copyOutreach(c), nil
}

func (s *MemoryStore) ListOutreachCampaigns(context.Context) ([]OutreachCampaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := sortedDesc(s.outreach, func(c OutreachCampaign) int64 { return c.ID })
	for i := range all {
		all[i] = copyOutreach(all[i])
	}
	return all, nil
}

func (s *MemoryStore) CompleteOutreachCampaign(_ context.Context, id int64, results JSON) (OutreachCampaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.outreach[id]
	if !ok {
		return OutreachCampaign{}, apperr.NotFound(campaignNotFoundMsg)
	}
	if c.Status == OutreachCompleted {
		return OutreachCampaign{}, apperr.Conflict(campaignCompletedMsg)
	}
	c.Status = OutreachCompleted
	if c.SentAt == nil {
		c.SentAt = ptr(s.now())
	}
	c.Results = cloneJSON(results)
	s.outreach[id] = c
	return copyOutreach(c), nil
}

func copyMarketing(c MarketingCampaign) MarketingCampaign {
	c.Metrics = cloneJSON(c.Metrics)
	c.TargetAudience = cloneJSON(c.TargetAudience)
	return c
}

func (s *MemoryStore) CreateMarketingCampaign(_ context.Context, params CreateMarketingCampaignParams) (MarketingCampaign, error) {
	status := params.Status
	if status == "" {
		status = MarketingDraft
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.marketingSeq++
	now := s.now()
	c := MarketingCampaign{
		ID:             s.marketingSeq,
		Name:           params.Name,
		Type:           params.Type,
		Status:         status,
		Budget:         params.Budget,
		TargetAudience: cloneJSON(params.TargetAudience),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.marketing[c.ID] = c
	return copyMarketing(c), nil
}

func (s *MemoryStore) GetMarketingCampaign(_ context.Context, id int64) (MarketingCampaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.marketing[id]
	if !ok {
		return MarketingCampaign{}, apperr.NotFound(campaignNotFoundMsg)
	}
	return copyMarketing(c), nil
}

func (s *MemoryStore) ListMarketingCampaigns(context.Context) ([]MarketingCampaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := sortedDesc(s.marketing, func(c MarketingCampaign) int64 { return c.ID })
	for i := range all {
		all[i] = copyMarketing(all[i])
	}
	return all, nil
}

func (s *MemoryStore) SetMarketingSpend(_ context.Context, id int64, spent float64) (SpendUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.marketing[id]
	if !ok {
		return SpendUpdate{}, apperr.NotFound(campaignNotFoundMsg)
	}
	previous := c.Spent
	c.Spent = spent
	c.UpdatedAt = s.now()
	s.marketing[id] = c
	return SpendUpdate{Previous: previous, Campaign: copyMarketing(c)}, nil
}

// =============================================================================
// Sites
// =============================================================================

func copySite(site GeneratedSite) GeneratedSite {
	site.Content = cloneJSON(site.Content)
	return site
}

func (s *MemoryStore) CreateSite(_ context.Context, params CreateSiteParams) (GeneratedSite, error) {
	status := params.Status
	if status == "" {
		status = SiteDraft
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.siteSeq++
	now := s.now()
	site := GeneratedSite{
		ID:        s.siteSeq,
		Name:      params.Name,
		Industry:  params.Industry,
		Template:  params.Template,
		Content:   cloneJSON(params.Content),
		Domain:    params.Domain,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sites[site.ID] = site
	return copySite(site), nil
}

func (s *MemoryStore) GetSite(_ context.Context, id int64) (GeneratedSite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	site, ok := s.sites[id]
	if !ok {
		return GeneratedSite{}, apperr.NotFound(siteNotFoundMsg)
	}
	return copySite(site), nil
}

func (s *MemoryStore) ListSites(context.Context) ([]GeneratedSite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := sortedDesc(s.sites, func(site GeneratedSite) int64 { return site.ID })
	for i := range all {
		all[i] = copySite(all[i])
	}
	return all, nil
}

func (s *MemoryStore) UpdateSite(_ context.Context, id int64, params UpdateSiteParams) (GeneratedSite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	site, ok := s.sites[id]
	if !ok {
		return GeneratedSite{}, apperr.NotFound(siteNotFoundMsg)
	}
	if params.Status != nil {
		site.Status = *params.Status
	}
	if params.ContentURL != nil {
		site.ContentURL = ptr(*params.ContentURL)
	}
	site.UpdatedAt = s.now()
	s.sites[id] = site
	return copySite(site), nil
}
