package repository

import (
	"context"
	"errors"
	"fmt"

	"heyjarvis_backend/internal/domain"
	"heyjarvis_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store with PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store over an open pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Compile-time check that PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)

func (r *PostgresStore) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// jsonArg maps a nil payload to SQL NULL instead of the JSON literal null.
func jsonArg(m JSON) any {
	if m == nil {
		return nil
	}
	return m
}

func notFound(err error, msg, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(msg)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// =============================================================================
// Leads
// =============================================================================

const leadColumns = `id, source, name, company, title, email, profile_url, recent_activity, score, status, raw_data, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	var source, status string
	err := row.Scan(
		&l.ID, &source, &l.Name, &l.Company, &l.Title, &l.Email, &l.ProfileURL, &l.RecentActivity,
		&l.Score, &status, &l.RawData, &l.CreatedAt, &l.UpdatedAt,
	)
	l.Source = domain.LeadSource(source)
	l.Status = domain.LeadStatus(status)
	return l, err
}

func collectLeads(rows pgx.Rows) ([]Lead, error) {
	defer rows.Close()
	out := make([]Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PostgresStore) CreateLead(ctx context.Context, params CreateLeadParams) (Lead, error) {
	if err := checkScore(params.Score); err != nil {
		return Lead{}, err
	}
	status := params.Status
	if status == "" {
		status = domain.LeadStatusPending
	}

	query := `
		INSERT INTO leads (source, name, company, title, email, profile_url, recent_activity, score, status, raw_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + leadColumns

	lead, err := scanLead(r.pool.QueryRow(ctx, query,
		string(params.Source), params.Name, params.Company, params.Title, params.Email, params.ProfileURL,
		params.RecentActivity, params.Score, string(status), jsonArg(params.RawData),
	))
	if err != nil {
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}
	return lead, nil
}

func (r *PostgresStore) GetLead(ctx context.Context, id int64) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if err != nil {
		return Lead{}, notFound(err, leadNotFoundMsg, "get lead")
	}
	return lead, nil
}

func (r *PostgresStore) ListLeads(ctx context.Context, filter LeadFilter) ([]Lead, error) {
	var status *string
	if filter.Status != nil {
		status = ptr(string(*filter.Status))
	}
	var limit *int
	if filter.Limit > 0 {
		limit = &filter.Limit
	}

	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, status, limit, max(filter.Offset, 0))
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return collectLeads(rows)
}

func (r *PostgresStore) UpdateLead(ctx context.Context, id int64, params UpdateLeadParams) (Lead, error) {
	if err := checkScore(params.Score); err != nil {
		return Lead{}, err
	}
	var status *string
	if params.Status != nil {
		status = ptr(string(*params.Status))
	}

	query := `
		UPDATE leads SET
			name = COALESCE($2, name),
			company = COALESCE($3, company),
			title = COALESCE($4, title),
			email = COALESCE($5, email),
			profile_url = COALESCE($6, profile_url),
			recent_activity = COALESCE($7, recent_activity),
			score = COALESCE($8, score),
			status = COALESCE($9, status),
			raw_data = COALESCE($10, raw_data),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + leadColumns

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id,
		params.Name, params.Company, params.Title, params.Email, params.ProfileURL, params.RecentActivity,
		params.Score, status, jsonArg(params.RawData),
	))
	if err != nil {
		return Lead{}, notFound(err, leadNotFoundMsg, "update lead")
	}
	return lead, nil
}

func (r *PostgresStore) DeleteLead(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(leadNotFoundMsg)
	}
	return nil
}

func (r *PostgresStore) CountLeadsByStatus(ctx context.Context) (map[domain.LeadStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM leads GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count leads: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.LeadStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan lead count: %w", err)
		}
		counts[domain.LeadStatus(status)] = n
	}
	return counts, rows.Err()
}

func (r *PostgresStore) LeadScores(ctx context.Context) ([]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT score FROM leads WHERE score IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("list lead scores: %w", err)
	}
	scores, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("scan lead scores: %w", err)
	}
	return scores, nil
}

// =============================================================================
// Workflows
// =============================================================================

const workflowColumns = `id, name, description, domain, type, status, config, progress, total_steps, results, scheduled_task_id, created_at, updated_at`

func scanWorkflow(row pgx.Row) (Workflow, error) {
	var w Workflow
	var dom, status string
	err := row.Scan(
		&w.ID, &w.Name, &w.Description, &dom, &w.Type, &status, &w.Config, &w.Progress,
		&w.TotalSteps, &w.Results, &w.ScheduledTaskID, &w.CreatedAt, &w.UpdatedAt,
	)
	w.Domain = domain.Domain(dom)
	w.Status = domain.WorkflowStatus(status)
	return w, err
}

func (r *PostgresStore) CreateWorkflow(ctx context.Context, params CreateWorkflowParams) (Workflow, error) {
	status := params.Status
	if status == "" {
		status = domain.WorkflowPending
	}
	totalSteps := max(params.TotalSteps, 1)

	query := `
		INSERT INTO workflows (name, description, domain, type, status, config, progress, total_steps)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + workflowColumns

	wf, err := scanWorkflow(r.pool.QueryRow(ctx, query,
		params.Name, params.Description, string(params.Domain), params.Type, string(status),
		jsonArg(params.Config), clampProgress(params.Progress), totalSteps,
	))
	if err != nil {
		return Workflow{}, fmt.Errorf("create workflow: %w", err)
	}
	return wf, nil
}

func (r *PostgresStore) GetWorkflow(ctx context.Context, id int64) (Workflow, error) {
	wf, err := scanWorkflow(r.pool.QueryRow(ctx, `SELECT `+workflowColumns+` FROM workflows WHERE id = $1`, id))
	if err != nil {
		return Workflow{}, notFound(err, workflowNotFoundMsg, "get workflow")
	}
	return wf, nil
}

func (r *PostgresStore) ListWorkflows(ctx context.Context, filter WorkflowFilter) ([]Workflow, error) {
	var status *string
	if filter.Status != nil {
		status = ptr(string(*filter.Status))
	}
	var limit *int
	if filter.Limit > 0 {
		limit = &filter.Limit
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+workflowColumns+`
		FROM workflows
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, status, limit)
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	defer rows.Close()

	out := make([]Workflow, 0)
	for rows.Next() {
		wf, err := scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workflow: %w", err)
		}
		out = append(out, wf)
	}
	return out, rows.Err()
}

// UpdateWorkflow locks the row so the transition check and the write see the
// same status.
func (r *PostgresStore) UpdateWorkflow(ctx context.Context, id int64, params UpdateWorkflowParams) (Workflow, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Workflow{}, fmt.Errorf("begin workflow update: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current string
	var scheduledTaskID *string
	if err := tx.QueryRow(ctx, `SELECT status, scheduled_task_id FROM workflows WHERE id = $1 FOR UPDATE`, id).Scan(&current, &scheduledTaskID); err != nil {
		return Workflow{}, notFound(err, workflowNotFoundMsg, "lock workflow")
	}
	if err := checkWorkflowTransition(domain.WorkflowStatus(current), params.Status); err != nil {
		return Workflow{}, err
	}
	if err := checkScheduledPause(scheduledTaskID, params.Status); err != nil {
		return Workflow{}, err
	}

	var status *string
	if params.Status != nil {
		status = ptr(string(*params.Status))
	}
	var progress *int
	if params.Progress != nil {
		progress = ptr(clampProgress(*params.Progress))
	}

	query := `
		UPDATE workflows SET
			status = COALESCE($2, status),
			progress = COALESCE($3, progress),
			results = COALESCE($4, results),
			scheduled_task_id = CASE WHEN $6 THEN NULL ELSE COALESCE($5, scheduled_task_id) END,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + workflowColumns

	wf, err := scanWorkflow(tx.QueryRow(ctx, query, id, status, progress, jsonArg(params.Results),
		params.ScheduledTaskID, params.ClearScheduledTask))
	if err != nil {
		return Workflow{}, fmt.Errorf("update workflow: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Workflow{}, fmt.Errorf("commit workflow update: %w", err)
	}
	return wf, nil
}

func (r *PostgresStore) CountWorkflows(ctx context.Context, status domain.WorkflowStatus) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM workflows WHERE status = $1`, string(status)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count workflows: %w", err)
	}
	return n, nil
}

// =============================================================================
// Approvals
// =============================================================================

const approvalColumns = `id, title, description, type, priority, status, requested_by, workflow_id, data, approved_by, approved_at, created_at`

func scanApproval(row pgx.Row) (Approval, error) {
	var a Approval
	var priority, status string
	err := row.Scan(
		&a.ID, &a.Title, &a.Description, &a.Type, &priority, &status, &a.RequestedBy,
		&a.WorkflowID, &a.Data, &a.ApprovedBy, &a.ApprovedAt, &a.CreatedAt,
	)
	a.Priority = domain.Priority(priority)
	a.Status = domain.ApprovalStatus(status)
	return a, err
}

func (r *PostgresStore) CreateApproval(ctx context.Context, params CreateApprovalParams) (Approval, error) {
	priority := params.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	query := `
		INSERT INTO approvals (title, description, type, priority, status, requested_by, workflow_id, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + approvalColumns

	a, err := scanApproval(r.pool.QueryRow(ctx, query,
		params.Title, params.Description, params.Type, string(priority), string(domain.ApprovalPending),
		params.RequestedBy, params.WorkflowID, jsonArg(params.Data),
	))
	if err != nil {
		return Approval{}, fmt.Errorf("create approval: %w", err)
	}
	return a, nil
}

func (r *PostgresStore) GetApproval(ctx context.Context, id int64) (Approval, error) {
	a, err := scanApproval(r.pool.QueryRow(ctx, `SELECT `+approvalColumns+` FROM approvals WHERE id = $1`, id))
	if err != nil {
		return Approval{}, notFound(err, approvalNotFoundMsg, "get approval")
	}
	return a, nil
}

func (r *PostgresStore) ListApprovals(ctx context.Context, filter ApprovalFilter) ([]Approval, error) {
	var status *string
	if filter.Status != nil {
		status = ptr(string(*filter.Status))
	}
	var limit *int
	if filter.Limit > 0 {
		limit = &filter.Limit
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+approvalColumns+`
		FROM approvals
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, status, limit)
	if err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	defer rows.Close()

	out := make([]Approval, 0)
	for rows.Next() {
		a, err := scanApproval(rows)
		if err != nil {
			return nil, fmt.Errorf("scan approval: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ResolveApproval only updates rows that are still pending, so concurrent
// resolutions cannot both succeed.
func (r *PostgresStore) ResolveApproval(ctx context.Context, params ResolveApprovalParams) (Approval, error) {
	if err := checkResolution(params.Status); err != nil {
		return Approval{}, err
	}

	query := `
		UPDATE approvals SET
			status = $2,
			approved_by = $3,
			approved_at = now(),
			data = COALESCE(data, '{}'::jsonb) || COALESCE($4::jsonb, '{}'::jsonb)
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + approvalColumns

	a, err := scanApproval(r.pool.QueryRow(ctx, query, params.ID, string(params.Status), params.ResolvedBy, jsonArg(params.ExtraData)))
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Approval{}, fmt.Errorf("resolve approval: %w", err)
	}
	if _, getErr := r.GetApproval(ctx, params.ID); getErr != nil {
		return Approval{}, getErr
	}
	return Approval{}, apperr.Conflict(approvalResolvedMsg)
}

func (r *PostgresStore) CountApprovals(ctx context.Context, status domain.ApprovalStatus) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM approvals WHERE status = $1`, string(status)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count approvals: %w", err)
	}
	return n, nil
}

// =============================================================================
// Activities
// =============================================================================

func (r *PostgresStore) CreateActivity(ctx context.Context, params CreateActivityParams) (Activity, error) {
	var a Activity
	var dom string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO activities (action, target, domain, user_id, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, action, target, domain, user_id, metadata, created_at`,
		params.Action, params.Target, string(params.Domain), params.UserID, jsonArg(params.Metadata),
	).Scan(&a.ID, &a.Action, &a.Target, &dom, &a.UserID, &a.Metadata, &a.CreatedAt)
	if err != nil {
		return Activity{}, fmt.Errorf("create activity: %w", err)
	}
	a.Domain = domain.Domain(dom)
	return a, nil
}

func (r *PostgresStore) ListActivities(ctx context.Context, limit int) ([]Activity, error) {
	var lim *int
	if limit > 0 {
		lim = &limit
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, action, target, domain, user_id, metadata, created_at
		FROM activities
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, lim)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	out := make([]Activity, 0)
	for rows.Next() {
		var a Activity
		var dom string
		if err := rows.Scan(&a.ID, &a.Action, &a.Target, &dom, &a.UserID, &a.Metadata, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.Domain = domain.Domain(dom)
		out = append(out, a)
	}
	return out, rows.Err()
}

// =============================================================================
// Campaigns
// =============================================================================

const outreachColumns = `id, name, lead_ids, message, status, sent_at, results, created_at`

func scanOutreach(row pgx.Row) (OutreachCampaign, error) {
	var c OutreachCampaign
	err := row.Scan(&c.ID, &c.Name, &c.LeadIDs, &c.Message, &c.Status, &c.SentAt, &c.Results, &c.CreatedAt)
	return c, err
}

func (r *PostgresStore) CreateOutreachCampaign(ctx context.Context, params CreateOutreachCampaignParams) (OutreachCampaign, error) {
	leadIDs := params.LeadIDs
	if leadIDs == nil {
		leadIDs = []int64{}
	}
	c, err := scanOutreach(r.pool.QueryRow(ctx, `
		INSERT INTO outreach_campaigns (name, lead_ids, message, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+outreachColumns, params.Name, leadIDs, params.Message, OutreachDraft))
	if err != nil {
		return OutreachCampaign{}, fmt.Errorf("create outreach campaign: %w", err)
	}
	return c, nil
}

func (r *PostgresStore) GetOutreachCampaign(ctx context.Context, id int64) (OutreachCampaign, error) {
	c, err := scanOutreach(r.pool.QueryRow(ctx, `SELECT `+outreachColumns+` FROM outreach_campaigns WHERE id = $1`, id))
	if err != nil {
		return OutreachCampaign{}, notFound(err, campaignNotFoundMsg, "get outreach campaign")
	}
	return c, nil
}

func (r *PostgresStore) ListOutreachCampaigns(ctx context.Context) ([]OutreachCampaign, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+outreachColumns+` FROM outreach_campaigns ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list outreach campaigns: %w", err)
	}
	defer rows.Close()

	out := make([]OutreachCampaign, 0)
	for rows.Next() {
		c, err := scanOutreach(rows)
		if err != nil {
			return nil, fmt.Errorf("scan outreach campaign: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CompleteOutreachCampaign only updates campaigns that are not completed yet,
// so concurrent completions cannot both succeed.
func (r *PostgresStore) CompleteOutreachCampaign(ctx context.Context, id int64, results JSON) (OutreachCampaign, error) {
	c, err := scanOutreach(r.pool.QueryRow(ctx, `
		UPDATE outreach_campaigns SET
			status = $2,
			sent_at = COALESCE(sent_at, now()),
			results = $3
		WHERE id = $1 AND status <> $2
		RETURNING `+outreachColumns, id, OutreachCompleted, jsonArg(results)))
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return OutreachCampaign{}, fmt.Errorf("complete outreach campaign: %w", err)
	}
	if _, getErr := r.GetOutreachCampaign(ctx, id); getErr != nil {
		return OutreachCampaign{}, getErr
	}
	return OutreachCampaign{}, apperr.Conflict(campaignCompletedMsg)
}

const marketingColumns = `id, name, type, status, budget, spent, metrics, target_audience, created_at, updated_at`

func scanMarketing(row pgx.Row) (MarketingCampaign, error) {
	var c MarketingCampaign
	err := row.Scan(&c.ID, &c.Name, &c.Type, &c.Status, &c.Budget, &c.Spent, &c.Metrics, &c.TargetAudience, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *PostgresStore) CreateMarketingCampaign(ctx context.Context, params CreateMarketingCampaignParams) (MarketingCampaign, error) {
	status := params.Status
	if status == "" {
		status = MarketingDraft
	}
	c, err := scanMarketing(r.pool.QueryRow(ctx, `
		INSERT INTO marketing_campaigns (name, type, status, budget, target_audience)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+marketingColumns, params.Name, params.Type, status, params.Budget, jsonArg(params.TargetAudience)))
	if err != nil {
		return MarketingCampaign{}, fmt.Errorf("create marketing campaign: %w", err)
	}
	return c, nil
}

func (r *PostgresStore) GetMarketingCampaign(ctx context.Context, id int64) (MarketingCampaign, error) {
	c, err := scanMarketing(r.pool.QueryRow(ctx, `SELECT `+marketingColumns+` FROM marketing_campaigns WHERE id = $1`, id))
	if err != nil {
		return MarketingCampaign{}, notFound(err, campaignNotFoundMsg, "get marketing campaign")
	}
	return c, nil
}

func (r *PostgresStore) ListMarketingCampaigns(ctx context.Context) ([]MarketingCampaign, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+marketingColumns+` FROM marketing_campaigns ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list marketing campaigns: %w", err)
	}
	defer rows.Close()

	out := make([]MarketingCampaign, 0)
	for rows.Next() {
		c, err := scanMarketing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan marketing campaign: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresStore) SetMarketingSpend(ctx context.Context, id int64, spent float64) (SpendUpdate, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return SpendUpdate{}, fmt.Errorf("begin spend update: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var previous float64
	if err := tx.QueryRow(ctx, `SELECT spent FROM marketing_campaigns WHERE id = $1 FOR UPDATE`, id).Scan(&previous); err != nil {
		return SpendUpdate{}, notFound(err, campaignNotFoundMsg, "lock marketing campaign")
	}
	c, err := scanMarketing(tx.QueryRow(ctx, `
		UPDATE marketing_campaigns SET spent = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+marketingColumns, id, spent))
	if err != nil {
		return SpendUpdate{}, fmt.Errorf("update marketing spend: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return SpendUpdate{}, fmt.Errorf("commit spend update: %w", err)
	}
	return SpendUpdate{Previous: previous, Campaign: c}, nil
}

// =============================================================================
// Sites
// =============================================================================

const siteColumns = `id, name, industry, template, content, domain, status, content_url, created_at, updated_at`

func scanSite(row pgx.Row) (GeneratedSite, error) {
	var s GeneratedSite
	err := row.Scan(&s.ID, &s.Name, &s.Industry, &s.Template, &s.Content, &s.Domain, &s.Status, &s.ContentURL, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *PostgresStore) CreateSite(ctx context.Context, params CreateSiteParams) (GeneratedSite, error) {
	status := params.Status
	if status == "" {
		status = SiteDraft
	}
	site, err := scanSite(r.pool.QueryRow(ctx, `
		INSERT INTO generated_sites (name, industry, template, content, domain, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+siteColumns, params.Name, params.Industry, params.Template, jsonArg(params.Content), params.Domain, status))
	if err != nil {
		return GeneratedSite{}, fmt.Errorf("create site: %w", err)
	}
	return site, nil
}

func (r *PostgresStore) GetSite(ctx context.Context, id int64) (GeneratedSite, error) {
	site, err := scanSite(r.pool.QueryRow(ctx, `SELECT `+siteColumns+` FROM generated_sites WHERE id = $1`, id))
	if err != nil {
		return GeneratedSite{}, notFound(err, siteNotFoundMsg, "get site")
	}
	return site, nil
}

func (r *PostgresStore) ListSites(ctx context.Context) ([]GeneratedSite, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+siteColumns+` FROM generated_sites ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()

	out := make([]GeneratedSite, 0)
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		out = append(out, site)
	}
	return out, rows.Err()
}

func (r *PostgresStore) UpdateSite(ctx context.Context, id int64, params UpdateSiteParams) (GeneratedSite, error) {
	site, err := scanSite(r.pool.QueryRow(ctx, `
		UPDATE generated_sites SET
			status = COALESCE($2, status),
			content_url = COALESCE($3, content_url),
			updated_at = now()
		WHERE id = $1
		RETURNING `+siteColumns, id, params.Status, params.ContentURL))
	if err != nil {
		return GeneratedSite{}, notFound(err, siteNotFoundMsg, "update site")
	}
	return site, nil
}

