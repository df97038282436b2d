package approvals

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heyjarvis_backend/internal/domain"
	"heyjarvis_backend/internal/events"
	apphttp "heyjarvis_backend/internal/http"
	"heyjarvis_backend/internal/notification"
	"heyjarvis_backend/internal/repository"
	"heyjarvis_backend/platform/logger"
	"heyjarvis_backend/platform/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingSink struct{ events []notification.Event }

func (r *recordingSink) Notify(_ context.Context, e notification.Event) {
	r.events = append(r.events, e)
}

type env struct {
	engine   *gin.Engine
	store    *repository.MemoryStore
	sink     *recordingSink
	resolved []events.ApprovalResolved
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{store: repository.NewMemoryStore(), sink: &recordingSink{}}
	bus := events.NewInMemoryBus(logger.Nop())
	bus.Subscribe(events.ApprovalResolved{}.EventName(), events.HandlerFunc(func(_ context.Context, ev events.Event) error {
		e.resolved = append(e.resolved, ev.(events.ApprovalResolved))
		return nil
	}))

	m := NewModule(e.store, bus, e.sink, validator.New(), logger.Nop())
	e.engine = gin.New()
	m.RegisterRoutes(&apphttp.RouterContext{Engine: e.engine, V1: e.engine.Group("/api/v1")})
	return e
}

func (e *env) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	return rec
}

func (e *env) seedApproval(t *testing.T, approvalType string) repository.Approval {
	t.Helper()
	a, err := e.store.CreateApproval(context.Background(), repository.CreateApprovalParams{
		Title:       "High-Value Lead Outreach",
		Type:        approvalType,
		Priority:    domain.PriorityHigh,
		RequestedBy: domain.SystemActor,
		Data:        repository.JSON{"leadIds": []any{float64(1), float64(2)}},
	})
	require.NoError(t, err)
	return a
}

func TestApprovePublishesResolution(t *testing.T) {
	e := newEnv(t)
	a := e.seedApproval(t, domain.ApprovalTypeOutreachCampaign)

	rec := e.do(http.MethodPost, "/api/v1/approvals/1/approve", `{"approvedBy":"dana"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got repository.Approval
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, domain.ApprovalApproved, got.Status)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, "dana", *got.ApprovedBy)
	assert.NotNil(t, got.ApprovedAt)

	require.Len(t, e.resolved, 1)
	assert.Equal(t, a.ID, e.resolved[0].ApprovalID)
	assert.Equal(t, domain.ApprovalTypeOutreachCampaign, e.resolved[0].Type)
	assert.Equal(t, "approved", e.resolved[0].Status)

	require.Len(t, e.sink.events, 1)
	assert.Equal(t, notification.TypeApprovalUpdated, e.sink.events[0].Type)
}

func TestSecondResolutionConflicts(t *testing.T) {
	e := newEnv(t)
	e.seedApproval(t, domain.ApprovalTypeBudgetIncrease)

	require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/api/v1/approvals/1/approve", `{"approvedBy":"dana"}`).Code)
	rec := e.do(http.MethodPost, "/api/v1/approvals/1/reject", `{"rejectedBy":"lee"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Len(t, e.resolved, 1)
}

func TestRejectMergesReason(t *testing.T) {
	e := newEnv(t)
	e.seedApproval(t, domain.ApprovalTypeOutreachCampaign)

	rec := e.do(http.MethodPost, "/api/v1/approvals/1/reject", `{"rejectedBy":"lee","reason":"not now"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := e.store.GetApproval(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalRejected, stored.Status)
	assert.Equal(t, "not now", stored.Data["rejectionReason"])
	assert.Len(t, stored.Data["leadIds"], 2)
}

func TestResolveValidation(t *testing.T) {
	e := newEnv(t)
	e.seedApproval(t, domain.ApprovalTypeOutreachCampaign)

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/api/v1/approvals/1/approve", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/api/v1/approvals/1/approve", `not json`).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodPost, "/api/v1/approvals/42/approve", `{"approvedBy":"dana"}`).Code)
	assert.Empty(t, e.resolved)
}

func TestPendingListsOnlyPending(t *testing.T) {
	e := newEnv(t)
	e.seedApproval(t, domain.ApprovalTypeOutreachCampaign)
	e.seedApproval(t, domain.ApprovalTypeOutreachSend)
	require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/api/v1/approvals/1/approve", `{"approvedBy":"dana"}`).Code)

	rec := e.do(http.MethodGet, "/api/v1/approvals/pending", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var pending []repository.Approval
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, int64(2), pending[0].ID)

	rec = e.do(http.MethodGet, "/api/v1/approvals?status=approved", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var approved []repository.Approval
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &approved))
	require.Len(t, approved, 1)
	assert.Equal(t, int64(1), approved[0].ID)
}
