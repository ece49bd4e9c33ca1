package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/identity"
	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	applyFn          func(ctx context.Context, actor identity.Actor, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error)
	approveFn        func(ctx context.Context, actorID, id, managerComment string) (leave.LeaveResponse, error)
	rejectFn         func(ctx context.Context, actorID, id, managerComment string) (leave.LeaveResponse, error)
	cancelFn         func(ctx context.Context, actorID, id string) (leave.LeaveResponse, error)
	getByIDFn        func(ctx context.Context, id string) (leave.LeaveResponse, error)
	listByEmployeeFn func(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error)
	listByStatusFn   func(ctx context.Context, status string) ([]leave.LeaveResponse, error)
}

func (f *fakeLeaveService) Apply(ctx context.Context, actor identity.Actor, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
	return f.applyFn(ctx, actor, req)
}
func (f *fakeLeaveService) Approve(ctx context.Context, actorID, id, managerComment string) (leave.LeaveResponse, error) {
	return f.approveFn(ctx, actorID, id, managerComment)
}
func (f *fakeLeaveService) Reject(ctx context.Context, actorID, id, managerComment string) (leave.LeaveResponse, error) {
	return f.rejectFn(ctx, actorID, id, managerComment)
}
func (f *fakeLeaveService) Cancel(ctx context.Context, actorID, id string) (leave.LeaveResponse, error) {
	return f.cancelFn(ctx, actorID, id)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, id string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeLeaveService) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error) {
	return f.listByEmployeeFn(ctx, employeeID)
}
func (f *fakeLeaveService) ListByStatus(ctx context.Context, status string) ([]leave.LeaveResponse, error) {
	return f.listByStatusFn(ctx, status)
}

func authedContext(t *testing.T, w *httptest.ResponseRecorder, employeeID string) *gin.Context {
	t.Helper()
	c, _ := gin.CreateTestContext(w)
	c.Set("employee_id", employeeID)
	c.Set("email", "dev@corp.test")
	c.Set("company_email_verified", true)
	return c
}

func TestLeaveHandler_Apply(t *testing.T) {
	t.Run("success returns created envelope", func(t *testing.T) {
		actorID := uuid.New().String()

		svc := &fakeLeaveService{
			applyFn: func(ctx context.Context, actor identity.Actor, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, actorID, actor.EmployeeID)
				assert.Equal(t, "dev@corp.test", actor.Email)
				assert.True(t, actor.IsCompanyEmail)
				assert.Equal(t, "ANNUAL", req.LeaveType)
				return leave.LeaveResponse{
					ID:         uuid.New().String(),
					EmployeeID: actor.EmployeeID,
					LeaveType:  req.LeaveType,
					StartDate:  req.StartDate,
					EndDate:    req.EndDate,
					TotalDays:  "3",
					Reason:     req.Reason,
					Status:     leave.StatusPending,
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c := authedContext(t, w, actorID)
		body := `{"leave_type":"ANNUAL","start_date":"2024-01-10","end_date":"2024-01-12","reason":"family trip"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Apply(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)

		var got leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, actorID, got.EmployeeID)
		assert.Equal(t, "3", got.TotalDays)
		assert.Equal(t, leave.StatusPending, got.Status)
	})

	t.Run("negative validation error", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c := authedContext(t, w, uuid.New().String())
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Apply(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("negative unknown leave type rejected by binding", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c := authedContext(t, w, uuid.New().String())
		body := `{"leave_type":"SABBATICAL","start_date":"2024-01-10","end_date":"2024-01-12","reason":"x"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Apply(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative insufficient balance surfaces as 422", func(t *testing.T) {
		svc := &fakeLeaveService{
			applyFn: func(ctx context.Context, actor identity.Actor, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, insufficientAnnual()
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c := authedContext(t, w, uuid.New().String())
		body := `{"leave_type":"ANNUAL","start_date":"2024-01-10","end_date":"2024-01-12","reason":"family trip"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Apply(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INSUFFICIENT_BALANCE", env.Error.Code)
	})
}

func TestLeaveHandler_Decide(t *testing.T) {
	t.Run("approved decision routes to approve", func(t *testing.T) {
		id := uuid.New().String()
		actorID := uuid.New().String()

		approveCalled := false
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, aid, lid, comment string) (leave.LeaveResponse, error) {
				approveCalled = true
				assert.Equal(t, actorID, aid)
				assert.Equal(t, id, lid)
				assert.Equal(t, "enjoy", comment)
				return leave.LeaveResponse{ID: lid, Status: leave.StatusApproved}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c := authedContext(t, w, actorID)
		c.Params = gin.Params{{Key: "id", Value: id}}
		body := `{"decision":"APPROVED","comment":"enjoy"}`
		c.Request = httptest.NewRequest(http.MethodPut, "/leaves/"+id+"/decision", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Decide(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, approveCalled)
	})

	t.Run("rejected decision routes to reject", func(t *testing.T) {
		id := uuid.New().String()

		rejectCalled := false
		svc := &fakeLeaveService{
			rejectFn: func(ctx context.Context, aid, lid, comment string) (leave.LeaveResponse, error) {
				rejectCalled = true
				return leave.LeaveResponse{ID: lid, Status: leave.StatusRejected}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c := authedContext(t, w, uuid.New().String())
		c.Params = gin.Params{{Key: "id", Value: id}}
		body := `{"decision":"REJECTED","comment":"headcount freeze"}`
		c.Request = httptest.NewRequest(http.MethodPut, "/leaves/"+id+"/decision", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Decide(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, rejectCalled)
	})

	t.Run("negative unknown decision rejected by binding", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c := authedContext(t, w, uuid.New().String())
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
		c.Request = httptest.NewRequest(http.MethodPut, "/leaves/x/decision", strings.NewReader(`{"decision":"MAYBE"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Decide(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative already decided maps to conflict", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, aid, lid, comment string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.InvalidTransition("approve", leave.StatusRejected)
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c := authedContext(t, w, uuid.New().String())
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
		c.Request = httptest.NewRequest(http.MethodPut, "/leaves/x/decision", strings.NewReader(`{"decision":"APPROVED"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Decide(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
	})
}

func TestLeaveHandler_Cancel(t *testing.T) {
	t.Run("owner cancel", func(t *testing.T) {
		id := uuid.New().String()
		actorID := uuid.New().String()

		svc := &fakeLeaveService{
			cancelFn: func(ctx context.Context, aid, lid string) (leave.LeaveResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, id, lid)
				return leave.LeaveResponse{ID: lid, Status: leave.StatusCancelled}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c := authedContext(t, w, actorID)
		c.Params = gin.Params{{Key: "id", Value: id}}
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+id+"/cancel", nil)

		h.Cancel(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative foreign request is forbidden", func(t *testing.T) {
		svc := &fakeLeaveService{
			cancelFn: func(ctx context.Context, aid, lid string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrNotRequestOwner
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c := authedContext(t, w, uuid.New().String())
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/x/cancel", nil)

		h.Cancel(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})
}

func TestLeaveHandler_Reads(t *testing.T) {
	t.Run("get by id not found", func(t *testing.T) {
		svc := &fakeLeaveService{
			getByIDFn: func(ctx context.Context, id string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrLeaveNotFound
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c := authedContext(t, w, uuid.New().String())
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves/x", nil)

		h.GetById(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("review defaults to the pending queue", func(t *testing.T) {
		var askedStatus string
		svc := &fakeLeaveService{
			listByStatusFn: func(ctx context.Context, status string) ([]leave.LeaveResponse, error) {
				askedStatus = status
				return []leave.LeaveResponse{{ID: uuid.New().String(), Status: status}}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c := authedContext(t, w, uuid.New().String())
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves/review", nil)

		h.Review(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, leave.StatusPending, askedStatus)
	})

	t.Run("review rejects unknown status filter", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c := authedContext(t, w, uuid.New().String())
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves/review?status=DRAFT", nil)

		h.Review(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get all paginates the employee's requests", func(t *testing.T) {
		actorID := uuid.New().String()
		rows := make([]leave.LeaveResponse, 15)
		for i := range rows {
			rows[i] = leave.LeaveResponse{ID: uuid.New().String(), EmployeeID: actorID}
		}

		svc := &fakeLeaveService{
			listByEmployeeFn: func(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error) {
				assert.Equal(t, actorID, employeeID)
				return rows, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c := authedContext(t, w, actorID)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves?page=2&page_size=10", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var got []leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got, 5)
	})
}

func insufficientAnnual() error {
	return balanceerrors.Insufficient("ANNUAL", decimal.NewFromInt(2), decimal.NewFromInt(3))
}
