package balance_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-leave/internal/balance"
	balanceerrors "go-leave/internal/balance/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeBalanceService struct {
	getFn func(ctx context.Context, employeeID string) (balance.BalanceResponse, error)
}

func (f *fakeBalanceService) Get(ctx context.Context, employeeID string) (balance.BalanceResponse, error) {
	return f.getFn(ctx, employeeID)
}

func TestBalanceHandler_Get(t *testing.T) {
	t.Run("returns the caller's ledger", func(t *testing.T) {
		employeeID := uuid.New().String()

		svc := &fakeBalanceService{
			getFn: func(ctx context.Context, id string) (balance.BalanceResponse, error) {
				assert.Equal(t, employeeID, id)
				return balance.BalanceResponse{
					EmployeeID: id,
					Annual:     "17",
					Sick:       "10",
					Casual:     "14",
				}, nil
			},
		}

		h := balance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("employee_id", employeeID)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves/balance", nil)

		h.Get(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var env struct {
			Ok   bool                    `json:"ok"`
			Data balance.BalanceResponse `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.True(t, env.Ok)
		assert.Equal(t, "17", env.Data.Annual)
	})

	t.Run("negative missing identity", func(t *testing.T) {
		h := balance.NewHandler(&fakeBalanceService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves/balance", nil)

		h.Get(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("negative service error mapped to its status", func(t *testing.T) {
		svc := &fakeBalanceService{
			getFn: func(ctx context.Context, id string) (balance.BalanceResponse, error) {
				return balance.BalanceResponse{}, balanceerrors.ErrInvalidEmployeeID
			},
		}

		h := balance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("employee_id", "nope")
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves/balance", nil)

		h.Get(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
