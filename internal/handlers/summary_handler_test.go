package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"debtwise/internal/ledger"
	"debtwise/internal/models"
	"debtwise/internal/services"
)

type mockSummaryService struct {
	getMonthlySummaryFn func(userID string, period ledger.Period) (*ledger.PeriodSummary, error)
	getDashboardFn      func(userID string, period ledger.Period) (*services.Dashboard, error)
}

func (m *mockSummaryService) GetMonthlySummary(userID string, period ledger.Period) (*ledger.PeriodSummary, error) {
	if m.getMonthlySummaryFn != nil {
		return m.getMonthlySummaryFn(userID, period)
	}
	summary := ledger.Summarize(nil, period)
	return &summary, nil
}

func (m *mockSummaryService) GetDashboard(userID string, period ledger.Period) (*services.Dashboard, error) {
	if m.getDashboardFn != nil {
		return m.getDashboardFn(userID, period)
	}
	return &services.Dashboard{Summary: ledger.Summarize(nil, period)}, nil
}

var _ services.SummaryServicer = (*mockSummaryService)(nil)

func setupSummaryRouter(handler *SummaryHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.GET("/summary", handler.GetMonthlySummary)
	auth.GET("/dashboard", handler.GetDashboard)
	return r
}

func TestSummaryHandler_GetMonthlySummary(t *testing.T) {
	t.Run("renders totals and chart data", func(t *testing.T) {
		summarySvc := &mockSummaryService{
			getMonthlySummaryFn: func(_ string, period ledger.Period) (*ledger.PeriodSummary, error) {
				return &ledger.PeriodSummary{
					Period:       period,
					TotalIncome:  decimal.NewFromInt(3000),
					TotalExpense: decimal.RequireFromString("1260"),
					NetBalance:   decimal.RequireFromString("1740"),
					ExpenseByCategory: []ledger.CategoryTotal{
						{Category: "food", Amount: decimal.NewFromInt(60)},
						{Category: "rent", Amount: decimal.NewFromInt(1200)},
					},
				}, nil
			},
		}
		r := setupSummaryRouter(NewSummaryHandler(summarySvc))

		rec := doRequest(r, "GET", "/summary?year=2024&month=2", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		summary := parseJSON(t, rec)["summary"].(map[string]interface{})
		if summary["net_balance"] != "1740" {
			t.Errorf("unexpected net balance %v", summary["net_balance"])
		}
		if summary["month"].(float64) != 2 {
			t.Errorf("unexpected month %v", summary["month"])
		}
		chart := summary["expense_by_category"].(map[string]interface{})
		labels := chart["labels"].([]interface{})
		if len(labels) != 2 || labels[0] != "food" {
			t.Errorf("unexpected labels %v", labels)
		}
	})

	t.Run("defaults to the current month", func(t *testing.T) {
		var got ledger.Period
		summarySvc := &mockSummaryService{
			getMonthlySummaryFn: func(_ string, period ledger.Period) (*ledger.PeriodSummary, error) {
				got = period
				summary := ledger.Summarize(nil, period)
				return &summary, nil
			},
		}
		r := setupSummaryRouter(NewSummaryHandler(summarySvc))

		rec := doRequest(r, "GET", "/summary", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if want := ledger.PeriodOf(time.Now()); got != want {
			t.Errorf("expected %+v, got %+v", want, got)
		}
	})

	for _, q := range []string{"month=0", "month=13", "year=abc"} {
		t.Run("returns 400 on "+q, func(t *testing.T) {
			r := setupSummaryRouter(NewSummaryHandler(&mockSummaryService{}))

			rec := doRequest(r, "GET", "/summary?"+q, "")

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}
}

func TestSummaryHandler_GetDashboard(t *testing.T) {
	summarySvc := &mockSummaryService{
		getDashboardFn: func(_ string, period ledger.Period) (*services.Dashboard, error) {
			return &services.Dashboard{
				Summary:            ledger.Summarize(nil, period),
				RecentTransactions: []models.Transaction{{Description: "coffee"}},
				Debts:              []models.Debt{{Name: "Visa"}},
				Categories: map[models.CategoryType][]string{
					models.CategoryTypeIncome:  {"salary"},
					models.CategoryTypeExpense: {"food"},
				},
				Years: []int{2023, 2024, 2025},
			}, nil
		},
	}
	r := setupSummaryRouter(NewSummaryHandler(summarySvc))

	rec := doRequest(r, "GET", "/dashboard?year=2024&month=6", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	for _, key := range []string{"summary", "recent_transactions", "debts", "categories", "years"} {
		if _, ok := result[key]; !ok {
			t.Errorf("expected %q in dashboard", key)
		}
	}
	categories := result["categories"].(map[string]interface{})
	if _, ok := categories["expense"]; !ok {
		t.Errorf("expected expense key in categories, got %v", categories)
	}
}
