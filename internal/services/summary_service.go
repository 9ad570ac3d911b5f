package services

import (
	"time"

	"debtwise/internal/ledger"
)

// dashboardYearsBack and dashboardYearsAhead bound the year picker.
const (
	dashboardYearsBack  = 5
	dashboardYearsAhead = 1
)

// summaryService assembles period reports from the other services.
type summaryService struct {
	transactionService TransactionServicer
	debtService        DebtServicer
	categoryService    CategoryServicer
	recentLimit        int
	now                func() time.Time
}

// NewSummaryService creates a new SummaryServicer. recentLimit caps the
// dashboard's recent transaction list.
func NewSummaryService(transactionService TransactionServicer, debtService DebtServicer, categoryService CategoryServicer, recentLimit int) SummaryServicer {
	return &summaryService{
		transactionService: transactionService,
		debtService:        debtService,
		categoryService:    categoryService,
		recentLimit:        recentLimit,
		now:                time.Now,
	}
}

// GetMonthlySummary totals the user's transactions for period.
func (s *summaryService) GetMonthlySummary(userID string, period ledger.Period) (*ledger.PeriodSummary, error) {
	transactions, err := s.transactionService.GetPeriodTransactions(userID, period)
	if err != nil {
		return nil, err
	}
	summary := ledger.Summarize(transactions, period)
	return &summary, nil
}

// GetDashboard combines the month's summary with recent activity, the
// user's debts and categories, and the selectable years.
func (s *summaryService) GetDashboard(userID string, period ledger.Period) (*Dashboard, error) {
	summary, err := s.GetMonthlySummary(userID, period)
	if err != nil {
		return nil, err
	}

	recent, err := s.transactionService.GetRecentTransactions(userID, s.recentLimit)
	if err != nil {
		return nil, err
	}

	debts, err := s.debtService.GetUserDebts(userID)
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryService.GetCategoriesByType(userID)
	if err != nil {
		return nil, err
	}

	thisYear := s.now().Year()
	years := make([]int, 0, dashboardYearsBack+dashboardYearsAhead+1)
	for y := thisYear - dashboardYearsBack; y <= thisYear+dashboardYearsAhead; y++ {
		years = append(years, y)
	}

	return &Dashboard{
		Summary:            *summary,
		RecentTransactions: recent,
		Debts:              debts,
		Categories:         categories,
		Years:              years,
	}, nil
}
