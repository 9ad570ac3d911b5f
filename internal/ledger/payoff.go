package ledger

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"debtwise/internal/models"
)

// ProjectionStatus classifies a payoff projection.
type ProjectionStatus string

const (
	StatusOK             ProjectionStatus = "ok"
	StatusPaidOff        ProjectionStatus = "paid_off"
	StatusInvalidPayment ProjectionStatus = "invalid_payment"
	StatusNeverPaidOff   ProjectionStatus = "never"
	StatusIncomputable   ProjectionStatus = "error"
)

// Duration labels for the projections that have no payoff date.
const (
	LabelPaidOff        = "already paid off"
	LabelInvalidPayment = "payment must exceed zero"
	LabelNeverPaidOff   = "never paid off at this rate"
	LabelIncomputable   = "cannot be computed"
)

// PayoffDateLayout formats payoff dates as DD-MM-YYYY.
const PayoffDateLayout = "02-01-2006"

// daysPerMonth is the average month length used to turn months into a date.
const daysPerMonth = 30.44

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// Projection is the estimated time to pay off a debt.
type Projection struct {
	Status     ProjectionStatus
	Duration   string
	Months     float64
	PayoffDate *time.Time
}

// MarshalJSON renders the payoff date as DD-MM-YYYY or null.
func (p Projection) MarshalJSON() ([]byte, error) {
	out := struct {
		Status     ProjectionStatus `json:"status"`
		Duration   string           `json:"duration"`
		Months     *float64         `json:"months,omitempty"`
		PayoffDate *string          `json:"payoff_date"`
	}{
		Status:   p.Status,
		Duration: p.Duration,
	}
	if p.Status == StatusOK {
		months := math.Round(p.Months*100) / 100
		out.Months = &months
	}
	if p.PayoffDate != nil {
		formatted := p.PayoffDate.Format(PayoffDateLayout)
		out.PayoffDate = &formatted
	}
	return json.Marshal(out)
}

// MonthlyRate converts a quoted rate to a monthly fraction: yearly rates
// are divided by twelve, monthly rates are used as is.
func MonthlyRate(ratePercent decimal.Decimal, rateType models.RateType) decimal.Decimal {
	rate := ratePercent.Div(hundred)
	if rateType == models.RateTypeYearly {
		rate = rate.Div(twelve)
	}
	return rate
}

// Project estimates how long a fixed monthly payment of the debt's minimum
// payment plus extraPayment takes to clear the current balance, solving
// the amortization schedule in closed form:
//
//	months = -ln(1 - balance*rate/payment) / ln(1 + rate)
//
// A zero rate reduces to balance/payment. The payoff date counts
// round(months * 30.44) days forward from today. Numeric failures never
// escape; they come back as the StatusIncomputable sentinel.
func Project(debt models.Debt, extraPayment decimal.Decimal, today time.Time) Projection {
	balance := debt.CurrentBalance
	if !balance.IsPositive() {
		return sentinel(StatusPaidOff, LabelPaidOff)
	}

	rate := MonthlyRate(debt.RatePercent, debt.RateType)
	payment := debt.MinPayment.Add(extraPayment)
	if !payment.IsPositive() {
		return sentinel(StatusInvalidPayment, LabelInvalidPayment)
	}

	interest := balance.Mul(rate)
	if payment.LessThanOrEqual(interest) {
		return sentinel(StatusNeverPaidOff, LabelNeverPaidOff)
	}

	b := balance.InexactFloat64()
	p := payment.InexactFloat64()
	var months float64
	if rate.IsZero() {
		months = b / p
	} else {
		r := rate.InexactFloat64()
		months = -math.Log(1-(b*r)/p) / math.Log(1+r)
	}
	if math.IsNaN(months) || math.IsInf(months, 0) || months < 0 {
		return sentinel(StatusIncomputable, LabelIncomputable)
	}

	days := math.Round(months * daysPerMonth)
	if days > math.MaxInt32 {
		return sentinel(StatusIncomputable, LabelIncomputable)
	}
	payoff := DateOf(today).AddDate(0, 0, int(days))

	return Projection{
		Status:     StatusOK,
		Duration:   fmt.Sprintf("%.1f months", months),
		Months:     months,
		PayoffDate: &payoff,
	}
}

func sentinel(status ProjectionStatus, label string) Projection {
	return Projection{Status: status, Duration: label}
}
