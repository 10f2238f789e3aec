package compensation

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/domain/money"
)

func amount(raw string) *money.Amount {
	a := money.MustParse(raw)
	return &a
}

func dec(raw string) *decimal.Decimal {
	d := decimal.RequireFromString(raw)
	return &d
}

func mustCompute(t *testing.T, rates Rates, in Input) Breakdown {
	t.Helper()
	got, err := Compute(rates, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return got
}

func TestComputeHourlyWithBonus(t *testing.T) {
	profile := Profile{Mode: ModeHourly, HourlyRate: amount("20"), CommissionRatePercent: dec("0")}
	got := mustCompute(t, profile.Rates(), Input{
		HoursWorked: dec("10"),
		Bonuses:     []Adjustment{{Label: "Perf", Amount: money.MustParse("50")}},
	})

	if got.HourlyTotal != money.MustParse("200") {
		t.Fatalf("expected hourly total 200, got %s", got.HourlyTotal)
	}
	if got.CommissionTotal != 0 {
		t.Fatalf("expected no commission, got %s", got.CommissionTotal)
	}
	if got.NetPay != money.MustParse("250") {
		t.Fatalf("expected net 250, got %s", got.NetPay)
	}
}

func TestComputeFixedWithCommission(t *testing.T) {
	profile := Profile{Mode: ModeCommission, CommissionRatePercent: dec("10")}
	got := mustCompute(t, profile.Rates(), Input{FixedSalary: amount("5000")})

	if got.CommissionBase != money.MustParse("5000") {
		t.Fatalf("expected base 5000, got %s", got.CommissionBase)
	}
	if got.CommissionTotal != money.MustParse("500") {
		t.Fatalf("expected commission 500, got %s", got.CommissionTotal)
	}
	if got.NetPay != money.MustParse("5500") {
		t.Fatalf("expected net 5500, got %s", got.NetPay)
	}
}

func TestComputeCommissionOnHourlyAndFixed(t *testing.T) {
	profile := Profile{Mode: ModeCommission, HourlyRate: amount("15.50"), CommissionRatePercent: dec("12.5")}
	got := mustCompute(t, profile.Rates(), Input{
		HoursWorked: dec("7.5"),
		FixedSalary: amount("100"),
		Deductions:  []Adjustment{{Label: "Locker", Amount: money.MustParse("5")}},
	})

	// 7.5 × 15.50 = 116.25; base 216.25; 12.5% = 27.03125 -> 27.03
	if got.HourlyTotal != money.MustParse("116.25") {
		t.Fatalf("unexpected hourly total %s", got.HourlyTotal)
	}
	if got.CommissionTotal != money.MustParse("27.03") {
		t.Fatalf("unexpected commission %s", got.CommissionTotal)
	}
	if got.NetPay != money.MustParse("238.28") {
		t.Fatalf("unexpected net %s", got.NetPay)
	}
}

func TestComputeZeroContributions(t *testing.T) {
	hourly := Profile{Mode: ModeHourly, HourlyRate: amount("30")}
	for _, hours := range []*decimal.Decimal{nil, dec("0")} {
		got := mustCompute(t, hourly.Rates(), Input{HoursWorked: hours})
		if got.HourlyTotal != 0 || got.NetPay != 0 {
			t.Fatalf("expected zero pay with hours %v, got %+v", hours, got)
		}
	}

	noRate := Profile{Mode: ModeCommission, CommissionRatePercent: dec("0")}
	got := mustCompute(t, noRate.Rates(), Input{FixedSalary: amount("900")})
	if got.CommissionTotal != 0 {
		t.Fatalf("expected zero commission, got %s", got.CommissionTotal)
	}
}

func TestComputeIgnoresRatesOutsideMode(t *testing.T) {
	profile := Profile{Mode: ModeFixed, FixedSalary: amount("3000"), HourlyRate: amount("99"), CommissionRatePercent: dec("50")}
	got := mustCompute(t, profile.Rates(), Input{HoursWorked: dec("10"), FixedSalary: amount("3000")})
	if got.NetPay != money.MustParse("3000") {
		t.Fatalf("expected only the fixed salary to count, got %s", got.NetPay)
	}
}

func TestComputeNegativeNetIsFlaggedNotClamped(t *testing.T) {
	got := mustCompute(t, Rates{}, Input{
		FixedSalary: amount("100"),
		Deductions:  []Adjustment{{Label: "Advance", Amount: money.MustParse("150")}},
	})
	if got.NetPay != money.MustParse("-50") {
		t.Fatalf("expected net -50, got %s", got.NetPay)
	}
	if len(got.Warnings) != 1 || got.Warnings[0] != WarningNegativeNet {
		t.Fatalf("expected negative net warning, got %v", got.Warnings)
	}
}

func TestComputeNetEqualsSumOfParts(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	randCents := func(max int64) int64 { return rng.Int63n(max) }

	for i := 0; i < 500; i++ {
		rateCents := randCents(10000)
		fixedCents := randCents(1_000_000)
		hours := decimal.New(rng.Int63n(20000), -2)
		pct := decimal.New(rng.Int63n(10001), -2)

		rate := money.Amount(rateCents)
		fixed := money.Amount(fixedCents)
		in := Input{HoursWorked: &hours, FixedSalary: &fixed}
		var bonusCents, deductionCents int64
		for j := 0; j < rng.Intn(4); j++ {
			c := randCents(50000) + 1
			bonusCents += c
			in.Bonuses = append(in.Bonuses, Adjustment{Label: "b", Amount: money.Amount(c)})
		}
		for j := 0; j < rng.Intn(4); j++ {
			c := randCents(50000) + 1
			deductionCents += c
			in.Deductions = append(in.Deductions, Adjustment{Label: "d", Amount: money.Amount(c)})
		}
		rates := Rates{HourlyRate: &rate, CommissionRatePercent: pct}

		// expected figures in decimal cents, rounded half away from zero like the calculator
		hourly := decimal.NewFromInt(rateCents).Mul(hours).Round(0)
		base := hourly.Add(decimal.NewFromInt(fixedCents))
		commission := base.Mul(pct).Div(decimal.NewFromInt(100)).Round(0)
		net := base.Add(commission).Add(decimal.NewFromInt(bonusCents)).Sub(decimal.NewFromInt(deductionCents))

		got := mustCompute(t, rates, in)
		if got.HourlyTotal != money.Amount(hourly.IntPart()) {
			t.Fatalf("case %d: hourly %s, want %s cents", i, got.HourlyTotal, hourly)
		}
		if got.CommissionTotal != money.Amount(commission.IntPart()) {
			t.Fatalf("case %d: commission %s, want %s cents", i, got.CommissionTotal, commission)
		}
		if got.NetPay != money.Amount(net.IntPart()) {
			t.Fatalf("case %d: net %s, want %s cents", i, got.NetPay, net)
		}
		if got.NetPay.Negative() != (len(got.Warnings) == 1) {
			t.Fatalf("case %d: warnings %v do not match net %s", i, got.Warnings, got.NetPay)
		}
	}
}

func TestComputeRejectsFiguresBeyondAmountRange(t *testing.T) {
	rate := money.MustParse("20")
	cases := []struct {
		name  string
		rates Rates
		in    Input
		field string
	}{
		{"hourly total", Rates{HourlyRate: &rate}, Input{HoursWorked: dec("1e18")}, "hourlyTotal"},
		{"net pay", Rates{}, Input{
			FixedSalary: amount("90000000000000000"),
			Bonuses:     []Adjustment{{Label: "b", Amount: money.MustParse("10000000000000000")}},
		}, "netPay"},
		{"bonus lines", Rates{}, Input{Bonuses: []Adjustment{
			{Label: "a", Amount: money.MustParse("60000000000000000")},
			{Label: "b", Amount: money.MustParse("60000000000000000")},
		}}, "bonuses"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compute(tc.rates, tc.in)
			var ve *apperr.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ve.Issues[0].Field != tc.field {
				t.Fatalf("expected issue on %s, got %+v", tc.field, ve.Issues)
			}
		})
	}
}

func TestValidHours(t *testing.T) {
	cases := map[string]bool{
		"0":           true,
		"7.25":        true,
		"99999999.99": true,
		"100000000":   false,
		"1e18":        false,
		"7.125":       false,
		"-1":          false,
	}
	for raw, want := range cases {
		if got := ValidHours(decimal.RequireFromString(raw)); got != want {
			t.Fatalf("ValidHours(%s) = %v, want %v", raw, got, want)
		}
	}
}

func TestNewAdjustmentRejectsMalformedLines(t *testing.T) {
	cases := []struct {
		name   string
		label  string
		amount money.Amount
	}{
		{"empty label", "  ", 100},
		{"zero amount", "Perf", 0},
		{"negative amount", "Perf", -100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewAdjustment(tc.label, tc.amount)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	adj, err := NewAdjustment(" Perf ", 5000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adj.Label != "Perf" {
		t.Fatalf("expected trimmed label, got %q", adj.Label)
	}
}

func TestProfileValidate(t *testing.T) {
	cases := []struct {
		name    string
		profile Profile
		ok      bool
	}{
		{"hourly", Profile{Mode: ModeHourly, HourlyRate: amount("20")}, true},
		{"hourly without rate", Profile{Mode: ModeHourly}, false},
		{"fixed", Profile{Mode: ModeFixed, FixedSalary: amount("3000")}, true},
		{"commission over 100", Profile{Mode: ModeCommission, CommissionRatePercent: dec("120")}, false},
		{"unknown mode", Profile{Mode: "piecework"}, false},
		{"negative rate", Profile{Mode: ModeHourly, HourlyRate: amount("-1")}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.profile.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
