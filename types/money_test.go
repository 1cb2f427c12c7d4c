package types

import (
	"encoding/json"
	"testing"
)

func TestMoneyConstructors(t *testing.T) {
	tests := []struct {
		name     string
		money    Money
		amount   int64
		currency string
		display  string
	}{
		{"PKR", PKR(550000), 550000, "PKR", "₨ 5500.00"},
		{"USD", USD(4900), 4900, "USD", "$ 49.00"},
		{"EUR", EUR(19900), 19900, "EUR", "€ 199.00"},
		{"GBP", GBP(9900), 9900, "GBP", "£ 99.00"},
		{"INR", INR(2500), 2500, "INR", "₹ 25.00"},
		{"CAD", CAD(2500), 2500, "CAD", "C$ 25.00"},
		{"AUD", AUD(7550), 7550, "AUD", "A$ 75.50"},
		{"Zero PKR", Zero("pkr"), 0, "PKR", "₨ 0.00"},
		{"Zero default", Zero(""), 0, "PKR", "₨ 0.00"},
		{"New lowercase", New(100, "usd"), 100, "USD", "$ 1.00"},
		{"New blank currency", New(100, ""), 100, "PKR", "₨ 1.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.money.Amount != tt.amount {
				t.Errorf("Amount: got %d, want %d", tt.money.Amount, tt.amount)
			}
			if tt.money.Currency != tt.currency {
				t.Errorf("Currency: got %s, want %s", tt.money.Currency, tt.currency)
			}
			if tt.money.String() != tt.display {
				t.Errorf("Display: got %s, want %s", tt.money.String(), tt.display)
			}
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func() Money
		expected Money
	}{
		{"Add", func() Money { return PKR(100).Add(PKR(200)) }, PKR(300)},
		{"Subtract", func() Money { return PKR(500).Subtract(PKR(200)) }, PKR(300)},
		{"Multiply", func() Money { return PKR(100).Multiply(3) }, PKR(300)},
		{"Divide", func() Money { return PKR(900).Divide(3) }, PKR(300)},
		{"Divide truncates", func() Money { return PKR(1000).Divide(3) }, PKR(333)},
		{"Negate", func() Money { return PKR(100).Negate() }, PKR(-100)},
		{"Abs positive", func() Money { return PKR(100).Abs() }, PKR(100)},
		{"Abs negative", func() Money { return PKR(-100).Abs() }, PKR(100)},
		{"Complex", func() Money {
			return PKR(1000).Add(PKR(500)).Multiply(2).Subtract(PKR(1000))
		}, PKR(2000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.op()
			if !result.Equal(tt.expected) {
				t.Errorf("Got %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for currency mismatch")
		}
	}()

	// This should panic
	_ = PKR(100).Add(USD(100))
}

func TestMoneyDivisionByZero(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for division by zero")
		}
	}()

	// This should panic
	_ = PKR(100).Divide(0)
}

func TestMoneyComparison(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Money
		less    bool
		greater bool
		equal   bool
	}{
		{"Equal", PKR(100), PKR(100), false, false, true},
		{"Less", PKR(50), PKR(100), true, false, false},
		{"Greater", PKR(200), PKR(100), false, true, false},
		{"Zero equal", PKR(0), Zero("PKR"), false, false, true},
		{"Negative less", PKR(-100), PKR(100), true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.LessThan(tt.b); got != tt.less {
				t.Errorf("LessThan: got %v, want %v", got, tt.less)
			}
			if got := tt.a.GreaterThan(tt.b); got != tt.greater {
				t.Errorf("GreaterThan: got %v, want %v", got, tt.greater)
			}
			if got := tt.a.Equal(tt.b); got != tt.equal {
				t.Errorf("Equal: got %v, want %v", got, tt.equal)
			}
		})
	}
}

func TestMoneyMinMax(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Money
		min, max Money
	}{
		{"First smaller", PKR(50), PKR(100), PKR(50), PKR(100)},
		{"Second smaller", PKR(100), PKR(50), PKR(50), PKR(100)},
		{"Equal", PKR(100), PKR(100), PKR(100), PKR(100)},
		{"Negative", PKR(-50), PKR(50), PKR(-50), PKR(50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if minVal := tt.a.Min(tt.b); !minVal.Equal(tt.min) {
				t.Errorf("Min: got %v, want %v", minVal, tt.min)
			}
			if maxVal := tt.a.Max(tt.b); !maxVal.Equal(tt.max) {
				t.Errorf("Max: got %v, want %v", maxVal, tt.max)
			}
		})
	}
}

func TestMoneyPredicates(t *testing.T) {
	tests := []struct {
		name       string
		money      Money
		isZero     bool
		isPositive bool
		isNegative bool
	}{
		{"Zero", PKR(0), true, false, false},
		{"Positive", PKR(100), false, true, false},
		{"Negative", PKR(-100), false, false, true},
		{"Large positive", PKR(999999999), false, true, false},
		{"Large negative", PKR(-999999999), false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.money.IsZero(); got != tt.isZero {
				t.Errorf("IsZero: got %v, want %v", got, tt.isZero)
			}
			if got := tt.money.IsPositive(); got != tt.isPositive {
				t.Errorf("IsPositive: got %v, want %v", got, tt.isPositive)
			}
			if got := tt.money.IsNegative(); got != tt.isNegative {
				t.Errorf("IsNegative: got %v, want %v", got, tt.isNegative)
			}
		})
	}
}

func TestMoneyFormatMajor(t *testing.T) {
	tests := []struct {
		money    Money
		expected string
	}{
		{PKR(550000), "5500.00"},
		{PKR(100), "1.00"},
		{PKR(1), "0.01"},
		{PKR(0), "0.00"},
		{PKR(-4900), "-49.00"},
		{PKR(-1), "-0.01"},
		{EUR(9999), "99.99"},
		{New(100, "JPY"), "100"},     // No decimals
		{New(12345, "JPY"), "12345"}, // No decimals
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.money.FormatMajor(); got != tt.expected {
				t.Errorf("FormatMajor: got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestMoneyJSON(t *testing.T) {
	m := PKR(550000)

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	// Check JSON structure
	expected := `{"amount":550000,"currency":"PKR","display":"₨ 5500.00"}`
	if string(data) != expected {
		t.Errorf("JSON: got %s, want %s", string(data), expected)
	}

	// Unmarshal and verify
	var result struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Display  string `json:"display"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if result.Amount != 550000 || result.Currency != "PKR" || result.Display != "₨ 5500.00" {
		t.Errorf("Unmarshaled data incorrect: %+v", result)
	}
}

func TestSum(t *testing.T) {
	tests := []struct {
		name     string
		values   []Money
		expected Money
	}{
		{"Empty", []Money{}, Zero("PKR")},
		{"Single", []Money{PKR(100)}, PKR(100)},
		{"Multiple", []Money{PKR(100), PKR(200), PKR(300)}, PKR(600)},
		{"With negatives", []Money{PKR(100), PKR(-50), PKR(200)}, PKR(250)},
		{"All zero", []Money{PKR(0), PKR(0), PKR(0)}, PKR(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Sum(tt.values...)
			if !result.Equal(tt.expected) {
				t.Errorf("Sum: got %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestNormalizeCurrency(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"pkr", "PKR"},
		{"PKR", "PKR"},
		{" usd ", "USD"},
		{"", "PKR"},
		{"   ", "PKR"},
		{"eur", "EUR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeCurrency(tt.input); got != tt.expected {
				t.Errorf("NormalizeCurrency(%q): got %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCurrencySymbols(t *testing.T) {
	tests := []struct {
		currency string
		symbol   string
	}{
		{"PKR", "₨"},
		{"USD", "$"},
		{"EUR", "€"},
		{"GBP", "£"},
		{"INR", "₹"},
		{"CAD", "C$"},
		{"AUD", "A$"},
		{"unknown", "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.currency, func(t *testing.T) {
			got := currencySymbol(tt.currency)
			if got != tt.symbol {
				t.Errorf("Symbol for %s: got %s, want %s", tt.currency, got, tt.symbol)
			}
		})
	}
}

func BenchmarkMoneyAdd(b *testing.B) {
	m1 := PKR(100)
	m2 := PKR(200)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m1.Add(m2)
	}
}

func BenchmarkMoneyString(b *testing.B) {
	m := PKR(550000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.String()
	}
}

func BenchmarkMoneyJSON(b *testing.B) {
	m := PKR(550000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = json.Marshal(m)
	}
}
