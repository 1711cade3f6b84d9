package buyplan

// Payment preferences.
const (
	PreferenceInstantSavings = "instant_savings"
	PreferenceEMI            = "emi"
	PreferenceCashback       = "cashback"
	PreferenceBalanced       = "balanced"
)

// Payment option types.
const (
	PaymentOneTime  = "one_time"
	PaymentCashback = "cashback"
	PaymentEMI      = "emi"
)

// EMIPlan is one installment schedule.
type EMIPlan struct {
	TenureMonths       int     `json:"tenure_months"`
	EMIPerMonth        float64 `json:"emi_per_month"`
	LastInstallment    float64 `json:"last_installment,omitempty"`
	TotalAmount        float64 `json:"total_amount"`
	TotalInterest      float64 `json:"total_interest"`
	InterestRateAnnual float64 `json:"interest_rate_annual"`
	ProcessingFee      float64 `json:"processing_fee"`
	PlanType           string  `json:"plan_type"`
	TotalPayable       float64 `json:"total_payable,omitempty"`
}

// PaymentOption is one way to pay, with its savings arithmetic.
type PaymentOption struct {
	OptionName         string  `json:"option_name"`
	PaymentMethod      string  `json:"payment_method"`
	FinalPrice         float64 `json:"final_price,omitempty"`
	DiscountFromMRP    float64 `json:"discount_from_mrp"`
	AdditionalSavings  float64 `json:"additional_savings"`
	TotalSavings       float64 `json:"total_savings"`
	SavingsPercent     float64 `json:"savings_percent"`
	PaymentType        string  `json:"payment_type"`
	CashbackAmount     float64 `json:"cashback_amount,omitempty"`
	EffectivePrice     float64 `json:"effective_price,omitempty"`
	CashbackCreditDays int     `json:"cashback_credit_days,omitempty"`
	EMIPerMonth        float64 `json:"emi_per_month,omitempty"`
	TenureMonths       int     `json:"tenure_months,omitempty"`
	TotalAmount        float64 `json:"total_amount,omitempty"`
	ProcessingFee      float64 `json:"processing_fee,omitempty"`
	TotalInterest      float64 `json:"total_interest"`
	OfferDetails       string  `json:"offer_details,omitempty"`
}

// Recommendations are the best-in-class selections plus the LLM narrative.
type Recommendations struct {
	BestInstantSavings *PaymentOption `json:"best_instant_savings"`
	BestCashback       *PaymentOption `json:"best_cashback"`
	BestEMI            *PaymentOption `json:"best_emi"`
	AIRecommendation   string         `json:"ai_recommendation"`
}

// Plan is the buy-plan agent's output.
type Plan struct {
	ProductID       int64           `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductPrice    float64         `json:"product_price"`
	ProductMRP      float64         `json:"product_mrp"`
	EMIEligible     bool            `json:"emi_eligible"`
	PaymentOptions  []PaymentOption `json:"payment_options"`
	RegularEMIPlans []EMIPlan       `json:"regular_emi_plans"`
	NoCostEMIPlans  []EMIPlan       `json:"no_cost_emi_plans"`
	Recommendations Recommendations `json:"recommendations"`
	Recommended     *PaymentOption  `json:"recommended_option,omitempty"`
	RecommendReason string          `json:"recommend_reason,omitempty"`
	Summary         string          `json:"summary"`
}
