package handler

// CreateAccountRequest represents a request to register a ledger account
type CreateAccountRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
}

// AccountResponse represents a ledger account in API responses
type AccountResponse struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// EntryLineRequest represents one leg of a caller-specified journal entry.
// Amounts are decimal strings so callers never round through binary floats.
type EntryLineRequest struct {
	AccountCode string `json:"account_code" binding:"required"`
	Type        string `json:"type" binding:"required,oneof=DEBIT CREDIT"`
	Amount      string `json:"amount" binding:"required"`
}

// PostEntryRequest represents a request to post a multi-line journal entry
type PostEntryRequest struct {
	Reference   string             `json:"reference" binding:"required"`
	Description string             `json:"description"`
	ValueDate   string             `json:"value_date"`
	Lines       []EntryLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// PostPolicyEntryRequest represents a request to post through the policy router
type PostPolicyEntryRequest struct {
	Reference               string `json:"reference" binding:"required"`
	OperationType           string `json:"operation_type" binding:"required"`
	Amount                  string `json:"amount" binding:"required"`
	AccountCode             string `json:"account_code" binding:"required"`
	CounterpartyAccountCode string `json:"counterparty_account_code,omitempty"`
	Description             string `json:"description"`
	ValueDate               string `json:"value_date"`
}

// PostingResultResponse represents the outcome of a successful posting
type PostingResultResponse struct {
	EntryID     string `json:"entry_id"`
	Reference   string `json:"reference"`
	TotalDebit  string `json:"total_debit"`
	TotalCredit string `json:"total_credit"`
}

// EntryLineResponse represents one leg of a posted entry
type EntryLineResponse struct {
	AccountCode string `json:"account_code"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
}

// EntryResponse represents a posted journal entry with its lines
type EntryResponse struct {
	ID          string              `json:"id"`
	Reference   string              `json:"reference"`
	Description string              `json:"description,omitempty"`
	ValueDate   string              `json:"value_date"`
	Lines       []EntryLineResponse `json:"lines"`
	CreatedAt   string              `json:"created_at"`
}

// BalanceResponse represents an account's all-time position
type BalanceResponse struct {
	AccountCode string `json:"account_code"`
	TotalDebit  string `json:"total_debit"`
	TotalCredit string `json:"total_credit"`
	Balance     string `json:"balance"`
}

// ReconciliationResponse represents system-wide totals over a value-date range
type ReconciliationResponse struct {
	FromDate    string `json:"from_date"`
	ToDate      string `json:"to_date"`
	TotalDebit  string `json:"total_debit"`
	TotalCredit string `json:"total_credit"`
	Balanced    bool   `json:"balanced"`
	EntryCount  int64  `json:"entry_count"`
}

// CreatePaymentRequest represents a request to initiate a payment
type CreatePaymentRequest struct {
	OperationType           string `json:"operation_type" binding:"required"`
	Amount                  string `json:"amount" binding:"required"`
	AccountCode             string `json:"account_code" binding:"required"`
	CounterpartyAccountCode string `json:"counterparty_account_code,omitempty"`
	Description             string `json:"description"`
	ValueDate               string `json:"value_date"`
}

// BatchPaymentsRequest represents a request to enqueue payments for
// asynchronous posting by the batch processor
type BatchPaymentsRequest struct {
	Instructions []CreatePaymentRequest `json:"instructions" binding:"required,min=1,dive"`
}

// BatchAcceptedResponse acknowledges enqueued posting instructions
type BatchAcceptedResponse struct {
	PaymentIDs []string `json:"payment_ids"`
	Count      int      `json:"count"`
}

// PaymentListResponse represents a page of payments filtered by status
type PaymentListResponse struct {
	Payments []PaymentResponse `json:"payments"`
	Count    int               `json:"count"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID                      string `json:"id"`
	OperationType           string `json:"operation_type"`
	Amount                  string `json:"amount"`
	AccountCode             string `json:"account_code"`
	CounterpartyAccountCode string `json:"counterparty_account_code,omitempty"`
	Description             string `json:"description,omitempty"`
	ValueDate               string `json:"value_date"`
	LedgerReference         string `json:"ledger_reference"`
	Status                  string `json:"status"`
	FailureReason           string `json:"failure_reason,omitempty"`
	CreatedAt               string `json:"created_at"`
	UpdatedAt               string `json:"updated_at"`
	ProcessedAt             string `json:"processed_at,omitempty"`
}
