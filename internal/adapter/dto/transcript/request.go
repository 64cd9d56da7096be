package transcript

// IngestRequest triggers an ingestion run for one symbol
type IngestRequest struct {
	Symbol       string `json:"symbol" validate:"required,max=20" example:"IBM"`
	StartQuarter string `json:"start_quarter" validate:"required,fiscal_quarter" example:"2024Q1"`
	EndQuarter   string `json:"end_quarter,omitempty" validate:"omitempty,fiscal_quarter" example:"2024Q4"`
}

// SymbolParams identifies a symbol in the path
type SymbolParams struct {
	Symbol string `param:"symbol" validate:"required,max=20"`
}

// QuarterParams identifies a symbol and quarter in the path
type QuarterParams struct {
	Symbol  string `param:"symbol" validate:"required,max=20"`
	Quarter string `param:"quarter" validate:"required,fiscal_quarter"`
}
