package models

// CallRequest represents the incoming body for POST /api/calls
type CallRequest struct {
	Phone   string `json:"phone" validate:"required"`
	Country string `json:"country" validate:"required,len=2"`
	AgentID string `json:"agentId" validate:"required"`
}

// CallResponse is returned once the voice provider accepted the call
type CallResponse struct {
	CallSID string `json:"callSid"`
	Status  string `json:"status"`
	Phone   string `json:"phone"`
}

// NormalizeRequest represents the body for POST /api/phone/normalize
type NormalizeRequest struct {
	Phone   string `json:"phone"`
	Country string `json:"country"`
}

// NormalizeResponse reports the normalizer output plus dialability
type NormalizeResponse struct {
	Value    string `json:"value"`
	Error    string `json:"error"`
	Country  string `json:"country"`
	Region   string `json:"region,omitempty"`
	Dialable bool   `json:"dialable"`
}
