package service

import (
	"context"
	"fmt"
	"time"

	"voxdesk/internal/logger"
	"voxdesk/internal/metrics"
	"voxdesk/internal/models"
	"voxdesk/internal/phone"
	"voxdesk/internal/validator"
	"voxdesk/internal/voice"
)

// CallInitiator places outbound calls through the voice provider
type CallInitiator interface {
	InitiateCall(ctx context.Context, params voice.CallParams) (*voice.CallResult, error)
}

// CallService validates phone input and starts calls
type CallService struct {
	voice CallInitiator
	log   *logger.Logger
}

// NewCallService creates a new call service
func NewCallService(v CallInitiator, log *logger.Logger) *CallService {
	return &CallService{voice: v, log: log}
}

// Normalize runs the normalizer and the dialability check on one input
func Normalize(req models.NormalizeRequest) models.NormalizeResponse {
	n := phone.NormalizeAndValidate(req.Phone, req.Country)
	resp := models.NormalizeResponse{
		Value:    n.Value,
		Error:    n.Error,
		Country:  n.Country,
		Dialable: phone.IsDialable(req.Phone, req.Country),
	}
	if n.Valid() {
		resp.Region = phone.Region(n.Value)
	}
	return resp
}

// Call places a call to req.Phone for the tenant. The number must pass
// both the dialability check and the strict format check; the normalized
// value is what the provider receives.
func (s *CallService) Call(ctx context.Context, subAccountID string, req models.CallRequest) (*models.CallResponse, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}
	if !phone.IsDialable(req.Phone, req.Country) {
		return nil, &ValidationError{Fields: map[string]string{"phone": "not_dialable"}}
	}
	n := phone.NormalizeAndValidate(req.Phone, req.Country)
	if n.Value == "" {
		return nil, &ValidationError{Fields: map[string]string{"phone": "required"}}
	}
	if !n.Valid() {
		return nil, &ValidationError{Fields: map[string]string{"phone": n.Error}}
	}

	start := time.Now()
	res, err := s.voice.InitiateCall(ctx, voice.CallParams{
		RecipientPhoneNumber: n.Value,
		AgentID:              req.AgentID,
		SaasID:               subAccountID,
	})
	metrics.VoiceCallDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.VoiceCallsTotal.WithLabelValues("error").Inc()
		s.log.Errorw("failed to initiate call",
			"sub_account_id", subAccountID,
			"agent_id", req.AgentID,
			"phone", phone.Mask(n.Value),
			"error", err)
		return nil, fmt.Errorf("failed to initiate call: %w", err)
	}

	metrics.VoiceCallsTotal.WithLabelValues("success").Inc()
	s.log.Infow("call initiated",
		"sub_account_id", subAccountID,
		"call_sid", res.CallSID,
		"region", phone.Region(n.Value),
		"phone", phone.Mask(n.Value))
	return &models.CallResponse{CallSID: res.CallSID, Status: res.Status, Phone: n.Value}, nil
}
