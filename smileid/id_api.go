package smileid

import (
	"context"
)

const endpointIDVerification = "/id_verification"

// IDAPI submits ID-number based verification jobs. All of them run as job type 5.
type IDAPI struct {
	base *base
}

// KYCParams describes an Enhanced KYC, Basic KYC or Business Verification job.
type KYCParams struct {
	UserID      string `validate:"required"`
	JobID       string `validate:"required"`
	IDInfo      IDInfo
	CallbackURL string `validate:"omitempty,http_url"`
	// Extra fields are added to the request body unless they collide with a named field
	Extra map[string]any
}

// SubmitEnhancedKYC verifies an identity against the issuing authority's records.
func (a *IDAPI) SubmitEnhancedKYC(ctx context.Context, params KYCParams) (*IDAPIJobResponse, error) {
	return a.submit(ctx, "enhanced_kyc", JobTypeEnhancedKYC, params)
}

// SubmitBasicKYC matches personal details against the issuing authority's records.
func (a *IDAPI) SubmitBasicKYC(ctx context.Context, params KYCParams) (*IDAPIJobResponse, error) {
	return a.submit(ctx, "basic_kyc", JobTypeBasicKYC, params)
}

// SubmitBusinessVerification verifies a registered business.
func (a *IDAPI) SubmitBusinessVerification(ctx context.Context, params KYCParams) (*IDAPIJobResponse, error) {
	return a.submit(ctx, "business_verification", JobTypeBusinessVerification, params)
}

// SubmitJob is SubmitEnhancedKYC.
func (a *IDAPI) SubmitJob(ctx context.Context, params KYCParams) (*IDAPIJobResponse, error) {
	return a.SubmitEnhancedKYC(ctx, params)
}

func (a *IDAPI) submit(ctx context.Context, product string, jobType JobType, params KYCParams) (*IDAPIJobResponse, error) {
	b := a.base
	if err := b.configured(); err != nil {
		return nil, err
	}
	if err := b.validator.Validate(params); err != nil {
		return nil, err
	}

	sig := b.sign()
	idInfo := params.IDInfo
	payload, err := buildPayload(jobRequest{
		PartnerID:       b.cfg.PartnerID,
		DefaultCallback: b.cfg.DefaultCallback,
		PartnerParams: PartnerParams{
			UserID:  params.UserID,
			JobID:   params.JobID,
			JobType: jobType,
		},
		IDInfo:           &idInfo,
		Signature:        sig.Signature,
		Timestamp:        sig.TimestampString(),
		SourceSDK:        b.cfg.Source.SDK,
		SourceSDKVersion: b.cfg.Source.Version,
		CallbackURL:      params.CallbackURL,
	}, params.Extra, jobRequestKeys, b.droppedExtra(endpointIDVerification))
	if err != nil {
		return nil, err
	}

	b.logger.Debug().
		Str("product", product).
		Str("user_id", params.UserID).
		Str("job_id", params.JobID).
		Msg("Submitting ID verification job")

	var resp IDAPIJobResponse
	if err := b.post(ctx, endpointIDVerification, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
