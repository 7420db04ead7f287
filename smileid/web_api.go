package smileid

import (
	"context"
)

const (
	endpointUpload    = "/upload"
	endpointJobStatus = "/job_status"
	endpointWebToken  = "/web_token"
)

// WebAPI submits image-based jobs and issues tokens for the hosted web integration.
type WebAPI struct {
	base *base
}

// SubmitJobParams describes a Biometric KYC, Document Verification or SmartSelfie job.
type SubmitJobParams struct {
	UserID       string      `validate:"required"`
	JobID        string      `validate:"required"`
	JobType      JobType     `validate:"gt=0"`
	ImageDetails []ImageData `validate:"omitempty,dive"`
	IDInfo       *IDInfo
	CallbackURL  string `validate:"omitempty,http_url"`
	// Extra fields are added to the request body unless they collide with a named field
	Extra map[string]any
}

// WebTokenParams describes a hosted web integration session.
type WebTokenParams struct {
	UserID      string `validate:"required"`
	JobID       string `validate:"required"`
	Product     string `validate:"required"`
	CallbackURL string `validate:"omitempty,http_url"`
	Extra       map[string]any
}

type jobStatusParams struct {
	UserID string `validate:"required"`
	JobID  string `validate:"required"`
}

// SubmitJob posts a job to /upload.
func (w *WebAPI) SubmitJob(ctx context.Context, params SubmitJobParams) (*SubmitJobResponse, error) {
	b := w.base
	if err := b.configured(); err != nil {
		return nil, err
	}
	if err := b.validator.Validate(params); err != nil {
		return nil, err
	}

	sig := b.sign()
	payload, err := buildPayload(jobRequest{
		PartnerID:       b.cfg.PartnerID,
		DefaultCallback: b.cfg.DefaultCallback,
		PartnerParams: PartnerParams{
			UserID:  params.UserID,
			JobID:   params.JobID,
			JobType: params.JobType,
		},
		ImageDetails:     params.ImageDetails,
		IDInfo:           params.IDInfo,
		Signature:        sig.Signature,
		Timestamp:        sig.TimestampString(),
		SourceSDK:        b.cfg.Source.SDK,
		SourceSDKVersion: b.cfg.Source.Version,
		CallbackURL:      params.CallbackURL,
	}, params.Extra, jobRequestKeys, b.droppedExtra(endpointUpload))
	if err != nil {
		return nil, err
	}

	b.logger.Debug().
		Str("user_id", params.UserID).
		Str("job_id", params.JobID).
		Int("job_type", int(params.JobType)).
		Msg("Submitting job")

	var resp SubmitJobResponse
	if err := b.post(ctx, endpointUpload, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetJobStatus fetches the status of a job without verifying the response signature.
// Use Utilities.GetJobStatus for a verified status.
func (w *WebAPI) GetJobStatus(ctx context.Context, userID, jobID string, opts *JobStatusOptions) (*JobStatusResponse, error) {
	return w.base.jobStatus(ctx, userID, jobID, opts)
}

// GetWebToken requests a token for the hosted web integration.
func (w *WebAPI) GetWebToken(ctx context.Context, params WebTokenParams) (*WebTokenResponse, error) {
	b := w.base
	if err := b.configured(); err != nil {
		return nil, err
	}
	if err := b.validator.Validate(params); err != nil {
		return nil, err
	}

	sig := b.sign()
	payload, err := buildPayload(webTokenRequest{
		PartnerID:        b.cfg.PartnerID,
		UserID:           params.UserID,
		JobID:            params.JobID,
		Product:          params.Product,
		CallbackURL:      params.CallbackURL,
		Signature:        sig.Signature,
		Timestamp:        sig.TimestampString(),
		SourceSDK:        b.cfg.Source.SDK,
		SourceSDKVersion: b.cfg.Source.Version,
	}, params.Extra, webTokenRequestKeys, b.droppedExtra(endpointWebToken))
	if err != nil {
		return nil, err
	}

	var resp WebTokenResponse
	if err := b.post(ctx, endpointWebToken, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (b *base) jobStatus(ctx context.Context, userID, jobID string, opts *JobStatusOptions) (*JobStatusResponse, error) {
	if err := b.configured(); err != nil {
		return nil, err
	}
	if err := b.validator.Validate(jobStatusParams{UserID: userID, JobID: jobID}); err != nil {
		return nil, err
	}

	sig := b.sign()
	req := jobStatusRequest{
		PartnerID: b.cfg.PartnerID,
		UserID:    userID,
		JobID:     jobID,
		Signature: sig.Signature,
		Timestamp: sig.TimestampString(),
	}
	if opts != nil {
		req.ImageLinks = opts.ImageLinks
		req.History = opts.History
	}

	var resp JobStatusResponse
	if err := b.post(ctx, endpointJobStatus, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
