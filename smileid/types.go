package smileid

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JobType identifies the verification product a job runs.
// Document Verification, Enhanced KYC, Basic KYC and Business Verification
// all use job type 5 and are told apart by their payloads.
type JobType int

const (
	JobTypeBiometricKYC            JobType = 1
	JobTypeSmartSelfieAuth         JobType = 2
	JobTypeSmartSelfieRegistration JobType = 4
	JobTypeDocumentVerification    JobType = 5
	JobTypeEnhancedKYC             JobType = 5
	JobTypeBasicKYC                JobType = 5
	JobTypeBusinessVerification    JobType = 5
)

// JobStatus is the processing state reported for a job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusReview     JobStatus = "review"
)

// IDType is the kind of identity document being verified.
type IDType int

const (
	IDTypeNationalID     IDType = 1
	IDTypePassport       IDType = 2
	IDTypeDriversLicense IDType = 3
	IDTypeVotersID       IDType = 4
)

// ImageData is one image attached to a job. Image is base64 encoded.
type ImageData struct {
	ImageTypeID int    `json:"image_type_id"`
	Image       string `json:"image" validate:"required"`
}

// IDInfo carries the identity details submitted for verification.
type IDInfo struct {
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	MiddleName  string `json:"middle_name,omitempty"`
	Country     string `json:"country,omitempty"`
	IDType      IDType `json:"id_type,omitempty"`
	IDNumber    string `json:"id_number,omitempty"`
	DOB         string `json:"dob,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Entered     *bool  `json:"entered,omitempty"`

	BusinessName               string `json:"business_name,omitempty"`
	BusinessType               string `json:"business_type,omitempty"`
	BusinessRegistrationNumber string `json:"business_registration_number,omitempty"`

	// Extra holds additional id_info fields. Keys matching the fields above are ignored.
	Extra map[string]any `json:"-"`
}

// MarshalJSON merges Extra into the encoded object without overriding named fields.
func (i IDInfo) MarshalJSON() ([]byte, error) {
	type plain IDInfo
	fields, err := toMap(plain(i))
	if err != nil {
		return nil, err
	}
	mergeExtra(fields, i.Extra, idInfoKeys, nil)
	return json.Marshal(fields)
}

// PartnerParams identifies a job on the partner side.
type PartnerParams struct {
	UserID  string  `json:"user_id"`
	JobID   string  `json:"job_id"`
	JobType JobType `json:"job_type"`
}

// Timestamp is a signature timestamp as sent by the API, which may encode it
// as a JSON string or number.
type Timestamp string

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Timestamp(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("timestamp: %w", err)
		}
		*t = Timestamp(n.String())
	}
	return nil
}

// JobResult is the outcome of a processed job.
type JobResult struct {
	ResultCode      string         `json:"ResultCode"`
	ResultText      string         `json:"ResultText"`
	ResultType      string         `json:"ResultType"`
	SmileJobID      string         `json:"SmileJobID"`
	PartnerParams   PartnerParams  `json:"PartnerParams"`
	ConfidenceValue string         `json:"ConfidenceValue,omitempty"`
	Actions         map[string]any `json:"Actions,omitempty"`
	Country         string         `json:"Country,omitempty"`
	IDType          string         `json:"IDType,omitempty"`
	IDNumber        string         `json:"IDNumber,omitempty"`
	ExpirationDate  string         `json:"ExpirationDate,omitempty"`
	FullName        string         `json:"FullName,omitempty"`
	DOB             string         `json:"DOB,omitempty"`
	Photo           string         `json:"Photo,omitempty"`
}

// JobStatusResponse is returned by /job_status and posted to callback URLs.
type JobStatusResponse struct {
	JobComplete bool       `json:"job_complete"`
	JobSuccess  bool       `json:"job_success"`
	Result      *JobResult `json:"result,omitempty"`
	Signature   string     `json:"signature,omitempty"`
	Timestamp   Timestamp  `json:"timestamp,omitempty"`

	// Raw is the full decoded payload, including fields without a named counterpart
	Raw map[string]any `json:"-"`
}

// SubmitJobResponse is returned by /upload.
type SubmitJobResponse struct {
	Success    bool      `json:"success"`
	SmileJobID string    `json:"smile_job_id,omitempty"`
	UploadURL  string    `json:"upload_url,omitempty"`
	RefID      string    `json:"ref_id,omitempty"`
	Signature  string    `json:"signature,omitempty"`
	Timestamp  Timestamp `json:"timestamp,omitempty"`

	Raw map[string]any `json:"-"`
}

// IDAPIJobResponse is returned by /id_verification.
type IDAPIJobResponse struct {
	Success    bool      `json:"success"`
	SmileJobID string    `json:"SmileJobID,omitempty"`
	ResultCode string    `json:"ResultCode,omitempty"`
	ResultText string    `json:"ResultText,omitempty"`
	Signature  string    `json:"signature,omitempty"`
	Timestamp  Timestamp `json:"timestamp,omitempty"`

	Raw map[string]any `json:"-"`
}

// WebTokenResponse is returned by /web_token.
type WebTokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`

	Raw map[string]any `json:"-"`
}

// JobStatusOptions requests optional data in a job status response.
// Nil fields are omitted from the request.
type JobStatusOptions struct {
	ImageLinks *bool
	History    *bool
}

func (r *JobStatusResponse) setRaw(m map[string]any) { r.Raw = m }
func (r *SubmitJobResponse) setRaw(m map[string]any) { r.Raw = m }
func (r *IDAPIJobResponse) setRaw(m map[string]any)  { r.Raw = m }
func (r *WebTokenResponse) setRaw(m map[string]any)  { r.Raw = m }
