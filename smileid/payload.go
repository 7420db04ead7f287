package smileid

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

var (
	jobRequestKeys = []string{
		"partner_id", "default_callback", "partner_params", "image_details", "id_info",
		"signature", "timestamp", "source_sdk", "source_sdk_version", "callback_url",
	}
	jobStatusRequestKeys = []string{
		"partner_id", "user_id", "job_id", "image_links", "history", "signature", "timestamp",
	}
	webTokenRequestKeys = []string{
		"partner_id", "user_id", "job_id", "product", "callback_url", "signature", "timestamp",
		"source_sdk", "source_sdk_version",
	}
	idInfoKeys = []string{
		"first_name", "last_name", "middle_name", "country", "id_type", "id_number", "dob",
		"phone_number", "entered", "business_name", "business_type", "business_registration_number",
	}
)

// jobRequest is the body of /upload and /id_verification.
type jobRequest struct {
	PartnerID        string        `json:"partner_id"`
	DefaultCallback  string        `json:"default_callback,omitempty"`
	PartnerParams    PartnerParams `json:"partner_params"`
	ImageDetails     []ImageData   `json:"image_details,omitempty"`
	IDInfo           *IDInfo       `json:"id_info,omitempty"`
	Signature        string        `json:"signature"`
	Timestamp        string        `json:"timestamp"`
	SourceSDK        string        `json:"source_sdk"`
	SourceSDKVersion string        `json:"source_sdk_version"`
	CallbackURL      string        `json:"callback_url,omitempty"`
}

type jobStatusRequest struct {
	PartnerID  string `json:"partner_id"`
	UserID     string `json:"user_id"`
	JobID      string `json:"job_id"`
	ImageLinks *bool  `json:"image_links,omitempty"`
	History    *bool  `json:"history,omitempty"`
	Signature  string `json:"signature"`
	Timestamp  string `json:"timestamp"`
}

type webTokenRequest struct {
	PartnerID        string `json:"partner_id"`
	UserID           string `json:"user_id"`
	JobID            string `json:"job_id"`
	Product          string `json:"product"`
	CallbackURL      string `json:"callback_url,omitempty"`
	Signature        string `json:"signature"`
	Timestamp        string `json:"timestamp"`
	SourceSDK        string `json:"source_sdk"`
	SourceSDKVersion string `json:"source_sdk_version"`
}

// buildPayload encodes named into an object and adds the extra keys that are
// neither reserved nor already set. Skipped keys are passed to dropped.
func buildPayload(named any, extra map[string]any, reserved []string, dropped func(key string)) (map[string]any, error) {
	fields, err := toMap(named)
	if err != nil {
		return nil, err
	}
	mergeExtra(fields, extra, reserved, dropped)
	return fields, nil
}

func mergeExtra(dst, extra map[string]any, reserved []string, dropped func(key string)) {
	for key, value := range extra {
		if _, taken := dst[key]; taken || slices.Contains(reserved, key) {
			if dropped != nil {
				dropped(key)
			}
			continue
		}
		dst[key] = value
	}
}

func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	fields := make(map[string]any)
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return fields, nil
}
