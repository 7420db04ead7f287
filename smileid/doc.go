// Package smileid is a client for the Smile Identity KYC API.
//
// A Service groups the API surfaces:
//   - WebAPI submits biometric, document and SmartSelfie jobs (/upload),
//     polls job status (/job_status) and issues hosted web tokens (/web_token).
//   - IDAPI submits Enhanced KYC, Basic KYC and Business Verification jobs
//     (/id_verification, job_type 5).
//   - Utilities polls job status and verifies the signature the API returns.
//   - Signature exposes the HMAC engine used to sign every request.
//
// Every call is executed by an httpclient.Client with the retry policy and
// per-attempt timeout taken from config.SmileIDConfig. Failures returned by
// the API are *httpclient.Error values; use httpclient.IsCode to inspect them.
//
// Caller-supplied Extra fields are merged into request payloads but never
// overwrite the named fields the SDK sets itself.
package smileid
