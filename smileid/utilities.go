package smileid

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/gaborage/go-smileid/signature"
)

// DefaultStatusConcurrency bounds GetJobStatuses when no limit is given.
const DefaultStatusConcurrency = 4

// Utilities offers job status lookups with response signature verification.
type Utilities struct {
	base *base
}

// JobRef identifies a submitted job.
type JobRef struct {
	UserID string
	JobID  string
}

// GetJobStatus fetches the status of a job. When the response carries both a
// signature and a timestamp the signature is verified, and ErrInvalidSignature
// is returned if it does not match.
func (u *Utilities) GetJobStatus(ctx context.Context, userID, jobID string, opts *JobStatusOptions) (*JobStatusResponse, error) {
	resp, err := u.base.jobStatus(ctx, userID, jobID, opts)
	if err != nil {
		return nil, err
	}
	if err := u.VerifyResponse(resp.Signature, resp.Timestamp); err != nil {
		return nil, err
	}
	return resp, nil
}

// VerifyResponse checks a signature returned by the API against the configured credentials.
// An empty signature or timestamp is not checked.
func (u *Utilities) VerifyResponse(sig string, timestamp Timestamp) error {
	if sig == "" || timestamp == "" {
		return nil
	}
	b := u.base
	ts, err := signature.ParseTimestamp(string(timestamp))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	if result := b.signer.Verify(ts, sig, b.cfg.PartnerID, b.cfg.APIKey); !result.Valid {
		b.logger.Warn().Int64("timestamp", ts).Msg("Job status signature did not verify")
		return ErrInvalidSignature
	}
	return nil
}

// GetJobStatuses fetches several jobs with at most limit requests in flight.
// Results are in the order of jobs. The first failure cancels the remaining lookups.
func (u *Utilities) GetJobStatuses(ctx context.Context, jobs []JobRef, limit int, opts *JobStatusOptions) ([]*JobStatusResponse, error) {
	if limit <= 0 {
		limit = DefaultStatusConcurrency
	}
	results := make([]*JobStatusResponse, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, job := range jobs {
		g.Go(func() error {
			resp, err := u.GetJobStatus(gctx, job.UserID, job.JobID, opts)
			if err != nil {
				return fmt.Errorf("job %s: %w", job.JobID, err)
			}
			results[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
