package leads

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"autohub.ng/autohub-web/internal/api"
	"autohub.ng/autohub-web/internal/metrics"
	"autohub.ng/autohub-web/internal/observability"
)

// GenericFailure is shown when the API could not accept a submission.
const GenericFailure = "We couldn't send your request right now. Please check your connection and try again."

// ErrUnknownForm is returned by Parse for unrecognised form kinds.
var ErrUnknownForm = errors.New("leads: unknown form")

// Poster is the subset of api.Client used to submit leads.
type Poster interface {
	SubmitLead(ctx context.Context, path string, payload any) (api.LeadResponse, error)
}

// Outcome is the result of an accepted submission.
type Outcome struct {
	Message     string
	FollowUpURL string
}

// SubmitError wraps an API failure. Its message is safe to show to users.
type SubmitError struct {
	Form string
	Err  error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("leads: submit %s: %v", e.Form, e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }

// Submitter validates forms and forwards them to the API.
type Submitter struct {
	poster Poster
}

// NewSubmitter builds a Submitter.
func NewSubmitter(p Poster) *Submitter {
	return &Submitter{poster: p}
}

// Submit validates f and posts it. Invalid forms return a *ValidationError without any
// network call; API failures return a *SubmitError. Nothing is retried.
func (s *Submitter) Submit(ctx context.Context, f Form) (Outcome, error) {
	logger := observability.FromContext(ctx).With(zap.String("form", f.Kind()))

	if err := Validate(f); err != nil {
		metrics.LeadSubmissions.WithLabelValues(f.Kind(), "invalid").Inc()
		logger.Debug("lead rejected", zap.Error(err))
		return Outcome{}, err
	}

	resp, err := s.poster.SubmitLead(ctx, f.Endpoint(), f.Payload())
	if err != nil {
		metrics.LeadSubmissions.WithLabelValues(f.Kind(), "error").Inc()
		logger.Warn("lead submission failed", zap.Error(err))
		return Outcome{}, &SubmitError{Form: f.Kind(), Err: err}
	}

	metrics.LeadSubmissions.WithLabelValues(f.Kind(), "ok").Inc()
	logger.Info("lead submitted")
	return Outcome{
		Message:     strings.TrimSpace(resp.Message),
		FollowUpURL: resp.FollowUpURL(),
	}, nil
}

// UserMessages converts a Submit error into the messages shown in the error modal.
func UserMessages(err error) []string {
	if err == nil {
		return nil
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Messages()
	}
	return []string{GenericFailure}
}

// Parse builds the form named kind from submitted values.
func Parse(kind string, v url.Values) (Form, error) {
	switch kind {
	case "pre_order", "pre-order":
		return ParsePreOrder(v), nil
	case "loan_application", "loan-application":
		return ParseLoanApplication(v), nil
	case "sell_swap", "sell-swap":
		return ParseSellSwap(v), nil
	case "contact":
		return ParseContact(v), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownForm, kind)
}
