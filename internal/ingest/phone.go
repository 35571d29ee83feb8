package ingest

import (
	"fmt"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
	apperrors "github.com/support-kit/helpdesk-ingest/pkg/util"
)

// ParsePhone normalizes an IVR/phone-system callback.
//
// Identity is the caller number and/or the business number called. The
// description prefers the transcript; a recording without transcript yields a
// fixed notice; otherwise a generic line naming the caller.
func ParsePhone(p Payload) (*Submission, error) {
	sub := newSubmission(domain.ChannelPhone)

	phoneNumber := p.First("phoneNumber", "from", "caller")
	calledNumber := p.First("calledNumber", "to")
	if phoneNumber == "" && calledNumber == "" {
		return nil, apperrors.NewValidationError("Phone number is required", nil)
	}

	recording := p.First("recording", "recordingUrl")
	switch {
	case p.String("transcript") != "":
		sub.Description = p.String("transcript")
	case recording != "":
		sub.Description = "Voice call received. Recording available."
	default:
		sub.Description = fmt.Sprintf("Phone call received from %s", phoneNumber)
	}

	sub.CustomerPhone = phoneNumber
	sub.CustomerName = p.First("callerName", "name")
	if sub.CustomerName == "" {
		sub.CustomerName = phoneNumber
	}
	sub.Title = fmt.Sprintf("Phone call from %s", sub.CustomerName)
	sub.Priority = explicitPriority(p.String("priority"))
	sub.TenantID = p.String("tenantId")
	sub.PhoneCandidates = dedupeStrings(calledNumber)
	sub.DedupKey = p.First("callId", "callSid")

	putMeta(sub.Metadata, "phoneNumber", phoneNumber)
	putMeta(sub.Metadata, "calledNumber", calledNumber)
	putMeta(sub.Metadata, "recording", recording)
	putMeta(sub.Metadata, "duration", p.String("duration"))
	putMeta(sub.Metadata, "callId", sub.DedupKey)
	return sub, nil
}
