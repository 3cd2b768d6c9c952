package reservation

import (
	"errors"
	"github.com/QuangTung97/offer-reserve/pkg/grpclib"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"time"
)

const busyRetryDelay = 200 * time.Millisecond

type statusMapping struct {
	err    error
	code   codes.Code
	reason string
}

var statusMappings = []statusMapping{
	{err: ErrCampaignFullyReserved, code: codes.ResourceExhausted, reason: "CAMPAIGN_FULLY_RESERVED"},
	{err: ErrInvalidStateTransition, code: codes.FailedPrecondition, reason: "INVALID_STATE_TRANSITION"},
	{err: ErrInvalidCampaignState, code: codes.FailedPrecondition, reason: "INVALID_CAMPAIGN_STATE"},
	{err: ErrInvalidCampaign, code: codes.FailedPrecondition, reason: "INVALID_CAMPAIGN"},
	{err: ErrCampaignNotCompletable, code: codes.FailedPrecondition, reason: "CAMPAIGN_NOT_COMPLETABLE"},
	{err: ErrInfluencerOnCooldown, code: codes.FailedPrecondition, reason: "INFLUENCER_ON_COOLDOWN"},
	{err: ErrInfluencerNotEligible, code: codes.PermissionDenied, reason: "INFLUENCER_NOT_ELIGIBLE"},
	{err: ErrStaleOrdering, code: codes.Aborted, reason: "STALE_ORDERING"},
	{err: ErrOfferAlreadyExists, code: codes.AlreadyExists, reason: "OFFER_ALREADY_EXISTS"},
	{err: ErrInvalidOfferID, code: codes.InvalidArgument, reason: "INVALID_OFFER_ID"},
	{err: ErrNotFound, code: codes.NotFound, reason: "NOT_FOUND"},
	{err: errInvalidRequest, code: codes.InvalidArgument, reason: "INVALID_REQUEST"},
}

// ToStatus maps service errors to gRPC status, unknown errors become Internal
func ToStatus(err error) *status.Status {
	if errors.Is(err, ErrReservationBusy) {
		return grpclib.NewRetryableStatus(codes.Unavailable, "RESERVATION_BUSY", err.Error(), busyRetryDelay)
	}
	for _, m := range statusMappings {
		if errors.Is(err, m.err) {
			return grpclib.NewStatus(m.code, m.reason, err.Error())
		}
	}
	return status.New(codes.Internal, err.Error())
}
