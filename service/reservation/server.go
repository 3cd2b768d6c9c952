package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/QuangTung97/offer-reserve/model"
	"github.com/QuangTung97/offer-reserve/pkg/grpclib"
	"github.com/QuangTung97/offer-reserve/pkg/otellib"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const (
	actorIDHeader   = "X-Actor-Id"
	actorKindHeader = "X-Actor-Kind"
)

var errInvalidRequest = errors.New("invalid request")

// Server exposes the service as JSON over the gateway mux
type Server struct {
	service IService
	logger  *zap.Logger
}

// NewServer ...
func NewServer(s *Service, logger *zap.Logger) *Server {
	return &Server{
		service: NewIServiceWrapper(s,
			otel.GetTracerProvider().Tracer("server"), "service::"),
		logger: logger,
	}
}

type route struct {
	method  string
	path    string
	handler runtime.HandlerFunc
}

// Register adds every route to mux
func (s *Server) Register(mux *runtime.ServeMux) error {
	routes := []route{
		{http.MethodPost, "/v1/campaigns/{campaign_id}/offers", s.createOffer},
		{http.MethodPost, "/v1/campaigns/{campaign_id}/participate", s.participate},
		{http.MethodPost, "/v1/campaigns/{campaign_id}/approve-all-candidates", s.approveAllCandidates},
		{http.MethodPost, "/v1/campaigns/{campaign_id}/promote-selected", s.promoteSelected},
		{http.MethodPost, "/v1/campaigns/{campaign_id}/force-reserve", s.forceReserve},
		{http.MethodGet, "/v1/campaigns/{campaign_id}/candidates", s.listCandidates},
		{http.MethodPost, "/v1/campaigns/{campaign_id}/candidates/move", s.moveCandidate},
		{http.MethodGet, "/v1/campaigns/{campaign_id}/fund", s.getFundProgress},
		{http.MethodPost, "/v1/campaigns/{campaign_id}/launch", s.campaignAction(s.service.LaunchCampaign)},
		{http.MethodPost, "/v1/campaigns/{campaign_id}/complete", s.campaignAction(s.service.CompleteCampaign)},
		{http.MethodPost, "/v1/campaigns/{campaign_id}/stash", s.campaignAction(s.service.StashCampaign)},
		{http.MethodPost, "/v1/campaigns/{campaign_id}/restore", s.campaignAction(s.service.RestoreCampaign)},

		{http.MethodGet, "/v1/offers/{offer_id}", s.getOffer},
		{http.MethodGet, "/v1/offers/{offer_id}/state", s.getOfferState},
		{http.MethodGet, "/v1/offers/{offer_id}/events", s.listOfferEvents},
		{http.MethodPost, "/v1/offers/{offer_id}/reserve", s.offerAction(s.reserve)},
		{http.MethodPost, "/v1/offers/{offer_id}/request", s.offerAction(s.requestParticipation)},
		{http.MethodPost, "/v1/offers/{offer_id}/accept", s.offerAction(s.acceptRequest)},
		{http.MethodPost, "/v1/offers/{offer_id}/candidate", s.offerAction(s.setAsCandidate)},
		{http.MethodPost, "/v1/offers/{offer_id}/approve", s.offerAction(s.approveCandidate)},
		{http.MethodPost, "/v1/offers/{offer_id}/reject-candidate", s.offerAction(s.rejectCandidate)},
		{http.MethodPost, "/v1/offers/{offer_id}/promote", s.offerAction(s.promoteToAccepted)},
		{http.MethodPost, "/v1/offers/{offer_id}/reject", s.offerAction(s.reject)},
		{http.MethodPost, "/v1/offers/{offer_id}/revoke", s.offerAction(s.revoke)},
		{http.MethodPost, "/v1/offers/{offer_id}/revert-rejection", s.offerAction(s.revertRejection)},
		{http.MethodPost, "/v1/offers/{offer_id}/select", s.offerAction(s.setSelected)},
		{http.MethodPost, "/v1/offers/{offer_id}/claimable", s.offerAction(s.markClaimable)},
	}

	for _, r := range routes {
		if err := mux.HandlePath(r.method, r.path, r.handler); err != nil {
			return err
		}
	}
	return nil
}

type offerActionRequest struct {
	Answers              []model.Answer `json:"answers"`
	SuppressRewardChange bool           `json:"suppress_reward_change"`
	IgnoreCapacity       bool           `json:"ignore_capacity"`
	Selected             bool           `json:"selected"`
}

func (r offerActionRequest) admitOptions() AdmitOptions {
	return AdmitOptions{
		SuppressRewardChange: r.SuppressRewardChange,
		IgnoreCapacity:       r.IgnoreCapacity,
	}
}

type offerActionFunc func(ctx context.Context, actor model.Actor, offerID int64, req offerActionRequest) (model.Offer, error)

func (s *Server) reserve(ctx context.Context, actor model.Actor, offerID int64, _ offerActionRequest) (model.Offer, error) {
	return s.service.Reserve(ctx, actor, offerID)
}

func (s *Server) requestParticipation(
	ctx context.Context, actor model.Actor, offerID int64, req offerActionRequest,
) (model.Offer, error) {
	return s.service.RequestParticipation(ctx, actor, offerID, req.Answers)
}

func (s *Server) acceptRequest(
	ctx context.Context, actor model.Actor, offerID int64, req offerActionRequest,
) (model.Offer, error) {
	return s.service.AcceptRequest(ctx, actor, offerID, req.admitOptions())
}

func (s *Server) setAsCandidate(
	ctx context.Context, actor model.Actor, offerID int64, _ offerActionRequest,
) (model.Offer, error) {
	return s.service.SetAsCandidate(ctx, actor, offerID)
}

func (s *Server) approveCandidate(
	ctx context.Context, actor model.Actor, offerID int64, req offerActionRequest,
) (model.Offer, error) {
	return s.service.ApproveCandidate(ctx, actor, offerID, req.admitOptions())
}

func (s *Server) rejectCandidate(
	ctx context.Context, actor model.Actor, offerID int64, _ offerActionRequest,
) (model.Offer, error) {
	return s.service.RejectCandidate(ctx, actor, offerID)
}

func (s *Server) promoteToAccepted(
	ctx context.Context, actor model.Actor, offerID int64, _ offerActionRequest,
) (model.Offer, error) {
	return s.service.PromoteToAccepted(ctx, actor, offerID)
}

func (s *Server) reject(ctx context.Context, actor model.Actor, offerID int64, _ offerActionRequest) (model.Offer, error) {
	return s.service.Reject(ctx, actor, offerID)
}

func (s *Server) revoke(ctx context.Context, actor model.Actor, offerID int64, _ offerActionRequest) (model.Offer, error) {
	return s.service.Revoke(ctx, actor, offerID)
}

func (s *Server) revertRejection(
	ctx context.Context, actor model.Actor, offerID int64, _ offerActionRequest,
) (model.Offer, error) {
	return s.service.RevertRejection(ctx, actor, offerID)
}

func (s *Server) setSelected(
	ctx context.Context, actor model.Actor, offerID int64, req offerActionRequest,
) (model.Offer, error) {
	return s.service.SetSelected(ctx, actor, offerID, req.Selected)
}

func (s *Server) markClaimable(
	ctx context.Context, actor model.Actor, offerID int64, _ offerActionRequest,
) (model.Offer, error) {
	return s.service.MarkClaimable(ctx, actor, offerID)
}

func (s *Server) offerAction(action offerActionFunc) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		ctx := s.requestContext(r)

		offerID, err := pathInt64(params, "offer_id")
		if err != nil {
			s.writeError(ctx, w, err)
			return
		}
		actor, err := actorFromRequest(r)
		if err != nil {
			s.writeError(ctx, w, err)
			return
		}

		var req offerActionRequest
		if err := decodeBody(r, &req); err != nil {
			s.writeError(ctx, w, err)
			return
		}

		offer, err := action(ctx, actor, offerID, req)
		s.writeOffer(ctx, w, offer, err)
	}
}

type createOfferRequest struct {
	InfluencerID    int64          `json:"influencer_id"`
	SkipEligibility bool           `json:"skip_eligibility"`
	Answers         []model.Answer `json:"answers"`
}

func (s *Server) decodeCampaignRequest(
	r *http.Request, params map[string]string, body interface{},
) (int64, model.Actor, error) {
	campaignID, err := pathInt64(params, "campaign_id")
	if err != nil {
		return 0, model.Actor{}, err
	}
	actor, err := actorFromRequest(r)
	if err != nil {
		return 0, model.Actor{}, err
	}
	if body != nil {
		if err := decodeBody(r, body); err != nil {
			return 0, model.Actor{}, err
		}
	}
	return campaignID, actor, nil
}

func (s *Server) createOffer(w http.ResponseWriter, r *http.Request, params map[string]string) {
	ctx := s.requestContext(r)

	var req createOfferRequest
	campaignID, actor, err := s.decodeCampaignRequest(r, params, &req)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	offer, err := s.service.CreateOffer(ctx, actor, campaignID, req.InfluencerID, req.SkipEligibility)
	s.writeOffer(ctx, w, offer, err)
}

func (s *Server) participate(w http.ResponseWriter, r *http.Request, params map[string]string) {
	ctx := s.requestContext(r)

	var req createOfferRequest
	campaignID, actor, err := s.decodeCampaignRequest(r, params, &req)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	offer, err := s.service.Participate(ctx, actor, campaignID, req.InfluencerID, req.Answers)
	s.writeOffer(ctx, w, offer, err)
}

type bulkRequest struct {
	Force                bool    `json:"force"`
	OfferIDs             []int64 `json:"offer_ids"`
	SuppressRewardChange bool    `json:"suppress_reward_change"`
	IgnoreCapacity       bool    `json:"ignore_capacity"`
}

func (s *Server) approveAllCandidates(w http.ResponseWriter, r *http.Request, params map[string]string) {
	ctx := s.requestContext(r)

	var req bulkRequest
	campaignID, actor, err := s.decodeCampaignRequest(r, params, &req)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	result, err := s.service.ApproveAllCandidates(ctx, actor, campaignID, req.Force)
	s.writeBulk(ctx, w, result, err)
}

func (s *Server) promoteSelected(w http.ResponseWriter, r *http.Request, params map[string]string) {
	ctx := s.requestContext(r)

	var req bulkRequest
	campaignID, actor, err := s.decodeCampaignRequest(r, params, &req)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	result, err := s.service.PromoteSelected(ctx, actor, campaignID, req.Force)
	s.writeBulk(ctx, w, result, err)
}

func (s *Server) forceReserve(w http.ResponseWriter, r *http.Request, params map[string]string) {
	ctx := s.requestContext(r)

	var req bulkRequest
	campaignID, actor, err := s.decodeCampaignRequest(r, params, &req)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	result, err := s.service.ForceReserve(ctx, actor, campaignID, req.OfferIDs, AdmitOptions{
		SuppressRewardChange: req.SuppressRewardChange,
		IgnoreCapacity:       req.IgnoreCapacity,
	})
	s.writeBulk(ctx, w, result, err)
}

func (s *Server) listCandidates(w http.ResponseWriter, r *http.Request, params map[string]string) {
	ctx := s.requestContext(r)

	campaignID, err := pathInt64(params, "campaign_id")
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	list, err := s.service.ListCandidates(ctx, campaignID)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, candidatesView{
		Hash:   list.Hash,
		Offers: newOfferViews(list.Offers),
	})
}

type moveCandidateRequest struct {
	FromOfferID int64  `json:"from_offer_id"`
	ToOfferID   int64  `json:"to_offer_id"`
	Hash        string `json:"hash"`
}

func (s *Server) moveCandidate(w http.ResponseWriter, r *http.Request, params map[string]string) {
	ctx := s.requestContext(r)

	var req moveCandidateRequest
	campaignID, actor, err := s.decodeCampaignRequest(r, params, &req)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	hash, err := s.service.SetCandidatePosition(ctx, actor, campaignID, req.FromOfferID, req.ToOfferID, req.Hash)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"hash": hash})
}

func (s *Server) getFundProgress(w http.ResponseWriter, r *http.Request, params map[string]string) {
	ctx := s.requestContext(r)

	campaignID, err := pathInt64(params, "campaign_id")
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	progress, err := s.service.GetFundProgress(ctx, campaignID)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, fundView{
		Total:     progress.Total.String(),
		Reserved:  progress.Reserved.String(),
		Remaining: progress.Remaining.String(),
	})
}

type campaignActionFunc func(ctx context.Context, actor model.Actor, campaignID int64) (model.Campaign, error)

func (s *Server) campaignAction(action campaignActionFunc) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		ctx := s.requestContext(r)

		campaignID, actor, err := s.decodeCampaignRequest(r, params, nil)
		if err != nil {
			s.writeError(ctx, w, err)
			return
		}

		campaign, err := action(ctx, actor, campaignID)
		if err != nil {
			s.writeError(ctx, w, err)
			return
		}
		writeJSON(w, http.StatusOK, newCampaignView(campaign))
	}
}

func (s *Server) getOffer(w http.ResponseWriter, r *http.Request, params map[string]string) {
	ctx := s.requestContext(r)

	offerID, err := pathInt64(params, "offer_id")
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	offer, err := s.service.GetOffer(ctx, offerID)
	s.writeOffer(ctx, w, offer, err)
}

func (s *Server) getOfferState(w http.ResponseWriter, r *http.Request, params map[string]string) {
	ctx := s.requestContext(r)

	offerID, err := pathInt64(params, "offer_id")
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	state, err := s.service.GetOfferState(ctx, offerID)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"state": state.String()})
}

func (s *Server) listOfferEvents(w http.ResponseWriter, r *http.Request, params map[string]string) {
	ctx := s.requestContext(r)

	offerID, err := pathInt64(params, "offer_id")
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	events, err := s.service.ListOfferEvents(ctx, offerID)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"events": newEventViews(events)})
}

func (s *Server) requestContext(r *http.Request) context.Context {
	return otellib.ToContext(r.Context(), s.logger.With(
		zap.String("http.method", r.Method),
		zap.String("http.path", r.URL.Path),
	))
}

func (s *Server) writeOffer(ctx context.Context, w http.ResponseWriter, offer model.Offer, err error) {
	var changed *OfferRewardChangedError
	if errors.As(err, &changed) {
		writeJSON(w, http.StatusOK, offerResponse{
			Offer:         newOfferView(offer),
			RewardChanged: newRewardChangedView(changed),
		})
		return
	}
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, offerResponse{Offer: newOfferView(offer)})
}

func (s *Server) writeBulk(ctx context.Context, w http.ResponseWriter, result BulkResult, err error) {
	fullyReserved := errors.Is(err, ErrCampaignFullyReserved)
	if err != nil && !fullyReserved {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, newBulkResponse(result, fullyReserved))
}

func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	st := ToStatus(err)
	if st.Code() == codes.Internal {
		otellib.Extract(ctx).Error("request failed", zap.Error(err))
	}

	resp := errorResponse{
		Code:    st.Code().String(),
		Reason:  grpclib.GetReason(st),
		Message: st.Message(),
	}
	if delay, ok := grpclib.GetRetryDelay(st); ok {
		resp.RetryAfterMs = delay.Milliseconds()
		w.Header().Set("Retry-After", strconv.FormatInt(int64(delay.Seconds()+1), 10))
	}
	writeJSON(w, runtime.HTTPStatusFromCode(st.Code()), resp)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	return nil
}

func pathInt64(params map[string]string, name string) (int64, error) {
	value, err := strconv.ParseInt(params[name], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errInvalidRequest, name)
	}
	return value, nil
}

var actorKinds = map[string]model.ActorKind{
	"system":     model.ActorKindSystem,
	"influencer": model.ActorKindInfluencer,
	"advertiser": model.ActorKindAdvertiser,
	"admin":      model.ActorKindAdmin,
}

func actorFromRequest(r *http.Request) (model.Actor, error) {
	id := r.Header.Get(actorIDHeader)
	if id == "" {
		return model.Actor{}, fmt.Errorf("%w: missing %s header", errInvalidRequest, actorIDHeader)
	}
	kind, ok := actorKinds[strings.ToLower(r.Header.Get(actorKindHeader))]
	if !ok {
		return model.Actor{}, fmt.Errorf("%w: invalid %s header", errInvalidRequest, actorKindHeader)
	}
	return model.Actor{ID: id, Kind: kind}, nil
}
