package http

import (
	"context"
	"errors"
	"net/http"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/service"

	"github.com/gorilla/mux"
)

type RequestHandler struct {
	requestSvc service.RequestService
	profileSvc service.ProfileService
}

func NewRequestHandler(requestSvc service.RequestService, profileSvc service.ProfileService) *RequestHandler {
	return &RequestHandler{requestSvc: requestSvc, profileSvc: profileSvc}
}

func (h *RequestHandler) Register(r *mux.Router) {
	r.HandleFunc("/requests", h.CreateRequest).Methods(http.MethodPost).Name("CreateRequest")
	r.HandleFunc("/requests", h.ListRequests).Methods(http.MethodGet).Name("ListRequests")
	r.HandleFunc("/requests/{id:[0-9]+}", h.GetRequest).Methods(http.MethodGet).Name("GetRequest")
	r.HandleFunc("/requests/{id:[0-9]+}", h.UpdateStatus).Methods(http.MethodPut).Name("UpdateRequestStatus")
	r.HandleFunc("/requests/{id:[0-9]+}", h.DeleteRequest).Methods(http.MethodDelete).Name("DeleteRequest")
	r.HandleFunc("/requests/{id:[0-9]+}/fulfill", h.FulfillRequest).Methods(http.MethodPost).Name("FulfillRequest")
	r.HandleFunc("/requests/{id:[0-9]+}/respond", h.RespondToRequest).Methods(http.MethodPost).Name("RespondToRequest")
	r.HandleFunc("/donors/match", h.MatchDonors).Methods(http.MethodGet).Name("MatchDonors")
}

type createRequestBody struct {
	BloodGroup string `json:"blood_group"`
	Quantity   int32  `json:"quantity"`
	// Admins may file on behalf of a recipient user.
	RecipientUserID int32 `json:"recipient_user_id,omitempty"`
}

func (h *RequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body createRequestBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	recipientUserID := caller.UserID
	if body.RecipientUserID != 0 && body.RecipientUserID != caller.UserID {
		if !caller.IsAdmin() {
			writeError(w, r, forbidden("only admins may file requests for another user"))
			return
		}
		recipientUserID = body.RecipientUserID
	}

	req, err := h.requestSvc.CreateRequest(r.Context(), recipientUserID, body.BloodGroup, body.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logger.InfoContext(r.Context(), "Blood request created", "requestID", req.ID, "callerID", caller.UserID)
	writeJSON(w, http.StatusCreated, req)
}

func (h *RequestHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var filter domain.RequestFilter
	if s := r.URL.Query().Get("status"); s != "" {
		if filter.Status, err = domain.ParseRequestStatus(s); err != nil {
			writeError(w, r, err)
			return
		}
	}
	if filter.RecipientID, err = queryInt(r, "recipient_id"); err != nil {
		writeError(w, r, err)
		return
	}
	if filter.Page, err = queryInt(r, "page"); err != nil {
		writeError(w, r, err)
		return
	}
	if filter.PageSize, err = queryInt(r, "page_size"); err != nil {
		writeError(w, r, err)
		return
	}

	// Recipients only see their own requests.
	if caller.Role == domain.UserRoleRecipient {
		profile, err := h.profileSvc.GetRecipientProfileByUser(r.Context(), caller.UserID)
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusOK, listBody{Items: []domain.BloodRequest{}, Total: 0})
			return
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
		filter.RecipientID = profile.ID
	}

	reqs, total, err := h.requestSvc.ListRequests(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if reqs == nil {
		reqs = []domain.BloodRequest{}
	}
	writeJSON(w, http.StatusOK, listBody{Items: reqs, Total: total, Page: filter.Page, PageSize: filter.PageSize})
}

// GetRequest lets recipients read only their own requests, the same scope
// ListRequests applies. Donors and admins may read any request.
func (h *RequestHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := h.requestSvc.GetRequest(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if caller.Role == domain.UserRoleRecipient && !ownsRequest(caller, req) {
		writeError(w, r, forbidden("request belongs to another recipient"))
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func ownsRequest(caller Caller, req *domain.BloodRequest) bool {
	return req.RecipientUserID == caller.UserID
}

type updateStatusBody struct {
	Status   string `json:"status"`
	Override bool   `json:"override,omitempty"`
}

func (h *RequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body updateStatusBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if body.Override && !caller.IsAdmin() {
		writeError(w, r, forbidden("override requires the admin role"))
		return
	}

	if !caller.IsAdmin() {
		current, err := h.requestSvc.GetRequest(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if !ownsRequest(caller, current) {
			writeError(w, r, forbidden("request belongs to another recipient"))
			return
		}
	}

	req, err := h.requestSvc.UpdateStatus(r.Context(), id, body.Status, body.Override)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *RequestHandler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.requestSvc.DeleteRequest(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type fulfillBody struct {
	DonorID     int32 `json:"donor_id,omitempty"`
	BloodBankID int32 `json:"blood_bank_id,omitempty"`
}

func (h *RequestHandler) FulfillRequest(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body fulfillBody
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, r, err)
			return
		}
	}
	donorID, err := h.actingDonor(r.Context(), caller, body.DonorID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	req, err := h.requestSvc.FulfillByDonor(r.Context(), id, donorID, body.BloodBankID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logger.DebugContext(r.Context(), "Blood request fulfilled by donor", "requestID", req.ID, "donorID", donorID)
	writeJSON(w, http.StatusOK, req)
}

type respondBody struct {
	DonorID  int32  `json:"donor_id,omitempty"`
	Response string `json:"response"`
}

func (h *RequestHandler) RespondToRequest(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body respondBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	donorID, err := h.actingDonor(r.Context(), caller, body.DonorID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	link, err := h.requestSvc.DonorRespond(r.Context(), id, donorID, body.Response)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

func (h *RequestHandler) MatchDonors(w http.ResponseWriter, r *http.Request) {
	group := r.URL.Query().Get("blood_group")
	if group == "" {
		writeError(w, r, domain.Validation("blood_group is required"))
		return
	}
	donors, err := h.requestSvc.FindMatchingDonors(r.Context(), unescapePlus(group))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listBody{Items: donors, Total: int32(len(donors))})
}

// actingDonor resolves the donor a call acts as. Donors always act as
// themselves; admins must name the donor.
func (h *RequestHandler) actingDonor(ctx context.Context, caller Caller, requested int32) (int32, error) {
	if caller.IsAdmin() {
		if requested <= 0 {
			return 0, domain.Validation("donor_id is required")
		}
		return requested, nil
	}
	own, err := h.profileSvc.GetDonorProfileByUser(ctx, caller.UserID)
	if err != nil {
		return 0, err
	}
	if requested != 0 && requested != own.ID {
		return 0, forbidden("donors may only act for themselves")
	}
	return own.ID, nil
}
