package http

import (
	"net/http"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/service"

	"github.com/gorilla/mux"
)

type ProfileHandler struct {
	profileSvc service.ProfileService
	requestSvc service.RequestService
}

func NewProfileHandler(profileSvc service.ProfileService, requestSvc service.RequestService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc, requestSvc: requestSvc}
}

func (h *ProfileHandler) Register(r *mux.Router) {
	r.HandleFunc("/donors", h.CreateDonor).Methods(http.MethodPost).Name("CreateDonor")
	r.HandleFunc("/donors/me", h.GetMyDonor).Methods(http.MethodGet).Name("GetMyDonor")
	r.HandleFunc("/donors/{id:[0-9]+}", h.GetDonor).Methods(http.MethodGet).Name("GetDonor")
	r.HandleFunc("/donors/{id:[0-9]+}", h.UpdateDonor).Methods(http.MethodPatch).Name("UpdateDonor")
	r.HandleFunc("/donors/{id:[0-9]+}/requests", h.ListDonorRequests).Methods(http.MethodGet).Name("ListDonorRequests")

	r.HandleFunc("/recipients", h.CreateRecipient).Methods(http.MethodPost).Name("CreateRecipient")
	r.HandleFunc("/recipients/me", h.GetMyRecipient).Methods(http.MethodGet).Name("GetMyRecipient")
	r.HandleFunc("/recipients/{id:[0-9]+}", h.GetRecipient).Methods(http.MethodGet).Name("GetRecipient")
}

type createDonorBody struct {
	UserID           int32      `json:"user_id,omitempty"`
	BloodGroup       string     `json:"blood_group"`
	LastDonationDate *time.Time `json:"last_donation_date,omitempty"`
}

func (h *ProfileHandler) CreateDonor(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body createDonorBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	userID, err := targetUser(caller, body.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := h.profileSvc.CreateDonorProfile(r.Context(), userID, body.BloodGroup, body.LastDonationDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *ProfileHandler) GetMyDonor(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, err := h.profileSvc.GetDonorProfileByUser(r.Context(), caller.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ProfileHandler) GetDonor(w http.ResponseWriter, r *http.Request) {
	view, ok := h.ownedDonor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type updateDonorBody struct {
	BloodGroup       jsonOptional[string]     `json:"blood_group"`
	LastDonationDate jsonOptional[*time.Time] `json:"last_donation_date"`
}

func (b updateDonorBody) command() (domain.DonorProfileUpdate, error) {
	var cmd domain.DonorProfileUpdate
	if b.BloodGroup.set {
		g, err := domain.ParseBloodGroup(b.BloodGroup.value)
		if err != nil {
			return cmd, err
		}
		cmd.BloodGroup = domain.Some(g)
	}
	if b.LastDonationDate.set {
		cmd.LastDonationDate = domain.Some(b.LastDonationDate.value)
	}
	return cmd, nil
}

// UpdateDonor applies a partial update. An explicit null last_donation_date
// clears it; omitted fields are left alone.
func (h *ProfileHandler) UpdateDonor(w http.ResponseWriter, r *http.Request) {
	current, ok := h.ownedDonor(w, r)
	if !ok {
		return
	}
	var body updateDonorBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	cmd, err := body.command()
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := h.profileSvc.UpdateDonorProfile(r.Context(), current.ID, cmd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ProfileHandler) ListDonorRequests(w http.ResponseWriter, r *http.Request) {
	donor, ok := h.ownedDonor(w, r)
	if !ok {
		return
	}
	items, err := h.requestSvc.ListDonorRequests(r.Context(), donor.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.DonorRequestItem{}
	}
	writeJSON(w, http.StatusOK, listBody{Items: items, Total: int32(len(items))})
}

// ownedDonor loads the donor in the path and checks a non-admin caller owns it.
func (h *ProfileHandler) ownedDonor(w http.ResponseWriter, r *http.Request) (*domain.DonorView, bool) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	view, err := h.profileSvc.GetDonorProfile(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	if !caller.IsAdmin() && view.UserID != caller.UserID {
		writeError(w, r, forbidden("donor profile belongs to another user"))
		return nil, false
	}
	return view, true
}

type createRecipientBody struct {
	UserID     int32  `json:"user_id,omitempty"`
	Name       string `json:"name"`
	BloodGroup string `json:"blood_group"`
	Hospital   string `json:"hospital"`
}

func (h *ProfileHandler) CreateRecipient(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body createRecipientBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	userID, err := targetUser(caller, body.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.profileSvc.CreateRecipientProfile(r.Context(), userID, body.Name, body.BloodGroup, body.Hospital)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProfileHandler) GetMyRecipient(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.profileSvc.GetRecipientProfileByUser(r.Context(), caller.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) GetRecipient(w http.ResponseWriter, r *http.Request) {
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
	p, err := h.profileSvc.GetRecipientProfile(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !caller.IsAdmin() && p.UserID != caller.UserID {
		writeError(w, r, forbidden("recipient profile belongs to another user"))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// targetUser is the user a profile is created for: the caller, or any user
// when an admin names one.
func targetUser(caller Caller, requested int32) (int32, error) {
	if requested == 0 || requested == caller.UserID {
		return caller.UserID, nil
	}
	if !caller.IsAdmin() {
		return 0, forbidden("only admins may create profiles for another user")
	}
	return requested, nil
}
