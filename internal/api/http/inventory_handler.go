package http

import (
	"net/http"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/report"
	"bloodlink-backend/internal/service"

	"github.com/gorilla/mux"
)

type InventoryHandler struct {
	inventorySvc service.InventoryService
}

func NewInventoryHandler(inventorySvc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventorySvc: inventorySvc}
}

func (h *InventoryHandler) Register(r *mux.Router) {
	r.HandleFunc("/banks", h.CreateBloodBank).Methods(http.MethodPost).Name("CreateBloodBank")
	r.HandleFunc("/banks", h.ListBloodBanks).Methods(http.MethodGet).Name("ListBloodBanks")
	r.HandleFunc("/banks/{id:[0-9]+}/stock", h.GetStock).Methods(http.MethodGet).Name("GetStock")
	r.HandleFunc("/donations", h.RecordDonation).Methods(http.MethodPost).Name("RecordDonation")
	r.HandleFunc("/reports/inventory.xlsx", h.InventoryReport).Methods(http.MethodGet).Name("InventoryReport")
}

type createBankBody struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Contact  string `json:"contact"`
}

func (h *InventoryHandler) CreateBloodBank(w http.ResponseWriter, r *http.Request) {
	var body createBankBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	bank, err := h.inventorySvc.CreateBloodBank(r.Context(), body.Name, body.Location, body.Contact)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, bank)
}

func (h *InventoryHandler) ListBloodBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := h.inventorySvc.ListBloodBanks(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if banks == nil {
		banks = []domain.BloodBank{}
	}
	writeJSON(w, http.StatusOK, listBody{Items: banks, Total: int32(len(banks))})
}

func (h *InventoryHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	stock, err := h.inventorySvc.GetStock(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if stock == nil {
		stock = []domain.BloodStock{}
	}
	writeJSON(w, http.StatusOK, listBody{Items: stock, Total: int32(len(stock))})
}

type recordDonationBody struct {
	DonorID     int32 `json:"donor_id"`
	BloodBankID int32 `json:"blood_bank_id"`
	Quantity    int32 `json:"quantity"`
}

func (h *InventoryHandler) RecordDonation(w http.ResponseWriter, r *http.Request) {
	var body recordDonationBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := h.inventorySvc.RecordDonation(r.Context(), body.DonorID, body.BloodBankID, body.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *InventoryHandler) InventoryReport(w http.ResponseWriter, r *http.Request) {
	snap, err := h.inventorySvc.Snapshot(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := report.InventoryWorkbook(snap)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+report.Filename(snap.TakenAt))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
