package httpapi

import (
	"net/http"

	"github.com/gopalbasak1/wind-house-management-server/internal/service"

	"go.uber.org/zap"
)

// ApartmentHandler 公寓列表（全部 / 分页）
type ApartmentHandler struct {
	apartments *service.ApartmentService
	logger     *zap.Logger
}

func NewApartmentHandler(apartments *service.ApartmentService, logger *zap.Logger) *ApartmentHandler {
	return &ApartmentHandler{apartments: apartments, logger: logger}
}

func (h *ApartmentHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.apartments.ListAllApartments(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

// ListPage GET /apartment?page=&limit=&minRent=&maxRent=
func (h *ApartmentHandler) ListPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.apartments.ListApartments(r.Context(), service.ListApartmentsRequest{
		Page:    parseInt(q.Get("page"), service.DefaultApartmentPage),
		Limit:   parseInt(q.Get("limit"), service.DefaultApartmentLimit),
		MinRent: parseFloat(q.Get("minRent"), 0),
		MaxRent: parseFloat(q.Get("maxRent"), 0),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	res.Items = nonNil(res.Items)
	writeJSON(w, http.StatusOK, res)
}

type CouponHandler struct {
	coupons *service.CouponService
	logger  *zap.Logger
}

func NewCouponHandler(coupons *service.CouponService, logger *zap.Logger) *CouponHandler {
	return &CouponHandler{coupons: coupons, logger: logger}
}

func (h *CouponHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req service.UpsertCouponRequest
	if !decodeOr400(w, r, &req) {
		return
	}
	res, err := h.coupons.UpsertCoupon(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.coupons.ListCoupons(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	res, err := h.coupons.DeleteCoupon(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *CouponHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req service.ValidateCouponRequest
	if !decodeOr400(w, r, &req) {
		return
	}
	res, err := h.coupons.ValidateCoupon(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type AnnouncementHandler struct {
	announcements *service.AnnouncementService
	logger        *zap.Logger
}

func NewAnnouncementHandler(announcements *service.AnnouncementService, logger *zap.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{announcements: announcements, logger: logger}
}

func (h *AnnouncementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateAnnouncementRequest
	if !decodeOr400(w, r, &req) {
		return
	}
	res, err := h.announcements.CreateAnnouncement(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *AnnouncementHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.announcements.ListAnnouncements(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}
