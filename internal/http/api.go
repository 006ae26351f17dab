package httpapi

import (
	"github.com/gopalbasak1/wind-house-management-server/internal/events"
	"github.com/gopalbasak1/wind-house-management-server/internal/repository"
	"github.com/gopalbasak1/wind-house-management-server/internal/service"

	"go.uber.org/zap"
)

// Services 由 main 组装后传入
type Services struct {
	Tokens        *service.TokenService
	Users         *service.UserService
	Admin         *service.AdminService
	Agreements    *service.AgreementService
	Apartments    *service.ApartmentService
	Coupons       *service.CouponService
	Payments      *service.PaymentService
	Announcements *service.AnnouncementService
}

// NewServices wires every service onto one store.
func NewServices(st *repository.Store, tokens *service.TokenService, publisher events.Publisher, gateway service.PaymentGateway, currency string, logger *zap.Logger) *Services {
	return &Services{
		Tokens:        tokens,
		Users:         service.NewUserService(st.Users, logger),
		Admin:         service.NewAdminService(st, logger),
		Agreements:    service.NewAgreementService(st, publisher, logger),
		Apartments:    service.NewApartmentService(st.Apartments, logger),
		Coupons:       service.NewCouponService(st.Coupons, logger),
		Payments:      service.NewPaymentService(st.Payments, gateway, currency, publisher, logger),
		Announcements: service.NewAnnouncementService(st.Announcements, publisher, logger),
	}
}

// NewAPI builds the handler set; production switches cookies to
// Secure/SameSite=None.
func NewAPI(st *repository.Store, svc *Services, production bool, logger *zap.Logger) *API {
	return &API{
		Auth:          NewAuthHandler(svc.Tokens, production, logger),
		Users:         NewUserHandler(svc.Users, svc.Admin, logger),
		Agreements:    NewAgreementHandler(svc.Agreements, logger),
		Apartments:    NewApartmentHandler(svc.Apartments, logger),
		Coupons:       NewCouponHandler(svc.Coupons, logger),
		Payments:      NewPaymentHandler(svc.Payments, logger),
		Announcements: NewAnnouncementHandler(svc.Announcements, logger),
		Guard:         NewGuard(svc.Tokens, svc.Users, logger),
		Ping:          st.Ping,
	}
}
