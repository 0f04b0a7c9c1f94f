package controllers

import (
	"os"

	"github.com/creative2/guest-feedback-server/config"
	"github.com/creative2/guest-feedback-server/services"
)

// Các service dựng trên config.DB. Controller luôn đi qua đây thay vì
// query bảng token/email trực tiếp.

func tokenService() *services.TokenService {
	return services.NewTokenService(services.NewGormTokenRepository(config.DB))
}

func dispatcher() *services.Dispatcher {
	return services.NewDispatcher(
		services.NewGormNotificationRepository(config.DB),
		services.NewSMTPMailer(),
	)
}

func membershipResolver() *services.MembershipResolver {
	return services.NewMembershipResolver(services.NewGormMembershipStore(config.DB))
}

// frontendBaseURL là gốc link feedback nhúng trong mail
func frontendBaseURL() string {
	if v := os.Getenv("FRONTEND_BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:5173"
}
