package phone_number

import (
	"context"
	"fmt"
	"time"

	"github.com/katatrina/cmis-BE/internal/otp"
	"github.com/katatrina/cmis-BE/internal/sms"
)

// PhoneNumberService verifies that a user owns a phone number before notifications are sent to it.
type PhoneNumberService struct {
	otpService *otp.OTPService
	gateway    sms.Gateway
}

func NewPhoneService(otpService *otp.OTPService, gateway sms.Gateway) *PhoneNumberService {
	return &PhoneNumberService{
		otpService: otpService,
		gateway:    gateway,
	}
}

// SendOTP texts a fresh verification code to phoneNumber.
func (s *PhoneNumberService) SendOTP(ctx context.Context, phoneNumber string) (expiresAt time.Time, err error) {
	if s.gateway == nil || !s.gateway.Configured() {
		return time.Time{}, sms.ErrNotConfigured
	}

	code, expiresAt, err := s.otpService.GenerateOTP(ctx, phoneNumber)
	if err != nil {
		return time.Time{}, err
	}

	message := fmt.Sprintf("Your CMIS verification code is %s. It expires at %s.",
		code, expiresAt.Format("15:04 02/01/2006"))

	if _, err = s.gateway.SendSMS(ctx, phoneNumber, message); err != nil {
		return time.Time{}, fmt.Errorf("failed to send OTP: %w", err)
	}

	return expiresAt, nil
}

// VerifyOTP checks the code sent to phoneNumber.
func (s *PhoneNumberService) VerifyOTP(ctx context.Context, phoneNumber string, code string) error {
	return s.otpService.VerifyOTP(ctx, phoneNumber, code)
}
