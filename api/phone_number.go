package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgtype"
	db "github.com/katatrina/cmis-BE/internal/db/sqlc"
	"github.com/katatrina/cmis-BE/internal/otp"
	"github.com/katatrina/cmis-BE/internal/sms"
	"github.com/katatrina/cmis-BE/internal/token"
	"github.com/katatrina/cmis-BE/internal/validator"
	"github.com/rs/zerolog/log"
)

type sendPhoneNumberOTPRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
}

type sendPhoneNumberOTPResponse struct {
	PhoneNumber string    `json:"phone_number"`
	ExpiresAt   time.Time `json:"expires_at"`
}

//	@Summary		Send a verification code to a phone number
//	@Description	Texts a one-time code that proves the authenticated user owns the phone number.
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Security		accessToken
//	@Param			request	body		sendPhoneNumberOTPRequest	true	"Phone number"
//	@Success		200		{object}	sendPhoneNumberOTPResponse
//	@Failure		422		{object}	FailedValidationResponse
//	@Failure		503		"SMS gateway not configured"
//	@Router			/v1/users/me/phone-number/otp [post]
func (server *Server) sendPhoneNumberOTP(ctx *gin.Context) {
	req := new(sendPhoneNumberOTPRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	if err := validator.ValidatePhoneNumber(req.PhoneNumber); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, failedValidationError([]*FieldViolation{fieldViolation("phone_number", err)}))
		return
	}

	expiresAt, err := server.phoneVerifier.SendOTP(ctx, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, sms.ErrNotConfigured) {
			ctx.JSON(http.StatusServiceUnavailable, errorResponse(err))
			return
		}

		log.Err(err).Str("phone_number", req.PhoneNumber).Msg("failed to send phone number OTP")
		ctx.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
		return
	}

	ctx.JSON(http.StatusOK, sendPhoneNumberOTPResponse{
		PhoneNumber: req.PhoneNumber,
		ExpiresAt:   expiresAt,
	})
}

type verifyPhoneNumberRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	OTPCode     string `json:"otp_code" binding:"required,len=6"`
}

//	@Summary		Verify a phone number and save it as the SMS contact
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Security		accessToken
//	@Param			request	body		verifyPhoneNumberRequest	true	"Phone number and code"
//	@Success		200		{object}	db.User
//	@Failure		401		"Invalid OTP code"
//	@Failure		404		"OTP expired or never sent"
//	@Failure		429		"Too many attempts"
//	@Router			/v1/users/me/phone-number/verify [post]
func (server *Server) verifyPhoneNumber(ctx *gin.Context) {
	authPayload := ctx.MustGet(authorizationPayloadKey).(*token.Payload)

	req := new(verifyPhoneNumberRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	err := server.phoneVerifier.VerifyOTP(ctx, req.PhoneNumber, req.OTPCode)
	if err != nil {
		switch {
		case errors.Is(err, otp.ErrInvalidOTP):
			ctx.JSON(http.StatusUnauthorized, errorResponse(err))
		case errors.Is(err, otp.ErrOTPNotFound):
			ctx.JSON(http.StatusNotFound, errorResponse(err))
		case errors.Is(err, otp.ErrTooManyAttempts):
			ctx.JSON(http.StatusTooManyRequests, errorResponse(err))
		default:
			log.Err(err).Msg("failed to verify phone number OTP")
			ctx.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
		}
		return
	}

	user, err := server.dbStore.UpdateUserContact(ctx, db.UpdateUserContactParams{
		ID:          authPayload.Subject,
		PhoneNumber: pgtype.Text{String: req.PhoneNumber, Valid: true},
	})
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			err = fmt.Errorf("user ID %s not found", authPayload.Subject)
			ctx.JSON(http.StatusNotFound, errorResponse(err))
			return
		}

		log.Err(err).Msg("failed to update user's phone number")
		ctx.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
		return
	}

	ctx.JSON(http.StatusOK, user)
}
