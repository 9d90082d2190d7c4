package service

import (
	"net/http"

	"expvote/internal/domain"
	apperrors "expvote/pkg/errors"
)

// domainErrors maps each voting sentinel to its transport representation
var domainErrors = []apperrors.Mapping{
	{Target: domain.ErrNotFound, Type: apperrors.ErrorTypeNotFound, StatusCode: http.StatusNotFound},
	{Target: domain.ErrVotingPeriodEnded, Type: apperrors.ErrorTypeVotingPeriodEnded, StatusCode: http.StatusConflict},
	{Target: domain.ErrVotingPeriodNotEnded, Type: apperrors.ErrorTypeVotingPeriodNotEnded, StatusCode: http.StatusConflict},
	{Target: domain.ErrInvalidStatus, Type: apperrors.ErrorTypeInvalidStatus, StatusCode: http.StatusConflict},
	{Target: domain.ErrInvalidChoice, Type: apperrors.ErrorTypeInvalidChoice, StatusCode: http.StatusBadRequest},
	{Target: domain.ErrInvalidAmount, Type: apperrors.ErrorTypeInvalidAmount, StatusCode: http.StatusBadRequest},
	{Target: domain.ErrInsufficientBalance, Type: apperrors.ErrorTypeInsufficientBalance, StatusCode: http.StatusUnprocessableEntity},
	{Target: domain.ErrTallyOverflow, Type: apperrors.ErrorTypeOverflow, StatusCode: http.StatusConflict},
	{Target: domain.ErrBalanceOverflow, Type: apperrors.ErrorTypeOverflow, StatusCode: http.StatusConflict},
	{Target: domain.ErrNotAuthorized, Type: apperrors.ErrorTypeNotAuthorized, StatusCode: http.StatusForbidden},
}

// ToAppError converts a voting or account error into its transport form
func ToAppError(err error) *apperrors.AppError {
	return apperrors.FromError(err, domainErrors)
}
