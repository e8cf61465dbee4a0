package adaptor

import (
	"errors"
	"net/http"

	"studio-booking/internal/scheduling"
	"studio-booking/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps domain errors onto HTTP responses.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var (
		validation *scheduling.ValidationError
		conflict   *scheduling.ConflictError
		notFound   *scheduling.NotFoundError
	)

	switch {
	case errors.As(err, &validation):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), map[string]string{validation.Field: validation.Reason})

	case errors.As(err, &conflict):
		log.Info(operation+" rejected - slot taken", zap.Error(err))
		ids := make([]string, len(conflict.ConflictingIDs))
		for i, id := range conflict.ConflictingIDs {
			ids[i] = id.String()
		}
		utils.ResponseConflict(w, "Studio is not available during the requested time slot",
			map[string]any{"conflicting_booking_ids": ids})

	case errors.As(err, &notFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, scheduling.ErrInvalidTransition), errors.Is(err, scheduling.ErrInvalidStatus):
		log.Warn(operation+" failed - invalid state", zap.Error(err))
		utils.ResponseUnprocessable(w, err.Error())

	default:
		log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
