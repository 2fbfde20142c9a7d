package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/courtvision/internal/domain/model"
)

type validateResponse struct {
	Valid bool `json:"valid"`
}

// HandleValidateCalibration handles POST /calibration/validate.
func HandleValidateCalibration(w http.ResponseWriter, r *http.Request) {
	const op = "api.validate_calibration"
	var cal model.CourtCalibration
	if err := json.NewDecoder(r.Body).Decode(&cal); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, validateResponse{Valid: cal.IsValid()})
}
