package dto

import (
	"github.com/signme/signme-backend/internal/domain/types"
	"github.com/signme/signme-backend/pkg/validator"
)

type StartSessionRequest struct {
	StartLocation string `json:"start_location"`
	Destination   string `json:"destination"`
	VehicleType   string `json:"vehicle_type,omitempty"`
}

func ValidateStartSession(v *validator.Validator, req *StartSessionRequest) {
	v.Check(req.StartLocation != "", "start_location", "must be provided")
	v.Check(req.Destination != "", "destination", "must be provided")

	if req.VehicleType != "" {
		v.Check(validator.PermittedValue(types.VehicleType(req.VehicleType),
			types.VehicleCar, types.VehicleVan, types.VehicleBike, types.VehicleThreeWheeler),
			"vehicle_type", "must be one of Car, Van, Bike, Three Wheeler")
	}
}
