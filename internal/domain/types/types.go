package types

// Timestamp layouts shared by the session store and the history view.
// The store keeps timestamps as formatted strings, exactly like the
// original driver schema; every write and read must go through these.
const (
	TimestampLayout = "02-01-2006 15:04:05"
	DateLayout      = "02-01-2006"
	ClockLayout     = "15:04"
)

// Enum для типов транспорта
type VehicleType string

const (
	VehicleCar          VehicleType = "Car"
	VehicleVan          VehicleType = "Van"
	VehicleBike         VehicleType = "Bike"
	VehicleThreeWheeler VehicleType = "Three Wheeler"
)

func (v VehicleType) String() string {
	return string(v)
}

// DefaultVehicleType is used when a drive is started without choosing one.
const DefaultVehicleType = VehicleCar
