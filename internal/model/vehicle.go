package model

import "strings"

// VehicleClass is the billing category of a vehicle.
type VehicleClass string

const (
	ClassCar        VehicleClass = "Car"
	ClassMotorcycle VehicleClass = "Motorcycle"
)

// ParseVehicleClass normalizes user input into a VehicleClass.
func ParseVehicleClass(s string) (VehicleClass, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "car":
		return ClassCar, true
	case "motorcycle":
		return ClassMotorcycle, true
	}
	return "", false
}
