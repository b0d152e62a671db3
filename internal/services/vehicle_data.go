// internal/services/vehicle_data.go
package services

// VehicleModel pairs a model with the oil viscosity its engine needs.
type VehicleModel struct {
	Name      string `json:"name"`
	Viscosity string `json:"viscosity"`
}

type VehicleBrand struct {
	Name   string         `json:"name"`
	Models []VehicleModel `json:"models"`
}

// vehicleCatalog lists the cars common in Uzbekistan, in display order.
var vehicleCatalog = []VehicleBrand{
	{Name: "Chevrolet", Models: []VehicleModel{
		{"Spark (1.0/1.25)", "5W-30"},
		{"Nexia 1 (SOHC)", "10W-40"},
		{"Nexia 1/2 (DOHC)", "10W-40"},
		{"Nexia 3", "5W-30"},
		{"Cobalt", "5W-30"},
		{"Gentra", "5W-30"},
		{"Lacetti (1.8)", "10W-40"},
		{"Malibu 1", "5W-30"},
		{"Malibu 2 (1.5/2.0 Turbo)", "5W-30"},
		{"Tracker 1", "5W-30"},
		{"Tracker 2", "0W-20"},
		{"Captiva 1/2", "5W-40"},
		{"Captiva 3/4", "5W-30"},
		{"Captiva 5 (2024)", "5W-30"},
		{"Tahoe", "0W-20"},
		{"Traverse", "5W-30"},
		{"Equinox", "5W-30"},
		{"Trailblazer", "5W-30"},
		{"Orlando", "5W-30"},
		{"Damas", "10W-40"},
		{"Labo", "10W-40"},
		{"Monza", "5W-30"},
		{"Onix", "0W-20"},
	}},
	{Name: "Daewoo", Models: []VehicleModel{
		{"Matiz (0.8/1.0)", "10W-40"},
		{"Nexia 1 (SOHC)", "10W-40"},
		{"Nexia 1/2 (DOHC)", "10W-40"},
		{"Tico", "10W-40"},
		{"Damas (Old)", "15W-40"},
		{"Espero", "10W-40"},
		{"Leganza", "10W-40"},
	}},
	{Name: "Hyundai", Models: []VehicleModel{
		{"Accent", "5W-40"},
		{"Elantra", "5W-30"},
		{"Sonata", "5W-30"},
		{"Tucson", "5W-30"},
		{"Santa Fe", "5W-30"},
		{"Creta", "5W-30"},
		{"Palisade", "5W-30"},
		{"Getz", "10W-40"},
		{"I30", "5W-30"},
		{"Starex", "10W-40"},
	}},
	{Name: "Kia", Models: []VehicleModel{
		{"K5", "5W-30"},
		{"K8", "0W-20"},
		{"Seltos", "5W-30"},
		{"Sportage", "5W-30"},
		{"Sorento", "5W-30"},
		{"Carnival", "5W-30"},
		{"Rio", "5W-40"},
		{"Cerato", "5W-30"},
		{"Picanto", "5W-30"},
		{"Stinger", "5W-30"},
		{"Telluride", "5W-30"},
		{"Sonet", "5W-30"},
	}},
	{Name: "Toyota", Models: []VehicleModel{
		{"Corolla", "5W-30"},
		{"Camry", "5W-30"},
		{"RAV4", "5W-30"},
		{"Land Cruiser Prado", "5W-30"},
		{"Land Cruiser 200", "5W-30"},
		{"Land Cruiser 300", "0W-20"},
		{"Highlander", "5W-30"},
		{"Hilux", "5W-30"},
		{"Yaris", "5W-30"},
	}},
	{Name: "Lada (VAZ)", Models: []VehicleModel{
		{"Vesta", "5W-40"},
		{"XRay", "5W-40"},
		{"Granta", "10W-40"},
		{"Largus", "10W-40"},
		{"Niva Legend (4x4)", "10W-40"},
		{"Niva Travel", "10W-40"},
		{"Priora", "10W-40"},
		{"Kalina", "10W-40"},
		{"2107", "10W-40"},
		{"2106", "15W-40"},
	}},
	{Name: "BYD (Hybrid/PHEV)", Models: []VehicleModel{
		{"Song Plus DM-i", "0W-20"},
		{"Chazor (Destroyer 05)", "0W-20"},
		{"Han DM-i", "0W-20"},
		{"Tang DM-i", "0W-20"},
		{"Qin Plus", "0W-20"},
	}},
	{Name: "Chery", Models: []VehicleModel{
		{"Tiggo 7 Pro", "5W-30"},
		{"Tiggo 8 Pro", "5W-30"},
		{"Arrizo 6", "5W-30"},
	}},
	{Name: "Jetour", Models: []VehicleModel{
		{"X70 Plus", "5W-30"},
		{"X90 Plus", "5W-30"},
		{"Dashing", "5W-30"},
	}},
	{Name: "BMW", Models: []VehicleModel{
		{"3 Series", "5W-30"},
		{"5 Series", "5W-30"},
		{"7 Series", "5W-30"},
		{"X3", "5W-30"},
		{"X5", "5W-30"},
		{"X6", "5W-40"},
		{"X7", "5W-40"},
	}},
	{Name: "Mercedes-Benz", Models: []VehicleModel{
		{"C-Class", "5W-40"},
		{"E-Class", "5W-40"},
		{"S-Class", "5W-40"},
		{"G-Class (Gelik)", "5W-40"},
		{"GLE", "5W-30"},
		{"GLS", "5W-30"},
	}},
}
