package domain

// Route is the canonical shape of one bookable schedule as the UI consumes it.
type Route struct {
	ID             string  `json:"id"`
	ScheduleID     string  `json:"scheduleId"`
	VehicleID      string  `json:"vehicleId"`
	From           string  `json:"from"`
	To             string  `json:"to"`
	Type           string  `json:"type"`
	Name           string  `json:"name"`
	VehicleNumber  string  `json:"vehicleNumber"`
	BusType        string  `json:"busType"`
	DepartureTime  string  `json:"departureTime"`
	ArrivalTime    string  `json:"arrivalTime"`
	Duration       string  `json:"duration"`
	ScheduleDate   string  `json:"scheduleDate"`
	Price          float64 `json:"price"`
	AvailableSeats int     `json:"availableSeats"`
	TotalSeats     int     `json:"totalSeats"`
	OwnerName      string  `json:"ownerName"`
	AgencyName     string  `json:"agencyName"`
}
