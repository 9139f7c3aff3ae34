package railapi

// RouteStation is one stop on a train's route as reported by the status API.
// Timestamps are unix seconds; nil means the API has no value (e.g. the train
// has not reached the station yet).
type RouteStation struct {
	StationCode                 string  `json:"stationCode"`
	StationName                 string  `json:"station_name"`
	PlatformNumber              *int    `json:"platformNumber"`
	ScheduledArrivalTime        *int64  `json:"scheduledArrivalTime"`
	ActualArrivalTime           *int64  `json:"actualArrivalTime"`
	ScheduledDepartureTime      *int64  `json:"scheduledDepartureTime"`
	ActualDepartureTime         *int64  `json:"actualDepartureTime"`
	ScheduledDepartureDelaySecs *int64  `json:"scheduledDepartureDelaySecs"`
	DistanceFromOriginKm        float64 `json:"distanceFromOriginKm"`
}

// PositionSnapshot is the live-position part of a status response.
type PositionSnapshot struct {
	StationCode               string  `json:"stationCode"`
	DistanceFromOriginKm      float64 `json:"distanceFromOriginKm"`
	DistanceFromLastStationKm float64 `json:"distanceFromLastStationKm"`
}

// TrainStatus is a full poll result. Success=false is a normal outcome
// (train not running, unknown number, upstream hiccup) and carries no data.
type TrainStatus struct {
	Success         bool
	Route           []RouteStation
	CurrentPosition PositionSnapshot
}
