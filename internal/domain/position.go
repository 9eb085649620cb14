package domain

// Point is a reroute point on a connection, in canvas pixels
type Point struct {
	X float64 `json:"pos_x"`
	Y float64 `json:"pos_y"`
}
