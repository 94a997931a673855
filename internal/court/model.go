package court

import "time"

type Court struct {
	ID          int       `db:"id" json:"id"`
	OwnerID     int       `db:"owner_id" json:"owner_id"`
	Name        string    `db:"name" json:"name"`
	Location    string    `db:"location" json:"location"`
	SurfaceType string    `db:"surface_type" json:"surface_type"`
	Amenities   string    `db:"amenities" json:"amenities,omitempty"`
	Description string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type CreateCourtRequest struct {
	Name        string `json:"name" binding:"required"`
	Location    string `json:"location" binding:"required"`
	SurfaceType string `json:"surface_type" binding:"required,oneof=hardcourt cushioned clay"`
	Amenities   string `json:"amenities"`
	Description string `json:"description"`
}
