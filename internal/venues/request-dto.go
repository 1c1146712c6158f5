package venues

type CreateVenueRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=120"`
	Location string `json:"location" binding:"max=255"`
	Capacity int    `json:"capacity" binding:"required,gt=0"`
}
