package types

import "time"

// CreateDogInput carries a validated dog registration. The breed is resolved by name.
type CreateDogInput struct {
	Name        string
	DateOfBirth time.Time
	BreedName   string
	OwnerID     *int64
}
