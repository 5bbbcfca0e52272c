// package models defines the data model for the playlist analyser
package models

import (
	"time"
)

// Model defines the base interface for all persistent models. [ReportRecord] is the only one today.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
//
// Deleted models are soft-deleted: Get and List stop returning them and a second Delete fails with a not-found error.
type Repository[T Model] interface {
	Create(model T) error                      // Create assigns the ID and sequence, then inserts the model
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Delete(id string) error                    // Delete marks a model as deleted by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves models matching the given criteria, newest first
}
