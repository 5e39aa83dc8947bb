package domain

// TransferRepository defines the interface for transfer history persistence
type TransferRepository interface {
	// Create creates a new transfer record
	Create(transfer *Transfer) error

	// Update updates an existing transfer record
	Update(transfer *Transfer) error

	// FindByID finds a transfer by ID
	FindByID(id string) (*Transfer, error)

	// FindByPhase finds transfers by phase
	FindByPhase(phase Phase) ([]*Transfer, error)

	// FindAll finds all transfers, newest first
	FindAll() ([]*Transfer, error)

	// Count returns the total number of transfers
	Count() (int64, error)

	// GetStats returns transfer statistics
	GetStats() (*TransferStats, error)
}

// TransferStats represents transfer statistics
type TransferStats struct {
	Total     int64 `json:"total"`
	InFlight  int64 `json:"in_flight"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
}
