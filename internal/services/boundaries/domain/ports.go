package domain

import "context"

// Source supplies the boundary features of one state
type Source interface {
	ForState(ctx context.Context, state string) ([]Feature, error)
}

// ServicePort is the boundaries surface used by HTTP and other modules
type ServicePort interface {
	Source
	States(ctx context.Context) ([]string, error)
	Wards(ctx context.Context, in StateInput) ([]WardName, error)
}
