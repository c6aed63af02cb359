package domain

import "context"

// ServicePort is the session surface used by HTTP
type ServicePort interface {
	Create(ctx context.Context, in CreateInput) (SessionOutput, error)
	Turn(ctx context.Context, id string, in TurnInput) (TurnOutput, error)
	Result(ctx context.Context, id string) (ResultOutput, error)
	Delete(ctx context.Context, id string) error
}
