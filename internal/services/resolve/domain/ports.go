package domain

import "context"

// ServicePort is the resolve surface used by HTTP
type ServicePort interface {
	Resolve(ctx context.Context, in ResolveInput) (ReportDTO, error)
}
