package services

import (
	portsrepo "github.com/rtmsys/weighbridge_app/internal/core/ports/repositories"
	portssvc "github.com/rtmsys/weighbridge_app/internal/core/ports/services"
)

// NewContainer creates a service container with properly initialized dependencies.
func NewContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Weighing: NewWeighingService(repos.WeighingRepo),
		User:     NewUserService(repos.UserRepo),
	}
}

// Compile-time interface checks.
var (
	_ portssvc.WeighingSvcFacade = (*WeighingService)(nil)
	_ portssvc.UserSvcFacade     = (*UserService)(nil)
)
