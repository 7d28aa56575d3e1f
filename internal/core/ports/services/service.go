package services

// ServiceContainer bundles all services for dependency injection into the
// handlers layer.
type ServiceContainer struct {
	Weighing WeighingSvcFacade
	User     UserSvcFacade
}
