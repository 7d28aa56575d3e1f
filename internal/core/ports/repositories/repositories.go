package repositories

// RepositoryProvider bundles all repositories for dependency injection.
type RepositoryProvider struct {
	WeighingRepo WeighingRepository
	UserRepo     UserRepository
}
