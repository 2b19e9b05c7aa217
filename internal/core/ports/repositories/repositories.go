package repositories

// RepositoryProvider bundles the concrete repositories handed to services.
type RepositoryProvider struct {
	AccountRepo AccountRepositoryFacade
	PostingRepo PostingRepositoryFacade
}
