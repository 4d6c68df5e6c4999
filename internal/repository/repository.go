package repository

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Storage StorageRepository
	Session SessionRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(storage StorageRepository, session SessionRepository) *Repository {
	return &Repository{
		Storage: storage,
		Session: session,
	}
}

// NewMemoryRepository 全内存实现（默认驱动与测试）
func NewMemoryRepository() *Repository {
	return NewRepository(NewMemoryStorage(), NewMemorySessions())
}
