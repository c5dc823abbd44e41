package mocks

//go:generate mockery --name CounterStore --srcpkg github.com/aevon-lab/pageviews/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
