package app

import (
	"database/sql"

	auditrepo "experimentation-control-plane/internal/audit/repository"
	experimentrepo "experimentation-control-plane/internal/experiment/repository"
	rolloutrepo "experimentation-control-plane/internal/rollout/repository"
)

type Repos struct {
	Experiments experimentrepo.Repository
	Rollouts    rolloutrepo.Repository
	Audit       auditrepo.Repository
}

// wireRepos returns Postgres repositories over db, or in-memory ones when db is nil.
func wireRepos(db *sql.DB) Repos {
	if db == nil {
		return Repos{
			Experiments: experimentrepo.NewMemoryRepository(),
			Rollouts:    rolloutrepo.NewMemoryRepository(),
			Audit:       auditrepo.NewMemoryRepository(),
		}
	}
	return Repos{
		Experiments: experimentrepo.NewPostgresRepository(db),
		Rollouts:    rolloutrepo.NewPostgresRepository(db),
		Audit:       auditrepo.NewPostgresRepository(db),
	}
}
