// Package storage groups data access behind the domain repository
// interfaces. The postgres subpackage is the production implementation.
package storage

import (
	"github.com/gatherly/server/internal/domain/categories"
	"github.com/gatherly/server/internal/domain/comments"
	"github.com/gatherly/server/internal/domain/compilations"
	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/requests"
	"github.com/gatherly/server/internal/domain/users"
	"github.com/gatherly/server/internal/stats"
)

// Repository bundles the per-domain repositories of one store.
type Repository interface {
	Events() events.Repository
	Requests() requests.Repository
	Categories() categories.Repository
	Users() users.Repository
	Compilations() compilations.Repository
	Comments() comments.Repository
	Stats() stats.Repository
}
